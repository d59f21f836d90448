package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"
	"os"
	"strconv"
	"sync"

	"backend/models"
	"backend/storage"

	"golang.org/x/image/draw"
	"golang.org/x/sync/semaphore"
)

// Embedded evidence images render at a fixed size.
const (
	embedImageWidth  = 400
	embedImageHeight = 300
)

// DefaultImageFetchLimit caps in-flight blob fetches across one whole
// document render unless REPORT_IMAGE_FETCH_LIMIT overrides it.
const DefaultImageFetchLimit = 4

// ImageBlock is the per-attachment result consumed by the row
// builders: either image bytes ready to embed, or a textual fallback
// with the categorized failure reason. Never both.
type ImageBlock struct {
	Data       []byte
	Width      int
	Height     int
	Fallback   string
	FailReason string
}

// OK reports whether the block carries embeddable image data.
func (b ImageBlock) OK() bool {
	return len(b.Data) > 0
}

// ImageEmbedder turns attachment references into embeddable image
// blocks. Fetch failures never propagate: they downgrade to a fallback
// block and a categorized log line. One semaphore bounds all in-flight
// fetches for the embedder's lifetime (one document render).
type ImageEmbedder struct {
	fetch storage.FetchFunc
	sem   *semaphore.Weighted
}

func NewImageEmbedder(fetch storage.FetchFunc, fetchLimit int64) *ImageEmbedder {
	if fetchLimit <= 0 {
		fetchLimit = DefaultImageFetchLimit
	}
	return &ImageEmbedder{fetch: fetch, sem: semaphore.NewWeighted(fetchLimit)}
}

// ImageFetchLimitFromEnv reads the configured fetch cap, falling back
// to the default on absent or unparseable values.
func ImageFetchLimitFromEnv() int64 {
	if v := os.Getenv("REPORT_IMAGE_FETCH_LIMIT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return DefaultImageFetchLimit
}

// Embed fetches the attachment's low-size variant and scales it into
// the fixed embed box. On any failure it returns the fallback block.
func (e *ImageEmbedder) Embed(ctx context.Context, att models.Attachment) ImageBlock {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return e.fallback(att, err)
	}
	data, err := e.fetch(strconv.Itoa(att.EquipmentID), att.LowName)
	e.sem.Release(1)
	if err != nil {
		return e.fallback(att, err)
	}

	resized, err := scaleToEmbedBox(data)
	if err != nil {
		return e.fallback(att, err)
	}

	return ImageBlock{Data: resized, Width: embedImageWidth, Height: embedImageHeight}
}

// EmbedAll fetches a batch of attachments concurrently (one row of the
// defective-items table) and returns blocks in input order. The shared
// semaphore keeps the document-wide fetch cap intact.
func (e *ImageEmbedder) EmbedAll(ctx context.Context, atts []models.Attachment) []ImageBlock {
	blocks := make([]ImageBlock, len(atts))
	var wg sync.WaitGroup
	for i, att := range atts {
		wg.Add(1)
		go func(i int, att models.Attachment) {
			defer wg.Done()
			blocks[i] = e.Embed(ctx, att)
		}(i, att)
	}
	wg.Wait()
	return blocks
}

func (e *ImageEmbedder) fallback(att models.Attachment, err error) ImageBlock {
	reason := storage.ClassifyFetchError(err)
	if reason == "" || reason == storage.FetchReasonUnknown {
		// decode failures land here too
		reason = storage.FetchReasonUnknown
	}
	log.Printf("image embed failed for attachment %d (%s): reason=%s err=%v",
		att.AttachmentID, att.Name, reason, err)
	return ImageBlock{
		Fallback:   fmt.Sprintf("[Image: %s - Failed to load]", att.Name),
		FailReason: reason,
	}
}

// scaleToEmbedBox decodes JPEG/PNG bytes and resamples them into the
// fixed 400x300 box, re-encoding as JPEG.
func scaleToEmbedBox(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported image format: %v", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, embedImageWidth, embedImageHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %v", err)
	}
	return buf.Bytes(), nil
}
