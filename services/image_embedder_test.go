package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"

	"backend/models"
	"backend/storage"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestEmbedScalesIntoFixedBox(t *testing.T) {
	src := testPNG(t, 800, 200)
	var gotContainer, gotBlob string
	e := NewImageEmbedder(func(containerID, blobName string) ([]byte, error) {
		gotContainer, gotBlob = containerID, blobName
		return src, nil
	}, 2)

	att := models.Attachment{AttachmentID: 9, EquipmentID: 5, Name: "pit oil stain", LowName: "3f1c_low.jpg"}
	block := e.Embed(context.Background(), att)

	if !block.OK() {
		t.Fatalf("embed failed: fallback=%q reason=%s", block.Fallback, block.FailReason)
	}
	if gotContainer != "5" || gotBlob != "3f1c_low.jpg" {
		t.Errorf("fetched (%q, %q), want (\"5\", \"3f1c_low.jpg\")", gotContainer, gotBlob)
	}
	if block.Width != 400 || block.Height != 300 {
		t.Errorf("block size %dx%d, want 400x300", block.Width, block.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(block.Data))
	if err != nil {
		t.Fatalf("decode embedded image: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("embedded format %q, want jpeg", format)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Errorf("embedded image is %dx%d, want 400x300", b.Dx(), b.Dy())
	}
}

func TestEmbedFallbackClassification(t *testing.T) {
	att := models.Attachment{AttachmentID: 3, EquipmentID: 1, Name: "door sill", LowName: "a_low.jpg"}

	cases := []struct {
		name   string
		fetch  storage.FetchFunc
		reason string
	}{
		{"missing blob", func(string, string) ([]byte, error) { return nil, fs.ErrNotExist }, storage.FetchReasonNotFound},
		{"permission", func(string, string) ([]byte, error) { return nil, fs.ErrPermission }, storage.FetchReasonAccessDenied},
		{"network", func(string, string) ([]byte, error) { return nil, errors.New("connection refused") }, storage.FetchReasonNetwork},
		{"unclassified", func(string, string) ([]byte, error) { return nil, errors.New("boom") }, storage.FetchReasonUnknown},
		{"undecodable bytes", func(string, string) ([]byte, error) { return []byte("not an image"), nil }, storage.FetchReasonUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewImageEmbedder(tc.fetch, 1)
			block := e.Embed(context.Background(), att)
			if block.OK() {
				t.Fatal("expected a fallback block")
			}
			if want := "[Image: door sill - Failed to load]"; block.Fallback != want {
				t.Errorf("fallback %q, want %q", block.Fallback, want)
			}
			if block.FailReason != tc.reason {
				t.Errorf("reason %q, want %q", block.FailReason, tc.reason)
			}
		})
	}
}

func TestEmbedAllPreservesOrder(t *testing.T) {
	src := testPNG(t, 40, 30)
	e := NewImageEmbedder(func(containerID, blobName string) ([]byte, error) {
		if blobName == "bad_low.jpg" {
			return nil, fs.ErrNotExist
		}
		return src, nil
	}, 2)

	atts := []models.Attachment{
		{AttachmentID: 1, EquipmentID: 1, Name: "first", LowName: "ok_low.jpg"},
		{AttachmentID: 2, EquipmentID: 1, Name: "second", LowName: "bad_low.jpg"},
		{AttachmentID: 3, EquipmentID: 1, Name: "third", LowName: "ok_low.jpg"},
	}
	blocks := e.EmbedAll(context.Background(), atts)

	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}
	if !blocks[0].OK() || !blocks[2].OK() {
		t.Error("expected the first and third blocks to carry image data")
	}
	if blocks[1].OK() {
		t.Error("expected the second block to be a fallback")
	}
	if want := "[Image: second - Failed to load]"; blocks[1].Fallback != want {
		t.Errorf("fallback %q, want %q", blocks[1].Fallback, want)
	}
}

func TestNewImageEmbedderDefaultsLimit(t *testing.T) {
	e := NewImageEmbedder(failingFetch, 0)
	if !e.sem.TryAcquire(DefaultImageFetchLimit) {
		t.Fatalf("semaphore smaller than the default limit %d", DefaultImageFetchLimit)
	}
	if e.sem.TryAcquire(1) {
		t.Error("semaphore larger than the default limit")
	}
}

func TestImageFetchLimitFromEnv(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  int64
	}{
		{"explicit", "8", 8},
		{"unparseable", "eight", DefaultImageFetchLimit},
		{"non-positive", "-2", DefaultImageFetchLimit},
		{"unset", "", DefaultImageFetchLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("REPORT_IMAGE_FETCH_LIMIT", tc.value)
			if got := ImageFetchLimitFromEnv(); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}
