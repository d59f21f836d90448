package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Fetch failure reasons, recorded when an attachment read fails so the
// report engine can log why an image was skipped.
const (
	FetchReasonDataMissing  = "data-missing"
	FetchReasonNetwork      = "network"
	FetchReasonAccessDenied = "access-denied"
	FetchReasonNotFound     = "not-found"
	FetchReasonUnknown      = "unknown"
)

// FetchFunc is the byte-fetch contract the report engine consumes:
// read one named blob from one container.
type FetchFunc func(containerID, blobName string) ([]byte, error)

// BlobStore stores attachment bytes on the local filesystem, one
// directory per container under a configured root.
type BlobStore struct {
	root string
}

func NewBlobStore(root string) *BlobStore {
	return &BlobStore{root: root}
}

// Fetch reads one blob. The name is stripped to its base so a stored
// name can never escape the container directory.
func (s *BlobStore) Fetch(containerID, blobName string) ([]byte, error) {
	if blobName == "" {
		return nil, fmt.Errorf("blob name is empty: %w", errBlobDataMissing)
	}
	path := filepath.Join(s.root, containerID, filepath.Base(blobName))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("blob %s is empty: %w", blobName, errBlobDataMissing)
	}
	return data, nil
}

// Save writes one blob, creating the container directory if needed.
func (s *BlobStore) Save(containerID, blobName string, data []byte) error {
	dir := filepath.Join(s.root, containerID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create container directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filepath.Base(blobName)), data, 0644); err != nil {
		return fmt.Errorf("failed to write blob: %v", err)
	}
	return nil
}

var errBlobDataMissing = errors.New("blob data missing")

// ClassifyFetchError buckets a fetch failure into one of the fixed
// reason codes used for logging.
func ClassifyFetchError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errBlobDataMissing):
		return FetchReasonDataMissing
	case errors.Is(err, fs.ErrNotExist):
		return FetchReasonNotFound
	case errors.Is(err, fs.ErrPermission):
		return FetchReasonAccessDenied
	case strings.Contains(err.Error(), "connection"), strings.Contains(err.Error(), "timeout"):
		return FetchReasonNetwork
	}
	return FetchReasonUnknown
}
