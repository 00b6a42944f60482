package storage

import (
	"context"
	"fmt"
	"io"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// ImageStore holds tool logo images in an object storage backend, keyed
// by tool identifier.
type ImageStore struct {
	backend ObjectStorage
}

// NewImageStore constructs an ImageStore for the provided backend.
func NewImageStore(backend ObjectStorage) *ImageStore {
	return &ImageStore{backend: backend}
}

// EnsureBucket ensures the configured bucket exists.
func (s *ImageStore) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// PutToolImage stores a tool's logo and returns the object key.
func (s *ImageStore) PutToolImage(ctx context.Context, toolID string, r io.Reader, size int64, contentType string) (string, error) {
	key := ToolImageKey(toolID)
	if err := s.backend.Put(ctx, key, r, size, contentType); err != nil {
		return "", err
	}
	return key, nil
}

// GetToolImage opens a reader for a tool's stored logo.
func (s *ImageStore) GetToolImage(ctx context.Context, toolID string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, ToolImageKey(toolID))
}

// DeleteToolImage removes a tool's stored logo.
func (s *ImageStore) DeleteToolImage(ctx context.Context, toolID string) error {
	return s.backend.Delete(ctx, ToolImageKey(toolID))
}

// Bucket returns the configured bucket name.
func (s *ImageStore) Bucket() string {
	return s.backend.Bucket()
}

// ToolImageKey returns the object key under which a tool's logo is stored.
func ToolImageKey(toolID string) string {
	return fmt.Sprintf("tools/%s/logo", toolID)
}
