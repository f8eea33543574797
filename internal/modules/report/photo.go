// README: Evidence photos stored in the Firebase Storage bucket.
package report

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"cloud.google.com/go/storage"
)

// PhotoStore persists an evidence file and returns a URL for it.
type PhotoStore interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

type GCSPhotoStore struct {
	bucket *storage.BucketHandle
	name   string
}

func NewGCSPhotoStore(bucket *storage.BucketHandle, name string) *GCSPhotoStore {
	return &GCSPhotoStore{bucket: bucket, name: name}
}

func (g *GCSPhotoStore) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	w := g.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "private, max-age=0"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write to storage: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.name, (&url.URL{Path: key}).EscapedPath()), nil
}

func (g *GCSPhotoStore) Delete(ctx context.Context, key string) error {
	if err := g.bucket.Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
