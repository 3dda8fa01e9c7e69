package helpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// GCSImageStore keeps product images in a single bucket.
type GCSImageStore struct {
	client *storage.Client
	bucket string
}

func NewGCSImageStore(client *storage.Client, bucket string) *GCSImageStore {
	return &GCSImageStore{client: client, bucket: bucket}
}

// Upload copies a local file into bucket/objectPath.
func (s *GCSImageStore) Upload(ctx context.Context, localPath, objectPath, contentType string) (entity.Image, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return entity.Image{}, err
	}
	defer f.Close()

	wc := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, f); err != nil {
		_ = wc.Close()
		return entity.Image{}, err
	}
	if err := wc.Close(); err != nil {
		return entity.Image{}, err
	}
	return entity.Image{PublicID: objectPath, URL: GCSPublicURL(s.bucket, objectPath)}, nil
}

// Delete removes an object; a missing object is not an error.
func (s *GCSImageStore) Delete(ctx context.Context, objectPath string) error {
	err := s.client.Bucket(s.bucket).Object(objectPath).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (s *GCSImageStore) Close() error { return s.client.Close() }

// GCSPublicURL builds a public URL for an object (assuming public read access or signed URLs)
func GCSPublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}
