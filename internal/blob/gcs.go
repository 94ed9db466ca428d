package blob

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
)

// publicHost is the canonical host serving publicly readable GCS objects.
const publicHost = "https://storage.googleapis.com"

// GCSStore writes objects to a Cloud Storage bucket.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(client *gcs.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

func (s *GCSStore) Save(ctx context.Context, path, contentType string, data []byte) (string, error) {
	obj := s.client.Bucket(s.bucket).Object(path)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs close %s: %w", path, err)
	}

	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", fmt.Errorf("gcs make public %s: %w", path, err)
	}
	return fmt.Sprintf("%s/%s/%s", publicHost, s.bucket, path), nil
}

func (s *GCSStore) Delete(ctx context.Context, path string) error {
	return s.client.Bucket(s.bucket).Object(path).Delete(ctx)
}

// HealthPing verifies the bucket is reachable.
func (s *GCSStore) HealthPing(ctx context.Context) error {
	_, err := s.client.Bucket(s.bucket).Attrs(ctx)
	return err
}
