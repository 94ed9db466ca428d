package factory

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"

	"github.com/kenangan-app/kenangan-server/internal/blob"
	"github.com/kenangan-app/kenangan-server/internal/config"
)

// NewBlobStore returns the configured blob.Store implementation.
func NewBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	switch cfg.BlobDriver {
	case "fs":
		return blob.NewFSStore(cfg.BlobDir, ""), nil
	case "gcs":
		client, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		return blob.NewGCSStore(client, cfg.StorageBucket), nil
	default:
		return nil, fmt.Errorf("unknown BLOB_DRIVER: %s", cfg.BlobDriver)
	}
}
