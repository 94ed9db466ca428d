// Package blob abstracts durable object storage for generated scrapbook pages.
package blob

import "context"

// Store persists binary objects under deterministic paths and exposes a
// public URL for each written object.
type Store interface {
	// Save writes data under path with the given content type, marks the
	// object publicly readable, and returns its public URL.
	Save(ctx context.Context, path, contentType string, data []byte) (string, error)
	// Delete removes a previously written object. Used as a best-effort
	// compensation when the follow-up record write fails.
	Delete(ctx context.Context, path string) error
}
