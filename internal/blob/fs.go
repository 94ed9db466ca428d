package blob

import (
	"context"
	"os"
	"path/filepath"
)

// FSStore writes objects under a local directory. Used by the local and
// cloud-dev build targets where no bucket is available.
type FSStore struct {
	root    string
	baseURL string
}

// NewFSStore creates a filesystem store rooted at dir. baseURL prefixes
// returned URLs; when empty, file:// URLs are produced.
func NewFSStore(dir, baseURL string) *FSStore {
	return &FSStore{root: dir, baseURL: baseURL}
}

func (s *FSStore) Save(ctx context.Context, path, contentType string, data []byte) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	if s.baseURL != "" {
		return s.baseURL + "/" + path, nil
	}
	return "file://" + full, nil
}

func (s *FSStore) Delete(ctx context.Context, path string) error {
	return os.Remove(filepath.Join(s.root, filepath.FromSlash(path)))
}

// HealthPing verifies the root directory exists and is writable.
func (s *FSStore) HealthPing(ctx context.Context) error {
	return os.MkdirAll(s.root, 0o755)
}
