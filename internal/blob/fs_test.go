package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFSStore_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewFSStore(dir, "http://localhost:8080/blobs")
	ctx := context.Background()

	url, err := s.Save(ctx, "families/f1/scrapbooks/2026-08-14_123.png", "image/png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if url != "http://localhost:8080/blobs/families/f1/scrapbooks/2026-08-14_123.png" {
		t.Fatalf("unexpected url: %s", url)
	}

	full := filepath.Join(dir, "families", "f1", "scrapbooks", "2026-08-14_123.png")
	b, err := os.ReadFile(full)
	if err != nil || string(b) != "png-bytes" {
		t.Fatalf("read back: %q err=%v", b, err)
	}

	if err := s.Delete(ctx, "families/f1/scrapbooks/2026-08-14_123.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Fatalf("object should be gone, stat err=%v", err)
	}
}

func TestFSStore_FileURLWithoutBase(t *testing.T) {
	s := NewFSStore(t.TempDir(), "")
	url, err := s.Save(context.Background(), "a/b.png", "image/png", []byte("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(url, "file://") {
		t.Fatalf("expected file:// url, got %s", url)
	}
}
