package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/kenangan-app/kenangan-server/internal/store"
	"github.com/kenangan-app/kenangan-server/internal/store/storetest"
)

func makeSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kenangan-test.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	return s
}

func TestSQLiteStore_Compliance(t *testing.T) {
	storetest.Run(t, makeSQLiteStore)
}
