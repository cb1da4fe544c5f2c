package store

import (
	"path/filepath"
	"testing"

	"github.com/torrico/rollcall/internal/contact"
)

// createTestStore creates a file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestPatch builds a patch with the fields most tests care about.
func createTestPatch(phone, name, cohortID string) contact.Patch {
	return contact.Patch{
		Phone:    phone,
		Name:     name,
		CohortID: cohortID,
		OptIn:    "TRUE",
	}
}
