// Package testutil provides shared test helpers for status files and journals.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/modeswitch/internal/journal"
	"github.com/starford/modeswitch/internal/statusfile"
)

// TestJournal creates a temporary SQLite journal that is automatically cleaned up.
func TestJournal(t *testing.T) *journal.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "modeswitch-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := journal.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestStatusFile creates a status file with the given contents in a temp
// directory and returns a store bound to it.
func TestStatusFile(t *testing.T, contents string) *statusfile.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "status.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return statusfile.New(path)
}
