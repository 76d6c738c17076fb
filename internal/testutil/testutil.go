// Package testutil provides shared test helpers for setting up documentation
// trees and graph databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/docsaudit/internal/index"
	"github.com/starford/docsaudit/internal/storage"
)

// TestDB creates a temporary graph database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "graph.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestTree creates a temporary documentation tree from path → content pairs
// and returns its root with a storage provider over it.
func TestTree(t *testing.T, files map[string]string) (string, *storage.FS) {
	t.Helper()
	root := t.TempDir()
	WriteFiles(t, root, files)
	store, err := storage.NewFS(root, storage.DefaultExtension)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// WriteFiles writes path → content pairs below dir, creating parents.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		abs := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}
