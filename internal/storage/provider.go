// Package storage defines the documentation-tree file-system abstraction.
package storage

import (
	"io/fs"

	"github.com/starford/docsaudit/internal/models"
)

// Provider is the interface for documentation tree file operations.
// All paths are slash-separated and relative to the documentation root.
type Provider interface {
	// Root returns the absolute path of the documentation root.
	Root() string
	// List returns metadata for every documentation file under dir, in
	// lexicographic path order.
	List(dir string) ([]models.DocumentMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Stat returns file info for path, which may be a directory.
	Stat(path string) (fs.FileInfo, error)
}
