// Package models defines the domain types shared by the audit passes.
package models

import "time"

// Document is a documentation file loaded from the tree. It is never mutated
// by the read-only passes.
type Document struct {
	Path    string `json:"path"` // root-relative, slash separated
	Content []byte `json:"-"`
}

// Text returns the raw document content as a string.
func (d Document) Text() string {
	return string(d.Content)
}

// DocumentMetadata is a lightweight representation returned by list operations.
type DocumentMetadata struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
	// Err is set when the entry could not be walked. Directory paths then
	// end in a slash.
	Err string `json:"error,omitempty"`
}

// ReadError records a file that could not be read during a pass.
type ReadError struct {
	Path string `json:"path"`
	Err  string `json:"error"`
}
