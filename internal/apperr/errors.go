// Package apperr holds the sentinel errors shared across passes.
package apperr

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrOutsideRoot        = errors.New("path escapes documentation root")
	ErrMissingFrontmatter = errors.New("missing front-matter")
	// ErrChecksFailed marks a pass whose findings must fail the process.
	ErrChecksFailed = errors.New("checks failed")
)
