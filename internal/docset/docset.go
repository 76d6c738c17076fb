// Package docset loads the documentation files of one pass from storage.
package docset

import (
	"context"
	"log/slog"
	"path"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/starford/docsaudit/internal/models"
	"github.com/starford/docsaudit/internal/storage"
)

// DefaultExemptNames are the basenames every pass leaves out of orphan and
// metadata checks.
var DefaultExemptNames = []string{
	"README.md",
	"CONTENT_STANDARDS.md",
	"ENHANCEMENT_SUMMARY.md",
	"CONTENT_IMPROVEMENT_PLAN.md",
}

// Exemptions matches files by basename or by doublestar glob on the
// root-relative path.
type Exemptions struct {
	Names []string
	Globs []string
}

// Match reports whether p is exempt.
func (e Exemptions) Match(p string) bool {
	base := path.Base(p)
	for _, n := range e.Names {
		if n == base {
			return true
		}
	}
	return matchAny(e.Globs, p)
}

func matchAny(globs []string, p string) bool {
	for _, g := range globs {
		if ok, err := doublestar.Match(g, p); err == nil && ok {
			return true
		}
	}
	return false
}

// Set is the documents loaded for one pass, in lexicographic path order.
type Set struct {
	Documents  []models.Document
	ReadErrors []models.ReadError
	// Paths lists every documentation file found, readable or not.
	Paths []string
}

// Has reports whether p is a documentation file of the set.
func (s *Set) Has(p string) bool {
	for _, q := range s.Paths {
		if q == p {
			return true
		}
	}
	return false
}

// Loader reads documentation files from a storage provider.
type Loader struct {
	store  storage.Provider
	ignore []string
	logger *slog.Logger
}

// NewLoader creates a loader. Files matching any ignore glob are left out of
// the set entirely.
func NewLoader(store storage.Provider, ignore []string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{store: store, ignore: ignore, logger: logger}
}

// Load lists and reads every documentation file. Unreadable files and
// directories are recorded in ReadErrors and skipped; only a failure to list the tree is
// returned as an error.
func (l *Loader) Load(ctx context.Context) (*Set, error) {
	metas, err := l.store.List("")
	if err != nil {
		return nil, err
	}

	set := &Set{}
	for _, m := range metas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if matchAny(l.ignore, m.Path) {
			l.logger.Debug("docset: ignored", slog.String("path", m.Path))
			continue
		}
		if m.Err != "" {
			l.logger.Warn("docset: walk failed", slog.String("path", m.Path), slog.String("error", m.Err))
			set.ReadErrors = append(set.ReadErrors, models.ReadError{Path: m.Path, Err: m.Err})
			continue
		}
		set.Paths = append(set.Paths, m.Path)

		data, err := l.store.Read(m.Path)
		if err != nil {
			l.logger.Warn("docset: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			set.ReadErrors = append(set.ReadErrors, models.ReadError{Path: m.Path, Err: err.Error()})
			continue
		}
		set.Documents = append(set.Documents, models.Document{Path: m.Path, Content: data})
	}

	l.logger.Debug("docset: loaded",
		slog.Int("documents", len(set.Documents)),
		slog.Int("read_errors", len(set.ReadErrors)))
	return set, nil
}
