// Package watch reruns a pass whenever documentation files change.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch of changes is reported.
const DefaultDebounce = 200 * time.Millisecond

// ChangeFunc is called with the sorted, root-relative (slash separated)
// paths that changed since the previous call. Extra files are reported by
// their path as given in Options.
type ChangeFunc func(ctx context.Context, changed []string) error

// Options configures a watcher.
type Options struct {
	// Root is the documentation directory, watched recursively.
	Root string
	// Extension selects the documentation files, including the dot.
	Extension string
	// Extra lists additional files to watch, such as the navigation manifest.
	Extra    []string
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watch watches the tree and calls onChange after each debounced batch of
// changes until ctx is cancelled. New directories are added to the watch
// list as they appear. Errors returned by onChange are logged and watching
// continues.
func Watch(ctx context.Context, opts Options, onChange ChangeFunc) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	extra := make(map[string]string, len(opts.Extra))
	for _, p := range opts.Extra {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		extra[abs] = p
		dir := filepath.Dir(abs)
		if dir == root || strings.HasPrefix(dir, root+string(os.PathSeparator)) {
			continue
		}
		if err := w.Add(dir); err != nil {
			logger.Warn("watch: add extra dir failed", slog.String("path", dir), slog.String("error", err.Error()))
		}
	}

	logger.Info("watch: started", slog.String("root", root))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func(rel string) {
		pending[rel] = struct{}{}
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watch: stopped")
			return nil

		case <-fire:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)
			logger.Debug("watch: changes", slog.Int("count", len(changed)))
			if err := onChange(ctx, changed); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				logger.Warn("watch: rerun failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			absPath := ev.Name

			if p, ok := extra[absPath]; ok {
				schedule(p)
				continue
			}
			if absPath != root && !strings.HasPrefix(absPath, root+string(os.PathSeparator)) {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watch: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watch: watching new dir", slog.String("path", absPath))
					}
					rel, _ := filepath.Rel(root, absPath)
					schedule(filepath.ToSlash(rel) + "/")
					continue
				}
			}

			if !strings.EqualFold(filepath.Ext(absPath), opts.Extension) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil {
				continue
			}
			schedule(filepath.ToSlash(rel))

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its non-hidden subdirectories to the
// watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		return w.Add(path)
	})
}
