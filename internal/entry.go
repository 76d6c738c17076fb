// Package internal wires configuration, storage and the audit passes into the
// commands exposed by the binary.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/docsaudit/internal/apperr"
	"github.com/starford/docsaudit/internal/checksum"
	"github.com/starford/docsaudit/internal/content"
	"github.com/starford/docsaudit/internal/docset"
	"github.com/starford/docsaudit/internal/finding"
	"github.com/starford/docsaudit/internal/index"
	"github.com/starford/docsaudit/internal/inject"
	"github.com/starford/docsaudit/internal/linkcheck"
	"github.com/starford/docsaudit/internal/mcpserver"
	"github.com/starford/docsaudit/internal/metadata"
	"github.com/starford/docsaudit/internal/metrics"
	"github.com/starford/docsaudit/internal/storage"
	"github.com/starford/docsaudit/internal/watch"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.now == nil {
		app.now = time.Now
	}
	if app.logger == nil {
		// Reports go to stdout, so logs stay on stderr.
		app.logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: app.config.App.LogLevel,
		}))
	}
	slog.SetDefault(app.logger)

	app.logger.Debug("Configuration loaded",
		slog.String("docs_root", app.config.Docs.Root),
		slog.String("nav_path", app.config.Nav.Path),
		slog.String("sqlite_path", app.config.SQLite.Path),
		slog.String("log_level", app.config.App.LogLevel.String()))
	return app, nil
}

func (a *application) store() (*storage.FS, error) {
	store, err := storage.NewFS(a.config.Docs.Root, a.config.Docs.Extension)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return store, nil
}

func (a *application) load(ctx context.Context, store storage.Provider) (*docset.Set, error) {
	set, err := docset.NewLoader(store, a.config.Docs.Ignore, a.logger).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load docs: %w", err)
	}
	return set, nil
}

// exemptions combines base names with the configured names and globs.
func (a *application) exemptions(base []string, globs ...string) docset.Exemptions {
	return docset.Exemptions{
		Names: append(slices.Clone(base), a.config.Docs.Exempt...),
		Globs: append(slices.Clone(globs), a.config.Docs.ExemptGlobs...),
	}
}

func (a *application) linkOptions() linkcheck.Options {
	cfg := a.config
	return linkcheck.Options{
		DisplayRoot:  strings.TrimSuffix(cfg.Docs.Root, "/"),
		Extension:    cfg.Docs.Extension,
		NavPath:      cfg.Nav.Path,
		Exempt:       a.exemptions(docset.DefaultExemptNames),
		Ignore:       cfg.Docs.Ignore,
		GenericTexts: cfg.Links.GenericTexts,
		CheckAnchors: cfg.Links.CheckAnchors,
		Logger:       a.logger,
	}
}

func (a *application) jsonOutput() bool {
	return a.config.App.Format == finding.FormatJSON
}

// CheckLinks runs the link checker once, or keeps rerunning it on changes
// when watchMode is set. A single run returns apperr.ErrChecksFailed when
// any blocking finding exists. Watch mode reruns only when the documents or
// the manifest changed.
func CheckLinks(ctx context.Context, watchMode bool, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	store, err := app.store()
	if err != nil {
		return err
	}
	checker := linkcheck.New(store, app.linkOptions())

	if !watchMode {
		set, err := app.load(ctx, store)
		if err != nil {
			return err
		}
		r := checker.Check(set)
		if err := app.writeLinks(r); err != nil {
			return err
		}
		if r.Failed() {
			return apperr.ErrChecksFailed
		}
		return nil
	}

	var last string
	rerun := func(ctx context.Context, changed []string) error {
		set, err := app.load(ctx, store)
		if err != nil {
			return err
		}
		// New directories can turn directory links valid without any
		// document changing.
		sum := checksum.Tree(set.Documents, app.navContent())
		if last != "" && sum == last && !slices.ContainsFunc(changed, isDirChange) {
			app.logger.Debug("Tree unchanged, skipping rerun")
			return nil
		}
		last = sum
		if changed != nil {
			app.logger.Info("Rerunning link check", slog.String("changed", strings.Join(changed, ",")))
		}
		return app.writeLinks(checker.Check(set))
	}

	if err := rerun(ctx, nil); err != nil {
		return err
	}
	return app.watch(ctx, rerun)
}

func isDirChange(p string) bool {
	return strings.HasSuffix(p, "/")
}

// navContent returns the navigation manifest, or nil when it is unset or
// unreadable.
func (a *application) navContent() []byte {
	if a.config.Nav.Path == "" {
		return nil
	}
	data, err := os.ReadFile(a.config.Nav.Path)
	if err != nil {
		return nil
	}
	return data
}

func (a *application) writeLinks(r *linkcheck.Report) error {
	var err error
	if a.jsonOutput() {
		err = r.WriteJSON(a.stdout)
	} else {
		err = r.WriteText(a.stdout)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if p := a.config.Reports.LinksPath; p != "" {
		f, err := os.Create(p)
		if err != nil {
			return fmt.Errorf("create links report: %w", err)
		}
		if err := r.WriteJSON(f); err != nil {
			f.Close()
			return fmt.Errorf("write links report: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close links report: %w", err)
		}
	}
	return nil
}

// watch runs onChange for every debounced batch of changes until ctx is
// cancelled or a shutdown signal arrives.
func (a *application) watch(ctx context.Context, onChange watch.ChangeFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var extra []string
	if a.config.Nav.Path != "" {
		extra = append(extra, a.config.Nav.Path)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return watch.Watch(gCtx, watch.Options{
			Root:      a.config.Docs.Root,
			Extension: a.config.Docs.Extension,
			Extra:     extra,
			Logger:    a.logger,
		}, onChange)
	})

	g.Go(func() error {
		a.awaitSignal(gCtx, cancel)
		return nil
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("Watch error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// awaitSignal calls cancel on SIGINT or SIGTERM. It returns once ctx is done.
func (a *application) awaitSignal(ctx context.Context, cancel context.CancelFunc) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		a.logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		cancel()
	case <-ctx.Done():
	}
}

func (a *application) writeFindings(r *finding.Report, title string, footer []string) error {
	f := finding.NewFormatter(a.config.App.Format, title)
	if tf, ok := f.(*finding.TextFormatter); ok {
		tf.Footer = footer
	}
	if err := f.Format(a.stdout, r); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ValidateFrontmatter validates the header of every documentation file. It
// is advisory and only fails on I/O errors.
func ValidateFrontmatter(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	store, err := app.store()
	if err != nil {
		return err
	}
	set, err := app.load(ctx, store)
	if err != nil {
		return err
	}

	v := metadata.NewValidator(app.exemptions(metadata.SkipNames()), app.logger)
	r, err := v.Run(ctx, set)
	if err != nil {
		return fmt.Errorf("validate front-matter: %w", err)
	}
	return app.writeFindings(r, "🔍 Validating YAML front-matter in "+app.config.Docs.Root+"...", nil)
}

// AddFrontmatter generates a header for every file that lacks one. With
// dryRun set the changes are printed as diffs and nothing is written.
func AddFrontmatter(ctx context.Context, dryRun bool, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	store, err := app.store()
	if err != nil {
		return err
	}
	set, err := app.load(ctx, store)
	if err != nil {
		return err
	}

	res, err := inject.New(store, inject.Options{
		Exempt: app.exemptions(docset.DefaultExemptNames),
		DryRun: dryRun,
		Now:    app.now,
		Logger: app.logger,
	}).Run(ctx, set)
	if err != nil {
		return fmt.Errorf("add front-matter: %w", err)
	}
	return app.writeJSONOr(res, func(w io.Writer) error { return res.WriteText(w, app.config.Docs.Root) })
}

// CheckContent applies the content standards. It is advisory and only fails
// on I/O errors.
func CheckContent(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	store, err := app.store()
	if err != nil {
		return err
	}
	set, err := app.load(ctx, store)
	if err != nil {
		return err
	}

	v := content.NewValidator(app.exemptions(docset.DefaultExemptNames, content.DefaultSkipGlobs...), app.logger)
	r, err := v.Run(ctx, set)
	if err != nil {
		return fmt.Errorf("validate content: %w", err)
	}
	return app.writeFindings(r, "📝 Validating content standards in "+app.config.Docs.Root+"...", content.Recommendations)
}

// Metrics measures the tree, prints the summary and saves the JSON report.
func Metrics(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	store, err := app.store()
	if err != nil {
		return err
	}
	set, err := app.load(ctx, store)
	if err != nil {
		return err
	}

	r, err := metrics.NewAnalyzer(app.logger).Run(ctx, set)
	if err != nil {
		return fmt.Errorf("analyze content: %w", err)
	}
	if err := app.writeJSONOr(r, r.WriteText); err != nil {
		return err
	}

	out := app.config.Reports.MetricsPath
	if err := r.Save(out); err != nil {
		return fmt.Errorf("save metrics report: %w", err)
	}
	if !app.jsonOutput() {
		fmt.Fprintf(app.stdout, "\n💾 Detailed report saved to: %s\n", out)
	}
	return nil
}

type jsonWriter interface {
	WriteJSON(w io.Writer) error
}

// writeJSONOr writes v as JSON when the JSON format is selected and calls
// text otherwise.
func (a *application) writeJSONOr(v any, text func(io.Writer) error) error {
	var err error
	if jw, ok := v.(jsonWriter); ok && a.jsonOutput() {
		err = jw.WriteJSON(a.stdout)
	} else if a.jsonOutput() {
		err = finding.WriteJSON(a.stdout, v)
	} else {
		err = text(a.stdout)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ExportGraph rebuilds the link graph and stores it in the SQLite database.
func ExportGraph(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	store, err := app.store()
	if err != nil {
		return err
	}
	set, err := app.load(ctx, store)
	if err != nil {
		return err
	}

	db, err := index.Open(app.config.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	r := linkcheck.New(store, app.linkOptions()).Check(set)
	if err := db.Export(r.Graph(set.Documents)); err != nil {
		return fmt.Errorf("export graph: %w", err)
	}
	stats, err := db.Stats()
	if err != nil {
		return fmt.Errorf("graph stats: %w", err)
	}
	app.logger.Info("Graph exported",
		slog.String("path", app.config.SQLite.Path),
		slog.Int("documents", stats.Documents),
		slog.Int("links", stats.Links))

	return app.writeJSONOr(stats, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "🗄️  Link graph exported to %s\n   Documents: %d\n   Links: %d\n   Broken links: %d\n",
			app.config.SQLite.Path, stats.Documents, stats.Links, stats.Broken)
		return err
	})
}

// Backlinks prints the links pointing at target from the stored graph.
func Backlinks(ctx context.Context, target string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	db, err := index.Open(app.config.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	rows, err := db.Backlinks(target)
	if err != nil {
		return fmt.Errorf("query backlinks: %w", err)
	}
	if rows == nil {
		rows = []index.LinkRow{}
	}
	return app.writeJSONOr(rows, func(w io.Writer) error {
		p := finding.NewPrinter(w)
		if len(rows) == 0 {
			p.Linef("No backlinks to %s", target)
			return p.Err()
		}
		p.Linef("🔗 Backlinks to %s:", target)
		for _, r := range rows {
			p.Linef("   • %s:%d [%s]", r.Source, r.Line, r.Text)
		}
		return p.Err()
	})
}

// Orphans prints the stored documents no link points at.
func Orphans(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	db, err := index.Open(app.config.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	paths, err := db.Unlinked()
	if err != nil {
		return fmt.Errorf("query unlinked: %w", err)
	}
	if paths == nil {
		paths = []string{}
	}
	return app.writeJSONOr(paths, func(w io.Writer) error {
		p := finding.NewPrinter(w)
		if len(paths) == 0 {
			p.Line("✅ Every stored document has incoming links")
			return p.Err()
		}
		p.Line("⚠️  Documents without incoming links:")
		for _, s := range paths {
			p.Linef("   • %s", s)
		}
		return p.Err()
	})
}

// ServeMCP serves the audit tools over stdio until the client disconnects.
func ServeMCP(ctx context.Context, version string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	store, err := app.store()
	if err != nil {
		return err
	}
	db, err := index.Open(app.config.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	srv := mcpserver.New(store, db, mcpserver.Options{Links: app.linkOptions(), Logger: app.logger}, version)
	app.logger.Info("MCP server starting", slog.String("docs_root", app.config.Docs.Root))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		if err := srv.Serve(gCtx, app.stdin, app.stdout); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		app.awaitSignal(gCtx, cancel)
		return nil
	})

	return g.Wait()
}
