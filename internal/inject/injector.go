// Package inject adds generated front-matter headers to documentation files
// that have none.
package inject

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/docsaudit/internal/docset"
	"github.com/starford/docsaudit/internal/finding"
	"github.com/starford/docsaudit/internal/metadata"
	"github.com/starford/docsaudit/internal/parser"
	"github.com/starford/docsaudit/internal/storage"
)

// Action is what happened to one file.
type Action string

const (
	ActionAdded    Action = "added"
	ActionWouldAdd Action = "would-add"
	ActionHasMeta  Action = "has-frontmatter"
	ActionExempt   Action = "exempt"
	ActionError    Action = "error"
)

// Outcome is the result for one file.
type Outcome struct {
	Path   string `json:"path"`
	Action Action `json:"action"`
	Error  string `json:"error,omitempty"`
	// Diff is the change a dry run would make.
	Diff string `json:"diff,omitempty"`
}

// Result summarizes an injection run.
type Result struct {
	DryRun   bool      `json:"dry_run"`
	Outcomes []Outcome `json:"outcomes"`
}

// Count returns how many outcomes have action a.
func (r *Result) Count(a Action) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Action == a {
			n++
		}
	}
	return n
}

// Options configures an Injector.
type Options struct {
	Exempt docset.Exemptions
	DryRun bool
	// Now returns the current time; time.Now when nil.
	Now    func() time.Time
	Logger *slog.Logger
}

// Injector writes generated headers through a storage provider.
type Injector struct {
	store  storage.Provider
	opts   Options
	logger *slog.Logger
}

// New creates an injector.
func New(store storage.Provider, opts Options) *Injector {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Injector{store: store, opts: opts, logger: logger}
}

// Run processes every file of the set. Files that already carry a header are
// left untouched, so running twice changes nothing the second time.
func (i *Injector) Run(ctx context.Context, set *docset.Set) (*Result, error) {
	res := &Result{DryRun: i.opts.DryRun, Outcomes: []Outcome{}}
	now := i.opts.Now()

	failed := make(map[string]string, len(set.ReadErrors))
	for _, re := range set.ReadErrors {
		failed[re.Path] = re.Err
	}
	docs := make(map[string][]byte, len(set.Documents))
	for _, d := range set.Documents {
		docs[d.Path] = d.Content
	}

	for _, p := range set.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i.opts.Exempt.Match(p) {
			res.Outcomes = append(res.Outcomes, Outcome{Path: p, Action: ActionExempt})
			continue
		}
		if msg, ok := failed[p]; ok {
			res.Outcomes = append(res.Outcomes, Outcome{Path: p, Action: ActionError, Error: msg})
			continue
		}
		res.Outcomes = append(res.Outcomes, i.process(p, docs[p], now))
	}
	return res, nil
}

func (i *Injector) process(p string, content []byte, now time.Time) Outcome {
	if parser.HasHeader(content) {
		return Outcome{Path: p, Action: ActionHasMeta}
	}

	h := Analyze(p, string(content), now)
	if err := h.Validate(); err != nil {
		i.logger.Warn("inject: generated header invalid", slog.String("path", p), slog.String("error", err.Error()))
		return Outcome{Path: p, Action: ActionError, Error: "generated header invalid: " + err.Error()}
	}
	updated, err := Render(h, content)
	if err != nil {
		return Outcome{Path: p, Action: ActionError, Error: err.Error()}
	}

	if i.opts.DryRun {
		return Outcome{Path: p, Action: ActionWouldAdd, Diff: Diff(string(content), string(updated))}
	}
	if err := i.store.Write(p, updated); err != nil {
		i.logger.Warn("inject: write failed", slog.String("path", p), slog.String("error", err.Error()))
		return Outcome{Path: p, Action: ActionError, Error: err.Error()}
	}
	i.logger.Info("inject: header added", slog.String("path", p))
	return Outcome{Path: p, Action: ActionAdded}
}

// Render places the header above content, separated by a blank line.
func Render(h metadata.Header, content []byte) ([]byte, error) {
	y, err := h.Marshal()
	if err != nil {
		return nil, fmt.Errorf("inject: marshal header: %w", err)
	}
	var buf bytes.Buffer
	buf.Grow(len(y) + len(content) + 12)
	buf.WriteString(parser.Delimiter + "\n")
	buf.Write(y)
	buf.WriteString(parser.Delimiter + "\n\n")
	buf.Write(content)
	return buf.Bytes(), nil
}

// WriteText prints the run outcome. root prefixes displayed paths.
func (r *Result) WriteText(w io.Writer, root string) error {
	p := finding.NewPrinter(w)
	display := func(s string) string {
		if root == "" {
			return s
		}
		return strings.TrimSuffix(root, "/") + "/" + s
	}

	p.Line("📝 Adding YAML front-matter to markdown files...")
	p.Line("")
	for _, o := range r.Outcomes {
		switch o.Action {
		case ActionExempt:
			p.Linef("⏭️  Excluding %s", display(o.Path))
		case ActionHasMeta:
			p.Linef("⏭️  %s (already has front-matter)", display(o.Path))
		case ActionAdded:
			p.Linef("✅ Added front-matter to %s", display(o.Path))
		case ActionWouldAdd:
			p.Linef("--- %s", display(o.Path))
			p.Linef("+++ %s (with front-matter)", display(o.Path))
			p.Line(strings.TrimSuffix(o.Diff, "\n"))
		case ActionError:
			p.Linef("❌ Error processing %s: %s", display(o.Path), o.Error)
		}
	}

	updated := r.Count(ActionAdded) + r.Count(ActionWouldAdd)
	p.Line("")
	p.Line(strings.Repeat("=", 60))
	p.Line("📊 Front-matter Addition Summary:")
	p.Linef("   Files processed: %d", len(r.Outcomes)-r.Count(ActionExempt))
	if r.DryRun {
		p.Linef("   Files that would be updated: %d", updated)
	} else {
		p.Linef("   Files updated: %d", updated)
	}
	p.Linef("   Files skipped: %d", r.Count(ActionExempt)+r.Count(ActionHasMeta))
	p.Linef("   Files with errors: %d", r.Count(ActionError))

	if updated > 0 && !r.DryRun {
		p.Line("")
		p.Line("🎯 Next Steps:")
		p.Line("1. Review generated front-matter for accuracy")
		p.Line("2. Run frontmatter validate to check compliance")
		p.Line("3. Manually adjust metadata as needed")
		p.Line("4. Update any generated summaries or tags")
	}
	return p.Err()
}
