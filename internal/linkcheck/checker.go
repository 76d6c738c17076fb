package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/starford/docsaudit/internal/docset"
	"github.com/starford/docsaudit/internal/finding"
	"github.com/starford/docsaudit/internal/markdown"
	"github.com/starford/docsaudit/internal/parser"
	"github.com/starford/docsaudit/internal/rules"
	"github.com/starford/docsaudit/internal/storage"
)

// Reachability rule IDs. The first four fail the pass.
const (
	RuleBrokenLink         = "broken-link"
	RuleUnresolvable       = "unresolvable-link"
	RuleUndefinedReference = "undefined-reference"
	RuleNavMissingFile     = "nav-missing-file"
	RuleNavNotFound        = "nav-not-found"
	RuleOrphan             = "orphan"
	RuleReadError          = "read-error"
)

// Link status values recorded in the graph.
const (
	StatusOK           = "ok"
	StatusBroken       = "broken"
	StatusUnresolvable = "unresolvable"
	StatusUndefined    = "undefined"
	StatusExternal     = "external"
	StatusMailto       = "mailto"
	StatusFragment     = "fragment"
)

// Options configures a link check run.
type Options struct {
	// DisplayRoot prefixes file paths in messages and text output.
	DisplayRoot string
	// Extension of documentation files, ".md" when empty.
	Extension string
	// NavPath is the navigation manifest file. Empty skips the navigation check.
	NavPath string
	Exempt  docset.Exemptions
	// Ignore holds doublestar globs of files left out of the pass.
	Ignore []string
	// GenericTexts overrides DefaultGenericTexts when non-nil.
	GenericTexts []string
	// CheckAnchors enables fragment checks against heading ids.
	CheckAnchors bool
	Logger       *slog.Logger
}

// Edge is one link of the graph with its resolution outcome.
type Edge struct {
	Link
	Class    string `json:"class"`
	Resolved string `json:"resolved,omitempty"`
	Status   string `json:"status"`
	// Reaches lists the existing index files a directory link lands on.
	Reaches []string `json:"reaches,omitempty"`
}

// Checker validates the links of a documentation tree.
type Checker struct {
	store  storage.Provider
	opts   Options
	ext    string
	text   rules.Set
	logger *slog.Logger

	stats    map[string]fs.FileInfo
	outlines map[string]*markdown.Outline
	docs     map[string][]byte
}

// New creates a checker over store.
func New(store storage.Provider, opts Options) *Checker {
	ext := opts.Extension
	if ext == "" {
		ext = storage.DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	generic := opts.GenericTexts
	if generic == nil {
		generic = DefaultGenericTexts
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{store: store, opts: opts, ext: ext, text: TextRules(generic), logger: logger}
}

// Run loads the tree and checks it.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	set, err := docset.NewLoader(c.store, c.opts.Ignore, c.logger).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("linkcheck: load: %w", err)
	}
	return c.Check(set), nil
}

// Check builds the link graph of set and reports on it. The result depends
// only on the set and the files on disk, so repeated runs are identical.
func (c *Checker) Check(set *docset.Set) *Report {
	c.stats = make(map[string]fs.FileInfo)
	c.outlines = make(map[string]*markdown.Outline)
	c.docs = make(map[string][]byte, len(set.Documents))
	for _, d := range set.Documents {
		c.docs[d.Path] = d.Content
	}

	r := &Report{
		Root:       c.opts.DisplayRoot,
		NavPath:    c.opts.NavPath,
		Files:      []FileResult{},
		Orphans:    []string{},
		Navigation: []finding.Finding{},
	}
	reached := make(map[string]bool)

	readErrs := make(map[string]string, len(set.ReadErrors))
	for _, re := range set.ReadErrors {
		readErrs[re.Path] = re.Err
	}

	for _, p := range set.Paths {
		fr := FileResult{Path: p, Findings: []finding.Finding{}}
		if msg, ok := readErrs[p]; ok {
			fr.Findings = append(fr.Findings, readError(p, msg))
			r.Files = append(r.Files, fr)
			continue
		}
		for _, l := range Extract(string(c.docs[p])) {
			edge, fds := c.checkLink(p, l, reached)
			fr.Edges = append(fr.Edges, edge)
			fr.Findings = append(fr.Findings, fds...)
		}
		r.Files = append(r.Files, fr)
	}
	// Directories the walk could not enter are not in Paths.
	for _, re := range set.ReadErrors {
		if strings.HasSuffix(re.Path, "/") {
			r.Files = append(r.Files, FileResult{Path: re.Path, Findings: []finding.Finding{readError(re.Path, re.Err)}})
		}
	}

	if c.opts.NavPath != "" {
		r.NavChecked = true
		r.Navigation = c.checkNavigation(reached)
	}

	for _, p := range set.Paths {
		if c.opts.Exempt.Match(p) || reached[p] {
			continue
		}
		r.Orphans = append(r.Orphans, p)
	}

	c.logger.Debug("linkcheck: done",
		slog.Int("files", len(r.Files)),
		slog.Int("orphans", len(r.Orphans)),
		slog.Bool("failed", r.Failed()))
	return r
}

func readError(p, msg string) finding.Finding {
	return finding.Finding{
		Path: p, Rule: RuleReadError, Severity: finding.SeverityWarning,
		Message: "Error reading file: " + msg,
	}
}

func (c *Checker) checkLink(source string, l Link, reached map[string]bool) (Edge, []finding.Finding) {
	fds := c.textFindings(source, l)
	fail := func(rule, msg string) {
		fds = append(fds, finding.Finding{Path: source, Line: l.Line, Rule: rule, Severity: finding.SeverityError, Message: msg})
	}

	edge := Edge{Link: l}
	if l.Undefined {
		edge.Status = StatusUndefined
		fail(RuleUndefinedReference, fmt.Sprintf("Undefined reference: [%s][%s]", l.Text, l.Label))
		return edge, fds
	}

	class := Classify(l.Target)
	edge.Class = class.String()
	switch class {
	case ClassExternal:
		edge.Status = StatusExternal
		return edge, fds
	case ClassMailto:
		edge.Status = StatusMailto
		return edge, fds
	case ClassFragment:
		edge.Status = StatusFragment
		if _, frag := SplitTarget(l.Target); frag != "" {
			fds = append(fds, c.checkAnchor(source, l, source, frag)...)
		}
		return edge, fds
	}

	resolved, err := Resolve(source, l.Target)
	if err != nil {
		edge.Status = StatusUnresolvable
		fail(RuleUnresolvable, fmt.Sprintf("Error processing link [%s](%s): %v", l.Text, l.Target, err))
		return edge, fds
	}
	edge.Resolved = resolved

	info, ok := c.stat(resolved)
	if !ok {
		edge.Status = StatusBroken
		fail(RuleBrokenLink, fmt.Sprintf("Broken link: [%s](%s) -> %s", l.Text, l.Target, c.display(resolved)))
		if _, withExt := c.stat(resolved + c.ext); withExt {
			fds = append(fds, finding.Finding{
				Path: source, Line: l.Line, Rule: RuleMissingExtension, Severity: finding.SeverityWarning,
				Message: fmt.Sprintf("Missing %s extension: [%s](%s)", c.ext, l.Text, l.Target),
			})
		}
		return edge, fds
	}
	edge.Status = StatusOK

	isDir := info.IsDir()
	if isDir {
		for _, name := range []string{"index", "README"} {
			p := path.Join(resolved, name+c.ext)
			reached[p] = true
			if _, ok := c.stat(p); ok {
				edge.Reaches = append(edge.Reaches, p)
			}
		}
	} else {
		reached[resolved] = true
	}

	if !isDir {
		fds = append(fds, c.conventions(source, l, resolved)...)
	}
	if _, frag := SplitTarget(l.Target); frag != "" && !isDir && strings.EqualFold(path.Ext(resolved), c.ext) {
		fds = append(fds, c.checkAnchor(source, l, resolved, frag)...)
	}
	return edge, fds
}

func (c *Checker) checkAnchor(source string, l Link, target, fragment string) []finding.Finding {
	if !c.opts.CheckAnchors {
		return nil
	}
	outline := c.outline(target)
	if outline == nil || outline.HasAnchor(fragment) {
		return nil
	}
	return []finding.Finding{{
		Path: source, Line: l.Line, Rule: RuleUnknownAnchor, Severity: finding.SeverityWarning,
		Message: fmt.Sprintf("Unknown anchor: [%s](%s) has no heading #%s in %s", l.Text, l.Target, fragment, c.display(target)),
	}}
}

// outline parses target lazily. Targets outside the document set are read
// from storage; unreadable ones yield nil and are not checked.
func (c *Checker) outline(target string) *markdown.Outline {
	if o, ok := c.outlines[target]; ok {
		return o
	}
	data, ok := c.docs[target]
	if !ok {
		var err error
		if data, err = c.store.Read(target); err != nil {
			c.outlines[target] = nil
			return nil
		}
	}
	_, body, _, err := parser.Split(data)
	if err != nil {
		body = data
	}
	o := markdown.Analyze(body)
	c.outlines[target] = o
	return o
}

func (c *Checker) checkNavigation(reached map[string]bool) []finding.Finding {
	nav := c.opts.NavPath
	data, err := os.ReadFile(nav)
	if errors.Is(err, fs.ErrNotExist) {
		return []finding.Finding{{Path: nav, Rule: RuleNavNotFound, Severity: finding.SeverityWarning, Message: nav + " not found"}}
	}
	if err != nil {
		c.logger.Warn("linkcheck: read manifest", slog.String("path", nav), slog.String("error", err.Error()))
		return []finding.Finding{{Path: nav, Rule: RuleReadError, Severity: finding.SeverityWarning, Message: fmt.Sprintf("Error reading %s: %v", nav, err)}}
	}

	out := []finding.Finding{}
	for _, ref := range ParseManifest(data) {
		if _, ok := c.stat(ref); ok {
			reached[ref] = true
			continue
		}
		out = append(out, finding.Finding{
			Path: nav, Rule: RuleNavMissingFile, Severity: finding.SeverityError,
			Message: "Navigation references non-existent file: " + ref,
		})
	}
	return out
}

func (c *Checker) stat(p string) (fs.FileInfo, bool) {
	if info, ok := c.stats[p]; ok {
		return info, info != nil
	}
	info, err := c.store.Stat(p)
	if err != nil {
		info = nil
	}
	c.stats[p] = info
	return info, info != nil
}

func (c *Checker) display(p string) string {
	if c.opts.DisplayRoot == "" {
		return p
	}
	return path.Join(c.opts.DisplayRoot, p)
}
