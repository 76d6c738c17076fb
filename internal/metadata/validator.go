package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"path"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/starford/docsaudit/internal/docset"
	"github.com/starford/docsaudit/internal/finding"
	"github.com/starford/docsaudit/internal/models"
	"github.com/starford/docsaudit/internal/parser"
)

// Rule IDs reported by the validator.
const (
	RuleMissing     = "missing-frontmatter"
	RuleMalformed   = "malformed-frontmatter"
	RuleSchema      = "schema"
	RuleTaxonomy    = "taxonomy"
	RuleConsistency = "consistency"
	RuleSummary     = "summary"
)

// SkipNames are basenames the validator never checks: the exempt files plus
// section index pages, which follow their own conventions.
func SkipNames() []string {
	return append(slices.Clone(docset.DefaultExemptNames), "index.md")
}

// Validator checks front-matter headers.
type Validator struct {
	skip   docset.Exemptions
	logger *slog.Logger
}

// NewValidator creates a validator that leaves out files matched by skip.
func NewValidator(skip docset.Exemptions, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{skip: skip, logger: logger}
}

// Run validates every document of the set.
func (v *Validator) Run(ctx context.Context, set *docset.Set) (*finding.Report, error) {
	r := finding.NewReport("frontmatter")
	for _, d := range set.Documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if v.skip.Match(d.Path) {
			continue
		}
		r.Check(d.Path)
		r.Add(v.Document(d)...)
	}
	r.Sort()
	return r, nil
}

// Document validates the header of a single document.
func (v *Validator) Document(d models.Document) []finding.Finding {
	res := parser.Parse(d.Content)
	var out []finding.Finding
	add := func(rule string, sev finding.Severity, msg string) {
		out = append(out, finding.Finding{Path: d.Path, Rule: rule, Severity: sev, Message: msg})
	}

	switch {
	case !res.HasFrontmatter:
		add(RuleMissing, finding.SeverityError, "Missing YAML front-matter")
		return out
	case res.FrontmatterErr != nil:
		add(RuleMalformed, finding.SeverityError, "Invalid YAML front-matter: "+res.FrontmatterErr.Error())
		return out
	}

	header := maps.Clone(res.Frontmatter)
	raw := RawScalars(res.Raw)
	for _, key := range []string{"version", "last_updated"} {
		if s, ok := raw[key]; ok && header[key] != nil {
			header[key] = s
		}
	}

	issues, err := CheckSchema(header)
	if err != nil {
		v.logger.Warn("metadata: schema check failed", slog.String("path", d.Path), slog.String("error", err.Error()))
		add(RuleMalformed, finding.SeverityError, "Header cannot be validated: "+err.Error())
		return out
	}
	for _, is := range issues {
		add(RuleSchema, finding.SeverityError, is.String())
	}

	if s, ok := header["last_updated"].(string); ok && issuesAt(issues, "last_updated") == 0 {
		if _, err := time.Parse(DateLayout, s); err != nil {
			add(RuleSchema, finding.SeverityError, "last_updated must be in YYYY-MM-DD format")
		}
	}
	if s, ok := header["summary"].(string); ok && sentences(s) > 1 {
		add(RuleSummary, finding.SeverityWarning, "Summary should be one clear sentence")
	}

	for _, msg := range taxonomy(header) {
		add(RuleTaxonomy, finding.SeverityWarning, msg)
	}
	for _, msg := range consistency(d.Path, header) {
		add(RuleConsistency, finding.SeverityWarning, msg)
	}
	return out
}

func issuesAt(issues []Issue, loc string) int {
	n := 0
	for _, is := range issues {
		if is.Location == loc {
			n++
		}
	}
	return n
}

func sentences(s string) int {
	n := 0
	for _, part := range strings.Split(s, ".") {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, fmt.Sprint(it))
	}
	return out
}

func taxonomy(header map[string]any) []string {
	tags := stringList(header["tags"])
	if len(tags) == 0 {
		return nil
	}
	var msgs []string
	if !slices.ContainsFunc(tags, func(t string) bool { return slices.Contains(PrimaryTags, t) }) {
		msgs = append(msgs, "Must include at least one primary category tag: "+strings.Join(PrimaryTags, ", "))
	}
	if len(stringList(header["audience"])) > 0 &&
		!slices.ContainsFunc(tags, func(t string) bool { return slices.Contains(LevelTags, t) }) {
		msgs = append(msgs, "Should include level tags (L6, L7) when audience is specified")
	}
	var unknown []string
	for _, t := range tags {
		if !KnownTag(t) && !slices.Contains(unknown, t) {
			unknown = append(unknown, t)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		msgs = append(msgs, "Unrecognized tags: "+strings.Join(unknown, ", "))
	}
	return msgs
}

func consistency(p string, header map[string]any) []string {
	ct, _ := header["content_type"].(string)
	var msgs []string
	dir := path.Base(path.Dir(p))
	if expected, ok := DirectoryMappings[ct]; ok && dir != "." && !slices.Contains(expected, dir) {
		msgs = append(msgs, fmt.Sprintf("Content type '%s' should be in one of: %s", ct, strings.Join(expected, ", ")))
	}
	stem := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if ct == "template" && !strings.HasSuffix(stem, "-template") {
		msgs = append(msgs, "Template files should end with '-template'")
	}
	if ct == "assessment" && !strings.Contains(stem, "assessment") {
		msgs = append(msgs, "Assessment files should include 'assessment' in the name")
	}
	return msgs
}
