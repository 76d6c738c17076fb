// Package content checks documentation files against the editorial
// standards: writing quality, technical currency, accessibility, Amazon
// context and metadata consistency.
package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/starford/docsaudit/internal/apperr"
	"github.com/starford/docsaudit/internal/docset"
	"github.com/starford/docsaudit/internal/finding"
	"github.com/starford/docsaudit/internal/linkcheck"
	"github.com/starford/docsaudit/internal/markdown"
	"github.com/starford/docsaudit/internal/models"
	"github.com/starford/docsaudit/internal/parser"
	"github.com/starford/docsaudit/internal/rules"
)

// Rule IDs of the structural checks.
const (
	RuleMissingFrontmatter = "missing-frontmatter"
	RuleStructure          = "structure"
	RulePythonPrint        = "code-python-print"
	RuleShebang            = "code-shebang"
	RuleLinkText           = "link-text"
	RuleImageAlt           = "image-alt"
	RuleL7Scale            = "l7-scale"
	RuleInterview          = "interview-elements"
	RuleTitleMismatch      = "title-mismatch"
	RuleTimeEstimate       = "time-estimate"
	RuleDifficulty         = "difficulty-mismatch"
)

// DefaultSkipGlobs leave templates and include fragments out of the pass.
var DefaultSkipGlobs = []string{"**/_templates/**", "**/_includes/**"}

// suggested headings per content type; at least half must appear
var suggestedHeadings = map[string][]string{
	"guide":      {"what you'll master", "learning outcomes", "prerequisites", "key takeaways"},
	"tutorial":   {"tutorial overview", "environment setup", "core implementation"},
	"reference":  {"tl;dr", "quick reference", "essential information"},
	"assessment": {"assessment overview", "scoring guide", "results analysis"},
}

var (
	scaleIndicators     = []string{"billion", "petabyte", "organization", "platform", "industry"}
	interviewElements   = regexp.MustCompile(`(?i)\b(?:star|behavioral|technical|system design)\b`)
	complexIndicators   = []string{"advanced", "expert", "sophisticated", "complex", "cutting-edge"}
	simpleIndicators    = []string{"basic", "simple", "introduction", "getting started", "beginner"}
	estimateHoursMins   = regexp.MustCompile(`(?i)(\d+)\s*h(?:ours?|rs?)?\b(?:\s*(\d+)\s*m)?`)
	estimateFirstNumber = regexp.MustCompile(`\d+`)
)

const wordsPerMinute = 200

// Recommendations are printed after the summary when any file has findings.
var Recommendations = []string{
	"💡 Recommendations:",
	"   • Review the content standards for the flagged files",
	"   • Prefer active voice and descriptive link text",
	"   • Keep front-matter title and estimated_time in line with the body",
}

// header is the subset of front-matter the checks read.
type header struct {
	Title         string   `yaml:"title"`
	ContentType   string   `yaml:"content_type"`
	Audience      []string `yaml:"audience"`
	Difficulty    string   `yaml:"difficulty"`
	EstimatedTime string   `yaml:"estimated_time"`
}

// Validator applies the content standards.
type Validator struct {
	skip     docset.Exemptions
	linkText rules.Set
	logger   *slog.Logger
}

// NewValidator creates a validator that leaves out files matched by skip.
func NewValidator(skip docset.Exemptions, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{skip: skip, linkText: linkcheck.TextRules(linkcheck.DefaultGenericTexts), logger: logger}
}

// Run validates every document of the set.
func (v *Validator) Run(ctx context.Context, set *docset.Set) (*finding.Report, error) {
	r := finding.NewReport("content")
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

// Document validates one file. Line numbers refer to the whole file.
func (v *Validator) Document(d models.Document) []finding.Finding {
	var out []finding.Finding
	add := func(line int, rule, msg string) {
		out = append(out, finding.Finding{Path: d.Path, Line: line, Rule: rule, Severity: finding.SeverityWarning, Message: msg})
	}

	var h header
	body, err := decodeHeader(d.Content, &h)
	switch {
	case errors.Is(err, apperr.ErrMissingFrontmatter):
		add(0, RuleMissingFrontmatter, "Missing YAML front-matter")
		return out
	case err != nil:
		v.logger.Warn("content: front-matter decode failed", slog.String("path", d.Path), slog.String("error", err.Error()))
		add(0, RuleMissingFrontmatter, "Missing or invalid YAML front-matter")
		return out
	}
	offset := headerLines(d.Content, body)
	text := string(body)
	lower := strings.ToLower(text)
	outline := markdown.Analyze(body)

	out = append(out, v.structure(d.Path, h, outline)...)

	for _, set := range []rules.Set{WritingRules, TerminologyRules, TechnicalRules} {
		for _, f := range set.Findings(d.Path, text) {
			f.Line += offset
			out = append(out, f)
		}
	}

	fenced := 0
	for _, cb := range outline.CodeBlocks {
		if !cb.Fenced {
			continue
		}
		fenced++
		switch strings.ToLower(cb.Language) {
		case "python":
			if strings.Contains(cb.Content, "print ") && !strings.Contains(cb.Content, "print(") {
				add(cb.Line+offset, RulePythonPrint, fmt.Sprintf("Code block %d: Use Python 3 print() function", fenced))
			}
		case "bash", "sh":
			if !strings.Contains(cb.Content, "#!/bin/bash") && strings.Count(cb.Content, "\n") > 3 {
				add(cb.Line+offset, RuleShebang, fmt.Sprintf("Code block %d: Consider adding shebang for multi-line scripts", fenced))
			}
		}
	}

	for _, l := range linkcheck.Extract(text) {
		if l.Kind != linkcheck.KindImage && v.linkText.Matches(l.Text) {
			add(l.Line+offset, RuleLinkText, fmt.Sprintf("Non-descriptive link text: '%s'", l.Text))
		}
	}
	for _, img := range outline.Images {
		if strings.TrimSpace(img.Alt) == "" {
			line := img.Line
			if line > 0 {
				line += offset
			}
			add(line, RuleImageAlt, "Image missing alt text for accessibility")
		}
	}

	for _, set := range []rules.Set{InclusiveRules, LeadershipRules} {
		for _, f := range set.Findings(d.Path, text) {
			f.Line += offset
			out = append(out, f)
		}
	}

	if slices.Contains(h.Audience, "L7") && !containsAny(lower, scaleIndicators) {
		add(0, RuleL7Scale, "L7 content should include organizational/platform scale examples")
	}
	if strings.Contains(strings.ToLower(d.Path), "interview") && !interviewElements.MatchString(text) {
		add(0, RuleInterview, "Interview content should reference relevant interview elements")
	}

	out = append(out, consistency(d.Path, h, text, lower, outline)...)
	return out
}

func (v *Validator) structure(p string, h header, outline *markdown.Outline) []finding.Finding {
	suggested, ok := suggestedHeadings[h.ContentType]
	if !ok {
		return nil
	}
	var headings []string
	for _, hd := range outline.Headings {
		headings = append(headings, strings.ToLower(hd.Text))
	}
	found := 0
	for _, s := range suggested {
		if slices.ContainsFunc(headings, func(hd string) bool { return strings.Contains(hd, s) }) {
			found++
		}
	}
	if found >= len(suggested)/2 {
		return nil
	}
	return []finding.Finding{{
		Path: p, Rule: RuleStructure, Severity: finding.SeverityWarning,
		Message: fmt.Sprintf("Content may be missing recommended structure for %s (suggested headings: %s)", h.ContentType, strings.Join(suggested, ", ")),
	}}
}

func consistency(p string, h header, text, lower string, outline *markdown.Outline) []finding.Finding {
	var out []finding.Finding
	add := func(line int, rule, msg string) {
		out = append(out, finding.Finding{Path: p, Line: line, Rule: rule, Severity: finding.SeverityWarning, Message: msg})
	}

	for _, hd := range outline.Headings {
		if hd.Level != 1 {
			continue
		}
		heading := parser.StripEmoji(hd.Text)
		if !strings.EqualFold(h.Title, heading) {
			add(0, RuleTitleMismatch, fmt.Sprintf("Title mismatch: metadata='%s' vs content='%s'", h.Title, heading))
		}
		break
	}

	if est, ok := EstimateMinutes(h.EstimatedTime); ok {
		words := len(strings.Fields(text))
		actual := words / wordsPerMinute
		diff := est - actual
		if diff < 0 {
			diff = -diff
		}
		if float64(diff) > max(5, float64(est)*0.5) {
			add(0, RuleTimeEstimate, fmt.Sprintf("Time estimate may be inaccurate: %s for %d words", h.EstimatedTime, words))
		}
	}

	if h.Difficulty != "" {
		hard := containsAny(lower, complexIndicators)
		easy := containsAny(lower, simpleIndicators)
		switch {
		case (h.Difficulty == "beginner" || h.Difficulty == "intermediate") && hard && !easy:
			add(0, RuleDifficulty, fmt.Sprintf("Difficulty '%s' may not match complex content", h.Difficulty))
		case (h.Difficulty == "advanced" || h.Difficulty == "expert") && easy && !hard:
			add(0, RuleDifficulty, fmt.Sprintf("Difficulty '%s' may not match simple content", h.Difficulty))
		}
	}
	return out
}

// EstimateMinutes reads an estimated_time value such as "15 min", "2h" or
// "1h 30m".
func EstimateMinutes(s string) (int, bool) {
	if m := estimateHoursMins.FindStringSubmatch(s); m != nil {
		hours, _ := strconv.Atoi(m[1])
		mins := 0
		if m[2] != "" {
			mins, _ = strconv.Atoi(m[2])
		}
		return hours*60 + mins, true
	}
	if m := estimateFirstNumber.FindString(s); m != "" {
		n, err := strconv.Atoi(m)
		return n, err == nil
	}
	return 0, false
}

// decodeHeader decodes the front-matter of data into h and returns the body.
func decodeHeader(data []byte, h *header) ([]byte, error) {
	if !parser.HasHeader(data) {
		return nil, apperr.ErrMissingFrontmatter
	}
	body, err := frontmatter.Parse(bytes.NewReader(data), h)
	if err != nil {
		return nil, fmt.Errorf("content: decode front-matter: %w", err)
	}
	return body, nil
}

// headerLines counts the lines in front of body.
func headerLines(data, body []byte) int {
	n := len(data) - len(body)
	if n <= 0 || !bytes.HasSuffix(data, body) {
		return 0
	}
	return bytes.Count(data[:n], []byte("\n"))
}

func containsAny(s string, needles []string) bool {
	return slices.ContainsFunc(needles, func(n string) bool { return strings.Contains(s, n) })
}
