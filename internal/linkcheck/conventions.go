package linkcheck

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/starford/docsaudit/internal/finding"
	"github.com/starford/docsaudit/internal/rules"
)

// Convention rule IDs.
const (
	RuleNonDescriptive   = "non-descriptive-text"
	RuleMissingExtension = "missing-extension"
	RuleIndexLink        = "index-link"
	RuleUnknownAnchor    = "unknown-anchor"
)

// DefaultGenericTexts are link texts that say nothing about the target.
var DefaultGenericTexts = []string{"here", "click here", "link", "this", "read more", "more info"}

// TextRules builds the link-text rule set for the given generic texts.
func TextRules(generic []string) rules.Set {
	if len(generic) == 0 {
		return nil
	}
	quoted := make([]string, len(generic))
	for i, g := range generic {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(g)))
	}
	pattern := `(?i)^\s*(?:` + strings.Join(quoted, "|") + `)\s*$`
	return rules.Set{rules.Line(RuleNonDescriptive, pattern, "Non-descriptive link text")}
}

// conventions returns the style findings for one existing internal link
// target. Missing extensions are reported with broken links instead.
func (c *Checker) conventions(source string, l Link, resolved string) []finding.Finding {
	var out []finding.Finding
	warn := func(rule, msg string) {
		out = append(out, finding.Finding{Path: source, Line: l.Line, Rule: rule, Severity: finding.SeverityWarning, Message: msg})
	}

	p, _ := SplitTarget(l.Target)
	ext := c.ext
	if path.Base(resolved) == "index"+ext && strings.HasSuffix(p, "index"+ext) {
		suggested := strings.Replace(l.Target, "/index"+ext, "/", 1)
		if suggested != l.Target {
			warn(RuleIndexLink, fmt.Sprintf("Consider linking to directory: [%s](%s) instead of [%s](%s)", l.Text, suggested, l.Text, l.Target))
		}
	}
	return out
}

// textFindings checks the display text of any non-image link.
func (c *Checker) textFindings(source string, l Link) []finding.Finding {
	if l.Kind == KindImage {
		return nil
	}
	var out []finding.Finding
	for _, h := range c.text.Check(l.Text) {
		out = append(out, finding.Finding{
			Path:     source,
			Line:     l.Line,
			Rule:     h.Rule,
			Severity: h.Severity,
			Message:  fmt.Sprintf("%s: [%s](%s)", h.Message, l.Text, l.Target),
		})
	}
	return out
}
