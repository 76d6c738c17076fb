// Package rules implements heuristic text checks as data: each rule is a
// pattern plus a message, so new checks are added to a Set rather than to
// control flow.
package rules

import (
	"regexp"
	"strings"

	"github.com/starford/docsaudit/internal/finding"
)

// Scope controls how often a rule may fire.
type Scope int

const (
	// ScopeLine fires at most once per matching line.
	ScopeLine Scope = iota
	// ScopeDocument fires at most once per document, at the first match.
	ScopeDocument
)

// Rule is a single (pattern, message) check.
//
// Message may contain the placeholders {match} (the matched text as written)
// and {lower} (the matched text lower-cased).
type Rule struct {
	ID       string
	Pattern  *regexp.Regexp
	Message  string
	Severity finding.Severity
	Scope    Scope
	// Unless suppresses a hit when the same line (or document) matches it.
	Unless *regexp.Regexp
	// UnlessLine skips matching lines that also match it, in either scope.
	UnlessLine *regexp.Regexp
	// MaxLine limits line-scoped rules to the first MaxLine lines when > 0.
	MaxLine int
}

// Line returns a line-scoped warning rule.
func Line(id, pattern, message string) Rule {
	return Rule{ID: id, Pattern: regexp.MustCompile(pattern), Message: message, Severity: finding.SeverityWarning, Scope: ScopeLine}
}

// Document returns a document-scoped warning rule.
func Document(id, pattern, message string) Rule {
	return Rule{ID: id, Pattern: regexp.MustCompile(pattern), Message: message, Severity: finding.SeverityWarning, Scope: ScopeDocument}
}

// Until limits the rule to the first n lines.
func (r Rule) Until(n int) Rule {
	r.MaxLine = n
	return r
}

// Except suppresses the rule where pattern also matches.
func (r Rule) Except(pattern string) Rule {
	r.Unless = regexp.MustCompile(pattern)
	return r
}

// ExceptLine skips lines where pattern also matches. For document rules the
// first remaining line is reported.
func (r Rule) ExceptLine(pattern string) Rule {
	r.UnlessLine = regexp.MustCompile(pattern)
	return r
}

// As sets the rule severity.
func (r Rule) As(s finding.Severity) Rule {
	r.Severity = s
	return r
}

// Hit is one rule firing.
type Hit struct {
	Rule     string
	Line     int
	Match    string
	Message  string
	Severity finding.Severity
}

// Set is an ordered list of rules. Hits are reported in rule order, then by
// position, so output is deterministic.
type Set []Rule

// Check applies every rule to text.
func (s Set) Check(text string) []Hit {
	lines := strings.Split(text, "\n")
	var hits []Hit
	for _, r := range s {
		hits = append(hits, r.check(lines)...)
	}
	return hits
}

// Matches reports whether any rule fires on text.
func (s Set) Matches(text string) bool {
	return len(s.Check(text)) > 0
}

// Findings applies the set and converts hits into findings for path.
func (s Set) Findings(path, text string) []finding.Finding {
	hits := s.Check(text)
	out := make([]finding.Finding, 0, len(hits))
	for _, h := range hits {
		out = append(out, finding.Finding{
			Path:     path,
			Line:     h.Line,
			Rule:     h.Rule,
			Severity: h.Severity,
			Message:  h.Message,
		})
	}
	return out
}

func (r Rule) check(lines []string) []Hit {
	var hits []Hit
	for i, line := range lines {
		if r.Scope == ScopeLine && r.MaxLine > 0 && i >= r.MaxLine {
			break
		}
		m := r.Pattern.FindString(line)
		if m == "" && !r.Pattern.MatchString(line) {
			continue
		}
		if r.Unless != nil && r.Scope == ScopeLine && r.Unless.MatchString(line) {
			continue
		}
		if r.UnlessLine != nil && r.UnlessLine.MatchString(line) {
			continue
		}
		hits = append(hits, r.hit(i+1, m))
		if r.Scope == ScopeDocument {
			break
		}
	}
	if r.Scope == ScopeDocument && len(hits) > 0 && r.Unless != nil {
		if r.Unless.MatchString(strings.Join(lines, "\n")) {
			return nil
		}
	}
	return hits
}

func (r Rule) hit(line int, match string) Hit {
	msg := strings.NewReplacer("{match}", match, "{lower}", strings.ToLower(match)).Replace(r.Message)
	return Hit{Rule: r.ID, Line: line, Match: match, Message: msg, Severity: r.Severity}
}
