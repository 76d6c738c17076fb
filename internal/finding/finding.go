// Package finding holds the issue model shared by every audit pass and the
// formatters that print it.
package finding

import (
	"fmt"
	"sort"
	"strings"
)

// Severity indicates the importance level of a finding.
type Severity int

const (
	// SeverityInfo marks purely informational output.
	SeverityInfo Severity = iota
	// SeverityWarning marks advisory findings that never fail a pass.
	SeverityWarning
	// SeverityError marks findings that fail a pass that enforces them.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("finding: unknown severity %q", b)
	}
	return nil
}

// Finding is a single problem found in a file.
type Finding struct {
	Path     string   `json:"path"`
	Line     int      `json:"line,omitempty"` // 0 for file-level findings
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// String renders the finding the way the text formatter lists it.
func (f Finding) String() string {
	if f.Line > 0 {
		return fmt.Sprintf("Line %d: %s", f.Line, f.Message)
	}
	return f.Message
}

// Report collects the findings of one pass.
type Report struct {
	Pass         string    `json:"pass"`
	FilesChecked int       `json:"files_checked"`
	Findings     []Finding `json:"findings"`
	// Checked lists the files examined, in order. Files without findings are
	// printed as passing by the text formatter.
	Checked      []string  `json:"-"`
}

// NewReport returns an empty report for the named pass.
func NewReport(pass string) *Report {
	return &Report{Pass: pass, Findings: []Finding{}}
}

// Check records path as examined.
func (r *Report) Check(path string) {
	r.Checked = append(r.Checked, path)
	r.FilesChecked = len(r.Checked)
}

// Add appends findings to the report.
func (r *Report) Add(fs ...Finding) {
	r.Findings = append(r.Findings, fs...)
}

// Sort orders findings by path, then line. Findings that compare equal keep
// their insertion order, so output is stable across runs.
func (r *Report) Sort() {
	sort.SliceStable(r.Findings, func(i, j int) bool {
		a, b := r.Findings[i], r.Findings[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Line < b.Line
	})
}

// HasErrors returns true if any error-level finding exists.
func (r *Report) HasErrors() bool {
	return r.ErrorCount() > 0
}

// ErrorCount returns the number of error-level findings.
func (r *Report) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of warning-level findings.
func (r *Report) WarningCount() int {
	return r.count(SeverityWarning)
}

func (r *Report) count(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// Group is the findings of one file.
type Group struct {
	Path     string
	Findings []Finding
}

// ByFile groups findings per file in first-seen order. Call Sort first for
// lexicographic output.
func (r *Report) ByFile() []Group {
	var groups []Group
	index := make(map[string]int)
	for _, f := range r.Findings {
		i, ok := index[f.Path]
		if !ok {
			i = len(groups)
			index[f.Path] = i
			groups = append(groups, Group{Path: f.Path})
		}
		groups[i].Findings = append(groups[i].Findings, f)
	}
	return groups
}

// FilesWithFindings returns how many distinct files have at least one finding.
func (r *Report) FilesWithFindings() int {
	return len(r.ByFile())
}
