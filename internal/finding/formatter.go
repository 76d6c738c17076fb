package finding

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formats understood by NewFormatter.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Formatter writes a report for output.
type Formatter interface {
	Format(w io.Writer, r *Report) error
}

// NewFormatter returns the formatter for the given format name, falling back
// to text.
func NewFormatter(format, title string) Formatter {
	if format == FormatJSON {
		return JSONFormatter{}
	}
	return &TextFormatter{Title: title}
}

// JSONFormatter writes the report as indented JSON.
type JSONFormatter struct{}

// Format encodes r to w.
func (JSONFormatter) Format(w io.Writer, r *Report) error {
	return WriteJSON(w, r)
}

// WriteJSON encodes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// TextFormatter writes a human-readable, file-grouped report.
type TextFormatter struct {
	Title string
	// Footer is printed after the summary when the report has findings.
	Footer []string
}

// Format outputs the report grouped by file with a summary block.
func (f *TextFormatter) Format(w io.Writer, r *Report) error {
	p := NewPrinter(w)
	if f.Title != "" {
		p.Line(f.Title)
		p.Line("")
	}

	groups := r.ByFile()
	failing := make(map[string]bool, len(groups))
	for _, g := range groups {
		failing[g.Path] = true
	}

	for _, path := range r.Checked {
		if !failing[path] {
			p.Linef("✅ %s", path)
		}
	}
	for _, g := range groups {
		p.Linef("%s %s", Icon(Worst(g.Findings)), g.Path)
		for _, fd := range g.Findings {
			p.Linef("   • %s", fd)
		}
		p.Line("")
	}

	p.Line("")
	p.Line(strings.Repeat("=", 60))
	p.Line("📊 Summary:")
	p.Linef("   Files checked: %d", r.FilesChecked)
	p.Linef("   Files with issues: %d", len(groups))
	p.Linef("   Files passing: %d", max(r.FilesChecked-len(groups), 0))
	p.Linef("   Errors: %d", r.ErrorCount())
	p.Linef("   Warnings: %d", r.WarningCount())
	p.Linef("   Total issues: %d", len(r.Findings))
	if len(r.Findings) > 0 && len(f.Footer) > 0 {
		p.Line("")
		for _, l := range f.Footer {
			p.Line(l)
		}
	}
	return p.Err()
}

// Icon returns the marker printed next to a file for a severity.
func Icon(s Severity) string {
	switch s {
	case SeverityError:
		return "❌"
	case SeverityWarning:
		return "⚠️ "
	default:
		return "ℹ️ "
	}
}

// Worst returns the highest severity in fs, SeverityInfo when empty.
func Worst(fs []Finding) Severity {
	w := SeverityInfo
	for _, f := range fs {
		if f.Severity > w {
			w = f.Severity
		}
	}
	return w
}

// Printer writes lines and keeps the first write error so formatting code
// stays linear.
type Printer struct {
	w   io.Writer
	err error
}

// NewPrinter wraps w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Line writes s followed by a newline.
func (p *Printer) Line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

// Linef formats and writes one line.
func (p *Printer) Linef(format string, args ...any) {
	p.Line(fmt.Sprintf(format, args...))
}

// Err returns the first write error.
func (p *Printer) Err() error {
	return p.err
}
