package linkcheck

import (
	"encoding/json"
	"io"
	"path"
	"strings"

	"github.com/starford/docsaudit/internal/finding"
)

// FileResult is the outcome for one documentation file.
type FileResult struct {
	Path     string            `json:"path"`
	Edges    []Edge            `json:"-"`
	Findings []finding.Finding `json:"findings"`
}

// Report is the result of one link check run.
type Report struct {
	Root       string            `json:"root"`
	NavPath    string            `json:"nav_path,omitempty"`
	NavChecked bool              `json:"nav_checked"`
	Files      []FileResult      `json:"files"`
	Orphans    []string          `json:"orphans"`
	Navigation []finding.Finding `json:"navigation"`
}

// Summary holds the counts printed at the end of a run.
type Summary struct {
	FilesChecked     int `json:"files_checked"`
	FilesWithIssues  int `json:"files_with_issues"`
	Orphans          int `json:"orphans"`
	NavigationIssues int `json:"navigation_issues"`
	TotalIssues      int `json:"total_issues"`
}

// Summary computes the run counts.
func (r *Report) Summary() Summary {
	s := Summary{FilesChecked: len(r.Files), Orphans: len(r.Orphans), NavigationIssues: len(r.Navigation)}
	issues := 0
	for _, f := range r.Files {
		if len(f.Findings) > 0 {
			s.FilesWithIssues++
			issues += len(f.Findings)
		}
	}
	s.TotalIssues = issues + s.Orphans + s.NavigationIssues
	return s
}

// Failed reports whether any blocking finding exists.
func (r *Report) Failed() bool {
	for _, f := range r.Files {
		if finding.Worst(f.Findings) == finding.SeverityError {
			return true
		}
	}
	return finding.Worst(r.Navigation) == finding.SeverityError
}

// Findings flattens the report into the shared finding model, orphans
// included as warnings.
func (r *Report) Findings() *finding.Report {
	out := finding.NewReport("links")
	out.FilesChecked = len(r.Files)
	for _, f := range r.Files {
		out.Add(f.Findings...)
	}
	for _, o := range r.Orphans {
		out.Add(finding.Finding{Path: o, Rule: RuleOrphan, Severity: finding.SeverityWarning, Message: "Orphaned file: " + r.display(o)})
	}
	out.Add(r.Navigation...)
	return out
}

// Edges returns every link of the graph in file order.
func (r *Report) Edges() map[string][]Edge {
	out := make(map[string][]Edge, len(r.Files))
	for _, f := range r.Files {
		out[f.Path] = f.Edges
	}
	return out
}

// WriteJSON writes the report with its summary as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*Report
		Summary Summary `json:"summary"`
		Failed  bool    `json:"failed"`
	}{r, r.Summary(), r.Failed()})
}

// WriteText writes the human-readable report.
func (r *Report) WriteText(w io.Writer) error {
	p := finding.NewPrinter(w)
	root := r.Root
	if root == "" {
		root = "."
	}

	p.Linef("🔗 Validating internal links in %s...", root)
	p.Line("")
	for _, f := range r.Files {
		if len(f.Findings) == 0 {
			p.Linef("✅ %s", r.display(f.Path))
			continue
		}
		p.Linef("%s %s", finding.Icon(finding.Worst(f.Findings)), r.display(f.Path))
		for _, fd := range f.Findings {
			p.Linef("   • %s", fd)
		}
		p.Line("")
	}

	p.Line("")
	p.Line("🔍 Checking for orphaned files...")
	if len(r.Orphans) > 0 {
		p.Line("⚠️  Orphaned files (not linked from anywhere):")
		for _, o := range r.Orphans {
			p.Linef("   • %s", r.display(o))
		}
		p.Line("")
	} else {
		p.Line("✅ No orphaned files found")
	}

	p.Line("")
	p.Line("📑 Checking navigation consistency...")
	switch {
	case !r.NavChecked:
		p.Line("⏭️  Navigation check skipped (no manifest configured)")
	case len(r.Navigation) > 0:
		p.Linef("%s Navigation issues:", finding.Icon(finding.Worst(r.Navigation)))
		for _, fd := range r.Navigation {
			p.Linef("   • %s", fd)
		}
		p.Line("")
	default:
		p.Line("✅ Navigation is consistent")
	}

	s := r.Summary()
	p.Line("")
	p.Line(strings.Repeat("=", 60))
	p.Line("📊 Link Validation Summary:")
	p.Linef("   Files checked: %d", s.FilesChecked)
	p.Linef("   Files with link issues: %d", s.FilesWithIssues)
	p.Linef("   Orphaned files: %d", s.Orphans)
	p.Linef("   Navigation issues: %d", s.NavigationIssues)
	p.Linef("   Total issues: %d", s.TotalIssues)

	if s.TotalIssues > 0 {
		p.Line("")
		p.Line("🎯 Next Steps:")
		p.Line("1. Fix broken internal links")
		p.Line("2. Update link text to be more descriptive")
		p.Line("3. Consider linking orphaned files from relevant content")
		p.Line("4. Update navigation in the site configuration if needed")
		p.Line("5. Run validation again to verify fixes")
	}
	p.Line("")
	switch {
	case r.Failed():
		p.Line("❌ Link validation failed")
	case s.TotalIssues > 0:
		p.Line("⚠️  Link validation passed with warnings")
	default:
		p.Line("🎉 All link validation passed!")
		p.Line("   All internal links are working correctly")
	}
	return p.Err()
}

func (r *Report) display(p string) string {
	if r.Root == "" {
		return p
	}
	return path.Join(r.Root, p)
}
