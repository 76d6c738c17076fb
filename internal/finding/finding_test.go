package finding

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func sample() *Report {
	r := NewReport("links")
	r.Check("a.md")
	r.Check("b.md")
	r.Check("c.md")
	r.Add(
		Finding{Path: "c.md", Line: 4, Rule: "x", Severity: SeverityWarning, Message: "second"},
		Finding{Path: "b.md", Rule: "y", Severity: SeverityError, Message: "file level"},
		Finding{Path: "c.md", Line: 2, Rule: "x", Severity: SeverityWarning, Message: "first"},
	)
	r.Sort()
	return r
}

func TestReport_SortAndCounts(t *testing.T) {
	r := sample()
	var got []string
	for _, f := range r.Findings {
		got = append(got, f.Path+":"+f.Message)
	}
	want := "b.md:file level,c.md:first,c.md:second"
	if strings.Join(got, ",") != want {
		t.Errorf("order = %v, want %s", got, want)
	}
	if r.FilesChecked != 3 || r.ErrorCount() != 1 || r.WarningCount() != 2 {
		t.Errorf("counts: checked=%d errors=%d warnings=%d", r.FilesChecked, r.ErrorCount(), r.WarningCount())
	}
	if !r.HasErrors() || r.FilesWithFindings() != 2 {
		t.Errorf("HasErrors=%v FilesWithFindings=%d", r.HasErrors(), r.FilesWithFindings())
	}
}

func TestFinding_String(t *testing.T) {
	if s := (Finding{Line: 3, Message: "m"}).String(); s != "Line 3: m" {
		t.Errorf("got %q", s)
	}
	if s := (Finding{Message: "m"}).String(); s != "m" {
		t.Errorf("got %q", s)
	}
}

func TestSeverity_TextRoundTrip(t *testing.T) {
	b, err := json.Marshal(Finding{Severity: SeverityError})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte(`"severity":"error"`)) {
		t.Errorf("json = %s", b)
	}
	var s Severity
	if err := s.UnmarshalText([]byte("Warning")); err != nil || s != SeverityWarning {
		t.Errorf("UnmarshalText = %v, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("fatal")); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &TextFormatter{Title: "🔍 Checking", Footer: []string{"💡 tip"}}
	if err := f.Format(&buf, sample()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"🔍 Checking\n",
		"✅ a.md\n",
		"❌ b.md\n   • file level\n",
		"⚠️  c.md\n   • Line 2: first\n   • Line 4: second\n",
		"   Files checked: 3\n",
		"   Files with issues: 2\n",
		"   Files passing: 1\n",
		"   Errors: 1\n",
		"   Warnings: 2\n",
		"💡 tip\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextFormatter_NoFooterWhenClean(t *testing.T) {
	r := NewReport("content")
	r.Check("a.md")
	var buf bytes.Buffer
	if err := (&TextFormatter{Footer: []string{"💡 tip"}}).Format(&buf, r); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "tip") {
		t.Errorf("footer printed for clean report:\n%s", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatJSON, "").Format(&buf, sample()); err != nil {
		t.Fatal(err)
	}
	var got struct {
		Pass         string    `json:"pass"`
		FilesChecked int       `json:"files_checked"`
		Findings     []Finding `json:"findings"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Pass != "links" || got.FilesChecked != 3 || len(got.Findings) != 3 {
		t.Errorf("decoded %+v", got)
	}
	if got.Findings[0].Severity != SeverityError {
		t.Errorf("severity = %v", got.Findings[0].Severity)
	}
}
