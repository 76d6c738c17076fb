package metrics

import (
	"slices"
	"testing"
)

func TestCountWords(t *testing.T) {
	text := "# Title\n\nSome **bold** words [link](https://example.com/x).\n\n```go\nfunc main() {}\n```\n\nUse `go test` now."
	if got := CountWords(text); got != 7 {
		t.Errorf("CountWords = %d, want 7", got)
	}
}

func TestMeasure(t *testing.T) {
	content := "---\ntitle: T\n---\n\n# Caching\n\n1. Design a cache\n\n## Problem: eviction\n\n" +
		"See https://example.com/a and https://github.com/acme/systemcraft/tree.\n\n" +
		"```python\nprint(1)\n```\n\n```\nplain\n```\n\nRun `make`.\n"
	f := Measure("coding/cache.md", []byte(content))

	if f.Section != "coding" {
		t.Errorf("section = %q", f.Section)
	}
	if f.CodeExamples != 3 {
		t.Errorf("code examples = %d, want 3", f.CodeExamples)
	}
	if !slices.Equal(f.Languages, []string{"python", "text"}) {
		t.Errorf("languages = %v", f.Languages)
	}
	if !slices.Equal(f.ExternalLinks, []string{"https://example.com/a"}) {
		t.Errorf("external links = %v", f.ExternalLinks)
	}
	if f.PracticeProblems != 2 {
		t.Errorf("problems = %d, want 2", f.PracticeProblems)
	}
	if f.ReadingMinutes != 1 || f.Template {
		t.Errorf("reading = %d template = %v", f.ReadingMinutes, f.Template)
	}
}

func TestSectionAndTemplate(t *testing.T) {
	cases := []struct {
		path     string
		section  string
		template bool
	}{
		{"index.md", RootSection, false},
		{"behavioral/star.md", "behavioral", false},
		{"_templates/guide.md", "_templates", true},
		{"portfolio/Case-Study-Template.md", "portfolio", true},
	}
	for _, c := range cases {
		if got := Section(c.path); got != c.section {
			t.Errorf("Section(%q) = %q, want %q", c.path, got, c.section)
		}
		if got := IsTemplate(c.path); got != c.template {
			t.Errorf("IsTemplate(%q) = %v", c.path, got)
		}
	}
}

func TestReadingMinutes(t *testing.T) {
	cases := map[int]int{0: 1, 99: 1, 300: 2, 500: 2, 700: 4, 1000: 5}
	for words, want := range cases {
		if got := ReadingMinutes(words); got != want {
			t.Errorf("ReadingMinutes(%d) = %d, want %d", words, got, want)
		}
	}
}
