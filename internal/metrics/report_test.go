package metrics

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/docsaudit/internal/docset"
	"github.com/starford/docsaudit/internal/models"
)

func words(n int) string {
	return strings.Repeat("word ", n)
}

func sampleFiles() []File {
	return []File{
		{Path: "index.md", Section: RootSection, Words: 200, ReadingMinutes: 1},
		{Path: "coding/arrays.md", Section: "coding", Words: 6000, CodeExamples: 4,
			Languages: []string{"python", "python", "go"}, PracticeProblems: 30,
			ExternalLinks: []string{"https://a.example", "https://b.example"}, ReadingMinutes: 30},
		{Path: "coding/graphs.md", Section: "coding", Words: 6000, PracticeProblems: 45,
			ExternalLinks: []string{"https://a.example"}, ReadingMinutes: 30},
		{Path: "behavioral/stories.md", Section: "behavioral", Words: 7800, PracticeProblems: 5, ReadingMinutes: 39},
		{Path: "_templates/guide-template.md", Section: "_templates", Words: 0, Template: true, ReadingMinutes: 1},
	}
}

func TestAggregate_Totals(t *testing.T) {
	r := Aggregate(sampleFiles())
	s := r.Summary
	if s.TotalFiles != 5 || s.TotalWords != 20000 {
		t.Fatalf("summary = %+v", s)
	}
	if s.TotalReadingMinutes != 100 || s.TotalReadingHours != 1.7 {
		t.Errorf("reading = %d min, %.1f h", s.TotalReadingMinutes, s.TotalReadingHours)
	}
	if s.AverageWordsPerFile != 4000 {
		t.Errorf("average = %d", s.AverageWordsPerFile)
	}
	if s.UniqueExternalResources != 2 || s.TotalTemplates != 1 || s.TotalPracticeProblems != 80 {
		t.Errorf("summary = %+v", s)
	}
	if got := r.SectionDetails["coding"]; got.Files != 2 || got.Words != 12000 || got.ExternalLinks != 3 {
		t.Errorf("coding section = %+v", got)
	}
	if r.CodeExamples.ByLanguage["python"] != 2 || r.CodeExamples.BySection["coding"] != 4 {
		t.Errorf("code examples = %+v", r.CodeExamples)
	}
	if r.PracticeProblems.Coding != 75 || r.PracticeProblems.Behavioral != 5 {
		t.Errorf("problems = %+v", r.PracticeProblems)
	}
}

func TestAggregate_Distribution(t *testing.T) {
	r := Aggregate(sampleFiles())
	if got := r.ContentDistribution["coding"]; got.Percentage != 60 || got.Words != 12000 {
		t.Errorf("coding share = %+v", got)
	}
	if got := r.ContentDistribution["behavioral"].Percentage; got != 39 {
		t.Errorf("behavioral share = %v", got)
	}
	if got := r.ReadingTimes.BySection["coding"]; got != 60 {
		t.Errorf("coding reading = %d", got)
	}
}

func TestAggregate_PreparationPaths(t *testing.T) {
	r := Aggregate(sampleFiles())
	want := map[string]int{PathQuickStart: 0, PathL6: 99, PathL7: 99, PathComplete: 100}
	for name, minutes := range want {
		if got := r.PreparationPaths[name].Minutes; got != minutes {
			t.Errorf("%s = %d min, want %d", name, got, minutes)
		}
	}
	if got := r.PreparationPaths[PathL6].Hours; got != 1.7 {
		t.Errorf("l6 hours = %v", got)
	}
}

func TestAggregate_Completeness(t *testing.T) {
	r := Aggregate(sampleFiles())

	coding := r.Completeness["coding"]
	if coding.WordCompleteness != 80 || coding.ReadingTimeCompleteness != 12.5 {
		t.Errorf("coding = %+v", coding)
	}
	if coding.ProblemCompleteness == nil || *coding.ProblemCompleteness != 50 {
		t.Errorf("coding problems = %v", coding.ProblemCompleteness)
	}
	if coding.Assessment != AssessNeedsExpansion {
		t.Errorf("coding assessment = %q", coding.Assessment)
	}

	behavioral := r.Completeness["behavioral"]
	if behavioral.WordCompleteness != 97.5 || behavioral.ProblemCompleteness != nil {
		t.Errorf("behavioral = %+v", behavioral)
	}
	if got := r.Completeness["fundamentals"]; got.WordCompleteness != 0 || got.Assessment != AssessNeedsExpansion {
		t.Errorf("fundamentals = %+v", got)
	}
}

func TestAggregate_ResourcesAndStandards(t *testing.T) {
	r := Aggregate([]File{
		{Path: "coding/arrays.md", Section: "coding", Words: 240000, PracticeProblems: 50, Template: true,
			ExternalLinks: []string{"https://a.example", "https://a.example"}},
		{Path: "system-design/feeds.md", Section: "system-design", PracticeProblems: 30},
		{Path: "interactive/design-canvas.md", Section: "interactive"},
		{Path: "interactive/assessment-tools.md", Section: "interactive"},
		{Path: "practice/12-week-plan.md", Section: "practice"},
		{Path: "practice/self-assessment.md", Section: "practice"},
		{Path: "practice/resources.md", Section: "practice"},
	})

	want := Resources{
		Templates:          1,
		CodeExamples:       0,
		PracticeProblems:   80,
		ExternalReferences: 2,
		InteractiveTools:   2,
		StudyPlans:         1,
		AssessmentTools:    2,
	}
	if r.Resources != want {
		t.Errorf("resources = %+v, want %+v", r.Resources, want)
	}

	// 1200 reading minutes become 50 hours with practice.
	c := r.Comparison
	if c.Content.L6 != 50 || c.Content.L7 != 33.3 {
		t.Errorf("content coverage = %+v", c.Content)
	}
	if c.Problems.Coding != 25 || c.Problems.SystemDesign != 200 || c.Problems.Behavioral != 0 {
		t.Errorf("problem coverage = %+v", c.Problems)
	}
}

func TestAggregate_ContentCoverageIsCapped(t *testing.T) {
	r := Aggregate([]File{{Path: "coding/a.md", Section: "coding", Words: 1_000_000}})
	if r.Comparison.Content.L6 != 100 || r.Comparison.Content.L7 != 100 {
		t.Errorf("content coverage = %+v", r.Comparison.Content)
	}
}

func TestRun_JSONDeterministic(t *testing.T) {
	set := &docset.Set{
		Documents: []models.Document{
			{Path: "a/one.md", Content: []byte("# One\n\n" + words(50))},
			{Path: "b/two.md", Content: []byte("# Two\n\nhttps://x.example/y\n")},
		},
		ReadErrors: []models.ReadError{{Path: "c.md", Err: "denied"}},
	}
	a := NewAnalyzer(nil)

	var first, second bytes.Buffer
	for _, buf := range []*bytes.Buffer{&first, &second} {
		r, err := a.Run(context.Background(), set)
		if err != nil {
			t.Fatal(err)
		}
		if err := r.WriteJSON(buf); err != nil {
			t.Fatal(err)
		}
	}
	if first.String() != second.String() {
		t.Fatal("JSON output differs between runs")
	}

	var decoded map[string]any
	if err := json.Unmarshal(first.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"summary", "content_distribution", "section_details", "reading_times",
		"code_examples", "practice_problems", "templates", "preparation_paths", "content_completeness", "resource_availability", "comparison_to_standards", "read_errors"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("report missing %q", key)
		}
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	set := &docset.Set{Documents: []models.Document{{Path: "a.md"}}}
	if _, err := NewAnalyzer(nil).Run(ctx, set); err == nil {
		t.Fatal("expected context error")
	}
}

func TestSave(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.json")
	if err := Aggregate(sampleFiles()).Save(out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"total_words": 20000`)) {
		t.Errorf("saved report:\n%s", data)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := Aggregate(sampleFiles()).WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Total Words: 20,000\n",
		"Total Reading Time: 1.7 hours (100 minutes)\n",
		"L6 Preparation: 1.7 hours\n",
		"coding: 60.0% (12,000 words)\n",
		"python: 2\n",
		"Coding: 75\n",
		"Study Plans: 0\n",
		"Coding Problems vs. Minimum: 37.5%\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Sections are listed by word count.
	if strings.Index(out, "coding: 60.0%") > strings.Index(out, "behavioral: 39.0%") {
		t.Error("distribution not sorted by words")
	}
}

func TestThousands(t *testing.T) {
	cases := map[int]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4200: "-4,200"}
	for n, want := range cases {
		if got := thousands(n); got != want {
			t.Errorf("thousands(%d) = %q, want %q", n, got, want)
		}
	}
}
