package metrics

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/starford/docsaudit/internal/docset"
	"github.com/starford/docsaudit/internal/finding"
)

// Preparation path names.
const (
	PathQuickStart = "quick_start"
	PathL6         = "l6_preparation"
	PathL7         = "l7_preparation"
	PathComplete   = "complete_study"
)

// preparationSections lists the sections each study path reads. The
// complete path reads everything.
var preparationSections = map[string][]string{
	PathQuickStart: {"fundamentals", "getting-started", "practice"},
	PathL6:         {"fundamentals", "behavioral", "coding", "system-design", "practice"},
	PathL7:         {"fundamentals", "behavioral", "coding", "system-design", "deep-dives", "portfolio", "practice"},
}

// Benchmark is the expected minimum size of a section.
type Benchmark struct {
	Words        int
	ReadingHours float64
	Problems     int // 0 when problems are not benchmarked
}

// Benchmarks are the completeness targets per section.
var Benchmarks = map[string]Benchmark{
	"behavioral":    {Words: 8000, ReadingHours: 4},
	"coding":        {Words: 15000, ReadingHours: 8, Problems: 150},
	"system-design": {Words: 10000, ReadingHours: 6, Problems: 20},
	"fundamentals":  {Words: 5000, ReadingHours: 3},
}

// Standards are the typical totals a full interview preparation needs.
var Standards = struct {
	L6Hours              float64
	L7Hours              float64
	CodingProblems       int
	SystemDesignProblems int
	BehavioralScenarios  int
}{L6Hours: 100, L7Hours: 150, CodingProblems: 200, SystemDesignProblems: 15, BehavioralScenarios: 30}

// PracticeMultiplier scales reading time to reading plus active practice.
const PracticeMultiplier = 2.5

const (
	interactiveSection = "interactive"
	studyPlanGlob      = "**/practice/*plan*.md"
	assessmentGlob     = "**/*assessment*.md"
)

// Completeness assessments.
const (
	AssessComprehensive  = "comprehensive"
	AssessAdequate       = "adequate"
	AssessNeedsExpansion = "needs_expansion"
)

// SectionStats aggregates the files of one section.
type SectionStats struct {
	Files            int `json:"files"`
	Words            int `json:"words"`
	CodeExamples     int `json:"code_examples"`
	ExternalLinks    int `json:"external_links"`
	Templates        int `json:"templates"`
	PracticeProblems int `json:"practice_problems"`
}

// Summary holds the tree-wide totals.
type Summary struct {
	TotalFiles              int     `json:"total_files"`
	TotalWords              int     `json:"total_words"`
	TotalCharacters         int     `json:"total_characters"`
	TotalReadingMinutes     int     `json:"total_reading_time_minutes"`
	TotalReadingHours       float64 `json:"total_reading_time_hours"`
	AverageWordsPerFile     int     `json:"average_words_per_file"`
	TotalCodeExamples       int     `json:"total_code_examples"`
	TotalTemplates          int     `json:"total_templates"`
	TotalPracticeProblems   int     `json:"total_practice_problems"`
	UniqueExternalResources int     `json:"unique_external_resources"`
}

// Share is a section's part of the total word count.
type Share struct {
	Percentage float64 `json:"percentage"`
	Words      int     `json:"words"`
}

// ReadingTimes are reading minutes per section and overall.
type ReadingTimes struct {
	BySection map[string]int `json:"by_section"`
	ByFile    map[string]int `json:"by_file"`
	Total     int            `json:"total"`
}

// CodeExamples counts code per language and section.
type CodeExamples struct {
	Total      int            `json:"total"`
	ByLanguage map[string]int `json:"by_language"`
	BySection  map[string]int `json:"by_section"`
}

// PracticeProblems counts problems by interview type.
type PracticeProblems struct {
	Behavioral   int `json:"behavioral"`
	Coding       int `json:"coding"`
	SystemDesign int `json:"system_design"`
	Total        int `json:"total"`
}

// Estimate is the reading time of a preparation path.
type Estimate struct {
	Minutes int     `json:"minutes"`
	Hours   float64 `json:"hours"`
}

// SectionCompleteness compares a section with its Benchmark.
type SectionCompleteness struct {
	WordCompleteness        float64  `json:"word_completeness"`
	ReadingTimeCompleteness float64  `json:"reading_time_completeness"`
	ProblemCompleteness     *float64 `json:"problem_completeness,omitempty"`
	PracticeProblems        int      `json:"practice_problems"`
	Assessment              string   `json:"assessment"`
}

// Resources counts the kinds of study material on offer.
type Resources struct {
	Templates          int `json:"templates"`
	CodeExamples       int `json:"code_examples"`
	PracticeProblems   int `json:"practice_problems"`
	ExternalReferences int `json:"external_references"`
	InteractiveTools   int `json:"interactive_tools"`
	StudyPlans         int `json:"study_plans"`
	AssessmentTools    int `json:"assessment_tools"`
}

// ContentCoverage compares path hours, practice included, with Standards.
type ContentCoverage struct {
	L6 float64 `json:"l6_coverage_percentage"`
	L7 float64 `json:"l7_coverage_percentage"`
}

// ProblemCoverage compares section problem counts with Standards. The
// percentages are not capped.
type ProblemCoverage struct {
	Coding       float64 `json:"coding_problems_vs_minimum"`
	SystemDesign float64 `json:"system_design_problems_vs_minimum"`
	Behavioral   float64 `json:"behavioral_scenarios_vs_minimum"`
}

// Comparison holds the coverage against Standards.
type Comparison struct {
	Content  ContentCoverage `json:"content_coverage"`
	Problems ProblemCoverage `json:"problem_coverage"`
}

// Report is the full metrics report. Maps encode with sorted keys, so the
// JSON output is deterministic.
type Report struct {
	Summary             Summary                        `json:"summary"`
	ContentDistribution map[string]Share               `json:"content_distribution"`
	SectionDetails      map[string]*SectionStats       `json:"section_details"`
	ReadingTimes        ReadingTimes                   `json:"reading_times"`
	CodeExamples        CodeExamples                   `json:"code_examples"`
	PracticeProblems    PracticeProblems               `json:"practice_problems"`
	Templates           []string                       `json:"templates"`
	PreparationPaths    map[string]Estimate            `json:"preparation_paths"`
	Completeness        map[string]SectionCompleteness `json:"content_completeness"`
	ExternalResources   []string                       `json:"external_resources"`
	Resources           Resources                      `json:"resource_availability"`
	Comparison          Comparison                     `json:"comparison_to_standards"`
	ReadErrors          []string                       `json:"read_errors,omitempty"`
	Files               []File                         `json:"-"`
}

// Analyzer computes the metrics report of a document set.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Run measures every document of set and aggregates the results.
func (a *Analyzer) Run(ctx context.Context, set *docset.Set) (*Report, error) {
	files := make([]File, 0, len(set.Documents))
	for _, d := range set.Documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files = append(files, Measure(d.Path, d.Content))
	}
	r := Aggregate(files)
	for _, re := range set.ReadErrors {
		r.ReadErrors = append(r.ReadErrors, re.Path)
	}
	a.logger.Debug("metrics: analyzed",
		slog.Int("files", r.Summary.TotalFiles),
		slog.Int("words", r.Summary.TotalWords))
	return r, nil
}

// Aggregate builds the report from per-file measurements.
func Aggregate(files []File) *Report {
	r := &Report{
		ContentDistribution: map[string]Share{},
		SectionDetails:      map[string]*SectionStats{},
		ReadingTimes:        ReadingTimes{BySection: map[string]int{}, ByFile: map[string]int{}},
		CodeExamples:        CodeExamples{ByLanguage: map[string]int{}, BySection: map[string]int{}},
		Templates:           []string{},
		PreparationPaths:    map[string]Estimate{},
		Completeness:        map[string]SectionCompleteness{},
		ExternalResources:   []string{},
		Files:               files,
	}

	seen := map[string]bool{}
	for _, f := range files {
		s := r.section(f.Section)
		s.Files++
		s.Words += f.Words
		s.CodeExamples += f.CodeExamples
		s.ExternalLinks += len(f.ExternalLinks)
		s.PracticeProblems += f.PracticeProblems

		r.Summary.TotalFiles++
		r.Summary.TotalWords += f.Words
		r.Summary.TotalCharacters += f.Characters

		r.CodeExamples.Total += f.CodeExamples
		r.CodeExamples.BySection[f.Section] += f.CodeExamples
		for _, lang := range f.Languages {
			r.CodeExamples.ByLanguage[lang]++
		}

		if f.Template {
			r.Templates = append(r.Templates, f.Path)
			s.Templates++
		}
		for _, u := range f.ExternalLinks {
			if !seen[u] {
				seen[u] = true
				r.ExternalResources = append(r.ExternalResources, u)
			}
		}

		lower := strings.ToLower(f.Path)
		switch {
		case strings.Contains(lower, "behavioral"):
			r.PracticeProblems.Behavioral += f.PracticeProblems
		case strings.Contains(lower, "coding"):
			r.PracticeProblems.Coding += f.PracticeProblems
		case strings.Contains(lower, "system-design"), strings.Contains(lower, "system_design"):
			r.PracticeProblems.SystemDesign += f.PracticeProblems
		}
		r.PracticeProblems.Total += f.PracticeProblems
		r.ReadingTimes.ByFile[f.Path] = f.ReadingMinutes

		if f.Section == interactiveSection {
			r.Resources.InteractiveTools++
		}
		if ok, _ := doublestar.Match(studyPlanGlob, f.Path); ok {
			r.Resources.StudyPlans++
		}
		if ok, _ := doublestar.Match(assessmentGlob, f.Path); ok {
			r.Resources.AssessmentTools++
		}
	}
	slices.Sort(r.ExternalResources)

	total := r.Summary.TotalWords
	for name, s := range r.SectionDetails {
		r.ReadingTimes.BySection[name] = ReadingMinutes(s.Words)
		share := Share{Words: s.Words}
		if total > 0 {
			share.Percentage = round1(float64(s.Words) / float64(total) * 100)
		}
		r.ContentDistribution[name] = share
	}
	r.ReadingTimes.Total = ReadingMinutes(total)

	r.Summary.TotalReadingMinutes = r.ReadingTimes.Total
	r.Summary.TotalReadingHours = round1(float64(r.ReadingTimes.Total) / 60)
	r.Summary.AverageWordsPerFile = int(math.RoundToEven(float64(total) / float64(max(1, r.Summary.TotalFiles))))
	r.Summary.TotalCodeExamples = r.CodeExamples.Total
	r.Summary.TotalTemplates = len(r.Templates)
	r.Summary.TotalPracticeProblems = r.PracticeProblems.Total
	r.Summary.UniqueExternalResources = len(r.ExternalResources)

	for name, sections := range preparationSections {
		minutes := 0
		for _, s := range sections {
			minutes += r.ReadingTimes.BySection[s]
		}
		r.PreparationPaths[name] = estimate(minutes)
	}
	r.PreparationPaths[PathComplete] = estimate(r.ReadingTimes.Total)

	for name, b := range Benchmarks {
		r.Completeness[name] = r.completeness(name, b)
	}

	r.Resources.Templates = r.Summary.TotalTemplates
	r.Resources.CodeExamples = r.CodeExamples.Total
	r.Resources.PracticeProblems = r.PracticeProblems.Total
	for _, s := range r.SectionDetails {
		r.Resources.ExternalReferences += s.ExternalLinks
	}
	r.Comparison = r.compare()
	return r
}

func (r *Report) compare() Comparison {
	coverage := func(path string, want float64) float64 {
		hours := round1(r.PreparationPaths[path].Hours * PracticeMultiplier)
		return round1(min(100, hours/want*100))
	}
	problems := func(section string, want int) float64 {
		n := 0
		if s, ok := r.SectionDetails[section]; ok {
			n = s.PracticeProblems
		}
		return round1(float64(n) / float64(want) * 100)
	}
	return Comparison{
		Content: ContentCoverage{
			L6: coverage(PathL6, Standards.L6Hours),
			L7: coverage(PathL7, Standards.L7Hours),
		},
		Problems: ProblemCoverage{
			Coding:       problems("coding", Standards.CodingProblems),
			SystemDesign: problems("system-design", Standards.SystemDesignProblems),
			Behavioral:   problems("behavioral", Standards.BehavioralScenarios),
		},
	}
}

func (r *Report) section(name string) *SectionStats {
	s, ok := r.SectionDetails[name]
	if !ok {
		s = &SectionStats{}
		r.SectionDetails[name] = s
	}
	return s
}

func (r *Report) completeness(name string, b Benchmark) SectionCompleteness {
	var s SectionStats
	if p, ok := r.SectionDetails[name]; ok {
		s = *p
	}
	hours := 0.0
	if s.Files > 0 {
		hours = float64(r.ReadingTimes.BySection[name]) / 60
	}
	c := SectionCompleteness{
		WordCompleteness:        round1(min(100, float64(s.Words)/float64(b.Words)*100)),
		ReadingTimeCompleteness: round1(min(100, hours/b.ReadingHours*100)),
		PracticeProblems:        s.PracticeProblems,
	}
	switch {
	case hours >= b.ReadingHours:
		c.Assessment = AssessComprehensive
	case hours >= b.ReadingHours*0.7:
		c.Assessment = AssessAdequate
	default:
		c.Assessment = AssessNeedsExpansion
	}
	if b.Problems > 0 {
		p := round1(min(100, float64(s.PracticeProblems)/float64(b.Problems)*100))
		c.ProblemCompleteness = &p
	}
	return c
}

func estimate(minutes int) Estimate {
	return Estimate{Minutes: minutes, Hours: round1(float64(minutes) / 60)}
}

// WriteJSON encodes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Save writes the JSON report to path.
func (r *Report) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("metrics: create report: %w", err)
	}
	if err := r.WriteJSON(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("metrics: write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("metrics: close report: %w", err)
	}
	return nil
}

// WriteText prints the human-readable summary.
func (r *Report) WriteText(w io.Writer) error {
	p := finding.NewPrinter(w)
	s := r.Summary
	p.Line("=== CONTENT METRICS ANALYSIS ===")
	p.Line("")
	p.Line("📊 OVERVIEW")
	p.Linef("Total Files: %d", s.TotalFiles)
	p.Linef("Total Words: %s", thousands(s.TotalWords))
	p.Linef("Total Reading Time: %.1f hours (%d minutes)", s.TotalReadingHours, s.TotalReadingMinutes)
	p.Linef("Average Words per File: %d", s.AverageWordsPerFile)
	p.Linef("Code Examples: %d", s.TotalCodeExamples)
	p.Linef("Templates: %d", s.TotalTemplates)
	p.Linef("Practice Problems: %d", s.TotalPracticeProblems)
	p.Linef("External Resources: %d", s.UniqueExternalResources)

	p.Line("")
	p.Line("🎯 PREPARATION PATH ESTIMATES")
	p.Linef("Quick Start: %.1f hours", r.PreparationPaths[PathQuickStart].Hours)
	p.Linef("L6 Preparation: %.1f hours", r.PreparationPaths[PathL6].Hours)
	p.Linef("L7 Preparation: %.1f hours", r.PreparationPaths[PathL7].Hours)
	p.Linef("Complete Study: %.1f hours", r.PreparationPaths[PathComplete].Hours)

	p.Line("")
	p.Line("📚 CONTENT DISTRIBUTION")
	for _, name := range sortedByCount(r.ContentDistribution, func(s Share) int { return s.Words }) {
		d := r.ContentDistribution[name]
		if d.Words > 0 {
			p.Linef("%s: %.1f%% (%s words)", name, d.Percentage, thousands(d.Words))
		}
	}

	p.Line("")
	p.Line("💻 CODE EXAMPLES BY LANGUAGE")
	for _, lang := range sortedByCount(r.CodeExamples.ByLanguage, func(n int) int { return n }) {
		p.Linef("%s: %d", lang, r.CodeExamples.ByLanguage[lang])
	}

	p.Line("")
	p.Line("🏃 PRACTICE PROBLEMS BREAKDOWN")
	p.Linef("Behavioral: %d", r.PracticeProblems.Behavioral)
	p.Linef("Coding: %d", r.PracticeProblems.Coding)
	p.Linef("System Design: %d", r.PracticeProblems.SystemDesign)
	p.Linef("Total: %d", r.PracticeProblems.Total)

	p.Line("")
	p.Line("✅ CONTENT COMPLETENESS")
	for _, name := range sortedKeys(r.Completeness) {
		c := r.Completeness[name]
		line := fmt.Sprintf("%s: words %.1f%%, reading time %.1f%%", name, c.WordCompleteness, c.ReadingTimeCompleteness)
		if c.ProblemCompleteness != nil {
			line += fmt.Sprintf(", problems %.1f%%", *c.ProblemCompleteness)
		}
		p.Line(line + " (" + c.Assessment + ")")
	}

	p.Line("")
	p.Line("🛠️ RESOURCE AVAILABILITY")
	p.Linef("Interactive Tools: %d", r.Resources.InteractiveTools)
	p.Linef("Study Plans: %d", r.Resources.StudyPlans)
	p.Linef("Assessment Tools: %d", r.Resources.AssessmentTools)

	p.Line("")
	p.Line("📈 STANDARDS COMPARISON")
	p.Linef("L6 Prep Coverage: %.1f%%", r.Comparison.Content.L6)
	p.Linef("L7 Prep Coverage: %.1f%%", r.Comparison.Content.L7)
	p.Linef("Coding Problems vs. Minimum: %.1f%%", r.Comparison.Problems.Coding)
	p.Linef("System Design vs. Minimum: %.1f%%", r.Comparison.Problems.SystemDesign)
	p.Linef("Behavioral Scenarios vs. Minimum: %.1f%%", r.Comparison.Problems.Behavioral)
	return p.Err()
}

// sortedByCount orders keys by descending count, then by name.
func sortedByCount[V any](m map[string]V, count func(V) int) []string {
	keys := sortedKeys(m)
	slices.SortStableFunc(keys, func(a, b string) int {
		return cmp.Compare(count(m[b]), count(m[a]))
	})
	return keys
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// thousands formats n with comma separators.
func thousands(n int) string {
	if n < 0 {
		return "-" + thousands(-n)
	}
	s := strconv.Itoa(n)
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
