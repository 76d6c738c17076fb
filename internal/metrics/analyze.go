// Package metrics measures the documentation tree: word counts, reading
// time, code examples, practice problems and external resources, per file
// and aggregated per section.
package metrics

import (
	"math"
	"path"
	"regexp"
	"strings"

	"github.com/starford/docsaudit/internal/markdown"
	"github.com/starford/docsaudit/internal/parser"
)

// WordsPerMinute is the reading speed used for every time estimate.
const WordsPerMinute = 200

// RootSection groups files that sit directly in the documentation root.
const RootSection = "root"

// OwnRepository marks links to the project's own repository, which are not
// counted as external resources.
const OwnRepository = "systemcraft"

var (
	fencedRe   = regexp.MustCompile("(?s)```.*?```")
	inlineRe   = regexp.MustCompile("`[^`]+`")
	syntaxRe   = regexp.MustCompile(`[#*_\[\](){}]`)
	bareURLRe  = regexp.MustCompile(`https?://\S+`)
	externalRe = regexp.MustCompile(`https?://[^\s)]+`)

	problemPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d+\.\s*(?:Design|Implement|Build|Create|Write)`),
		regexp.MustCompile(`(?i)##\s*(?:Problem|Exercise|Challenge)`),
		regexp.MustCompile(`(?i)\*\*Problem\s*\d+`),
		regexp.MustCompile(`(?i)### Question \d+`),
	}
)

// File is the measurement of one document.
type File struct {
	Path             string   `json:"path"`
	Section          string   `json:"section"`
	Words            int      `json:"words"`
	Characters       int      `json:"characters"`
	CodeExamples     int      `json:"code_examples"`
	Languages        []string `json:"languages,omitempty"`
	ExternalLinks    []string `json:"external_links,omitempty"`
	PracticeProblems int      `json:"practice_problems"`
	Template         bool     `json:"template"`
	ReadingMinutes   int      `json:"reading_minutes"`
}

// Measure computes the metrics of one document. The front-matter block is
// not counted.
func Measure(p string, content []byte) File {
	_, body, _, err := parser.Split(content)
	if err != nil {
		body = content
	}
	text := strings.TrimSpace(string(body))

	f := File{
		Path:             p,
		Section:          Section(p),
		Words:            CountWords(text),
		Characters:       len([]rune(text)),
		ExternalLinks:    ExternalLinks(text),
		PracticeProblems: CountProblems(text),
		Template:         IsTemplate(p),
	}

	outline := markdown.Analyze([]byte(text))
	for _, cb := range outline.CodeBlocks {
		lang := strings.ToLower(cb.Language)
		if lang == "" {
			lang = "text"
		}
		f.Languages = append(f.Languages, lang)
	}
	f.CodeExamples = len(outline.CodeBlocks) + outline.InlineCode
	f.ReadingMinutes = ReadingMinutes(f.Words)
	return f
}

// CountWords counts the prose words of text, leaving out code, markdown
// syntax characters and URLs.
func CountWords(text string) int {
	text = fencedRe.ReplaceAllString(text, "")
	text = inlineRe.ReplaceAllString(text, "")
	text = syntaxRe.ReplaceAllString(text, "")
	text = bareURLRe.ReplaceAllString(text, "")
	return len(strings.Fields(text))
}

// ExternalLinks returns every http(s) URL in text, in order, except links
// to the project's own repository.
func ExternalLinks(text string) []string {
	var out []string
	for _, u := range externalRe.FindAllString(text, -1) {
		if strings.Contains(u, "github.com") && strings.Contains(strings.ToLower(u), OwnRepository) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// CountProblems counts practice problem markers in text.
func CountProblems(text string) int {
	n := 0
	for _, re := range problemPatterns {
		n += len(re.FindAllStringIndex(text, -1))
	}
	return n
}

// IsTemplate reports whether p is a content template.
func IsTemplate(p string) bool {
	return strings.Contains(p, "_templates") || strings.Contains(strings.ToLower(path.Base(p)), "template")
}

// Section returns the first path segment of p, or RootSection for files in
// the documentation root.
func Section(p string) string {
	if i := strings.IndexByte(p, '/'); i > 0 {
		return p[:i]
	}
	return RootSection
}

// ReadingMinutes converts a word count to whole minutes, at least one.
func ReadingMinutes(words int) int {
	return max(1, int(math.RoundToEven(float64(words)/WordsPerMinute)))
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
