package inject

import (
	"fmt"
	"path"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/starford/docsaudit/internal/metadata"
	"github.com/starford/docsaudit/internal/parser"
)

const (
	wordsPerMinute   = 200
	summaryMaxLength = 150
	summaryScanLines = 20
)

var (
	tutorialIndicators = []string{"tutorial", "hands-on", "step-by-step", "implementation"}
	guideIndicators    = []string{"complete guide", "comprehensive", "step-by-step", "getting started"}

	advancedAudience = []string{
		"platform", "organization", "strategic", "vision", "transformation",
		"industry", "innovation", "billion", "petabyte", "executive",
	}

	expertIndicators   = []string{"expert", "advanced", "complex", "sophisticated", "cutting-edge", "breakthrough", "innovation", "research", "novel"}
	beginnerIndicators = []string{"getting started", "introduction", "basics", "fundamentals", "beginner", "simple", "easy", "basic"}
	advancedIndicators = []string{"advanced", "complex", "sophisticated", "deep dive", "expert", "mastery", "comprehensive"}
)

var defaultSummaries = map[string]string{
	"guide":      "Comprehensive guide covering essential concepts and practical implementation",
	"tutorial":   "Hands-on tutorial with step-by-step implementation instructions",
	"reference":  "Quick reference guide with essential information and lookup tables",
	"assessment": "Assessment tool to evaluate knowledge and identify improvement areas",
	"template":   "Reusable template for consistent content creation",
	"overview":   "Overview of key concepts and their practical applications",
	"deep_dive":  "In-depth exploration of advanced concepts and techniques",
	"checklist":  "Practical checklist for validation and quality assurance",
}

// directory name → primary tag
var dirTags = map[string]string{
	"system-design": "system-design",
	"coding":        "coding",
	"behavioral":    "behavioral",
	"fundamentals":  "fundamentals",
	"practice":      "practice",
	"deep-dives":    "deep-dive",
	"portfolio":     "portfolio",
	"interactive":   "assessment",
}

type skillKeywords struct {
	tag      string
	keywords []string
}

var skillMapping = []skillKeywords{
	{"leadership", []string{"leadership", "team", "management", "people"}},
	{"scalability", []string{"scale", "scalability", "performance", "optimization"}},
	{"aws", []string{"aws", "amazon web services", "cloud"}},
	{"algorithms", []string{"algorithm", "coding", "programming", "data structure"}},
	{"communication", []string{"communication", "presentation", "influence"}},
	{"decision-making", []string{"decision", "trade-off", "choice"}},
	{"technical-strategy", []string{"strategy", "vision", "architecture", "platform"}},
}

// content type → format tag
var formatTags = map[string]string{
	"assessment": "assessment",
	"template":   "template",
	"reference":  "reference",
	"tutorial":   "interactive",
}

func containsAny(s string, needles []string) bool {
	return slices.ContainsFunc(needles, func(n string) bool { return strings.Contains(s, n) })
}

// Analyze derives a header for the document at p from its content.
func Analyze(p, content string, now time.Time) metadata.Header {
	lower := strings.ToLower(content)
	ct := ContentType(p, lower)
	audience := Audience(lower)

	h := metadata.Header{
		Title:         Title(p, content),
		ContentType:   ct,
		Audience:      audience,
		Difficulty:    Difficulty(lower),
		Summary:       Summary(content, ct),
		EstimatedTime: EstimateTime(len(strings.Fields(content))),
		Tags:          Tags(p, lower, ct, audience),
		LastUpdated:   now.Format(metadata.DateLayout),
		Version:       "1.0",
		Status:        "published",

		Prerequisites: []string{},
		LearningObjectives: []string{
			"Understand core concepts",
			"Apply knowledge in interview contexts",
			"Demonstrate competency at appropriate level",
		},
		RelatedContent: []string{},
		Contributors:   []string{"systemcraft"},
		ReviewDate:     now.AddDate(0, 1, 0).Format(metadata.DateLayout),
		ContentOwner:   "systemcraft",
		TechnicalDepth: "component",
		InterviewFocus: "technical",
	}

	yes := true
	switch ct {
	case "guide":
		h.GuideType = "preparation"
		h.Deliverables = []string{"knowledge mastery", "practical understanding"}
		h.SuccessCriteria = []string{"can explain concepts clearly", "ready for interview questions"}
	case "tutorial":
		h.TutorialType = "hands_on"
		h.SkillsTaught = []string{"practical implementation", "technical proficiency"}
		h.ValidationMethod = "self_check"
	case "reference":
		h.ReferenceType = "patterns"
		h.LookupOptimized = &yes
		h.ComprehensiveCoverage = &yes
	case "assessment":
		h.AssessmentType = "readiness_check"
		h.ScoringMethod = "points"
		h.FeedbackType = "detailed_report"
	}
	return h
}

// Title returns the first H1 without emoji, cut to the title limit. Files
// without one are titled after their name.
func Title(p, content string) string {
	title := parser.StripEmoji(parser.FirstHeading(content))
	if title == "" {
		stem := strings.TrimSuffix(path.Base(p), path.Ext(p))
		words := strings.FieldsFunc(stem, func(r rune) bool { return r == '-' || r == '_' })
		for i, w := range words {
			r, size := utf8.DecodeRuneInString(w)
			words[i] = strings.ToUpper(string(r)) + w[size:]
		}
		title = strings.Join(words, " ")
	}
	return truncateRunes(title, metadata.MaxTitleLength)
}

// ContentType classifies a document by file name, directory and wording.
// lower is the lower-cased content.
func ContentType(p, lower string) string {
	name := strings.ToLower(path.Base(p))
	dir := path.Base(path.Dir(p))
	switch {
	case strings.Contains(name, "template") || dir == "_templates":
		return "template"
	case containsAny(name, []string{"assessment", "quiz", "evaluation", "readiness"}):
		return "assessment"
	case containsAny(name, []string{"reference", "checklist", "quick"}):
		return "reference"
	case containsAny(lower, tutorialIndicators):
		return "tutorial"
	case containsAny(lower, guideIndicators):
		return "guide"
	case strings.Contains(name, "deep") || dir == "deep-dives":
		return "deep_dive"
	case name == "index.md":
		return "overview"
	}
	return "guide"
}

// Audience picks the target levels from explicit mentions, then from scale
// wording; both levels otherwise.
func Audience(lower string) []string {
	l6 := strings.Contains(lower, "l6") || strings.Contains(lower, "senior engineering manager")
	l7 := strings.Contains(lower, "l7") || strings.Contains(lower, "principal engineering manager")
	switch {
	case l6 && l7:
		return []string{"L6", "L7"}
	case l7:
		return []string{"L7"}
	case l6:
		return []string{"L6"}
	case containsAny(lower, advancedAudience):
		return []string{"L7"}
	}
	return []string{"L6", "L7"}
}

// Difficulty grades the content by indicator words.
func Difficulty(lower string) string {
	switch {
	case containsAny(lower, expertIndicators):
		return "expert"
	case containsAny(lower, beginnerIndicators):
		return "beginner"
	case containsAny(lower, advancedIndicators):
		return "advanced"
	}
	return "intermediate"
}

// Summary takes the first admonition text or long prose line near the top of
// the document, or a default for the content type.
func Summary(content, contentType string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if i >= summaryScanLines {
			break
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "!!! ") && strings.Contains(line, "info") {
			for j := i + 1; j < len(lines) && j < i+5; j++ {
				desc := strings.TrimSpace(lines[j])
				if desc != "" && !strings.HasPrefix(desc, "!") {
					return ellipsize(desc)
				}
			}
		}
		if line != "" && !strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "!") && utf8.RuneCountInString(line) > 50 {
			return ellipsize(line)
		}
	}
	if s, ok := defaultSummaries[contentType]; ok {
		return s
	}
	return "Essential information for interview preparation"
}

// EstimateTime formats the reading time of a word count at 200 words per
// minute: short reads in five-minute steps, long reads in hours.
func EstimateTime(words int) string {
	minutes := max(1, words/wordsPerMinute)
	switch {
	case minutes < 5:
		return fmt.Sprintf("%d min", minutes*5)
	case minutes < 15:
		return fmt.Sprintf("%d min", minutes)
	case minutes < 60:
		return fmt.Sprintf("%d min", minutes/5*5)
	}
	hours, rest := minutes/60, minutes%60
	if rest > 0 {
		return fmt.Sprintf("%dh %dm", hours, rest)
	}
	return fmt.Sprintf("%dh", hours)
}

// Tags builds 2 to 6 taxonomy tags: a primary tag, the audience levels, the
// skills the content mentions, then a format tag.
func Tags(p, lower, contentType string, audience []string) []string {
	var tags []string
	add := func(t string) {
		if !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}

	if t, ok := dirTags[path.Base(path.Dir(p))]; ok {
		add(t)
	} else {
		switch contentType {
		case "assessment":
			add("assessment")
		case "deep_dive":
			add("deep-dive")
		default:
			add("fundamentals")
		}
	}

	mentionsL6 := strings.Contains(lower, "l6") || strings.Contains(lower, "senior engineering manager")
	mentionsL7 := strings.Contains(lower, "l7") || strings.Contains(lower, "principal engineering manager")
	if mentionsL6 {
		add("L6")
	}
	if mentionsL7 {
		add("L7")
	}
	if !mentionsL6 && !mentionsL7 {
		for _, a := range audience {
			add(a)
		}
	}

	for _, s := range skillMapping {
		if containsAny(lower, s.keywords) {
			add(s.tag)
		}
	}
	if t, ok := formatTags[contentType]; ok {
		add(t)
	}

	for _, pad := range []string{"practice", "fundamentals"} {
		if len(tags) >= metadata.MinTags {
			break
		}
		add(pad)
	}
	if len(tags) > metadata.MaxTags {
		tags = tags[:metadata.MaxTags]
	}
	return tags
}

func ellipsize(s string) string {
	if utf8.RuneCountInString(s) <= summaryMaxLength {
		return s
	}
	return truncateRunes(s, summaryMaxLength) + "..."
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
