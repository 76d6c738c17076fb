package metadata

import (
	"bytes"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// DateLayout is the layout of last_updated and review_date.
const DateLayout = "2006-01-02"

var versionPattern = regexp.MustCompile(`^\d+\.\d+$`)

// Header is a generated front-matter header. Field order is the key order
// written to disk.
type Header struct {
	Title         string   `yaml:"title"`
	ContentType   string   `yaml:"content_type"`
	Audience      []string `yaml:"audience"`
	Difficulty    string   `yaml:"difficulty"`
	Summary       string   `yaml:"summary"`
	EstimatedTime string   `yaml:"estimated_time"`
	Tags          []string `yaml:"tags"`
	LastUpdated   string   `yaml:"last_updated"`
	Version       string   `yaml:"version"`
	Status        string   `yaml:"status"`

	GuideType       string   `yaml:"guide_type,omitempty"`
	Deliverables    []string `yaml:"deliverables,omitempty"`
	SuccessCriteria []string `yaml:"success_criteria,omitempty"`

	TutorialType     string   `yaml:"tutorial_type,omitempty"`
	SkillsTaught     []string `yaml:"skills_taught,omitempty"`
	ValidationMethod string   `yaml:"validation_method,omitempty"`

	ReferenceType         string `yaml:"reference_type,omitempty"`
	LookupOptimized       *bool  `yaml:"lookup_optimized,omitempty"`
	ComprehensiveCoverage *bool  `yaml:"comprehensive_coverage,omitempty"`

	AssessmentType string `yaml:"assessment_type,omitempty"`
	ScoringMethod  string `yaml:"scoring_method,omitempty"`
	FeedbackType   string `yaml:"feedback_type,omitempty"`

	Prerequisites      []string `yaml:"prerequisites"`
	LearningObjectives []string `yaml:"learning_objectives"`
	RelatedContent     []string `yaml:"related_content"`
	Contributors       []string `yaml:"contributors"`
	ReviewDate         string   `yaml:"review_date"`
	ContentOwner       string   `yaml:"content_owner"`
	TechnicalDepth     string   `yaml:"technical_depth"`
	InterviewFocus     string   `yaml:"interview_focus"`
}

// Validate checks the header against the enumerations and formats.
func (h Header) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Title, validation.Required, validation.RuneLength(1, MaxTitleLength)),
		validation.Field(&h.Summary, validation.Required),
		validation.Field(&h.ContentType, validation.Required, validation.In(toAny(ContentTypes)...)),
		validation.Field(&h.Audience, validation.Required, validation.Each(validation.In(toAny(Audiences)...))),
		validation.Field(&h.Difficulty, validation.Required, validation.In(toAny(Difficulties)...)),
		validation.Field(&h.EstimatedTime, validation.Required),
		validation.Field(&h.Tags, validation.Required, validation.Length(MinTags, MaxTags), validation.Each(validation.In(toAny(AllTags())...))),
		validation.Field(&h.LastUpdated, validation.Required, validation.Date(DateLayout)),
		validation.Field(&h.Version, validation.Required, validation.Match(versionPattern)),
		validation.Field(&h.Status, validation.Required, validation.In(toAny(Statuses)...)),
		validation.Field(&h.ReviewDate, validation.Date(DateLayout)),
	)
}

// Marshal encodes the header as YAML without delimiters.
func (h Header) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(h); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
