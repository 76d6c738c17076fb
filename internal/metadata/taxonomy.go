// Package metadata defines the front-matter header of a documentation file
// and validates headers against its schema, tag taxonomy and file layout.
package metadata

import "slices"

// Header keys every document must carry.
var RequiredFields = []string{
	"title", "summary", "content_type", "audience", "difficulty",
	"estimated_time", "tags", "last_updated", "version", "status",
}

// Enumerations.
var (
	ContentTypes = []string{"guide", "tutorial", "reference", "assessment", "template", "overview", "deep_dive", "checklist"}
	Audiences    = []string{"L6", "L7"}
	Difficulties = []string{"beginner", "intermediate", "advanced", "expert"}
	Statuses     = []string{"published", "draft", "archived", "review_needed"}
)

// TypeFields lists the keys required by specific content types.
var TypeFields = map[string][]string{
	"guide":      {"guide_type", "deliverables", "success_criteria"},
	"tutorial":   {"tutorial_type", "skills_taught", "validation_method"},
	"reference":  {"reference_type", "lookup_optimized", "comprehensive_coverage"},
	"assessment": {"assessment_type", "scoring_method", "feedback_type"},
}

// Tag taxonomy.
var (
	PrimaryTags = []string{"system-design", "coding", "behavioral", "fundamentals", "practice", "deep-dive", "assessment", "portfolio"}
	SkillTags   = []string{"leadership", "technical-strategy", "scalability", "aws", "algorithms", "communication", "decision-making", "team-building"}
	LevelTags   = []string{"L6", "L7"}
	FormatTags  = []string{"interactive", "checklist", "template", "case-study", "framework", "reference"}
)

// Tag count bounds.
const (
	MinTags        = 2
	MaxTags        = 6
	MaxTitleLength = 60
)

// DirectoryMappings lists the directories each content type is expected in.
// Files directly under the root are always accepted.
var DirectoryMappings = map[string][]string{
	"guide":      {"fundamentals", "system-design", "coding", "behavioral", "practice"},
	"tutorial":   {"coding", "system-design", "interactive"},
	"reference":  {"_templates", "fundamentals", "system-design"},
	"assessment": {"practice", "interactive"},
	"template":   {"_templates"},
}

// KnownTag reports whether tag belongs to any taxonomy category.
func KnownTag(tag string) bool {
	return slices.Contains(PrimaryTags, tag) || slices.Contains(SkillTags, tag) ||
		slices.Contains(LevelTags, tag) || slices.Contains(FormatTags, tag)
}

// AllTags returns the taxonomy in category order.
func AllTags() []string {
	out := make([]string, 0, len(PrimaryTags)+len(SkillTags)+len(LevelTags)+len(FormatTags))
	out = append(out, PrimaryTags...)
	out = append(out, SkillTags...)
	out = append(out, LevelTags...)
	return append(out, FormatTags...)
}
