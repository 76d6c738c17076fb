package metadata

import (
	"strings"
	"testing"
)

func sampleHeader() Header {
	yes := true
	return Header{
		Title:                 "Caching Patterns",
		ContentType:           "reference",
		Audience:              []string{"L6", "L7"},
		Difficulty:            "intermediate",
		Summary:               "Quick reference for caching strategies",
		EstimatedTime:         "10 min",
		Tags:                  []string{"system-design", "reference", "L6"},
		LastUpdated:           "2026-10-18",
		Version:               "1.0",
		Status:                "published",
		ReferenceType:         "patterns",
		LookupOptimized:       &yes,
		ComprehensiveCoverage: &yes,
		Contributors:          []string{"systemcraft"},
		ReviewDate:            "2026-11-18",
	}
}

func TestHeader_Validate(t *testing.T) {
	if err := sampleHeader().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	h := sampleHeader()
	h.Tags = []string{"system-design"}
	if err := h.Validate(); err == nil {
		t.Error("expected error for a single tag")
	}

	h = sampleHeader()
	h.Tags = []string{"system-design", "not-a-tag"}
	if err := h.Validate(); err == nil {
		t.Error("expected error for unknown tag")
	}

	h = sampleHeader()
	h.Version = "v1"
	if err := h.Validate(); err == nil {
		t.Error("expected error for bad version")
	}

	h = sampleHeader()
	h.Title = strings.Repeat("x", MaxTitleLength+1)
	if err := h.Validate(); err == nil {
		t.Error("expected error for long title")
	}
}

func TestHeader_MarshalPassesValidator(t *testing.T) {
	raw, err := sampleHeader().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	text := string(raw)
	if !strings.HasPrefix(text, "title: Caching Patterns\ncontent_type: reference\n") {
		t.Errorf("key order:\n%s", text)
	}
	if strings.Contains(text, "guide_type") {
		t.Error("empty type-specific keys should be omitted")
	}

	doc := "---\n" + text + "---\n\n# Caching Patterns\n"
	if got := validate(t, "system-design/caching.md", doc); len(got) != 0 {
		t.Errorf("generated header has findings: %v", got)
	}
}
