package mcpserver

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/starford/docsaudit/internal/metadata"
)

// metadataFormatIntro describes the header in prose; the lists and schema
// are appended from the taxonomy so the contract never drifts from the
// validator.
const metadataFormatIntro = `# Metadata Format

Every documentation file MUST start with a YAML front-matter block.

## Structure

` + "```" + `markdown
---
title: "Designing a Rate Limiter"
content_type: guide
audience: [L6, L7]
difficulty: intermediate
summary: "Token bucket and sliding window designs compared for distributed APIs."
estimated_time: 25 min
tags: [system-design, scalability, L6]
last_updated: 2026-01-15
version: "1.0"
status: published
guide_type: deep-dive
deliverables: [design document]
success_criteria: [explain trade-offs]
---

# Designing a Rate Limiter
` + "```" + `

## Rules

1. **The ` + "`---`" + ` fence must be the first line** (no leading blank lines).
2. **` + "`title`" + `** is at most %d characters and matches the first ` + "`#`" + ` heading.
3. **` + "`tags`" + `** holds %d to %d entries from the taxonomy below, including one
   primary tag and one level tag.
4. **` + "`last_updated`" + `** uses the ` + "`YYYY-MM-DD`" + ` format; **` + "`version`" + `** is ` + "`major.minor`" + `.
5. **` + "`summary`" + `** is one or two sentences.
`

var (
	formatOnce sync.Once
	formatText string
)

// MetadataFormat returns the header contract in Markdown.
func MetadataFormat() string {
	formatOnce.Do(func() {
		var b strings.Builder
		fmt.Fprintf(&b, metadataFormatIntro, metadata.MaxTitleLength, metadata.MinTags, metadata.MaxTags)

		b.WriteString("\n## Required fields\n\n")
		list(&b, metadata.RequiredFields)

		b.WriteString("\n## Allowed values\n\n")
		fmt.Fprintf(&b, "- content_type: %s\n", strings.Join(metadata.ContentTypes, ", "))
		fmt.Fprintf(&b, "- audience: %s\n", strings.Join(metadata.Audiences, ", "))
		fmt.Fprintf(&b, "- difficulty: %s\n", strings.Join(metadata.Difficulties, ", "))
		fmt.Fprintf(&b, "- status: %s\n", strings.Join(metadata.Statuses, ", "))

		b.WriteString("\n## Type-specific fields\n\n")
		for _, t := range slices.Sorted(maps.Keys(metadata.TypeFields)) {
			fmt.Fprintf(&b, "- %s: %s\n", t, strings.Join(metadata.TypeFields[t], ", "))
		}

		b.WriteString("\n## Tag taxonomy\n\n")
		fmt.Fprintf(&b, "- primary: %s\n", strings.Join(metadata.PrimaryTags, ", "))
		fmt.Fprintf(&b, "- skill: %s\n", strings.Join(metadata.SkillTags, ", "))
		fmt.Fprintf(&b, "- level: %s\n", strings.Join(metadata.LevelTags, ", "))
		fmt.Fprintf(&b, "- format: %s\n", strings.Join(metadata.FormatTags, ", "))

		b.WriteString("\n## JSON Schema\n\n```json\n")
		b.Write(metadata.SchemaDocument())
		b.WriteString("\n```\n")
		formatText = b.String()
	})
	return formatText
}

func list(b *strings.Builder, items []string) {
	for _, it := range items {
		b.WriteString("- " + it + "\n")
	}
}
