// Package linkcheck builds the internal link graph of a documentation tree and
// reports broken links, orphaned files, navigation drift and link style.
package linkcheck

import (
	"regexp"
	"sort"
	"strings"
)

// LinkKind tells how a link was written.
type LinkKind string

const (
	KindInline    LinkKind = "inline"
	KindImage     LinkKind = "image"
	KindReference LinkKind = "reference"
)

// Link is one hyperlink occurrence in a document.
type Link struct {
	Text   string   `json:"text"`
	Target string   `json:"target"`
	Line   int      `json:"line"`
	Kind   LinkKind `json:"kind"`
	// Label is set for reference links.
	Label string `json:"label,omitempty"`
	// Undefined marks a reference link whose label has no definition.
	Undefined bool `json:"undefined,omitempty"`

	col int
}

var (
	inlinePattern    = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)]+)\)`)
	referencePattern = regexp.MustCompile(`(!?)\[([^\]]*)\]\[([^\]]*)\]`)
	definitionLine   = regexp.MustCompile(`^ {0,3}\[([^\]]+)\]:\s*(.+)$`)
	codeSpan         = regexp.MustCompile("(`+)[^`]*?(`+)")
	fenceOpen        = regexp.MustCompile("^ {0,3}(```+|~~~+)")
)

// Extract returns the links of a markdown document in line order, then column
// order. Fenced code blocks and inline code spans are skipped.
func Extract(text string) []Link {
	lines := proseLines(text)
	defs := definitions(lines)

	var links []Link
	for i, line := range lines {
		if line == "" {
			continue
		}
		lineNo := i + 1
		for _, m := range inlinePattern.FindAllStringSubmatchIndex(line, -1) {
			kind := KindInline
			if m[3] > m[2] {
				kind = KindImage
			}
			links = append(links, Link{
				Text:   line[m[4]:m[5]],
				Target: cleanTarget(line[m[6]:m[7]]),
				Line:   lineNo,
				Kind:   kind,
				col:    m[0],
			})
		}
		for _, m := range referencePattern.FindAllStringSubmatchIndex(line, -1) {
			if m[0] > 0 && indexesInto(line[m[0]-1]) {
				continue
			}
			text := line[m[4]:m[5]]
			label := line[m[6]:m[7]]
			if label == "" {
				label = text
			}
			l := Link{Text: text, Label: label, Line: lineNo, Kind: KindReference, col: m[0]}
			if target, ok := defs[normalizeLabel(label)]; ok {
				l.Target = target
			} else {
				l.Undefined = true
			}
			links = append(links, l)
		}
	}

	sort.SliceStable(links, func(i, j int) bool {
		if links[i].Line != links[j].Line {
			return links[i].Line < links[j].Line
		}
		return links[i].col < links[j].col
	})
	return links
}

// proseLines splits text into lines, blanking fenced code and masking code
// spans so positions still line up with the source.
func proseLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	fence := ""
	for i, line := range lines {
		if fence != "" {
			if strings.HasPrefix(strings.TrimSpace(line), fence) {
				fence = ""
			}
			lines[i] = ""
			continue
		}
		if m := fenceOpen.FindStringSubmatch(line); m != nil {
			fence = m[1]
			lines[i] = ""
			continue
		}
		lines[i] = codeSpan.ReplaceAllStringFunc(line, func(s string) string {
			return strings.Repeat(" ", len(s))
		})
	}
	return lines
}

// indexesInto reports whether a bracket after b reads as subscripting, as in
// dp[i][j] or f(x)[0][1], rather than the start of a reference link.
func indexesInto(b byte) bool {
	switch {
	case b == '_' || b == ']' || b == ')':
		return true
	case b >= '0' && b <= '9', b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		return true
	}
	return false
}

func definitions(lines []string) map[string]string {
	defs := make(map[string]string)
	for _, line := range lines {
		m := definitionLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := normalizeLabel(m[1])
		if _, seen := defs[key]; seen {
			continue
		}
		defs[key] = cleanTarget(m[2])
	}
	return defs
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// cleanTarget drops angle brackets and an optional quoted title.
func cleanTarget(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<") {
		if end := strings.Index(s, ">"); end > 0 {
			return s[1:end]
		}
	}
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		s = s[:i]
	}
	return s
}
