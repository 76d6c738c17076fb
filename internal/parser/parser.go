// Package parser splits documents into their YAML front-matter and body and
// derives the document title.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Delimiter opens and closes the front-matter block.
const Delimiter = "---"

// ErrUnterminated is returned when the opening delimiter has no closing line.
var ErrUnterminated = errors.New("front-matter opening delimiter without closing delimiter")

var (
	h1Re    = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t]*#*[ \t]*$`)
	emojiRe = regexp.MustCompile(`[\p{So}\p{Sk}\x{FE0F}\x{200D}]`)
)

// Result holds the output of parsing a markdown document.
type Result struct {
	// HasFrontmatter reports whether the document opens with a delimited block.
	HasFrontmatter bool
	// Raw is the YAML between the delimiters, without them.
	Raw []byte
	// Frontmatter is the decoded mapping; nil when absent or malformed.
	Frontmatter map[string]any
	// FrontmatterErr is set when a block exists but is not a YAML mapping.
	FrontmatterErr error
	Body           string
	Title          string
}

// Parse splits raw markdown into front-matter and body. A malformed block is
// reported through Result.FrontmatterErr rather than a returned error so that
// callers can record it as a finding and carry on with the body.
func Parse(data []byte) *Result {
	raw, body, had, err := Split(data)
	res := &Result{HasFrontmatter: had, Raw: raw, Body: string(body)}
	if err != nil {
		res.FrontmatterErr = err
		res.Body = string(data)
		res.Title = deriveTitle(nil, res.Body)
		return res
	}
	if had {
		fm, err := decode(raw)
		if err != nil {
			res.FrontmatterErr = err
		} else {
			res.Frontmatter = fm
		}
	}
	res.Title = deriveTitle(res.Frontmatter, res.Body)
	return res
}

// HasHeader reports whether data already starts with a front-matter delimiter
// line.
func HasHeader(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Delimiter+"\n")) || bytes.HasPrefix(data, []byte(Delimiter+"\r\n"))
}

// Split separates YAML front-matter (between leading --- lines) from the
// markdown body. If the document does not start with the delimiter, had is
// false and body is the full input.
func Split(data []byte) (raw, body []byte, had bool, err error) {
	if !HasHeader(data) {
		return nil, data, false, nil
	}
	nl := "\n"
	if bytes.HasPrefix(data, []byte(Delimiter+"\r\n")) {
		nl = "\r\n"
	}
	start := len(Delimiter) + len(nl)
	rest := data[start:]

	// Empty block: "---\n---\n".
	if bytes.HasPrefix(rest, []byte(Delimiter)) && closesLine(rest[len(Delimiter):]) {
		return []byte{}, skipLine(rest), true, nil
	}

	idx := bytes.Index(rest, []byte(nl+Delimiter))
	for idx >= 0 && !closesLine(rest[idx+len(nl)+len(Delimiter):]) {
		next := bytes.Index(rest[idx+1:], []byte(nl+Delimiter))
		if next < 0 {
			idx = -1
			break
		}
		idx += 1 + next
	}
	if idx < 0 {
		return nil, nil, true, ErrUnterminated
	}
	raw = rest[:idx+len(nl)]
	body = skipLine(rest[idx+len(nl):])
	return raw, body, true, nil
}

// closesLine reports whether b starts with the end of a line (or of input).
func closesLine(b []byte) bool {
	return len(b) == 0 || b[0] == '\n' || bytes.HasPrefix(b, []byte("\r\n"))
}

// skipLine drops everything up to and including the first newline.
func skipLine(b []byte) []byte {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[i+1:]
	}
	return nil
}

func decode(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}
	var fm map[string]any
	if err := yaml.Unmarshal(raw, &fm); err != nil {
		return nil, fmt.Errorf("parser: decode front-matter: %w", err)
	}
	if fm == nil {
		fm = map[string]any{}
	}
	return fm, nil
}

// deriveTitle returns the front-matter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm map[string]any, body string) string {
	if fm != nil {
		if t, ok := fm["title"]; ok {
			if s, ok := t.(string); ok && s != "" {
				return s
			}
		}
	}
	return FirstHeading(body)
}

// FirstHeading returns the text of the first level-one ATX heading in body.
func FirstHeading(body string) string {
	m := h1Re.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// StripEmoji removes pictographic symbols and joiners and collapses the
// whitespace they leave behind.
func StripEmoji(s string) string {
	return strings.Join(strings.Fields(emojiRe.ReplaceAllString(s, "")), " ")
}
