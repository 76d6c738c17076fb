// Package markdown parses markdown bodies into the outline the audit passes
// inspect: headings, code blocks, images and inline code.
package markdown

import (
	"bytes"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Heading is an ATX or setext heading.
type Heading struct {
	Level int
	Text  string
	// ID is the auto-generated heading id.
	ID string
	// Slug is the normalized heading text.
	Slug string
	Line int
}

// CodeBlock is a fenced or indented code block.
type CodeBlock struct {
	// Language is the fence info word, empty when absent.
	Language string
	Fenced   bool
	Content  string
	Line     int
}

// Image is an inline image.
type Image struct {
	Alt         string
	Destination string
	Line        int
}

// Outline is the structural summary of one markdown body.
type Outline struct {
	Headings   []Heading
	CodeBlocks []CodeBlock
	Images     []Image
	InlineCode int
}

// HasAnchor reports whether fragment names one of the headings, either by
// generated id or by slug. Comparison is case-insensitive.
func (o *Outline) HasAnchor(fragment string) bool {
	f := strings.ToLower(fragment)
	for _, h := range o.Headings {
		if strings.ToLower(h.ID) == f || (h.Slug != "" && h.Slug == f) {
			return true
		}
	}
	return false
}

// Parse parses a body (front-matter already removed) into a goldmark AST.
func Parse(body []byte) gmast.Node {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	return md.Parser().Parse(text.NewReader(body))
}

// Analyze walks the AST of body and collects its outline.
func Analyze(body []byte) *Outline {
	root := Parse(body)
	out := &Outline{}

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.Heading:
			h := Heading{Level: node.Level, Text: plainText(node, body), Line: lineOf(node, body)}
			if id, ok := node.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					h.ID = string(b)
				}
			}
			if s, err := slug.Normalize(h.Text); err == nil {
				h.Slug = s
			}
			out.Headings = append(out.Headings, h)
		case *gmast.FencedCodeBlock:
			cb := CodeBlock{Fenced: true, Content: blockText(node, body), Line: lineOf(node, body)}
			if node.Info != nil {
				cb.Language = string(node.Language(body))
			}
			if cb.Line > 1 {
				cb.Line-- // the fence line precedes the content
			}
			out.CodeBlocks = append(out.CodeBlocks, cb)
			return gmast.WalkSkipChildren, nil
		case *gmast.CodeBlock:
			out.CodeBlocks = append(out.CodeBlocks, CodeBlock{Content: blockText(node, body), Line: lineOf(node, body)})
			return gmast.WalkSkipChildren, nil
		case *gmast.Image:
			out.Images = append(out.Images, Image{
				Alt:         plainText(node, body),
				Destination: string(node.Destination),
				Line:        lineOf(node, body),
			})
			return gmast.WalkSkipChildren, nil
		case *gmast.CodeSpan:
			out.InlineCode++
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return out
}

func plainText(n gmast.Node, src []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func blockText(n gmast.Node, src []byte) string {
	var b bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}

// lineOf returns the 1-based source line of n, using the nearest block
// ancestor for inline nodes. It returns 0 when no position is known.
func lineOf(n gmast.Node, src []byte) int {
	if n.Type() == gmast.TypeInline {
		for c := n.FirstChild(); c != nil; c = c.FirstChild() {
			if t, ok := c.(*gmast.Text); ok {
				return bytes.Count(src[:t.Segment.Start], []byte("\n")) + 1
			}
		}
	}
	for c := n; c != nil; c = c.Parent() {
		if c.Type() != gmast.TypeBlock {
			continue
		}
		if lines := c.Lines(); lines != nil && lines.Len() > 0 {
			return bytes.Count(src[:lines.At(0).Start], []byte("\n")) + 1
		}
	}
	return 0
}
