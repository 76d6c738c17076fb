package markdown

import "testing"

const sample = `# Getting Started

Intro with ` + "`inline`" + ` code and ` + "`more`" + `.

## Amazon Leadership Principles

![diagram](img/arch.png)
![](img/empty.png)

` + "```python" + `
print("hi")
` + "```" + `

    indented code
`

func TestAnalyze_Headings(t *testing.T) {
	o := Analyze([]byte(sample))
	if len(o.Headings) != 2 {
		t.Fatalf("headings = %d, want 2", len(o.Headings))
	}
	h := o.Headings[1]
	if h.Level != 2 || h.Text != "Amazon Leadership Principles" {
		t.Errorf("heading = %+v", h)
	}
	if h.ID != "amazon-leadership-principles" {
		t.Errorf("ID = %q", h.ID)
	}
	if h.Line != 5 {
		t.Errorf("Line = %d, want 5", h.Line)
	}
}

func TestAnalyze_CodeAndImages(t *testing.T) {
	o := Analyze([]byte(sample))
	if o.InlineCode != 2 {
		t.Errorf("InlineCode = %d, want 2", o.InlineCode)
	}
	if len(o.CodeBlocks) != 2 {
		t.Fatalf("code blocks = %d, want 2", len(o.CodeBlocks))
	}
	if cb := o.CodeBlocks[0]; !cb.Fenced || cb.Language != "python" || cb.Line != 10 {
		t.Errorf("fenced block = %+v", cb)
	}
	if cb := o.CodeBlocks[1]; cb.Fenced || cb.Language != "" {
		t.Errorf("indented block = %+v", cb)
	}
	if len(o.Images) != 2 {
		t.Fatalf("images = %d, want 2", len(o.Images))
	}
	if o.Images[0].Alt != "diagram" || o.Images[0].Line != 7 {
		t.Errorf("image = %+v", o.Images[0])
	}
	if o.Images[1].Alt != "" {
		t.Errorf("empty alt = %q", o.Images[1].Alt)
	}
}

func TestHasAnchor(t *testing.T) {
	o := Analyze([]byte(sample))
	if !o.HasAnchor("Getting-Started") {
		t.Error("expected anchor by id")
	}
	if o.HasAnchor("missing-section") {
		t.Error("unexpected anchor")
	}
}
