package linkcheck

import "testing"

func TestExtract_InlineAndImage(t *testing.T) {
	text := "See [the guide](guide.md) and ![arch](img/a.png \"Architecture\").\n"
	links := Extract(text)
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2", len(links))
	}
	if l := links[0]; l.Text != "the guide" || l.Target != "guide.md" || l.Kind != KindInline || l.Line != 1 {
		t.Errorf("link 0 = %+v", l)
	}
	if l := links[1]; l.Kind != KindImage || l.Target != "img/a.png" {
		t.Errorf("link 1 = %+v", l)
	}
}

func TestExtract_References(t *testing.T) {
	text := `Intro [Design][sd] and [Coding][] and [Lost][nope].

[sd]: system-design/index.md "System design"
[Coding]: <coding/algorithms.md>
`
	links := Extract(text)
	if len(links) != 3 {
		t.Fatalf("got %d links, want 3", len(links))
	}
	if links[0].Target != "system-design/index.md" || links[0].Kind != KindReference {
		t.Errorf("link 0 = %+v", links[0])
	}
	if links[1].Target != "coding/algorithms.md" || links[1].Label != "Coding" {
		t.Errorf("collapsed link = %+v", links[1])
	}
	if !links[2].Undefined || links[2].Target != "" {
		t.Errorf("undefined link = %+v", links[2])
	}
}

func TestExtract_LabelsCaseInsensitive(t *testing.T) {
	text := "[a][My  Label]\n\n[my label]: a.md\n"
	links := Extract(text)
	if len(links) != 1 || links[0].Undefined || links[0].Target != "a.md" {
		t.Fatalf("links = %+v", links)
	}
}

func TestExtract_SkipsCode(t *testing.T) {
	text := "```markdown\n[in fence](nope.md)\n```\n" +
		"Use `[in span](nope.md)` syntax, then [real](yes.md).\n" +
		"~~~\n[tilde](nope.md)\n~~~\n"
	links := Extract(text)
	if len(links) != 1 || links[0].Target != "yes.md" {
		t.Fatalf("links = %+v", links)
	}
	if links[0].Line != 4 {
		t.Errorf("Line = %d, want 4", links[0].Line)
	}
}

func TestExtract_LineThenColumnOrder(t *testing.T) {
	text := "[b][r] then [a](a.md)\n[c](c.md)\n\n[r]: r.md\n"
	links := Extract(text)
	want := []string{"r.md", "a.md", "c.md"}
	if len(links) != len(want) {
		t.Fatalf("got %d links", len(links))
	}
	for i, w := range want {
		if links[i].Target != w {
			t.Errorf("links[%d] = %q, want %q", i, links[i].Target, w)
		}
	}
}

func TestExtract_SubscriptsAreNotReferences(t *testing.T) {
	text := "Fill dp[i][j] from grid[r][c] and f(x)[0][1] or m_[a][b].\n" +
		"Nested t[i][j][k] too, but [Guide][g] is a link.\n\n[g]: guide.md\n"
	links := Extract(text)
	if len(links) != 1 {
		t.Fatalf("links = %+v, want only the guide reference", links)
	}
	if links[0].Target != "guide.md" || links[0].Line != 2 {
		t.Errorf("link = %+v", links[0])
	}
}
