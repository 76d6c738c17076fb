package checksum

import (
	"testing"

	"github.com/starford/docsaudit/internal/models"
)

func TestSum(t *testing.T) {
	// sha256("")
	if got := Sum(nil); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("Sum(nil) = %s", got)
	}
	if Sum([]byte("a")) == Sum([]byte("b")) {
		t.Error("different content, same digest")
	}
}

func TestTree(t *testing.T) {
	docs := []models.Document{
		{Path: "a.md", Content: []byte("# A\n")},
		{Path: "b.md", Content: []byte("# B\n")},
	}
	base := Tree(docs)
	if Tree(docs) != base {
		t.Fatal("digest is not stable")
	}

	cases := map[string][]models.Document{
		"content changed": {{Path: "a.md", Content: []byte("# A!\n")}, docs[1]},
		"path renamed":    {{Path: "c.md", Content: docs[0].Content}, docs[1]},
		"file removed":    docs[:1],
		"bytes moved": {
			{Path: "a.md", Content: []byte("# A\n#")},
			{Path: "b.md", Content: []byte(" B\n")},
		},
	}
	for name, changed := range cases {
		if Tree(changed) == base {
			t.Errorf("%s: digest unchanged", name)
		}
	}
	if Tree(docs, []byte("nav: []")) == base {
		t.Error("extra content ignored")
	}
}
