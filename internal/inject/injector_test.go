package inject

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/starford/docsaudit/internal/docset"
	"github.com/starford/docsaudit/internal/metadata"
	"github.com/starford/docsaudit/internal/models"
	"github.com/starford/docsaudit/internal/testutil"
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
}

func load(t *testing.T, store interface {
	Read(string) ([]byte, error)
}, paths ...string) *docset.Set {
	t.Helper()
	set := &docset.Set{Paths: paths}
	for _, p := range paths {
		data, err := store.Read(p)
		if err != nil {
			t.Fatal(err)
		}
		set.Documents = append(set.Documents, models.Document{Path: p, Content: data})
	}
	return set
}

func TestRun_AddsHeaderOnce(t *testing.T) {
	_, store := testutil.TestTree(t, map[string]string{
		"system-design/caching.md": "# Caching\n\nCaching strategies for read heavy systems at scale on AWS.\n",
		"README.md":                "# Readme\n",
	})
	inj := New(store, Options{Exempt: docset.Exemptions{Names: docset.DefaultExemptNames}, Now: fixedClock})

	res, err := inj.Run(context.Background(), load(t, store, "README.md", "system-design/caching.md"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Count(ActionAdded) != 1 || res.Count(ActionExempt) != 1 {
		t.Fatalf("outcomes = %+v", res.Outcomes)
	}

	data, _ := store.Read("system-design/caching.md")
	text := string(data)
	if !strings.HasPrefix(text, "---\ntitle: Caching\n") {
		t.Errorf("header not at top:\n%s", text)
	}
	if !strings.HasSuffix(text, "---\n\n# Caching\n\nCaching strategies for read heavy systems at scale on AWS.\n") {
		t.Errorf("body not preserved:\n%s", text)
	}

	v := metadata.NewValidator(docset.Exemptions{}, nil)
	for _, f := range v.Document(models.Document{Path: "system-design/caching.md", Content: data}) {
		if f.Rule == metadata.RuleSchema || f.Rule == metadata.RuleTaxonomy {
			t.Errorf("generated header finding: %s", f.Message)
		}
	}

	res, err = inj.Run(context.Background(), load(t, store, "system-design/caching.md"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Count(ActionHasMeta) != 1 {
		t.Errorf("second run outcomes = %+v", res.Outcomes)
	}
	again, _ := store.Read("system-design/caching.md")
	if string(again) != text {
		t.Error("second run modified the file")
	}
}

func TestRun_DryRun(t *testing.T) {
	_, store := testutil.TestTree(t, map[string]string{"coding/arrays.md": "# Arrays\n\nbody\n"})
	inj := New(store, Options{DryRun: true, Now: fixedClock})

	res, err := inj.Run(context.Background(), load(t, store, "coding/arrays.md"))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Outcomes) != 1 || res.Outcomes[0].Action != ActionWouldAdd {
		t.Fatalf("outcomes = %+v", res.Outcomes)
	}
	d := res.Outcomes[0].Diff
	if !strings.Contains(d, "+ title: Arrays\n") || !strings.Contains(d, "  # Arrays\n") {
		t.Errorf("diff:\n%s", d)
	}
	data, _ := store.Read("coding/arrays.md")
	if string(data) != "# Arrays\n\nbody\n" {
		t.Error("dry run wrote the file")
	}
}

func TestRun_ReadErrorsReported(t *testing.T) {
	_, store := testutil.TestTree(t, nil)
	set := &docset.Set{
		Paths:      []string{"broken.md"},
		ReadErrors: []models.ReadError{{Path: "broken.md", Err: "permission denied"}},
	}
	res, err := New(store, Options{Now: fixedClock}).Run(context.Background(), set)
	if err != nil {
		t.Fatal(err)
	}
	if res.Count(ActionError) != 1 || res.Outcomes[0].Error != "permission denied" {
		t.Errorf("outcomes = %+v", res.Outcomes)
	}
}

func TestDiff_CollapsesContext(t *testing.T) {
	old := "1\n2\n3\n4\n5\n6\n7\n8\n"
	d := Diff(old, "new\n"+old)
	want := "+ new\n  1\n  2\n  3\n  ...\n  6\n  7\n  8\n"
	if d != want {
		t.Errorf("Diff =\n%q\nwant\n%q", d, want)
	}
}
