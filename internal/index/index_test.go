package index

import (
	"path/filepath"
	"testing"

	"github.com/starford/docsaudit/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "graph.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleGraph() Graph {
	docs := []models.Document{
		{Path: "index.md", Content: []byte("# Home\n")},
		{Path: "guide/a.md", Content: []byte("---\ntitle: Guide A\n---\n# Heading\n")},
		{Path: "guide/b.md", Content: []byte("# B\n")},
		{Path: "lonely.md", Content: []byte("no heading")},
	}
	links := []LinkRow{
		{Source: "index.md", Target: "guide/a.md", Text: "A", Line: 3, Kind: "inline", Class: "internal", Status: StatusOK},
		{Source: "guide/b.md", Target: "guide/a.md", Text: "back", Line: 1, Kind: "inline", Class: "internal", Status: StatusOK},
		{Source: "guide/a.md", Target: "guide/b.md", Text: "next", Line: 5, Kind: "inline", Class: "internal", Status: StatusOK},
		{Source: "guide/a.md", Target: "guide/a.md", Text: "self", Line: 6, Kind: "inline", Class: "internal", Status: StatusOK},
		{Source: "guide/a.md", Target: "guide/gone.md", Text: "gone", Line: 7, Kind: "inline", Class: "internal", Status: "broken"},
		{Source: "guide/b.md", Target: "https://example.com", Text: "ext", Line: 2, Kind: "inline", Class: "external", Status: "external"},
	}
	return NewGraph(docs, links)
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents`).Scan(&count); err != nil {
		t.Fatalf("documents table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM links`).Scan(&count); err != nil {
		t.Fatalf("links table missing: %v", err)
	}
}

func TestNewGraph_Titles(t *testing.T) {
	g := sampleGraph()
	want := map[string]string{"index.md": "Home", "guide/a.md": "Guide A", "lonely.md": ""}
	for _, d := range g.Documents {
		if title, ok := want[d.Path]; ok && d.Title != title {
			t.Errorf("%s title = %q, want %q", d.Path, d.Title, title)
		}
		if len(d.Checksum) != 64 {
			t.Errorf("%s checksum = %q", d.Path, d.Checksum)
		}
	}
}

func TestExportAndStats(t *testing.T) {
	db := testDB(t)
	if err := db.Export(sampleGraph()); err != nil {
		t.Fatalf("Export: %v", err)
	}
	s, err := db.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if s != (Stats{Documents: 4, Links: 6, Broken: 1}) {
		t.Errorf("stats = %+v", s)
	}
	docs, err := db.Documents()
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 4 || docs[0].Path != "guide/a.md" {
		t.Errorf("documents = %+v", docs)
	}
}

func TestExport_ReplacesPreviousGraph(t *testing.T) {
	db := testDB(t)
	if err := db.Export(sampleGraph()); err != nil {
		t.Fatal(err)
	}
	small := NewGraph([]models.Document{{Path: "only.md", Content: []byte("# Only\n")}}, nil)
	if err := db.Export(small); err != nil {
		t.Fatal(err)
	}
	s, err := db.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if s != (Stats{Documents: 1}) {
		t.Errorf("stats after re-export = %+v", s)
	}
}

func TestBacklinks(t *testing.T) {
	db := testDB(t)
	if err := db.Export(sampleGraph()); err != nil {
		t.Fatal(err)
	}
	bl, err := db.Backlinks("guide/a.md")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	var sources []string
	for _, l := range bl {
		sources = append(sources, l.Source)
	}
	want := []string{"guide/a.md", "guide/b.md", "index.md"}
	if len(sources) != len(want) {
		t.Fatalf("sources = %v, want %v", sources, want)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("sources = %v, want %v", sources, want)
			break
		}
	}

	none, err := db.Backlinks("lonely.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("expected no backlinks, got %+v", none)
	}
}

func TestUnlinked(t *testing.T) {
	db := testDB(t)
	if err := db.Export(sampleGraph()); err != nil {
		t.Fatal(err)
	}
	got, err := db.Unlinked()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"index.md", "lonely.md"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("unlinked = %v, want %v", got, want)
	}
}

func TestExport_RejectsUnknownSource(t *testing.T) {
	db := testDB(t)
	g := Graph{Links: []LinkRow{{Source: "ghost.md", Target: "a.md", Status: StatusOK}}}
	if err := db.Export(g); err == nil {
		t.Fatal("expected foreign key error")
	}
	if err := db.Export(sampleGraph()); err != nil {
		t.Fatal(err)
	}
}
