package index

import (
	"github.com/starford/docsaudit/internal/checksum"
	"github.com/starford/docsaudit/internal/models"
	"github.com/starford/docsaudit/internal/parser"
)

// Graph is the full link graph of one run.
type Graph struct {
	Documents []DocumentRow `json:"documents"`
	Links     []LinkRow     `json:"links"`
}

// NewGraph builds the graph from the loaded documents and their link rows.
// Titles come from the front-matter title or the first heading.
func NewGraph(docs []models.Document, links []LinkRow) Graph {
	g := Graph{Documents: make([]DocumentRow, 0, len(docs)), Links: links}
	for _, d := range docs {
		g.Documents = append(g.Documents, DocumentRow{
			Path:     d.Path,
			Title:    parser.Parse(d.Content).Title,
			Checksum: checksum.Sum(d.Content),
		})
	}
	return g
}
