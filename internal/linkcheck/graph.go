package linkcheck

import (
	"github.com/starford/docsaudit/internal/index"
	"github.com/starford/docsaudit/internal/models"
)

// LinkRows converts the edges of the report into graph rows. Internal links
// point at their resolved path, all others at the raw target. A directory
// link yields one row per index file it reaches, so backlink and orphan
// queries agree with the checker.
func (r *Report) LinkRows() []index.LinkRow {
	var rows []index.LinkRow
	for _, f := range r.Files {
		for _, e := range f.Edges {
			targets := e.Reaches
			if len(targets) == 0 {
				target := e.Resolved
				if target == "" {
					target = e.Target
				}
				targets = []string{target}
			}
			for _, target := range targets {
				rows = append(rows, index.LinkRow{
					Source: f.Path,
					Target: target,
					Text:   e.Text,
					Line:   e.Line,
					Kind:   string(e.Kind),
					Class:  e.Class,
					Status: e.Status,
				})
			}
		}
	}
	return rows
}

// Graph builds the link graph of docs from the report.
func (r *Report) Graph(docs []models.Document) index.Graph {
	return index.NewGraph(docs, r.LinkRows())
}
