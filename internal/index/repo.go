package index

import (
	"fmt"
)

// StatusOK marks an internal link whose target exists.
const StatusOK = "ok"

// DocumentRow represents a row in the documents table.
type DocumentRow struct {
	Path     string `json:"path"`
	Title    string `json:"title"`
	Checksum string `json:"checksum"`
}

// LinkRow represents one link occurrence in the links table. Target is the
// resolved root-relative path for internal links and the raw target
// otherwise.
type LinkRow struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Text   string `json:"text"`
	Line   int    `json:"line"`
	Kind   string `json:"kind"`
	Class  string `json:"class"`
	Status string `json:"status"`
}

// Stats summarizes the stored graph.
type Stats struct {
	Documents int `json:"documents"`
	Links     int `json:"links"`
	Broken    int `json:"broken"`
}

// Export replaces the stored graph with g inside one transaction. The schema
// is dropped and recreated first.
func (db *DB) Export(g Graph) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(dropSchemaSQL); err != nil {
		return fmt.Errorf("index: drop schema: %w", err)
	}
	if _, err := tx.Exec(schemaSQL); err != nil {
		return fmt.Errorf("index: apply schema: %w", err)
	}

	docStmt, err := tx.Prepare(`INSERT INTO documents (path, title, checksum) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare document insert: %w", err)
	}
	defer docStmt.Close()
	for _, d := range g.Documents {
		if _, err := docStmt.Exec(d.Path, d.Title, d.Checksum); err != nil {
			return fmt.Errorf("index: insert document %s: %w", d.Path, err)
		}
	}

	linkStmt, err := tx.Prepare(`INSERT INTO links (source, target, text, line, kind, class, status) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare link insert: %w", err)
	}
	defer linkStmt.Close()
	for _, l := range g.Links {
		if _, err := linkStmt.Exec(l.Source, l.Target, l.Text, l.Line, l.Kind, l.Class, l.Status); err != nil {
			return fmt.Errorf("index: insert link %s -> %s: %w", l.Source, l.Target, err)
		}
	}

	return tx.Commit()
}

// Documents returns every stored document ordered by path.
func (db *DB) Documents() ([]DocumentRow, error) {
	rows, err := db.conn.Query(`SELECT path, title, checksum FROM documents ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("index: documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentRow
	for rows.Next() {
		var d DocumentRow
		if err := rows.Scan(&d.Path, &d.Title, &d.Checksum); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Backlinks returns every link pointing at target, ordered by source and line.
func (db *DB) Backlinks(target string) ([]LinkRow, error) {
	rows, err := db.conn.Query(`
		SELECT source, target, text, line, kind, class, status
		FROM links WHERE target = ?
		ORDER BY source, line`, target)
	if err != nil {
		return nil, fmt.Errorf("index: backlinks: %w", err)
	}
	defer rows.Close()

	var out []LinkRow
	for rows.Next() {
		var l LinkRow
		if err := rows.Scan(&l.Source, &l.Target, &l.Text, &l.Line, &l.Kind, &l.Class, &l.Status); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Unlinked returns the documents no other document links to successfully,
// ordered by path. Navigation and exemptions are not considered.
func (db *DB) Unlinked() ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT d.path FROM documents d
		WHERE NOT EXISTS (
			SELECT 1 FROM links l
			WHERE l.target = d.path AND l.source != d.path AND l.status = ?
		)
		ORDER BY d.path`, StatusOK)
	if err != nil {
		return nil, fmt.Errorf("index: unlinked: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Stats counts the stored documents, links and broken links.
func (db *DB) Stats() (Stats, error) {
	var s Stats
	err := db.conn.QueryRow(`
		SELECT
			(SELECT count(*) FROM documents),
			(SELECT count(*) FROM links),
			(SELECT count(*) FROM links WHERE status = 'broken')`).Scan(&s.Documents, &s.Links, &s.Broken)
	if err != nil {
		return Stats{}, fmt.Errorf("index: stats: %w", err)
	}
	return s, nil
}
