// Package checksum fingerprints documents and whole documentation trees.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/starford/docsaudit/internal/models"
)

// Sum returns the hex-encoded SHA-256 digest of a document's raw bytes.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Tree returns one digest over docs, in order, followed by extra content
// such as the navigation manifest. Paths and contents are length-prefixed,
// so moving bytes between documents changes the digest.
func Tree(docs []models.Document, extra ...[]byte) string {
	h := sha256.New()
	for _, d := range docs {
		fmt.Fprintf(h, "%d:%s%d:", len(d.Path), d.Path, len(d.Content))
		h.Write(d.Content)
	}
	for _, e := range extra {
		fmt.Fprintf(h, "%d:", len(e))
		h.Write(e)
	}
	return hex.EncodeToString(h.Sum(nil))
}
