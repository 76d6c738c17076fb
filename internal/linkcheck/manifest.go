package linkcheck

import (
	"path"
	"regexp"
)

// manifestRef is the pattern file references are mined with from the site
// configuration. Any YAML layout works since the file is not parsed.
var manifestRef = regexp.MustCompile(`(\w+[\w/-]*\.md)`)

// ParseManifest returns the file references of a navigation manifest in order
// of first appearance, cleaned and de-duplicated.
func ParseManifest(data []byte) []string {
	var refs []string
	seen := make(map[string]bool)
	for _, m := range manifestRef.FindAllString(string(data), -1) {
		p := path.Clean(m)
		if seen[p] {
			continue
		}
		seen[p] = true
		refs = append(refs, p)
	}
	return refs
}
