package linkcheck

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/starford/docsaudit/internal/apperr"
)

// Class is the category of a link target.
type Class int

const (
	ClassInternal Class = iota
	ClassExternal
	ClassMailto
	ClassFragment
)

func (c Class) String() string {
	switch c {
	case ClassExternal:
		return "external"
	case ClassMailto:
		return "mailto"
	case ClassFragment:
		return "fragment"
	default:
		return "internal"
	}
}

// Classify tells which kind of target a raw link target is. Only internal
// targets take part in reachability.
func Classify(target string) Class {
	t := strings.TrimSpace(target)
	if t == "" || strings.HasPrefix(t, "#") {
		return ClassFragment
	}
	if strings.HasPrefix(t, "//") {
		return ClassExternal
	}
	if i := strings.Index(t, ":"); i > 1 && isScheme(t[:i]) {
		if strings.EqualFold(t[:i], "mailto") {
			return ClassMailto
		}
		return ClassExternal
	}
	return ClassInternal
}

// isScheme checks the RFC 3986 scheme grammar. Single letters are left out so
// Windows drive paths stay internal.
func isScheme(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// SplitTarget separates the path part of a target from its fragment. Any query
// string is dropped.
func SplitTarget(target string) (p, fragment string) {
	p, fragment, _ = strings.Cut(strings.TrimSpace(target), "#")
	p, _, _ = strings.Cut(p, "?")
	return p, fragment
}

// Resolve turns an internal target found in source (a root-relative path) into
// a canonical root-relative path. A target starting with "/" is relative to
// the root; anything else is relative to the source's directory. An empty
// path part resolves to the source itself. The root directory is ".".
func Resolve(source, target string) (string, error) {
	p, _ := SplitTarget(target)
	decoded, err := url.PathUnescape(p)
	if err != nil {
		return "", fmt.Errorf("linkcheck: decode %q: %w", target, err)
	}
	if decoded == "" {
		return source, nil
	}

	var joined string
	if strings.HasPrefix(decoded, "/") {
		joined = strings.TrimLeft(decoded, "/")
	} else {
		joined = path.Join(path.Dir(source), decoded)
	}
	cleaned := path.Clean(joined)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("linkcheck: %q escapes the root: %w", target, apperr.ErrOutsideRoot)
	}
	return cleaned, nil
}
