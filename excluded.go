package authgate

import "strings"

// ExcludedPathSet is the ordered set of path patterns exempt from
// authentication. Entries are matched exactly after trailing-slash
// normalization; an entry ending in "*" matches by prefix against the
// unnormalized request path. The set is immutable after construction.
type ExcludedPathSet struct {
	entries []string
}

// NewExcludedPathSet copies the given patterns into an immutable set.
func NewExcludedPathSet(patterns []string) ExcludedPathSet {
	entries := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		entries = append(entries, p)
	}
	return ExcludedPathSet{entries: entries}
}

// RequiresAuth reports whether the given request path needs authentication
// under this set. An empty set means every path requires auth.
func (s ExcludedPathSet) RequiresAuth(path string) bool {
	if len(s.entries) == 0 {
		return true
	}

	normalized := normalizePath(path)
	for _, entry := range s.entries {
		if strings.HasSuffix(entry, "*") {
			if strings.HasPrefix(path, strings.TrimSuffix(entry, "*")) {
				return false
			}
			continue
		}
		if normalizePath(entry) == normalized {
			return false
		}
	}

	return true
}

// normalizePath makes a trailing slash insignificant, so /a and /a/ compare
// equal. The root path is left alone.
func normalizePath(path string) string {
	if len(path) > 1 {
		return strings.TrimSuffix(path, "/")
	}
	return path
}
