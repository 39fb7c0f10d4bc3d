package book

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter decides which book pages get a sidebar.
type Filter struct {
	Exclude []string
}

// Excluded reports whether relPath matches any exclude pattern. A pattern
// without a slash also matches the base name at any depth.
func (f Filter) Excluded(relPath string) bool {
	normalized := strings.TrimPrefix(filepath.ToSlash(relPath), "/")
	base := filepath.Base(normalized)
	for _, pattern := range f.Exclude {
		if matched, _ := doublestar.Match(pattern, normalized); matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, _ := doublestar.Match(pattern, base); matched {
				return true
			}
		}
	}
	return false
}
