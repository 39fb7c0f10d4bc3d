// Package book reads the generator's output directory and splices sidebars
// into its pages.
package book

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Pages lists every HTML page under dir as slash-separated paths relative to
// dir, sorted, skipping the ones the filter excludes.
func Pages(dir string, filter Filter) ([]string, error) {
	var pages []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsPage(p) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if filter.Excluded(rel) {
			return nil
		}
		pages = append(pages, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking book dir: %w", err)
	}
	sort.Strings(pages)
	return pages, nil
}

// IsPage reports whether p names an HTML document.
func IsPage(p string) bool {
	ext := strings.ToLower(path.Ext(filepath.ToSlash(p)))
	return ext == ".html" || ext == ".htm"
}

// PathToRoot returns the relative prefix leading from the page at relPath back
// to the book root: "" at the root, "../" one level down and so on.
func PathToRoot(relPath string) string {
	relPath = strings.TrimPrefix(filepath.ToSlash(relPath), "/")
	depth := strings.Count(relPath, "/")
	return strings.Repeat("../", depth)
}
