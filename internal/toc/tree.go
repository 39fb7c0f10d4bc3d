// Package toc holds the book's navigation tree: the ordered, nested list of
// chapters, part titles and separators shown in the sidebar.
package toc

import (
	"path"
	"strconv"
	"strings"
)

// Kind identifies what a Node represents.
type Kind int

const (
	// Chapter is a page link, or a draft chapter when Path is empty.
	Chapter Kind = iota
	// PartTitle is a non-clickable heading grouping the chapters after it.
	PartTitle
	// Separator is a horizontal divider.
	Separator
)

func (k Kind) String() string {
	switch k {
	case Chapter:
		return "chapter"
	case PartTitle:
		return "part-title"
	case Separator:
		return "separator"
	default:
		return "unknown"
	}
}

// Node is one entry of the navigation tree.
type Node struct {
	Kind  Kind
	Title string
	// Path is the link target relative to the book root, already rewritten to
	// its .html form. Empty for draft chapters.
	Path string
	// Number is the section number, e.g. [10 1] for "10.1.". Nil for affix
	// chapters.
	Number []int
	// Affix marks an unnumbered prefix or suffix chapter.
	Affix    bool
	Children []*Node
}

// Draft reports whether the chapter has no page yet.
func (n *Node) Draft() bool {
	return n.Kind == Chapter && n.Path == ""
}

// SectionNumber formats Number the way the sidebar shows it ("10.1.").
func (n *Node) SectionNumber() string {
	if len(n.Number) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range n.Number {
		b.WriteString(strconv.Itoa(part))
		b.WriteByte('.')
	}
	return b.String()
}

// Tree is the whole navigation structure. It is built once and never mutated.
type Tree struct {
	Items []*Node
}

// Links returns every chapter that has a page, in document order.
func (t *Tree) Links() []*Node {
	var out []*Node
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if n.Kind == Chapter && n.Path != "" {
				out = append(out, n)
			}
			walk(n.Children)
		}
	}
	walk(t.Items)
	return out
}

// mdPathToHTML converts a chapter source path to the page the generator
// writes for it. README.md becomes the directory's index.html.
func mdPathToHTML(p string) string {
	if p == "" {
		return ""
	}
	target, frag, hasFrag := strings.Cut(p, "#")
	dir, file := path.Split(target)
	switch {
	case strings.EqualFold(file, "README.md"):
		target = dir + "index.html"
	case strings.HasSuffix(file, ".md"):
		target = strings.TrimSuffix(target, ".md") + ".html"
	}
	if hasFrag {
		return target + "#" + frag
	}
	return target
}
