package toc

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// LoadSummary reads and parses a SUMMARY.md file.
func LoadSummary(path string) (*Tree, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}
	tree, err := ParseSummary(src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return tree, nil
}

// ParseSummary builds a Tree from SUMMARY.md markdown.
//
// A leading level-1 heading is the book title and is skipped. Later headings
// start a new part. Paragraphs of bare links are unnumbered prefix/suffix
// chapters, lists are numbered chapters and a thematic break is a separator.
// Numbering continues across parts.
func ParseSummary(src []byte) (*Tree, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	p := &summaryParser{src: src}
	tree := &Tree{}
	first := true
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch block := n.(type) {
		case *ast.Heading:
			if !(first && block.Level == 1) {
				tree.Items = append(tree.Items, &Node{Kind: PartTitle, Title: p.text(block)})
			}
		case *ast.Paragraph:
			affixes, err := p.affixChapters(block)
			if err != nil {
				return nil, err
			}
			tree.Items = append(tree.Items, affixes...)
		case *ast.List:
			chapters, err := p.list(block, nil)
			if err != nil {
				return nil, err
			}
			tree.Items = append(tree.Items, chapters...)
		case *ast.ThematicBreak:
			tree.Items = append(tree.Items, &Node{Kind: Separator})
		}
		first = false
	}
	return tree, nil
}

type summaryParser struct {
	src []byte
	// top is the last top-level chapter number handed out.
	top int
}

func (p *summaryParser) affixChapters(para *ast.Paragraph) ([]*Node, error) {
	var out []*Node
	for c := para.FirstChild(); c != nil; c = c.NextSibling() {
		switch inline := c.(type) {
		case *ast.Link:
			out = append(out, &Node{
				Kind:  Chapter,
				Title: p.text(inline),
				Path:  mdPathToHTML(string(inline.Destination)),
				Affix: true,
			})
		case *ast.Text:
			if s := strings.TrimSpace(string(inline.Segment.Value(p.src))); s != "" {
				return nil, fmt.Errorf("unexpected text %q outside of a link", s)
			}
		}
	}
	return out, nil
}

func (p *summaryParser) list(list *ast.List, parent []int) ([]*Node, error) {
	var out []*Node
	local := 0
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		li, ok := item.(*ast.ListItem)
		if !ok {
			continue
		}

		var number []int
		if parent == nil {
			p.top++
			number = []int{p.top}
		} else {
			local++
			number = append(append([]int(nil), parent...), local)
		}

		node := &Node{Kind: Chapter, Number: number}
		var link *ast.Link
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			switch block := c.(type) {
			case *ast.List:
				children, err := p.list(block, number)
				if err != nil {
					return nil, err
				}
				node.Children = append(node.Children, children...)
			default:
				if link == nil {
					link = firstLink(block)
				}
			}
		}
		if link == nil {
			return nil, fmt.Errorf("list item %s has no link", node.SectionNumber())
		}
		node.Title = p.text(link)
		node.Path = mdPathToHTML(string(link.Destination))
		out = append(out, node)
	}
	return out, nil
}

func firstLink(n ast.Node) *ast.Link {
	var found *ast.Link
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if l, ok := n.(*ast.Link); ok && entering {
			found = l
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}

// text concatenates the literal text below n.
func (p *summaryParser) text(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(p.src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
