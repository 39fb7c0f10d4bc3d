package sidebar

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func isElement(n *html.Node, a atom.Atom) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == a
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func classList(n *html.Node) []string {
	v, _ := getAttr(n, "class")
	return strings.Fields(v)
}

// HasClass reports whether the element's class attribute contains class.
func HasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, c := range classList(n) {
		if c == class {
			return true
		}
	}
	return false
}

// addClass adds class, normalizing the attribute the way a token list does.
func addClass(n *html.Node, class string) {
	list := classList(n)
	for _, c := range list {
		if c == class {
			setAttr(n, "class", strings.Join(list, " "))
			return
		}
	}
	setAttr(n, "class", strings.Join(append(list, class), " "))
}

func removeClass(n *html.Node, class string) {
	list := classList(n)
	kept := list[:0]
	for _, c := range list {
		if c != class {
			kept = append(kept, c)
		}
	}
	setAttr(n, "class", strings.Join(kept, " "))
}

// toggleClass flips class and reports whether it is now present.
func toggleClass(n *html.Node, class string) bool {
	if HasClass(n, class) {
		removeClass(n, class)
		return false
	}
	addClass(n, class)
	return true
}

func previousElementSibling(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// descendants returns the elements below root, in document order, that
// satisfy match.
func descendants(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// Hrefs returns the href attribute of each node, "" where it has none.
func Hrefs(nodes []*html.Node) []string {
	hrefs := make([]string, len(nodes))
	for i, n := range nodes {
		hrefs[i], _ = getAttr(n, "href")
	}
	return hrefs
}
