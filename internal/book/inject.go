package book

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
)

// Inject parses page, hands the first element named tag to mount and renders
// the result. It reports false, with the page untouched, when there is no such
// element.
func Inject(page []byte, tag string, mount func(host *html.Node) error) ([]byte, bool, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, false, fmt.Errorf("parsing page: %w", err)
	}

	host := findElement(doc, tag)
	if host == nil {
		return page, false, nil
	}
	if err := mount(host); err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, false, fmt.Errorf("rendering page: %w", err)
	}
	return buf.Bytes(), true, nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
