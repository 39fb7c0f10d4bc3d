// Package sidebar synchronizes the book's navigation panel with the page
// being viewed: it marks the active link, opens its ancestor sections and
// restores the panel's scroll position across page loads.
package sidebar

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultScrollKey is the storage key used when Config.ScrollKey is empty.
const DefaultScrollKey = "sidebar-scroll"

// absoluteLink matches hrefs that carry a scheme or are protocol-relative.
var absoluteLink = regexp.MustCompile(`^(?:[a-z+]+:)?//`)

// Config is fixed for one page view.
type Config struct {
	// PathToRoot is the relative prefix from the current page back to the
	// book root, e.g. "../" for a page one directory deep.
	PathToRoot string
	ScrollKey  string
}

// Controller mounts the sidebar markup for a single page view.
type Controller struct {
	markup string
	cfg    Config
	store  ScrollStore
	log    *slog.Logger
}

// New creates a Controller. A nil store behaves as an always-empty store.
func New(markup string, cfg Config, store ScrollStore, log *slog.Logger) *Controller {
	if cfg.ScrollKey == "" {
		cfg.ScrollKey = DefaultScrollKey
	}
	if log == nil {
		log = slog.Default()
	}
	return &Controller{markup: markup, cfg: cfg, store: store, log: log}
}

// Mount runs the page-load phases on a detached host element.
func (c *Controller) Mount(ctx context.Context, location string) (*Panel, error) {
	host := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	return c.MountInto(ctx, host, location)
}

// MountInto runs Render, Locate, Expand and Restore, in that order, on host.
// Lookups that find nothing are not errors; only unparsable markup is.
func (c *Controller) MountInto(ctx context.Context, host *html.Node, location string) (*Panel, error) {
	p := &Panel{host: host, cfg: c.cfg, store: c.store, log: c.log}

	if err := c.render(host); err != nil {
		return nil, err
	}
	p.active = c.locate(host, location)
	if p.active != nil {
		expand(p.active)
	}
	c.restore(ctx, p)

	c.log.Debug("sidebar mounted",
		"location", location,
		"active", p.ActiveHref(),
		"restore", p.restore.String(),
	)
	return p, nil
}

func (c *Controller) render(host *html.Node) error {
	frag := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(c.markup), frag)
	if err != nil {
		return fmt.Errorf("parsing sidebar markup: %w", err)
	}
	removeChildren(host)
	for _, n := range nodes {
		host.AppendChild(n)
	}
	return nil
}

// CurrentPage strips the fragment from location and maps a directory URL to
// its index document.
func CurrentPage(location string) string {
	page, _, _ := strings.Cut(location, "#")
	if strings.HasSuffix(page, "/") {
		page += "index.html"
	}
	return page
}

// locate rewrites relative hrefs against PathToRoot and returns the first link
// pointing at the current page, if any.
func (c *Controller) locate(host *html.Node, location string) *html.Node {
	current, err := url.Parse(CurrentPage(location))
	if err != nil {
		c.log.Debug("unparsable location", "location", location, "error", err)
		current = nil
	}

	links := descendants(host, func(n *html.Node) bool { return n.DataAtom == atom.A })
	var active *html.Node
	for i, link := range links {
		href, hasHref := getAttr(link, "href")
		if hasHref && href != "" && !strings.HasPrefix(href, "#") && !absoluteLink.MatchString(href) {
			href = c.cfg.PathToRoot + href
			setAttr(link, "href", href)
		}
		if active != nil || current == nil {
			continue
		}

		// The index page aliases the first chapter of the book.
		indexAlias := i == 0 && c.cfg.PathToRoot == "" && strings.HasSuffix(current.Path, "/index.html")
		if (hasHref && samePage(resolve(current, href), current)) || indexAlias {
			addClass(link, "active")
			active = link
		}
	}
	return active
}

func resolve(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}
	return base.ResolveReference(ref)
}

// samePage compares two URLs by their decoded paths, so "%c3%9c", "%C3%9C"
// and a raw "Ü" name the same page.
func samePage(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return strings.EqualFold(a.Scheme, b.Scheme) &&
		strings.EqualFold(a.Host, b.Host) &&
		a.Path == b.Path &&
		a.RawQuery == b.RawQuery
}

// expand opens every section between the active link and the root. A
// sub-list sits in its own <li> right after the chapter that owns it, so the
// preceding chapter-item sibling of each ancestor is opened too.
func expand(link *html.Node) {
	parent := link.Parent
	if HasClass(parent, "chapter-item") {
		addClass(parent, "expanded")
	}
	for ; parent != nil; parent = parent.Parent {
		if !isElement(parent, atom.Li) {
			continue
		}
		if prev := previousElementSibling(parent); HasClass(prev, "chapter-item") {
			addClass(prev, "expanded")
		}
	}
}

// restore consumes the stored scroll offset. The value is deleted whether or
// not it is usable so a later unrelated navigation never sees it.
func (c *Controller) restore(ctx context.Context, p *Panel) {
	value, ok := c.take(ctx)
	switch {
	case ok && value != "":
		offset, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			offset = 0
		}
		p.scrollTop = offset
		p.restore = RestoreOffset
	case p.active != nil:
		p.restore = RestoreCenter
	default:
		p.restore = RestoreNone
	}
}

func (c *Controller) take(ctx context.Context) (string, bool) {
	if c.store == nil {
		return "", false
	}
	value, ok, err := c.store.Take(ctx, c.cfg.ScrollKey)
	if err != nil {
		c.log.Warn("taking scroll offset", "error", err)
		return "", false
	}
	return value, ok
}
