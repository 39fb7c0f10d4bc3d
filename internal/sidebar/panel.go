package sidebar

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RestoreMode records how the Restore phase positioned the panel.
type RestoreMode int

const (
	// RestoreNone leaves the panel where the browser puts it.
	RestoreNone RestoreMode = iota
	// RestoreOffset applies the stored scroll offset.
	RestoreOffset
	// RestoreCenter scrolls the active link to the vertical center.
	RestoreCenter
)

func (m RestoreMode) String() string {
	switch m {
	case RestoreOffset:
		return "offset"
	case RestoreCenter:
		return "center"
	default:
		return "none"
	}
}

// Panel is the mounted sidebar of one page view. It is not safe for
// concurrent use; a page view delivers its events one at a time.
type Panel struct {
	host      *html.Node
	cfg       Config
	store     ScrollStore
	log       *slog.Logger
	active    *html.Node
	scrollTop float64
	restore   RestoreMode
}

// Host returns the element the markup was rendered into.
func (p *Panel) Host() *html.Node { return p.host }

// Active returns the link marked active, or nil.
func (p *Panel) Active() *html.Node { return p.active }

// ActiveHref returns the href of the active link, or "".
func (p *Panel) ActiveHref() string {
	if p.active == nil {
		return ""
	}
	href, _ := getAttr(p.active, "href")
	return href
}

// Restore reports what the Restore phase did.
func (p *Panel) Restore() RestoreMode { return p.restore }

// CenterActive reports whether the active link should be scrolled into the
// vertical center of the panel.
func (p *Panel) CenterActive() bool { return p.restore == RestoreCenter }

// ScrollTop is the panel's current vertical scroll offset.
func (p *Panel) ScrollTop() float64 { return p.scrollTop }

// SetScrollTop records a new scroll offset reported by the view.
func (p *Panel) SetScrollTop(v float64) { p.scrollTop = v }

// Links returns every link in the panel in document order.
func (p *Panel) Links() []*html.Node {
	return descendants(p.host, func(n *html.Node) bool { return n.DataAtom == atom.A })
}

// Toggles returns the section toggle controls in document order.
func (p *Panel) Toggles() []*html.Node {
	return descendants(p.host, func(n *html.Node) bool {
		return n.DataAtom == atom.A && HasClass(n, "toggle")
	})
}

// Expanded returns the list items currently marked expanded.
func (p *Panel) Expanded() []*html.Node {
	return descendants(p.host, func(n *html.Node) bool {
		return n.DataAtom == atom.Li && HasClass(n, "expanded")
	})
}

// Click handles a click whose target is n. Clicking a link saves the current
// scroll offset before the navigation it triggers.
func (p *Panel) Click(ctx context.Context, n *html.Node) error {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return p.ClickTag(ctx, n.Data)
}

// ClickTag is Click for callers that only know the target's tag name.
func (p *Panel) ClickTag(ctx context.Context, tag string) error {
	if !strings.EqualFold(tag, "a") || p.store == nil {
		return nil
	}
	return SaveScrollOffset(ctx, p.store, p.cfg.ScrollKey, p.scrollTop)
}

// SaveScrollOffset writes offset under key, the way a link click does. It is
// exported for transports that receive the click without a mounted panel.
func SaveScrollOffset(ctx context.Context, store ScrollStore, key string, offset float64) error {
	if key == "" {
		key = DefaultScrollKey
	}
	value := strconv.FormatFloat(offset, 'f', -1, 64)
	if err := store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("saving scroll offset: %w", err)
	}
	return nil
}

// Toggle flips the section owning the i-th toggle control. It reports the new
// expanded state and false for an unknown index.
func (p *Panel) Toggle(i int) (expanded, ok bool) {
	toggles := p.Toggles()
	if i < 0 || i >= len(toggles) {
		return false, false
	}
	return p.ToggleNode(toggles[i])
}

// ToggleNode flips expanded on the toggle's parent and nothing else.
func (p *Panel) ToggleNode(toggle *html.Node) (expanded, ok bool) {
	if toggle == nil || toggle.Parent == nil || toggle.Parent.Type != html.ElementNode {
		return false, false
	}
	return toggleClass(toggle.Parent, "expanded"), true
}

// HTML renders the panel's content.
func (p *Panel) HTML() (string, error) {
	var buf bytes.Buffer
	for c := p.host.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("rendering sidebar: %w", err)
		}
	}
	return buf.String(), nil
}

// Annotate writes the Restore outcome onto the host element so a browser can
// apply it without another round trip.
func (p *Panel) Annotate() {
	switch p.restore {
	case RestoreOffset:
		setAttr(p.host, "data-scroll-top", strconv.FormatFloat(p.scrollTop, 'f', -1, 64))
	case RestoreCenter:
		setAttr(p.host, "data-center-active", "true")
	}
	setAttr(p.host, "data-scroll-key", p.cfg.ScrollKey)
}
