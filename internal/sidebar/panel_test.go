package sidebar

import (
	"context"
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func TestClickLinkSavesScrollOffset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := mount(t, foldedMarkup, "../", bookRoot+"chap01/Overview.html", store)

	p.SetScrollTop(512.5)
	if err := p.Click(ctx, p.Links()[1]); err != nil {
		t.Fatalf("Click: %v", err)
	}
	v, ok, _ := store.Get(ctx, DefaultScrollKey)
	if !ok || v != "512.5" {
		t.Errorf("stored offset = %q (present=%v), want 512.5", v, ok)
	}

	// The next page load picks it up exactly once.
	next := mount(t, foldedMarkup, "../", bookRoot+"chap04/IO.html", store)
	if next.Restore() != RestoreOffset || next.ScrollTop() != 512.5 {
		t.Errorf("next restore = %s at %v", next.Restore(), next.ScrollTop())
	}
}

func TestClickNonLinkDoesNothing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := mount(t, foldedMarkup, "../", bookRoot+"chap01/Overview.html", store)
	p.SetScrollTop(80)

	li := p.Active().Parent
	if err := p.Click(ctx, li); err != nil {
		t.Fatal(err)
	}
	if err := p.Click(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if err := p.ClickTag(ctx, "STRONG"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get(ctx, DefaultScrollKey); ok {
		t.Error("clicking a non-link must not store an offset")
	}

	if err := p.ClickTag(ctx, "A"); err != nil {
		t.Fatal(err)
	}
	if v, _, _ := store.Get(ctx, DefaultScrollKey); v != "80" {
		t.Errorf("stored offset = %q, want 80", v)
	}
}

func TestClickStoreError(t *testing.T) {
	p := mount(t, foldedMarkup, "../", bookRoot+"chap01/Overview.html", &failingStore{})
	if err := p.ClickTag(context.Background(), "a"); err == nil {
		t.Error("expected store error to surface from Click")
	}
}

func TestToggleFlipsOnlyItsOwnEntry(t *testing.T) {
	p := mount(t, foldedMarkup, "../", bookRoot+"chap04/SMMU.html", nil)

	before := map[*html.Node]bool{}
	for _, li := range descendants(p.Host(), func(n *html.Node) bool { return n.DataAtom == atom.Li }) {
		before[li] = HasClass(li, "expanded")
	}

	toggles := p.Toggles()
	if len(toggles) != 2 {
		t.Fatalf("toggles = %d, want 2", len(toggles))
	}
	owner := toggles[0].Parent

	expanded, ok := p.Toggle(0)
	if !ok {
		t.Fatal("Toggle(0) should succeed")
	}
	if expanded {
		t.Error("IO was expanded by the active path, toggling should collapse it")
	}
	for li, was := range before {
		now := HasClass(li, "expanded")
		if li == owner {
			if now == was {
				t.Error("owner state did not flip")
			}
			continue
		}
		if now != was {
			t.Errorf("unrelated item changed state: %s", linkText(li))
		}
	}

	if expanded, _ := p.Toggle(0); !expanded {
		t.Error("second toggle should re-expand")
	}
}

func TestToggleUnknownIndex(t *testing.T) {
	p := mount(t, foldedMarkup, "../", bookRoot+"chap01/Overview.html", nil)
	for _, i := range []int{-1, 2, 50} {
		if _, ok := p.Toggle(i); ok {
			t.Errorf("Toggle(%d) should report false", i)
		}
	}
	if _, ok := p.ToggleNode(nil); ok {
		t.Error("ToggleNode(nil) should report false")
	}
}

func TestAnnotate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Set(ctx, DefaultScrollKey, "42")

	p := mount(t, foldedMarkup, "../", bookRoot+"chap01/Overview.html", store)
	p.Annotate()
	if v, _ := getAttr(p.Host(), "data-scroll-top"); v != "42" {
		t.Errorf("data-scroll-top = %q", v)
	}
	if v, _ := getAttr(p.Host(), "data-scroll-key"); v != DefaultScrollKey {
		t.Errorf("data-scroll-key = %q", v)
	}

	p = mount(t, foldedMarkup, "../", bookRoot+"chap01/Overview.html", store)
	p.Annotate()
	if v, _ := getAttr(p.Host(), "data-center-active"); v != "true" {
		t.Errorf("data-center-active = %q", v)
	}
}

func TestPanelHTML(t *testing.T) {
	p := mount(t, foldedMarkup, "../", bookRoot+"chap01/Overview.html", nil)
	out, err := p.HTML()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<a href="../chap01/Overview.html" class="active">`) {
		t.Errorf("rendered panel missing active link: %s", out)
	}
	if !strings.HasPrefix(out, `<ol class="chapter">`) {
		t.Errorf("rendered panel should start with the chapter list: %.40s", out)
	}
}

func TestClassHelpers(t *testing.T) {
	n := &html.Node{Type: html.ElementNode, Data: "li", DataAtom: atom.Li,
		Attr: []html.Attribute{{Key: "class", Val: "chapter-item expanded "}}}

	addClass(n, "expanded")
	if v, _ := getAttr(n, "class"); v != "chapter-item expanded" {
		t.Errorf("class after re-adding = %q", v)
	}
	if toggleClass(n, "expanded") {
		t.Error("toggle should remove a present class")
	}
	if HasClass(n, "expanded") {
		t.Error("expanded should be gone")
	}
	if !toggleClass(n, "expanded") || !HasClass(n, "expanded") {
		t.Error("toggle should add an absent class")
	}
	if HasClass(nil, "x") {
		t.Error("nil node has no classes")
	}
}

func TestCurrentPage(t *testing.T) {
	tests := []struct{ in, want string }{
		{"https://x/book/a.html#b", "https://x/book/a.html"},
		{"https://x/book/", "https://x/book/index.html"},
		{"https://x/book/#top", "https://x/book/index.html"},
		{"https://x/book/a.html", "https://x/book/a.html"},
	}
	for _, tt := range tests {
		if got := CurrentPage(tt.in); got != tt.want {
			t.Errorf("CurrentPage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
