package book

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ziadkadry99/booknav/internal/logging"
	"github.com/ziadkadry99/booknav/internal/progress"
)

const bakeMarkup = `<ol class="chapter">` +
	`<li class="chapter-item "><a href="index.html">Introduction</a></li>` +
	`<li class="chapter-item "><a href="chap01/Overview.html">Overview</a></li>` +
	`</ol>`

const bakePage = `<html><head></head><body><mdbook-sidebar-scrollbox></mdbook-sidebar-scrollbox></body></html>`

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestBakeInPlace(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"index.html":           bakePage,
		"chap01/Overview.html": bakePage,
		"plain.html":           `<html><body>plain</body></html>`,
		"print.html":           bakePage,
	})

	var out bytes.Buffer
	b := &Baker{
		Dir:      dir,
		Filter:   Filter{Exclude: []string{"print.html"}},
		Tag:      "mdbook-sidebar-scrollbox",
		Markup:   bakeMarkup,
		Reporter: &progress.CIReporter{Out: &out},
		Log:      logging.Discard(),
	}
	res, err := b.Bake(context.Background())
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	if res.Pages != 2 || res.Skipped != 1 {
		t.Errorf("got %+v, want 2 pages and 1 skipped", res)
	}

	overview := readFile(t, filepath.Join(dir, "chap01", "Overview.html"))
	for _, want := range []string{
		`<a href="../chap01/Overview.html" class="active">`,
		`<a href="../index.html">`,
		`data-center-active="true"`,
	} {
		if !strings.Contains(overview, want) {
			t.Errorf("Overview.html missing %q:\n%s", want, overview)
		}
	}
	if strings.Contains(overview, "data-scroll-top") {
		t.Error("baked page should carry no scroll offset")
	}

	index := readFile(t, filepath.Join(dir, "index.html"))
	if !strings.Contains(index, `<a href="index.html" class="active">`) {
		t.Errorf("index.html active link wrong:\n%s", index)
	}

	if got := readFile(t, filepath.Join(dir, "print.html")); got != bakePage {
		t.Errorf("excluded page rewritten:\n%s", got)
	}
	if !strings.Contains(out.String(), "[3/3] plain.html") {
		t.Errorf("progress output missing final page:\n%s", out.String())
	}
}

func TestBakeToOutputDir(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "baked")
	writeFiles(t, src, map[string]string{
		"chap01/Overview.html": bakePage,
		"print.html":           bakePage,
		"css/general.css":      "body{}",
		"fonts/OpenSans.woff2": "font",
		"toc.js":               "generator toc",
	})

	b := &Baker{
		Dir:    src,
		Out:    dst,
		Filter: Filter{Exclude: []string{"print.html"}},
		Tag:    "mdbook-sidebar-scrollbox",
		Markup: bakeMarkup,
		Log:    logging.Discard(),
	}
	res, err := b.Bake(context.Background())
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	if res.Assets != 4 || !res.Script {
		t.Errorf("got %+v, want 4 assets and a replaced script", res)
	}

	if got := readFile(t, filepath.Join(src, "chap01", "Overview.html")); got != bakePage {
		t.Error("source page should be left alone")
	}
	if got := readFile(t, filepath.Join(src, "toc.js")); got != "generator toc" {
		t.Error("source toc.js should be left alone")
	}
	if got := readFile(t, filepath.Join(dst, "chap01", "Overview.html")); !strings.Contains(got, `class="active"`) {
		t.Errorf("baked copy missing active link:\n%s", got)
	}
	for name, want := range map[string]string{
		"css/general.css":      "body{}",
		"fonts/OpenSans.woff2": "font",
		"print.html":           bakePage,
	} {
		if got := readFile(t, filepath.Join(dst, filepath.FromSlash(name))); got != want {
			t.Errorf("%s: got %q, want %q", name, got, want)
		}
	}
	if got := readFile(t, filepath.Join(dst, "toc.js")); !strings.Contains(got, "booknav sidebar client") {
		t.Errorf("toc.js in output is not the booknav client:\n%s", got)
	}
}

func TestBakeReplacesGeneratorScriptInPlace(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"index.html": bakePage,
		"toc.js":     "generator toc",
	})
	b := &Baker{Dir: dir, Tag: "my-sidebar", Markup: bakeMarkup, Log: logging.Discard()}

	res, err := b.Bake(context.Background())
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	if !res.Script || res.Assets != 0 {
		t.Errorf("got %+v, want the script replaced and nothing copied", res)
	}
	got := readFile(t, filepath.Join(dir, "toc.js"))
	if !strings.Contains(got, `var TAG = "my-sidebar";`) {
		t.Errorf("toc.js not rewritten for the configured element:\n%s", got)
	}
}

func TestBakeWithoutGeneratorScript(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"index.html": bakePage})
	b := &Baker{Dir: dir, Tag: "mdbook-sidebar-scrollbox", Markup: bakeMarkup, Log: logging.Discard()}

	res, err := b.Bake(context.Background())
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	if res.Script {
		t.Error("no toc.js should be created for a book that never loads one")
	}
	if _, err := os.Stat(filepath.Join(dir, "toc.js")); !os.IsNotExist(err) {
		t.Errorf("toc.js stat err = %v, want not exist", err)
	}
}

func TestBakeNonASCIIPage(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"chap01/Über.html": bakePage})
	markup := `<ol class="chapter"><li class="chapter-item "><a href="chap01/%c3%9cber.html">Über</a></li></ol>`
	b := &Baker{Dir: dir, Tag: "mdbook-sidebar-scrollbox", Markup: markup, Log: logging.Discard()}

	if _, err := b.Bake(context.Background()); err != nil {
		t.Fatalf("Bake: %v", err)
	}
	got := readFile(t, filepath.Join(dir, "chap01", "Über.html"))
	if !strings.Contains(got, `<a href="../chap01/%c3%9cber.html" class="active">`) {
		t.Errorf("non-ASCII chapter not marked active:\n%s", got)
	}
}

func TestBakeIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"index.html": bakePage})
	b := &Baker{Dir: dir, Tag: "mdbook-sidebar-scrollbox", Markup: bakeMarkup, Log: logging.Discard()}

	if _, err := b.Bake(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := readFile(t, filepath.Join(dir, "index.html"))
	if _, err := b.Bake(context.Background()); err != nil {
		t.Fatal(err)
	}
	if second := readFile(t, filepath.Join(dir, "index.html")); second != first {
		t.Errorf("second bake changed the page:\n%s\n%s", first, second)
	}
}

func TestPageLocation(t *testing.T) {
	tests := []struct{ site, rel, want string }{
		{"", "index.html", "http://localhost/index.html"},
		{"https://docs.example.com/book", "chap01/Overview.html", "https://docs.example.com/book/chap01/Overview.html"},
		{"https://docs.example.com/book/", "/index.html", "https://docs.example.com/book/index.html"},
	}
	for _, tt := range tests {
		got, err := PageLocation(tt.site, tt.rel)
		if err != nil {
			t.Fatalf("PageLocation(%q, %q): %v", tt.site, tt.rel, err)
		}
		if got != tt.want {
			t.Errorf("PageLocation(%q, %q) = %q, want %q", tt.site, tt.rel, got, tt.want)
		}
	}
}
