package book

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/booknav/internal/progress"
	"github.com/ziadkadry99/booknav/internal/sidebar"
)

// DefaultSiteURL stands in for the public location of a book whose site URL
// is unknown. Only the path part matters when links are matched.
const DefaultSiteURL = "http://localhost/"

// Baker splices a static sidebar into every page of a book. There is no
// session during a bake, so pages carry the active link and its expanded
// ancestors but never a scroll offset.
type Baker struct {
	Dir      string // generated book
	Out      string // destination; Dir when empty
	Filter   Filter
	Tag      string
	Markup   string
	SiteURL  string
	Reporter progress.Reporter
	Log      *slog.Logger
}

// BakeResult counts what a bake did.
type BakeResult struct {
	Pages   int  // pages written with a sidebar
	Skipped int  // pages without the sidebar element
	Assets  int  // other files copied to Out
	Script  bool // the generator's toc.js was replaced
}

// GeneratorScript is the client script the generator writes at the book
// root. It re-renders the sidebar in the browser, so baked books get
// booknav's script in its place.
const GeneratorScript = "toc.js"

// Bake processes every page. It stops at the first error.
func (b *Baker) Bake(ctx context.Context) (BakeResult, error) {
	var res BakeResult
	log := b.Log
	if log == nil {
		log = slog.Default()
	}

	pages, err := Pages(b.Dir, b.Filter)
	if err != nil {
		return res, err
	}
	out := b.Out
	if out == "" {
		out = b.Dir
	}
	separate, err := distinctDirs(b.Dir, out)
	if err != nil {
		return res, err
	}
	if separate {
		if res.Assets, err = copyAssets(b.Dir, out, b.Filter); err != nil {
			return res, err
		}
	}

	if b.Reporter != nil {
		b.Reporter.Start(len(pages))
		defer b.Reporter.Finish()
	}

	for i, rel := range pages {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		page, err := os.ReadFile(filepath.Join(b.Dir, filepath.FromSlash(rel)))
		if err != nil {
			return res, fmt.Errorf("reading %s: %w", rel, err)
		}

		ctrl := sidebar.New(b.Markup, sidebar.Config{PathToRoot: PathToRoot(rel)}, nil, log)
		location, err := PageLocation(b.SiteURL, rel)
		if err != nil {
			return res, err
		}
		baked, found, err := Inject(page, b.Tag, func(host *html.Node) error {
			p, err := ctrl.MountInto(ctx, host, location)
			if err != nil {
				return err
			}
			p.Annotate()
			return nil
		})
		if err != nil {
			return res, fmt.Errorf("baking %s: %w", rel, err)
		}
		if found {
			res.Pages++
		} else {
			res.Skipped++
			log.Debug("page has no sidebar element", "path", rel)
		}

		dest := filepath.Join(out, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return res, fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
		}
		if err := os.WriteFile(dest, baked, 0o644); err != nil {
			return res, fmt.Errorf("writing %s: %w", dest, err)
		}

		if b.Reporter != nil {
			b.Reporter.Update(i+1, rel)
		}
	}

	if _, err := os.Stat(filepath.Join(b.Dir, GeneratorScript)); err == nil {
		dest := filepath.Join(out, GeneratorScript)
		if err := os.WriteFile(dest, []byte(sidebar.ClientScript(b.Tag)), 0o644); err != nil {
			return res, fmt.Errorf("writing %s: %w", dest, err)
		}
		res.Script = true
	}
	return res, nil
}

func distinctDirs(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", a, err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", b, err)
	}
	return absA != absB, nil
}

// copyAssets copies every file under dir that Bake does not write itself
// (stylesheets, scripts, fonts, images and excluded pages) into out. A
// destination nested inside dir is skipped.
func copyAssets(dir, out string, filter Filter) (int, error) {
	absOut, err := filepath.Abs(out)
	if err != nil {
		return 0, fmt.Errorf("resolving %s: %w", out, err)
	}
	copied := 0
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if abs, err := filepath.Abs(p); err == nil && abs == absOut {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if IsPage(rel) && !filter.Excluded(rel) {
			return nil
		}
		if err := copyFile(p, filepath.Join(out, filepath.FromSlash(rel))); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("copying assets: %w", err)
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, in); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PageLocation is the URL a browser shows for the page at rel when the book
// is published at siteURL.
func PageLocation(siteURL, rel string) (string, error) {
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	base, err := url.Parse(strings.TrimSuffix(siteURL, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("parsing site url %q: %w", siteURL, err)
	}
	return base.ResolveReference(&url.URL{Path: strings.TrimPrefix(filepath.ToSlash(rel), "/")}).String(), nil
}
