package server

import (
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/booknav/internal/book"
)

// handleBook serves the book directory, mounting the sidebar into pages.
func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if rel == "." {
		rel = ""
	}
	if rel == "" || strings.HasSuffix(r.URL.Path, "/") {
		rel = path.Join(rel, "index.html")
	}
	if rel == book.GeneratorScript {
		s.handleClientScript(w, r)
		return
	}

	full := filepath.Join(s.cfg.BookDir, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if info.IsDir() {
		http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
		return
	}
	if !book.IsPage(rel) {
		http.ServeFile(w, r, full)
		return
	}

	page, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		s.log.Error("reading page", "path", rel, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if !s.filter.Excluded(rel) {
		page, err = s.mountPage(w, r, rel, page)
		if err != nil {
			s.log.Error("mounting sidebar", "path", rel, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(page)
}

// mountPage runs one sidebar page view against the request's session and
// splices the result into the page.
func (s *Server) mountPage(w http.ResponseWriter, r *http.Request, rel string, page []byte) ([]byte, error) {
	ctrl := s.controller(newHandoffStore(s.store(r), w, r), book.PathToRoot(rel))
	location := s.location(r)

	out, found, err := book.Inject(page, s.cfg.ElementTag, func(host *html.Node) error {
		p, err := ctrl.MountInto(r.Context(), host, location)
		if err != nil {
			return err
		}
		p.Annotate()
		s.metrics.Mounted(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		s.log.Debug("page has no sidebar element", "path", rel, "tag", s.cfg.ElementTag)
	}
	return out, nil
}

// location reconstructs the URL the browser shows for r, keeping the path
// escaped the way the browser sent it. The fragment never reaches the
// server, which matches how the current page is compared anyway.
func (s *Server) location(r *http.Request) string {
	if s.cfg.SiteURL != "" {
		base, err := url.Parse(strings.TrimSuffix(s.cfg.SiteURL, "/") + "/")
		ref, refErr := url.Parse("./" + strings.TrimPrefix(r.URL.EscapedPath(), "/"))
		if err == nil && refErr == nil {
			return base.ResolveReference(ref).String()
		}
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawPath: r.URL.RawPath}
	return u.String()
}
