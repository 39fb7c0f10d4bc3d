package server

import (
	"context"
	"net/http"

	"github.com/ziadkadry99/booknav/internal/sidebar"
)

// handoffStore is the ScrollStore of one page request. A link click writes
// the offset into a cookie named after the scroll key just before the
// browser navigates, so the page request itself carries it; Take consumes
// that cookie and clears it in the response. Everything else goes to the
// session scope.
type handoffStore struct {
	sidebar.ScrollStore
	w http.ResponseWriter
	r *http.Request
}

func newHandoffStore(scope sidebar.ScrollStore, w http.ResponseWriter, r *http.Request) *handoffStore {
	return &handoffStore{ScrollStore: scope, w: w, r: r}
}

func (h *handoffStore) Take(ctx context.Context, key string) (string, bool, error) {
	c, err := h.r.Cookie(key)
	if err != nil {
		return h.ScrollStore.Take(ctx, key)
	}
	clearHandoffCookie(h.w, key)
	// Drop anything an API client left in the session so it cannot surface
	// on a later, unrelated page load. The cookie value wins either way.
	_, _, _ = h.ScrollStore.Take(ctx, key)
	return c.Value, true, nil
}

func clearHandoffCookie(w http.ResponseWriter, key string) {
	http.SetCookie(w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	})
}
