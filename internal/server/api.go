package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ziadkadry99/booknav/internal/sidebar"
)

// scrollRequest is the body of POST /api/sidebar/scroll.
type scrollRequest struct {
	ScrollTop *float64 `json:"scroll_top"`
}

// panelResponse describes one mounted page view.
type panelResponse struct {
	HTML         string  `json:"html"`
	Active       string  `json:"active"`
	ScrollTop    float64 `json:"scroll_top"`
	CenterActive bool    `json:"center_active"`
	Restore      string  `json:"restore"`
}

func newPanelResponse(p *sidebar.Panel) (panelResponse, error) {
	markup, err := p.HTML()
	if err != nil {
		return panelResponse{}, err
	}
	return panelResponse{
		HTML:         markup,
		Active:       p.ActiveHref(),
		ScrollTop:    p.ScrollTop(),
		CenterActive: p.CenterActive(),
		Restore:      p.Restore().String(),
	}, nil
}

// handleScroll records the panel offset of a link click that is about to
// navigate away.
func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	var req scrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ScrollTop == nil {
		writeError(w, http.StatusBadRequest, "scroll_top is required")
		return
	}
	if err := sidebar.SaveScrollOffset(r.Context(), s.store(r), s.cfg.ScrollKey, *req.ScrollTop); err != nil {
		s.log.Error("saving scroll offset", "error", err)
		writeError(w, http.StatusInternalServerError, "saving scroll offset failed")
		return
	}
	s.metrics.Event("click")
	w.WriteHeader(http.StatusNoContent)
}

// handlePanel mounts a panel for the page view named by the query string.
func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	location := strings.TrimSpace(q.Get("location"))
	if location == "" {
		writeError(w, http.StatusBadRequest, "location is required")
		return
	}

	p, err := s.controller(newHandoffStore(s.store(r), w, r), q.Get("path_to_root")).Mount(r.Context(), location)
	if err != nil {
		s.log.Error("mounting sidebar", "location", location, "error", err)
		writeError(w, http.StatusInternalServerError, "mounting sidebar failed")
		return
	}
	s.metrics.Mounted(p)

	resp, err := newPanelResponse(p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
