package server

import (
	"net/http"

	"github.com/ziadkadry99/booknav/internal/sidebar"
)

const clientScriptPath = "/_booknav/sidebar.js"

func (s *Server) handleClientScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(sidebar.ClientScript(s.cfg.ElementTag)))
}
