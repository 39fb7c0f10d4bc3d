package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/booknav/internal/sidebar"
)

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type       string   `json:"type"` // "mount", "click", "scroll" or "toggle"
	Location   string   `json:"location,omitempty"`
	PathToRoot string   `json:"path_to_root,omitempty"`
	Tag        string   `json:"tag,omitempty"`
	ScrollTop  *float64 `json:"scroll_top,omitempty"`
	Index      int      `json:"index,omitempty"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type     string         `json:"type"` // "panel", "ack" or "error"
	Panel    *panelResponse `json:"panel,omitempty"`
	Index    int            `json:"index"`
	Expanded bool           `json:"expanded"`
	Error    string         `json:"error,omitempty"`
}

func (s *Server) upgrader() websocket.Upgrader {
	u := websocket.Upgrader{}
	if s.cfg.AllowAll {
		u.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return u
}

// handleWebSocket drives one live page view. The connection owns a single
// panel; events arrive in the order the page produced them.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	var panel *sidebar.Panel
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read", "error", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendError(conn, "invalid message format")
			continue
		}

		switch req.Type {
		case "mount":
			if req.Location == "" {
				s.sendError(conn, "location is required")
				continue
			}
			p, err := s.controller(s.store(r), req.PathToRoot).Mount(r.Context(), req.Location)
			if err != nil {
				s.sendError(conn, err.Error())
				continue
			}
			s.metrics.Mounted(p)
			resp, err := newPanelResponse(p)
			if err != nil {
				s.sendError(conn, err.Error())
				continue
			}
			panel = p
			s.send(conn, wsResponse{Type: "panel", Panel: &resp})

		case "scroll":
			if panel == nil {
				s.sendError(conn, "no panel mounted")
				continue
			}
			if req.ScrollTop != nil {
				panel.SetScrollTop(*req.ScrollTop)
			}
			s.send(conn, wsResponse{Type: "ack"})

		case "click":
			if panel == nil {
				s.sendError(conn, "no panel mounted")
				continue
			}
			if req.ScrollTop != nil {
				panel.SetScrollTop(*req.ScrollTop)
			}
			if err := panel.ClickTag(r.Context(), req.Tag); err != nil {
				s.sendError(conn, err.Error())
				continue
			}
			s.metrics.Event("click")
			s.send(conn, wsResponse{Type: "ack"})

		case "toggle":
			if panel == nil {
				s.sendError(conn, "no panel mounted")
				continue
			}
			expanded, ok := panel.Toggle(req.Index)
			if !ok {
				s.sendError(conn, fmt.Sprintf("no toggle at index %d", req.Index))
				continue
			}
			s.metrics.Event("toggle")
			s.send(conn, wsResponse{Type: "ack", Index: req.Index, Expanded: expanded})

		default:
			s.sendError(conn, "unknown message type: "+req.Type)
		}
	}
}

func (s *Server) send(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		s.log.Warn("websocket write", "error", err)
	}
}

func (s *Server) sendError(conn *websocket.Conn, msg string) {
	s.send(conn, wsResponse{Type: "error", Error: msg})
}
