package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/booknav/internal/book"
	"github.com/ziadkadry99/booknav/internal/metrics"
	"github.com/ziadkadry99/booknav/internal/session"
	"github.com/ziadkadry99/booknav/internal/sidebar"
)

// Config holds server configuration.
type Config struct {
	Port          int
	BookDir       string   // directory containing the generated book
	SiteURL       string   // public base URL of the book; derived from requests when empty
	Exclude       []string // pages served without a sidebar
	ElementTag    string   // custom element the sidebar is mounted into
	ScrollKey     string
	SessionCookie string
	SessionTTL    time.Duration
	AllowAll      bool // allow all CORS origins (dev mode)
}

// Server serves a generated book with its navigation sidebar kept in sync.
type Server struct {
	cfg        Config
	markup     string
	sessions   session.Sessions
	metrics    *metrics.Metrics
	log        *slog.Logger
	filter     book.Filter
	router     chi.Router
	httpServer *http.Server
}

// New creates a server that mounts markup into every book page.
func New(cfg Config, markup string, sessions session.Sessions, m *metrics.Metrics, log *slog.Logger) *Server {
	if cfg.ElementTag == "" {
		cfg.ElementTag = "mdbook-sidebar-scrollbox"
	}
	if cfg.ScrollKey == "" {
		cfg.ScrollKey = sidebar.DefaultScrollKey
	}
	if cfg.SessionCookie == "" {
		cfg.SessionCookie = "booknav_session"
	}
	if m == nil {
		m = metrics.New()
	}
	s := &Server{
		cfg:      cfg,
		markup:   markup,
		sessions: sessions,
		metrics:  m,
		log:      log.With("component", "server"),
		filter:   book.Filter{Exclude: cfg.Exclude},
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.log))
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))
	r.Use(session.Middleware(s.cfg.SessionCookie))

	// The websocket outlives any request timeout.
	r.Get("/ws/sidebar", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Health check
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

		r.Get(clientScriptPath, s.handleClientScript)
		r.Route("/api/sidebar", func(r chi.Router) {
			r.Get("/", s.handlePanel)
			r.Post("/scroll", s.handleScroll)
		})

		r.Get("/*", s.handleBook)
	})

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// store returns the scroll store of the request's session.
func (s *Server) store(r *http.Request) sidebar.ScrollStore {
	id, _ := session.FromContext(r.Context())
	return s.sessions.Scope(id)
}

// controller builds a per-view controller reading and writing store.
func (s *Server) controller(store sidebar.ScrollStore, pathToRoot string) *sidebar.Controller {
	return sidebar.New(s.markup, sidebar.Config{
		PathToRoot: pathToRoot,
		ScrollKey:  s.cfg.ScrollKey,
	}, store, s.log)
}

// Purge drops session entries idle for longer than SessionTTL.
func (s *Server) Purge(ctx context.Context) (int64, error) {
	return s.sessions.Purge(ctx, time.Now().Add(-s.cfg.SessionTTL))
}

// RunJanitor purges idle sessions every SessionTTL until ctx is done.
func (s *Server) RunJanitor(ctx context.Context) {
	if s.cfg.SessionTTL <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.SessionTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Purge(ctx)
			if err != nil {
				s.log.Warn("purging sessions", "error", err)
				continue
			}
			if n > 0 {
				s.log.Debug("purged idle session entries", "count", n)
			}
		}
	}
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info("booknav server listening", "addr", addr, "book_dir", s.cfg.BookDir)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
