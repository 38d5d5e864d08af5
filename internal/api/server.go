package api

import (
	"log/slog"
	"net/http"

	"github.com/asynkron/supermaxrep/internal/config"
	"github.com/asynkron/supermaxrep/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API for running repeat scans.
type Server struct {
	router chi.Router
	store  *store.Store
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server. st may be nil, in which
// case scans are not persisted and the runs endpoints report unavailable.
func NewServer(st *store.Store, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store: st,
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/repeats", s.handleRepeats)
		r.Get("/api/runs", s.handleListRuns)
		r.Get("/api/runs/{runID}/repeats", s.handleRunRepeats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
