// Package httpapi exposes the read-only HTTP surface spec.md §6 describes:
// /api/status, /api/events, and /api/stream/<task>. It reuses the same
// internal/statusview and internal/eventlog components as the CLI so both
// surfaces observe identical replayed state.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/seqctl/seqctl/internal/eventlog"
	"github.com/seqctl/seqctl/internal/project"
	"github.com/seqctl/seqctl/internal/viewport"
)

// Server serves seqctl's read-only HTTP API, and optionally a static UI
// directory mounted at /.
type Server struct {
	router   chi.Router
	project  project.Project
	config   project.Config
	log      *eventlog.Log
	viewport viewport.Driver
	logger   zerolog.Logger
}

// New builds a Server wired to p's event log and viewport backend. uiDir,
// when non-empty, is served as static files for any path the /api routes
// do not match.
func New(p project.Project, cfg project.Config, log *eventlog.Log, vp viewport.Driver, logger zerolog.Logger, uiDir string) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		project:  p,
		config:   cfg,
		log:      log,
		viewport: vp,
		logger:   logger,
	}
	s.routes(uiDir)
	return s
}

// Handler returns the http.Handler to pass to http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes(uiDir string) {
	r := s.router
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/events", s.handleEvents)
		r.Get("/stream/{task}", s.handleStream)
	})

	if uiDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(uiDir)))
	}
}

// requestLogger logs each request's method, path, status, and duration at
// debug level, the teacher's convention for ambient HTTP access logs.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("http request")
		})
	}
}
