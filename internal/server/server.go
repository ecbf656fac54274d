// Package server exposes the result of one pipeline run over a read-only
// HTTP API for map front ends.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/parking-cli/internal/pipeline"
)

// Options configures the router.
type Options struct {
	StaticDir      string
	AllowedOrigins []string
	Timeout        time.Duration
}

// Server routes requests against a single, immutable run result.
type Server struct {
	mux  *chi.Mux
	res  *pipeline.Result
	opts Options
}

// New builds the router. All middleware is installed before routes.
func New(res *pipeline.Result, opts Options) *Server {
	if res == nil {
		res = &pipeline.Result{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	m := chi.NewRouter()
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	m.Use(Timeout(opts.Timeout))
	m.Use(Logger(zap.L()))

	s := &Server{mux: m, res: res, opts: opts}
	s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) routes() {
	s.mux.Get("/health", s.health)
	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/facilities", s.facilities)
		r.Get("/stats", s.listStats)
		r.Get("/stats/{id}", s.getStats)
		r.Get("/summary", s.summary)
	})
	if s.opts.StaticDir != "" {
		s.mux.Handle("/*", http.FileServer(http.Dir(s.opts.StaticDir)))
	}
}
