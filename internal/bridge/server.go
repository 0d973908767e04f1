// Package bridge is the HTTP and WebSocket surface the surrounding
// application uses to drive the viewer: load structures, search, reset the
// view and follow the status line.
package bridge

import (
	"context"
	"errors"
	"net/http"
	"time"

	"MolView/internal/chem"
	"MolView/internal/engine"
	"MolView/internal/logger"
	"MolView/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const (
	DefaultShutdownTimeout = 5 * time.Second
	maxBodyBytes           = 8 << 20
)

// Viewer is the part of engine.Viewer the bridge drives.
type Viewer interface {
	Status() string
	SubscribeStatus(fn func(string)) (cancel func())
	Current() (chem.Summary, bool)
	Selected() (engine.Selection, bool)
	Load(r chem.SearchResult) (chem.Summary, error)
	ResetView() error
}

type Searcher interface {
	Search(ctx context.Context, query string) (chem.SearchResult, error)
}

type Config struct {
	Addr            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type Server struct {
	cfg        Config
	viewer     Viewer
	searcher   Searcher
	metrics    *metrics.Metrics
	router     chi.Router
	httpServer *http.Server
}

// New wires the routes. searcher and m may be nil.
func New(cfg Config, v Viewer, searcher Searcher, m *metrics.Metrics) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	s := &Server{
		cfg:      cfg,
		viewer:   v,
		searcher: searcher,
		metrics:  m,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// The status stream is long-lived and stays outside the request timeout.
	r.Get("/ws/status", s.handleStatusStream)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/status", s.handleStatus)
		r.Get("/molecule", s.handleMolecule)
		r.Get("/selection", s.handleSelection)
		r.Post("/structures", s.handleLoad)
		r.Post("/search", s.handleSearch)
		r.Post("/view/reset", s.handleReset)
	})
	return r
}

func (s *Server) Router() chi.Router { return s.router }

// Start listens on the configured address and blocks until Shutdown.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	logger.Log.Info("Bridge listening", zap.String("addr", s.cfg.Addr))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// requestLogger logs one zap line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Log.Debug("Bridge request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
