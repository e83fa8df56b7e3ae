// Package server implements the gnparser HTTP API.
//
// Routes:
//
//	GET  /api/v1/ping        liveness, answers "pong"
//	GET  /api/v1/version     build information
//	GET  /api/v1/{names}     parse names separated by "|"
//	POST /api/v1             parse {"names": [string|null], ...}
//	GET  /metrics            Prometheus metrics
//
// Both parse routes answer {"results": [string|null]} with one slot per
// input name. A null name, or an empty segment in the GET path, is a missing
// entry and yields a null result. A name whose parse faulted also yields
// null and is listed under "faults".
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/gnparser/pkg/observability/prom"
	"github.com/matzehuels/gnparser/pkg/pipeline"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"

	maxBodyBytes    = 10 << 20
	shutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr string

	// MaxBatch caps the names in one request. Zero uses
	// pipeline.DefaultMaxBatch.
	MaxBatch int

	// Defaults apply to requests that leave format, code, details or
	// diaereses unset.
	Defaults pipeline.Options
}

// Server serves the parse API over a pipeline runner.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	logger   *log.Logger
	registry *prometheus.Registry
	router   chi.Router
}

// New creates a Server. Its metrics are installed as the process-wide
// observability hooks.
func New(runner *pipeline.Runner, cfg Config, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = pipeline.DefaultMaxBatch
	}

	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}
	m, err := prom.New(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	m.Register()

	s := &Server{
		cfg:      cfg,
		runner:   runner,
		logger:   logger,
		registry: reg,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	}).ServeHTTP)

	r.Get("/api/v1/ping", s.handlePing)
	r.Get("/api/v1/version", s.handleVersion)
	r.Get("/api/v1/{names}", s.handleGet)
	r.Post("/api/v1", s.handlePost)
	r.Post("/api/v1/", s.handlePost)
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
