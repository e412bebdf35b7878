// Package server exposes the formatter over HTTP for editor plugins and CI.
//
// Routes:
//
//	POST /v1/format   {"source": "...", "options": {...}} -> {"formatted", "changed", "cached"}
//	POST /v1/check    {"source": "...", "rules": [...]}    -> {"diagnostics": [...]}
//	GET  /healthz                                          -> {"status", "version"}
//
// Every response carries an X-Request-ID header. A valid UUID sent by the
// client is echoed; otherwise a new one is generated.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pyfmt/pkg/format"
	"github.com/matzehuels/pyfmt/pkg/pipeline"
)

// Defaults for [Config].
const (
	DefaultAddr         = "127.0.0.1:8765"
	DefaultMaxBodyBytes = 2 << 20
	DefaultTimeout      = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr         string
	MaxBodyBytes int64
	Timeout      time.Duration
	// Defaults are the options applied before a request's own options.
	Defaults format.Options
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Defaults == (format.Options{}) {
		c.Defaults = format.DefaultOptions()
	}
}

// Server serves the formatting API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{cfg: cfg, runner: runner, logger: logger}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/format", s.handleFormat)
		r.Post("/check", s.handleCheck)
	})
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
