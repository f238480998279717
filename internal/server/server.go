// Package server serves registry snapshots over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neox5/hostbox/internal/exposition"
	"github.com/neox5/hostbox/internal/metric"
	"github.com/neox5/hostbox/internal/telemetry"
)

const (
	MetricsPath = "/metrics"
	HealthPath  = "/health"

	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr string

	// InternalPath serves the telemetry registry when non-empty.
	InternalPath string

	Telemetry *telemetry.Telemetry
	Logger    *slog.Logger
}

// Server provides the HTTP scrape endpoint.
type Server struct {
	addr     string
	registry *metric.Registry
	server   *http.Server
	logger   *slog.Logger
}

// New creates a server for registry.
func New(registry *metric.Registry, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		addr:     opts.Addr,
		registry: registry,
		logger:   opts.Logger,
	}

	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(opts),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) routes(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httplog.RequestLogger(s.logger, &httplog.Options{
		Level:             slog.LevelDebug,
		Schema:            httplog.SchemaECS.Concise(true),
		LogRequestHeaders: []string{},
	}))

	var metrics http.Handler = http.HandlerFunc(s.handleMetrics)
	if opts.Telemetry != nil {
		metrics = instrumented(opts.Telemetry, metrics)
	}
	r.Method(http.MethodGet, MetricsPath, metrics)
	r.Get(HealthPath, handleHealth)

	if opts.InternalPath != "" && opts.Telemetry != nil {
		r.Method(http.MethodGet, opts.InternalPath, promhttp.HandlerFor(
			opts.Telemetry.Registry,
			promhttp.HandlerOpts{
				EnableOpenMetrics: true,
			},
		))
		s.logger.Info("enabled internal metrics", "path", opts.InternalPath)
	}

	return r
}

// instrumented wraps the scrape handler with request counting and timing.
func instrumented(tel *telemetry.Telemetry, next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(tel.ScrapesTotal,
		promhttp.InstrumentHandlerDuration(tel.ScrapeDuration, next))
}

// handleMetrics renders the latest snapshot. The snapshot is not kept past
// the request.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	body := exposition.Render(s.registry.Snapshot())

	w.Header().Set("Content-Type", exposition.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.logger.Debug("failed to write scrape response", "error", err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// Start begins serving HTTP requests. It blocks until ctx is cancelled or
// the listener fails.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("starting server", "addr", s.addr, "path", MetricsPath)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return s.shutdown()
	}
}

// shutdown gracefully stops the server.
func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server")
	return s.server.Shutdown(ctx)
}
