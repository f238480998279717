// Package app wires configuration into running components.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/neox5/hostbox/internal/config"
	"github.com/neox5/hostbox/internal/exporter"
	"github.com/neox5/hostbox/internal/metric"
	"github.com/neox5/hostbox/internal/monitor"
	"github.com/neox5/hostbox/internal/sampler"
	"github.com/neox5/hostbox/internal/scheduler"
	"github.com/neox5/hostbox/internal/server"
	"github.com/neox5/hostbox/internal/telemetry"
)

// App holds initialized application components.
type App struct {
	Config       *config.Config
	Registry     *metric.Registry
	Telemetry    *telemetry.Telemetry
	Scheduler    *scheduler.Scheduler
	Server       *server.Server
	OTELExporter *exporter.OTELExporter
	Monitor      *monitor.Monitor

	logger *slog.Logger
}

// New initializes the application from a validated configuration.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	samplers := make([]sampler.Sampler, 0, len(cfg.Samplers))
	for _, name := range cfg.Samplers {
		smp, err := sampler.New(name, sampler.Options{MountPoint: cfg.Disk.MountPoint})
		if err != nil {
			return nil, fmt.Errorf("failed to create sampler: %w", err)
		}
		samplers = append(samplers, smp)
	}

	return build(ctx, cfg, samplers, logger)
}

func build(ctx context.Context, cfg *config.Config, samplers []sampler.Sampler, logger *slog.Logger) (*App, error) {
	registry := metric.New()
	tel := telemetry.New()

	sched, err := scheduler.New(registry, samplers, scheduler.Options{
		Interval:     cfg.PollInterval,
		ExposeErrors: cfg.ExposeCollectorErrors,
		Telemetry:    tel,
		Logger:       logger.With("component", "scheduler"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	srvOpts := server.Options{
		Addr:      cfg.Server.Addr(),
		Telemetry: tel,
		Logger:    logger.With("component", "server"),
	}
	if cfg.InternalMetrics.Enabled {
		srvOpts.InternalPath = cfg.InternalMetrics.Path
	}

	a := &App{
		Config:    cfg,
		Registry:  registry,
		Telemetry: tel,
		Scheduler: sched,
		Server:    server.New(registry, srvOpts),
		logger:    logger,
	}

	// Created after the scheduler so every descriptor is registered
	if cfg.Export.OTEL != nil && cfg.Export.OTEL.Enabled {
		a.OTELExporter, err = exporter.NewOTELExporter(ctx, cfg.Export.OTEL, registry, logger.With("component", "otel"))
		if err != nil {
			return nil, fmt.Errorf("failed to create OTEL exporter: %w", err)
		}
	}

	if cfg.Monitor.Enabled {
		a.Monitor, err = monitor.New(cfg.Monitor.Interval, logger.With("component", "monitor"))
		if err != nil {
			return nil, fmt.Errorf("failed to create monitor: %w", err)
		}
	}

	return a, nil
}

// Run starts every component and blocks until ctx is cancelled or one of
// them fails. A failure stops the others.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Scheduler.Run(gctx)
	})

	g.Go(func() error {
		if err := a.Server.Start(gctx); err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	if a.OTELExporter != nil {
		g.Go(func() error {
			if err := a.OTELExporter.Start(gctx); err != nil {
				return fmt.Errorf("otel exporter: %w", err)
			}
			return nil
		})
	}

	if a.Monitor != nil {
		a.Monitor.Run(gctx)
		g.Go(func() error {
			a.Monitor.Wait()
			return nil
		})
	}

	err := g.Wait()
	a.logger.Info("shutdown complete")
	return err
}

// NewLogger builds the process logger from log settings.
func NewLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	switch cfg.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
}
