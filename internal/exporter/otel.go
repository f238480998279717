// Package exporter pushes registry snapshots to an OTEL collector.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neox5/hostbox/internal/config"
	"github.com/neox5/hostbox/internal/metric"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const (
	meterName       = "hostbox"
	shutdownTimeout = 5 * time.Second
)

// OTELExporter pushes metrics to an OTEL collector.
type OTELExporter struct {
	config        *config.OTELExportConfig
	registry      *metric.Registry
	meterProvider *sdkmetric.MeterProvider
	meter         otelmetric.Meter
	instruments   map[string]instrument
	logger        *slog.Logger
}

// NewOTELExporter creates an exporter that observes registry on every push.
// The registry must hold all descriptors before the exporter is created.
func NewOTELExporter(ctx context.Context, cfg *config.OTELExportConfig, registry *metric.Registry, logger *slog.Logger) (*OTELExporter, error) {
	reader, err := createPeriodicReader(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newOTELExporter(ctx, cfg, registry, reader, logger)
}

func newOTELExporter(ctx context.Context, cfg *config.OTELExportConfig, registry *metric.Registry, reader sdkmetric.Reader, logger *slog.Logger) (*OTELExporter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res, err := createOTELResource(ctx, cfg.Resource)
	if err != nil {
		return nil, err
	}

	mp := createMeterProvider(res, reader)
	e := &OTELExporter{
		config:        cfg,
		registry:      registry,
		meterProvider: mp,
		meter:         mp.Meter(meterName),
		logger:        logger,
	}

	if err := registerOTELInstruments(e); err != nil {
		_ = mp.Shutdown(ctx)
		return nil, err
	}

	return e, nil
}

// Start blocks until ctx is cancelled, then flushes and stops the exporter.
// The periodic reader performs the pushes.
func (e *OTELExporter) Start(ctx context.Context) error {
	e.logger.Info("starting otel exporter",
		"transport", e.config.Transport,
		"endpoint", e.config.GetEndpoint(),
		"push_interval", e.config.Interval,
		"instruments", len(e.instruments),
	)

	<-ctx.Done()
	return e.Stop()
}

// Stop flushes pending data and shuts the meter provider down.
func (e *OTELExporter) Stop() error {
	e.logger.Info("shutting down otel exporter")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down meter provider: %w", err)
	}
	return nil
}
