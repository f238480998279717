// Package scheduler drives periodic sampler collection into a registry.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/neox5/hostbox/internal/metric"
	"github.com/neox5/hostbox/internal/sampler"
	"github.com/neox5/hostbox/internal/telemetry"
)

// DefaultInterval is the collection period when none is configured.
const DefaultInterval = 5 * time.Second

// Options configures a Scheduler.
type Options struct {
	Interval time.Duration

	// ExposeErrors registers a hostbox_collector_<name>_errors_total counter
	// per sampler in the main registry.
	ExposeErrors bool

	// Telemetry receives cycle statistics. Optional.
	Telemetry *telemetry.Telemetry

	Logger *slog.Logger
}

// Scheduler polls every sampler once per interval and applies each
// sampler's updates to the registry as one batch.
type Scheduler struct {
	registry *metric.Registry
	samplers []sampler.Sampler
	interval time.Duration
	tel      *telemetry.Telemetry
	logger   *slog.Logger

	errorCounters map[string]string
}

// New registers every sampler's descriptors and returns a scheduler.
// Registration errors are programming errors and abort startup.
func New(registry *metric.Registry, samplers []sampler.Sampler, opts Options) (*Scheduler, error) {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Scheduler{
		registry: registry,
		samplers: samplers,
		interval: opts.Interval,
		tel:      opts.Telemetry,
		logger:   opts.Logger,
	}

	for _, smp := range samplers {
		for _, d := range smp.Describe() {
			if err := registry.Register(d); err != nil {
				return nil, fmt.Errorf("sampler %s: %w", smp.Name(), err)
			}
		}
		s.logger.Info("registered sampler", "sampler", smp.Name(), "metrics", len(smp.Describe()))
	}

	if opts.ExposeErrors {
		s.errorCounters = make(map[string]string, len(samplers))
		for _, smp := range samplers {
			name := ErrorCounterName(smp.Name())
			d := metric.Counter(name, fmt.Sprintf("Total failed collections of the %s sampler", smp.Name()))
			if err := registry.Register(d); err != nil {
				return nil, fmt.Errorf("sampler %s: %w", smp.Name(), err)
			}
			s.errorCounters[smp.Name()] = name
		}
	}

	return s, nil
}

// ErrorCounterName returns the name of the error counter for a sampler.
func ErrorCounterName(sampler string) string {
	return "hostbox_collector_" + sampler + "_errors_total"
}

// Interval returns the collection period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run collects immediately and then once per interval until ctx is done.
//
// Cycles run on the calling goroutine, so at most one is in flight. Ticks
// that arrive while a cycle is running are dropped, not queued.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("starting scheduler", "interval", s.interval, "samplers", len(s.samplers))

	s.RunCycle(ctx)
	s.dropPendingTick(ticker)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler shutdown complete")
			return nil
		case <-ticker.C:
			s.RunCycle(ctx)
			s.dropPendingTick(ticker)
		}
	}
}

func (s *Scheduler) dropPendingTick(ticker *time.Ticker) {
	select {
	case <-ticker.C:
		s.logger.Warn("collection cycle exceeded interval, skipping tick", "interval", s.interval)
		if s.tel != nil {
			s.tel.TicksSkipped.Inc()
		}
	default:
	}
}

// RunCycle collects every sampler once. Samplers run concurrently and each
// applies its own batch as soon as it finishes.
func (s *Scheduler) RunCycle(ctx context.Context) {
	start := time.Now()

	var wg sync.WaitGroup
	for _, smp := range s.samplers {
		wg.Go(func() {
			s.collect(ctx, smp)
		})
	}
	wg.Wait()

	elapsed := time.Since(start)
	if s.tel != nil {
		s.tel.CyclesTotal.Inc()
		s.tel.CycleDuration.Observe(elapsed.Seconds())
	}
	s.logger.Debug("collection cycle complete", "duration", elapsed)
}

// collect runs one sampler. Failures keep the previously published values.
func (s *Scheduler) collect(ctx context.Context, smp sampler.Sampler) {
	start := time.Now()
	updates, err := smp.Collect(ctx)
	if s.tel != nil {
		s.tel.SamplerDuration.WithLabelValues(smp.Name()).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		s.fail(smp, err)
		return
	}

	if err := s.registry.Apply(updates); err != nil {
		s.fail(smp, err)
		return
	}

	s.logger.Debug("collected", "sampler", smp.Name(), "updates", len(updates))
}

func (s *Scheduler) fail(smp sampler.Sampler, err error) {
	kind := "apply"
	var ce *sampler.CollectionError
	if errors.As(err, &ce) {
		kind = ce.Kind.String()
	}

	s.logger.Warn("sampler collection failed", "sampler", smp.Name(), "kind", kind, "error", err)

	if s.tel != nil {
		s.tel.SamplerFailures.WithLabelValues(smp.Name(), kind).Inc()
	}

	if name, ok := s.errorCounters[smp.Name()]; ok {
		if err := s.registry.IncrementCounter(name, 1); err != nil {
			s.logger.Error("failed to record collector error", "sampler", smp.Name(), "error", err)
		}
	}
}
