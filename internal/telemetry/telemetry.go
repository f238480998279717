// Package telemetry holds hostbox's own operational metrics on a private
// Prometheus registry, kept apart from the host metrics served on /metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "hostbox"

// Telemetry groups self-monitoring instruments.
type Telemetry struct {
	Registry *prometheus.Registry

	CyclesTotal     prometheus.Counter
	CycleDuration   prometheus.Histogram
	TicksSkipped    prometheus.Counter
	SamplerFailures *prometheus.CounterVec
	SamplerDuration *prometheus.HistogramVec

	ScrapesTotal   *prometheus.CounterVec
	ScrapeDuration *prometheus.HistogramVec
}

// New creates and registers all instruments, including Go runtime and
// process collectors.
func New() *Telemetry {
	t := &Telemetry{
		Registry: prometheus.NewRegistry(),

		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_cycles_total",
			Help:      "Total number of completed collection cycles",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "collection_cycle_duration_seconds",
			Help:      "Duration of collection cycles in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		TicksSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_ticks_skipped_total",
			Help:      "Ticks dropped because the previous cycle was still running",
		}),
		SamplerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sampler_failures_total",
			Help:      "Failed sampler collections by sampler and error kind",
		}, []string{"sampler", "kind"}),
		SamplerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sampler_duration_seconds",
			Help:      "Duration of sampler collections in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"sampler"}),

		ScrapesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrapes_total",
			Help:      "Total number of scrape requests by status code",
		}, []string{"code"}),
		ScrapeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scrape_duration_seconds",
			Help:      "Duration of scrape requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code"}),
	}

	t.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		t.CyclesTotal,
		t.CycleDuration,
		t.TicksSkipped,
		t.SamplerFailures,
		t.SamplerDuration,
		t.ScrapesTotal,
		t.ScrapeDuration,
	)

	return t
}
