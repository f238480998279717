package sampler

import (
	"context"

	"github.com/neox5/hostbox/internal/metric"
	"github.com/neox5/hostbox/internal/probe"
)

// System reports load averages, uptime and process count.
type System struct {
	reader probe.SystemReader
}

// NewSystem creates a system sampler.
func NewSystem(reader probe.SystemReader) *System {
	return &System{reader: reader}
}

// Name returns "system".
func (s *System) Name() string { return "system" }

// Describe returns the load, uptime and process gauges.
func (s *System) Describe() []metric.Descriptor {
	return []metric.Descriptor{
		metric.Gauge("load_average_1min", "System load average over 1 minute"),
		metric.Gauge("load_average_5min", "System load average over 5 minutes"),
		metric.Gauge("load_average_15min", "System load average over 15 minutes"),
		metric.Gauge("uptime_seconds", "System uptime in seconds"),
		metric.Gauge("process_count", "Number of running processes"),
	}
}

// Collect reads load averages, uptime and the process count.
func (s *System) Collect(ctx context.Context) ([]metric.Update, error) {
	avg, err := s.reader.LoadAvg(ctx)
	if err != nil {
		return nil, classify(s.Name(), err)
	}
	uptime, err := s.reader.Uptime(ctx)
	if err != nil {
		return nil, classify(s.Name(), err)
	}
	procs, err := s.reader.ProcessCount(ctx)
	if err != nil {
		return nil, classify(s.Name(), err)
	}

	return []metric.Update{
		metric.Set("load_average_1min", avg.Load1),
		metric.Set("load_average_5min", avg.Load5),
		metric.Set("load_average_15min", avg.Load15),
		metric.Set("uptime_seconds", float64(uptime)),
		metric.Set("process_count", float64(procs)),
	}, nil
}
