package sampler

import (
	"context"

	"github.com/neox5/hostbox/internal/metric"
	"github.com/neox5/hostbox/internal/probe"
)

const (
	cpuUsagePercent  = "cpu_usage_percent"
	cpuCoresTotal    = "cpu_cores_total"
	cpuFrequencyMHz  = "cpu_frequency_mhz"
	cpuUserSeconds   = "cpu_time_user_seconds_total"
	cpuSystemSeconds = "cpu_time_system_seconds_total"
	cpuIdleSeconds   = "cpu_time_idle_seconds_total"
	cpuLoadHistogram = "cpu_load_distribution"
)

// CPULoadBuckets are percentage bounds for the per-core load histogram.
var CPULoadBuckets = []float64{0, 10, 25, 50, 75, 90, 95, 99, 100}

// CPU reports utilisation, cumulative time per mode and load distribution.
type CPU struct {
	reader probe.CPUReader

	prev    probe.CPUTimes
	hasPrev bool
	user    floatDelta
	system  floatDelta
	idle    floatDelta
}

// NewCPU creates a CPU sampler.
func NewCPU(reader probe.CPUReader) *CPU {
	return &CPU{reader: reader}
}

// Name returns "cpu".
func (c *CPU) Name() string { return "cpu" }

// Describe returns the utilisation gauges, mode counters and load histogram.
func (c *CPU) Describe() []metric.Descriptor {
	return []metric.Descriptor{
		metric.Gauge(cpuUsagePercent, "Current CPU usage percentage"),
		metric.Gauge(cpuCoresTotal, "Total number of CPU cores"),
		metric.Gauge(cpuFrequencyMHz, "Current CPU frequency in MHz"),
		metric.Counter(cpuUserSeconds, "Total CPU time spent in user mode"),
		metric.Counter(cpuSystemSeconds, "Total CPU time spent in system mode"),
		metric.Counter(cpuIdleSeconds, "Total CPU time spent idle"),
		metric.Histogram(cpuLoadHistogram, "Distribution of CPU load measurements", CPULoadBuckets...),
	}
}

// Collect reads CPU times, core info and load. Usage is reported from the
// second poll on, once a time delta exists.
func (c *CPU) Collect(ctx context.Context) ([]metric.Update, error) {
	times, err := c.reader.CPUTimes(ctx)
	if err != nil {
		return nil, classify(c.Name(), err)
	}
	info, err := c.reader.CPUInfo(ctx)
	if err != nil {
		return nil, classify(c.Name(), err)
	}
	avg, err := c.reader.LoadAvg(ctx)
	if err != nil {
		return nil, classify(c.Name(), err)
	}

	updates := []metric.Update{
		metric.Set(cpuCoresTotal, float64(info.Cores)),
		metric.Set(cpuFrequencyMHz, info.FrequencyMHz),
	}

	if c.hasPrev {
		total := times.Total() - c.prev.Total()
		idle := times.Idle - c.prev.Idle
		if total > 0 {
			updates = append(updates, metric.Set(cpuUsagePercent, clampPercent((1-idle/total)*100)))
		}
	}
	c.prev, c.hasPrev = times, true

	// Mode counters start at the OS cumulative value, then follow clamped deltas
	for _, m := range []struct {
		name  string
		delta *floatDelta
		cur   float64
	}{
		{cpuUserSeconds, &c.user, times.User},
		{cpuSystemSeconds, &c.system, times.System},
		{cpuIdleSeconds, &c.idle, times.Idle},
	} {
		d, ok := m.delta.next(m.cur)
		if !ok {
			d = m.cur
		}
		updates = append(updates, metric.Add(m.name, d))
	}

	if info.Cores > 0 {
		updates = append(updates, metric.Observe(cpuLoadHistogram, avg.Load1/float64(info.Cores)*100))
	}

	return updates, nil
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
