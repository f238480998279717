package sampler

import (
	"context"

	"github.com/neox5/hostbox/internal/metric"
	"github.com/neox5/hostbox/internal/probe"
)

// Memory reports instantaneous memory totals.
type Memory struct {
	reader probe.MemoryReader
}

// NewMemory creates a memory sampler.
func NewMemory(reader probe.MemoryReader) *Memory {
	return &Memory{reader: reader}
}

// Name returns "memory".
func (m *Memory) Name() string { return "memory" }

// Describe returns the memory gauges.
func (m *Memory) Describe() []metric.Descriptor {
	return []metric.Descriptor{
		metric.Gauge("memory_usage_percent", "Memory usage in percentage"),
		metric.Gauge("memory_total_bytes", "Total memory in bytes"),
		metric.Gauge("memory_used_bytes", "Used memory in bytes"),
		metric.Gauge("memory_available_bytes", "Available memory in bytes"),
	}
}

// Collect reads virtual memory totals.
func (m *Memory) Collect(ctx context.Context) ([]metric.Update, error) {
	mem, err := m.reader.Memory(ctx)
	if err != nil {
		return nil, classify(m.Name(), err)
	}

	percent := mem.UsedPercent
	if percent == 0 && mem.Total > 0 {
		percent = float64(mem.Used) / float64(mem.Total) * 100
	}

	return []metric.Update{
		metric.Set("memory_usage_percent", percent),
		metric.Set("memory_total_bytes", float64(mem.Total)),
		metric.Set("memory_used_bytes", float64(mem.Used)),
		metric.Set("memory_available_bytes", float64(mem.Available)),
	}, nil
}
