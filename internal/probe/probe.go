// Package probe reads raw resource state from the host.
//
// Readings are plain values; computing deltas, rates and percentages is left
// to the samplers.
package probe

import (
	"context"
	"fmt"
)

// CPUTimes holds cumulative CPU time in seconds, summed over all cores.
type CPUTimes struct {
	User    float64
	Nice    float64
	System  float64
	Idle    float64
	Iowait  float64
	Irq     float64
	Softirq float64
	Steal   float64
}

// Total returns the sum of all modes.
func (t CPUTimes) Total() float64 {
	return t.User + t.Nice + t.System + t.Idle + t.Iowait + t.Irq + t.Softirq + t.Steal
}

// CPUInfo describes the processor.
type CPUInfo struct {
	Cores        int
	FrequencyMHz float64
}

// LoadAvg holds the system load averages.
type LoadAvg struct {
	Load1  float64
	Load5  float64
	Load15 float64
}

// Memory holds instantaneous memory totals in bytes.
type Memory struct {
	Total       uint64
	Used        uint64
	Available   uint64
	UsedPercent float64
}

// DiskUsage holds filesystem space figures for one mount point.
type DiskUsage struct {
	Path        string
	Total       uint64
	Used        uint64
	Free        uint64
	UsedPercent float64
	InodesTotal uint64
	InodesUsed  uint64
}

// DiskIO holds cumulative I/O counters of one block device.
type DiskIO struct {
	ReadCount  uint64
	WriteCount uint64
	ReadBytes  uint64
	WriteBytes uint64
}

// NetIO holds cumulative counters of one network interface.
type NetIO struct {
	BytesRecv   uint64
	BytesSent   uint64
	PacketsRecv uint64
	PacketsSent uint64
	ErrIn       uint64
	ErrOut      uint64
}

// CPUReader reads processor state.
type CPUReader interface {
	CPUTimes(ctx context.Context) (CPUTimes, error)
	CPUInfo(ctx context.Context) (CPUInfo, error)
	LoadAvg(ctx context.Context) (LoadAvg, error)
}

// MemoryReader reads memory totals.
type MemoryReader interface {
	Memory(ctx context.Context) (Memory, error)
}

// DiskReader reads filesystem usage and block device counters.
type DiskReader interface {
	DiskUsage(ctx context.Context, path string) (DiskUsage, error)
	DiskIO(ctx context.Context) (map[string]DiskIO, error)
}

// NetReader reads per-interface counters.
type NetReader interface {
	NetIO(ctx context.Context) (map[string]NetIO, error)
}

// SystemReader reads load, uptime and process count.
type SystemReader interface {
	LoadAvg(ctx context.Context) (LoadAvg, error)
	Uptime(ctx context.Context) (uint64, error)
	ProcessCount(ctx context.Context) (int, error)
}

// ParseError reports malformed data returned by the operating system.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
