// Package monitor periodically logs the daemon's own resource usage.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// Usage is one reading of the daemon's own footprint.
type Usage struct {
	CPUPercent  float64
	Utilization float64
	Cores       int
	RSSBytes    uint64
	OpenFDs     int32
	Goroutines  int
	HeapAlloc   uint64
	NumGC       uint32
}

// Saturation classifies utilization across all usable cores.
func (u Usage) Saturation() string {
	switch {
	case u.Utilization > 0.95:
		return "saturated"
	case u.Utilization > 0.80:
		return "high"
	default:
		return "normal"
	}
}

// Monitor tracks daemon resource usage.
type Monitor struct {
	interval time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
	proc     *process.Process
}

// New creates a monitor for the current process.
func New(interval time.Duration, logger *slog.Logger) (*Monitor, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("monitor interval must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to get process handle: %w", err)
	}

	return &Monitor{
		interval: interval,
		logger:   logger,
		proc:     proc,
	}, nil
}

// Run starts the monitoring loop in a background goroutine. The loop
// exits when ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.wg.Go(func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.collect(ctx)

		for {
			select {
			case <-ctx.Done():
				m.logger.Debug("monitor stopped")
				return
			case <-ticker.C:
				m.collect(ctx)
			}
		}
	})
}

// Wait blocks until the monitor goroutine exits.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

// Read takes one usage reading. Fields the OS refuses are left zero.
func (m *Monitor) Read(ctx context.Context) Usage {
	u := Usage{
		Cores:      runtime.GOMAXPROCS(-1),
		Goroutines: runtime.NumGoroutine(),
	}

	if pct, err := m.proc.CPUPercentWithContext(ctx); err == nil {
		u.CPUPercent = pct
		if u.Cores > 0 {
			u.Utilization = pct / float64(u.Cores*100)
		}
	} else {
		m.logger.Debug("failed to read process cpu", "error", err)
	}

	if mem, err := m.proc.MemoryInfoWithContext(ctx); err == nil {
		u.RSSBytes = mem.RSS
	} else {
		m.logger.Debug("failed to read process memory", "error", err)
	}

	if fds, err := m.proc.NumFDsWithContext(ctx); err == nil {
		u.OpenFDs = fds
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	u.HeapAlloc = ms.HeapAlloc
	u.NumGC = ms.NumGC

	return u
}

func (m *Monitor) collect(ctx context.Context) {
	u := m.Read(ctx)

	mb := func(b uint64) float64 {
		return float64(b) / (1024 * 1024)
	}

	m.logger.LogAttrs(
		ctx,
		slog.LevelInfo,
		"resource",
		slog.String("cpu", fmt.Sprintf("%.2f%%", u.CPUPercent)),
		slog.Int("cores", u.Cores),
		slog.Int("gor", u.Goroutines),
		slog.String("rss", fmt.Sprintf("%.2fMB", mb(u.RSSBytes))),
		slog.String("heap", fmt.Sprintf("%.2fMB", mb(u.HeapAlloc))),
		slog.Int("fds", int(u.OpenFDs)),
		slog.Uint64("gc", uint64(u.NumGC)),
		slog.String("sat", u.Saturation()),
	)

	if u.Saturation() == "saturated" {
		m.logger.Warn("cpu saturation detected",
			"cpu", u.CPUPercent,
			"util_pct", u.Utilization*100,
		)
	}
}
