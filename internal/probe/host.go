package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// Host reads the local machine through gopsutil.
// It satisfies every reader interface in this package.
type Host struct{}

var (
	_ CPUReader    = Host{}
	_ MemoryReader = Host{}
	_ DiskReader   = Host{}
	_ NetReader    = Host{}
	_ SystemReader = Host{}
)

// CPUTimes returns CPU time summed over all cores.
func (Host) CPUTimes(ctx context.Context) (CPUTimes, error) {
	stats, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return CPUTimes{}, fmt.Errorf("read cpu times: %w", err)
	}
	if len(stats) == 0 {
		return CPUTimes{}, &ParseError{Source: "cpu times", Err: errors.New("no entries")}
	}

	s := stats[0]
	return CPUTimes{
		User:    s.User,
		Nice:    s.Nice,
		System:  s.System,
		Idle:    s.Idle,
		Iowait:  s.Iowait,
		Irq:     s.Irq,
		Softirq: s.Softirq,
		Steal:   s.Steal,
	}, nil
}

// CPUInfo returns the logical core count and the frequency of the first
// core. Frequency is reported as zero where the platform does not expose it.
func (Host) CPUInfo(ctx context.Context) (CPUInfo, error) {
	cores, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return CPUInfo{}, fmt.Errorf("read cpu count: %w", err)
	}

	info := CPUInfo{Cores: cores}

	stats, err := cpu.InfoWithContext(ctx)
	if err != nil {
		slog.Debug("cpu frequency unavailable", "error", err)
		return info, nil
	}
	if len(stats) > 0 {
		info.FrequencyMHz = stats[0].Mhz
	}
	return info, nil
}

// LoadAvg returns the 1, 5 and 15 minute load averages.
func (Host) LoadAvg(ctx context.Context) (LoadAvg, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return LoadAvg{}, fmt.Errorf("read load average: %w", err)
	}
	return LoadAvg{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}, nil
}

// Memory returns virtual memory totals.
func (Host) Memory(ctx context.Context) (Memory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Memory{}, fmt.Errorf("read virtual memory: %w", err)
	}
	return Memory{
		Total:       vm.Total,
		Used:        vm.Used,
		Available:   vm.Available,
		UsedPercent: vm.UsedPercent,
	}, nil
}

// DiskUsage returns space and inode usage of the filesystem mounted at path.
func (Host) DiskUsage(ctx context.Context, path string) (DiskUsage, error) {
	u, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return DiskUsage{}, fmt.Errorf("read disk usage of %s: %w", path, err)
	}
	return DiskUsage{
		Path:        u.Path,
		Total:       u.Total,
		Used:        u.Used,
		Free:        u.Free,
		UsedPercent: u.UsedPercent,
		InodesTotal: u.InodesTotal,
		InodesUsed:  u.InodesUsed,
	}, nil
}

// DiskIO returns cumulative counters keyed by device name.
func (Host) DiskIO(ctx context.Context) (map[string]DiskIO, error) {
	stats, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("read disk io counters: %w", err)
	}

	out := make(map[string]DiskIO, len(stats))
	for name, s := range stats {
		out[name] = DiskIO{
			ReadCount:  s.ReadCount,
			WriteCount: s.WriteCount,
			ReadBytes:  s.ReadBytes,
			WriteBytes: s.WriteBytes,
		}
	}
	return out, nil
}

// NetIO returns cumulative counters keyed by interface name.
func (Host) NetIO(ctx context.Context) (map[string]NetIO, error) {
	stats, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("read network io counters: %w", err)
	}

	out := make(map[string]NetIO, len(stats))
	for _, s := range stats {
		out[s.Name] = NetIO{
			BytesRecv:   s.BytesRecv,
			BytesSent:   s.BytesSent,
			PacketsRecv: s.PacketsRecv,
			PacketsSent: s.PacketsSent,
			ErrIn:       s.Errin,
			ErrOut:      s.Errout,
		}
	}
	return out, nil
}

// Uptime returns seconds since boot.
func (Host) Uptime(ctx context.Context) (uint64, error) {
	up, err := host.UptimeWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("read uptime: %w", err)
	}
	return up, nil
}

// ProcessCount returns the number of processes on the host.
func (Host) ProcessCount(ctx context.Context) (int, error) {
	pids, err := process.PidsWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("list processes: %w", err)
	}
	return len(pids), nil
}
