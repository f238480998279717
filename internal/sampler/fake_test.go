package sampler

import (
	"context"
	"time"
	"unicode"

	"github.com/neox5/hostbox/internal/metric"
	"github.com/neox5/hostbox/internal/probe"
)

type fakeCPU struct {
	times []probe.CPUTimes
	info  probe.CPUInfo
	load  probe.LoadAvg
	err   error
	calls int
}

func (f *fakeCPU) CPUTimes(context.Context) (probe.CPUTimes, error) {
	if f.err != nil {
		return probe.CPUTimes{}, f.err
	}
	t := f.times[min(f.calls, len(f.times)-1)]
	f.calls++
	return t, nil
}

func (f *fakeCPU) CPUInfo(context.Context) (probe.CPUInfo, error) { return f.info, nil }
func (f *fakeCPU) LoadAvg(context.Context) (probe.LoadAvg, error) { return f.load, nil }

type fakeMemory struct {
	mem probe.Memory
	err error
}

func (f *fakeMemory) Memory(context.Context) (probe.Memory, error) { return f.mem, f.err }

type fakeDisk struct {
	usage probe.DiskUsage
	io    []map[string]probe.DiskIO
	path  string
	calls int
}

func (f *fakeDisk) DiskUsage(_ context.Context, path string) (probe.DiskUsage, error) {
	f.path = path
	return f.usage, nil
}

func (f *fakeDisk) DiskIO(context.Context) (map[string]probe.DiskIO, error) {
	io := f.io[min(f.calls, len(f.io)-1)]
	f.calls++
	return io, nil
}

// newTestDisk builds a disk sampler whose whole disks are the names without
// a trailing partition number.
func newTestDisk(f *fakeDisk, mountPoint string) *Disk {
	d := NewDisk(f, mountPoint)
	d.wholeDisk = func(name string) bool {
		return name != "" && !unicode.IsDigit(rune(name[len(name)-1]))
	}
	return d
}

type fakeNet struct {
	io    []map[string]probe.NetIO
	calls int
}

func (f *fakeNet) NetIO(context.Context) (map[string]probe.NetIO, error) {
	io := f.io[min(f.calls, len(f.io)-1)]
	f.calls++
	return io, nil
}

type fakeSystem struct {
	load   probe.LoadAvg
	uptime uint64
	procs  int
	err    error
}

func (f *fakeSystem) LoadAvg(context.Context) (probe.LoadAvg, error) { return f.load, f.err }
func (f *fakeSystem) Uptime(context.Context) (uint64, error)         { return f.uptime, nil }
func (f *fakeSystem) ProcessCount(context.Context) (int, error)      { return f.procs, nil }

// stepClock advances by step on every call.
func stepClock(start time.Time, step time.Duration) Clock {
	cur := start.Add(-step)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

// poll registers s into a fresh registry and applies n collections.
func poll(s Sampler, n int) (*metric.Registry, error) {
	r := metric.New()
	r.MustRegister(s.Describe()...)
	for range n {
		updates, err := s.Collect(context.Background())
		if err != nil {
			return r, err
		}
		if err := r.Apply(updates); err != nil {
			return r, err
		}
	}
	return r, nil
}

func value(r *metric.Registry, name string) float64 {
	s, ok := r.Snapshot().Lookup(name)
	if !ok {
		panic("missing metric " + name)
	}
	return s.Value
}
