package sampler

import (
	"context"

	"github.com/neox5/hostbox/internal/metric"
	"github.com/neox5/hostbox/internal/probe"
)

// DefaultMountPoint is the filesystem reported when none is configured.
const DefaultMountPoint = "/"

const (
	diskReads      = "disk_reads_total"
	diskWrites     = "disk_writes_total"
	diskReadBytes  = "disk_read_bytes_total"
	diskWriteBytes = "disk_write_bytes_total"
)

// Disk reports filesystem space for one mount point and I/O counters summed
// over whole physical disks. Partitions and virtual devices are skipped
// because their I/O is already counted on the backing disk.
type Disk struct {
	reader     probe.DiskReader
	mountPoint string
	wholeDisk  func(name string) bool

	devices map[string]*diskState
}

type diskState struct {
	reads, writes         counterDelta
	readBytes, writeBytes counterDelta
}

// NewDisk creates a disk sampler for mountPoint.
func NewDisk(reader probe.DiskReader, mountPoint string) *Disk {
	if mountPoint == "" {
		mountPoint = DefaultMountPoint
	}
	return &Disk{
		reader:     reader,
		mountPoint: mountPoint,
		wholeDisk:  physicalDisk,
		devices:    make(map[string]*diskState),
	}
}

func physicalDisk(name string) bool {
	return probe.WholeDisk(probe.SysBlock, name)
}

// Name returns "disk".
func (d *Disk) Name() string { return "disk" }

// Describe returns the space gauges and I/O counters.
func (d *Disk) Describe() []metric.Descriptor {
	return []metric.Descriptor{
		metric.Gauge("disk_usage_percent", "Disk usage percentage for the monitored filesystem"),
		metric.Gauge("disk_total_bytes", "Total disk space in bytes for the monitored filesystem"),
		metric.Gauge("disk_used_bytes", "Used disk space in bytes for the monitored filesystem"),
		metric.Gauge("disk_available_bytes", "Available disk space in bytes for the monitored filesystem"),
		metric.Gauge("disk_inodes_total", "Total number of inodes on the monitored filesystem"),
		metric.Gauge("disk_inodes_used", "Number of used inodes on the monitored filesystem"),
		metric.Counter(diskReads, "Total number of disk read operations since start"),
		metric.Counter(diskWrites, "Total number of disk write operations since start"),
		metric.Counter(diskReadBytes, "Total bytes read from disk since start"),
		metric.Counter(diskWriteBytes, "Total bytes written to disk since start"),
	}
}

// Collect reads filesystem usage and advances the per-device I/O deltas.
func (d *Disk) Collect(ctx context.Context) ([]metric.Update, error) {
	usage, err := d.reader.DiskUsage(ctx, d.mountPoint)
	if err != nil {
		return nil, classify(d.Name(), err)
	}
	io, err := d.reader.DiskIO(ctx)
	if err != nil {
		return nil, classify(d.Name(), err)
	}

	var reads, writes, readBytes, writeBytes uint64
	for name, cur := range io {
		if !d.wholeDisk(name) {
			continue
		}
		st, ok := d.devices[name]
		if !ok {
			st = &diskState{}
			d.devices[name] = st
		}
		reads += deltaOf(&st.reads, cur.ReadCount)
		writes += deltaOf(&st.writes, cur.WriteCount)
		readBytes += deltaOf(&st.readBytes, cur.ReadBytes)
		writeBytes += deltaOf(&st.writeBytes, cur.WriteBytes)
	}
	for name := range d.devices {
		if _, ok := io[name]; !ok {
			delete(d.devices, name)
		}
	}

	return []metric.Update{
		metric.Set("disk_usage_percent", usage.UsedPercent),
		metric.Set("disk_total_bytes", float64(usage.Total)),
		metric.Set("disk_used_bytes", float64(usage.Used)),
		metric.Set("disk_available_bytes", float64(usage.Free)),
		metric.Set("disk_inodes_total", float64(usage.InodesTotal)),
		metric.Set("disk_inodes_used", float64(usage.InodesUsed)),
		metric.Add(diskReads, float64(reads)),
		metric.Add(diskWrites, float64(writes)),
		metric.Add(diskReadBytes, float64(readBytes)),
		metric.Add(diskWriteBytes, float64(writeBytes)),
	}, nil
}

// deltaOf advances d and returns the clamped delta, zero on the baseline read.
func deltaOf(d *counterDelta, cur uint64) uint64 {
	v, _ := d.next(cur)
	return v
}
