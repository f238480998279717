package sampler

import (
	"context"
	"time"

	"github.com/neox5/hostbox/internal/metric"
	"github.com/neox5/hostbox/internal/probe"
)

// Network aggregates per-interface counters into host-wide totals and
// per-second rates.
//
// An interface seen for the first time only sets its baseline. An interface
// that disappears stops contributing and its state is dropped, so it
// re-baselines if it comes back.
type Network struct {
	reader probe.NetReader
	now    Clock

	last       time.Time
	interfaces map[string]*netState
}

type netState struct {
	bytesRecv, bytesSent     counterDelta
	packetsRecv, packetsSent counterDelta
	errIn, errOut            counterDelta
}

// netPair names the counter and rate gauge fed by one aggregated delta.
type netPair struct {
	counter string
	rate    string
	help    string
}

var netMetrics = [6]netPair{
	{"network_bytes_received_total", "network_bytes_received", "network bytes received"},
	{"network_bytes_transmitted_total", "network_bytes_transmitted", "network bytes transmitted"},
	{"network_packets_received_total", "network_packets_received", "network packets received"},
	{"network_packets_transmitted_total", "network_packets_transmitted", "network packets transmitted"},
	{"network_errors_received_total", "network_errors_received", "network errors received"},
	{"network_errors_transmitted_total", "network_errors_transmitted", "network errors transmitted"},
}

// NewNetwork creates a network sampler.
func NewNetwork(reader probe.NetReader, now Clock) *Network {
	if now == nil {
		now = time.Now
	}
	return &Network{
		reader:     reader,
		now:        now,
		interfaces: make(map[string]*netState),
	}
}

// Name returns "network".
func (n *Network) Name() string { return "network" }

// Describe returns a rate gauge and a counter for each network series.
func (n *Network) Describe() []metric.Descriptor {
	ds := make([]metric.Descriptor, 0, 2*len(netMetrics))
	for _, m := range netMetrics {
		ds = append(ds, metric.Gauge(m.rate, "Current "+m.help+" per second"))
	}
	for _, m := range netMetrics {
		ds = append(ds, metric.Counter(m.counter, "Total "+m.help+" since start"))
	}
	return ds
}

// Collect sums per-interface deltas. Rates need two polls.
func (n *Network) Collect(ctx context.Context) ([]metric.Update, error) {
	counters, err := n.reader.NetIO(ctx)
	if err != nil {
		return nil, classify(n.Name(), err)
	}
	now := n.now()

	var deltas [len(netMetrics)]uint64
	for name, cur := range counters {
		st, ok := n.interfaces[name]
		if !ok {
			st = &netState{}
			n.interfaces[name] = st
		}
		deltas[0] += deltaOf(&st.bytesRecv, cur.BytesRecv)
		deltas[1] += deltaOf(&st.bytesSent, cur.BytesSent)
		deltas[2] += deltaOf(&st.packetsRecv, cur.PacketsRecv)
		deltas[3] += deltaOf(&st.packetsSent, cur.PacketsSent)
		deltas[4] += deltaOf(&st.errIn, cur.ErrIn)
		deltas[5] += deltaOf(&st.errOut, cur.ErrOut)
	}
	for name := range n.interfaces {
		if _, ok := counters[name]; !ok {
			delete(n.interfaces, name)
		}
	}

	var elapsed float64
	if !n.last.IsZero() {
		elapsed = now.Sub(n.last).Seconds()
	}
	n.last = now

	updates := make([]metric.Update, 0, 2*len(netMetrics))
	for i, m := range netMetrics {
		updates = append(updates, metric.Add(m.counter, float64(deltas[i])))
		if elapsed > 0 {
			updates = append(updates, metric.Set(m.rate, float64(deltas[i])/elapsed))
		}
	}
	return updates, nil
}
