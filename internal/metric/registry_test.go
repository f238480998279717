package metric

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterDuplicate(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(Gauge("cpu_usage_percent", "x")))

	err := r.Register(Counter("cpu_usage_percent", "y"))
	require.ErrorIs(t, err, ErrDuplicateMetric)
	require.Equal(t, 1, r.Len())
}

func TestRegisterInvalidDescriptor(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
	}{
		{"bad name", Gauge("0bad", "x")},
		{"empty name", Gauge("", "x")},
		{"gauge with buckets", Descriptor{Name: "g", Kind: KindGauge, Buckets: []float64{1}}},
		{"histogram without buckets", Histogram("h", "x")},
		{"descending buckets", Histogram("h", "x", 10, 5)},
		{"duplicate buckets", Histogram("h", "x", 1, 1)},
		{"infinite bucket", Histogram("h", "x", 1, math.Inf(1))},
		{"nan bucket", Histogram("h", "x", math.NaN())},
		{"unknown kind", Descriptor{Name: "s", Kind: "summary"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			require.ErrorIs(t, r.Register(tt.desc), ErrInvalidDescriptor)
			require.Zero(t, r.Len())
		})
	}
}

func TestMustRegisterPanics(t *testing.T) {
	r := New()
	require.Panics(t, func() {
		r.MustRegister(Gauge("a", "x"), Gauge("a", "x"))
	})
}

func TestUpdateErrors(t *testing.T) {
	r := New()
	r.MustRegister(
		Gauge("g", "gauge"),
		Counter("c", "counter"),
		Histogram("h", "histogram", 1),
	)

	require.ErrorIs(t, r.SetGauge("missing", 1), ErrUnknownMetric)
	require.ErrorIs(t, r.SetGauge("c", 1), ErrTypeMismatch)
	require.ErrorIs(t, r.IncrementCounter("g", 1), ErrTypeMismatch)
	require.ErrorIs(t, r.IncrementCounter("missing", 1), ErrUnknownMetric)
	require.ErrorIs(t, r.IncrementCounter("c", -1), ErrInvalidDelta)
	require.ErrorIs(t, r.IncrementCounter("c", math.NaN()), ErrInvalidDelta)
	require.ErrorIs(t, r.ObserveHistogram("g", 1), ErrTypeMismatch)
	require.ErrorIs(t, r.ObserveHistogram("missing", 1), ErrUnknownMetric)

	c, ok := r.Snapshot().Lookup("c")
	require.True(t, ok)
	require.Zero(t, c.Value)
}

func TestNonFiniteValuesRejected(t *testing.T) {
	r := New()
	r.MustRegister(
		Counter("c", "counter"),
		Histogram("h", "histogram", 1, 2),
	)

	require.NoError(t, r.ObserveHistogram("h", 1))
	require.ErrorIs(t, r.ObserveHistogram("h", math.NaN()), ErrInvalidObservation)
	require.ErrorIs(t, r.ObserveHistogram("h", math.Inf(1)), ErrInvalidObservation)
	require.ErrorIs(t, r.ObserveHistogram("h", math.Inf(-1)), ErrInvalidObservation)
	require.NoError(t, r.ObserveHistogram("h", 2))

	h, _ := r.Snapshot().Lookup("h")
	require.Equal(t, []uint64{1, 2, 2}, h.Histogram.Counts)
	require.Equal(t, uint64(2), h.Histogram.Count)
	require.Equal(t, 3.0, h.Histogram.Sum)

	require.ErrorIs(t, r.IncrementCounter("c", math.Inf(1)), ErrInvalidDelta)
	c, _ := r.Snapshot().Lookup("c")
	require.Zero(t, c.Value)
}

func TestCounterAccumulates(t *testing.T) {
	r := New()
	r.MustRegister(Counter("requests_total", "x"))

	deltas := []float64{3, 4, 0, 0.5, 12}
	var want, last float64
	for _, d := range deltas {
		require.NoError(t, r.IncrementCounter("requests_total", d))
		want += d

		s, _ := r.Snapshot().Lookup("requests_total")
		require.Equal(t, want, s.Value)
		require.GreaterOrEqual(t, s.Value, last)
		last = s.Value
	}
}

func TestHistogramObserve(t *testing.T) {
	r := New()
	r.MustRegister(Histogram("latency", "x", 10, 25, 50))

	for _, v := range []float64{5, 22, 10, 50, 51, -3} {
		require.NoError(t, r.ObserveHistogram("latency", v))
	}

	s, ok := r.Snapshot().Lookup("latency")
	require.True(t, ok)
	// -3, 5, 10 <= 10; 22 <= 25; 50 <= 50; 51 only in +Inf
	require.Equal(t, []uint64{3, 4, 5, 6}, s.Histogram.Counts)
	require.Equal(t, uint64(6), s.Histogram.Count)
	require.InDelta(t, 135.0, s.Histogram.Sum, 1e-9)

	for i := 1; i < len(s.Histogram.Counts); i++ {
		require.GreaterOrEqual(t, s.Histogram.Counts[i], s.Histogram.Counts[i-1])
	}
	require.Equal(t, s.Histogram.Count, s.Histogram.Counts[len(s.Histogram.Counts)-1])
}

func TestApplyRejectsWholeBatch(t *testing.T) {
	r := New()
	r.MustRegister(Gauge("g", "x"), Counter("c", "x"))

	err := r.Apply([]Update{
		Set("g", 1),
		Add("c", 2),
		Add("c", -1),
	})
	require.ErrorIs(t, err, ErrInvalidDelta)

	snap := r.Snapshot()
	g, _ := snap.Lookup("g")
	c, _ := snap.Lookup("c")
	require.Zero(t, g.Value)
	require.Zero(t, c.Value)
}

func TestSnapshotOrderAndIsolation(t *testing.T) {
	r := New()
	r.MustRegister(Gauge("b", "x"), Gauge("a", "x"), Histogram("h", "x", 1))
	require.NoError(t, r.ObserveHistogram("h", 0.5))

	snap := r.Snapshot()
	names := make([]string, 0, snap.Len())
	for _, s := range snap.Samples() {
		names = append(names, s.Name)
	}
	require.Equal(t, []string{"b", "a", "h"}, names)

	require.NoError(t, r.SetGauge("b", 9))
	require.NoError(t, r.ObserveHistogram("h", 0.5))

	b, _ := snap.Lookup("b")
	h, _ := snap.Lookup("h")
	require.Zero(t, b.Value)
	require.Equal(t, []uint64{1, 1}, h.Histogram.Counts)
}

func TestRegisterCopiesBuckets(t *testing.T) {
	buckets := []float64{1, 2}
	r := New()
	r.MustRegister(Histogram("h", "x", buckets...))
	buckets[0] = 100

	require.Equal(t, []float64{1, 2}, r.Descriptors()[0].Buckets)
}

func TestSnapshotBatchAtomicity(t *testing.T) {
	const metrics = 16
	r := New()
	var names []string
	for i := range metrics {
		name := "g_" + string(rune('a'+i))
		names = append(names, name)
		r.MustRegister(Gauge(name, "x"))
	}

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Go(func() {
		defer close(done)
		for cycle := 1; cycle <= 200; cycle++ {
			batch := make([]Update, 0, metrics)
			for _, n := range names {
				batch = append(batch, Set(n, float64(cycle)))
			}
			if err := r.Apply(batch); err != nil {
				t.Error(err)
				return
			}
		}
	})

	for range 4 {
		wg.Go(func() {
			for {
				select {
				case <-done:
					return
				default:
				}
				samples := r.Snapshot().Samples()
				for _, s := range samples[1:] {
					if s.Value != samples[0].Value {
						t.Errorf("partial batch visible: %s=%v, %s=%v",
							samples[0].Name, samples[0].Value, s.Name, s.Value)
						return
					}
				}
			}
		})
	}

	wg.Wait()
}
