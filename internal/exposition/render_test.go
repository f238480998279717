package exposition

import (
	"bytes"
	"math"
	"strconv"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/require"

	"github.com/neox5/hostbox/internal/metric"
)

func TestRenderGauge(t *testing.T) {
	r := metric.New()
	r.MustRegister(metric.Gauge("cpu_usage_percent", "x"))
	require.NoError(t, r.SetGauge("cpu_usage_percent", 42.5))

	want := "# HELP cpu_usage_percent x\n" +
		"# TYPE cpu_usage_percent gauge\n" +
		"cpu_usage_percent 42.5\n"
	require.Equal(t, want, string(Render(r.Snapshot())))
}

func TestRenderCounter(t *testing.T) {
	r := metric.New()
	r.MustRegister(metric.Counter("requests_total", "Requests served"))
	require.NoError(t, r.IncrementCounter("requests_total", 3))
	require.NoError(t, r.IncrementCounter("requests_total", 4))

	require.Contains(t, string(Render(r.Snapshot())), "\nrequests_total 7\n")
}

func TestRenderHistogram(t *testing.T) {
	r := metric.New()
	r.MustRegister(metric.Histogram("latency", "x", 10, 25, 50))
	require.NoError(t, r.ObserveHistogram("latency", 5))
	require.NoError(t, r.ObserveHistogram("latency", 22))

	want := "# HELP latency x\n" +
		"# TYPE latency histogram\n" +
		"latency_bucket{le=\"10\"} 1\n" +
		"latency_bucket{le=\"25\"} 2\n" +
		"latency_bucket{le=\"50\"} 2\n" +
		"latency_bucket{le=\"+Inf\"} 2\n" +
		"latency_sum 27\n" +
		"latency_count 2\n"
	require.Equal(t, want, string(Render(r.Snapshot())))
}

func TestRenderOrderAndEscaping(t *testing.T) {
	r := metric.New()
	r.MustRegister(
		metric.Gauge("zeta", "line one\nback\\slash"),
		metric.Counter("alpha_total", ""),
	)

	want := "# HELP zeta line one\\nback\\\\slash\n" +
		"# TYPE zeta gauge\n" +
		"zeta 0\n" +
		"# HELP alpha_total \n" +
		"# TYPE alpha_total counter\n" +
		"alpha_total 0\n"
	require.Equal(t, want, string(Render(r.Snapshot())))
}

func TestRenderEmpty(t *testing.T) {
	require.Empty(t, Render(metric.New().Snapshot()))
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{42.5, "42.5"},
		{0.1, "0.1"},
		{-3.25, "-3.25"},
		{1e21, "1000000000000000000000"},
		{1e-7, "0.0000001"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "+Inf"},
		{math.Inf(-1), "-Inf"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, FormatFloat(tt.in))
	}
}

func TestFormatFloatLossless(t *testing.T) {
	for _, v := range []float64{0.1 + 0.2, math.Pi, 1.0 / 3, 123456789.987654321, math.MaxFloat64, math.SmallestNonzeroFloat64} {
		parsed, err := strconv.ParseFloat(FormatFloat(v), 64)
		require.NoError(t, err)
		require.Equal(t, v, parsed)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	r := metric.New()
	r.MustRegister(
		metric.Gauge("memory_usage_percent", "Memory usage in percentage"),
		metric.Counter("disk_reads_total", "Total number of disk read operations since start"),
		metric.Histogram("cpu_load_distribution", "Distribution of CPU load measurements", 0, 10, 25, 50, 75, 90, 95, 99, 100),
	)
	require.NoError(t, r.Apply([]metric.Update{
		metric.Set("memory_usage_percent", 63.125),
		metric.Add("disk_reads_total", 1234),
		metric.Observe("cpu_load_distribution", 12),
		metric.Observe("cpu_load_distribution", 97.5),
		metric.Observe("cpu_load_distribution", 140),
	}))

	snap := r.Snapshot()
	parser := expfmt.NewTextParser(model.LegacyValidation)
	families, err := parser.TextToMetricFamilies(bytes.NewReader(Render(snap)))
	require.NoError(t, err)
	require.Len(t, families, snap.Len())

	for _, s := range snap.Samples() {
		mf, ok := families[s.Name]
		require.True(t, ok, "missing %s", s.Name)
		require.Equal(t, s.Help, mf.GetHelp())
		require.Len(t, mf.GetMetric(), 1)
		m := mf.GetMetric()[0]

		switch s.Kind {
		case metric.KindGauge:
			require.Equal(t, dto.MetricType_GAUGE, mf.GetType())
			require.Equal(t, s.Value, m.GetGauge().GetValue())
		case metric.KindCounter:
			require.Equal(t, dto.MetricType_COUNTER, mf.GetType())
			require.Equal(t, s.Value, m.GetCounter().GetValue())
		case metric.KindHistogram:
			require.Equal(t, dto.MetricType_HISTOGRAM, mf.GetType())
			h := m.GetHistogram()
			require.Equal(t, s.Histogram.Count, h.GetSampleCount())
			require.Equal(t, s.Histogram.Sum, h.GetSampleSum())

			buckets := make(map[float64]uint64)
			for _, b := range h.GetBucket() {
				buckets[b.GetUpperBound()] = b.GetCumulativeCount()
			}
			for i, bound := range s.Buckets {
				require.Equal(t, s.Histogram.Counts[i], buckets[bound], "bucket %v", bound)
			}
		}
	}
}
