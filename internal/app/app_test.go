package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/neox5/hostbox/internal/config"
	"github.com/neox5/hostbox/internal/metric"
	"github.com/neox5/hostbox/internal/sampler"
)

type fixed struct{}

func (fixed) Name() string { return "fixed" }

func (fixed) Describe() []metric.Descriptor {
	return []metric.Descriptor{metric.Gauge("fixed_value", "A fixed value")}
}

func (fixed) Collect(context.Context) ([]metric.Update, error) {
	return []metric.Update{metric.Set("fixed_value", 3)}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.BindAddress = "127.0.0.1"
	cfg.Server.Port = freePort(t)
	cfg.PollInterval = 20 * time.Millisecond
	cfg.InternalMetrics.Enabled = true
	require.NoError(t, cfg.Validate())
	return cfg
}

func fetch(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		return 0, ""
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	return resp.StatusCode, buf.String()
}

func TestNewBuildsConfiguredSamplers(t *testing.T) {
	cfg := testConfig(t)
	cfg.Samplers = []string{"memory", "system"}
	cfg.ExposeCollectorErrors = true

	a, err := New(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	require.Nil(t, a.OTELExporter)
	require.Nil(t, a.Monitor)

	names := make(map[string]bool)
	for _, d := range a.Registry.Descriptors() {
		names[d.Name] = true
	}
	require.True(t, names["memory_total_bytes"])
	require.True(t, names["hostbox_collector_memory_errors_total"])
	require.True(t, names["hostbox_collector_system_errors_total"])
	require.False(t, names["cpu_usage_percent"])
}

func TestNewRejectsUnknownSampler(t *testing.T) {
	cfg := testConfig(t)
	cfg.Samplers = []string{"gpu"}

	_, err := New(context.Background(), cfg, quietLogger())
	require.Error(t, err)
}

func TestRunServesUntilCancelled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Monitor.Enabled = true
	cfg.Monitor.Interval = 10 * time.Millisecond

	a, err := build(context.Background(), cfg, []sampler.Sampler{fixed{}}, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	base := "http://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Server.Port))
	require.Eventually(t, func() bool {
		code, body := fetch(t, base+"/metrics")
		return code == http.StatusOK && strings.Contains(body, "fixed_value 3\n")
	}, 2*time.Second, 10*time.Millisecond)

	code, body := fetch(t, base+cfg.InternalMetrics.Path)
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "hostbox_collection_cycles_total")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRunFailsWhenPortTaken(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testConfig(t)
	cfg.Server.Port = ln.Addr().(*net.TCPAddr).Port

	a, err := build(context.Background(), cfg, []sampler.Sampler{fixed{}}, quietLogger())
	require.NoError(t, err)

	select {
	case err := <-runAsync(a):
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not report listener failure")
	}
}

func runAsync(a *App) <-chan error {
	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()
	return done
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = NewLogger(config.LogConfig{Level: "loud", Format: "text"}, &buf)
	require.Error(t, err)
}
