package config

import (
	"slices"
	"strings"
	"time"

	"github.com/neox5/hostbox/internal/sampler"
)

// Resolve applies defaults to a raw config and validates the result
func Resolve(raw *RawConfig) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			BindAddress: raw.BindAddress,
			Port:        orDefault(raw.ListenPort, DefaultListenPort),
		},
		PollInterval:          time.Duration(orDefault(raw.PollIntervalSeconds, int(DefaultPollInterval/time.Second))) * time.Second,
		ExposeCollectorErrors: raw.ExposeCollectorErrors,
		Samplers:              resolveSamplers(raw.Samplers),
		Disk: DiskConfig{
			MountPoint: orDefault(raw.Disk.MountPoint, DefaultMountPoint),
		},
		InternalMetrics: InternalMetricsConfig{
			Enabled: raw.InternalMetrics.Enabled,
			Path:    orDefault(raw.InternalMetrics.Path, DefaultInternalPath),
		},
		Log: LogConfig{
			Level:  orDefault(normalize(raw.Log.Level), DefaultLogLevel),
			Format: orDefault(normalize(raw.Log.Format), DefaultLogFormat),
		},
		Monitor: MonitorConfig{
			Enabled:  raw.Monitor.Enabled,
			Interval: orDefault(raw.Monitor.Interval, DefaultMonitorPeriod),
		},
	}

	if raw.Export.OTEL != nil {
		cfg.Export.OTEL = resolveOTEL(raw.Export.OTEL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveSamplers normalises names and falls back to every known sampler
func resolveSamplers(names []string) []string {
	if len(names) == 0 {
		return slices.Clone(sampler.Names)
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = normalize(n)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
