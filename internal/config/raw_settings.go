package config

import "time"

// RawInternalMetricsConfig controls hostbox's self-monitoring endpoint.
type RawInternalMetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// RawLogConfig controls log output.
type RawLogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RawMonitorConfig controls the periodic self resource log line.
type RawMonitorConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}
