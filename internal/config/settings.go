package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// InternalMetricsConfig controls hostbox's self-monitoring endpoint.
type InternalMetricsConfig struct {
	Enabled bool
	Path    string
}

// Validate checks the internal metrics endpoint.
func (c *InternalMetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("internal metrics path must start with /: %q", c.Path)
	}
	if c.Path == "/metrics" || c.Path == "/health" {
		return fmt.Errorf("internal metrics path %q collides with a built-in route", c.Path)
	}
	return nil
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string
	Format string
}

// Validate checks level and format names.
func (c *LogConfig) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Format)
	}
}

// SlogLevel returns the configured level.
func (c *LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", c.Level)
	}
}

// MonitorConfig controls the periodic self resource log line.
type MonitorConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Validate checks the monitor interval.
func (c *MonitorConfig) Validate() error {
	if c.Enabled && c.Interval <= 0 {
		return fmt.Errorf("monitor interval must be positive")
	}
	return nil
}
