package config

import "time"

// RawExportConfig defines optional push exporters.
type RawExportConfig struct {
	OTEL *RawOTELExportConfig `yaml:"otel,omitempty"`
}

// RawOTELExportConfig defines OTEL push settings.
type RawOTELExportConfig struct {
	Enabled   bool              `yaml:"enabled"`
	Transport string            `yaml:"transport"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	Interval  time.Duration     `yaml:"interval"`
	Resource  map[string]string `yaml:"resource,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
}
