package config

import (
	"fmt"
	"maps"
	"net"
	"strconv"
	"time"
)

const (
	DefaultOTELPushInterval = 10 * time.Second
	DefaultOTELTransport    = "grpc"
	DefaultOTELHost         = "localhost"
	DefaultOTELPortGRPC     = 4317
	DefaultOTELPortHTTP     = 4318
	DefaultServiceName      = "hostbox"
	DefaultServiceVersion   = "dev"
)

// ExportConfig defines optional push exporters. The scrape endpoint is
// always served.
type ExportConfig struct {
	OTEL *OTELExportConfig
}

// Validate checks enabled exporters.
func (e *ExportConfig) Validate() error {
	if e.OTEL == nil || !e.OTEL.Enabled {
		return nil
	}
	return e.OTEL.Validate()
}

// OTELExportConfig defines OTLP push settings.
type OTELExportConfig struct {
	Enabled   bool
	Transport string
	Host      string
	Port      int
	Interval  time.Duration
	Resource  map[string]string
	Headers   map[string]string
}

// resolveOTEL fills unset OTLP fields. The port default follows the
// transport.
func resolveOTEL(raw *RawOTELExportConfig) *OTELExportConfig {
	c := &OTELExportConfig{
		Enabled:   raw.Enabled,
		Transport: orDefault(normalize(raw.Transport), DefaultOTELTransport),
		Host:      orDefault(raw.Host, DefaultOTELHost),
		Port:      raw.Port,
		Interval:  orDefault(raw.Interval, DefaultOTELPushInterval),
		Resource:  maps.Clone(raw.Resource),
		Headers:   maps.Clone(raw.Headers),
	}

	if c.Port == 0 {
		c.Port = DefaultOTELPortGRPC
		if c.Transport == "http" {
			c.Port = DefaultOTELPortHTTP
		}
	}

	if c.Resource == nil {
		c.Resource = make(map[string]string, 2)
	}
	if _, ok := c.Resource["service.name"]; !ok {
		c.Resource["service.name"] = DefaultServiceName
	}
	if _, ok := c.Resource["service.version"]; !ok {
		c.Resource["service.version"] = DefaultServiceVersion
	}

	return c
}

// Validate checks a resolved OTLP configuration.
func (c *OTELExportConfig) Validate() error {
	switch c.Transport {
	case "grpc", "http":
	default:
		return fmt.Errorf("invalid otel transport: %s (must be grpc or http)", c.Transport)
	}
	if c.Host == "" {
		return fmt.Errorf("otel host cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid otel port: %d", c.Port)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("otel interval must be positive")
	}
	return nil
}

// GetEndpoint returns the collector address in host:port form.
func (c *OTELExportConfig) GetEndpoint() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
