package config

import (
	"fmt"
	"net"
	"slices"
	"strconv"
	"time"

	"github.com/neox5/hostbox/internal/sampler"
)

const (
	DefaultListenPort    = 9100
	DefaultBindAddress   = ""
	DefaultPollInterval  = 5 * time.Second
	DefaultMountPoint    = "/"
	DefaultInternalPath  = "/internal/metrics"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultMonitorPeriod = 30 * time.Second
)

// Config holds the complete, resolved application configuration.
type Config struct {
	Server                ServerConfig
	PollInterval          time.Duration
	ExposeCollectorErrors bool
	Samplers              []string
	Disk                  DiskConfig
	InternalMetrics       InternalMetricsConfig
	Export                ExportConfig
	Log                   LogConfig
	Monitor               MonitorConfig
}

// ServerConfig defines the scrape endpoint listener.
type ServerConfig struct {
	BindAddress string
	Port        int
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.BindAddress, strconv.Itoa(s.Port))
}

// DiskConfig selects the filesystem reported by the disk sampler.
type DiskConfig struct {
	MountPoint string
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg, err := Resolve(&RawConfig{})
	if err != nil {
		// Defaults are static and always valid
		panic(err)
	}
	return cfg
}

// Validate checks the resolved configuration. It runs again after command
// line overrides are applied.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid listen port: %d", c.Server.Port)
	}
	if !validBindAddress(c.Server.BindAddress) {
		return fmt.Errorf("invalid bind address: %q", c.Server.BindAddress)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if len(c.Samplers) == 0 {
		return fmt.Errorf("at least one sampler must be enabled")
	}
	for i, name := range c.Samplers {
		if !slices.Contains(sampler.Names, name) {
			return fmt.Errorf("unknown sampler: %s", name)
		}
		if slices.Contains(c.Samplers[:i], name) {
			return fmt.Errorf("sampler %s listed twice", name)
		}
	}

	if err := c.InternalMetrics.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Monitor.Validate(); err != nil {
		return err
	}
	return c.Export.Validate()
}

// validBindAddress accepts an empty address, an IP literal or a hostname.
func validBindAddress(addr string) bool {
	if addr == "" || net.ParseIP(addr) != nil {
		return true
	}
	for _, r := range addr {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
		default:
			return false
		}
	}
	return true
}
