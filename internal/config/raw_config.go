package config

// RawConfig represents the unparsed YAML structure.
type RawConfig struct {
	ListenPort            int      `yaml:"listen_port"`
	BindAddress           string   `yaml:"bind_address"`
	PollIntervalSeconds   int      `yaml:"poll_interval_seconds"`
	ExposeCollectorErrors bool     `yaml:"expose_collector_errors"`
	Samplers              []string `yaml:"samplers,omitempty"`

	Disk            RawDiskConfig            `yaml:"disk"`
	InternalMetrics RawInternalMetricsConfig `yaml:"internal_metrics"`
	Export          RawExportConfig          `yaml:"export"`
	Log             RawLogConfig             `yaml:"log"`
	Monitor         RawMonitorConfig         `yaml:"monitor"`
}

// RawDiskConfig selects the filesystem reported by the disk sampler.
type RawDiskConfig struct {
	MountPoint string `yaml:"mount_point"`
}
