package config

import "fmt"

// Validate performs syntactic validation on raw config
func Validate(raw *RawConfig) error {
	return validateRawSyntax(raw)
}

// validateRawSyntax rejects values that cannot be meaningfully defaulted
func validateRawSyntax(raw *RawConfig) error {
	if raw.ListenPort < 0 || raw.ListenPort > 65535 {
		return fmt.Errorf("invalid listen_port: %d", raw.ListenPort)
	}

	if raw.PollIntervalSeconds < 0 {
		return fmt.Errorf("poll_interval_seconds cannot be negative: %d", raw.PollIntervalSeconds)
	}

	for i, name := range raw.Samplers {
		if name == "" {
			return fmt.Errorf("sampler at index %d: name cannot be empty", i)
		}
	}

	if o := raw.Export.OTEL; o != nil {
		if o.Port < 0 || o.Port > 65535 {
			return fmt.Errorf("invalid export.otel.port: %d", o.Port)
		}
		if o.Interval < 0 {
			return fmt.Errorf("export.otel.interval cannot be negative")
		}
	}

	if raw.Monitor.Interval < 0 {
		return fmt.Errorf("monitor interval cannot be negative")
	}

	return nil
}
