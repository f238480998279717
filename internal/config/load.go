package config

import "fmt"

// Load builds the configuration from path. An empty path yields the
// defaults. Flag overrides are applied by the caller, who must call
// Validate again afterwards.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg, err := Resolve(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}
