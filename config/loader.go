package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no config file is given.
const DefaultPath = "musicmanager.yaml"

// Load reads and validates the YAML configuration at path. A missing
// file at the default path yields the built-in defaults; a missing file
// at an explicitly given path is a ConfigError.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return nil, &ConfigError{Message: fmt.Sprintf("Config file not found: %s", path)}
		}
		cfg := &Config{}
		cfg.SetDefaults()
		return cfg, nil
	}
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("Failed to read config file %s: %v", path, err)}
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("Failed to parse config file %s: %v", path, err)}
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
