package config

import "fmt"

// ConfigError represents an invalid or unreadable configuration file.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// LogSettings holds the logging configuration.
type LogSettings struct {
	Level      string `yaml:"level"`
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// PipelineSettings holds defaults for the pipeline-wide migration flags.
type PipelineSettings struct {
	MatchFields   string `yaml:"match_fields"`
	ExcludeFields string `yaml:"exclude_fields"`
}

// SpotifySettings holds the Spotify API credential fallback used when the
// spotify-reader flags are omitted.
type SpotifySettings struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// Config is the application configuration model.
type Config struct {
	Log      LogSettings      `yaml:"log"`
	Pipeline PipelineSettings `yaml:"pipeline"`
	Spotify  SpotifySettings  `yaml:"spotify"`
}

// SetDefaults fills in defaults for omitted settings.
func (c *Config) SetDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 30
	}
	if c.Pipeline.MatchFields == "" {
		c.Pipeline.MatchFields = "name,artist"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ConfigError{
			Message: fmt.Sprintf("Invalid log level: %s. Must be one of: debug, info, warn, error", c.Log.Level),
		}
	}
	return nil
}
