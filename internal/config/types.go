// Package config provides configuration loading and management for areactl.
//
// Configuration is loaded using Viper, supporting YAML config files and environment
// variable overrides. The defaults target a backend on localhost so the tool works
// out of the box against a development server.
//
// Key types:
//   - [Config] is the root configuration container with all settings
//   - [Loader] handles Viper-based configuration loading
//   - [APIConfig] locates the backend and bounds request time
//   - [LogConfig] selects the log level, encoding and optional log file
//
// Configuration priority (highest to lowest):
//  1. Command-line flags bound with [Loader.BindFlags]
//  2. Environment variables (AREACTL_ prefix, e.g. AREACTL_API_BASE_URL)
//  3. Config file specified by AREACTL_CONFIG_PATH
//  4. User config directory (platform-standard):
//     - Linux: ~/.config/areactl/config.yaml
//     - macOS: ~/Library/Application Support/areactl/config.yaml
//     - Windows: %APPDATA%\areactl\config.yaml
//  5. ./areactl.yaml
//  6. [DefaultConfig] defaults
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config represents the root configuration structure.
type Config struct {
	// API locates the backend.
	API APIConfig `mapstructure:"api"`

	// Session controls where credentials are stored between runs.
	Session SessionConfig `mapstructure:"session"`

	// Log configures the zap logger.
	Log LogConfig `mapstructure:"log"`

	// Output contains terminal output formatting configuration.
	Output OutputConfig `mapstructure:"output"`
}

// APIConfig locates the backend.
type APIConfig struct {
	// BaseURL is the backend root, e.g. "http://localhost:8080".
	// Can be overridden with the AREACTL_API_URL environment variable.
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds each request, connection and read included.
	// Default: 5s
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig controls credential storage.
type SessionConfig struct {
	// Path is the session file. Empty means <user config dir>/areactl/session.yaml.
	Path string `mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error". Default: "warn".
	Level string `mapstructure:"level"`

	// Format is "human" (colored console) or "json". Default: "human".
	Format string `mapstructure:"format"`

	// File, when set, receives a copy of every log line.
	File string `mapstructure:"file"`
}

// OutputConfig contains terminal output formatting configuration.
type OutputConfig struct {
	// JSON prints machine-readable results instead of styled text.
	JSON bool `mapstructure:"json"`

	// Interactive allows the full-screen wizard when stdin is a terminal.
	// Default: true
	Interactive bool `mapstructure:"interactive"`
}

// DefaultConfig returns a new [Config] with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "human",
		},
		Output: OutputConfig{
			Interactive: true,
		},
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: must be an http(s) URL", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return errors.New("api.timeout must not be negative")
	}
	switch c.Log.Format {
	case "human", "json":
	default:
		return fmt.Errorf("invalid log.format %q: must be human or json", c.Log.Format)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	return nil
}
