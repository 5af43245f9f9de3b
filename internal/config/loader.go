package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "AREACTL"

	// ConfigPathEnv names an explicit config file.
	ConfigPathEnv = "AREACTL_CONFIG_PATH"

	appName        = "areactl"
	configFileName = "config.yaml"
	localFileName  = "areactl.yaml"
)

// flagKeys maps root command flags onto config keys.
var flagKeys = map[string]string{
	"api-url":    "api.base_url",
	"timeout":    "api.timeout",
	"json":       "output.json",
	"log-format": "log.format",
}

// Loader handles configuration loading using Viper.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// BindFlags lets flags that were set on the command line override every other source.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	for flag, key := range flagKeys {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// Load resolves the config file location and loads the configuration.
// A missing config file is not an error; defaults apply.
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	path := os.Getenv(ConfigPathEnv)
	if path == "" {
		path = discover()
	}
	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	return l.unmarshal()
}

// LoadFromFile loads configuration from a specific file path.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.setDefaults()

	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so env overrides reach Unmarshal.
func (l *Loader) setDefaults() {
	d := DefaultConfig()
	l.v.SetDefault("api.base_url", d.API.BaseURL)
	l.v.SetDefault("api.timeout", d.API.Timeout)
	l.v.SetDefault("session.path", d.Session.Path)
	l.v.SetDefault("log.level", d.Log.Level)
	l.v.SetDefault("log.format", d.Log.Format)
	l.v.SetDefault("log.file", d.Log.File)
	l.v.SetDefault("output.json", d.Output.JSON)
	l.v.SetDefault("output.interactive", d.Output.Interactive)

	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	// Short aliases.
	_ = l.v.BindEnv("api.base_url", "AREACTL_API_BASE_URL", "AREACTL_API_URL")
	_ = l.v.BindEnv("log.level", "AREACTL_LOG_LEVEL", "AREACTL_LOG")
}

// discover returns the first existing config file, or "".
func discover() string {
	var candidates []string
	if p, err := DefaultConfigPath(); err == nil {
		candidates = append(candidates, p)
	}
	candidates = append(candidates, localFileName)

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// MustLoad loads configuration or panics.
func MustLoad() *Config {
	cfg, err := NewLoader().Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// ConfigDir returns the areactl directory inside the user config directory.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, appName), nil
}

// DefaultConfigPath returns the config file path inside [ConfigDir].
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// EnsureConfigDir creates [ConfigDir] if it does not exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}
