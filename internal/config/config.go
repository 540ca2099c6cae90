package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the CLI preferences file
type Config struct {
	// Default output format (text, json, ndjson, table, yaml)
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Default color mode (auto, always, never)
	Color string `json:"color,omitempty" yaml:"color,omitempty"`

	// User whose jobs `qsu jobs` reports when --user is not given
	User string `json:"user,omitempty" yaml:"user,omitempty"`

	// Status and control command binaries (looked up on PATH by default)
	QstatBin  string `json:"qstat_bin,omitempty" yaml:"qstat_bin,omitempty"`
	QalterBin string `json:"qalter_bin,omitempty" yaml:"qalter_bin,omitempty"`

	// Queue alias file; see QueuesSearchPath for the lookup order
	QueuesFile string `json:"queues_file,omitempty" yaml:"queues_file,omitempty"`

	// Per-command timeout as a Go duration ("30s"); empty means no timeout
	CommandTimeout string `json:"command_timeout,omitempty" yaml:"command_timeout,omitempty"`
}

// Keys lists the settable preference keys in display order.
var Keys = []string{"output", "color", "user", "qstat_bin", "qalter_bin", "queues_file", "command_timeout"}

// configPathFunc is the function used to get the default config path
// It can be overridden for testing
var configPathFunc = defaultConfigPath

// SetConfigPathFunc sets the config path function for testing.
// Returns the original function so it can be restored.
func SetConfigPathFunc(fn func() (string, error)) func() (string, error) {
	orig := configPathFunc
	configPathFunc = fn
	return orig
}

// Dir returns ~/.config/qsutils
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qsutils"), nil
}

func defaultConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultConfigPath returns ~/.config/qsutils/config.yaml
func DefaultConfigPath() (string, error) {
	return configPathFunc()
}

// Load loads config from the default path, returns empty config if not found
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return &Config{}, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	if _, err := cfg.Timeout(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	return &cfg, nil
}

// Save saves config to the default path
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveToPath(path)
}

// SaveToPath saves config to a specific path
func (c *Config) SaveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// GetOutput returns the effective output format (config default or empty)
func (c *Config) GetOutput() string {
	return c.Output
}

// GetColor returns the effective color mode (config default or empty)
func (c *Config) GetColor() string {
	return c.Color
}

// Qstat returns the status command to run.
func (c *Config) Qstat() string {
	if strings.TrimSpace(c.QstatBin) != "" {
		return c.QstatBin
	}
	return "qstat"
}

// Qalter returns the control command to run.
func (c *Config) Qalter() string {
	if strings.TrimSpace(c.QalterBin) != "" {
		return c.QalterBin
	}
	return "qalter"
}

// Timeout parses CommandTimeout. Zero means commands may run indefinitely.
func (c *Config) Timeout() (time.Duration, error) {
	raw := strings.TrimSpace(c.CommandTimeout)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("command_timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("command_timeout: must not be negative")
	}
	return d, nil
}

// Get returns the value stored under key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "output":
		return c.Output, nil
	case "color":
		return c.Color, nil
	case "user":
		return c.User, nil
	case "qstat_bin":
		return c.QstatBin, nil
	case "qalter_bin":
		return c.QalterBin, nil
	case "queues_file":
		return c.QueuesFile, nil
	case "command_timeout":
		return c.CommandTimeout, nil
	default:
		return "", unknownKeyError(key)
	}
}

// Set stores value under key. Values are not validated beyond
// command_timeout; callers check formats they understand.
func (c *Config) Set(key, value string) error {
	switch key {
	case "output":
		c.Output = value
	case "color":
		c.Color = value
	case "user":
		c.User = value
	case "qstat_bin":
		c.QstatBin = value
	case "qalter_bin":
		c.QalterBin = value
	case "queues_file":
		c.QueuesFile = value
	case "command_timeout":
		prev := c.CommandTimeout
		c.CommandTimeout = value
		if _, err := c.Timeout(); err != nil {
			c.CommandTimeout = prev
			return err
		}
	default:
		return unknownKeyError(key)
	}
	return nil
}

func unknownKeyError(key string) error {
	keys := append([]string(nil), Keys...)
	sort.Strings(keys)
	return fmt.Errorf("unknown config key %q\n\nSupported keys: %s", key, strings.Join(keys, ", "))
}
