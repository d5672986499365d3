package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	BackendURL    string `yaml:"backend_url,omitempty"`
	DefaultFormat string `yaml:"default_format,omitempty"`
	PageSize      int    `yaml:"page_size,omitempty"`

	// Retry policy for window requests
	MaxAttempts  int `yaml:"max_attempts,omitempty"`
	RetryDelayMS int `yaml:"retry_delay_ms,omitempty"`

	// Static presentation hints per field name; merged with inference
	NumericFields []string `yaml:"numeric_fields,omitempty"`
	DateFields    []string `yaml:"date_fields,omitempty"`
}

// Built-in defaults.
const (
	DefaultBackendURL  = "http://localhost:8080/api"
	DefaultPageSize    = 100
	DefaultMaxAttempts = 3
)

// DefaultNumericFields returns the field names presented as numbers.
// Numeric typing is allow-list driven, never sniffed from values.
func DefaultNumericFields() []string {
	return []string{"forks", "stars", "number", "commitCount", "pullRequestCount", "issueCount"}
}

// DefaultDateFields returns the field names always presented as dates.
func DefaultDateFields() []string {
	return []string{"createdAt", "updatedAt", "date"}
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".hubdeck"
	}
	return filepath.Join(configDir, "hubdeck")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".hubdeck.yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from the XDG config directory, then
// merges any local .hubdeck.yaml on top (local values take precedence).
func Load() (*Config, error) {
	cfg := defaults()

	globalPath := ConfigPath()
	if _, err := os.Stat(globalPath); err == nil {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read global config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse global config file: %w", err)
		}
	}

	localPath := LocalConfigPath()
	if _, err := os.Stat(localPath); err == nil {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local config file: %w", err)
		}

		var localCfg Config
		if err := yaml.Unmarshal(data, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to parse local config file: %w", err)
		}
		cfg = merge(cfg, &localCfg)
	}

	cfg.fillDefaults()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		BackendURL:    DefaultBackendURL,
		DefaultFormat: "table",
		PageSize:      DefaultPageSize,
		MaxAttempts:   DefaultMaxAttempts,
		RetryDelayMS:  int(time.Second / time.Millisecond),
		NumericFields: DefaultNumericFields(),
		DateFields:    DefaultDateFields(),
	}
}

// fillDefaults backstops fields the config files left zero.
func (c *Config) fillDefaults() {
	d := defaults()
	if c.BackendURL == "" {
		c.BackendURL = d.BackendURL
	}
	if c.DefaultFormat == "" {
		c.DefaultFormat = d.DefaultFormat
	}
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.RetryDelayMS <= 0 {
		c.RetryDelayMS = d.RetryDelayMS
	}
	if len(c.NumericFields) == 0 {
		c.NumericFields = d.NumericFields
	}
	if len(c.DateFields) == 0 {
		c.DateFields = d.DateFields
	}
}

// merge merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func merge(global, local *Config) *Config {
	result := *global

	if local.BackendURL != "" {
		result.BackendURL = local.BackendURL
	}
	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	}
	if local.PageSize > 0 {
		result.PageSize = local.PageSize
	}
	if local.MaxAttempts > 0 {
		result.MaxAttempts = local.MaxAttempts
	}
	if local.RetryDelayMS > 0 {
		result.RetryDelayMS = local.RetryDelayMS
	}
	if len(local.NumericFields) > 0 {
		result.NumericFields = local.NumericFields
	}
	if len(local.DateFields) > 0 {
		result.DateFields = local.DateFields
	}
	return &result
}

// GetBackendURL returns the backend base URL, preferring the
// HUBDECK_BACKEND_URL environment variable over the config file.
func (c *Config) GetBackendURL() string {
	if url := os.Getenv("HUBDECK_BACKEND_URL"); url != "" {
		return url
	}
	return c.BackendURL
}

// RetryDelay returns the base backoff delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	configDir := DefaultConfigDir()
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# hubdeck configuration file

# Dashboard backend base URL (HUBDECK_BACKEND_URL overrides this)
backend_url: ` + DefaultBackendURL + `

# Output format: table or json
default_format: table

# Rows per grid page
# page_size: 100

# Window request retry policy
# max_attempts: 3
# retry_delay_ms: 1000

# Fields always presented as numbers / dates
# numeric_fields: [forks, stars, number]
# date_fields: [createdAt, updatedAt, date]
`
}
