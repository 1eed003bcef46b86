// Package config loads and persists the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// CalcWorkers bounds concurrent chart calculations; 0 means one per CPU.
	CalcWorkers int `yaml:"calc_workers"`
	// SearchWorkers sizes the search pool; 0 means one per hardware thread.
	SearchWorkers int `yaml:"search_workers"`
	// ReportFormat is the default report encoding: json, yaml or summary.
	ReportFormat string `yaml:"report_format"`
	// SearchMode is the default pattern mode: fixed, wildcard or regex.
	SearchMode string `yaml:"search_mode"`
	// LastRoot remembers the previously scanned directory for the TUI.
	LastRoot string `yaml:"last_root,omitempty"`
}

// GetDefault returns the default configuration.
func GetDefault() *Config {
	return &Config{
		CalcWorkers:   0,
		SearchWorkers: 0,
		ReportFormat:  "json",
		SearchMode:    "fixed",
	}
}

// Load loads configuration from a file, falling back to defaults when the
// file does not exist.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Save saves configuration to a file.
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.CalcWorkers < 0 {
		return fmt.Errorf("calc_workers must be >= 0")
	}
	if c.SearchWorkers < 0 {
		return fmt.Errorf("search_workers must be >= 0")
	}

	switch c.ReportFormat {
	case "", "json", "yaml", "summary":
	default:
		return fmt.Errorf("unknown report format: %s", c.ReportFormat)
	}

	switch c.SearchMode {
	case "", "fixed", "wildcard", "regex":
	default:
		return fmt.Errorf("unknown search mode: %s", c.SearchMode)
	}

	return nil
}

// GetConfigPath returns the default config path.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".config", "dirage")
	return filepath.Join(configDir, "config.yaml"), nil
}

// EnsureConfigExists creates a default config file if it doesn't exist.
func EnsureConfigExists() (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(GetDefault(), configPath); err != nil {
			return "", err
		}
	}

	return configPath, nil
}
