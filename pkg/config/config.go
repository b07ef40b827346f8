// Package config provides configuration parsing and validation for gset.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gsettools/gset/pkg/constants"
)

// Config represents the .gset.yaml structure
type Config struct {
	SettingsFile string `yaml:"settings_file,omitempty"`
	JSONFile     string `yaml:"json_file,omitempty"`
	Color        string `yaml:"color,omitempty"`
	Backups      int    `yaml:"backups,omitempty"`
}

// ConfigFileName is the default name for the gset configuration file
const ConfigFileName = ".gset.yaml"

// DefaultBackups is how many backups per settings file are kept before
// garbage collection removes the oldest ones.
const DefaultBackups = 5

// LoadConfig loads the gset configuration from file
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = ConfigFileName
	}

	if !filepath.IsAbs(configPath) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		configPath = filepath.Join(cwd, configPath)
	}

	// Basic path validation to address gosec G304
	if strings.Contains(configPath, "..") {
		return nil, fmt.Errorf("invalid config path: %s", configPath)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- path is validated above
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Check for empty files
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("config file %s is empty", configPath)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return &config, nil
}

// LoadOrDefault loads the configuration from file, falling back to the
// default configuration when no config file exists.
func LoadOrDefault(configPath string) (*Config, error) {
	config, err := LoadConfig(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Backups < 0 {
		return fmt.Errorf("backups count cannot be negative: %d", c.Backups)
	}

	switch c.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color mode %q (valid: auto, always, never)", c.Color)
	}

	return nil
}

// applyDefaults fills unset fields with their default values.
func (c *Config) applyDefaults() {
	if c.SettingsFile == "" {
		c.SettingsFile = constants.SettingsFileName
	}
	if c.JSONFile == "" {
		c.JSONFile = constants.SettingsJSONName
	}
	if c.Color == "" {
		c.Color = "auto"
	}
	if c.Backups == 0 {
		c.Backups = DefaultBackups
	}
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		SettingsFile: constants.SettingsFileName,
		JSONFile:     constants.SettingsJSONName,
		Color:        "auto",
		Backups:      DefaultBackups,
	}
}
