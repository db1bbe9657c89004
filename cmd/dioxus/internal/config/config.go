// Package config loads the dioxus.yml project configuration.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the project root.
const FileName = "dioxus.yml"

// Config represents the dioxus.yml configuration.
type Config struct {
	// Formatter configuration
	Fmt *FmtConfig `yaml:"fmt,omitempty"`
}

// FmtConfig contains formatter-related configuration.
type FmtConfig struct {
	// Spaces per indentation level
	IndentWidth int `yaml:"indentWidth,omitempty"`

	// Glob patterns of paths to skip
	Exclude []string `yaml:"exclude,omitempty"`
}

// Load loads configuration from dioxus.yml in the given directory.
// A missing file yields the defaults.
func Load(projectPath string) (*Config, error) {
	configPath := filepath.Join(projectPath, FileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	return &config, nil
}

// Save writes the configuration to dioxus.yml in the given directory.
func Save(config *Config, projectPath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(projectPath, FileName), data, 0644)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Fmt: &FmtConfig{
			IndentWidth: 4,
		},
	}
}

// applyDefaults fills in defaults for missing values.
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.Fmt == nil {
		config.Fmt = defaults.Fmt
		return
	}
	if config.Fmt.IndentWidth <= 0 {
		config.Fmt.IndentWidth = defaults.Fmt.IndentWidth
	}
}
