// Package config loads interpreter settings from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete Sorrel configuration
type Config struct {
	// MaxRecursion bounds nested function calls before a RecursionError
	MaxRecursion int `yaml:"max_recursion"`
	// StrictAssignment makes assignment to an undefined name a NameError
	// instead of an implicit definition in the current scope
	StrictAssignment bool `yaml:"strict_assignment"`
	// Locale is a BCP 47 tag used by formatnum and formattime
	Locale string `yaml:"locale"`
}

// Defaults returns a Config with default values
func Defaults() *Config {
	return &Config{
		MaxRecursion: 1000,
		Locale:       "en",
	}
}

// defaultPaths are searched, in order, when no config path is given.
var defaultPaths = []string{"sorrel.yaml", ".sorrel.yaml"}

// Load reads configuration from a file. If configPath is empty, default
// locations are searched; when none exists, defaults are returned.
func Load(configPath string) (*Config, error) {
	path := configPath
	if path == "" {
		for _, candidate := range defaultPaths {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return Defaults(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings for values that cannot work.
func (c *Config) Validate() error {
	if c.MaxRecursion <= 0 {
		return fmt.Errorf("max_recursion must be positive, got %d", c.MaxRecursion)
	}
	return nil
}
