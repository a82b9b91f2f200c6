// Package config provides configuration for the matzip persistence layer.
//
// The surface is deliberately small: a database path and a build mode.
// There is no environment-variable lookup: the embedding application
// either loads a yaml file or constructs a Config directly.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the construction-time input of the persistence layer
type Config struct {
	Version  int            `yaml:"version"`
	Mode     Mode           `yaml:"mode"`
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig locates the store file
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Default returns the configuration for a new installation
func Default() *Config {
	return &Config{
		Version:  1,
		Mode:     ModeDebug,
		Database: DatabaseConfig{Path: "./matzip.db"},
	}
}

// LoadFromPath loads config from a yaml file
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Mode == "" {
		c.Mode = ModeDebug
	}
	c.Mode = ParseMode(string(c.Mode))
	if c.Database.Path == "" {
		c.Database.Path = "./matzip.db"
	}
}
