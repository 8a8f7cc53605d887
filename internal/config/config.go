// Package config parses the provider daemon's YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level providerd.yaml configuration.
type Config struct {
	// Listen is the TCP address the provider serves on (e.g. ":7311").
	Listen string `yaml:"listen"`

	// Guid enables guid operand support on this provider.
	Guid bool `yaml:"guid"`

	// CacheRequest enables cache-request operand support.
	CacheRequest bool `yaml:"cache_request"`

	// MaxInstructions bounds one execution's instruction budget.
	// 0 means the interpreter default.
	MaxInstructions int `yaml:"max_instructions,omitempty"`

	// TraceDB is a path to a SQLite database that records executions.
	// Empty disables tracing.
	TraceDB string `yaml:"trace_db,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Listen:       ":7311",
		Guid:         true,
		CacheRequest: true,
	}
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates configuration bytes.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("config: listen address must not be empty")
	}
	if c.MaxInstructions < 0 {
		return fmt.Errorf("config: max_instructions must not be negative")
	}
	return nil
}
