// Package config loads dhm settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "dhm.yaml"

// Config holds settings shared by the dhm commands.
type Config struct {
	// Seed makes generation reproducible (nil: random).
	Seed *uint64 `yaml:"seed"`
	// Pretty indents JSON output.
	Pretty bool `yaml:"pretty"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Serve configures the API server.
	Serve ServeConfig `yaml:"serve"`
	// LowerIsBetter lists metric-name keywords whose falling trend is good.
	LowerIsBetter []string `yaml:"lower_is_better"`
}

// ServeConfig configures the API server.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Pretty:   true,
		LogLevel: "info",
		Serve:    ServeConfig{Addr: ":8080"},
	}
}

// Load reads the config at path over the defaults. A missing file is only
// an error when required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Serve.Addr == "" {
		return errors.New("serve.addr must not be empty")
	}
	return nil
}
