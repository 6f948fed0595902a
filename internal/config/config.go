// Package config handles git-issue configuration loading and defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the contents of .issues/config.yml.
type Config struct {
	// StrictCompat selects the strict-compatibility mode: minimal
	// pass-through commit messages shaped like the reference
	// implementation's output instead of the verbose summaries.
	StrictCompat bool `yaml:"strict_compatibility"`

	// Editor overrides VISUAL/EDITOR for interactive description entry.
	Editor string `yaml:"editor"`

	ID IDConfig `yaml:"id"`
}

// IDConfig controls identifier rendering.
type IDConfig struct {
	// ShortLength is the number of characters shown for abbreviated
	// identifiers in listings and commit messages.
	ShortLength int `yaml:"short_length"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		ID: IDConfig{ShortLength: 8},
	}
}

// Load reads config.yml from path and applies defaults for missing fields.
// A missing file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.ID.ShortLength <= 0 {
		cfg.ID.ShortLength = 8
	}
	return cfg, nil
}

// Write writes the provided configuration to path.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
