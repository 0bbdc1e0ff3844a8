// Package config loads the runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings. The API key comes from the
// environment only and is never written to disk.
type Config struct {
	TextModel        string `yaml:"text_model,omitempty"`
	ImageModel       string `yaml:"image_model,omitempty"`
	SavePath         string `yaml:"save_path,omitempty"`
	NarrativeTimeout int    `yaml:"narrative_timeout_seconds,omitempty"`
	ImageTimeout     int    `yaml:"image_timeout_seconds,omitempty"`

	APIKey string `yaml:"-"`
}

func configPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".void", "config.yml")
	}
	return filepath.Join(home, ".void", "config.yml")
}

// Load reads ~/.void/config.yml, writing a default file on first run.
func Load() (*Config, error) {
	path := configPath()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	case os.IsNotExist(err):
		if err := save(path, cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	return cfg, nil
}

func save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
