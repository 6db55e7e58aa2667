package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config models decidemate.yml. Every field is optional; Default fills in
// what is missing.
type Config struct {
	Journal struct {
		Name string `yaml:"name"`
	} `yaml:"journal"`
	Limits struct {
		FreeTier int `yaml:"free_tier"`
	} `yaml:"limits"`
	Server struct {
		Addr     string `yaml:"addr"`
		BasePath string `yaml:"base_path"`
	} `yaml:"server"`
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "decidemate.yml")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	cfg.Journal.Name = "decidemate"
	cfg.Limits.FreeTier = 30
	cfg.Server.Addr = "127.0.0.1:8080"
	cfg.Server.BasePath = "/v1"
	return &cfg
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Limits.FreeTier < 0 {
		return fmt.Errorf("config.limits.free_tier must not be negative")
	}
	return nil
}

// FromYAML parses and validates config from raw YAML bytes, applying
// defaults to unset fields.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if cfg.Journal.Name == "" {
		cfg.Journal.Name = "decidemate"
	}
	if cfg.Limits.FreeTier == 0 {
		cfg.Limits.FreeTier = 30
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "127.0.0.1:8080"
	}
	if cfg.Server.BasePath == "" {
		cfg.Server.BasePath = "/v1"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads config from the workspace, falling back to defaults when the
// file does not exist.
func Load(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// GenerateDefault returns the default config as YAML, for `dm config init`.
func GenerateDefault() string {
	return defaultTemplate
}

const defaultTemplate = `journal:
  name: decidemate

limits:
  # Active (non-archived) decisions allowed without premium.
  free_tier: 30

server:
  addr: 127.0.0.1:8080
  base_path: /v1
`
