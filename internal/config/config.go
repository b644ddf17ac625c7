package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/partygrid/internal/types"
)

const (
	DefaultConfigDir  = ".config/partygrid"
	DefaultConfigFile = "config.yaml"
)

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		InstanceLayoutMode: types.LayoutFixedQuadrant,
		GridPolicy:         types.GridAspect,
		VerticalTwoPlayer:  true,
		LowResFix:          true,
		KWinScript:         true,
		Screen:             types.Resolution{Width: 1920, Height: 1080},
		SettleDelays: SettleDelays{
			Compat: "6s",
			Native: "10ms",
		},
		Sway: SwayConfig{
			DiscoveryIntervalMs: 200,
			DiscoveryAttempts:   50,
		},
	}
}

// LoadConfig loads configuration from the specified path or default location.
// If path is empty, uses ~/.config/partygrid/config.yaml (or config.json) and
// falls back to Default when neither exists. Values missing from the file keep
// their defaults. PARTYGRID_* environment variables are applied last.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		// Try YAML first, then JSON
		yamlPath := filepath.Join(home, DefaultConfigDir, "config.yaml")
		jsonPath := filepath.Join(home, DefaultConfigDir, "config.json")

		if _, err := os.Stat(yamlPath); err == nil {
			path = yamlPath
		} else if _, err := os.Stat(jsonPath); err == nil {
			path = jsonPath
		} else {
			return finish(Default())
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	cfg, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

// LoadConfigFromBytes loads configuration from raw bytes.
// format should be "yaml" or "json". Environment overrides are not applied.
func LoadConfigFromBytes(data []byte, format string) (*Config, error) {
	cfg, err := decode(data, format)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decode(data []byte, format string) (*Config, error) {
	cfg := Default()

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}
	return cfg, nil
}

func finish(cfg *Config) (*Config, error) {
	if err := ApplyEnv(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes the configuration to path as YAML, creating parent directories
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
}

// SwayConfigPath returns the sway config used for grid mode
func (c *Config) SwayConfigPath(paths Paths) string {
	if c.Sway.Config != "" {
		return c.Sway.Config
	}
	return filepath.Join(paths.Resources, "sway.cfg")
}
