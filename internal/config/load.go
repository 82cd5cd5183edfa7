package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names an environment variable pointing at a config file.
const EnvConfigPath = "TILEGRID_CONFIG"

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	return load(ResolvePath())
}

// ResolvePath returns the config file Load reads, or "" when none exists.
// An explicit path (flag, then environment) wins over the search locations.
func ResolvePath() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return findConfigFile()
}

func load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom loads defaults merged with a single file, ignoring flags.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./tilegrid.yaml",
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "TileGrid")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "TileGrid")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "tilegrid")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "tilegrid")
	}
}

// loadFromFile merges a YAML file into cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
