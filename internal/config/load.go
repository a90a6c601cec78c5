package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	fileName = "config.yaml"
	dirName  = "animscene"
)

// Load builds the effective config. Each layer overrides the one before it:
// built-in defaults, then the config file, then command-line flags.
func Load() (*Config, error) {
	cfg := Default()

	file := ConfigPath()
	if file == "" {
		file = findConfigFile()
	}
	if file != "" {
		if err := loadFromFile(cfg, file); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", file, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing file among the working
// directory and the user config directory, or "" if there is none.
func findConfigFile() string {
	for _, p := range []string{fileName, UserConfigPath()} {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

// ConfigDir is the per-user directory the config file lives in.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "AnimScene")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "AnimScene")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, dirName)
	}
	return filepath.Join(home, ".config", dirName)
}

// UserConfigPath is where Save writes and where Load looks last.
func UserConfigPath() string {
	return filepath.Join(ConfigDir(), fileName)
}

// loadFromFile overlays the YAML at path onto cfg. Keys absent from the
// file keep their current values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Resolve returns path joined to the asset root. Empty paths stay empty so
// callers can treat them as "not configured".
func (a AssetsConfig) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.Root, path)
}
