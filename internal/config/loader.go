package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/modu-ai/devkit/internal/defs"
)

// EnvPrefix prefixes every environment override, e.g. DEVKIT_TOOLS_LINTER_COMMAND.
const EnvPrefix = "DEVKIT_"

// EnvConfigPath overrides the configuration file location.
const EnvConfigPath = "DEVKIT_CONFIG"

// Load reads .devkit.yaml from projectRoot and returns a Config with
// defaults applied for missing fields and environment overrides on top.
// A missing file yields the defaults; invalid YAML is an error.
func Load(projectRoot string) (*Config, error) {
	path := Path(projectRoot)

	cfg := NewDefaultConfig()
	loaded, err := loadYAMLFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if !loaded {
		slog.Debug("config file not found, using defaults", "path", path)
	}

	applyDefaults(cfg)

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Path returns the configuration file location for projectRoot,
// honoring the DEVKIT_CONFIG override.
func Path(projectRoot string) string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return filepath.Clean(p)
	}
	return filepath.Join(filepath.Clean(projectRoot), defs.ConfigFile)
}

// loadYAMLFile unmarshals path into target. Returns (true, nil) if the file
// was found and parsed, (false, nil) if it does not exist.
func loadYAMLFile(path string, target any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("parse %s: %w: %v", filepath.Base(path), ErrInvalidYAML, err)
	}

	return true, nil
}

// applyEnvOverrides layers DEVKIT_* variables over file values.
func applyEnvOverrides(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEnv, err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}
