package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/expense-tracker/internal/infra/confloader"
)

// EnvPrefix is the environment variable prefix for CLI settings.
const EnvPrefix = "TRACKER_CLI_"

// Keys lists the settings accepted by Set.
var Keys = []string{"server", "output", "session_file", "request_timeout", "ca_file", "log.level", "log.format"}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".tracker", "cli.yaml")
}

// Load loads CLI configuration from file and environment. A missing file
// is not an error.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	loader := confloader.NewLoader(
		confloader.WithEnvPrefix(EnvPrefix),
		confloader.WithConfigFile(path),
		confloader.WithOptionalFile(),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML with mode 0600.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// Set updates a single setting by its dotted key, converting value to the
// field's type. The resulting configuration must validate.
func Set(cfg *CLIConfig, key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}

	updated := *cfg
	loader := confloader.NewLoader()
	if err := loader.LoadMap(map[string]any{key: value}); err != nil {
		return err
	}
	if err := loader.Unmarshal(&updated); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	*cfg = updated
	return nil
}

// Merge applies command-line overrides on top of cfg. Empty values are
// ignored.
func Merge(cfg *CLIConfig, flags map[string]string) (*CLIConfig, error) {
	merged := *cfg
	for _, key := range Keys {
		value, ok := flags[key]
		if !ok || value == "" {
			continue
		}
		if err := Set(&merged, key, value); err != nil {
			return nil, err
		}
	}
	return &merged, nil
}
