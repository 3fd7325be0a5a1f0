package config

import (
	"fmt"

	"github.com/yndnr/expense-tracker/internal/infra/confloader"
)

// Load reads the configuration from defaults, the optional file at path and
// TRACKER_ environment variables, in that order, and verifies the result.
func Load(path string) (*ServerConfig, error) {
	cfg := Default()

	opts := []confloader.Option{}
	if path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
