package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yndnr/expense-tracker/internal/storage/local"
	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
)

// Output formats accepted by the CLI.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// DefaultServer is the address of a locally running tracker-server.
const DefaultServer = "http://localhost:5000"

// DefaultRequestTimeout bounds every remote call made by the CLI.
const DefaultRequestTimeout = 30 * time.Second

// CLIConfig is the configuration for tracker-cli.
type CLIConfig struct {
	Server         string        `koanf:"server"`
	Output         string        `koanf:"output"` // table, json, yaml
	SessionFile    string        `koanf:"session_file"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	CAFile         string        `koanf:"ca_file"` // extra trusted CA certificates (PEM)
	Log            LogConfig     `koanf:"log"`
}

// LogConfig controls CLI diagnostics written to stderr.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:         DefaultServer,
		Output:         OutputTable,
		RequestTimeout: DefaultRequestTimeout,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// SessionPath returns the session state file, falling back to
// ~/.tracker/session.yaml.
func (c *CLIConfig) SessionPath() string {
	if c.SessionFile != "" {
		return c.SessionFile
	}
	return local.DefaultPath()
}

// Validate checks the configuration for values the CLI cannot use.
func (c *CLIConfig) Validate() error {
	if strings.TrimSpace(c.Server) == "" {
		return fmt.Errorf("server must not be empty")
	}
	switch c.Output {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", c.Output)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.CAFile != "" {
		if _, err := os.Stat(c.CAFile); err != nil {
			return fmt.Errorf("ca_file: %w", err)
		}
	}
	if !logger.ValidLevel(c.Log.Level) {
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// document is the on-disk form. Durations are written as strings so the
// file stays readable and round-trips through the loader.
type document struct {
	Server         string    `yaml:"server"`
	Output         string    `yaml:"output"`
	SessionFile    string    `yaml:"session_file,omitempty"`
	RequestTimeout string    `yaml:"request_timeout"`
	CAFile         string    `yaml:"ca_file,omitempty"`
	Log            LogConfig `yaml:"log"`
}

// MarshalYAML implements yaml.Marshaler.
func (c CLIConfig) MarshalYAML() (any, error) {
	return document{
		Server:         c.Server,
		Output:         c.Output,
		SessionFile:    c.SessionFile,
		RequestTimeout: c.RequestTimeout.String(),
		CAFile:         c.CAFile,
		Log:            c.Log,
	}, nil
}
