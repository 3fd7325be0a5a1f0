// Package config provides the tracker-cli configuration.
//
// The configuration lives in ~/.tracker/cli.yaml. A missing file yields the
// defaults; TRACKER_CLI_* environment variables override file values, and
// command-line flags override both.
package config
