// Package config provides tracker-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation (addresses, storage driver, auth settings)
//   - sanitize.go: secret masking for logs and `config show`
//   - loader.go: file and environment loading via internal/infra/confloader
package config
