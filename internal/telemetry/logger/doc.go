// Package logger provides structured logging for the tracker binaries.
//
//   - logger.go: slog-backed Logger with runtime level changes
//   - context.go: context-aware logging with request IDs
//   - redact.go: sensitive data redaction
//
// The CLI logs text to stderr at warn unless verbose; the server logs JSON.
package logger
