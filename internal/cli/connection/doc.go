// Package connection provides the client's link to the tracker backend.
//
//   - manager.go: current server, timeout and session binding
//   - http.go: JSON-over-HTTP client with bearer authentication
//
// Transport failures are reported as domain.ErrTransport; non-2xx responses
// are reported as *StatusError so callers can map them per operation.
package connection
