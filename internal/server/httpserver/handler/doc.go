// Package handler provides the HTTP handlers of tracker-server.
//
// Success bodies are plain JSON documents. Failures are written as
// {"error": "<message>", "code": "<TR-...>"} with the status derived from
// the domain error code.
package handler
