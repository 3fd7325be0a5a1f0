// Package memory provides the in-memory storage driver of tracker-server.
//
// Records live in sharded concurrent maps (pkg/cmap) and are lost on exit;
// the driver backs tests and throwaway local servers. Emails are claimed in
// a separate index with SetIfAbsent, so concurrent registrations of one
// email resolve to a single account.
package memory
