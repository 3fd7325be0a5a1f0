// Package local provides client-local durable key/value storage.
//
// The client keeps a single persisted string (the session token) across
// process restarts. FileStore keeps it in a small YAML state file written
// atomically with owner-only permissions; MemoryStore serves tests and
// ephemeral shells.
package local
