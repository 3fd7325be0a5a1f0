// Package storage persists tracker-server accounts and expenses.
//
// The default driver keeps records in an embedded Badger database:
//
//   - BadgerEngine: key-value engine with background value-log GC and
//     Prometheus size gauges
//   - KVRepository: accounts and expenses encoded as JSON over a KVEngine,
//     with an email index enforcing unique registrations
//
// Sibling packages provide the memory (internal/storage/memory) and MongoDB
// (internal/storage/mongo) drivers. All drivers share the record types and
// errors defined in record.go.
package storage
