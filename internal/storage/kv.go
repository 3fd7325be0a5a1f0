package storage

import "context"

// KVEngine is an embedded key-value store.
//
// Implementations must be safe for concurrent use and durable across
// restarts unless configured in-memory.
type KVEngine interface {
	// Get returns ErrKeyNotFound for a missing key.
	Get(ctx context.Context, key []byte) ([]byte, error)

	Set(ctx context.Context, key, value []byte) error

	// Insert stores all entries in one transaction, failing with
	// ErrKeyExists if any key is already present.
	Insert(ctx context.Context, entries ...KV) error

	Delete(ctx context.Context, key []byte) error

	// Scan visits keys under prefix in order until fn returns false.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error

	// GC runs value-log collection and returns an estimate of bytes freed.
	GC(ctx context.Context) (uint64, error)

	Stats(ctx context.Context) (*KVStats, error)

	Close() error
}

// KV is one entry passed to Insert.
type KV struct {
	Key   []byte
	Value []byte
}

// KVStats is a point-in-time size report. Sizes are bytes; LastGCTime is
// Unix milliseconds, zero until the first GC.
type KVStats struct {
	TotalSize        uint64
	LSMSize          uint64
	ValueLogSize     uint64
	LastGCTime       int64
	GCBytesReclaimed uint64
}

// KVConfig configures an embedded KV engine. Dir is ignored when InMemory
// is set.
type KVConfig struct {
	Dir      string
	InMemory bool
	Badger   BadgerConfig
}

// BadgerConfig tunes the badger engine.
type BadgerConfig struct {
	GCInterval       string  // duration between automatic value-log GC runs
	GCThreshold      float64 // discard ratio passed to RunValueLogGC
	CacheSize        int64
	ValueLogFileSize int64
	NumMemtables     int
	SyncWrites       bool
}

// DefaultKVConfig returns a durable config rooted at dir.
func DefaultKVConfig(dir string) KVConfig {
	return KVConfig{
		Dir: dir,
		Badger: BadgerConfig{
			GCInterval:       "10m",
			GCThreshold:      0.5,
			CacheSize:        16 << 20,
			ValueLogFileSize: 64 << 20,
			NumMemtables:     2,
			SyncWrites:       true,
		},
	}
}

// InMemoryKVConfig returns a config for a throwaway engine used in tests.
func InMemoryKVConfig() KVConfig {
	cfg := DefaultKVConfig("")
	cfg.InMemory = true
	cfg.Badger.SyncWrites = false
	return cfg
}
