package storage

import "context"

// KV is a single write in a Batch.
type KV struct {
	Key   []byte
	Value []byte
}

// KVEngine is the ordered byte store behind the save index. Safe for
// concurrent use.
type KVEngine interface {
	// Get returns ErrKeyNotFound for a missing key.
	Get(ctx context.Context, key []byte) ([]byte, error)
	Set(ctx context.Context, key, value []byte) error
	Delete(ctx context.Context, key []byte) error

	// Batch writes sets, then deletes, atomically.
	Batch(ctx context.Context, sets []KV, deletes [][]byte) error

	// Scan visits keys under prefix in ascending order until fn returns
	// false. Key and value are only valid during the call.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error

	// GC compacts the value log and reports how many files were rewritten.
	GC(ctx context.Context) (int, error)

	Stats(ctx context.Context) (*KVStats, error)
	Close() error
}

// KVStats is a point-in-time view of engine size and GC activity.
type KVStats struct {
	LSMSize      int64
	ValueLogSize int64
	LastGCTime   int64 // unix ms, 0 if GC never ran
	GCRewrites   uint64
}

// KVConfig selects where the index lives and how Badger is tuned.
type KVConfig struct {
	Dir      string // unused when InMemory
	InMemory bool
	Badger   BadgerConfig
}

// BadgerConfig holds Badger tuning. Zero sizes keep Badger's own defaults.
type BadgerConfig struct {
	GCInterval       string  // duration string, e.g. "10m"
	GCThreshold      float64 // discard ratio that triggers a value log rewrite
	CacheSize        int64   // block cache bytes
	ValueLogFileSize int64
	SyncWrites       bool
}

// DefaultKVConfig is an on-disk index under dir.
func DefaultKVConfig(dir string) KVConfig {
	return KVConfig{Dir: dir, Badger: DefaultBadgerConfig()}
}

// InMemoryKVConfig is used by tests and by the server when no index
// directory is configured.
func InMemoryKVConfig() KVConfig {
	cfg := DefaultKVConfig("")
	cfg.InMemory = true
	return cfg
}

// DefaultBadgerConfig sizes Badger for an index of a few thousand saves.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCInterval:       "10m",
		GCThreshold:      0.5,
		CacheSize:        16 << 20,
		ValueLogFileSize: 64 << 20,
	}
}
