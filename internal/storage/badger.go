package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/yndnr/civ7save-go/internal/telemetry/logger"
	"github.com/yndnr/civ7save-go/internal/telemetry/metric"
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrClosed      = errors.New("kv engine closed")
)

// BadgerEngine is the KVEngine used for the save index.
type BadgerEngine struct {
	db     *badger.DB
	cfg    BadgerConfig
	logger logger.Logger

	lastGCTime atomic.Int64 // unix ms
	gcRewrites atomic.Uint64

	closed    atomic.Bool
	closeOnce sync.Once
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewBadgerEngine opens (or creates) the index at cfg.Dir. On-disk engines
// start a background value log GC; in-memory ones do not.
func NewBadgerEngine(cfg KVConfig, log logger.Logger) (*BadgerEngine, error) {
	if cfg.Dir == "" && !cfg.InMemory {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if log == nil {
		log = logger.Default()
	}
	log = log.With("component", "index")

	db, err := badger.Open(badgerOptions(cfg, log))
	if err != nil {
		return nil, fmt.Errorf("badger: open %q: %w", cfg.Dir, err)
	}

	e := &BadgerEngine{db: db, cfg: cfg.Badger, logger: log, stopCh: make(chan struct{})}
	if !cfg.InMemory {
		e.wg.Add(1)
		go e.gcLoop()
	}
	log.Debug("index opened", "dir", cfg.Dir, "in_memory", cfg.InMemory)
	return e, nil
}

func badgerOptions(cfg KVConfig, log logger.Logger) badger.Options {
	dir := cfg.Dir
	if cfg.InMemory {
		dir = ""
	}
	opts := badger.DefaultOptions(dir).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.Badger.SyncWrites).
		WithLogger(badgerLog{log})
	if n := cfg.Badger.CacheSize; n > 0 {
		opts = opts.WithBlockCacheSize(n)
	}
	if n := cfg.Badger.ValueLogFileSize; n > 0 {
		opts = opts.WithValueLogFileSize(n)
	}
	return opts
}

// Get retrieves a value by key.
func (e *BadgerEngine) Get(ctx context.Context, key []byte) ([]byte, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	var value []byte

	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})

	if err != nil {
		return nil, err
	}

	return value, nil
}

// Set stores a key-value pair.
func (e *BadgerEngine) Set(ctx context.Context, key, value []byte) error {
	return e.Batch(ctx, []KV{{Key: key, Value: value}}, nil)
}

// Delete removes a key.
func (e *BadgerEngine) Delete(ctx context.Context, key []byte) error {
	return e.Batch(ctx, nil, [][]byte{key})
}

// Batch applies sets then deletes in one transaction.
func (e *BadgerEngine) Batch(ctx context.Context, sets []KV, deletes [][]byte) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.db.Update(func(txn *badger.Txn) error {
		for _, kv := range sets {
			if err := txn.Set(kv.Key, kv.Value); err != nil {
				return err
			}
		}
		for _, k := range deletes {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Scan iterates over keys with a given prefix.
func (e *BadgerEngine) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			if !fn(item.KeyCopy(nil), value) {
				break
			}
		}

		return nil
	})
}

// GC runs value log garbage collection until nothing is left to rewrite.
func (e *BadgerEngine) GC(ctx context.Context) (int, error) {
	if e.closed.Load() {
		return 0, ErrClosed
	}
	if e.db.Opts().InMemory {
		return 0, nil
	}
	start := time.Now()

	rewrites := 0
	for ctx.Err() == nil {
		err := e.db.RunValueLogGC(e.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			return rewrites, fmt.Errorf("badger: gc: %w", err)
		}
		rewrites++
	}

	e.lastGCTime.Store(time.Now().UnixMilli())
	e.gcRewrites.Add(uint64(rewrites))

	e.logger.Debug("value log gc done", "rewrites", rewrites, "took", time.Since(start))

	return rewrites, nil
}

// Stats returns storage statistics.
func (e *BadgerEngine) Stats(ctx context.Context) (*KVStats, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	lsm, vlog := e.db.Size()

	return &KVStats{
		LSMSize:      lsm,
		ValueLogSize: vlog,
		LastGCTime:   e.lastGCTime.Load(),
		GCRewrites:   e.gcRewrites.Load(),
	}, nil
}

// Close gracefully shuts down the Badger engine. It is safe to call more
// than once.
func (e *BadgerEngine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		e.logger.Debug("closing index")
		e.closed.Store(true)
		close(e.stopCh)
		e.wg.Wait()

		if cerr := e.db.Close(); cerr != nil {
			err = fmt.Errorf("badger: close db: %w", cerr)
		}
	})
	return err
}

// ReportMetrics periodically publishes the engine's size to reg until the
// engine is closed. Returns the engine for method chaining.
func (e *BadgerEngine) ReportMetrics(reg *metric.Registry, every time.Duration) *BadgerEngine {
	if reg == nil {
		return e
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			if stats, err := e.Stats(context.Background()); err == nil {
				reg.SetStorageBytes(stats.LSMSize, stats.ValueLogSize)
			}
			select {
			case <-ticker.C:
			case <-e.stopCh:
				return
			}
		}
	}()
	return e
}

func (e *BadgerEngine) gcLoop() {
	defer e.wg.Done()

	interval, err := time.ParseDuration(e.cfg.GCInterval)
	if err != nil || interval <= 0 {
		e.logger.Warn("bad gc interval, falling back to 10m", "gc_interval", e.cfg.GCInterval)
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if _, err := e.GC(ctx); err != nil {
				e.logger.Error("value log gc", "error", err)
			}
			cancel()

		case <-e.stopCh:
			return
		}
	}
}

// badgerLog routes Badger's own messages through our logger, with its
// chatty info level demoted to debug.
type badgerLog struct{ l logger.Logger }

func (b badgerLog) Errorf(f string, a ...interface{})   { b.l.Error(strings.TrimSpace(fmt.Sprintf(f, a...))) }
func (b badgerLog) Warningf(f string, a ...interface{}) { b.l.Warn(strings.TrimSpace(fmt.Sprintf(f, a...))) }
func (b badgerLog) Infof(f string, a ...interface{})    { b.l.Debug(strings.TrimSpace(fmt.Sprintf(f, a...))) }
func (b badgerLog) Debugf(f string, a ...interface{})   { b.l.Debug(strings.TrimSpace(fmt.Sprintf(f, a...))) }
