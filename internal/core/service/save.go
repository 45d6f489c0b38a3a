package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/spaolacci/murmur3"

	"github.com/yndnr/civ7save-go/internal/core/codec"
	"github.com/yndnr/civ7save-go/internal/core/domain"
	"github.com/yndnr/civ7save-go/internal/telemetry/logger"
	"github.com/yndnr/civ7save-go/internal/telemetry/metric"
)

// SaveServiceConfig holds configuration for SaveService.
type SaveServiceConfig struct {
	// CacheMaxCost bounds the estimated memory, in bytes, of decoded saves
	// kept in the cache. Zero disables the cache.
	CacheMaxCost int64

	// CacheNumCounters is the number of keys tracked for admission
	// (default: 10x the expected number of cached saves).
	CacheNumCounters int64
}

// DefaultSaveServiceConfig returns a config caching up to 256 MiB of saves.
func DefaultSaveServiceConfig() SaveServiceConfig {
	return SaveServiceConfig{
		CacheMaxCost:     256 << 20,
		CacheNumCounters: 10_000,
	}
}

// SaveService decodes save files. Decoded trees are immutable, so a cached
// result is shared between callers.
type SaveService struct {
	log     logger.Logger
	metrics *metric.Registry
	cache   *ristretto.Cache
}

// NewSaveService creates a SaveService. log and metrics may be nil.
func NewSaveService(cfg SaveServiceConfig, log logger.Logger, metrics *metric.Registry) (*SaveService, error) {
	if log == nil {
		log = logger.Default()
	}
	s := &SaveService{log: log, metrics: metrics}

	if cfg.CacheMaxCost > 0 {
		counters := cfg.CacheNumCounters
		if counters <= 0 {
			counters = DefaultSaveServiceConfig().CacheNumCounters
		}
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: counters,
			MaxCost:     cfg.CacheMaxCost,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("service: create decode cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Close releases the cache.
func (s *SaveService) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

// Fingerprint returns the hex murmur3 128-bit hash of data.
func Fingerprint(data []byte) string {
	h1, h2 := murmur3.Sum128(data)
	var b [16]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(h1 >> (56 - 8*i))
		b[8+i] = byte(h2 >> (56 - 8*i))
	}
	return hex.EncodeToString(b[:])
}

// Decode decodes data and extracts its semantic fields. Failures carry
// the offending offset and unwrap to one of domain.ErrNotASaveFile,
// domain.ErrUnknownChunkType or domain.ErrTruncatedInput.
func (s *SaveService) Decode(ctx context.Context, data []byte) (*domain.ParsedSave, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var key string
	if s.cache != nil {
		key = Fingerprint(data)
		if v, ok := s.cache.Get(key); ok {
			s.metrics.IncCacheHit()
			return v.(*domain.ParsedSave), nil
		}
		s.metrics.IncCacheMiss()
	}

	start := time.Now()
	raw, err := codec.DecodeRaw(data)
	elapsed := time.Since(start)
	s.metrics.RecordDecode(resultOf(err), elapsed.Seconds(), len(data))

	log := logger.L(ctx)
	if err != nil {
		var de *codec.DecodeError
		if errors.As(err, &de) {
			log.Warn("decode failed", "error", err, "offset", de.Offset, "bytes", len(data))
		} else {
			log.Warn("decode failed", "error", err, "bytes", len(data))
		}
		return nil, fmt.Errorf("service: decode: %w", err)
	}

	counts := countChunks(raw)
	total := 0
	for typ, n := range counts {
		s.metrics.AddChunks(typ.String(), n)
		total += n
	}
	log.Debug("decoded save", "bytes", len(data), "groups", domain.GroupCount, "chunks", total, "elapsed", elapsed)

	parsed := Extract(raw)
	if s.cache != nil {
		s.cache.Set(key, parsed, decodedCost(raw))
	}
	return parsed, nil
}

// DecodeRaw decodes data without semantic interpretation.
func (s *SaveService) DecodeRaw(ctx context.Context, data []byte) (*domain.RawChunkData, error) {
	parsed, err := s.Decode(ctx, data)
	if err != nil {
		return nil, err
	}
	return parsed.Raw, nil
}

// Summarize decodes data and reduces it to a Summary.
func (s *SaveService) Summarize(ctx context.Context, data []byte) (*domain.Summary, error) {
	parsed, err := s.Decode(ctx, data)
	if err != nil {
		return nil, err
	}
	return parsed.Summarize(Fingerprint(data), len(data)), nil
}

// Simplify is the method form of the package-level Simplify.
func (s *SaveService) Simplify(chunks []domain.Chunk) []domain.Node {
	return Simplify(chunks)
}

// Wait blocks until pending cache writes are applied.
func (s *SaveService) Wait() {
	if s.cache != nil {
		s.cache.Wait()
	}
}

func countChunks(raw *domain.RawChunkData) map[domain.ChunkType]int {
	counts := make(map[domain.ChunkType]int)
	domain.Walk(raw.All(), func(c domain.Chunk) {
		counts[c.Type]++
	})
	return counts
}

// resultOf maps a decode error to its metric label.
func resultOf(err error) string {
	switch {
	case err == nil:
		return metric.ResultOK
	case errors.Is(err, domain.ErrNotASaveFile):
		return metric.ResultNotASave
	case errors.Is(err, domain.ErrUnknownChunkType):
		return metric.ResultUnknownChunkType
	case errors.Is(err, domain.ErrTruncatedInput):
		return metric.ResultTruncated
	default:
		return metric.ResultError
	}
}
