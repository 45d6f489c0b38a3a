package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/civ7save-go/internal/core/domain"
	"github.com/yndnr/civ7save-go/internal/telemetry/metric"
)

const (
	savePrefix        = "save/"
	fingerprintPrefix = "fp/"
)

// SaveRecord is one indexed save.
type SaveRecord struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	IndexedAt time.Time `json:"indexed_at" yaml:"indexed_at"`

	domain.Summary `yaml:",inline"`
}

// SaveIndex records decoded save summaries. Identical content is indexed
// once; IDs sort in insertion order.
type SaveIndex struct {
	kv      KVEngine
	metrics *metric.Registry

	// serialises the fingerprint check with the write that follows it
	mu sync.Mutex
}

// NewSaveIndex creates an index over kv. metrics may be nil.
func NewSaveIndex(kv KVEngine, metrics *metric.Registry) *SaveIndex {
	return &SaveIndex{kv: kv, metrics: metrics}
}

// Put indexes sum under name. If a save with the same fingerprint is
// already indexed, that record is returned and created is false.
func (x *SaveIndex) Put(ctx context.Context, name string, sum *domain.Summary) (rec *SaveRecord, created bool, err error) {
	if sum.Fingerprint == "" {
		return nil, false, fmt.Errorf("storage: put %q: empty fingerprint", name)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	id, err := x.kv.Get(ctx, fingerprintKey(sum.Fingerprint))
	switch {
	case err == nil:
		rec, err := x.Get(ctx, string(id))
		if err != nil {
			return nil, false, err
		}
		return rec, false, nil
	case !errors.Is(err, ErrKeyNotFound):
		return nil, false, fmt.Errorf("storage: put %q: %w", name, err)
	}

	rec = &SaveRecord{
		ID:        ulid.Make().String(),
		Name:      name,
		IndexedAt: time.Now().UTC(),
		Summary:   *sum,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, false, fmt.Errorf("storage: put %q: %w", name, err)
	}

	err = x.kv.Batch(ctx, []KV{
		{Key: saveKey(rec.ID), Value: data},
		{Key: fingerprintKey(sum.Fingerprint), Value: []byte(rec.ID)},
	}, nil)
	if err != nil {
		return nil, false, fmt.Errorf("storage: put %q: %w", name, err)
	}

	x.refreshCount(ctx)
	return rec, true, nil
}

// Get returns the record with the given ID, or domain.ErrSaveNotFound.
func (x *SaveIndex) Get(ctx context.Context, id string) (*SaveRecord, error) {
	if _, err := ulid.ParseStrict(id); err != nil {
		return nil, domain.ErrSaveNotFound.WithDetails(id)
	}

	data, err := x.kv.Get(ctx, saveKey(id))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, domain.ErrSaveNotFound.WithDetails(id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get %s: %w", id, err)
	}

	var rec SaveRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("storage: get %s: %w", id, err)
	}
	return &rec, nil
}

// List returns every record, oldest first.
func (x *SaveIndex) List(ctx context.Context) ([]*SaveRecord, error) {
	records := []*SaveRecord{}
	var decodeErr error

	err := x.kv.Scan(ctx, []byte(savePrefix), func(key, value []byte) bool {
		var rec SaveRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			decodeErr = fmt.Errorf("storage: list: %s: %w", key, err)
			return false
		}
		records = append(records, &rec)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return records, nil
}

// Delete removes the record with the given ID, or returns
// domain.ErrSaveNotFound.
func (x *SaveIndex) Delete(ctx context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	rec, err := x.Get(ctx, id)
	if err != nil {
		return err
	}

	err = x.kv.Batch(ctx, nil, [][]byte{saveKey(id), fingerprintKey(rec.Fingerprint)})
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", id, err)
	}

	x.refreshCount(ctx)
	return nil
}

// Count returns the number of indexed saves.
func (x *SaveIndex) Count(ctx context.Context) (int, error) {
	n := 0
	err := x.kv.Scan(ctx, []byte(savePrefix), func(_, _ []byte) bool {
		n++
		return true
	})
	return n, err
}

func (x *SaveIndex) refreshCount(ctx context.Context) {
	if x.metrics == nil {
		return
	}
	if n, err := x.Count(ctx); err == nil {
		x.metrics.SetIndexedSaves(n)
	}
}

func saveKey(id string) []byte {
	return []byte(savePrefix + id)
}

func fingerprintKey(fp string) []byte {
	return []byte(fingerprintPrefix + fp)
}
