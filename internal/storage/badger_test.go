package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/civ7save-go/internal/telemetry/logger"
	"github.com/yndnr/civ7save-go/internal/telemetry/metric"
)

func newMemEngine(t *testing.T) *BadgerEngine {
	t.Helper()
	engine, err := NewBadgerEngine(InMemoryKVConfig(), logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestBadgerEngine_BasicOperations(t *testing.T) {
	engine := newMemEngine(t)
	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		if err := engine.Set(ctx, []byte("k"), []byte("v")); err != nil {
			t.Fatal(err)
		}
		got, err := engine.Get(ctx, []byte("k"))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "v" {
			t.Errorf("expected v, got %s", got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		_, err := engine.Get(ctx, []byte("non-existent"))
		if !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := engine.Set(ctx, []byte("d"), []byte("x")); err != nil {
			t.Fatal(err)
		}
		if err := engine.Delete(ctx, []byte("d")); err != nil {
			t.Fatal(err)
		}
		if _, err := engine.Get(ctx, []byte("d")); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
		}
	})

	t.Run("Batch", func(t *testing.T) {
		err := engine.Batch(ctx, []KV{
			{Key: []byte("b1"), Value: []byte("1")},
			{Key: []byte("b2"), Value: []byte("2")},
		}, [][]byte{[]byte("k")})
		if err != nil {
			t.Fatal(err)
		}
		for _, k := range []string{"b1", "b2"} {
			if _, err := engine.Get(ctx, []byte(k)); err != nil {
				t.Errorf("Get(%s) error = %v", k, err)
			}
		}
		if _, err := engine.Get(ctx, []byte("k")); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("expected k deleted, got %v", err)
		}
	})
}

func TestBadgerEngine_Scan(t *testing.T) {
	engine := newMemEngine(t)
	ctx := context.Background()

	for i := 3; i >= 1; i-- {
		if err := engine.Set(ctx, []byte(fmt.Sprintf("save/%d", i)), []byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := engine.Set(ctx, []byte("fp/x"), []byte("1")); err != nil {
		t.Fatal(err)
	}

	var keys []string
	err := engine.Scan(ctx, []byte("save/"), func(key, value []byte) bool {
		keys = append(keys, string(key))
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(keys, ",") != "save/1,save/2,save/3" {
		t.Errorf("keys = %v, want save/1..3 in order", keys)
	}

	t.Run("early stop", func(t *testing.T) {
		n := 0
		err := engine.Scan(ctx, []byte("save/"), func(_, _ []byte) bool {
			n++
			return false
		})
		if err != nil || n != 1 {
			t.Errorf("visited %d, err %v; want 1, nil", n, err)
		}
	})
}

func TestBadgerEngine_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cfg := DefaultKVConfig(dir)
	cfg.Badger.GCInterval = "1h"

	engine, err := NewBadgerEngine(cfg, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.Set(ctx, []byte("persist"), []byte("yes")); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.GC(ctx); err != nil {
		t.Errorf("GC() error = %v", err)
	}
	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewBadgerEngine(cfg, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, []byte("persist"))
	if err != nil || string(got) != "yes" {
		t.Errorf("Get() = %q, %v after reopen", got, err)
	}
}

func TestBadgerEngine_RequiresDir(t *testing.T) {
	if _, err := NewBadgerEngine(DefaultKVConfig(""), logger.Nop()); err == nil {
		t.Error("expected error for empty dir")
	}
}

func TestBadgerEngine_Closed(t *testing.T) {
	engine, err := NewBadgerEngine(InMemoryKVConfig(), logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}
	if err := engine.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	ctx := context.Background()
	if _, err := engine.Get(ctx, []byte("k")); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() error = %v, want ErrClosed", err)
	}
	if err := engine.Set(ctx, []byte("k"), nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Set() error = %v, want ErrClosed", err)
	}
	if _, err := engine.Stats(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Stats() error = %v, want ErrClosed", err)
	}
}

func TestBadgerEngine_ReportMetrics(t *testing.T) {
	engine := newMemEngine(t)
	reg := metric.NewRegistry()
	engine.ReportMetrics(reg, time.Hour)

	// the first report happens immediately
	deadline := time.Now().Add(2 * time.Second)
	for {
		rec := httptest.NewRecorder()
		reg.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		body, _ := io.ReadAll(rec.Body)
		if strings.Contains(string(body), `civ7save_storage_bytes{component="lsm"}`) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("storage metrics never reported")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
