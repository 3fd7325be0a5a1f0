package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
)

func newTestEngine(t *testing.T) *BadgerEngine {
	t.Helper()
	engine, err := NewBadgerEngine(InMemoryKVConfig(), logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestBadgerEngine_BasicOperations(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		key := []byte("test-key")
		value := []byte("test-value")

		if err := engine.Set(ctx, key, value); err != nil {
			t.Fatal(err)
		}

		got, err := engine.Get(ctx, key)
		if err != nil {
			t.Fatal(err)
		}

		if string(got) != string(value) {
			t.Errorf("expected %s, got %s", value, got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		_, err := engine.Get(ctx, []byte("non-existent"))
		if err != ErrKeyNotFound {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		key := []byte("delete-key")

		if err := engine.Set(ctx, key, []byte("delete-value")); err != nil {
			t.Fatal(err)
		}
		if err := engine.Delete(ctx, key); err != nil {
			t.Fatal(err)
		}

		_, err := engine.Get(ctx, key)
		if err != ErrKeyNotFound {
			t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
		}
	})
}

func TestBadgerEngine_Insert(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	err := engine.Insert(ctx,
		KV{Key: []byte("a"), Value: []byte("1")},
		KV{Key: []byte("b"), Value: []byte("2")},
	)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("rejects existing key", func(t *testing.T) {
		err := engine.Insert(ctx,
			KV{Key: []byte("c"), Value: []byte("3")},
			KV{Key: []byte("b"), Value: []byte("changed")},
		)
		if !errors.Is(err, ErrKeyExists) {
			t.Fatalf("expected ErrKeyExists, got %v", err)
		}

		if _, err := engine.Get(ctx, []byte("c")); err != ErrKeyNotFound {
			t.Error("failed insert must not write any entry")
		}
		got, _ := engine.Get(ctx, []byte("b"))
		if string(got) != "2" {
			t.Errorf("existing value overwritten: %s", got)
		}
	})

	t.Run("concurrent inserts of one key", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			success atomic.Int32
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if engine.Insert(ctx, KV{Key: []byte("contended"), Value: []byte("x")}) == nil {
					success.Add(1)
				}
			}()
		}
		wg.Wait()

		if success.Load() != 1 {
			t.Errorf("expected exactly one successful insert, got %d", success.Load())
		}
	})
}

func TestBadgerEngine_Scan(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	testData := map[string]string{
		"user:1": "alice",
		"user:2": "bob",
		"user:3": "charlie",
		"meta:x": "data",
	}

	for k, v := range testData {
		if err := engine.Set(ctx, []byte(k), []byte(v)); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("Scan with prefix", func(t *testing.T) {
		var results []string

		err := engine.Scan(ctx, []byte("user:"), func(key, value []byte) bool {
			results = append(results, string(value))
			return true
		})
		if err != nil {
			t.Fatal(err)
		}

		if len(results) != 3 {
			t.Errorf("expected 3 results, got %d", len(results))
		}
	})

	t.Run("Scan with early stop", func(t *testing.T) {
		count := 0

		err := engine.Scan(ctx, []byte("user:"), func(key, value []byte) bool {
			count++
			return count < 2
		})
		if err != nil {
			t.Fatal(err)
		}

		if count != 2 {
			t.Errorf("expected 2 iterations, got %d", count)
		}
	})
}

func TestBadgerEngine_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cfg := DefaultKVConfig(dir)
	cfg.Badger.SyncWrites = false
	engine, err := NewBadgerEngine(cfg, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		if err := engine.Set(ctx, []byte{byte(i)}, make([]byte, 1000)); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 50; i++ {
		if err := engine.Delete(ctx, []byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := engine.GC(ctx); err != nil {
		t.Fatalf("GC: %v", err)
	}
	stats, err := engine.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.LastGCTime == 0 {
		t.Error("LastGCTime should be set after GC")
	}

	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewBadgerEngine(cfg, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if _, err := reopened.Get(ctx, []byte{byte(99)}); err != nil {
		t.Errorf("data should survive reopen: %v", err)
	}
}

func TestBadgerEngine_Close(t *testing.T) {
	engine, err := NewBadgerEngine(InMemoryKVConfig(), logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}
	if err := engine.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}

	if _, err := engine.Get(context.Background(), []byte("k")); err != ErrClosed {
		t.Errorf("Get after Close = %v, want ErrClosed", err)
	}
	if err := engine.Set(context.Background(), []byte("k"), nil); err != ErrClosed {
		t.Errorf("Set after Close = %v, want ErrClosed", err)
	}
}

func TestBadgerEngine_RequiresDir(t *testing.T) {
	if _, err := NewBadgerEngine(DefaultKVConfig(""), logger.NewNop()); err == nil {
		t.Error("expected error for empty dir")
	}
}

func TestBadgerEngine_RegisterMetrics(t *testing.T) {
	engine := newTestEngine(t)
	registry := prometheus.NewRegistry()

	engine.RegisterMetrics(registry)

	count, err := testutil.GatherAndCount(registry,
		"tracker_badger_lsm_size_bytes",
		"tracker_badger_total_size_bytes",
		"tracker_badger_gc_bytes_reclaimed_total",
	)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("expected 3 badger metrics, got %d", count)
	}
}
