package confloader

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
)

func startWatcher(t *testing.T, path string, debounce time.Duration) *Watcher {
	t.Helper()
	w, err := NewWatcher(WithWatcherLogger(logger.NewNop()), WithDebounce(debounce))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Stop() })
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	return w
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestWatcher_NotifiesOnWrite(t *testing.T) {
	path := writeYAML(t, "log:\n  level: info\n")
	w := startWatcher(t, path, 20*time.Millisecond)

	var mu sync.Mutex
	var got []string
	w.OnChange(func(p string) {
		mu.Lock()
		got = append(got, p)
		mu.Unlock()
	})
	w.StartAsync()

	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	abs, _ := filepath.Abs(path)
	waitFor(t, "change notification", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && got[0] == abs
	})
}

func TestWatcher_NotifiesOnRenameReplace(t *testing.T) {
	path := writeYAML(t, "log:\n  level: info\n")
	w := startWatcher(t, path, 20*time.Millisecond)

	var calls atomic.Int32
	w.OnChange(func(string) { calls.Add(1) })
	w.StartAsync()

	tmp := path + ".swp"
	if err := os.WriteFile(tmp, []byte("log:\n  level: warn\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "rename notification", func() bool { return calls.Load() > 0 })
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	path := writeYAML(t, "a: 0\n")
	w := startWatcher(t, path, 200*time.Millisecond)

	var calls atomic.Int32
	w.OnChange(func(string) { calls.Add(1) })
	w.StartAsync()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("a: 1\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	waitFor(t, "debounced notification", func() bool { return calls.Load() > 0 })
	time.Sleep(300 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("handler ran %d times, want 1", n)
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	path := writeYAML(t, "a: 0\n")
	w := startWatcher(t, path, 10*time.Millisecond)

	var calls atomic.Int32
	w.OnChange(func(string) { calls.Add(1) })
	w.StartAsync()

	sibling := filepath.Join(filepath.Dir(path), "other.yaml")
	if err := os.WriteFile(sibling, []byte("b: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)

	if n := calls.Load(); n != 0 {
		t.Errorf("handler ran %d times for an unwatched file", n)
	}
}

func TestWatcher_WatchMissingDir(t *testing.T) {
	w, err := NewWatcher(WithWatcherLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if err := w.Watch(filepath.Join(t.TempDir(), "nope", "tracker.yaml")); err == nil {
		t.Error("Watch() on a missing directory should fail")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	path := writeYAML(t, "a: 0\n")
	w := startWatcher(t, path, time.Hour)

	var calls atomic.Int32
	w.OnChange(func(string) { calls.Add(1) })

	done := make(chan struct{})
	go func() {
		w.Start()
		close(done)
	}()

	if err := os.WriteFile(path, []byte("a: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
	if calls.Load() != 0 {
		t.Error("pending notification fired after Stop")
	}
}
