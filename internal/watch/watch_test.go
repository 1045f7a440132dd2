package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
	}
	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Cancel()
	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("calls = %d after cancel", got)
	}
	if NewDebouncer(0).Duration() != DefaultDebounceDuration {
		t.Fatalf("zero duration should use the default")
	}
}

func TestWatcher_SignalsMatchingWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(dir, "state.sqlite", 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	if err := os.WriteFile(filepath.Join(dir, "tui_state.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-w.Changes():
		t.Fatalf("unrelated file triggered a change")
	case <-time.After(150 * time.Millisecond):
	}

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(dir, "state.sqlite-wal"), []byte{byte(i)}, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatalf("no change signalled")
	}
	select {
	case <-w.Changes():
		t.Fatalf("burst produced more than one signal")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	w, err := New(t.TempDir(), "state", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestWatcher_CloseEndsChanges(t *testing.T) {
	t.Parallel()

	w, err := New(t.TempDir(), "state", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case _, ok := <-w.Changes():
		if ok {
			t.Fatalf("signal delivered after Close")
		}
	case <-time.After(time.Second):
		t.Fatalf("Changes still open after Close")
	}
	// A late debounce fire must not send on the closed channel.
	w.signal()
}
