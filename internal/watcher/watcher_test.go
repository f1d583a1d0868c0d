package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func waitForBatches(t *testing.T, counter *atomic.Int64, want int64) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if counter.Load() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("batch count: got %d, want at least %d", counter.Load(), want)
}

func TestWatcher_TriggersBatchAfterWrite(t *testing.T) {
	dir := t.TempDir()
	var batches atomic.Int64
	w := NewWatcher(dir, []string{".txt"}, func() { batches.Add(1) }, WithDebounce(50*time.Millisecond))
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "page.txt"), []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
	waitForBatches(t, &batches, 1)
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	var batches atomic.Int64
	w := NewWatcher(dir, []string{".txt"}, func() { batches.Add(1) }, WithDebounce(200*time.Millisecond))
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "page"+string(rune('a'+i))+".txt")
		if err := os.WriteFile(name, []byte("content"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	waitForBatches(t, &batches, 1)
	// Let the settle window fully pass, then confirm the burst ran once.
	time.Sleep(300 * time.Millisecond)
	if got := batches.Load(); got != 1 {
		t.Errorf("burst should trigger one batch: got %d", got)
	}
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	var batches atomic.Int64
	w := NewWatcher(dir, []string{".txt"}, func() { batches.Add(1) }, WithDebounce(50*time.Millisecond))
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if got := batches.Load(); got != 0 {
		t.Errorf("non-matching extension should not trigger: got %d batches", got)
	}
}

func TestWatcher_CreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "input")
	w := NewWatcher(root, nil, func() {})
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	info, err := os.Stat(root)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Error("root should be created as a directory")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, nil, func() {})
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func TestWatcher_ContextCancelStops(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	var batches atomic.Int64
	w := NewWatcher(dir, []string{".txt"}, func() { batches.Add(1) }, WithDebounce(50*time.Millisecond))
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "late.txt"), []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if got := batches.Load(); got != 0 {
		t.Errorf("cancelled watcher should not trigger batches: got %d", got)
	}
}
