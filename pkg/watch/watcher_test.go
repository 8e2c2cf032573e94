package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestShouldProcessEvent(t *testing.T) {
	w := &Watcher{config: DefaultConfig("/data")}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{
			name:  "create json",
			event: fsnotify.Event{Name: "/data/pfsConfig-0x01.json", Op: fsnotify.Create},
			want:  true,
		},
		{
			name:  "write json",
			event: fsnotify.Event{Name: "/data/pfsConfig-0x01.json", Op: fsnotify.Write},
			want:  true,
		},
		{
			name:  "upper case extension",
			event: fsnotify.Event{Name: "/data/pfsConfig-0x01.JSON", Op: fsnotify.Create},
			want:  true,
		},
		{
			name:  "remove json",
			event: fsnotify.Event{Name: "/data/pfsConfig-0x01.json", Op: fsnotify.Remove},
			want:  false,
		},
		{
			name:  "rename json",
			event: fsnotify.Event{Name: "/data/pfsConfig-0x01.json", Op: fsnotify.Rename},
			want:  false,
		},
		{
			name:  "chmod json",
			event: fsnotify.Event{Name: "/data/pfsConfig-0x01.json", Op: fsnotify.Chmod},
			want:  false,
		},
		{
			name:  "hidden file",
			event: fsnotify.Event{Name: "/data/.pfsConfig-0x01.json", Op: fsnotify.Create},
			want:  false,
		},
		{
			name:  "wrong extension",
			event: fsnotify.Event{Name: "/data/pfsConfig-0x01.fits", Op: fsnotify.Create},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.shouldProcessEvent(tt.event); got != tt.want {
				t.Errorf("shouldProcessEvent(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestWatcher_DebouncedCallback(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig(dir)
	cfg.Debounce = 50 * time.Millisecond

	w, err := NewWatcher(cfg, discardLogger())
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}

	var (
		mu    sync.Mutex
		calls []string
	)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(path string) {
			mu.Lock()
			calls = append(calls, path)
			mu.Unlock()
		})
	}()

	// Give the watch loop a moment to register the directory.
	time.Sleep(100 * time.Millisecond)

	// Write the file in two chunks; debouncing should collapse the events
	// into a single callback.
	path := filepath.Join(dir, "pfsConfig-0x0000000000000001.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("}"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(calls)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 {
		t.Fatalf("callback ran %d times, want 1 (calls: %v)", len(calls), calls)
	}
	if calls[0] != path {
		t.Errorf("callback path = %q, want %q", calls[0], path)
	}
}

func TestNewWatcher_NilConfig(t *testing.T) {
	if _, err := NewWatcher(nil, discardLogger()); err == nil {
		t.Fatal("NewWatcher(nil) = nil, want error")
	}
}
