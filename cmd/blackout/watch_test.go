package main

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func trackerLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileTracker_SerializesProcessing(t *testing.T) {
	var inFlight, maxInFlight int32

	tracker := newFileTracker(trackerLogger(), func(ctx context.Context, path string) ([]string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&maxInFlight)
			if n <= old || atomic.CompareAndSwapInt32(&maxInFlight, old, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return nil, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tracker.process(context.Background(), "/in/"+string(rune('a'+i))+".json", true)
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&maxInFlight); got != 1 {
		t.Errorf("observed %d concurrent processing calls, want 1", got)
	}
}

func TestFileTracker_SkipsSeenUnlessForced(t *testing.T) {
	var calls int
	tracker := newFileTracker(trackerLogger(), func(ctx context.Context, path string) ([]string, error) {
		calls++
		return nil, nil
	})

	ctx := context.Background()

	// Startup sweep processes the file once; rescans skip it after that.
	tracker.process(ctx, "/in/a.json", false)
	tracker.process(ctx, "/in/a.json", false)
	if calls != 1 {
		t.Fatalf("unforced reprocessing ran %d times, want 1", calls)
	}

	// A file event always reprocesses.
	tracker.process(ctx, "/in/a.json", true)
	if calls != 2 {
		t.Errorf("forced reprocessing ran %d times, want 2", calls)
	}
}

func TestFileTracker_IgnoresOwnOutputs(t *testing.T) {
	var calls int
	tracker := newFileTracker(trackerLogger(), func(ctx context.Context, path string) ([]string, error) {
		calls++
		return []string{"a_S25A-001QF.json"}, nil
	})

	ctx := context.Background()
	tracker.process(ctx, "/data/a.json", true)

	// With input and output directories coinciding, the watcher reports the
	// tool's own output as a new file; it must not be reprocessed.
	tracker.process(ctx, "/data/a_S25A-001QF.json", true)
	if calls != 1 {
		t.Errorf("own output was reprocessed (%d calls, want 1)", calls)
	}
}
