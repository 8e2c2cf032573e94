package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
)

// Rescanner periodically sweeps the input directory on a cron schedule and
// reports every matching file to the callback. It exists for files that
// arrive without file system events; the callback is expected to skip files
// it has already processed.
type Rescanner struct {
	schedule string
	dir      string
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewRescanner creates a rescanner for dir with the given cron schedule.
func NewRescanner(dir, schedule string) *Rescanner {
	return &Rescanner{
		schedule: schedule,
		dir:      dir,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "watch.rescanner"),
	}
}

// Start begins scheduled rescans. If the schedule is empty, the rescanner
// does nothing. The rescanner stops when the context is cancelled.
//
// Common cron expressions:
//   - "*/10 * * * *" - every 10 minutes
//   - "0 * * * *"    - hourly
func (r *Rescanner) Start(ctx context.Context, onFile func(path string)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.schedule == "" {
		r.logger.Info("rescan schedule not configured, skipping rescanner")
		return nil
	}

	if _, err := cron.ParseStandard(r.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", r.schedule, err)
	}

	_, err := r.cron.AddFunc(r.schedule, func() {
		r.rescan(onFile)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule rescan: %w", err)
	}

	r.cron.Start()
	r.running = true

	r.logger.Info("rescanner started",
		"dir", r.dir,
		"schedule", r.schedule,
	)

	go func() {
		<-ctx.Done()
		r.Stop()
	}()

	return nil
}

// rescan runs one sweep of the directory.
func (r *Rescanner) rescan(onFile func(path string)) {
	paths, err := ScanDir(r.dir)
	if err != nil {
		r.logger.Error("rescan failed", "error", err)
		return
	}

	r.logger.Debug("rescan completed", "files", len(paths))
	for _, p := range paths {
		onFile(p)
	}
}

// Stop stops the rescanner.
func (r *Rescanner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	r.cron.Stop()
	r.running = false
	r.logger.Info("rescanner stopped")
}

// ScanDir lists the JSON files in dir, sorted by name. Hidden files are
// skipped.
func ScanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %q: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if strings.ToLower(filepath.Ext(name)) != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}
