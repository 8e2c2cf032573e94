package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pfs-obs/blackout/pkg/watch"
)

var watchFlags struct {
	inDir  string
	outDir string
	salt   string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the input directory and redact files as they arrive",
	Long: `Watch the input directory for fiber configuration files and redact each
one as it arrives. File events are debounced so partially written files
settle before processing; an optional cron-scheduled rescan catches files
that arrive without file system events.

In watch mode the Prometheus metrics endpoint is served at the configured
address (telemetry.metrics.listen_address, default 127.0.0.1:9090).

Examples:
  # Watch with directories from config
  blackout watch

  # Watch explicit directories
  blackout watch --in /data/incoming --out /data/redacted`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.inDir, "in", "", "override input directory")
	watchCmd.Flags().StringVar(&watchFlags.outDir, "out", "", "override output directory")
	watchCmd.Flags().StringVar(&watchFlags.salt, "salt", "", "override secret salt for the hashed object ID strategy")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchFlags.inDir != "" {
		setupOverrides.inputDir = watchFlags.inDir
	}
	if watchFlags.outDir != "" {
		setupOverrides.outputDir = watchFlags.outDir
	}
	if watchFlags.salt != "" {
		setupOverrides.salt = watchFlags.salt
	}

	p, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracker := newFileTracker(p.logger, p.processFile)

	// Metrics endpoint.
	if p.cfg.MetricsEnabled() {
		mux := http.NewServeMux()
		mux.Handle(p.cfg.Telemetry.Metrics.Path, p.collector.Handler())
		srv := &http.Server{
			Addr:    p.cfg.Telemetry.Metrics.ListenAddress,
			Handler: mux,
		}
		go func() {
			p.logger.Info("metrics endpoint listening",
				"address", srv.Addr,
				"path", p.cfg.Telemetry.Metrics.Path,
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				p.logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Scheduled rescan for files that arrive without events.
	rescanner := watch.NewRescanner(p.cfg.Input.Dir, p.cfg.Watch.RescanSchedule)
	if err := rescanner.Start(ctx, func(path string) {
		tracker.process(ctx, path, false)
	}); err != nil {
		return err
	}

	// Process everything already in the directory before watching.
	existing, err := watch.ScanDir(p.cfg.Input.Dir)
	if err != nil {
		return err
	}
	for _, path := range existing {
		tracker.process(ctx, path, false)
	}

	watcher, err := watch.NewWatcher(&watch.Config{
		Dir:      p.cfg.Input.Dir,
		Debounce: p.cfg.Watch.Debounce,
	}, p.logger)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Watching %s\n", p.cfg.Input.Dir)
	return watcher.Watch(ctx, func(path string) {
		// A file event means either a new file or a rewrite; both are
		// worth reprocessing.
		tracker.process(ctx, path, true)
	})
}

// fileTracker serializes processing and remembers what has been handled, so
// rescans do not reprocess inputs and the watcher does not chase the tool's
// own outputs when input and output directories coincide. The mutex is held
// across the processing call: debounce timers and the rescanner both funnel
// through here, and at most one file is processed at a time.
type fileTracker struct {
	logger *slog.Logger
	run    func(ctx context.Context, path string) ([]string, error)

	mu      sync.Mutex
	seen    map[string]bool
	emitted map[string]bool
}

func newFileTracker(logger *slog.Logger, run func(ctx context.Context, path string) ([]string, error)) *fileTracker {
	return &fileTracker{
		logger:  logger,
		run:     run,
		seen:    make(map[string]bool),
		emitted: make(map[string]bool),
	}
}

// process redacts one file. When force is false (rescan, startup sweep),
// files already handled are skipped; a file event always reprocesses.
func (t *fileTracker) process(ctx context.Context, path string, force bool) {
	base := filepath.Base(path)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.emitted[base] || (!force && t.seen[base]) {
		return
	}
	t.seen[base] = true

	written, err := t.run(ctx, path)
	if err != nil {
		t.logger.Error("failed to process fiber configuration",
			"input", base,
			"error", err,
		)
	}
	for _, name := range written {
		t.emitted[name] = true
	}
}
