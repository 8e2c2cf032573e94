package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config contains configuration for the directory watcher.
type Config struct {
	// Dir is the directory to watch.
	Dir string

	// Debounce is the time to wait after the last event on a path before
	// handing it to the callback (default: 500ms).
	Debounce time.Duration

	// Extensions is the list of file extensions to react to
	// (default: ".json").
	Extensions []string
}

// DefaultConfig returns the default watcher configuration for dir.
func DefaultConfig(dir string) *Config {
	return &Config{
		Dir:        dir,
		Debounce:   500 * time.Millisecond,
		Extensions: []string{".json"},
	}
}

// Watcher watches a directory for new fiber configuration files. Events are
// debounced per path, so a file written in several chunks triggers the
// callback once.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	config  *Config

	mu     sync.Mutex
	timers map[string]*time.Timer

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewWatcher creates a directory watcher.
func NewWatcher(config *Config, logger *slog.Logger) (*Watcher, error) {
	if config == nil {
		return nil, fmt.Errorf("watcher config must not be nil")
	}
	if config.Debounce <= 0 {
		config.Debounce = 500 * time.Millisecond
	}
	if len(config.Extensions) == 0 {
		config.Extensions = []string{".json"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher: fsw,
		logger:  logger,
		config:  config,
		timers:  make(map[string]*time.Timer),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Watch starts watching and calls onFile for each settled file. It blocks
// until the context is cancelled or Stop is called. onFile runs on a timer
// goroutine and must be safe to call concurrently with the watch loop.
func (w *Watcher) Watch(ctx context.Context, onFile func(path string)) error {
	if err := w.watcher.Add(w.config.Dir); err != nil {
		return fmt.Errorf("failed to watch directory %q: %w", w.config.Dir, err)
	}

	w.logger.Info("directory watcher started",
		"dir", w.config.Dir,
		"debounce_ms", w.config.Debounce.Milliseconds(),
	)

	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("directory watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("directory watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("file event detected",
				"path", event.Name,
				"op", event.Op.String(),
			)
			w.schedule(event.Name, onFile)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("directory watcher error", "error", err)
			// Continue watching despite errors.
		}
	}
}

// Stop stops the watcher and cancels pending debounce timers.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	<-w.doneCh

	w.mu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// schedule (re)arms the debounce timer for a path.
func (w *Watcher) schedule(path string, onFile func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.config.Debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		onFile(path)
	})
}

// shouldProcessEvent determines if an event should be handled.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	// Only creations and writes can produce a new readable file.
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return false
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}

	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, valid := range w.config.Extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}
