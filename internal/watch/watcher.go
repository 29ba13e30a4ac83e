// Package watch turns a directory into a drop zone: image files created or
// rewritten there are reported once their writes settle.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period a file needs before it is handled.
const DefaultDebounce = 300 * time.Millisecond

// Handler is called with the path of a settled file. Calls happen one at a
// time on the watcher goroutine. A returned error counts the file as failed.
type Handler func(ctx context.Context, path string) error

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period per path. Zero means DefaultDebounce.
	Debounce time.Duration

	// Match selects interesting paths. Nil accepts every path.
	Match func(path string) bool

	// Logger receives watcher diagnostics. Nil discards them.
	Logger *zap.Logger
}

// Stats counts watcher activity.
type Stats struct {
	Events    int
	Handled   int // handler succeeded
	Failed    int // handler returned an error
	Errors    int // watcher errors
	LastEvent time.Time
	LastPath  string
}

// Watcher reports settled files in one directory.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	dir         string
	handle      Handler
	match       func(string) bool
	log         *zap.Logger
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	stopped     bool
	stats       Stats
}

// New creates a watcher for dir. Call Start to begin watching.
func New(dir string, handle Handler, opts Options) (*Watcher, error) {
	if handle == nil {
		return nil, fmt.Errorf("watch: nil handler")
	}
	st, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	w := &Watcher{
		watcher:     fw,
		dir:         dir,
		handle:      handle,
		match:       opts.Match,
		log:         opts.Logger,
		debounceMap: make(map[string]time.Time),
		debounceDur: opts.Debounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	if w.debounceDur <= 0 {
		w.debounceDur = DefaultDebounce
	}
	if w.log == nil {
		w.log = zap.NewNop()
	}
	if w.match == nil {
		w.match = func(string) bool { return true }
	}
	return w, nil
}

// Start begins watching. It returns immediately; events are handled on a
// background goroutine until ctx is cancelled or Stop is called.
// Calling Start on a running or stopped watcher does nothing.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.stopped {
		return nil
	}

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", w.dir, err)
	}
	w.running = true
	w.log.Info("watching directory", zap.String("dir", w.dir), zap.Duration("debounce", w.debounceDur))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit. No handler
// runs after Stop returns. Stop is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	if wasRunning {
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		w.log.Warn("closing watcher", zap.Error(err))
	}
	w.log.Debug("watcher stopped", zap.String("dir", w.dir))
}

// Stats returns a snapshot of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// run is the main event loop.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := max(w.debounceDur/3, 10*time.Millisecond)
	debounceTicker := time.NewTicker(tick)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-debounceTicker.C:
			w.processDebouncedEvents(ctx)
		}
	}
}

// handleEvent records create and write events for matching files.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	path := filepath.Clean(event.Name)
	if !w.match(path) {
		return
	}

	w.mu.Lock()
	now := time.Now()
	w.stats.Events++
	w.stats.LastEvent = now
	w.stats.LastPath = path
	w.debounceMap[path] = now
	w.mu.Unlock()
}

// processDebouncedEvents handles paths that have been quiet for the
// debounce period.
func (w *Watcher) processDebouncedEvents(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, last := range w.debounceMap {
		if now.Sub(last) >= w.debounceDur {
			ready = append(ready, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		if st, err := os.Stat(path); err != nil || !st.Mode().IsRegular() {
			continue
		}
		w.log.Debug("file settled", zap.String("path", path))
		err := w.handle(ctx, path)

		w.mu.Lock()
		if err != nil {
			w.stats.Failed++
		} else {
			w.stats.Handled++
		}
		w.mu.Unlock()

		if err != nil {
			w.log.Warn("handler failed", zap.String("path", path), zap.Error(err))
		}
	}
}
