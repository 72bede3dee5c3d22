// Package reload watches the corpus database and triggers a reload after
// writes settle.
package reload

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/FocuswithJustin/BibleHere/internal/logging"
)

// DefaultDebounce is the quiet period after the last write.
const DefaultDebounce = time.Second

// Config holds watcher configuration.
type Config struct {
	// Path is the database file. Its directory is watched so journal
	// files and replacements are seen too.
	Path string

	// Debounce is the quiet period before Reload runs.
	Debounce time.Duration

	// Reload is called once per settled burst of writes.
	Reload func(ctx context.Context) error
}

// Watcher triggers reloads on database changes.
type Watcher struct {
	cfg     Config
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending time.Time // zero when nothing is queued
	done    chan struct{}
}

// New creates a watcher. Start begins watching.
func New(cfg Config) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{cfg: cfg, watcher: fsWatcher, done: make(chan struct{})}, nil
}

// Start watches the database directory until ctx ends or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.cfg.Path)
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	logging.Info("watching database", "path", w.cfg.Path)
	go w.processEvents(ctx)
	go w.processDebounced(ctx)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	return w.watcher.Close()
}

// relevant reports whether name is the database or one of its journals.
func (w *Watcher) relevant(name string) bool {
	base := filepath.Base(w.cfg.Path)
	got := filepath.Base(name)
	return got == base || strings.HasPrefix(got, base+"-")
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending = time.Now()
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) processDebounced(ctx context.Context) {
	tick := w.cfg.Debounce / 5
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-ticker.C:
			w.mu.Lock()
			ready := !w.pending.IsZero() && time.Since(w.pending) >= w.cfg.Debounce
			if ready {
				w.pending = time.Time{}
			}
			w.mu.Unlock()
			if !ready {
				continue
			}
			if err := w.cfg.Reload(ctx); err != nil {
				logging.Error("reload failed", "path", w.cfg.Path, "error", err)
			}
		}
	}
}
