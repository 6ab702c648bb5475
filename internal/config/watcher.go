package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/keyladder/internal/logging"
)

// DefaultReloadDelay is how long the watcher waits after the last write
// before reloading, coalescing editor save bursts into one reload.
const DefaultReloadDelay = 100 * time.Millisecond

// ReloadFunc receives each successfully loaded and validated configuration.
// It runs on the watcher's goroutine.
type ReloadFunc func(*Config)

// Watcher reloads a configuration file when it changes on disk.
//
// The parent directory is watched rather than the file itself, so editors
// that replace the file on save (write to temp, rename over) keep working,
// and a file that does not exist yet is picked up on creation. Deleting
// the file delivers the built-in defaults. Files that fail to load or
// validate are logged and dropped; the previous configuration stays
// active.
type Watcher struct {
	path     string
	base     string
	delay    time.Duration
	onReload ReloadFunc
	logger   *logging.Logger

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending *time.Timer
	closed  bool

	done chan struct{}
	wg   sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithReloadDelay sets the debounce delay for reloads.
func WithReloadDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// NewWatcher watches the configuration file at path and calls onReload
// with each valid new configuration. The returned watcher is already
// running; call Close to stop it.
func NewWatcher(path string, onReload ReloadFunc, logger *logging.Logger, opts ...WatcherOption) (*Watcher, error) {
	if onReload == nil {
		return nil, fmt.Errorf("config: nil reload callback")
	}
	if logger == nil {
		logger = logging.NullLogger
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolving %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config: watching %s: %w", filepath.Dir(absPath), err)
	}

	w := &Watcher{
		path:     absPath,
		base:     filepath.Base(absPath),
		delay:    DefaultReloadDelay,
		onReload: onReload,
		logger:   logger.WithComponent("config-watcher"),
		fsw:      fsw,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher. Pending reloads are cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// processLoop consumes fsnotify events until Close.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)
		}
	}
}

// handleEvent schedules a debounced reload for events touching the file.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != w.base {
		return
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.Reset(w.delay)
		return
	}
	w.pending = time.AfterFunc(w.delay, w.fire)
}

// fire performs the debounced reload.
func (w *Watcher) fire() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending = nil
	w.mu.Unlock()

	w.reload()
}

// reload loads and validates the file, delivering it on success.
func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Error("reload failed, keeping previous configuration: %v", err)
		return
	}
	for _, key := range cfg.UnknownKeys {
		w.logger.Warn("unknown configuration key %q ignored", key)
	}
	if err := cfg.Validate(); err != nil {
		w.logger.Error("reloaded configuration invalid, keeping previous: %v", err)
		return
	}

	w.logger.Info("configuration reloaded from %s", w.path)
	w.onReload(cfg)
}
