package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/keychord/internal/input/keymap"
)

// ErrWatcherClosed is returned when using a watcher after Run returned.
var ErrWatcherClosed = errors.New("watcher is closed")

// ReloadFunc gathers the binding tiers for a rebuild.
type ReloadFunc func() (keymap.Sources, error)

// Watcher rebuilds the binding table when declaration files change and
// publishes the result into a keymap.Store.
//
// Directories are watched rather than files so that editors which save by
// renaming a temporary file over the original are noticed.
type Watcher struct {
	mu sync.Mutex

	fsw    *fsnotify.Watcher
	store  *keymap.Store
	reload ReloadFunc

	// Watched directories and the base-name patterns of interest in each.
	dirs map[string][]string

	debounce time.Duration
	logger   *slog.Logger
	errors   chan error
	reloads  atomic.Uint64
	closed   bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for changes to settle
// before rebuilding.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher creates a watcher that rebuilds from reload and publishes
// into store.
func NewWatcher(store *keymap.Store, reload ReloadFunc, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		store:    store,
		reload:   reload,
		dirs:     make(map[string][]string),
		debounce: 100 * time.Millisecond,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		errors:   make(chan error, 16),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add watches a single file. The file need not exist yet, but its
// directory must.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return w.watch(filepath.Dir(abs), filepath.Base(abs))
}

// AddDir watches every file in dir whose base name matches pattern.
func (w *Watcher) AddDir(dir, pattern string) error {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	return w.watch(abs, pattern)
}

func (w *Watcher) watch(dir, pattern string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if _, ok := w.dirs[dir]; !ok {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.dirs[dir] = append(w.dirs[dir], pattern)
	return nil
}

// Errors returns the channel on which reload failures are reported. A full
// channel drops errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Reloads returns the number of completed rebuilds.
func (w *Watcher) Reloads() uint64 {
	return w.reloads.Load()
}

// Run processes file events until ctx is done, then releases the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("declaration file changed", "path", ev.Name, "op", ev.Op.String())
			if w.debounce == 0 {
				w.Reload()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.C

		case <-timerCh:
			timerCh = nil
			w.Reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.report(err)
		}
	}
}

// Reload rebuilds the table now and publishes it. Declarations rejected by
// the merge are reported but do not prevent publishing; a failure to read
// the sources keeps the current table.
func (w *Watcher) Reload() {
	src, err := w.reload()
	if err != nil {
		w.report(fmt.Errorf("reloading key bindings: %w", err))
		return
	}

	table, err := keymap.Build(src, keymap.WithLogger(w.logger))
	version := w.store.Publish(table)
	w.reloads.Add(1)
	w.logger.Info("key bindings reloaded", "version", version, "entries", table.Len())
	if err != nil {
		w.report(err)
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}

	dir, base := filepath.Split(ev.Name)
	dir = filepath.Clean(dir)

	w.mu.Lock()
	patterns := w.dirs[dir]
	w.mu.Unlock()

	for _, p := range patterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) report(err error) {
	w.logger.Warn("key binding watcher", "error", err)
	select {
	case w.errors <- err:
	default:
	}
}

func (w *Watcher) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	_ = w.fsw.Close()
}
