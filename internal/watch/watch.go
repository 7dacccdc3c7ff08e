// Package watch reports changes to a single file, such as a scene file being
// edited while the explorer re-renders it.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches one file. The parent directory is watched so that
// editors which save by renaming a temporary file over the original are
// still seen.
type Watcher struct {
	path     string
	fs       *fsnotify.Watcher
	debounce time.Duration
	log      *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period after the last event before the
// callback runs. Zero fires on every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = max(d, 0)
	}
}

// WithLogger sets the logger for watch errors. Nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// New starts watching path. Events that happen after New returns are
// delivered by Run.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve path: %w", err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		fs:       fs,
		debounce: DefaultDebounce,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run calls onChange after the file is written or replaced, until ctx is
// done or the watcher is closed. onChange runs on the Run goroutine, so a
// slow callback delays later events rather than overlapping them.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if w.debounce == 0 {
				onChange()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				// Events were dropped; assume the file changed.
				w.log.Warn("watch: event overflow", "path", w.path)
				onChange()
				continue
			}
			w.log.Error("watch: error", "path", w.path, "err", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

// Close stops the watcher. A blocked Run returns nil.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
