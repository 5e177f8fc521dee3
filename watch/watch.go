package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/sdfc/log"
)

// DefaultDebounce is the default quiet period before a change is reported.
const DefaultDebounce = 100 * time.Millisecond

// Predefined errors (sentinel values).
var (
	ErrRunning = errors.New("watcher already running")
	ErrClosed  = errors.New("watcher channel closed")
)

// Option configures a [FileWatcher].
type Option func(*FileWatcher)

// WithLogger sets the structured logger.
func WithLogger(logger log.Logger) Option {
	return func(w *FileWatcher) {
		w.logger = logger
	}
}

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *FileWatcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithInitial reports a change as soon as watching begins, so the callback
// also handles the file's initial contents.
func WithInitial(initial bool) Option {
	return func(w *FileWatcher) {
		w.initial = initial
	}
}

// FileWatcher reports changes to a single file.
type FileWatcher struct {
	logger   log.Logger
	path     string
	dir      string
	debounce time.Duration
	running  atomic.Bool
	initial  bool
}

// New returns a FileWatcher for the file at path.
func New(path string, opts ...Option) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", path, err)
	}

	w := &FileWatcher{
		path:     abs,
		dir:      filepath.Dir(abs),
		debounce: DefaultDebounce,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *FileWatcher) Path() string { return w.path }

// Watch calls onChange after each burst of changes to the file until ctx is
// canceled. Errors returned by onChange are logged and watching continues.
// Watch returns nil when ctx is canceled.
func (w *FileWatcher) Watch(ctx context.Context, onChange func() error) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer w.running.Store(false)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %q: %w", w.dir, err)
	}

	debouncer := NewDebouncer(w.debounce)
	defer debouncer.Stop()

	fire := make(chan struct{}, 1)
	signal := func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	}

	w.logger.InfoContext(ctx, "file watcher started",
		slog.String("path", w.path),
		slog.Int64("debounce_ms", w.debounce.Milliseconds()),
	)

	if w.initial {
		signal()
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "file watcher stopped")

			return nil

		case <-fire:
			if err := onChange(); err != nil {
				w.logger.WarnContext(ctx, "change handler failed",
					slog.String("path", w.path),
					slog.Any("error", err),
				)
			}

		case event, ok := <-fsw.Events:
			if !ok {
				return ErrClosed
			}

			if !w.relevant(event) {
				continue
			}

			w.logger.TraceContext(ctx, "file event",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)

			debouncer.Trigger(signal)

		case err, ok := <-fsw.Errors:
			if !ok {
				return ErrClosed
			}

			w.logger.ErrorContext(ctx, "file watcher error", slog.Any("error", err))
		}
	}
}

// relevant reports whether event modifies the watched file.
func (w *FileWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}

	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
