package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/thoreinstein/mcpsync/internal/apps"
	"github.com/thoreinstein/mcpsync/internal/logging"
)

// DefaultDebounce is the quiet period after the last change to a file
// before its settle notification fires. Editors often write a file several
// times in quick succession (save, format-on-save, backup rename); the
// debounce collapses those into one notification.
const DefaultDebounce = 2 * time.Second

// DefaultSuppressWindow is how long a Suppress call shields a path from
// event delivery. It needs to outlast the create+rename pair produced by
// an atomic replace.
const DefaultSuppressWindow = 1 * time.Second

// settleBuffer bounds the settle channel. When a consumer stalls longer
// than this many settled files, further notifications are dropped with a
// warning rather than blocking the event loop.
const settleBuffer = 16

// Settle announces that a watched file changed and then stayed quiet for
// the debounce period.
type Settle struct {
	App  string
	Path string
}

// Watcher monitors the config files of a set of applications and reports
// debounced changes on its settle channel. Files that do not exist yet are
// covered too: the watch is on each parent directory, filtered to the exact
// paths of interest.
type Watcher struct {
	table    []apps.App
	debounce time.Duration
	suppress time.Duration
	log      *slog.Logger

	settle chan Settle

	mu         sync.Mutex
	fsw        *fsnotify.Watcher
	timers     map[string]*time.Timer
	suppressed map[string]time.Time
	watched    map[string]string // cleaned path -> app name
	running    bool
	stopCh     chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the per-file quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithSuppressWindow overrides how long Suppress shields a path.
func WithSuppressWindow(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.suppress = d
		}
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(log *slog.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

// New creates a watcher over the given application table. Call Start to
// begin monitoring.
func New(table []apps.App, opts ...Option) *Watcher {
	w := &Watcher{
		table:      table,
		debounce:   DefaultDebounce,
		suppress:   DefaultSuppressWindow,
		log:        logging.NewDiscard(),
		settle:     make(chan Settle, settleBuffer),
		timers:     make(map[string]*time.Timer),
		suppressed: make(map[string]time.Time),
		watched:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Settled returns the channel on which debounced change notifications are
// delivered. The channel is never closed; consumers stop via their own
// context.
func (w *Watcher) Settled() <-chan Settle {
	return w.settle
}

// Start registers the filesystem watches and launches the event loop.
// Parent directories that do not exist yet are created so the watch can be
// established before the application ever writes its file.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating filesystem watcher")
	}

	dirs := make(map[string]bool)
	for _, a := range w.table {
		path := filepath.Clean(a.Path)
		w.watched[path] = a.Name
		dirs[filepath.Dir(path)] = true
	}

	for dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fsw.Close()
			return errors.Wrapf(err, "creating watch directory %s", dir)
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return errors.Wrapf(err, "watching %s", dir)
		}
		w.log.Debug("watching directory", "dir", dir)
	}

	w.fsw = fsw
	w.stopCh = make(chan struct{})
	w.running = true

	go w.loop(fsw.Events, fsw.Errors)

	w.log.Info("watcher started",
		"files", len(w.watched), "debounce", w.debounce)
	return nil
}

// loop drains fsnotify events until Stop. Watch errors are logged and the
// loop continues; a single bad event never takes the daemon down.
func (w *Watcher) loop(events <-chan fsnotify.Event, errs <-chan error) {
	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.log.Error("watch error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Remove counts too: editors and atomic writers often delete and
	// recreate the file mid-burst.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	path := filepath.Clean(event.Name)

	w.mu.Lock()
	appName, ok := w.watched[path]
	if !ok {
		w.mu.Unlock()
		return
	}

	if until, found := w.suppressed[path]; found {
		if time.Now().Before(until) {
			w.mu.Unlock()
			w.log.Debug("suppressed self-inflicted event", "path", path)
			return
		}
		delete(w.suppressed, path)
	}

	if timer, exists := w.timers[path]; exists {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.fireSettle(appName, path)
	})
	w.mu.Unlock()

	w.log.Debug("change detected", "app", appName, "path", path, "op", event.Op.String())
}

func (w *Watcher) fireSettle(appName, path string) {
	w.mu.Lock()
	delete(w.timers, path)
	running := w.running
	w.mu.Unlock()

	if !running {
		return
	}

	select {
	case w.settle <- Settle{App: appName, Path: path}:
		w.log.Debug("file settled", "app", appName, "path", path)
	default:
		w.log.Warn("settle channel full, dropping notification",
			"app", appName, "path", path)
	}
}

// Suppress shields a path from event delivery for the suppress window.
// The synchronizer calls this through its write observer right before each
// of its own writes, so the daemon does not react to changes it caused.
func (w *Watcher) Suppress(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.suppressed[filepath.Clean(path)] = time.Now().Add(w.suppress)
}

// Stop cancels pending debounce timers and closes the filesystem watcher.
// The settle channel stays open; anything already buffered may still be
// read.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	close(w.stopCh)

	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}

	err := w.fsw.Close()
	w.fsw = nil
	if err != nil {
		return errors.Wrap(err, "closing filesystem watcher")
	}

	w.log.Info("watcher stopped")
	return nil
}

// Debounce returns the configured quiet period.
func (w *Watcher) Debounce() time.Duration {
	return w.debounce
}

// SuppressWindow returns the configured suppression window.
func (w *Watcher) SuppressWindow() time.Duration {
	return w.suppress
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
