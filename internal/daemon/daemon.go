package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/thoreinstein/mcpsync/internal/apps"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/sync"
	"github.com/thoreinstein/mcpsync/internal/watcher"
)

// Daemon runs the watch loop: when an application's config file changes and
// settles, the changed file becomes the source of truth and is synced to
// every other application. Settle notifications are handled one at a time
// on a single goroutine, so concurrent file changes never produce
// interleaved sync passes.
type Daemon struct {
	syncer *sync.Synchronizer
	watch  *watcher.Watcher
	log    *slog.Logger
	force  bool
	once   bool
}

// Option configures a Daemon.
type Option func(*options)

type options struct {
	log      *slog.Logger
	force    bool
	once     bool
	debounce time.Duration
	suppress time.Duration
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithForce allows the daemon to perform destructive writes. Without it,
// a change that would remove servers from a target is skipped and logged,
// since there is nobody at the terminal to confirm.
func WithForce(force bool) Option {
	return func(o *options) { o.force = force }
}

// WithOnce stops the daemon after the first handled change.
func WithOnce(once bool) Option {
	return func(o *options) { o.once = once }
}

// WithDebounce overrides the watcher's quiet period.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// WithSuppressWindow overrides how long the watcher ignores events on a
// file after the daemon wrote it.
func WithSuppressWindow(d time.Duration) Option {
	return func(o *options) { o.suppress = d }
}

// New builds a daemon over the application table. The synchronizer's write
// observer is wired to the watcher's suppression so the daemon's own writes
// do not come back around as change events.
func New(table []apps.App, opts ...Option) *Daemon {
	o := options{log: logging.NewDiscard()}
	for _, opt := range opts {
		opt(&o)
	}

	watchOpts := []watcher.Option{watcher.WithLogger(o.log)}
	if o.debounce > 0 {
		watchOpts = append(watchOpts, watcher.WithDebounce(o.debounce))
	}
	if o.suppress > 0 {
		watchOpts = append(watchOpts, watcher.WithSuppressWindow(o.suppress))
	}
	w := watcher.New(table, watchOpts...)

	s := sync.New(table,
		sync.WithLogger(o.log),
		sync.WithWriteObserver(w.Suppress),
	)

	return &Daemon{
		syncer: s,
		watch:  w,
		log:    o.log,
		force:  o.force,
		once:   o.once,
	}
}

// Run watches until the context is canceled. A failed sync pass is logged
// and the loop keeps going; only watcher startup failure is fatal.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.watch.Start(); err != nil {
		return err
	}
	defer d.watch.Stop()

	d.log.Info("daemon running", "apps", len(d.syncer.Apps()), "force", d.force)

	for {
		select {
		case <-ctx.Done():
			d.log.Info("daemon shutting down", "reason", context.Cause(ctx))
			return nil

		case s := <-d.watch.Settled():
			d.handleSettle(s)
			if d.once {
				d.log.Info("single change handled, exiting")
				return nil
			}
		}
	}
}

// handleSettle performs one sync pass with the changed application as the
// source. Errors are logged, never returned: a half-saved file in an editor
// must not kill the daemon.
func (d *Daemon) handleSettle(s watcher.Settle) {
	d.log.Info("change settled", "app", s.App, "path", s.Path)

	cfg, sourceName, err := d.syncer.LoadCanonical(s.App)
	if err != nil {
		d.log.Error("cannot load changed config, waiting for next change",
			"app", s.App, "error", err)
		return
	}

	targets, err := d.syncer.Targets(sourceName, nil)
	if err != nil {
		d.log.Error("resolving targets", "app", s.App, "error", err)
		return
	}

	report := d.syncer.ApplySync(cfg, targets, d.force, nil)
	d.log.Info("sync pass complete",
		"source", sourceName,
		"synced", report.Succeeded(),
		"skipped", report.Skipped(),
		"failed", report.Failed())

	results, err := d.syncer.ValidateAll(sourceName)
	if err != nil {
		d.log.Error("post-sync validation failed", "error", err)
		return
	}
	for _, r := range results {
		if !r.InSync {
			d.log.Warn("still out of sync", "app", r.App, "reason", r.Reason)
		}
	}
}
