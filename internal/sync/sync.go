package sync

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/mcpsync/internal/apps"
	syncerrors "github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/format"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/mcp"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

// ConfirmFunc decides whether a destructive write may proceed. The core
// never prompts; interactive confirmation is the caller's responsibility.
// A nil ConfirmFunc rejects every destructive operation.
type ConfirmFunc func(*DestructiveOp) bool

// Synchronizer orchestrates loading a canonical configuration from one
// source and applying it to target applications. Construct one per process
// and pass it to whichever entry point needs it.
type Synchronizer struct {
	table    []apps.App
	log      *slog.Logger
	observer func(path string)
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Synchronizer) { s.log = log }
}

// WithWriteObserver registers a callback invoked with the destination path
// immediately before each write. The change watcher uses this to suppress
// feedback events from the synchronizer's own writes.
func WithWriteObserver(fn func(path string)) Option {
	return func(s *Synchronizer) { s.observer = fn }
}

// New creates a Synchronizer over the given application table.
func New(table []apps.App, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		table: table,
		log:   logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apps returns the application table the synchronizer operates on.
func (s *Synchronizer) Apps() []apps.App {
	return s.table
}

// Targets resolves the target list for a sync: every known application
// except the source. If names is non-empty, only those applications are
// included (the source is still excluded).
func (s *Synchronizer) Targets(sourceName string, names []string) ([]apps.App, error) {
	include := func(a apps.App) bool { return true }
	if len(names) > 0 {
		wanted := make(map[string]apps.App, len(names))
		for _, n := range names {
			a, err := apps.Lookup(s.table, n)
			if err != nil {
				return nil, err
			}
			wanted[a.Name] = a
		}
		include = func(a apps.App) bool {
			_, ok := wanted[a.Name]
			return ok
		}
	}

	var targets []apps.App
	for _, a := range s.table {
		if a.Name == sourceName {
			continue
		}
		if include(a) {
			targets = append(targets, a)
		}
	}
	return targets, nil
}

// LoadCanonical loads the canonical configuration from a source reference:
// either a known application name or an arbitrary file path.
//
// A missing or empty file for a known application yields an empty
// configuration. A missing explicit path and unparseable JSON both fail
// with ErrConfigRead.
func (s *Synchronizer) LoadCanonical(sourceRef string) (*mcp.Config, string, error) {
	path := sourceRef
	name := sourceRef
	knownApp := false

	if a, err := apps.Lookup(s.table, sourceRef); err == nil {
		path = a.Path
		name = a.Name
		knownApp = true
	}

	doc, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && knownApp {
			s.log.Debug("source file missing, using empty config", "app", name, "path", path)
			return mcp.NewConfig(), name, nil
		}
		return nil, name, errors.Wrapf(syncerrors.ErrConfigRead, "reading %s: %v", path, err)
	}

	if len(doc) > 0 && !isValidJSON(doc) {
		return nil, name, errors.Wrapf(syncerrors.ErrConfigRead, "%s is not valid JSON", path)
	}

	kind, cfg, err := format.Extract(doc)
	if err != nil {
		return nil, name, err
	}

	s.log.Debug("loaded canonical config",
		"source", name, "format", kind.String(), "servers", len(cfg.Servers))
	for _, serverName := range cfg.Names() {
		server := cfg.Servers[serverName]
		s.log.Debug("server",
			"name", serverName,
			"command", server.Command,
			"args", server.Args,
			"env", logging.MaskSecrets(server.Env))
	}
	return cfg, name, nil
}

// Plan is the result of planning one target write: the merged document and,
// when the write would remove currently-present servers, the destructive
// operation record awaiting confirmation.
type Plan struct {
	App         apps.App
	Doc         []byte
	Destructive *DestructiveOp
}

// PlanWrite reads the target's current file, merges the canonical
// configuration using the application's preferred schema, and diffs the
// current server set against the canonical one. A destructive record is
// produced only when servers would be removed.
func (s *Synchronizer) PlanWrite(a apps.App, cfg *mcp.Config) (*Plan, error) {
	doc, err := fileutil.ReadFileWithLimit(a.Path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(syncerrors.ErrConfigRead, "reading %s: %v", a.Path, err)
		}
		doc = nil
	}

	// The current format may differ from the preferred one when the file
	// was edited by hand; extraction tolerates that, writing normalizes.
	_, current, err := format.Extract(doc)
	if err != nil {
		return nil, err
	}

	merged, err := format.Merge(a.PreferredFormat, doc, cfg)
	if err != nil {
		return nil, err
	}

	plan := &Plan{App: a, Doc: merged}
	if op := diffDestructive(a.Name, current, cfg); op != nil {
		plan.Destructive = op
	}
	return plan, nil
}

// ApplySync plans and executes the write for each target application.
// Destructive writes require force or an approving confirm callback;
// otherwise the target is skipped. One target's failure never prevents
// processing of the others.
func (s *Synchronizer) ApplySync(cfg *mcp.Config, targets []apps.App, force bool, confirm ConfirmFunc) *Report {
	report := NewReport()

	for _, target := range targets {
		result := s.syncTarget(target, cfg, force, confirm)
		report.Add(result)

		switch result.Outcome {
		case OutcomeSynced:
			s.log.Info("synced", "app", target.Name, "path", target.Path,
				"action", result.Action, "bytes", result.Size)
		case OutcomeSkipped:
			s.log.Warn("skipped destructive write", "app", target.Name,
				"would_remove", result.Destructive.ServersToRemove)
		case OutcomeFailed:
			s.log.Error("sync failed", "app", target.Name, "error", result.Err)
		}
	}

	return report
}

func (s *Synchronizer) syncTarget(target apps.App, cfg *mcp.Config, force bool, confirm ConfirmFunc) TargetResult {
	result := TargetResult{App: target.Name, Path: target.Path}

	plan, err := s.PlanWrite(target, cfg)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}

	result.Destructive = plan.Destructive
	if plan.Destructive != nil && !force {
		if confirm == nil || !confirm(plan.Destructive) {
			result.Outcome = OutcomeSkipped
			return result
		}
	}

	if _, statErr := os.Stat(target.Path); statErr == nil {
		result.Action = ActionUpdated
	} else {
		result.Action = ActionCreated
	}

	if err := s.write(target.Path, plan.Doc); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}

	result.Outcome = OutcomeSynced
	result.Size = len(plan.Doc)
	return result
}

// write performs the atomic replace, telling the write observer first so a
// watching daemon can suppress the resulting filesystem event.
func (s *Synchronizer) write(path string, doc []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(syncerrors.ErrWrite, "creating parent directory: %v", err)
	}

	if s.observer != nil {
		s.observer(path)
	}

	if err := fileutil.AtomicWriteFile(path, doc, 0o644); err != nil {
		return errors.Wrapf(syncerrors.ErrWrite, "%v", err)
	}
	return nil
}

// diffDestructive computes the destructive-operation record for replacing
// current with next: any server present currently but absent from next is
// slated for removal. Returns nil when nothing would be removed.
func diffDestructive(appName string, current, next *mcp.Config) *DestructiveOp {
	var toRemove, remaining []string
	for _, name := range current.Names() {
		if _, ok := next.Servers[name]; ok {
			remaining = append(remaining, name)
		} else {
			toRemove = append(toRemove, name)
		}
	}
	if len(toRemove) == 0 {
		return nil
	}
	return &DestructiveOp{
		AppName:          appName,
		ExistingServers:  current.Names(),
		ServersToRemove:  toRemove,
		RemainingServers: remaining,
	}
}

// isValidJSON reports whether doc parses as JSON. Whitespace-only files
// count as empty, not invalid.
func isValidJSON(doc []byte) bool {
	if len(bytes.TrimSpace(doc)) == 0 {
		return true
	}
	return json.Valid(doc)
}
