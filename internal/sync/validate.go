package sync

import (
	"os"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/mcpsync/internal/apps"
	"github.com/thoreinstein/mcpsync/internal/format"
	"github.com/thoreinstein/mcpsync/internal/mcp"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

// ValidationResult is one application's drift check against the canonical
// configuration. A missing file counts as an empty server set, not an error:
// validation answers "does this file agree", not "can I read it".
type ValidationResult struct {
	App         string   `json:"app"`
	Path        string   `json:"path"`
	InSync      bool     `json:"in_sync"`
	Format      string   `json:"format,omitempty"`
	ServerNames []string `json:"servers,omitempty"`
	Reason      string   `json:"reason,omitempty"`
}

// ValidateAll checks every application in the table against the canonical
// configuration loaded from sourceRef. The source itself is reported too,
// always in sync by definition, so callers get one row per application.
func (s *Synchronizer) ValidateAll(sourceRef string) ([]ValidationResult, error) {
	canonical, sourceName, err := s.LoadCanonical(sourceRef)
	if err != nil {
		return nil, errors.Wrapf(err, "loading source %q", sourceRef)
	}

	results := make([]ValidationResult, 0, len(s.table))
	for _, a := range s.table {
		results = append(results, s.validateApp(a, sourceName, canonical))
	}
	return results, nil
}

func (s *Synchronizer) validateApp(a apps.App, sourceName string, canonical *mcp.Config) ValidationResult {
	result := ValidationResult{App: a.Name, Path: a.Path}

	doc, err := fileutil.ReadFileWithLimit(a.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		result.Reason = errors.Wrapf(err, "reading %s", a.Path).Error()
		return result
	}

	kind, cfg, err := format.Extract(doc)
	if err != nil {
		result.Reason = err.Error()
		return result
	}
	result.Format = kind.String()
	result.ServerNames = cfg.Names()

	if a.Name == sourceName {
		result.InSync = true
		return result
	}

	diff := cfg.Compare(canonical)
	if diff.InSync() {
		result.InSync = true
		return result
	}
	result.Reason = diff.String()
	return result
}

// AllInSync reports whether every validation result is in sync.
func AllInSync(results []ValidationResult) bool {
	for _, r := range results {
		if !r.InSync {
			return false
		}
	}
	return true
}
