package sync

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
)

// DestructiveOp records a planned write that would remove servers present
// in the target's current file. It is created during the pre-write diff,
// consumed by the confirmation gate, and discarded after the decision.
type DestructiveOp struct {
	AppName          string   `json:"app"`
	ExistingServers  []string `json:"existing_servers"`
	ServersToRemove  []string `json:"servers_to_remove"`
	RemainingServers []string `json:"remaining_servers"`
}

// String renders the itemized removal list shown before confirmation.
func (op *DestructiveOp) String() string {
	return fmt.Sprintf("%s: would remove %s (keeping %s)",
		op.AppName,
		strings.Join(op.ServersToRemove, ", "),
		orNone(op.RemainingServers))
}

func orNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// Outcome classifies one target's sync result.
type Outcome string

const (
	OutcomeSynced  Outcome = "synced"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Write actions for the per-target report detail.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// TargetResult is one application's entry in a sync report.
type TargetResult struct {
	App         string         `json:"app"`
	Path        string         `json:"path"`
	Outcome     Outcome        `json:"outcome"`
	Action      string         `json:"action,omitempty"`
	Size        int            `json:"size,omitempty"`
	Destructive *DestructiveOp `json:"destructive,omitempty"`
	Err         error          `json:"-"`
}

// Report aggregates per-target outcomes for one synchronization pass.
// Every target gets exactly one entry, success or not.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Source    string         `json:"source,omitempty"`
	Results   []TargetResult `json:"results"`
}

// NewReport creates an empty report stamped with the current time.
func NewReport() *Report {
	return &Report{Timestamp: time.Now()}
}

// Add appends a target result.
func (r *Report) Add(result TargetResult) {
	r.Results = append(r.Results, result)
}

// Succeeded returns the number of synced targets.
func (r *Report) Succeeded() int { return r.count(OutcomeSynced) }

// Skipped returns the number of targets skipped at the confirmation gate.
func (r *Report) Skipped() int { return r.count(OutcomeSkipped) }

// Failed returns the number of failed targets.
func (r *Report) Failed() int { return r.count(OutcomeFailed) }

func (r *Report) count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// OK returns true if every target synced.
func (r *Report) OK() bool {
	return r.Failed() == 0 && r.Skipped() == 0
}

// DestructiveOps returns the destructive records encountered in this pass.
func (r *Report) DestructiveOps() []*DestructiveOp {
	var ops []*DestructiveOp
	for _, res := range r.Results {
		if res.Destructive != nil {
			ops = append(ops, res.Destructive)
		}
	}
	return ops
}

// Print writes a human-readable summary to w. Color is applied when w
// supports it (fatih/color handles that per-stream).
func (r *Report) Print(w io.Writer) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	fmt.Fprintf(w, "Sync report (%s)\n", r.Timestamp.Format(time.RFC3339))
	if r.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", r.Source)
	}

	for _, res := range r.Results {
		switch res.Outcome {
		case OutcomeSynced:
			green.Fprintf(w, "  ✓ %s", res.App)
			fmt.Fprintf(w, " %s (%s, %d bytes)\n", res.Path, res.Action, res.Size)
		case OutcomeSkipped:
			yellow.Fprintf(w, "  - %s", res.App)
			fmt.Fprintf(w, " skipped: %s\n", res.Destructive)
		case OutcomeFailed:
			red.Fprintf(w, "  ✗ %s", res.App)
			fmt.Fprintf(w, " %v\n", res.Err)
		}
	}

	fmt.Fprintf(w, "%d synced, %d skipped, %d failed\n",
		r.Succeeded(), r.Skipped(), r.Failed())
}

// MarshalJSON includes error strings, which encoding/json would drop.
func (r *Report) MarshalJSON() ([]byte, error) {
	type entry struct {
		TargetResult
		Error string `json:"error,omitempty"`
	}
	entries := make([]entry, len(r.Results))
	for i, res := range r.Results {
		entries[i].TargetResult = res
		if res.Err != nil {
			entries[i].Error = res.Err.Error()
		}
	}
	out := struct {
		Timestamp time.Time `json:"timestamp"`
		Source    string    `json:"source,omitempty"`
		Results   []entry   `json:"results"`
	}{r.Timestamp, r.Source, entries}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling report")
	}
	return data, nil
}
