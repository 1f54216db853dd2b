package mcp

import (
	"fmt"
	"sort"
	"strings"
)

// Equal reports whether two servers describe the same launch spec.
// Command, Args (order-sensitive) and Env (key/value) are compared.
// Passthrough fields are format metadata and never cause a mismatch.
func (s *Server) Equal(other *Server) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Command != other.Command {
		return false
	}
	if len(s.Args) != len(other.Args) {
		return false
	}
	for i, arg := range s.Args {
		if other.Args[i] != arg {
			return false
		}
	}
	if len(s.Env) != len(other.Env) {
		return false
	}
	for k, v := range s.Env {
		if ov, ok := other.Env[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Diff describes how a configuration differs from a reference configuration.
// Empty slices on all three fields mean the two configurations agree.
type Diff struct {
	// Missing lists servers present in the reference but absent here.
	Missing []string
	// Extra lists servers present here but absent from the reference.
	Extra []string
	// Changed lists servers present in both whose specs differ.
	Changed []string
}

// InSync returns true if the diff records no differences.
func (d Diff) InSync() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0 && len(d.Changed) == 0
}

// String renders a human-readable summary, e.g.
// "missing: git; extra: fetch; changed: fs".
func (d Diff) String() string {
	if d.InSync() {
		return "in sync"
	}
	var parts []string
	if len(d.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing: %s", strings.Join(d.Missing, ", ")))
	}
	if len(d.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("extra: %s", strings.Join(d.Extra, ", ")))
	}
	if len(d.Changed) > 0 {
		parts = append(parts, fmt.Sprintf("changed: %s", strings.Join(d.Changed, ", ")))
	}
	return strings.Join(parts, "; ")
}

// Compare diffs c against the reference configuration, joining servers by name.
func (c *Config) Compare(reference *Config) Diff {
	var d Diff
	for name, ref := range reference.Servers {
		got, ok := c.Servers[name]
		if !ok {
			d.Missing = append(d.Missing, name)
			continue
		}
		if !got.Equal(ref) {
			d.Changed = append(d.Changed, name)
		}
	}
	for name := range c.Servers {
		if _, ok := reference.Servers[name]; !ok {
			d.Extra = append(d.Extra, name)
		}
	}
	sort.Strings(d.Missing)
	sort.Strings(d.Extra)
	sort.Strings(d.Changed)
	return d
}
