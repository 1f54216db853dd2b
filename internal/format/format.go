package format

import (
	"github.com/cockroachdb/errors"

	syncerrors "github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/mcp"
)

// Kind identifies one of the known configuration schemas.
type Kind string

const (
	// KindClaude is the Claude Desktop schema: a top-level "mcpServers" object.
	KindClaude Kind = "claude"

	// KindVSCode is the VSCode settings.json schema: an "mcp" object with a
	// "servers" key nested inside a larger settings document.
	KindVSCode Kind = "vscode"

	// KindStandard is the generic MCP schema: an "mcp" object with a
	// "servers" key as the document's sole concern.
	KindStandard Kind = "standard"

	// KindLegacy is the catch-all for empty, missing or unrecognized
	// documents. It always matches and must be tried last.
	KindLegacy Kind = "legacy"
)

// String returns the schema name.
func (k Kind) String() string { return string(k) }

// ParseKind converts a schema name to a Kind.
// Returns ErrUnrecognizedFormat for unknown names.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindClaude, KindVSCode, KindStandard, KindLegacy:
		return Kind(s), nil
	}
	return "", errors.Wrapf(syncerrors.ErrUnrecognizedFormat, "unknown format kind %q", s)
}

// handler bundles the capability set for one schema kind.
type handler struct {
	kind    Kind
	detect  func(doc []byte) bool
	extract func(doc []byte) (*mcp.Config, error)
	merge   func(doc []byte, cfg *mcp.Config) ([]byte, error)
}

// handlers lists schema handlers from most structurally specific to most
// permissive. Detection tries each in order and the first match wins; the
// legacy catch-all must stay last or it would mask format-specific content
// elsewhere in a document.
var handlers = []handler{
	{KindClaude, detectClaude, extractClaude, mergeClaude},
	{KindVSCode, detectVSCode, extractVSCode, mergeVSCode},
	{KindStandard, detectStandard, extractStandard, mergeStandard},
	{KindLegacy, detectLegacy, extractLegacy, mergeLegacy},
}

func lookup(kind Kind) (handler, error) {
	for _, h := range handlers {
		if h.kind == kind {
			return h, nil
		}
	}
	return handler{}, errors.Wrapf(syncerrors.ErrUnrecognizedFormat, "no handler for kind %q", kind)
}

// Detect selects the schema kind for a parsed-or-raw JSON document.
// A nil or empty document detects as KindLegacy. An error here is an
// invariant violation since the legacy handler always matches.
func Detect(doc []byte) (Kind, error) {
	for _, h := range handlers {
		if h.detect(doc) {
			return h.kind, nil
		}
	}
	return "", errors.WithDetail(syncerrors.ErrUnrecognizedFormat, "legacy fallback did not match")
}

// Extract detects the document's schema and extracts its canonical
// configuration in one step.
func Extract(doc []byte) (Kind, *mcp.Config, error) {
	kind, err := Detect(doc)
	if err != nil {
		return "", nil, err
	}
	cfg, err := ExtractKind(kind, doc)
	if err != nil {
		return kind, nil, err
	}
	return kind, cfg, nil
}

// ExtractKind extracts the canonical configuration from doc using the given
// schema's extraction rules. Fields absent in the source schema take their
// documented defaults (args empty, env empty). Returns ErrMalformedConfig
// when the schema's server collection is present but not shaped as expected.
func ExtractKind(kind Kind, doc []byte) (*mcp.Config, error) {
	h, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	return h.extract(doc)
}

// Merge returns a new document equal to doc except that the schema's server
// collection is replaced by the serialization of cfg. Every byte outside the
// MCP-owned subtree is preserved, including key order. An empty or invalid
// doc starts from an empty object.
func Merge(kind Kind, doc []byte, cfg *mcp.Config) ([]byte, error) {
	h, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	return h.merge(doc, cfg)
}
