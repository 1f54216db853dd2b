package format

import (
	"github.com/thoreinstein/mcpsync/internal/mcp"
)

// detectLegacy always matches. It is the catch-all for empty, missing and
// unrecognized documents and must be the last handler tried.
func detectLegacy(doc []byte) bool {
	return true
}

// extractLegacy yields an empty configuration: a legacy document carries no
// recognizable server collection.
func extractLegacy(doc []byte) (*mcp.Config, error) {
	return mcp.NewConfig(), nil
}

// mergeLegacy upgrades an unrecognized document to the standard schema.
// Writing always targets a concrete schema, so this only runs when a caller
// explicitly asks for a legacy merge.
func mergeLegacy(doc []byte, cfg *mcp.Config) ([]byte, error) {
	return mergeStandard(doc, cfg)
}
