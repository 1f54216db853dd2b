package format

import (
	"github.com/tidwall/gjson"

	"github.com/thoreinstein/mcpsync/internal/mcp"
)

func detectStandard(doc []byte) bool {
	if !usableDoc(doc) {
		return false
	}
	return gjson.GetBytes(doc, mcpServersPath).Exists()
}

func extractStandard(doc []byte) (*mcp.Config, error) {
	return decodeServers(gjson.GetBytes(doc, mcpServersPath))
}

// mergeStandard writes the generic {"mcp": {"servers": ...}} shape. Sibling
// keys of "servers" inside the mcp object, such as a "format" tag, are left
// alone.
func mergeStandard(doc []byte, cfg *mcp.Config) ([]byte, error) {
	return setSubtree(doc, mcpServersPath, cfg, func(c *mcp.Config) ([]byte, error) {
		return freshDoc(map[string]any{"mcp": map[string]any{"servers": c.Servers}})
	})
}
