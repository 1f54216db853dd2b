package format

import (
	"github.com/tidwall/gjson"

	"github.com/thoreinstein/mcpsync/internal/mcp"
)

// claudeServersKey is the top-level server collection key in
// claude_desktop_config.json.
const claudeServersKey = "mcpServers"

func detectClaude(doc []byte) bool {
	if !usableDoc(doc) {
		return false
	}
	return gjson.GetBytes(doc, claudeServersKey).Exists()
}

func extractClaude(doc []byte) (*mcp.Config, error) {
	return decodeServers(gjson.GetBytes(doc, claudeServersKey))
}

func mergeClaude(doc []byte, cfg *mcp.Config) ([]byte, error) {
	return setSubtree(doc, claudeServersKey, cfg, func(c *mcp.Config) ([]byte, error) {
		return freshDoc(map[string]any{claudeServersKey: c.Servers})
	})
}
