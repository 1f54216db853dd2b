package format

import (
	"github.com/tidwall/gjson"

	"github.com/thoreinstein/mcpsync/internal/mcp"
)

// mcpServersPath locates the server collection inside an "mcp" object.
// Both the VSCode and standard schemas nest servers under this path; the
// VSCode variant lives inside a settings.json that also carries unrelated
// editor settings.
const mcpServersPath = "mcp.servers"

func detectVSCode(doc []byte) bool {
	if !usableDoc(doc) {
		return false
	}
	if !gjson.GetBytes(doc, mcpServersPath).Exists() {
		return false
	}
	// A settings document has keys besides "mcp"; a bare {"mcp": ...}
	// document is the standard schema, not VSCode's.
	other := false
	gjson.ParseBytes(doc).ForEach(func(key, _ gjson.Result) bool {
		if key.String() != "mcp" {
			other = true
			return false
		}
		return true
	})
	return other
}

func extractVSCode(doc []byte) (*mcp.Config, error) {
	return decodeServers(gjson.GetBytes(doc, mcpServersPath))
}

func mergeVSCode(doc []byte, cfg *mcp.Config) ([]byte, error) {
	return setSubtree(doc, mcpServersPath, cfg, func(c *mcp.Config) ([]byte, error) {
		return freshDoc(map[string]any{"mcp": map[string]any{"servers": c.Servers}})
	})
}
