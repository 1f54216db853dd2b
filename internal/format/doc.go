// Package format recognizes, reads and writes the configuration file shapes
// of every supported application.
//
// Each schema kind has a detect/extract/merge capability set registered in a
// fixed-priority dispatch table, tried from most structurally specific to
// most permissive:
//
//  1. [KindClaude]: top-level "mcpServers" object (claude_desktop_config.json)
//  2. [KindVSCode]: "mcp.servers" nested inside a larger settings.json
//  3. [KindStandard]: a generic "mcp" object with a "servers" key
//  4. [KindLegacy]: catch-all; always matches
//
// Documents are handled as raw JSON bytes. Detection and extraction query
// subtrees with gjson; merging replaces only the MCP-owned subtree with
// sjson so every unrelated key keeps its exact bytes and ordering. That is
// the preservation guarantee: a settings.json full of editor options comes
// back from a merge with those options untouched.
//
//	kind, cfg, err := format.Extract(doc)           // read any schema
//	out, err := format.Merge(format.KindVSCode, doc, cfg) // write one schema
package format
