// Package mcp provides the canonical MCP (Model Context Protocol) server
// configuration types used as the pivot format for all conversions.
//
// A canonical [Config] is the application-agnostic set of named server
// launch specs. Format handlers (see internal/format) extract a Config from
// any supported application schema and merge one back without disturbing
// unrelated settings.
//
// # Server Entries
//
// The [Server] type represents one named launch spec:
//
//	server := &mcp.Server{
//	    Name:    "github",
//	    Command: "npx",
//	    Args:    []string{"-y", "@modelcontextprotocol/server-github"},
//	    Env:     map[string]string{"GITHUB_TOKEN": "${GITHUB_TOKEN}"},
//	}
//
// # Passthrough Fields
//
// A source schema may carry fields the canonical model does not interpret
// (timeouts, disabled flags, format tags). [Server] preserves them through
// marshal/unmarshal cycles so re-emitting the document that was read loses
// nothing.
//
// # Comparison
//
// [Server.Equal] compares command, args (order-sensitive) and env (key and
// value). Passthrough metadata is deliberately excluded so two applications
// carrying different format tags still validate as in sync.
// [Config.Compare] joins two configurations by server name and reports
// missing, extra and changed entries.
package mcp
