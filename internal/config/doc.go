// Package config loads the mcpsync tool's own configuration file.
//
// This is distinct from the application MCP configs being synchronized:
// it controls how mcpsync behaves (debounce timing, per-application path
// overrides), not what servers exist. The file lives under the XDG config
// home and every setting has a default, so running without a file works.
package config
