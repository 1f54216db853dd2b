// Package apps holds the static descriptor table for the six supported
// applications: Claude Desktop, VSCode, Cursor, Windsurf, and the Roo Code
// extension inside VSCode and Windsurf.
//
// Each descriptor names the application's config file path and the schema
// used when writing to it. Path resolution is a pure function of the OS and
// the home directory and happens once at startup; per-application overrides
// from the user's mcpsync config replace individual paths afterward.
package apps
