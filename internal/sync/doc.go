// Package sync implements the synchronization core: loading a canonical
// configuration from a source application, planning per-target writes with
// the target's preferred schema, detecting destructive server removals
// before they happen, and validating drift across all applications.
//
// The Synchronizer itself never prompts and never watches the filesystem.
// Interactive confirmation arrives through a ConfirmFunc, and the daemon
// hooks the write observer to keep its watcher from reacting to writes the
// synchronizer made itself.
package sync
