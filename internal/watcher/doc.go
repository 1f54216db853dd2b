// Package watcher turns raw filesystem events on application config files
// into debounced settle notifications. It watches parent directories so
// files that do not exist yet are covered, collapses editor write bursts
// with a per-file quiet period, and lets the synchronizer suppress the
// events its own writes produce.
package watcher
