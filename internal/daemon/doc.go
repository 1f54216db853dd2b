// Package daemon runs the continuous bidirectional sync loop: the watcher
// reports which application's config file changed, the daemon treats that
// file as the source of truth and propagates it to every other application,
// then validates the result. Whichever file changed last wins.
package daemon
