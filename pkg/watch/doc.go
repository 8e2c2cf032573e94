// Package watch implements watch mode: it observes an input directory for
// newly arrived fiber configuration files and hands each settled file to a
// processing callback.
//
// File events are debounced per path so a file being written in several
// chunks is processed once, after it has settled. An optional cron-scheduled
// rescan sweeps the directory for files that arrived without generating file
// system events, which happens on some network mounts.
package watch
