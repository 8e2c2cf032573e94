// Package metrics provides Prometheus metrics for redaction runs: record
// sets processed, proposal outputs emitted, masked/unmasked fiber counts,
// invariant-check failures, and run durations.
//
// Metrics are always recorded; they are only served over HTTP in watch mode,
// where the input directory is processed continuously.
package metrics
