// Package audit records redaction runs in a local SQLite database.
//
// Every proposal-scoped output gets one row: which design and frame it came
// from, which proposal it was produced for, the fiber counts, and a SHA-256
// hash of the serialized output. The hash lets an operator later verify that
// a distributed file is the one this run produced.
//
// Auditing is a side effect of the pipeline, not part of redaction
// correctness; it can be disabled in configuration.
package audit
