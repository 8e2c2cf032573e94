// Package fiberconf defines the in-memory model of a fiber configuration
// record set: one row per spectrograph fiber, stored column-oriented, plus
// header metadata identifying the exposure and design.
//
// A FiberConfig is the unit the redaction engine operates on. The package
// provides deep cloning with exclusive ownership, shape validation, and the
// JSON load/store collaborators that stand in for the instrument's native
// container format.
//
// # Column orientation
//
// Each per-fiber quantity is a slice indexed by fiber position. Fiber
// position is the row identity used throughout; it is not necessarily sorted
// by fiber ID. All columns must have the same length (enforced by Validate),
// and the per-row flux arrays must agree in length with the row's filter
// names.
//
// # Identifier resolution
//
// Load accepts a design identifier in any of three forms: a decimal integer,
// a 0x-prefixed hex string, or a filename. The first two are resolved to the
// conventional file name pfsConfig-0x<16-hex-digits>.json inside the input
// directory.
package fiberconf
