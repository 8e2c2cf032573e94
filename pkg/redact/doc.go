// Package redact implements the proposal-scoped redaction engine for fiber
// configuration record sets.
//
// A single exposure carries fibers belonging to many observing proposals.
// Each proposal is entitled to a private copy of the configuration in which
// every science fiber owned by a different proposal is irreversibly obscured,
// while calibration fibers (sky, flux standards, carrying proposal ID "N/A")
// remain visible to everyone.
//
// # Pipeline
//
// Redact runs a fixed pipeline: validate the source record set, enumerate
// the distinct non-sentinel proposal IDs, and for each proposal produce a
// deep copy with the masking policy applied. A fiber in the copy for
// proposal P is masked when
//
//	proposalId != "N/A" AND proposalId != P AND targetType == SCIENCE
//
// Everything else is left byte-for-byte untouched. After masking, a
// consistency check verifies that P kept exactly its own science fibers;
// any mismatch aborts the whole batch with a ConsistencyError.
//
// Proposals are processed by a bounded worker pool. The source is never
// mutated and each copy is exclusively owned by its worker, so no
// cross-proposal synchronization is needed; results are sorted by proposal
// ID after the fan-in so output order never depends on scheduling.
//
// # Object identifiers
//
// A masked fiber's object ID must not leak the original catalog object. Two
// mutually exclusive strategies are supported: a salted SHA-256 hash of the
// (catId, objId) pair reduced to a non-negative 64-bit integer (the default;
// requires a secret salt), or negation of the fiber ID for cases where only
// within-dataset unlinking is needed.
package redact
