package redact

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrMissingSalt indicates the hashed object ID strategy was selected
	// without a secret salt. There is no silent default: an unsalted hash
	// would be trivially reversible by anyone with the public catalogs.
	ErrMissingSalt = errors.New("secret salt required for the hashed object ID strategy")

	// ErrUnknownStrategy indicates an unrecognized object ID strategy.
	ErrUnknownStrategy = errors.New("unknown object ID strategy")
)

// ConfigError indicates a malformed masking policy. It is surfaced before
// any fiber is processed.
type ConfigError struct {
	Field string
	Cause error
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("masking policy %s: %v", e.Field, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// InputError indicates the source record set failed shape validation and no
// proposal-level processing was attempted.
type InputError struct {
	Cause error
}

// Error returns the error message.
func (e *InputError) Error() string {
	return fmt.Sprintf("invalid source record set: %v", e.Cause)
}

// Unwrap returns the underlying cause.
func (e *InputError) Unwrap() error {
	return e.Cause
}

// ConsistencyError indicates the post-masking invariant check failed for a
// proposal: the number of science fibers the proposal owns in the source
// differs from the number left unmasked in its redacted copy. This means
// either a masking-predicate bug or corruption of the copy, and the batch is
// aborted rather than risk leaking another proposal's fiber or dropping the
// requester's own.
type ConsistencyError struct {
	ProposalID  string
	WantScience int
	GotScience  int
}

// Error returns the error message.
func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("proposal %s: science fiber count mismatch after masking: source has %d, redacted copy has %d",
		e.ProposalID, e.WantScience, e.GotScience)
}
