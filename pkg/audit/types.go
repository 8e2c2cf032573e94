package audit

import "time"

// Record is the audit trail entry for one proposal-scoped redacted output.
type Record struct {
	// ID is a UUID v4 identifying this record.
	ID string `json:"id"`

	// RunID is a UUID v4 shared by all records of one redaction run.
	RunID string `json:"run_id"`

	// DesignID is the design identifier of the source record set.
	DesignID uint64 `json:"design_id"`

	// FrameID is the exposure frame of the source record set.
	FrameID string `json:"frame_id"`

	// ProposalID is the proposal the output was produced for.
	ProposalID string `json:"proposal_id"`

	// Fiber counts for the output.
	FibersTotal    int `json:"fibers_total"`
	FibersMasked   int `json:"fibers_masked"`
	FibersUnmasked int `json:"fibers_unmasked"`

	// OutputFile is the file name the output was written to.
	OutputFile string `json:"output_file"`

	// OutputHash is the SHA-256 hash of the serialized output.
	OutputHash string `json:"output_hash"`

	// CreatedAt is when the record was written.
	CreatedAt time.Time `json:"created_at"`
}
