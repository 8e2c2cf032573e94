package fiberconf

import "fmt"

// ProposalSentinel is the proposal ID carried by fibers that are not assigned
// to any observing proposal (sky, flux standards, engineering fibers). Such
// fibers are visible in every proposal's output and never form a grouping key.
const ProposalSentinel = "N/A"

// TargetType classifies what a fiber is pointed at.
type TargetType int32

// Target type enumeration. Only Science fibers are redaction candidates;
// ScienceMasked marks a science fiber that has been overwritten in a
// proposal-scoped copy.
const (
	TargetScience       TargetType = 1
	TargetSky           TargetType = 2
	TargetFluxStd       TargetType = 3
	TargetUnassigned    TargetType = 4
	TargetEngineering   TargetType = 5
	TargetScienceMasked TargetType = 12
)

// String returns the conventional upper-case name for the target type.
func (t TargetType) String() string {
	switch t {
	case TargetScience:
		return "SCIENCE"
	case TargetSky:
		return "SKY"
	case TargetFluxStd:
		return "FLUXSTD"
	case TargetUnassigned:
		return "UNASSIGNED"
	case TargetEngineering:
		return "ENGINEERING"
	case TargetScienceMasked:
		return "SCIENCE_MASKED"
	default:
		return fmt.Sprintf("TargetType(%d)", int32(t))
	}
}

// Header carries the exposure-level metadata of a fiber configuration.
type Header struct {
	// FrameID identifies the exposure frame (e.g. "PFSF12361000").
	FrameID string `json:"frame_id"`

	// DesignID is the 64-bit design identifier, conventionally rendered as
	// a 0x-prefixed 16-digit hex string.
	DesignID uint64 `json:"design_id"`

	// DesignName is the human-readable design name.
	DesignName string `json:"design_name"`

	// ProposalID is the header-level proposal the exposure was charged to.
	ProposalID string `json:"proposal_id"`
}

// FiberConfig is a column-oriented fiber configuration record set. Every
// slice is indexed by fiber position and all slices have equal length.
//
// The flux columns (FiberFlux, PsfFlux, TotalFlux and their error
// counterparts) hold one entry per photometric band; the per-row length can
// differ between fibers but always matches the row's FilterNames length.
type FiberConfig struct {
	Header Header

	FiberID    []int32
	ProposalID []string
	CatID      []int32
	ObjID      []int64
	TargetType []TargetType

	Tract []int32
	Patch []string

	RA       []float64
	Dec      []float64
	PMRA     []float64
	PMDec    []float64
	Parallax []float64

	ObCode []string

	PfiNominal [][2]float64
	PfiCenter  [][2]float64

	FiberFlux    [][]float64
	PsfFlux      [][]float64
	TotalFlux    [][]float64
	FiberFluxErr [][]float64
	PsfFluxErr   [][]float64
	TotalFluxErr [][]float64

	FilterNames [][]string
}

// NumFibers returns the number of fiber rows in the record set.
func (c *FiberConfig) NumFibers() int {
	return len(c.FiberID)
}
