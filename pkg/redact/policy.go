package redact

import (
	"fmt"
	"math"

	"pfs-obs/blackout/pkg/fiberconf"
)

// ObjIDStrategy selects how a masked fiber's object ID is derived.
type ObjIDStrategy string

const (
	// ObjIDHashed replaces the object ID with a salted SHA-256 hash of the
	// original (catId, objId) pair, reduced to a non-negative 64-bit
	// integer. Requires MaskingPolicy.Salt.
	ObjIDHashed ObjIDStrategy = "hashed"

	// ObjIDNegateFiber replaces the object ID with the negated fiber ID.
	// Reversible given the fiber table, but strips the association with
	// the original catalog object.
	ObjIDNegateFiber ObjIDStrategy = "negate-fiber"
)

// FluxField identifies one of the per-band flux columns subject to masking.
type FluxField int

// Flux column enumeration.
const (
	FluxFiber FluxField = iota
	FluxPsf
	FluxTotal
	FluxFiberErr
	FluxPsfErr
	FluxTotalErr
	numFluxFields
)

// String returns the datamodel column name for the flux field.
func (f FluxField) String() string {
	switch f {
	case FluxFiber:
		return "fiberFlux"
	case FluxPsf:
		return "psfFlux"
	case FluxTotal:
		return "totalFlux"
	case FluxFiberErr:
		return "fiberFluxErr"
	case FluxPsfErr:
		return "psfFluxErr"
	case FluxTotalErr:
		return "totalFluxErr"
	default:
		return fmt.Sprintf("FluxField(%d)", int(f))
	}
}

// column returns the backing column for the flux field in cfg.
func (f FluxField) column(cfg *fiberconf.FiberConfig) [][]float64 {
	switch f {
	case FluxFiber:
		return cfg.FiberFlux
	case FluxPsf:
		return cfg.PsfFlux
	case FluxTotal:
		return cfg.TotalFlux
	case FluxFiberErr:
		return cfg.FiberFluxErr
	case FluxPsfErr:
		return cfg.PsfFluxErr
	case FluxTotalErr:
		return cfg.TotalFluxErr
	default:
		return nil
	}
}

// FieldOverrides is the typed field-override table applied to a masked
// fiber. Every field is written unconditionally; there is no per-field
// opt-out, only different replacement values.
type FieldOverrides struct {
	Tract      int32
	Patch      string
	RA         float64
	Dec        float64
	PMRA       float64
	PMDec      float64
	Parallax   float64
	ProposalID string
	ObCode     string
	PfiNominal [2]float64
	PfiCenter  [2]float64
	TargetType fiberconf.TargetType
}

// MaskingPolicy describes which fields of a masked fiber are overwritten and
// with what values. Construct with DefaultPolicy and override fields as
// needed; a zero MaskingPolicy is not valid.
type MaskingPolicy struct {
	// CatIDOverride is the catalog ID written to masked fibers.
	CatIDOverride int32

	// Overrides is the field-override table for masked fibers.
	Overrides FieldOverrides

	// FluxFields lists the flux columns whose per-band arrays are
	// fill-replaced, preserving each row's cardinality.
	FluxFields []FluxField

	// FluxFill is the value written to every entry of a masked flux array.
	FluxFill float64

	// FilterFill is the token written to every entry of a masked fiber's
	// filter names.
	FilterFill string

	// Strategy selects the object ID derivation for masked fibers.
	Strategy ObjIDStrategy

	// Salt is the secret salt for the hashed strategy. Required when
	// Strategy is ObjIDHashed; ignored otherwise.
	Salt string
}

// DefaultPolicy returns the canonical masking policy.
//
// The values follow the newest masking variant in production use: catalog ID
// 9000, parallax 1.0e-7, proposal and observation codes "masked", sentinel
// sky coordinates, NaN-filled fluxes and focal-plane positions, and the
// hashed object ID strategy (the salt must still be supplied by the caller).
func DefaultPolicy() MaskingPolicy {
	nan := math.NaN()
	return MaskingPolicy{
		CatIDOverride: 9000,
		Overrides: FieldOverrides{
			Tract:      -1,
			Patch:      "-1,-1",
			RA:         -99,
			Dec:        -99,
			PMRA:       0.0,
			PMDec:      0.0,
			Parallax:   1.0e-7,
			ProposalID: "masked",
			ObCode:     "masked",
			PfiNominal: [2]float64{nan, nan},
			PfiCenter:  [2]float64{nan, nan},
			TargetType: fiberconf.TargetScienceMasked,
		},
		FluxFields: []FluxField{
			FluxFiber, FluxPsf, FluxTotal,
			FluxFiberErr, FluxPsfErr, FluxTotalErr,
		},
		FluxFill:   nan,
		FilterFill: "none",
		Strategy:   ObjIDHashed,
	}
}

// Validate checks the policy for configuration errors. It is called by
// New before any fiber is processed.
func (p *MaskingPolicy) Validate() error {
	switch p.Strategy {
	case ObjIDHashed:
		if p.Salt == "" {
			return &ConfigError{Field: "salt", Cause: ErrMissingSalt}
		}
	case ObjIDNegateFiber:
		// No salt needed.
	default:
		return &ConfigError{Field: "strategy", Cause: fmt.Errorf("%w: %q", ErrUnknownStrategy, p.Strategy)}
	}

	if p.FilterFill == "" {
		return &ConfigError{Field: "filter_fill", Cause: fmt.Errorf("filter fill token must not be empty")}
	}

	for _, f := range p.FluxFields {
		if f < 0 || f >= numFluxFields {
			return &ConfigError{Field: "flux_fields", Cause: fmt.Errorf("unknown flux field %d", int(f))}
		}
	}

	if p.Overrides.ProposalID == fiberconf.ProposalSentinel {
		// Masked fibers must stay distinguishable from calibration fibers,
		// otherwise a later redaction pass would treat them as universally
		// visible.
		return &ConfigError{Field: "overrides.proposal_id", Cause: fmt.Errorf("masked proposal ID must not be the sentinel %q", fiberconf.ProposalSentinel)}
	}

	return nil
}
