package fiberconf

import "fmt"

// ShapeError reports a structural defect in a record set: a column whose
// length disagrees with the fiber count, or a flux array whose per-row length
// disagrees with the row's filter names.
type ShapeError struct {
	// Column is the name of the offending column.
	Column string

	// Fiber is the fiber position the defect was found at, or -1 for a
	// column-level length mismatch.
	Fiber int

	// Want and Got are the expected and actual lengths.
	Want int
	Got  int
}

// Error returns the error message.
func (e *ShapeError) Error() string {
	if e.Fiber < 0 {
		return fmt.Sprintf("column %s: length %d, want %d", e.Column, e.Got, e.Want)
	}
	return fmt.Sprintf("column %s fiber %d: length %d, want %d", e.Column, e.Fiber, e.Got, e.Want)
}

// Validate checks the structural integrity of the record set: every column
// must have exactly NumFibers entries, and every flux array must have the
// same per-row length as the row's filter names. It returns the first defect
// found as a *ShapeError, or nil for a well-formed record set.
//
// A zero-row record set is valid.
func (c *FiberConfig) Validate() error {
	n := c.NumFibers()

	columns := []struct {
		name string
		got  int
	}{
		{"proposalId", len(c.ProposalID)},
		{"catId", len(c.CatID)},
		{"objId", len(c.ObjID)},
		{"targetType", len(c.TargetType)},
		{"tract", len(c.Tract)},
		{"patch", len(c.Patch)},
		{"ra", len(c.RA)},
		{"dec", len(c.Dec)},
		{"pmRa", len(c.PMRA)},
		{"pmDec", len(c.PMDec)},
		{"parallax", len(c.Parallax)},
		{"obCode", len(c.ObCode)},
		{"pfiNominal", len(c.PfiNominal)},
		{"pfiCenter", len(c.PfiCenter)},
		{"fiberFlux", len(c.FiberFlux)},
		{"psfFlux", len(c.PsfFlux)},
		{"totalFlux", len(c.TotalFlux)},
		{"fiberFluxErr", len(c.FiberFluxErr)},
		{"psfFluxErr", len(c.PsfFluxErr)},
		{"totalFluxErr", len(c.TotalFluxErr)},
		{"filterNames", len(c.FilterNames)},
	}
	for _, col := range columns {
		if col.got != n {
			return &ShapeError{Column: col.name, Fiber: -1, Want: n, Got: col.got}
		}
	}

	// Per-row flux cardinality must match the row's filter names.
	fluxColumns := []struct {
		name string
		col  [][]float64
	}{
		{"fiberFlux", c.FiberFlux},
		{"psfFlux", c.PsfFlux},
		{"totalFlux", c.TotalFlux},
		{"fiberFluxErr", c.FiberFluxErr},
		{"psfFluxErr", c.PsfFluxErr},
		{"totalFluxErr", c.TotalFluxErr},
	}
	for i := 0; i < n; i++ {
		want := len(c.FilterNames[i])
		for _, fc := range fluxColumns {
			if len(fc.col[i]) != want {
				return &ShapeError{Column: fc.name, Fiber: i, Want: want, Got: len(fc.col[i])}
			}
		}
	}

	return nil
}
