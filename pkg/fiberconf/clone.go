package fiberconf

// Clone returns a deep, independently owned copy of the record set. No slice
// in the returned config aliases the receiver; mutating one never affects the
// other. This is what gives each proposal-scoped redacted copy exclusive
// ownership of its data.
func (c *FiberConfig) Clone() *FiberConfig {
	out := &FiberConfig{
		Header: c.Header,

		FiberID:    append([]int32(nil), c.FiberID...),
		ProposalID: append([]string(nil), c.ProposalID...),
		CatID:      append([]int32(nil), c.CatID...),
		ObjID:      append([]int64(nil), c.ObjID...),
		TargetType: append([]TargetType(nil), c.TargetType...),

		Tract: append([]int32(nil), c.Tract...),
		Patch: append([]string(nil), c.Patch...),

		RA:       append([]float64(nil), c.RA...),
		Dec:      append([]float64(nil), c.Dec...),
		PMRA:     append([]float64(nil), c.PMRA...),
		PMDec:    append([]float64(nil), c.PMDec...),
		Parallax: append([]float64(nil), c.Parallax...),

		ObCode: append([]string(nil), c.ObCode...),

		PfiNominal: append([][2]float64(nil), c.PfiNominal...),
		PfiCenter:  append([][2]float64(nil), c.PfiCenter...),

		FiberFlux:    cloneNested(c.FiberFlux),
		PsfFlux:      cloneNested(c.PsfFlux),
		TotalFlux:    cloneNested(c.TotalFlux),
		FiberFluxErr: cloneNested(c.FiberFluxErr),
		PsfFluxErr:   cloneNested(c.PsfFluxErr),
		TotalFluxErr: cloneNested(c.TotalFluxErr),

		FilterNames: cloneNestedStrings(c.FilterNames),
	}
	return out
}

// cloneNested deep-copies a ragged float column. The outer slice and every
// inner slice are freshly allocated.
func cloneNested(src [][]float64) [][]float64 {
	if src == nil {
		return nil
	}
	out := make([][]float64, len(src))
	for i, row := range src {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func cloneNestedStrings(src [][]string) [][]string {
	if src == nil {
		return nil
	}
	out := make([][]string, len(src))
	for i, row := range src {
		out[i] = append([]string(nil), row...)
	}
	return out
}
