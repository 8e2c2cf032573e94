package fiberconf

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// nullFloat is a float64 that round-trips NaN through JSON as null. Masked
// flux entries and focal-plane coordinates are NaN-filled, and encoding/json
// refuses to marshal NaN directly.
type nullFloat float64

// MarshalJSON encodes NaN as null and everything else as a plain number.
func (f nullFloat) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

// UnmarshalJSON decodes null as NaN.
func (f *nullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = nullFloat(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = nullFloat(v)
	return nil
}

// configDocument is the on-disk JSON shape of a FiberConfig. Field names
// follow the instrument datamodel's camelCase convention.
type configDocument struct {
	Header Header `json:"header"`

	FiberID    []int32      `json:"fiberId"`
	ProposalID []string     `json:"proposalId"`
	CatID      []int32      `json:"catId"`
	ObjID      []int64      `json:"objId"`
	TargetType []TargetType `json:"targetType"`

	Tract []int32  `json:"tract"`
	Patch []string `json:"patch"`

	RA       []float64 `json:"ra"`
	Dec      []float64 `json:"dec"`
	PMRA     []float64 `json:"pmRa"`
	PMDec    []float64 `json:"pmDec"`
	Parallax []float64 `json:"parallax"`

	ObCode []string `json:"obCode"`

	PfiNominal [][2]nullFloat `json:"pfiNominal"`
	PfiCenter  [][2]nullFloat `json:"pfiCenter"`

	FiberFlux    [][]nullFloat `json:"fiberFlux"`
	PsfFlux      [][]nullFloat `json:"psfFlux"`
	TotalFlux    [][]nullFloat `json:"totalFlux"`
	FiberFluxErr [][]nullFloat `json:"fiberFluxErr"`
	PsfFluxErr   [][]nullFloat `json:"psfFluxErr"`
	TotalFluxErr [][]nullFloat `json:"totalFluxErr"`

	FilterNames [][]string `json:"filterNames"`
}

// FileName returns the conventional file name for a design identifier.
func FileName(designID uint64) string {
	return fmt.Sprintf("pfsConfig-0x%016x.json", designID)
}

// OutputName returns the file name for a proposal-scoped redacted copy:
// the input file's base name (extension stripped) joined with the proposal ID.
func OutputName(inputName, proposalID string) string {
	prefix := strings.TrimSuffix(inputName, filepath.Ext(inputName))
	return fmt.Sprintf("%s_%s.json", prefix, proposalID)
}

// ResolveIdentifier maps a design identifier to a file name. The identifier
// can be a 0x-prefixed hex string, a decimal integer, or a file name (taken
// as-is). Hex and decimal forms resolve to the conventional
// pfsConfig-0x<16-hex-digits>.json name.
func ResolveIdentifier(identifier string) (string, error) {
	if identifier == "" {
		return "", fmt.Errorf("empty design identifier")
	}

	if strings.HasPrefix(identifier, "0x") || strings.HasPrefix(identifier, "0X") {
		id, err := strconv.ParseUint(identifier[2:], 16, 64)
		if err != nil {
			return "", fmt.Errorf("invalid hex design identifier %q: %w", identifier, err)
		}
		return FileName(id), nil
	}

	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		return FileName(id), nil
	}

	// Anything else is treated as a file name.
	return identifier, nil
}

// Load resolves a design identifier (decimal, 0x-hex, or file name) inside
// dir, reads the file, and returns the validated record set.
func Load(dir, identifier string) (*FiberConfig, string, error) {
	name, err := ResolveIdentifier(identifier)
	if err != nil {
		return nil, "", err
	}

	cfg, err := LoadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

// LoadFile reads and validates a fiber configuration from a JSON file.
func LoadFile(path string) (*FiberConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fiber configuration %q: %w", path, err)
	}

	var doc configDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fiber configuration %q: %w", path, err)
	}

	cfg := doc.toConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("malformed fiber configuration %q: %w", path, err)
	}

	return cfg, nil
}

// WriteFile validates the record set and writes it as JSON to path.
func WriteFile(cfg *FiberConfig, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("refusing to write malformed fiber configuration: %w", err)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode fiber configuration: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write fiber configuration %q: %w", path, err)
	}
	return nil
}

// Marshal encodes the record set to its canonical indented JSON document
// form. WriteFile persists exactly these bytes, so a hash of the marshaled
// form equals a hash of the file on disk.
func Marshal(cfg *FiberConfig) ([]byte, error) {
	return json.MarshalIndent(toDocument(cfg), "", "  ")
}

func toDocument(c *FiberConfig) *configDocument {
	return &configDocument{
		Header:     c.Header,
		FiberID:    c.FiberID,
		ProposalID: c.ProposalID,
		CatID:      c.CatID,
		ObjID:      c.ObjID,
		TargetType: c.TargetType,
		Tract:      c.Tract,
		Patch:      c.Patch,
		RA:         c.RA,
		Dec:        c.Dec,
		PMRA:       c.PMRA,
		PMDec:      c.PMDec,
		Parallax:   c.Parallax,
		ObCode:     c.ObCode,

		PfiNominal: toNullPairs(c.PfiNominal),
		PfiCenter:  toNullPairs(c.PfiCenter),

		FiberFlux:    toNullNested(c.FiberFlux),
		PsfFlux:      toNullNested(c.PsfFlux),
		TotalFlux:    toNullNested(c.TotalFlux),
		FiberFluxErr: toNullNested(c.FiberFluxErr),
		PsfFluxErr:   toNullNested(c.PsfFluxErr),
		TotalFluxErr: toNullNested(c.TotalFluxErr),

		FilterNames: c.FilterNames,
	}
}

func (d *configDocument) toConfig() *FiberConfig {
	return &FiberConfig{
		Header:     d.Header,
		FiberID:    d.FiberID,
		ProposalID: d.ProposalID,
		CatID:      d.CatID,
		ObjID:      d.ObjID,
		TargetType: d.TargetType,
		Tract:      d.Tract,
		Patch:      d.Patch,
		RA:         d.RA,
		Dec:        d.Dec,
		PMRA:       d.PMRA,
		PMDec:      d.PMDec,
		Parallax:   d.Parallax,
		ObCode:     d.ObCode,

		PfiNominal: fromNullPairs(d.PfiNominal),
		PfiCenter:  fromNullPairs(d.PfiCenter),

		FiberFlux:    fromNullNested(d.FiberFlux),
		PsfFlux:      fromNullNested(d.PsfFlux),
		TotalFlux:    fromNullNested(d.TotalFlux),
		FiberFluxErr: fromNullNested(d.FiberFluxErr),
		PsfFluxErr:   fromNullNested(d.PsfFluxErr),
		TotalFluxErr: fromNullNested(d.TotalFluxErr),

		FilterNames: d.FilterNames,
	}
}

func toNullNested(src [][]float64) [][]nullFloat {
	if src == nil {
		return nil
	}
	out := make([][]nullFloat, len(src))
	for i, row := range src {
		out[i] = make([]nullFloat, len(row))
		for j, v := range row {
			out[i][j] = nullFloat(v)
		}
	}
	return out
}

func fromNullNested(src [][]nullFloat) [][]float64 {
	if src == nil {
		return nil
	}
	out := make([][]float64, len(src))
	for i, row := range src {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = float64(v)
		}
	}
	return out
}

func toNullPairs(src [][2]float64) [][2]nullFloat {
	if src == nil {
		return nil
	}
	out := make([][2]nullFloat, len(src))
	for i, p := range src {
		out[i] = [2]nullFloat{nullFloat(p[0]), nullFloat(p[1])}
	}
	return out
}

func fromNullPairs(src [][2]nullFloat) [][2]float64 {
	if src == nil {
		return nil
	}
	out := make([][2]float64, len(src))
	for i, p := range src {
		out[i] = [2]float64{float64(p[0]), float64(p[1])}
	}
	return out
}
