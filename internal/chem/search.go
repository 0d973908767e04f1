package chem

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Weight is a molecular weight in g/mol. It decodes from a JSON number or
// from a string such as "129.16" or "129.16 g/mol".
type Weight float64

func (w *Weight) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*w = 0
		return nil
	}
	if data[0] != '"' {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("molecular weight: %w", err)
		}
		*w = Weight(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("molecular weight: %w", err)
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		*w = 0
		return nil
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("molecular weight %q: %w", s, err)
	}
	*w = Weight(f)
	return nil
}

// SearchResult is a molecule lookup answer as delivered by a search backend.
// Structure is nil when the backend has no 3D geometry for the compound.
type SearchResult struct {
	Name             string         `json:"name"`
	CID              int64          `json:"cid,omitempty"`
	MolecularFormula string         `json:"molecular_formula,omitempty"`
	MolecularWeight  Weight         `json:"molecular_weight,omitempty"`
	Structure        *Structure     `json:"structure,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// ResolveStructure picks the geometry to display for r: its own structure
// when it has atoms, the fallback otherwise. The second return value reports
// whether the fallback was used.
func ResolveStructure(r SearchResult) (*Structure, bool) {
	if !r.Structure.Empty() {
		return r.Structure, false
	}
	return Fallback(), true
}

// Summary is what the surrounding UI shows about the current molecule.
type Summary struct {
	Name             string         `json:"name"`
	CID              int64          `json:"cid,omitempty"`
	MolecularFormula string         `json:"molecular_formula,omitempty"`
	MolecularWeight  float64        `json:"molecular_weight,omitempty"`
	Atoms            int            `json:"atoms"`
	Bonds            int            `json:"bonds"`
	Synthetic        bool           `json:"synthetic"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

func Summarize(r SearchResult, s *Structure, synthetic bool) Summary {
	sum := Summary{
		Name:             r.Name,
		CID:              r.CID,
		MolecularFormula: r.MolecularFormula,
		MolecularWeight:  float64(r.MolecularWeight),
		Synthetic:        synthetic,
		Metadata:         map[string]any{},
	}
	if s != nil {
		sum.Atoms = len(s.Atoms)
		sum.Bonds = len(s.ValidBonds())
		for k, v := range s.Metadata {
			sum.Metadata[k] = v
		}
		if sum.MolecularFormula == "" {
			sum.MolecularFormula = s.Formula()
		}
	}
	for k, v := range r.Metadata {
		sum.Metadata[k] = v
	}
	if sum.Name == "" {
		if name, ok := sum.Metadata["name"].(string); ok {
			sum.Name = name
		}
	}
	return sum
}
