package chem

import (
	"errors"
	"testing"
)

func water() *Structure {
	return &Structure{
		Atoms: []Atom{
			{ID: 1, Element: "O", Position: [3]float64{0, 0, 0}},
			{ID: 2, Element: "H", Position: [3]float64{0.96, 0, 0}},
			{ID: 3, Element: "H", Position: [3]float64{-0.24, 0.93, 0}},
		},
		Bonds: []Bond{
			{ID: 1, Atom1: 0, Atom2: 1, Order: 1},
			{ID: 2, Atom1: 0, Atom2: 2, Order: 1},
		},
	}
}

func TestValidBondsDropsDanglingAndSelfBonds(t *testing.T) {
	s := water()
	s.Bonds = append(s.Bonds,
		Bond{ID: 3, Atom1: 0, Atom2: 5, Order: 1},
		Bond{ID: 4, Atom1: -1, Atom2: 1, Order: 1},
		Bond{ID: 5, Atom1: 2, Atom2: 2, Order: 1},
	)

	valid := s.ValidBonds()
	if len(valid) != 2 {
		t.Fatalf("expected 2 valid bonds, got %d", len(valid))
	}
	if valid[0].ID != 1 || valid[1].ID != 2 {
		t.Errorf("valid bonds out of order: %+v", valid)
	}
}

func TestValidate(t *testing.T) {
	if err := water().Validate(); err != nil {
		t.Fatalf("water should validate: %v", err)
	}

	var empty Structure
	if err := empty.Validate(); !errors.Is(err, ErrEmptyStructure) {
		t.Errorf("empty structure: got %v, want ErrEmptyStructure", err)
	}

	dup := water()
	dup.Atoms[2].ID = 1
	if err := dup.Validate(); err == nil {
		t.Error("duplicate atom ids should fail validation")
	}

	zeroOrder := water()
	zeroOrder.Bonds[0].Order = 0
	if err := zeroOrder.Validate(); err == nil {
		t.Error("bond order 0 should fail validation")
	}
}

func TestFormula(t *testing.T) {
	if got := water().Formula(); got != "H2O" {
		t.Errorf("water formula = %q, want H2O", got)
	}
	if got := Fallback().Formula(); got != "C6H8NO" {
		t.Errorf("fallback formula = %q, want C6H8NO", got)
	}
}

func TestNilStructureIsEmpty(t *testing.T) {
	var s *Structure
	if !s.Empty() {
		t.Error("nil structure should be empty")
	}
	if s.ValidBonds() != nil {
		t.Error("nil structure has no bonds")
	}
}
