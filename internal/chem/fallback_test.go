package chem

import (
	"math"
	"reflect"
	"testing"
)

func TestFallbackShape(t *testing.T) {
	s := Fallback()

	if len(s.Atoms) != 16 {
		t.Fatalf("expected 16 atoms, got %d", len(s.Atoms))
	}
	if len(s.Bonds) != 16 {
		t.Fatalf("expected 16 bonds, got %d", len(s.Bonds))
	}
	if len(s.ValidBonds()) != 16 {
		t.Error("every fallback bond should be valid")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("fallback should validate: %v", err)
	}

	counts := map[string]int{}
	for _, a := range s.Atoms {
		counts[a.Element]++
	}
	want := map[string]int{"C": 6, "O": 1, "N": 1, "H": 8}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("element counts = %v, want %v", counts, want)
	}
	if s.Metadata["synthetic"] != true {
		t.Error("fallback should be marked synthetic")
	}
}

func TestFallbackIsDeterministic(t *testing.T) {
	a, b := Fallback(), Fallback()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two fallback calls differ")
	}

	a.Atoms[0].Element = "Zz"
	if Fallback().Atoms[0].Element != "C" {
		t.Error("fallback must return a fresh value on every call")
	}
}

func TestFallbackHydrogensHaveOneBond(t *testing.T) {
	s := Fallback()
	degree := make([]int, len(s.Atoms))
	for _, b := range s.Bonds {
		degree[b.Atom1]++
		degree[b.Atom2]++
	}
	for i, a := range s.Atoms {
		if a.Element == "H" && degree[i] != 1 {
			t.Errorf("hydrogen %d has %d bonds", a.ID, degree[i])
		}
		if a.Element == "C" && degree[i] != 3 {
			t.Errorf("ring carbon %d has %d bonds", a.ID, degree[i])
		}
	}
}

func TestFallbackBondLengthsArePlausible(t *testing.T) {
	s := Fallback()
	for _, b := range s.Bonds {
		p, q := s.Atoms[b.Atom1].Position, s.Atoms[b.Atom2].Position
		d := math.Sqrt((p[0]-q[0])*(p[0]-q[0]) + (p[1]-q[1])*(p[1]-q[1]) + (p[2]-q[2])*(p[2]-q[2]))
		if d < 0.9 || d > 1.6 {
			t.Errorf("bond %d length %.3f out of range", b.ID, d)
		}
	}
}
