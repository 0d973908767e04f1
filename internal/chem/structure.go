package chem

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrEmptyStructure = errors.New("structure has no atoms")

type Atom struct {
	ID       int        `json:"id"`
	Element  string     `json:"element"`
	Position [3]float64 `json:"position"`
}

// Bond joins two atoms by their index in Structure.Atoms.
type Bond struct {
	ID    int `json:"id"`
	Atom1 int `json:"atom1"`
	Atom2 int `json:"atom2"`
	Order int `json:"order"`
}

type Structure struct {
	Atoms    []Atom         `json:"atoms"`
	Bonds    []Bond         `json:"bonds,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (s *Structure) Empty() bool {
	return s == nil || len(s.Atoms) == 0
}

// ValidBond reports whether both endpoints index existing, distinct atoms.
func (s *Structure) ValidBond(b Bond) bool {
	n := len(s.Atoms)
	return b.Atom1 >= 0 && b.Atom1 < n &&
		b.Atom2 >= 0 && b.Atom2 < n &&
		b.Atom1 != b.Atom2
}

// ValidBonds returns the bonds that can be drawn, in input order.
func (s *Structure) ValidBonds() []Bond {
	if s == nil {
		return nil
	}
	out := make([]Bond, 0, len(s.Bonds))
	for _, b := range s.Bonds {
		if s.ValidBond(b) {
			out = append(out, b)
		}
	}
	return out
}

// Validate checks the structural invariants. Unknown elements and dangling
// bonds are tolerated; they are handled at build time.
func (s *Structure) Validate() error {
	if s.Empty() {
		return ErrEmptyStructure
	}
	seen := make(map[int]struct{}, len(s.Atoms))
	for i, a := range s.Atoms {
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("atom %d: duplicate id %d", i, a.ID)
		}
		seen[a.ID] = struct{}{}
	}
	for i, b := range s.Bonds {
		if b.Order < 1 {
			return fmt.Errorf("bond %d: order %d, want >= 1", i, b.Order)
		}
	}
	return nil
}

// Formula returns a Hill-order formula for the atoms, e.g. "C6H7NO".
func (s *Structure) Formula() string {
	if s.Empty() {
		return ""
	}
	counts := map[string]int{}
	for _, a := range s.Atoms {
		counts[NormalizeSymbol(a.Element)]++
	}
	return hillFormula(counts)
}

func hillFormula(counts map[string]int) string {
	var b strings.Builder
	write := func(sym string) {
		n := counts[sym]
		b.WriteString(sym)
		if n > 1 {
			b.WriteString(strconv.Itoa(n))
		}
		delete(counts, sym)
	}
	if counts["C"] > 0 {
		write("C")
		if counts["H"] > 0 {
			write("H")
		}
	}
	rest := make([]string, 0, len(counts))
	for sym := range counts {
		rest = append(rest, sym)
	}
	sort.Strings(rest)
	for _, sym := range rest {
		write(sym)
	}
	return b.String()
}
