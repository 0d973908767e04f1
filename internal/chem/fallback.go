package chem

import "math"

const (
	ringRadius = 1.39
	bondCO     = 1.36
	bondCN     = 1.47
	bondCH     = 1.08
	bondOH     = 0.96
	bondNH     = 1.01
)

// Fallback returns the placeholder shown when no real geometry is available:
// a planar six-carbon ring carrying a hydroxyl group and a para ammonium
// group, 16 atoms and 16 bonds. Every call returns an equal, fresh value.
func Fallback() *Structure {
	atoms := make([]Atom, 0, 16)
	add := func(el string, p [3]float64) int {
		atoms = append(atoms, Atom{ID: len(atoms) + 1, Element: el, Position: round3(p)})
		return len(atoms) - 1
	}

	var ring [6]int
	for i := range ring {
		ring[i] = add("C", polar(ringRadius, i))
	}
	o := add("O", polar(ringRadius+bondCO, 0))
	n := add("N", polar(ringRadius+bondCN, 3))

	var ringH [4]int
	for k, i := range [4]int{1, 2, 4, 5} {
		ringH[k] = add("H", polar(ringRadius+bondCH, i))
	}

	oPos := atoms[o].Position
	hO := add("H", [3]float64{
		oPos[0] + bondOH*math.Cos(math.Pi/3),
		oPos[1] + bondOH*math.Sin(math.Pi/3),
		0,
	})

	// Tetrahedral hydrogens around N, 109.5 degrees from the C-N axis.
	nPos := atoms[n].Position
	axial := -math.Cos(math.Pi * 109.5 / 180)
	radial := math.Sin(math.Pi * 109.5 / 180)
	var hN [3]int
	for k := range hN {
		phi := 2 * math.Pi * float64(k) / 3
		hN[k] = add("H", [3]float64{
			nPos[0] - bondNH*axial,
			nPos[1] + bondNH*radial*math.Cos(phi),
			nPos[2] + bondNH*radial*math.Sin(phi),
		})
	}

	bonds := make([]Bond, 0, 16)
	link := func(a, b, order int) {
		bonds = append(bonds, Bond{ID: len(bonds) + 1, Atom1: a, Atom2: b, Order: order})
	}
	for i := range ring {
		order := 1
		if i%2 == 0 {
			order = 2
		}
		link(ring[i], ring[(i+1)%6], order)
	}
	link(ring[0], o, 1)
	link(ring[3], n, 1)
	link(n, hN[0], 1)
	for k, i := range [4]int{1, 2, 4, 5} {
		link(ring[i], ringH[k], 1)
	}
	link(o, hO, 1)
	link(n, hN[1], 1)
	link(n, hN[2], 1)

	return &Structure{
		Atoms: atoms,
		Bonds: bonds,
		Metadata: map[string]any{
			"name":      "Fallback structure",
			"formula":   "C6H8NO",
			"synthetic": true,
		},
	}
}

// polar places a point in the ring plane at the angle of ring position i.
func polar(r float64, i int) [3]float64 {
	theta := float64(i) * math.Pi / 3
	return [3]float64{r * math.Cos(theta), r * math.Sin(theta), 0}
}

func round3(p [3]float64) [3]float64 {
	for i := range p {
		p[i] = math.Round(p[i]*1000) / 1000
	}
	return p
}
