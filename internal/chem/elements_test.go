package chem

import "testing"

func TestRadiusOfKnownElements(t *testing.T) {
	cases := map[string]float32{
		"H":   0.31,
		"C":   0.76,
		"O":   0.66,
		"Cl":  1.02,
		"cl":  1.02,
		" N ": 0.71,
	}
	for sym, want := range cases {
		if got := RadiusOf(sym); got != want {
			t.Errorf("RadiusOf(%q) = %v, want %v", sym, got, want)
		}
	}
}

func TestUnknownElementFallsBackToDefaults(t *testing.T) {
	for _, sym := range []string{"Xx", "", "Unobtainium", "X"} {
		if got := RadiusOf(sym); got != DefaultRadius {
			t.Errorf("RadiusOf(%q) = %v, want %v", sym, got, DefaultRadius)
		}
		if got := ColorOf(sym); got != DefaultColor {
			t.Errorf("ColorOf(%q) = %v, want %v", sym, got, DefaultColor)
		}
	}
}

func TestColorOfDistinguishesCommonElements(t *testing.T) {
	h, c, o := ColorOf("H"), ColorOf("C"), ColorOf("O")
	if h != (RGB{1, 1, 1}) {
		t.Errorf("hydrogen should be white, got %v", h)
	}
	if c == o || c == DefaultColor {
		t.Errorf("carbon colour %v should be its own", c)
	}
	if o.R < 0.9 || o.G > 0.1 {
		t.Errorf("oxygen should be red, got %v", o)
	}
}

func TestSymbolForNumber(t *testing.T) {
	cases := map[int]string{1: "H", 6: "C", 8: "O", 17: "Cl", 53: "I", 86: "Rn", 0: "X", 120: "X"}
	for z, want := range cases {
		if got := SymbolForNumber(z); got != want {
			t.Errorf("SymbolForNumber(%d) = %q, want %q", z, got, want)
		}
	}
}

func TestElementTableMatchesPeriodicNumbers(t *testing.T) {
	for sym, e := range elementTable {
		if SymbolForNumber(e.Number) != sym {
			t.Errorf("%s has number %d which maps to %s", sym, e.Number, SymbolForNumber(e.Number))
		}
	}
}
