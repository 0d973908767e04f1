package chem

import "strings"

// RGB is a linear colour with components in [0,1].
type RGB struct {
	R, G, B float32
}

type Element struct {
	Symbol string
	Number int
	Radius float32 // display radius in angstrom, before scene scaling
	Color  RGB
}

const DefaultRadius float32 = 0.6

var DefaultColor = RGB{0.5, 0.5, 0.5}

func hex(v uint32) RGB {
	return RGB{
		R: float32((v>>16)&0xff) / 255,
		G: float32((v>>8)&0xff) / 255,
		B: float32(v&0xff) / 255,
	}
}

// Jmol-style colours, covalent radii.
var elementTable = map[string]Element{
	"H":  {Symbol: "H", Number: 1, Radius: 0.31, Color: hex(0xffffff)},
	"B":  {Symbol: "B", Number: 5, Radius: 0.84, Color: hex(0xffb5b5)},
	"C":  {Symbol: "C", Number: 6, Radius: 0.76, Color: hex(0x909090)},
	"N":  {Symbol: "N", Number: 7, Radius: 0.71, Color: hex(0x3050f8)},
	"O":  {Symbol: "O", Number: 8, Radius: 0.66, Color: hex(0xff0d0d)},
	"F":  {Symbol: "F", Number: 9, Radius: 0.57, Color: hex(0x90e050)},
	"Na": {Symbol: "Na", Number: 11, Radius: 1.66, Color: hex(0xab5cf2)},
	"Mg": {Symbol: "Mg", Number: 12, Radius: 1.41, Color: hex(0x8aff00)},
	"Si": {Symbol: "Si", Number: 14, Radius: 1.11, Color: hex(0xf0c8a0)},
	"P":  {Symbol: "P", Number: 15, Radius: 1.07, Color: hex(0xff8000)},
	"S":  {Symbol: "S", Number: 16, Radius: 1.05, Color: hex(0xffff30)},
	"Cl": {Symbol: "Cl", Number: 17, Radius: 1.02, Color: hex(0x1ff01f)},
	"K":  {Symbol: "K", Number: 19, Radius: 2.03, Color: hex(0x8f40d4)},
	"Ca": {Symbol: "Ca", Number: 20, Radius: 1.76, Color: hex(0x3dff00)},
	"Fe": {Symbol: "Fe", Number: 26, Radius: 1.32, Color: hex(0xe06633)},
	"Zn": {Symbol: "Zn", Number: 30, Radius: 1.22, Color: hex(0x7d80b0)},
	"Br": {Symbol: "Br", Number: 35, Radius: 1.20, Color: hex(0xa62929)},
	"I":  {Symbol: "I", Number: 53, Radius: 1.39, Color: hex(0x940094)},
}

// NormalizeSymbol trims the symbol and fixes its case ("CL" -> "Cl").
func NormalizeSymbol(symbol string) string {
	s := strings.TrimSpace(symbol)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func Lookup(symbol string) (Element, bool) {
	e, ok := elementTable[NormalizeSymbol(symbol)]
	return e, ok
}

// RadiusOf returns the display radius for symbol, or DefaultRadius when the
// element is unknown.
func RadiusOf(symbol string) float32 {
	if e, ok := Lookup(symbol); ok {
		return e.Radius
	}
	return DefaultRadius
}

// ColorOf returns the display colour for symbol, or DefaultColor when the
// element is unknown.
func ColorOf(symbol string) RGB {
	if e, ok := Lookup(symbol); ok {
		return e.Color
	}
	return DefaultColor
}

var periodicSymbols = [...]string{
	"",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba", "La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy",
	"Ho", "Er", "Tm", "Yb", "Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt",
	"Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn",
}

// SymbolForNumber maps an atomic number to its symbol. Numbers outside the
// table map to "X", which renders with the defaults.
func SymbolForNumber(z int) string {
	if z <= 0 || z >= len(periodicSymbols) {
		return "X"
	}
	return periodicSymbols[z]
}
