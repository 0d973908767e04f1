package pubchem

import (
	"errors"
	"fmt"

	"MolView/internal/chem"
)

var errNoConformer = errors.New("record has no 3D conformer")

type cidList struct {
	IdentifierList struct {
		CID []int64 `json:"CID"`
	} `json:"IdentifierList"`
}

type propertyTable struct {
	PropertyTable struct {
		Properties []properties `json:"Properties"`
	} `json:"PropertyTable"`
}

type properties struct {
	CID              int64       `json:"CID"`
	Title            string      `json:"Title"`
	MolecularFormula string      `json:"MolecularFormula"`
	MolecularWeight  chem.Weight `json:"MolecularWeight"`
	IUPACName        string      `json:"IUPACName"`
}

type synonymList struct {
	InformationList struct {
		Information []struct {
			CID     int64    `json:"CID"`
			Synonym []string `json:"Synonym"`
		} `json:"Information"`
	} `json:"InformationList"`
}

// compoundRecord is the subset of a PUG REST full record that carries
// geometry.
type compoundRecord struct {
	PCCompounds []struct {
		Atoms struct {
			AID     []int `json:"aid"`
			Element []int `json:"element"`
		} `json:"atoms"`
		Bonds struct {
			AID1  []int `json:"aid1"`
			AID2  []int `json:"aid2"`
			Order []int `json:"order"`
		} `json:"bonds"`
		Coords []struct {
			AID        []int `json:"aid"`
			Conformers []struct {
				X []float64 `json:"x"`
				Y []float64 `json:"y"`
				Z []float64 `json:"z"`
			} `json:"conformers"`
		} `json:"coords"`
	} `json:"PC_Compounds"`
}

// structure converts the first compound of the record. Atom ids keep
// PubChem's 1-based aids; bond endpoints become 0-based atom indices.
func (r *compoundRecord) structure() (*chem.Structure, error) {
	if len(r.PCCompounds) == 0 {
		return nil, errors.New("record has no compounds")
	}
	c := r.PCCompounds[0]
	if len(c.Atoms.AID) == 0 || len(c.Atoms.AID) != len(c.Atoms.Element) {
		return nil, fmt.Errorf("record atoms: %d aids, %d elements", len(c.Atoms.AID), len(c.Atoms.Element))
	}
	if len(c.Coords) == 0 || len(c.Coords[0].Conformers) == 0 {
		return nil, errNoConformer
	}
	coords := c.Coords[0]
	conf := coords.Conformers[0]
	if len(conf.X) != len(coords.AID) || len(conf.Y) != len(coords.AID) {
		return nil, fmt.Errorf("record conformer: %d aids, %d x, %d y", len(coords.AID), len(conf.X), len(conf.Y))
	}

	positions := make(map[int][3]float64, len(coords.AID))
	for i, aid := range coords.AID {
		var z float64
		if i < len(conf.Z) {
			z = conf.Z[i]
		}
		positions[aid] = [3]float64{conf.X[i], conf.Y[i], z}
	}

	s := &chem.Structure{
		Atoms:    make([]chem.Atom, 0, len(c.Atoms.AID)),
		Metadata: map[string]any{"source": "pubchem"},
	}
	index := make(map[int]int, len(c.Atoms.AID))
	for i, aid := range c.Atoms.AID {
		index[aid] = i
		s.Atoms = append(s.Atoms, chem.Atom{
			ID:       aid,
			Element:  chem.SymbolForNumber(c.Atoms.Element[i]),
			Position: positions[aid],
		})
	}

	for i := range c.Bonds.AID1 {
		if i >= len(c.Bonds.AID2) {
			break
		}
		a1, ok1 := index[c.Bonds.AID1[i]]
		a2, ok2 := index[c.Bonds.AID2[i]]
		if !ok1 || !ok2 {
			continue
		}
		order := 1
		if i < len(c.Bonds.Order) && c.Bonds.Order[i] > 0 {
			order = c.Bonds.Order[i]
		}
		s.Bonds = append(s.Bonds, chem.Bond{ID: i + 1, Atom1: a1, Atom2: a2, Order: order})
	}
	return s, nil
}
