// Package builder turns a chem.Structure into a scene.Assembly and publishes
// it to a scene handle.
package builder

import (
	"fmt"

	"MolView/internal/chem"
	"MolView/internal/logger"
	"MolView/internal/renderer"
	"MolView/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	DefaultRadiusScale   float32 = 2
	DefaultPositionScale float32 = 3
	DefaultBondRadius    float32 = 0.15
)

var DefaultBondColor = chem.RGB{R: 0.6, G: 0.6, B: 0.6}

type Options struct {
	RadiusScale   float32 // multiplies the element radius
	PositionScale float32 // multiplies input coordinates
	BondRadius    float32
	BondColor     chem.RGB
}

func DefaultOptions() Options {
	return Options{
		RadiusScale:   DefaultRadiusScale,
		PositionScale: DefaultPositionScale,
		BondRadius:    DefaultBondRadius,
		BondColor:     DefaultBondColor,
	}
}

type Builder struct {
	opts Options
}

// New fills zero fields of opts with the defaults.
func New(opts Options) *Builder {
	def := DefaultOptions()
	if opts.RadiusScale <= 0 {
		opts.RadiusScale = def.RadiusScale
	}
	if opts.PositionScale <= 0 {
		opts.PositionScale = def.PositionScale
	}
	if opts.BondRadius <= 0 {
		opts.BondRadius = def.BondRadius
	}
	if opts.BondColor == (chem.RGB{}) {
		opts.BondColor = def.BondColor
	}
	return &Builder{opts: opts}
}

func (b *Builder) Options() Options {
	return b.opts
}

// Build creates one sphere per atom and one cylinder per valid bond, then
// centres the result on the origin. It touches no shared state and may run
// on any goroutine.
func (b *Builder) Build(s *chem.Structure) (*scene.Assembly, error) {
	if s.Empty() {
		return nil, chem.ErrEmptyStructure
	}

	materials := make(map[string]*renderer.Material)
	centres := make([]mgl32.Vec3, len(s.Atoms))
	atoms := make([]*renderer.Primitive, 0, len(s.Atoms))
	for i, atom := range s.Atoms {
		el := chem.NormalizeSymbol(atom.Element)
		mat, ok := materials[el]
		if !ok {
			c := chem.ColorOf(el)
			mat = renderer.NewMaterial(el, [3]float32{c.R, c.G, c.B})
			materials[el] = mat
		}
		centres[i] = b.scaled(atom.Position)
		sphere := renderer.NewSphere(centres[i], chem.RadiusOf(el)*b.opts.RadiusScale, mat)
		sphere.AtomID = atom.ID
		sphere.BondID = -1
		sphere.Element = el
		atoms = append(atoms, sphere)
	}

	bondMat := renderer.NewMaterial("bond", [3]float32{b.opts.BondColor.R, b.opts.BondColor.G, b.opts.BondColor.B})
	valid := s.ValidBonds()
	bonds := make([]*renderer.Primitive, 0, len(valid))
	for _, bond := range valid {
		cyl := renderer.NewCylinder(centres[bond.Atom1], centres[bond.Atom2], b.opts.BondRadius, bondMat)
		cyl.AtomID = -1
		cyl.BondID = bond.ID
		bonds = append(bonds, cyl)
	}
	if skipped := len(s.Bonds) - len(valid); skipped > 0 {
		logger.Log.Debug("Skipped invalid bonds", zap.Int("skipped", skipped))
	}

	a := scene.NewAssembly(atoms, bonds)
	a.Recenter()
	return a, nil
}

func (b *Builder) scaled(p [3]float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(p[0]), float32(p[1]), float32(p[2])}.Mul(b.opts.PositionScale)
}

// Publish hands a build result to the handle. It must run on the goroutine
// that owns the handle. A failed build clears the current molecule.
func Publish(h *scene.Handle, a *scene.Assembly, err error) error {
	if err != nil {
		h.Detach()
		h.Status.Set("Error: " + err.Error())
		logger.Log.Warn("Molecule build failed", zap.Error(err))
		return err
	}
	if err := h.Attach(a); err != nil {
		return fmt.Errorf("attach assembly: %w", err)
	}
	h.Status.Set(RenderingStatus(len(a.Atoms), len(a.Bonds)))
	logger.Log.Info("Molecule attached",
		zap.String("id", a.ID.String()),
		zap.Int("atoms", len(a.Atoms)),
		zap.Int("bonds", len(a.Bonds)))
	return nil
}

// Apply builds s and publishes the result on h.
func (b *Builder) Apply(h *scene.Handle, s *chem.Structure) error {
	a, err := b.Build(s)
	return Publish(h, a, err)
}

func RenderingStatus(atoms, bonds int) string {
	return fmt.Sprintf("Rendering %d atoms, %d bonds (%d objects)", atoms, bonds, atoms+bonds)
}
