package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type PrimitiveKind int

const (
	SpherePrimitive PrimitiveKind = iota
	CylinderPrimitive
)

func (k PrimitiveKind) String() string {
	switch k {
	case SpherePrimitive:
		return "sphere"
	case CylinderPrimitive:
		return "cylinder"
	}
	return "unknown"
}

type Material struct {
	DiffuseColor  [3]float32 // Base color for lighting
	SpecularColor [3]float32 // Specular highlight color
	Shininess     float32    // Specular exponent
	Alpha         float32    // Transparency (0.0 = transparent, 1.0 = opaque)
	Name          string
}

func NewMaterial(name string, color [3]float32) *Material {
	return &Material{
		Name:          name,
		DiffuseColor:  color,
		SpecularColor: [3]float32{0.3, 0.3, 0.3},
		Shininess:     32.0,
		Alpha:         1.0,
	}
}

// Primitive is one drawable instance of a shared mesh: an atom sphere or a
// bond cylinder.
type Primitive struct {
	// HOT DATA - Accessed every frame in render loop
	ModelMatrix mgl32.Mat4
	Position    mgl32.Vec3
	Scale       mgl32.Vec3
	Rotation    mgl32.Quat
	Material    *Material
	Mesh        *Mesh

	// COLD DATA - Geometry and identification
	Kind    PrimitiveKind
	Radius  float32
	Length  float32 // cylinders only
	AtomID  int
	BondID  int
	Element string
}

func NewSphere(center mgl32.Vec3, radius float32, material *Material) *Primitive {
	p := &Primitive{
		Kind:     SpherePrimitive,
		Mesh:     UnitSphere(),
		Material: material,
		Position: center,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{radius, radius, radius},
		Radius:   radius,
	}
	p.updateModelMatrix()
	return p
}

// NewCylinder spans from..to with a cylinder of the given radius, positioned
// at the midpoint and oriented along the segment.
func NewCylinder(from, to mgl32.Vec3, radius float32, material *Material) *Primitive {
	dir := to.Sub(from)
	length := dir.Len()
	p := &Primitive{
		Kind:     CylinderPrimitive,
		Mesh:     UnitCylinder(),
		Material: material,
		Position: from.Add(to).Mul(0.5),
		Rotation: CylinderOrientation(dir),
		Scale:    mgl32.Vec3{radius, length, radius},
		Radius:   radius,
		Length:   length,
	}
	p.updateModelMatrix()
	return p
}

// CylinderOrientation turns a +Y-authored cylinder so its long axis follows
// dir: a look-at that points local +Z along dir, composed with a quarter turn
// about X that first brings +Y onto +Z. A zero dir keeps the identity.
func CylinderOrientation(dir mgl32.Vec3) mgl32.Quat {
	if dir.Len() < 1e-6 {
		return mgl32.QuatIdent()
	}
	lookAt := mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, 1}, dir.Normalize())
	correction := mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{1, 0, 0})
	return lookAt.Mul(correction).Normalize()
}

func (p *Primitive) SetPosition(v mgl32.Vec3) {
	p.Position = v
	p.updateModelMatrix()
}

func (p *Primitive) Translate(offset mgl32.Vec3) {
	p.SetPosition(p.Position.Add(offset))
}

// Axis is the unit long axis of a cylinder in the primitive's parent space.
func (p *Primitive) Axis() mgl32.Vec3 {
	return p.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
}

// Endpoints returns the centres of a cylinder's caps. For spheres both are
// the centre.
func (p *Primitive) Endpoints() (mgl32.Vec3, mgl32.Vec3) {
	if p.Kind != CylinderPrimitive {
		return p.Position, p.Position
	}
	half := p.Axis().Mul(p.Length * 0.5)
	return p.Position.Sub(half), p.Position.Add(half)
}

// Bounds is a conservative axis-aligned box around the primitive.
func (p *Primitive) Bounds() (min, max mgl32.Vec3) {
	a, b := p.Endpoints()
	r := mgl32.Vec3{p.Radius, p.Radius, p.Radius}
	for i := 0; i < 3; i++ {
		min[i] = float32(math.Min(float64(a[i]), float64(b[i])))
		max[i] = float32(math.Max(float64(a[i]), float64(b[i])))
	}
	return min.Sub(r), max.Add(r)
}

func (p *Primitive) updateModelMatrix() {
	// Matrix multiplication order: translation * rotation * scale
	scaleMatrix := mgl32.Scale3D(p.Scale[0], p.Scale[1], p.Scale[2])
	rotationMatrix := p.Rotation.Mat4()
	translationMatrix := mgl32.Translate3D(p.Position[0], p.Position[1], p.Position[2])
	p.ModelMatrix = translationMatrix.Mul4(rotationMatrix).Mul4(scaleMatrix)
}
