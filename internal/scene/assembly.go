package scene

import (
	"math"

	"MolView/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Assembly is the drawable form of one structure: a sphere per atom, a
// cylinder per bond, and one transform applied to all of them.
type Assembly struct {
	ID    uuid.UUID
	Atoms []*renderer.Primitive
	Bonds []*renderer.Primitive

	// Offset is the translation applied to every primitive to centre the
	// assembly on the origin.
	Offset mgl32.Vec3

	pitch, yaw float32
	scale      float32
	matrix     mgl32.Mat4
}

func NewAssembly(atoms, bonds []*renderer.Primitive) *Assembly {
	a := &Assembly{
		ID:    uuid.New(),
		Atoms: atoms,
		Bonds: bonds,
		scale: 1,
	}
	a.updateMatrix()
	return a
}

// Primitives lists atoms then bonds.
func (a *Assembly) Primitives() []*renderer.Primitive {
	out := make([]*renderer.Primitive, 0, len(a.Atoms)+len(a.Bonds))
	out = append(out, a.Atoms...)
	return append(out, a.Bonds...)
}

func (a *Assembly) Len() int {
	return len(a.Atoms) + len(a.Bonds)
}

// Bounds is the axis-aligned box around every primitive, before the
// assembly transform.
func (a *Assembly) Bounds() (min, max mgl32.Vec3) {
	inf := float32(math.Inf(1))
	min = mgl32.Vec3{inf, inf, inf}
	max = mgl32.Vec3{-inf, -inf, -inf}
	for _, p := range a.Primitives() {
		lo, hi := p.Bounds()
		for i := 0; i < 3; i++ {
			min[i] = float32(math.Min(float64(min[i]), float64(lo[i])))
			max[i] = float32(math.Max(float64(max[i]), float64(hi[i])))
		}
	}
	return min, max
}

func (a *Assembly) Center() mgl32.Vec3 {
	if a.Len() == 0 {
		return mgl32.Vec3{}
	}
	min, max := a.Bounds()
	return min.Add(max).Mul(0.5)
}

// Recenter moves every primitive so the bounding box centre sits on the origin.
func (a *Assembly) Recenter() {
	shift := a.Center().Mul(-1)
	for _, p := range a.Primitives() {
		p.Translate(shift)
	}
	a.Offset = a.Offset.Add(shift)
}

// SetRotation sets the Euler rotation (pitch about X, yaw about Y, no roll).
func (a *Assembly) SetRotation(pitch, yaw float32) {
	if a.pitch == pitch && a.yaw == yaw {
		return
	}
	a.pitch, a.yaw = pitch, yaw
	a.updateMatrix()
}

func (a *Assembly) Rotation() (pitch, yaw float32) {
	return a.pitch, a.yaw
}

// SetScale sets the uniform scale.
func (a *Assembly) SetScale(s float32) {
	if a.scale == s {
		return
	}
	a.scale = s
	a.updateMatrix()
}

func (a *Assembly) Scale() float32 {
	return a.scale
}

// ModelMatrix is Rx(pitch) * Ry(yaw) * S(scale).
func (a *Assembly) ModelMatrix() mgl32.Mat4 {
	return a.matrix
}

func (a *Assembly) updateMatrix() {
	rotation := mgl32.HomogRotate3DX(a.pitch).Mul4(mgl32.HomogRotate3DY(a.yaw))
	a.matrix = rotation.Mul4(mgl32.Scale3D(a.scale, a.scale, a.scale))
}
