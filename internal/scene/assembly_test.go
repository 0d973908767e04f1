package scene

import (
	"math"
	"testing"

	"MolView/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAssemblyRecenter(t *testing.T) {
	a := testAssembly()
	if a.ID.String() == "" {
		t.Error("assembly should carry an id")
	}
	if a.Len() != 3 {
		t.Fatalf("Len = %d", a.Len())
	}

	min, max := a.Bounds()
	if !min.ApproxEqualThreshold(mgl32.Vec3{-1, -1, -1}, 1e-5) || !max.ApproxEqualThreshold(mgl32.Vec3{5, 1, 1}, 1e-5) {
		t.Errorf("bounds = %v %v", min, max)
	}

	a.Recenter()
	if c := a.Center(); !c.ApproxEqualThreshold(mgl32.Vec3{}, 1e-5) {
		t.Errorf("centre after Recenter = %v", c)
	}
	if !a.Offset.ApproxEqualThreshold(mgl32.Vec3{-2, 0, 0}, 1e-5) {
		t.Errorf("offset = %v", a.Offset)
	}
	if got := a.Atoms[1].Position; !got.ApproxEqualThreshold(mgl32.Vec3{2, 0, 0}, 1e-5) {
		t.Errorf("second atom at %v", got)
	}
}

func TestAssemblyEmptyCenter(t *testing.T) {
	a := NewAssembly(nil, nil)
	if c := a.Center(); c != (mgl32.Vec3{}) {
		t.Errorf("empty centre = %v", c)
	}
}

func TestAssemblyModelMatrix(t *testing.T) {
	a := NewAssembly([]*renderer.Primitive{renderer.NewSphere(mgl32.Vec3{1, 0, 0}, 1, nil)}, nil)
	if !a.ModelMatrix().ApproxEqual(mgl32.Ident4()) {
		t.Error("new assembly should have an identity transform")
	}

	a.SetScale(2)
	a.SetRotation(0, float32(math.Pi/2))
	p, y := a.Rotation()
	if p != 0 || y != float32(math.Pi/2) || a.Scale() != 2 {
		t.Errorf("rotation (%v, %v) scale %v", p, y, a.Scale())
	}

	// +X turned a quarter about Y lands on -Z, then doubles.
	got := a.ModelMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	if !got.ApproxEqualThreshold(mgl32.Vec3{0, 0, -2}, 1e-5) {
		t.Errorf("transformed point = %v", got)
	}
}
