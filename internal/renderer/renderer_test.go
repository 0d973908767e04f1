package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCreateDirectionalLightPointsAtOrigin(t *testing.T) {
	l := CreateDirectionalLight(mgl32.Vec3{10, 10, 5}, mgl32.Vec3{1, 1, 1}, 0.8)

	if l.Mode != DirectionalLight || !l.CastShadow {
		t.Errorf("unexpected light %+v", l)
	}
	want := mgl32.Vec3{-10, -10, -5}.Normalize()
	if !l.Direction.ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("direction = %v, want %v", l.Direction, want)
	}
}

func TestSplitLights(t *testing.T) {
	sun := CreateDirectionalLight(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 1}, 1)
	lights := []*Light{
		CreateAmbientLight(mgl32.Vec3{1, 1, 1}, 0.25),
		nil,
		sun,
		CreateAmbientLight(mgl32.Vec3{1, 0, 0}, 0.5),
	}

	ambient, got := SplitLights(lights)
	if got != sun {
		t.Error("expected the directional light")
	}
	if !ambient.ApproxEqual(mgl32.Vec3{0.75, 0.25, 0.25}) {
		t.Errorf("ambient = %v", ambient)
	}
}

func TestUnwindRunsInReverse(t *testing.T) {
	var order []int
	var u Unwind
	u.Add(func() { order = append(order, 1) })
	u.Add(func() { order = append(order, 2) })

	u.Unwind()
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("unwind order = %v", order)
	}

	u.Add(func() { order = append(order, 3) })
	u.Discard()
	u.Unwind()
	if len(order) != 2 {
		t.Error("discarded cleanups should not run")
	}
}
