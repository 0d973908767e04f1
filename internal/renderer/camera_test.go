package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewDefaultCamera(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	if cam == nil {
		t.Fatal("NewDefaultCamera returned nil")
	}

	if cam.Position.X() != 0 || cam.Position.Y() != 0 || cam.Position.Z() <= 0 {
		t.Errorf("Camera should sit on +Z, got %v", cam.Position)
	}

	front := cam.Front()
	if !front.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-6) {
		t.Errorf("Camera should look at the origin, front=%v", front)
	}

	if math.Abs(float64(cam.AspectRatio)-800.0/600.0) > 1e-6 {
		t.Errorf("Aspect ratio should be width/height, got %f", cam.AspectRatio)
	}
}

func TestCameraGetViewMatrix(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Position = mgl32.Vec3{0, 0, 5}

	view := cam.GetViewMatrix()

	if view.At(3, 3) != 1.0 {
		t.Error("View matrix should be valid (w component = 1)")
	}
	origin := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if math.Abs(float64(origin.Z())+5) > 1e-5 {
		t.Errorf("origin should be 5 units in front of the camera, got z=%f", origin.Z())
	}
}

func TestCameraGetProjectionMatrix(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	proj := cam.GetProjectionMatrix()

	if proj.At(3, 3) != 0.0 {
		t.Error("Perspective projection should have w=0 at (3,3)")
	}
}

func TestCameraSetViewport(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	before := cam.Projection

	cam.SetViewport(1000, 500)
	if cam.AspectRatio != 2 {
		t.Errorf("Expected aspect 2, got %f", cam.AspectRatio)
	}
	if cam.Projection == before {
		t.Error("Projection should change with the aspect ratio")
	}

	cam.SetViewport(0, 0)
	if cam.AspectRatio != 2 {
		t.Error("Degenerate viewport should not change the aspect ratio")
	}
}

func TestCameraProjectOrigin(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	screen, depth, ok := cam.Project(mgl32.Vec3{0, 0, 0}, 800, 600)
	if !ok {
		t.Fatal("origin should be in front of the camera")
	}
	if !screen.ApproxEqualThreshold(mgl32.Vec2{400, 300}, 1e-3) {
		t.Errorf("origin should project to the centre, got %v", screen)
	}
	if math.Abs(float64(depth-DefaultCameraDistance)) > 1e-3 {
		t.Errorf("depth should be the camera distance, got %f", depth)
	}

	up, _, _ := cam.Project(mgl32.Vec3{0, 1, 0}, 800, 600)
	if up.Y() >= screen.Y() {
		t.Error("+Y should project above the centre")
	}

	if _, _, ok := cam.Project(mgl32.Vec3{0, 0, 2 * DefaultCameraDistance}, 800, 600); ok {
		t.Error("points behind the camera should not project")
	}
}

func TestCameraPixelsPerUnit(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	centre, depth, _ := cam.Project(mgl32.Vec3{0, 0, 0}, 800, 600)
	up, _, _ := cam.Project(mgl32.Vec3{0, 1, 0}, 800, 600)

	want := centre.Y() - up.Y()
	got := cam.PixelsPerUnit(depth, 600)
	if math.Abs(float64(got-want)) > 1e-2 {
		t.Errorf("PixelsPerUnit = %f, want %f", got, want)
	}
}

func TestFrustumContainsOrigin(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	f := cam.CalculateFrustum()

	if !f.IntersectsSphere(mgl32.Vec3{0, 0, 0}, 1) {
		t.Error("origin should be inside the frustum")
	}
	if f.IntersectsSphere(mgl32.Vec3{0, 0, 2 * DefaultCameraDistance}, 1) {
		t.Error("a sphere behind the camera should be culled")
	}
}
