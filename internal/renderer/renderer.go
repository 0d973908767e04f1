package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

var FrustumCullingEnabled bool = true
var Wireframe bool = false // OpenGL backend draws polygon outlines only
var ClearColor = mgl32.Vec3{0.1, 0.1, 0.12} // Background clear color

type LightMode string

const (
	AmbientLight     LightMode = "ambient"
	DirectionalLight LightMode = "directional"
)

type Light struct {
	Mode       LightMode
	Color      mgl32.Vec3
	Intensity  float32
	Position   mgl32.Vec3 // Directional lights shine from Position toward the origin
	Direction  mgl32.Vec3 // Normalized travel direction of the light
	CastShadow bool
}

// Render is a drawing backend. All methods are called from the render loop
// goroutine; Init precedes every other call and Cleanup ends the backend's life.
type Render interface {
	Init(width, height int32) error
	// Render draws primitives, each transformed by model then its own matrix.
	Render(camera *Camera, lights []*Light, model mgl32.Mat4, primitives []*Primitive)
	// Release frees backend resources held for primitives that left the scene.
	Release(primitives []*Primitive)
	UpdateViewport(width, height int32)
	Cleanup()
}

func CreateAmbientLight(color mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Mode:      AmbientLight,
		Color:     color,
		Intensity: intensity,
	}
}

// CreateDirectionalLight creates a light shining from position toward the origin.
func CreateDirectionalLight(position mgl32.Vec3, color mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Mode:       DirectionalLight,
		Color:      color,
		Intensity:  intensity,
		Position:   position,
		Direction:  position.Mul(-1).Normalize(),
		CastShadow: true,
	}
}

// SplitLights returns the summed ambient term and the first directional light.
func SplitLights(lights []*Light) (ambient mgl32.Vec3, sun *Light) {
	for _, l := range lights {
		if l == nil {
			continue
		}
		switch l.Mode {
		case AmbientLight:
			ambient = ambient.Add(l.Color.Mul(l.Intensity))
		case DirectionalLight:
			if sun == nil {
				sun = l
			}
		}
	}
	return ambient, sun
}
