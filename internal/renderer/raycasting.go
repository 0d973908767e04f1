package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in 3D space. Direction is unit length.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Transform maps the ray into the space of m. Hit distances along the result
// are measured in that space.
func (r Ray) Transform(m mgl32.Mat4) Ray {
	origin := mgl32.TransformCoordinate(r.Origin, m)
	through := mgl32.TransformCoordinate(r.Origin.Add(r.Direction), m)
	return Ray{Origin: origin, Direction: through.Sub(origin).Normalize()}
}

// RayIntersectSphere tests if a ray intersects a sphere
// Returns: (intersected, distance, intersection point)
func RayIntersectSphere(ray Ray, center mgl32.Vec3, radius float32) (bool, float32, mgl32.Vec3) {
	oc := ray.Origin.Sub(center)
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return false, 0, mgl32.Vec3{}
	}
	sq := float32(math.Sqrt(float64(disc)))
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)

	// Nearest hit in front of the origin; t2 covers an origin inside the sphere.
	t := t1
	if t <= 0 {
		t = t2
	}
	if t <= 0 {
		return false, 0, mgl32.Vec3{}
	}
	return true, t, ray.At(t)
}

// ScreenToRay unprojects window coordinates (origin top-left) into a world
// space ray from the near plane.
func (c *Camera) ScreenToRay(x, y float32, width, height int) Ray {
	ndcX := 2*x/float32(width) - 1
	ndcY := 1 - 2*y/float32(height)

	inv := c.GetViewProjection().Inv()
	near := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, -1}, inv)
	far := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, 1}, inv)
	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// PickSphere returns the nearest sphere primitive the ray hits, or nil.
func PickSphere(ray Ray, primitives []*Primitive) (*Primitive, float32) {
	var (
		best  *Primitive
		bestT float32
	)
	for _, p := range primitives {
		if p.Kind != SpherePrimitive {
			continue
		}
		hit, t, _ := RayIntersectSphere(ray, p.Position, p.Radius)
		if hit && (best == nil || t < bestT) {
			best, bestT = p, t
		}
	}
	return best, bestT
}
