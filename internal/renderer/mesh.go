package renderer

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is the number of floats per vertex: position(3), uv(2), normal(3).
const VertexStride = 8

// Mesh is shared, immutable vertex data. Primitives reference a mesh and
// size it through their own transform.
type Mesh struct {
	Name            string
	InterleavedData []float32
	Faces           []int32
}

func (m *Mesh) VertexCount() int {
	return len(m.InterleavedData) / VertexStride
}

func (m *Mesh) Position(i int) mgl32.Vec3 {
	o := i * VertexStride
	return mgl32.Vec3{m.InterleavedData[o], m.InterleavedData[o+1], m.InterleavedData[o+2]}
}

func (m *Mesh) Normal(i int) mgl32.Vec3 {
	o := i*VertexStride + 5
	return mgl32.Vec3{m.InterleavedData[o], m.InterleavedData[o+1], m.InterleavedData[o+2]}
}

func appendVertex(data []float32, pos mgl32.Vec3, u, v float32, normal mgl32.Vec3) []float32 {
	return append(data, pos.X(), pos.Y(), pos.Z(), u, v, normal.X(), normal.Y(), normal.Z())
}

// NewSphereMesh builds a unit-radius UV sphere centred on the origin.
func NewSphereMesh(slices, stacks int) *Mesh {
	data := make([]float32, 0, (stacks+1)*(slices+1)*VertexStride)
	for i := 0; i <= stacks; i++ {
		phi := math.Pi * float64(i) / float64(stacks)
		y := float32(math.Cos(phi))
		r := math.Sin(phi)
		for j := 0; j <= slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			p := mgl32.Vec3{float32(r * math.Cos(theta)), y, float32(r * math.Sin(theta))}
			data = appendVertex(data, p, float32(j)/float32(slices), float32(i)/float32(stacks), p)
		}
	}

	faces := make([]int32, 0, stacks*slices*6)
	row := int32(slices + 1)
	for i := int32(0); i < int32(stacks); i++ {
		for j := int32(0); j < int32(slices); j++ {
			a := i*row + j
			b := a + row
			faces = append(faces, a, b, a+1, a+1, b, b+1)
		}
	}
	return &Mesh{Name: "sphere", InterleavedData: data, Faces: faces}
}

// NewCylinderMesh builds a capped cylinder of radius 1 and height 1, centred
// on the origin with its long axis on +Y.
func NewCylinderMesh(slices int) *Mesh {
	data := make([]float32, 0, (4*(slices+1)+2)*VertexStride)
	for _, y := range [2]float32{-0.5, 0.5} {
		for j := 0; j <= slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			x, z := float32(math.Cos(theta)), float32(math.Sin(theta))
			data = appendVertex(data, mgl32.Vec3{x, y, z}, float32(j)/float32(slices), y+0.5, mgl32.Vec3{x, 0, z})
		}
	}

	row := int32(slices + 1)
	faces := make([]int32, 0, slices*12)
	for j := int32(0); j < int32(slices); j++ {
		a := j
		b := j + row
		faces = append(faces, a, b, a+1, a+1, b, b+1)
	}

	for _, y := range [2]float32{-0.5, 0.5} {
		normal := mgl32.Vec3{0, y * 2, 0}
		center := int32(len(data) / VertexStride)
		data = appendVertex(data, mgl32.Vec3{0, y, 0}, 0.5, 0.5, normal)
		for j := 0; j <= slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			x, z := float32(math.Cos(theta)), float32(math.Sin(theta))
			data = appendVertex(data, mgl32.Vec3{x, y, z}, 0.5+x*0.5, 0.5+z*0.5, normal)
		}
		for j := int32(0); j < int32(slices); j++ {
			if y < 0 {
				faces = append(faces, center, center+1+j, center+2+j)
			} else {
				faces = append(faces, center, center+2+j, center+1+j)
			}
		}
	}
	return &Mesh{Name: "cylinder", InterleavedData: data, Faces: faces}
}

var (
	UnitSphere   = sync.OnceValue(func() *Mesh { return NewSphereMesh(32, 16) })
	UnitCylinder = sync.OnceValue(func() *Mesh { return NewCylinderMesh(16) })
)
