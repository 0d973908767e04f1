package opengl

import (
	"fmt"

	"MolView/internal/logger"
	"MolView/internal/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// gpuMesh is a mesh uploaded to the GPU, shared by every primitive that uses it.
type gpuMesh struct {
	VAO   uint32
	VBO   uint32
	EBO   uint32
	count int32
	refs  int
}

// Renderer draws primitives with an OpenGL 4.1 core context. The context must
// be current on the calling goroutine before Init.
type Renderer struct {
	defaultShader Shader
	meshes        map[*renderer.Mesh]*gpuMesh
	resident      map[*renderer.Primitive]*gpuMesh
	frustum       renderer.Frustum
	initialized   bool
}

func New() *Renderer {
	return &Renderer{
		meshes:   make(map[*renderer.Mesh]*gpuMesh),
		resident: make(map[*renderer.Primitive]*gpuMesh),
	}
}

func (rend *Renderer) Init(width, height int32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("opengl: init: %w", err)
	}

	var u renderer.Unwind
	defer u.Unwind()

	rend.defaultShader = InitShader()
	if err := rend.defaultShader.Compile(); err != nil {
		return fmt.Errorf("opengl: default shader: %w", err)
	}
	u.Add(rend.defaultShader.Delete)

	if renderer.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Viewport(0, 0, width, height)

	u.Discard()
	rend.initialized = true
	logger.Log.Info("OpenGL render initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.Int32("width", width), zap.Int32("height", height))
	return nil
}

// upload binds primitive to the GPU copy of its mesh, uploading on first use.
func (rend *Renderer) upload(p *renderer.Primitive) *gpuMesh {
	if g, ok := rend.resident[p]; ok {
		return g
	}
	g, ok := rend.meshes[p.Mesh]
	if !ok {
		g = uploadMesh(p.Mesh)
		rend.meshes[p.Mesh] = g
	}
	g.refs++
	rend.resident[p] = g
	return g
}

func uploadMesh(mesh *renderer.Mesh) *gpuMesh {
	g := &gpuMesh{count: int32(len(mesh.Faces))}
	gl.GenVertexArrays(1, &g.VAO)
	gl.BindVertexArray(g.VAO)

	gl.GenBuffers(1, &g.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.InterleavedData)*4, gl.Ptr(mesh.InterleavedData), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Faces)*4, gl.Ptr(mesh.Faces), gl.STATIC_DRAW)

	stride := int32(renderer.VertexStride * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)

	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)

	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(5*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	logger.Log.Debug("Mesh uploaded", zap.String("mesh", mesh.Name), zap.Int32("indices", g.count))
	return g
}

func deleteMesh(g *gpuMesh) {
	gl.DeleteVertexArrays(1, &g.VAO)
	gl.DeleteBuffers(1, &g.VBO)
	gl.DeleteBuffers(1, &g.EBO)
}

func (rend *Renderer) Render(camera *renderer.Camera, lights []*renderer.Light, model mgl32.Mat4, primitives []*renderer.Primitive) {
	bg := renderer.ClearColor
	gl.ClearColor(bg.X(), bg.Y(), bg.Z(), 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if len(primitives) == 0 {
		return
	}

	shader := &rend.defaultShader
	shader.Use()
	u := shader.uniforms

	u.SetMat4("viewProjection", camera.GetViewProjection())
	u.SetMat4("group", model)
	u.SetVec3("viewPos", camera.Position)

	ambient, sun := renderer.SplitLights(lights)
	u.SetVec3("ambient", ambient)
	if sun != nil {
		u.SetVec3("light.direction", sun.Direction)
		u.SetVec3("light.color", sun.Color)
		u.SetFloat("light.intensity", sun.Intensity)
	} else {
		u.SetFloat("light.intensity", 0)
	}

	if renderer.FrustumCullingEnabled {
		rend.frustum = camera.CalculateFrustum()
	}

	for _, p := range primitives {
		if renderer.FrustumCullingEnabled {
			centre := model.Mul4x1(p.Position.Vec4(1)).Vec3()
			reach := model.Mul4x1(mgl32.Vec4{p.Radius + p.Length*0.5, 0, 0, 0}).Vec3().Len()
			if !rend.frustum.IntersectsSphere(centre, reach) {
				continue
			}
		}

		g := rend.upload(p)
		u.SetMat4("model", p.ModelMatrix)
		if m := p.Material; m != nil {
			u.SetVec3("diffuseColor", mgl32.Vec3(m.DiffuseColor))
			u.SetVec3("specularColor", mgl32.Vec3(m.SpecularColor))
			u.SetFloat("shininess", m.Shininess)
			u.SetFloat("alpha", m.Alpha)
		}

		gl.BindVertexArray(g.VAO)
		gl.DrawElements(gl.TRIANGLES, g.count, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

// Release drops the GPU references held for primitives. A mesh is deleted
// once no resident primitive uses it.
func (rend *Renderer) Release(primitives []*renderer.Primitive) {
	for _, p := range primitives {
		g, ok := rend.resident[p]
		if !ok {
			continue
		}
		delete(rend.resident, p)
		g.refs--
		if g.refs == 0 {
			deleteMesh(g)
			delete(rend.meshes, p.Mesh)
		}
	}
}

// UpdateViewport updates the OpenGL viewport to match the current window size
func (rend *Renderer) UpdateViewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (rend *Renderer) Cleanup() {
	if !rend.initialized {
		return
	}
	for mesh, g := range rend.meshes {
		deleteMesh(g)
		delete(rend.meshes, mesh)
	}
	clear(rend.resident)
	rend.defaultShader.Delete()
	rend.initialized = false
	logger.Log.Info("OpenGL render cleaned up")
}
