// Package raster is an offscreen backend that paints primitives with
// fogleman/gg. It needs no GPU and backs snapshots and headless runs.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sort"

	"MolView/internal/logger"
	"MolView/internal/renderer"

	"github.com/fogleman/gg"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var ErrInvalidSize = errors.New("raster: invalid canvas size")

type Renderer struct {
	dc     *gg.Context
	width  int
	height int

	Frames   int // completed Render calls
	Released int // primitives handed back through Release
}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Init(width, height int32) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	r.width, r.height = int(width), int(height)
	r.dc = gg.NewContext(r.width, r.height)
	logger.Log.Info("Raster render initialized", zap.Int("width", r.width), zap.Int("height", r.height))
	return nil
}

// item is one primitive projected to screen space.
type item struct {
	p     *renderer.Primitive
	depth float32
	a, b  mgl32.Vec2 // cylinder endpoints, or the sphere centre twice
	size  float64    // sphere radius or cylinder width in pixels
}

func (r *Renderer) Render(camera *renderer.Camera, lights []*renderer.Light, model mgl32.Mat4, primitives []*renderer.Primitive) {
	if r.dc == nil {
		return
	}
	bg := renderer.ClearColor
	r.dc.SetRGB(float64(bg.X()), float64(bg.Y()), float64(bg.Z()))
	r.dc.Clear()

	items := r.project(camera, model, primitives)
	// Painter's algorithm: farthest first.
	sort.SliceStable(items, func(i, j int) bool { return items[i].depth > items[j].depth })

	ambient, sun := renderer.SplitLights(lights)
	for _, it := range items {
		base := mgl32.Vec3{1, 1, 1}
		if it.p.Material != nil {
			base = mgl32.Vec3(it.p.Material.DiffuseColor)
		}
		switch it.p.Kind {
		case renderer.SpherePrimitive:
			r.drawSphere(it, base, ambient, sun, camera)
		case renderer.CylinderPrimitive:
			r.drawCylinder(it, base, ambient, sun)
		}
	}
	r.Frames++
}

func (r *Renderer) project(camera *renderer.Camera, model mgl32.Mat4, primitives []*renderer.Primitive) []item {
	scale := model.Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3().Len()
	items := make([]item, 0, len(primitives))
	for _, p := range primitives {
		centre := model.Mul4x1(p.Position.Vec4(1)).Vec3()
		sc, depth, ok := camera.Project(centre, r.width, r.height)
		if !ok {
			continue
		}
		size := float64(p.Radius * scale * camera.PixelsPerUnit(depth, r.height))
		it := item{p: p, depth: depth, a: sc, b: sc, size: size}
		if p.Kind == renderer.CylinderPrimitive {
			from, to := p.Endpoints()
			a, _, okA := camera.Project(model.Mul4x1(from.Vec4(1)).Vec3(), r.width, r.height)
			b, _, okB := camera.Project(model.Mul4x1(to.Vec4(1)).Vec3(), r.width, r.height)
			if !okA || !okB {
				continue
			}
			it.a, it.b, it.size = a, b, 2*size
		}
		items = append(items, it)
	}
	return items
}

func (r *Renderer) drawSphere(it item, base, ambient mgl32.Vec3, sun *renderer.Light, camera *renderer.Camera) {
	x, y := float64(it.a.X()), float64(it.a.Y())
	radius := it.size
	if radius < 0.5 {
		radius = 0.5
	}

	lit := ambient
	hx, hy := x, y
	if sun != nil {
		lit = lit.Add(sun.Color.Mul(sun.Intensity))
		// Move the highlight toward the light as seen from the camera.
		toLight := sun.Direction.Mul(-1)
		view := camera.GetViewMatrix().Mul4x1(toLight.Vec4(0)).Vec3()
		hx += float64(view.X()) * radius * 0.4
		hy -= float64(view.Y()) * radius * 0.4
	}
	highlight := mulColor(base, lit).Add(mgl32.Vec3{0.2, 0.2, 0.2})
	shadow := mulColor(base, ambient.Add(mgl32.Vec3{0.05, 0.05, 0.05}))

	grad := gg.NewRadialGradient(hx, hy, 0, x, y, radius)
	grad.AddColorStop(0, toNRGBA(highlight))
	grad.AddColorStop(1, toNRGBA(shadow))
	r.dc.SetFillStyle(grad)
	r.dc.DrawCircle(x, y, radius)
	r.dc.Fill()
}

func (r *Renderer) drawCylinder(it item, base, ambient mgl32.Vec3, sun *renderer.Light) {
	lit := ambient
	if sun != nil {
		lit = lit.Add(sun.Color.Mul(sun.Intensity * 0.6))
	}
	r.dc.SetColor(toNRGBA(mulColor(base, lit)))
	r.dc.SetLineWidth(math.Max(it.size, 1))
	r.dc.SetLineCap(gg.LineCapButt)
	r.dc.DrawLine(float64(it.a.X()), float64(it.a.Y()), float64(it.b.X()), float64(it.b.Y()))
	r.dc.Stroke()
}

func mulColor(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}

func toNRGBA(c mgl32.Vec3) color.NRGBA {
	ch := func(v float32) uint8 {
		return uint8(math.Round(float64(mgl32.Clamp(v, 0, 1)) * 255))
	}
	return color.NRGBA{R: ch(c.X()), G: ch(c.Y()), B: ch(c.Z()), A: 255}
}

func (r *Renderer) Release(primitives []*renderer.Primitive) {
	r.Released += len(primitives)
}

func (r *Renderer) UpdateViewport(width, height int32) {
	if width <= 0 || height <= 0 || (int(width) == r.width && int(height) == r.height) {
		return
	}
	r.width, r.height = int(width), int(height)
	r.dc = gg.NewContext(r.width, r.height)
}

func (r *Renderer) Cleanup() {
	r.dc = nil
}

// Image returns the last rendered frame, or nil before Init and after Cleanup.
func (r *Renderer) Image() image.Image {
	if r.dc == nil {
		return nil
	}
	return r.dc.Image()
}

func (r *Renderer) SavePNG(path string) error {
	if r.dc == nil {
		return errors.New("raster: no frame to save")
	}
	return r.dc.SavePNG(path)
}

func (r *Renderer) EncodePNG(w io.Writer) error {
	if r.dc == nil {
		return errors.New("raster: no frame to encode")
	}
	return r.dc.EncodePNG(w)
}
