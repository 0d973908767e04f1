// Package orbit turns pointer drags and wheel steps into a molecule
// orientation and zoom.
package orbit

import "math"

const (
	DefaultRotateSpeed = 0.01
	DefaultZoomSpeed   = 0.001
	DefaultMinZoom     = 0.1
	DefaultMaxZoom     = 10.0
)

type Mode int

const (
	Idle Mode = iota
	Dragging
)

func (m Mode) String() string {
	if m == Dragging {
		return "dragging"
	}
	return "idle"
}

type Config struct {
	RotateSpeed float64 // radians per pixel of drag
	ZoomSpeed   float64 // zoom per wheel delta unit
	MinZoom     float64
	MaxZoom     float64
}

func DefaultConfig() Config {
	return Config{
		RotateSpeed: DefaultRotateSpeed,
		ZoomSpeed:   DefaultZoomSpeed,
		MinZoom:     DefaultMinZoom,
		MaxZoom:     DefaultMaxZoom,
	}
}

// State is a snapshot of the interaction, read once per frame.
type State struct {
	Dragging bool
	LastX    float64
	LastY    float64
	Pitch    float64
	Yaw      float64
	Zoom     float64
}

// Controller is not safe for concurrent use. The render loop owns it and
// input callbacks run on the same goroutine.
type Controller struct {
	cfg   Config
	mode  Mode
	lastX float64
	lastY float64
	pitch float64
	yaw   float64
	zoom  float64
}

// New returns an idle controller at zoom 1. Zero or inverted limits in cfg
// are replaced by the defaults.
func New(cfg Config) *Controller {
	def := DefaultConfig()
	if cfg.RotateSpeed == 0 {
		cfg.RotateSpeed = def.RotateSpeed
	}
	if cfg.ZoomSpeed == 0 {
		cfg.ZoomSpeed = def.ZoomSpeed
	}
	if cfg.MinZoom <= 0 {
		cfg.MinZoom = def.MinZoom
	}
	if cfg.MaxZoom < cfg.MinZoom {
		cfg.MaxZoom = math.Max(def.MaxZoom, cfg.MinZoom)
	}
	return &Controller{cfg: cfg, zoom: 1}
}

func NewDefault() *Controller {
	return New(DefaultConfig())
}

func (c *Controller) Config() Config {
	return c.cfg
}

func (c *Controller) Mode() Mode {
	return c.mode
}

func (c *Controller) PointerDown(x, y float64) {
	c.mode = Dragging
	c.lastX, c.lastY = x, y
}

// PointerMove rotates by the delta since the last recorded pointer. Moves
// while idle are ignored.
func (c *Controller) PointerMove(x, y float64) {
	if c.mode != Dragging {
		return
	}
	c.yaw += (x - c.lastX) * c.cfg.RotateSpeed
	c.pitch += (y - c.lastY) * c.cfg.RotateSpeed
	c.lastX, c.lastY = x, y
}

func (c *Controller) PointerUp() {
	c.mode = Idle
}

// Wheel adjusts zoom in any mode, clamped to [MinZoom, MaxZoom].
func (c *Controller) Wheel(deltaY float64) {
	if !finite(deltaY) {
		return
	}
	c.zoom = clamp(c.zoom+deltaY*c.cfg.ZoomSpeed, c.cfg.MinZoom, c.cfg.MaxZoom)
}

// Reset restores orientation and zoom. The drag mode is left as is.
func (c *Controller) Reset() {
	c.pitch, c.yaw = 0, 0
	c.zoom = 1
}

// Set places the view directly, clamping zoom. Used for scripted views.
func (c *Controller) Set(pitch, yaw, zoom float64) {
	c.pitch, c.yaw = pitch, yaw
	if finite(zoom) {
		c.zoom = clamp(zoom, c.cfg.MinZoom, c.cfg.MaxZoom)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (c *Controller) State() State {
	return State{
		Dragging: c.mode == Dragging,
		LastX:    c.lastX,
		LastY:    c.lastY,
		Pitch:    c.pitch,
		Yaw:      c.yaw,
		Zoom:     c.zoom,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
