package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"MolView/internal/builder"
	"MolView/internal/chem"
	"MolView/internal/logger"
	"MolView/internal/metrics"
	"MolView/internal/orbit"
	"MolView/internal/renderer"
	"MolView/internal/scene"

	"go.uber.org/zap"
)

const (
	DefaultWidth     int32 = 1024
	DefaultHeight    int32 = 768
	DefaultFPS             = 60
	DefaultQueueSize       = 64
)

var (
	ErrNotStarted = errors.New("viewer: not started")
	ErrQueueFull  = errors.New("viewer: event queue full")
)

// Surface is what the loop presents to: a desktop window or nothing at all.
type Surface interface {
	Present()
	PollEvents()
	ShouldClose() bool
}

type Config struct {
	Width     int32
	Height    int32
	FPS       int
	QueueSize int
	Scene     scene.Options
	Orbit     orbit.Config
	Molecule  builder.Options
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	return c
}

// Viewer owns the render loop. Everything that touches the scene runs on the
// loop goroutine: input callbacks call the pointer handlers directly, other
// goroutines go through Post.
type Viewer struct {
	cfg      Config
	scene    *scene.Handle
	orbit    *orbit.Controller
	builder  *builder.Builder
	metrics  *metrics.Metrics
	surface  Surface
	events   chan func()
	running  atomic.Bool
	stopping atomic.Bool
	current  atomic.Pointer[chem.Summary]
	selected atomic.Pointer[Selection]
	frames   atomic.Uint64
}

// Selection is the atom last picked in the viewport.
type Selection struct {
	AtomID  int    `json:"atom_id"`
	Element string `json:"element"`
}

// New creates a viewer. m may be nil.
func New(cfg Config, m *metrics.Metrics) *Viewer {
	cfg = cfg.withDefaults()
	v := &Viewer{
		cfg:     cfg,
		scene:   scene.New(cfg.Scene),
		orbit:   orbit.New(cfg.Orbit),
		builder: builder.New(cfg.Molecule),
		metrics: m,
		events:  make(chan func(), cfg.QueueSize),
	}
	v.scene.Status.Subscribe(func(msg string) {
		v.metrics.StatusChanged()
		logger.Log.Debug("Status", zap.String("status", msg))
	})
	return v
}

// Start initializes the scene on the calling goroutine, which becomes the
// loop goroutine. A backend failure is returned as *scene.RenderInitError
// and leaves the viewer inert.
func (v *Viewer) Start(surface Surface, backend renderer.Render) error {
	if err := v.scene.Initialize(v.cfg.Width, v.cfg.Height, backend); err != nil {
		return err
	}
	v.surface = surface
	logger.Log.Info("Viewer started",
		zap.Int32("width", v.cfg.Width),
		zap.Int32("height", v.cfg.Height),
		zap.Int("fps", v.cfg.FPS))
	return nil
}

// Tick runs one loop iteration. It returns false, without drawing, once the
// scene is torn down or the surface asks to close. A pending Teardown is
// carried out here, before any queued event.
func (v *Viewer) Tick() bool {
	if v.stopping.Load() {
		v.scene.Teardown()
		return false
	}
	if !v.scene.Ready() {
		return false
	}
	v.drain()
	if !v.scene.Ready() {
		return false
	}
	if v.surface != nil && v.surface.ShouldClose() {
		return false
	}

	st := v.orbit.State()
	if a := v.scene.Molecule(); a != nil {
		a.SetRotation(float32(st.Pitch), float32(st.Yaw))
		a.SetScale(float32(st.Zoom))
	}
	if v.scene.Draw() {
		v.frames.Add(1)
		v.metrics.Frame()
	}
	if v.surface != nil {
		v.surface.Present()
		v.surface.PollEvents()
	}
	return true
}

func (v *Viewer) drain() {
	for {
		select {
		case fn := <-v.events:
			fn()
		default:
			return
		}
	}
}

// Run ticks at the configured frame rate until ctx ends, the surface closes
// or the scene is torn down. The scene is torn down when Run returns.
func (v *Viewer) Run(ctx context.Context) error {
	if !v.scene.Ready() {
		return ErrNotStarted
	}
	v.running.Store(true)
	defer v.running.Store(false)
	defer v.scene.Teardown()

	ticker := time.NewTicker(time.Second / time.Duration(v.cfg.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Render loop cancelled", zap.Uint64("frames", v.frames.Load()))
			return nil
		default:
		}
		if !v.Tick() {
			logger.Log.Info("Render loop stopped", zap.Uint64("frames", v.frames.Load()))
			return nil
		}
		select {
		case <-ctx.Done():
			logger.Log.Info("Render loop cancelled", zap.Uint64("frames", v.frames.Load()))
			return nil
		case <-ticker.C:
		}
	}
}

// Post queues fn for the loop goroutine. It never blocks.
func (v *Viewer) Post(fn func()) error {
	select {
	case v.events <- fn:
		return nil
	default:
		logger.Log.Warn("Viewer event queue full", zap.Int("capacity", cap(v.events)))
		return ErrQueueFull
	}
}

// Load displays a search result, falling back to the placeholder structure
// when the result carries no geometry.
func (v *Viewer) Load(r chem.SearchResult) (chem.Summary, error) {
	s, synthetic := chem.ResolveStructure(r)
	if synthetic {
		v.metrics.Fallback()
		logger.Log.Info("No structure in result, using fallback", zap.String("name", r.Name))
	}
	sum := chem.Summarize(r, s, synthetic)
	return sum, v.show(s, sum)
}

// Show displays a bare structure.
func (v *Viewer) Show(s *chem.Structure) (chem.Summary, error) {
	var synthetic bool
	if s != nil {
		synthetic, _ = s.Metadata["synthetic"].(bool)
	}
	sum := chem.Summarize(chem.SearchResult{}, s, synthetic)
	return sum, v.show(s, sum)
}

// show builds on the calling goroutine and hands the result to the loop.
// Build errors are published too, so the status and slot always follow the
// latest request.
func (v *Viewer) show(s *chem.Structure, sum chem.Summary) error {
	if v.stopping.Load() || v.scene.State() == scene.TornDown {
		return scene.ErrTornDown
	}
	a, err := v.builder.Build(s)

	postErr := v.Post(func() {
		v.selected.Store(nil)
		perr := builder.Publish(v.scene, a, err)
		switch {
		case errors.Is(perr, chem.ErrEmptyStructure):
			v.metrics.Build(metrics.BuildEmpty, 0, 0)
		case perr != nil:
			v.metrics.Build(metrics.BuildError, 0, 0)
		default:
			v.metrics.Build(metrics.BuildOK, len(a.Atoms), len(a.Bonds))
		}
		if perr != nil {
			v.current.Store(nil)
			return
		}
		v.current.Store(&sum)
	})
	if err != nil {
		return err
	}
	if postErr != nil {
		return fmt.Errorf("publish assembly: %w", postErr)
	}
	return nil
}

// ResetView zeroes rotation and restores zoom 1 on the next tick. The
// molecule is not rebuilt.
func (v *Viewer) ResetView() error {
	return v.Post(v.orbit.Reset)
}

// SetView places the camera orbit directly on the next tick.
func (v *Viewer) SetView(pitch, yaw, zoom float64) error {
	return v.Post(func() { v.orbit.Set(pitch, yaw, zoom) })
}

// Pointer handlers and Resize must run on the loop goroutine.

func (v *Viewer) PointerDown(x, y float64) { v.orbit.PointerDown(x, y) }
func (v *Viewer) PointerMove(x, y float64) { v.orbit.PointerMove(x, y) }
func (v *Viewer) PointerUp()               { v.orbit.PointerUp() }
func (v *Viewer) Wheel(deltaY float64)     { v.orbit.Wheel(deltaY) }

func (v *Viewer) Resize(width, height int32) {
	v.scene.Resize(width, height)
}

// Pick selects the atom under window point (x, y) in framebuffer pixels. A
// miss clears the selection.
func (v *Viewer) Pick(x, y float64) {
	p, ok := v.scene.Pick(float32(x), float32(y))
	if !ok {
		v.selected.Store(nil)
		return
	}
	sel := Selection{AtomID: p.AtomID, Element: p.Element}
	v.selected.Store(&sel)
	logger.Log.Info("Atom selected", zap.Int("atom_id", sel.AtomID), zap.String("element", sel.Element))
}

func (v *Viewer) Selected() (Selection, bool) {
	s := v.selected.Load()
	if s == nil {
		return Selection{}, false
	}
	return *s, true
}

// Teardown stops the viewer. While the loop runs the request is flagged and
// carried out by the loop at the top of the next tick; otherwise it happens
// immediately.
func (v *Viewer) Teardown() {
	if v.running.Load() {
		v.stopping.Store(true)
		return
	}
	v.scene.Teardown()
}

func (v *Viewer) Status() string {
	return v.scene.Status.Get()
}

func (v *Viewer) SubscribeStatus(fn func(string)) (cancel func()) {
	return v.scene.Status.Subscribe(fn)
}

// Current reports the summary of the attached molecule.
func (v *Viewer) Current() (chem.Summary, bool) {
	s := v.current.Load()
	if s == nil {
		return chem.Summary{}, false
	}
	return *s, true
}

func (v *Viewer) Frames() uint64 {
	return v.frames.Load()
}

func (v *Viewer) Scene() *scene.Handle {
	return v.scene
}

func (v *Viewer) Orbit() orbit.State {
	return v.orbit.State()
}
