package scene

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"MolView/internal/logger"
	"MolView/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

type State int32

const (
	Uninitialized State = iota
	Ready
	TornDown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case TornDown:
		return "torn-down"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

var (
	ErrTornDown = errors.New("scene: torn down")
	ErrNotReady = errors.New("scene: not initialized")
)

// RenderInitError reports that the drawing backend could not be brought up.
// It is fatal for the handle that returned it.
type RenderInitError struct {
	Backend string
	Err     error
}

func (e *RenderInitError) Error() string {
	return fmt.Sprintf("render initialization failed (%s): %v", e.Backend, e.Err)
}

func (e *RenderInitError) Unwrap() error { return e.Err }

type Options struct {
	CameraDistance float32
	Fov            float32
}

func (o Options) withDefaults() Options {
	if o.CameraDistance <= 0 {
		o.CameraDistance = renderer.DefaultCameraDistance
	}
	if o.Fov <= 0 {
		o.Fov = renderer.DefaultFov
	}
	return o
}

// Handle owns the scene: camera, lights, backend and the current molecule.
// It moves Uninitialized -> Ready -> TornDown and never goes back.
type Handle struct {
	Status Status

	mu       sync.Mutex
	state    atomic.Int32
	opts     Options
	backend  renderer.Render
	camera   *renderer.Camera
	lights   []*renderer.Light
	molecule *Assembly
	width    int32
	height   int32
}

func New(opts Options) *Handle {
	return &Handle{opts: opts.withDefaults()}
}

func (h *Handle) State() State {
	return State(h.state.Load())
}

func (h *Handle) Ready() bool {
	return h.State() == Ready
}

// Initialize brings the scene up once. Later calls on a ready handle are
// no-ops; calls after teardown return ErrTornDown. A backend failure returns
// a *RenderInitError and leaves the handle torn down.
func (h *Handle) Initialize(width, height int32, backend renderer.Render) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.State() {
	case Ready:
		return nil
	case TornDown:
		return ErrTornDown
	}

	h.Status.Set(StatusInitializing)
	logger.Log.Info("Scene initializing", zap.Int32("width", width), zap.Int32("height", height))

	if backend == nil {
		return h.failInit(&RenderInitError{Backend: "none", Err: errors.New("no render backend")})
	}
	if err := backend.Init(width, height); err != nil {
		return h.failInit(&RenderInitError{Backend: fmt.Sprintf("%T", backend), Err: err})
	}

	h.backend = backend
	h.width, h.height = width, height
	h.camera = renderer.NewCamera(width, height, h.opts.CameraDistance, h.opts.Fov)
	h.camera.LookAt(mgl32.Vec3{0, 0, 0})
	h.lights = []*renderer.Light{
		renderer.CreateAmbientLight(mgl32.Vec3{1, 1, 1}, 0.4),
		renderer.CreateDirectionalLight(mgl32.Vec3{10, 10, 5}, mgl32.Vec3{1, 1, 1}, 0.8),
	}

	h.state.Store(int32(Ready))
	h.Status.Set(StatusReady)
	return nil
}

func (h *Handle) failInit(err *RenderInitError) error {
	h.state.Store(int32(TornDown))
	h.Status.Set("Error: " + err.Error())
	logger.Log.Error("Scene initialization failed", zap.String("backend", err.Backend), zap.Error(err.Err))
	return err
}

// Teardown releases the molecule and the backend. It is safe to call any
// number of times, in any state.
func (h *Handle) Teardown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	prev := h.State()
	if prev == TornDown {
		return
	}
	h.state.Store(int32(TornDown))
	if prev != Ready {
		return
	}
	if h.molecule != nil {
		h.backend.Release(h.molecule.Primitives())
		h.molecule = nil
	}
	h.backend.Cleanup()
	logger.Log.Info("Scene torn down")
}

// Attach makes a the current molecule, releasing the one it replaces.
func (h *Handle) Attach(a *Assembly) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.Ready() {
		return ErrNotReady
	}
	if h.molecule != nil && h.molecule != a {
		h.backend.Release(h.molecule.Primitives())
	}
	h.molecule = a
	return nil
}

// Detach releases and clears the current molecule, if any.
func (h *Handle) Detach() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.molecule == nil {
		return
	}
	if h.Ready() {
		h.backend.Release(h.molecule.Primitives())
	}
	h.molecule = nil
}

func (h *Handle) Molecule() *Assembly {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.molecule
}

// Resize updates the camera aspect and the backend viewport. The molecule
// and its transform are left alone.
func (h *Handle) Resize(width, height int32) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.Ready() || width <= 0 || height <= 0 {
		return
	}
	if width == h.width && height == h.height {
		return
	}
	h.width, h.height = width, height
	h.camera.SetViewport(width, height)
	h.backend.UpdateViewport(width, height)
}

func (h *Handle) Size() (int32, int32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

func (h *Handle) Camera() *renderer.Camera {
	return h.camera
}

func (h *Handle) Lights() []*renderer.Light {
	return h.lights
}

// Draw renders one frame. It reports false, drawing nothing, unless the
// handle is ready.
func (h *Handle) Draw() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.Ready() {
		return false
	}
	if h.molecule == nil {
		h.backend.Render(h.camera, h.lights, mgl32.Ident4(), nil)
		return true
	}
	h.backend.Render(h.camera, h.lights, h.molecule.ModelMatrix(), h.molecule.Primitives())
	return true
}

// Pick returns the atom sphere under window point (x, y), taking the
// molecule's current rotation and zoom into account.
func (h *Handle) Pick(x, y float32) (*renderer.Primitive, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.Ready() || h.molecule == nil {
		return nil, false
	}
	ray := h.camera.ScreenToRay(x, y, int(h.width), int(h.height))
	local := ray.Transform(h.molecule.ModelMatrix().Inv())
	p, _ := renderer.PickSphere(local, h.molecule.Primitives())
	return p, p != nil
}
