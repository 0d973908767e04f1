// Package window opens the desktop glfw window and feeds its input to a
// viewer. Everything here must run on the main OS thread.
package window

import (
	"fmt"
	"math"

	"MolView/internal/logger"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// WheelScale converts glfw scroll offsets to wheel deltas in the units the
// orbit controller expects (roughly one browser wheel notch per offset).
const WheelScale = 100

// ClickSlop is how far, in screen coordinates, the pointer may travel between
// press and release for the gesture to count as a click rather than a drag.
const ClickSlop = 3

type Config struct {
	Width  int
	Height int
	Title  string
	VSync  bool
}

// Input receives window events. engine.Viewer implements it.
type Input interface {
	PointerDown(x, y float64)
	PointerMove(x, y float64)
	PointerUp()
	Wheel(deltaY float64)
	Resize(width, height int32)
	ResetView() error
	// Pick receives clicks in framebuffer pixels.
	Pick(x, y float64)
}

type Window struct {
	win            *glfw.Window
	input          Input
	pressX, pressY float64
}

// Open initializes glfw and creates a window with a current OpenGL 4.1 core
// context. Close releases both.
func Open(cfg Config) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.Samples, 4)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	win.SetInputMode(glfw.CursorMode, glfw.CursorNormal)

	logger.Log.Info("Window created", zap.Int("width", cfg.Width), zap.Int("height", cfg.Height))
	return &Window{win: win}, nil
}

// FramebufferSize is the drawable size in pixels, which differs from the
// window size on high-DPI displays.
func (w *Window) FramebufferSize() (int32, int32) {
	fw, fh := w.win.GetFramebufferSize()
	return int32(fw), int32(fh)
}

// Bind routes mouse, scroll, resize and key events to in.
func (w *Window) Bind(in Input) {
	w.input = in
	w.win.SetMouseButtonCallback(w.mouseButtonCallback)
	w.win.SetCursorPosCallback(w.cursorCallback)
	w.win.SetScrollCallback(w.scrollCallback)
	w.win.SetFramebufferSizeCallback(w.framebufferCallback)
	w.win.SetKeyCallback(w.keyCallback)
}

func (w *Window) mouseButtonCallback(win *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		x, y := win.GetCursorPos()
		w.pressX, w.pressY = x, y
		w.input.PointerDown(x, y)
	case glfw.Release:
		w.input.PointerUp()
		x, y := win.GetCursorPos()
		if IsClick(w.pressX, w.pressY, x, y) {
			sx, sy := w.contentScale()
			w.input.Pick(x*sx, y*sy)
		}
	}
}

func (w *Window) cursorCallback(win *glfw.Window, xpos, ypos float64) {
	w.input.PointerMove(xpos, ypos)
}

func (w *Window) scrollCallback(win *glfw.Window, xoff, yoff float64) {
	w.input.Wheel(ScrollDelta(yoff))
}

func (w *Window) framebufferCallback(win *glfw.Window, width, height int) {
	w.input.Resize(int32(width), int32(height))
}

func (w *Window) keyCallback(win *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyR:
		if err := w.input.ResetView(); err != nil {
			logger.Log.Warn("Reset view dropped", zap.Error(err))
		}
	case glfw.KeyEscape:
		win.SetShouldClose(true)
	}
}

// IsClick reports whether a press at (x0, y0) released at (x1, y1) stayed
// within ClickSlop.
func IsClick(x0, y0, x1, y1 float64) bool {
	return math.Abs(x1-x0) <= ClickSlop && math.Abs(y1-y0) <= ClickSlop
}

// contentScale maps cursor coordinates to framebuffer pixels.
func (w *Window) contentScale() (float64, float64) {
	ww, wh := w.win.GetSize()
	fw, fh := w.win.GetFramebufferSize()
	if ww <= 0 || wh <= 0 {
		return 1, 1
	}
	return float64(fw) / float64(ww), float64(fh) / float64(wh)
}

// ScrollDelta maps a glfw vertical scroll offset to a wheel delta. Scrolling
// up (positive offset) zooms in, as a browser wheel with negative deltaY does.
func ScrollDelta(yoff float64) float64 {
	return -yoff * WheelScale
}

func (w *Window) Present() {
	w.win.SwapBuffers()
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
}
