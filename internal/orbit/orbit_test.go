package orbit

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDragRotates(t *testing.T) {
	c := NewDefault()
	c.PointerDown(100, 100)
	c.PointerMove(150, 80)

	s := c.State()
	if !s.Dragging {
		t.Fatal("should be dragging")
	}
	if !approx(s.Yaw, 0.5) || !approx(s.Pitch, -0.2) {
		t.Errorf("yaw=%v pitch=%v, want 0.5 -0.2", s.Yaw, s.Pitch)
	}
	if s.LastX != 150 || s.LastY != 80 {
		t.Errorf("last pointer = %v,%v", s.LastX, s.LastY)
	}

	c.PointerMove(160, 80)
	if !approx(c.State().Yaw, 0.6) {
		t.Errorf("yaw should accumulate from the last pointer, got %v", c.State().Yaw)
	}
}

func TestDragSmallMove(t *testing.T) {
	c := NewDefault()
	c.PointerDown(100, 100)
	c.PointerMove(110, 115)

	s := c.State()
	if math.Abs(s.Yaw-0.10) > 1e-9 || math.Abs(s.Pitch-0.15) > 1e-9 {
		t.Errorf("yaw=%v pitch=%v, want 0.10 0.15", s.Yaw, s.Pitch)
	}
}

func TestWheelZoomsOutByHalf(t *testing.T) {
	c := NewDefault()
	c.Wheel(-500)
	if z := c.State().Zoom; !approx(z, 0.5) {
		t.Errorf("zoom = %v, want 0.5", z)
	}
}

func TestWheelIgnoresNonFinite(t *testing.T) {
	c := NewDefault()
	c.Wheel(200)
	for _, d := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		c.Wheel(d)
		if z := c.State().Zoom; !approx(z, 1.2) {
			t.Fatalf("Wheel(%v) left zoom = %v, want 1.2", d, z)
		}
	}
	c.Set(0, 0, math.NaN())
	if z := c.State().Zoom; !approx(z, 1.2) {
		t.Errorf("Set with NaN zoom gave %v", z)
	}
}

func TestMoveWhileIdleIgnored(t *testing.T) {
	c := NewDefault()
	c.PointerMove(500, 500)
	if s := c.State(); s.Yaw != 0 || s.Pitch != 0 {
		t.Errorf("idle move rotated: %+v", s)
	}

	c.PointerDown(0, 0)
	c.PointerUp()
	c.PointerMove(100, 100)
	if s := c.State(); s.Yaw != 0 || s.Dragging {
		t.Errorf("move after release rotated: %+v", s)
	}
	if c.Mode() != Idle {
		t.Errorf("mode = %v", c.Mode())
	}
}

func TestRotationUnbounded(t *testing.T) {
	c := NewDefault()
	c.PointerDown(0, 0)
	for i := 1; i <= 10; i++ {
		c.PointerMove(float64(i*1000), 0)
	}
	if !approx(c.State().Yaw, 100) {
		t.Errorf("yaw = %v, want 100", c.State().Yaw)
	}
}

func TestWheelClamps(t *testing.T) {
	c := NewDefault()
	c.Wheel(100)
	if !approx(c.State().Zoom, 1.1) {
		t.Errorf("zoom = %v, want 1.1", c.State().Zoom)
	}

	c.Wheel(1e6)
	if c.State().Zoom != DefaultMaxZoom {
		t.Errorf("zoom = %v, want max", c.State().Zoom)
	}
	c.Wheel(-1e6)
	if c.State().Zoom != DefaultMinZoom {
		t.Errorf("zoom = %v, want min", c.State().Zoom)
	}

	// Wheel works mid-drag too.
	c.PointerDown(0, 0)
	c.Wheel(400)
	if !approx(c.State().Zoom, 0.5) {
		t.Errorf("zoom = %v, want 0.5", c.State().Zoom)
	}
}

func TestReset(t *testing.T) {
	c := NewDefault()
	c.PointerDown(0, 0)
	c.PointerMove(30, 40)
	c.Wheel(2000)
	c.Reset()

	s := c.State()
	if s.Pitch != 0 || s.Yaw != 0 || s.Zoom != 1 {
		t.Errorf("after reset: %+v", s)
	}
}

func TestNewFillsDefaults(t *testing.T) {
	c := New(Config{RotateSpeed: 0.02, MinZoom: 0.5, MaxZoom: 0.2})
	cfg := c.Config()
	if cfg.RotateSpeed != 0.02 || cfg.ZoomSpeed != DefaultZoomSpeed {
		t.Errorf("speeds = %+v", cfg)
	}
	if cfg.MinZoom != 0.5 || cfg.MaxZoom != DefaultMaxZoom {
		t.Errorf("limits = %+v", cfg)
	}
}
