package window

import "testing"

// Only the pure mapping is tested; the rest needs a display.
func TestScrollDelta(t *testing.T) {
	tests := []struct {
		yoff float64
		want float64
	}{
		{1, -100},
		{-1, 100},
		{0.5, -50},
		{0, 0},
	}
	for _, tt := range tests {
		if got := ScrollDelta(tt.yoff); got != tt.want {
			t.Errorf("ScrollDelta(%v) = %v, want %v", tt.yoff, got, tt.want)
		}
	}
}

func TestIsClick(t *testing.T) {
	if !IsClick(10, 10, 10, 10) {
		t.Error("release in place should be a click")
	}
	if !IsClick(10, 10, 12, 7) {
		t.Error("movement within the slop should be a click")
	}
	if IsClick(10, 10, 20, 10) {
		t.Error("a drag should not be a click")
	}
}
