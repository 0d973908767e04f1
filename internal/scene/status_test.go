package scene

import "testing"

func TestStatusSubscribe(t *testing.T) {
	var s Status
	var got []string
	cancel := s.Subscribe(func(msg string) { got = append(got, msg) })

	s.Set(StatusInitializing)
	s.Set(StatusReady)
	if s.Get() != StatusReady {
		t.Errorf("Get = %q", s.Get())
	}
	if len(got) != 2 || got[0] != StatusInitializing || got[1] != StatusReady {
		t.Errorf("notifications = %v", got)
	}

	cancel()
	s.Set("Error: gone")
	if len(got) != 2 {
		t.Errorf("cancelled subscriber still notified: %v", got)
	}
	if s.Get() != "Error: gone" {
		t.Errorf("Get = %q", s.Get())
	}
}
