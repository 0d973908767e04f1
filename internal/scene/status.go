package scene

import "sync"

const (
	StatusInitializing = "Initializing 3D viewer..."
	StatusReady        = "3D viewer ready"
)

// Status holds the human-readable viewer status. It is written from the
// render loop and read from anywhere.
type Status struct {
	mu   sync.RWMutex
	msg  string
	subs map[int]func(string)
	next int
}

func (s *Status) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.msg
}

// Set stores msg and notifies subscribers synchronously. Subscribers must not
// block.
func (s *Status) Set(msg string) {
	s.mu.Lock()
	s.msg = msg
	subs := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(msg)
	}
}

// Subscribe registers fn for every later status change and returns a
// function that removes it.
func (s *Status) Subscribe(fn func(string)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]func(string))
	}
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
