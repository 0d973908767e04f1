package engine

import "sync/atomic"

// HeadlessSurface stands in for a window when frames go to an offscreen
// backend. It closes only when told to.
type HeadlessSurface struct {
	presents atomic.Int64
	closed   atomic.Bool
}

func NewHeadlessSurface() *HeadlessSurface {
	return &HeadlessSurface{}
}

func (s *HeadlessSurface) Present()          { s.presents.Add(1) }
func (s *HeadlessSurface) PollEvents()       {}
func (s *HeadlessSurface) ShouldClose() bool { return s.closed.Load() }

func (s *HeadlessSurface) Close() {
	s.closed.Store(true)
}

func (s *HeadlessSurface) Presents() int64 {
	return s.presents.Load()
}
