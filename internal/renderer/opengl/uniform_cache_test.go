package opengl

import (
	"testing"
)

func TestNewUniformCache(t *testing.T) {
	cache := NewUniformCache(0)

	if cache == nil {
		t.Fatal("NewUniformCache returned nil")
	}

	if cache.locations == nil {
		t.Error("locations map should be initialized")
	}
}

func TestUniformCacheClear(t *testing.T) {
	cache := NewUniformCache(0)
	cache.locations["test"] = 5

	cache.Clear()

	if len(cache.locations) != 0 {
		t.Error("Clear should empty the cache")
	}
}

func TestUniformCacheCachedLookupSkipsGL(t *testing.T) {
	cache := NewUniformCache(0)
	cache.locations["model"] = 3

	// A cached name must not reach the GL driver; there is no context here.
	if loc := cache.GetLocation("model"); loc != 3 {
		t.Errorf("expected cached location 3, got %d", loc)
	}
}

func TestUniformCacheRebind(t *testing.T) {
	cache := NewUniformCache(1)
	cache.locations["model"] = 3

	cache.Rebind(7)

	if cache.program != 7 {
		t.Errorf("program = %d, want 7", cache.program)
	}
	if len(cache.locations) != 0 {
		t.Error("Rebind should drop cached locations")
	}
}
