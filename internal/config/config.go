// Package config defines the viewer configuration. Loading lives in
// loader.go, defaults in defaults.go.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
	FPS    int    `mapstructure:"fps"`
	VSync  bool   `mapstructure:"vsync"`
}

type RendererConfig struct {
	Backend        string    `mapstructure:"backend"` // "opengl" | "raster"
	ClearColor     []float64 `mapstructure:"clear_color"`
	FrustumCulling bool      `mapstructure:"frustum_culling"`
	Wireframe      bool      `mapstructure:"wireframe"`
}

// MoleculeConfig scales input geometry into scene units.
type MoleculeConfig struct {
	RadiusScale   float64   `mapstructure:"radius_scale"`
	PositionScale float64   `mapstructure:"position_scale"`
	BondRadius    float64   `mapstructure:"bond_radius"`
	BondColor     []float64 `mapstructure:"bond_color"`
}

type OrbitConfig struct {
	RotateSpeed float64 `mapstructure:"rotate_speed"`
	ZoomSpeed   float64 `mapstructure:"zoom_speed"`
	MinZoom     float64 `mapstructure:"min_zoom"`
	MaxZoom     float64 `mapstructure:"max_zoom"`
}

type CameraConfig struct {
	Distance float64 `mapstructure:"distance"`
	Fov      float64 `mapstructure:"fov"`
}

type PubChemConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RateLimit     time.Duration `mapstructure:"rate_limit"`
	Retries       int           `mapstructure:"retries"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
}

// BridgeConfig controls the HTTP/WebSocket surface used by the surrounding
// application.
type BridgeConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Addr            string        `mapstructure:"addr"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Config struct {
	Window   WindowConfig   `mapstructure:"window"`
	Renderer RendererConfig `mapstructure:"renderer"`
	Molecule MoleculeConfig `mapstructure:"molecule"`
	Orbit    OrbitConfig    `mapstructure:"orbit"`
	Camera   CameraConfig   `mapstructure:"camera"`
	PubChem  PubChemConfig  `mapstructure:"pubchem"`
	Bridge   BridgeConfig   `mapstructure:"bridge"`
	Log      LogConfig      `mapstructure:"log"`
}

// Validate returns the first semantic problem found.
func (c *Config) Validate() error {
	if c.Window.Width < 1 || c.Window.Height < 1 {
		return fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Window.FPS < 1 || c.Window.FPS > 1000 {
		return fmt.Errorf("config: window.fps %d is out of range [1, 1000]", c.Window.FPS)
	}

	switch c.Renderer.Backend {
	case BackendOpenGL, BackendRaster:
	default:
		return fmt.Errorf("config: renderer.backend %q is invalid; expected opengl|raster", c.Renderer.Backend)
	}
	if err := checkColor("renderer.clear_color", c.Renderer.ClearColor); err != nil {
		return err
	}

	if c.Molecule.RadiusScale <= 0 {
		return fmt.Errorf("config: molecule.radius_scale must be > 0, got %v", c.Molecule.RadiusScale)
	}
	if c.Molecule.PositionScale <= 0 {
		return fmt.Errorf("config: molecule.position_scale must be > 0, got %v", c.Molecule.PositionScale)
	}
	if c.Molecule.BondRadius <= 0 {
		return fmt.Errorf("config: molecule.bond_radius must be > 0, got %v", c.Molecule.BondRadius)
	}
	if err := checkColor("molecule.bond_color", c.Molecule.BondColor); err != nil {
		return err
	}

	if c.Orbit.MinZoom <= 0 || c.Orbit.MaxZoom < c.Orbit.MinZoom {
		return fmt.Errorf("config: orbit zoom range [%v, %v] is invalid", c.Orbit.MinZoom, c.Orbit.MaxZoom)
	}
	if c.Orbit.RotateSpeed == 0 || c.Orbit.ZoomSpeed == 0 {
		return fmt.Errorf("config: orbit speeds must be non-zero")
	}

	if c.Camera.Distance <= 0 {
		return fmt.Errorf("config: camera.distance must be > 0, got %v", c.Camera.Distance)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		return fmt.Errorf("config: camera.fov %v is out of range (0, 180)", c.Camera.Fov)
	}

	if u, err := url.Parse(c.PubChem.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: pubchem.base_url %q is not an absolute URL", c.PubChem.BaseURL)
	}
	if c.PubChem.Retries < 0 {
		return fmt.Errorf("config: pubchem.retries must be >= 0, got %d", c.PubChem.Retries)
	}

	if c.Bridge.Enabled && c.Bridge.Addr == "" {
		return fmt.Errorf("config: bridge.addr is required when the bridge is enabled")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected console|json", c.Log.Format)
	}
	return nil
}

func checkColor(key string, c []float64) error {
	if len(c) != 3 {
		return fmt.Errorf("config: %s needs 3 components, got %d", key, len(c))
	}
	for _, v := range c {
		if v < 0 || v > 1 {
			return fmt.Errorf("config: %s component %v is out of range [0, 1]", key, v)
		}
	}
	return nil
}

// RGB returns a three-component colour as float32s.
func RGB(c []float64) [3]float32 {
	var out [3]float32
	for i := 0; i < len(c) && i < 3; i++ {
		out[i] = float32(c[i])
	}
	return out
}
