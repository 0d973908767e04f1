package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	BackendOpenGL = "opengl"
	BackendRaster = "raster"

	DefaultWidth  = 1024
	DefaultHeight = 768
	DefaultTitle  = "MolView"
	DefaultFPS    = 60

	DefaultRadiusScale   = 2.0
	DefaultPositionScale = 3.0
	DefaultBondRadius    = 0.15

	DefaultRotateSpeed = 0.01
	DefaultZoomSpeed   = 0.001
	DefaultMinZoom     = 0.1
	DefaultMaxZoom     = 10.0

	DefaultCameraDistance = 30.0
	DefaultCameraFov      = 45.0

	DefaultPubChemURL     = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"
	DefaultPubChemTimeout = 15 * time.Second
	DefaultRateLimit      = 500 * time.Millisecond
	DefaultRetries        = 2
	DefaultRetryInterval  = 500 * time.Millisecond
	DefaultCacheTTL       = 5 * time.Minute

	DefaultBridgeAddr      = "127.0.0.1:8765"
	DefaultShutdownTimeout = 5 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

var (
	DefaultClearColor     = []float64{0.1, 0.1, 0.12}
	DefaultBondColor      = []float64{0.6, 0.6, 0.6}
	DefaultAllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
)

// Default returns a fully defaulted, valid configuration.
func Default() *Config {
	cfg := &Config{
		Renderer: RendererConfig{FrustumCulling: true},
		Window:   WindowConfig{VSync: true},
		PubChem:  PubChemConfig{Retries: DefaultRetries},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-value fields. Booleans cannot be told apart from
// an explicit false and are left alone.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Window.Width == 0 {
		cfg.Window.Width = DefaultWidth
	}
	if cfg.Window.Height == 0 {
		cfg.Window.Height = DefaultHeight
	}
	if cfg.Window.Title == "" {
		cfg.Window.Title = DefaultTitle
	}
	if cfg.Window.FPS == 0 {
		cfg.Window.FPS = DefaultFPS
	}

	if cfg.Renderer.Backend == "" {
		cfg.Renderer.Backend = BackendOpenGL
	}
	if len(cfg.Renderer.ClearColor) == 0 {
		cfg.Renderer.ClearColor = append([]float64(nil), DefaultClearColor...)
	}

	if cfg.Molecule.RadiusScale == 0 {
		cfg.Molecule.RadiusScale = DefaultRadiusScale
	}
	if cfg.Molecule.PositionScale == 0 {
		cfg.Molecule.PositionScale = DefaultPositionScale
	}
	if cfg.Molecule.BondRadius == 0 {
		cfg.Molecule.BondRadius = DefaultBondRadius
	}
	if len(cfg.Molecule.BondColor) == 0 {
		cfg.Molecule.BondColor = append([]float64(nil), DefaultBondColor...)
	}

	if cfg.Orbit.RotateSpeed == 0 {
		cfg.Orbit.RotateSpeed = DefaultRotateSpeed
	}
	if cfg.Orbit.ZoomSpeed == 0 {
		cfg.Orbit.ZoomSpeed = DefaultZoomSpeed
	}
	if cfg.Orbit.MinZoom == 0 {
		cfg.Orbit.MinZoom = DefaultMinZoom
	}
	if cfg.Orbit.MaxZoom == 0 {
		cfg.Orbit.MaxZoom = DefaultMaxZoom
	}

	if cfg.Camera.Distance == 0 {
		cfg.Camera.Distance = DefaultCameraDistance
	}
	if cfg.Camera.Fov == 0 {
		cfg.Camera.Fov = DefaultCameraFov
	}

	if cfg.PubChem.BaseURL == "" {
		cfg.PubChem.BaseURL = DefaultPubChemURL
	}
	if cfg.PubChem.Timeout == 0 {
		cfg.PubChem.Timeout = DefaultPubChemTimeout
	}
	if cfg.PubChem.RateLimit == 0 {
		cfg.PubChem.RateLimit = DefaultRateLimit
	}
	if cfg.PubChem.RetryInterval == 0 {
		cfg.PubChem.RetryInterval = DefaultRetryInterval
	}
	if cfg.PubChem.CacheTTL == 0 {
		cfg.PubChem.CacheTTL = DefaultCacheTTL
	}

	if cfg.Bridge.Addr == "" {
		cfg.Bridge.Addr = DefaultBridgeAddr
	}
	if len(cfg.Bridge.AllowedOrigins) == 0 {
		cfg.Bridge.AllowedOrigins = append([]string(nil), DefaultAllowedOrigins...)
	}
	if cfg.Bridge.ShutdownTimeout == 0 {
		cfg.Bridge.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// setDefaults registers every key with viper. AutomaticEnv only resolves
// keys viper already knows, so this is what makes MOLVIEW_* overrides reach
// Unmarshal without a config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("window.width", DefaultWidth)
	v.SetDefault("window.height", DefaultHeight)
	v.SetDefault("window.title", DefaultTitle)
	v.SetDefault("window.fps", DefaultFPS)
	v.SetDefault("window.vsync", true)

	v.SetDefault("renderer.backend", BackendOpenGL)
	v.SetDefault("renderer.clear_color", DefaultClearColor)
	v.SetDefault("renderer.frustum_culling", true)
	v.SetDefault("renderer.wireframe", false)

	v.SetDefault("molecule.radius_scale", DefaultRadiusScale)
	v.SetDefault("molecule.position_scale", DefaultPositionScale)
	v.SetDefault("molecule.bond_radius", DefaultBondRadius)
	v.SetDefault("molecule.bond_color", DefaultBondColor)

	v.SetDefault("orbit.rotate_speed", DefaultRotateSpeed)
	v.SetDefault("orbit.zoom_speed", DefaultZoomSpeed)
	v.SetDefault("orbit.min_zoom", DefaultMinZoom)
	v.SetDefault("orbit.max_zoom", DefaultMaxZoom)

	v.SetDefault("camera.distance", DefaultCameraDistance)
	v.SetDefault("camera.fov", DefaultCameraFov)

	v.SetDefault("pubchem.base_url", DefaultPubChemURL)
	v.SetDefault("pubchem.timeout", DefaultPubChemTimeout)
	v.SetDefault("pubchem.rate_limit", DefaultRateLimit)
	v.SetDefault("pubchem.retries", DefaultRetries)
	v.SetDefault("pubchem.retry_interval", DefaultRetryInterval)
	v.SetDefault("pubchem.cache_ttl", DefaultCacheTTL)

	v.SetDefault("bridge.enabled", false)
	v.SetDefault("bridge.addr", DefaultBridgeAddr)
	v.SetDefault("bridge.allowed_origins", DefaultAllowedOrigins)
	v.SetDefault("bridge.shutdown_timeout", DefaultShutdownTimeout)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
}
