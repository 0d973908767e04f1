package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"MolView/internal/bridge"
	"MolView/internal/builder"
	"MolView/internal/chem"
	"MolView/internal/config"
	"MolView/internal/engine"
	"MolView/internal/logger"
	"MolView/internal/orbit"
	"MolView/internal/pubchem"
	"MolView/internal/renderer"
	"MolView/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

func engineConfig(c *config.Config) engine.Config {
	bond := config.RGB(c.Molecule.BondColor)
	return engine.Config{
		Width:  int32(c.Window.Width),
		Height: int32(c.Window.Height),
		FPS:    c.Window.FPS,
		Scene: scene.Options{
			CameraDistance: float32(c.Camera.Distance),
			Fov:            float32(c.Camera.Fov),
		},
		Orbit: orbit.Config{
			RotateSpeed: c.Orbit.RotateSpeed,
			ZoomSpeed:   c.Orbit.ZoomSpeed,
			MinZoom:     c.Orbit.MinZoom,
			MaxZoom:     c.Orbit.MaxZoom,
		},
		Molecule: builder.Options{
			RadiusScale:   float32(c.Molecule.RadiusScale),
			PositionScale: float32(c.Molecule.PositionScale),
			BondRadius:    float32(c.Molecule.BondRadius),
			BondColor:     chem.RGB{R: bond[0], G: bond[1], B: bond[2]},
		},
	}
}

func pubchemOptions(c *config.Config) pubchem.Options {
	return pubchem.Options{
		BaseURL:       c.PubChem.BaseURL,
		Timeout:       c.PubChem.Timeout,
		RateLimit:     c.PubChem.RateLimit,
		Retries:       c.PubChem.Retries,
		RetryInterval: c.PubChem.RetryInterval,
		CacheTTL:      c.PubChem.CacheTTL,
	}
}

func bridgeConfig(c *config.Config) bridge.Config {
	return bridge.Config{
		Addr:            c.Bridge.Addr,
		AllowedOrigins:  c.Bridge.AllowedOrigins,
		ShutdownTimeout: c.Bridge.ShutdownTimeout,
	}
}

// applyRendererConfig sets the package-level renderer switches shared by
// both backends.
func applyRendererConfig(c *config.Config) {
	bg := config.RGB(c.Renderer.ClearColor)
	renderer.ClearColor = mgl32.Vec3{bg[0], bg[1], bg[2]}
	renderer.FrustumCullingEnabled = c.Renderer.FrustumCulling
	renderer.Wireframe = c.Renderer.Wireframe
}

// readResult loads a search result from a JSON file. A bare structure
// document ({"atoms": [...]}) is accepted too and named after the file.
func readResult(path string) (chem.SearchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return chem.SearchResult{}, fmt.Errorf("read structure file: %w", err)
	}
	var r chem.SearchResult
	if err := json.Unmarshal(data, &r); err != nil {
		return chem.SearchResult{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if r.Structure == nil {
		var s chem.Structure
		if err := json.Unmarshal(data, &s); err == nil && !s.Empty() {
			r.Structure = &s
		}
	}
	if r.Name == "" {
		r.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return r, nil
}

// initialResult resolves what to show at startup. An unavailable search
// service degrades to the fallback structure under the query's name.
func initialResult(ctx context.Context, s bridge.Searcher, file, query string) (chem.SearchResult, bool, error) {
	switch {
	case file != "":
		r, err := readResult(file)
		return r, err == nil, err
	case query != "":
		r, err := s.Search(ctx, query)
		if errors.Is(err, pubchem.ErrSearchUnavailable) {
			logger.Log.Warn("Search unavailable, showing fallback", zap.String("query", query), zap.Error(err))
			return chem.SearchResult{Name: query}, true, nil
		}
		if err != nil {
			return chem.SearchResult{}, false, err
		}
		return r, true, nil
	}
	return chem.SearchResult{}, false, nil
}
