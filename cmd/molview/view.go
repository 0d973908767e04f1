package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"MolView/internal/bridge"
	"MolView/internal/config"
	"MolView/internal/engine"
	"MolView/internal/logger"
	"MolView/internal/metrics"
	"MolView/internal/pubchem"
	"MolView/internal/renderer"
	"MolView/internal/renderer/opengl"
	"MolView/internal/renderer/raster"
	"MolView/internal/window"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	viewFile  string
	viewQuery string
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the interactive viewer",
	Long: `Opens a window showing the molecule. Drag with the left button to orbit,
scroll to zoom, press R to reset the view and Escape to quit.

With renderer.backend set to raster no window is opened; the viewer runs
offscreen until interrupted, which is useful together with the bridge.`,
	RunE: runView,
}

func init() {
	viewCmd.Flags().StringVar(&viewFile, "file", "", "JSON structure or search result to show at startup")
	viewCmd.Flags().StringVar(&viewQuery, "query", "", "compound to look up at startup")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	v := engine.New(engineConfig(cfg), m)

	var (
		surface engine.Surface
		backend renderer.Render
		win     *window.Window
	)
	if cfg.Renderer.Backend == config.BackendRaster {
		surface = engine.NewHeadlessSurface()
		backend = raster.New()
	} else {
		var err error
		win, err = window.Open(window.Config{
			Width:  cfg.Window.Width,
			Height: cfg.Window.Height,
			Title:  cfg.Window.Title,
			VSync:  cfg.Window.VSync,
		})
		if err != nil {
			return err
		}
		defer win.Close()
		surface = win
		backend = opengl.New()
	}

	if err := v.Start(surface, backend); err != nil {
		return err
	}
	if win != nil {
		// HiDPI framebuffers are larger than the requested window size.
		v.Resize(win.FramebufferSize())
		win.Bind(v)
	}

	client := pubchem.New(pubchemOptions(cfg))
	if cfg.Bridge.Enabled {
		srv := bridge.New(bridgeConfig(cfg), v, client, m)
		go func() {
			if err := srv.Start(); err != nil {
				logger.Log.Error("Bridge stopped", zap.Error(err))
			}
		}()
		defer func() {
			if err := srv.Shutdown(context.Background()); err != nil {
				logger.Log.Warn("Bridge shutdown", zap.Error(err))
			}
		}()
	}

	if viewFile != "" || viewQuery != "" {
		go func() {
			r, ok, err := initialResult(ctx, client, viewFile, viewQuery)
			if err != nil {
				logger.Log.Error("Initial molecule", zap.Error(err))
				return
			}
			if !ok {
				return
			}
			if _, err := v.Load(r); err != nil {
				logger.Log.Error("Initial molecule", zap.Error(err))
			}
		}()
	}

	return v.Run(ctx)
}
