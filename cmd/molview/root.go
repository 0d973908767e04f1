package main

import (
	"fmt"
	"os"

	"MolView/internal/config"
	"MolView/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	// cfg is loaded once per invocation by the root pre-run hook.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "molview",
	Short: "Interactive 3D molecule viewer",
	Long: `MolView renders molecular structures as ball-and-stick models. It opens
an orbitable window, renders PNG snapshots offscreen and can expose a local
HTTP bridge so another application can drive what is shown.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (YAML); MOLVIEW_* variables override it")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if err := logger.InitWithConfig(logger.Config{Level: c.Log.Level, Format: c.Log.Format}); err != nil {
		return err
	}
	applyRendererConfig(c)
	cfg = c
	return nil
}
