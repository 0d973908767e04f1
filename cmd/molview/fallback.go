package main

import (
	"encoding/json"

	"MolView/internal/chem"

	"github.com/spf13/cobra"
)

var fallbackCmd = &cobra.Command{
	Use:   "fallback",
	Short: "Print the built-in fallback structure as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(chem.Fallback())
	},
}

func init() {
	rootCmd.AddCommand(fallbackCmd)
}
