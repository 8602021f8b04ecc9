// Package cmd provides the command-line interface for heatbench.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "heatbench",
		Short: "Heatbench times an explicit 2D heat equation solver.",
		Long: `Heatbench times an explicit 2D heat equation solver and ` +
			`writes the per-phase breakdown of each run to metrics.json. ` +
			`Runs can also be appended to a SQLite history.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCmd(), newStagesCmd(), newHistoryCmd())

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
