package cmd

import (
	"fmt"

	"github.com/sarchlab/heatbench/stencil"
	"github.com/spf13/cobra"
)

func newStagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the solver stages that can be run.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, s := range stencil.Stages() {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
		},
	}
}
