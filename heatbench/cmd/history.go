package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/sarchlab/heatbench/benchmark"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Print the runs recorded in a database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, _ := cmd.Flags().GetString("db")
			stage, _ := cmd.Flags().GetString("stage")
			limit, _ := cmd.Flags().GetInt("limit")

			runs, total, err := benchmark.ReadRuns(cmd.Context(), db,
				benchmark.HistoryQuery{Stage: stage, Limit: limit})
			if err != nil {
				return fmt.Errorf("reading history: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tRECORDED\tSTAGE\tSIZE\tSTEPS\tWORKERS\tTOTAL (s)\tSTEPS/S")

			for _, r := range runs {
				perf := "-"
				if r.HasPerformance {
					perf = fmt.Sprintf("%.2f", r.Performance)
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.6f\t%s\n",
					r.RunID, r.RecordedAt, r.Stage, r.GridSize,
					r.TimeSteps, r.Workers, r.TotalTime, perf)
			}

			err = w.Flush()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d runs\n", len(runs), total)

			return nil
		},
	}

	historyCmd.Flags().String("db", "", "Database file, including .sqlite3")
	historyCmd.Flags().String("stage", "", "Only show runs of this stage")
	historyCmd.Flags().Int("limit", 20, "Maximum number of runs, 0 for all")
	_ = historyCmd.MarkFlagRequired("db")

	return historyCmd
}
