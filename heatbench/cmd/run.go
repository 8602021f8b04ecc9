package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/heatbench/benchmark"
	"github.com/sarchlab/heatbench/config"
	"github.com/sarchlab/heatbench/metrics"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	def := config.Default()

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark once and write metrics.json.",
		Long: "Settings are taken from the defaults, then from the .env " +
			"files, then from HEATBENCH_* variables, and finally from " +
			"the flags given on the command line.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Running %s with grid=%d, steps=%d\n",
				cfg.Stage, cfg.Size, cfg.Timesteps)

			report, err := benchmark.Run(cfg)
			if err != nil {
				return err
			}

			printRecord(out, report.Record)
			printPhaseStats(out, report.Phases)

			return nil
		},
	}

	f := runCmd.Flags()
	f.StringSlice("env-file", []string{".env"}, "Files to read settings from")
	f.String("stage", def.Stage, "Solver stage to run")
	f.Int("size", def.Size, "Grid size, including the boundary")
	f.Int("timesteps", def.Timesteps, "Number of time steps")
	f.Float64("alpha", def.Alpha, "Thermal diffusivity")
	f.Float64("dx", def.Dx, "Grid spacing")
	f.String("output-dir", def.OutputDir, "Directory receiving metrics.json")
	f.Int("workers", def.Workers, "Workers of the parallel stage, 0 for one per CPU")
	f.Bool("monitor", def.Monitor, "Serve the progress of the run over HTTP")
	f.Int("monitor-port", def.MonitorPort, "Port of the monitoring server")
	f.Bool("open-browser", def.OpenBrowser, "Open the monitoring page")
	f.String("record", def.RecordPath, "Append the run to this SQLite database")
	f.Bool("trace", def.Trace, "Store every phase in the database")
	f.Int("log-every", def.LogEvery, "Log the progress every n steps, 0 for never")

	return runCmd
}

// loadConfig layers the flags that were set explicitly on top of the
// environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	f := cmd.Flags()

	envFiles, _ := f.GetStringSlice("env-file")

	cfg, err := config.LoadEnv(config.Default(), envFiles...)
	if err != nil {
		return cfg, err
	}

	if f.Changed("stage") {
		cfg.Stage, _ = f.GetString("stage")
	}

	if f.Changed("size") {
		cfg.Size, _ = f.GetInt("size")
	}

	if f.Changed("timesteps") {
		cfg.Timesteps, _ = f.GetInt("timesteps")
	}

	if f.Changed("alpha") {
		cfg.Alpha, _ = f.GetFloat64("alpha")
	}

	if f.Changed("dx") {
		cfg.Dx, _ = f.GetFloat64("dx")
	}

	if f.Changed("output-dir") {
		cfg.OutputDir, _ = f.GetString("output-dir")
	}

	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
	}

	if f.Changed("monitor") {
		cfg.Monitor, _ = f.GetBool("monitor")
	}

	if f.Changed("monitor-port") {
		cfg.MonitorPort, _ = f.GetInt("monitor-port")
	}

	if f.Changed("open-browser") {
		cfg.OpenBrowser, _ = f.GetBool("open-browser")
	}

	if f.Changed("record") {
		cfg.RecordPath, _ = f.GetString("record")
	}

	if f.Changed("trace") {
		cfg.Trace, _ = f.GetBool("trace")
	}

	if f.Changed("log-every") {
		cfg.LogEvery, _ = f.GetInt("log-every")
	}

	return cfg, nil
}

func printRecord(w io.Writer, r metrics.Record) {
	fmt.Fprintf(w, "Total time:    %.6f s\n", r.TotalTime)

	if r.TimePerStep != nil {
		fmt.Fprintf(w, "Time per step: %.6f ms\n", *r.TimePerStep)
	}

	if r.Performance != nil {
		fmt.Fprintf(w, "Performance:   %.2f steps/s\n", *r.Performance)
	} else {
		fmt.Fprintln(w, "Performance:   undefined")
	}

	b := r.Breakdown
	fmt.Fprintf(w, "  stencil  %.6f s\n", b.StencilTime)
	fmt.Fprintf(w, "  boundary %.6f s\n", b.BoundaryTime)
	fmt.Fprintf(w, "  swap     %.6f s\n", b.SwapTime)
	fmt.Fprintf(w, "  other    %.6f s\n", b.OtherTime)
}

func printPhaseStats(w io.Writer, stats []benchmark.PhaseStat) {
	for _, st := range stats {
		if st.Count == 0 {
			continue
		}

		fmt.Fprintf(w, "  %-8s %v per step over %d steps\n",
			st.Phase, st.Mean, st.Count)
	}
}
