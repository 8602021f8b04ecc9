// Package benchmark wires a solver to the timing, metrics, recording, tracing
// and monitoring services and carries out one run.
package benchmark

import (
	"fmt"
	"log"
	"os"

	"github.com/sarchlab/heatbench/config"
	"github.com/sarchlab/heatbench/datarecording"
	"github.com/sarchlab/heatbench/metrics"
	"github.com/sarchlab/heatbench/monitoring"
	"github.com/sarchlab/heatbench/stencil"
	"github.com/sarchlab/heatbench/tracing"
)

// A Benchmark is a solver together with the services that observe it.
type Benchmark struct {
	id        string
	solver    stencil.Solver
	params    stencil.Params
	workers   int
	outputDir string
	phases    []phaseTracers

	dataRecorder datarecording.DataRecorder
	execRecorder *datarecording.ExecRecorder
	tracer       *tracing.DBTracer
	monitor      *monitoring.Monitor
	progressBar  *monitoring.ProgressBar
}

// ID returns the identifier the run is recorded under.
func (b *Benchmark) ID() string {
	return b.id
}

// Solver returns the solver of the benchmark.
func (b *Benchmark) Solver() stencil.Solver {
	return b.solver
}

// Monitor returns the monitor, or nil when monitoring is off.
func (b *Benchmark) Monitor() *monitoring.Monitor {
	return b.monitor
}

// DataRecorder returns the recorder, or nil when no record path is set.
func (b *Benchmark) DataRecorder() datarecording.DataRecorder {
	return b.dataRecorder
}

// PhaseStats returns the span statistics of every phase, in execution order.
func (b *Benchmark) PhaseStats() []PhaseStat {
	stats := make([]PhaseStat, 0, len(b.phases))
	for _, t := range b.phases {
		stats = append(stats, t.stat())
	}

	return stats
}

// Run carries out the run, writes metrics.json into the output directory and
// records the run if a database is configured.
func (b *Benchmark) Run() (metrics.Record, error) {
	if b.execRecorder != nil {
		b.execRecorder.Start()
		defer b.execRecorder.End()
	}

	res, err := b.solver.Run(b.params)
	if err != nil {
		return metrics.Record{}, err
	}

	record := metrics.FromResult(res)

	path, err := metrics.Write(b.outputDir, record)
	if err != nil {
		return record, err
	}

	fmt.Fprintf(os.Stderr, "Metrics written to %s\n", path)

	if b.dataRecorder != nil {
		b.dataRecorder.InsertData(RunTable,
			NewRunEntry(b.id, b.workers, b.params, record))
	}

	if b.monitor != nil {
		b.monitor.CompleteProgressBar(b.progressBar)
	}

	return record, nil
}

// Terminate flushes the recorded data and stops the monitoring server.
func (b *Benchmark) Terminate() {
	if b.tracer != nil {
		b.tracer.Terminate()
	}

	if b.dataRecorder != nil {
		err := b.dataRecorder.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Closing database: %v\n", err)
		}
	}

	if b.monitor != nil {
		b.monitor.StopServer()
	}
}

// FromConfig returns a builder configured from cfg.
func FromConfig(cfg config.Config) Builder {
	b := MakeBuilder().
		WithStage(cfg.Stage).
		WithParams(cfg.Params()).
		WithOutputDir(cfg.OutputDir).
		WithOptions(cfg.Options()).
		WithRecordPath(cfg.RecordPath)

	if cfg.Monitor {
		b = b.WithMonitoring().WithMonitorPort(cfg.MonitorPort)
		if cfg.OpenBrowser {
			b = b.WithBrowser()
		}
	}

	if cfg.Trace {
		b = b.WithTracing()
	}

	if cfg.LogEvery > 0 {
		b = b.WithStepLog(log.New(os.Stderr, "", log.LstdFlags), cfg.LogEvery)
	}

	return b
}

// A Report is the outcome of a configured run.
type Report struct {
	Record metrics.Record
	Phases []PhaseStat
}

// Run validates cfg, carries out one benchmark run and releases everything
// the run acquired.
func Run(cfg config.Config) (Report, error) {
	err := cfg.Validate()
	if err != nil {
		return Report{}, err
	}

	bm, err := FromConfig(cfg).Build()
	if err != nil {
		return Report{}, err
	}
	defer bm.Terminate()

	record, err := bm.Run()
	if err != nil {
		return Report{Record: record}, err
	}

	return Report{Record: record, Phases: bm.PhaseStats()}, nil
}
