package benchmark

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/rs/xid"
	"github.com/sarchlab/heatbench/datarecording"
	"github.com/sarchlab/heatbench/monitoring"
	"github.com/sarchlab/heatbench/stencil"
	"github.com/sarchlab/heatbench/timing"
	"github.com/sarchlab/heatbench/tracing"
)

// ErrInvalidSetup is returned when the builder options contradict each other.
var ErrInvalidSetup = errors.New("benchmark: invalid setup")

// Builder can be used to build a benchmark.
type Builder struct {
	stage       string
	params      stencil.Params
	opts        stencil.Options
	outputDir   string
	monitorOn   bool
	monitorPort int
	openBrowser bool
	recordPath  string
	tracing     bool
	stepLogger  *log.Logger
	logEvery    int
}

// MakeBuilder creates a new builder for the baseline stage with the
// reference parameters.
func MakeBuilder() Builder {
	return Builder{
		stage: stencil.StageBaseline,
		params: stencil.Params{
			Size:      100,
			Timesteps: 200,
			Alpha:     0.2,
			Dx:        0.01,
		},
		outputDir: ".",
	}
}

// WithStage selects the solver by its registered name.
func (b Builder) WithStage(stage string) Builder {
	b.stage = stage
	return b
}

// WithParams sets the grid size, the number of steps and the physics.
func (b Builder) WithParams(p stencil.Params) Builder {
	b.params = p
	return b
}

// WithOutputDir sets the directory that receives metrics.json.
func (b Builder) WithOutputDir(dir string) Builder {
	b.outputDir = dir
	return b
}

// WithClock replaces the wall clock that times the phases.
func (b Builder) WithClock(c timing.Clock) Builder {
	b.opts.Clock = c
	return b
}

// WithOptions replaces the solver options.
func (b Builder) WithOptions(opts stencil.Options) Builder {
	b.opts = opts
	return b
}

// WithWorkers sets the number of goroutines of the parallel stage.
func (b Builder) WithWorkers(n int) Builder {
	b.opts.Workers = n
	return b
}

// WithMonitoring serves the progress of the run over HTTP.
func (b Builder) WithMonitoring() Builder {
	b.monitorOn = true
	return b
}

// WithoutMonitoring turns the monitoring server off.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitoring page once the server is up.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithRecordPath appends the run to the SQLite database at path + ".sqlite3".
func (b Builder) WithRecordPath(path string) Builder {
	b.recordPath = path
	return b
}

// WithTracing stores every phase of every step in the database.
func (b Builder) WithTracing() Builder {
	b.tracing = true
	return b
}

// WithStepLog writes the progress of the solver into logger every n steps.
func (b Builder) WithStepLog(logger *log.Logger, n int) Builder {
	b.stepLogger = logger
	b.logEvery = n
	return b
}

func (b Builder) parametersMustBeValid() error {
	err := b.params.Validate()
	if err != nil {
		return err
	}

	if b.opts.Workers < 0 {
		return fmt.Errorf("%w: workers %d", stencil.ErrInvalidParameter,
			b.opts.Workers)
	}

	if b.outputDir == "" {
		return fmt.Errorf("%w: empty output directory", ErrInvalidSetup)
	}

	if !b.monitorOn && (b.monitorPort != 0 || b.openBrowser) {
		return fmt.Errorf("%w: monitoring is disabled", ErrInvalidSetup)
	}

	if b.tracing && b.recordPath == "" {
		return fmt.Errorf("%w: tracing requires a record path", ErrInvalidSetup)
	}

	if b.stepLogger != nil && b.logEvery <= 0 {
		return fmt.Errorf("%w: log interval %d", ErrInvalidSetup, b.logEvery)
	}

	return nil
}

// Build checks the setup and builds the benchmark. Nothing is created on
// disk when the setup is invalid.
func (b Builder) Build() (*Benchmark, error) {
	err := b.parametersMustBeValid()
	if err != nil {
		return nil, err
	}

	solver, err := stencil.New(b.stage, b.opts)
	if err != nil {
		return nil, err
	}

	bm := &Benchmark{
		id:        xid.New().String(),
		solver:    solver,
		params:    b.params,
		workers:   b.opts.Workers,
		outputDir: b.outputDir,
	}

	bm.phases = collectPhaseStats(solver)

	if b.recordPath != "" {
		bm.dataRecorder = datarecording.NewDataRecorder(b.recordPath)
		bm.dataRecorder.CreateTable(RunTable, RunEntry{})
		bm.execRecorder = datarecording.NewExecRecorder(bm.dataRecorder, bm.id)
	}

	if b.stepLogger != nil {
		solver.AcceptHook(tracing.NewStepLogger(b.stepLogger, b.logEvery))
	}

	if b.tracing {
		bm.tracer = tracing.NewDBTracer(bm.dataRecorder, bm.id)
		tracing.CollectTrace(solver, bm.tracer)
	}

	if b.monitorOn {
		bm.monitor = monitoring.NewMonitor().WithPortNumber(b.monitorPort)
		bm.progressBar = bm.monitor.Watch(solver, b.params)

		url := bm.monitor.StartServer()
		if b.openBrowser {
			err := monitoring.OpenBrowser(url)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
			}
		}
	}

	return bm, nil
}
