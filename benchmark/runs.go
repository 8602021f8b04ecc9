package benchmark

import (
	"context"
	"os"
	"time"

	"github.com/sarchlab/heatbench/datarecording"
	"github.com/sarchlab/heatbench/metrics"
	"github.com/sarchlab/heatbench/stencil"
)

// RunTable is the table that holds one row per completed run.
const RunTable = "runs"

// RunEntry is a metrics record flattened into a table row. Undefined rates
// are stored as zero with HasPerformance set to false.
type RunEntry struct {
	RunID          string
	RecordedAt     string
	Stage          string
	GridSize       int
	TimeSteps      int
	Alpha          float64
	Dx             float64
	Workers        int
	TotalTime      float64
	TimePerStep    float64
	Performance    float64
	HasPerformance bool
	StencilTime    float64
	BoundaryTime   float64
	SwapTime       float64
	OtherTime      float64
}

// NewRunEntry flattens the record of a run.
func NewRunEntry(
	runID string,
	workers int,
	p stencil.Params,
	r metrics.Record,
) RunEntry {
	e := RunEntry{
		RunID:        runID,
		RecordedAt:   time.Now().UTC().Format(time.RFC3339),
		Stage:        r.Stage,
		GridSize:     r.GridSize,
		TimeSteps:    r.TimeSteps,
		Alpha:        p.Alpha,
		Dx:           p.Dx,
		Workers:      workers,
		TotalTime:    r.TotalTime,
		StencilTime:  r.Breakdown.StencilTime,
		BoundaryTime: r.Breakdown.BoundaryTime,
		SwapTime:     r.Breakdown.SwapTime,
		OtherTime:    r.Breakdown.OtherTime,
	}

	if r.TimePerStep != nil {
		e.TimePerStep = *r.TimePerStep
	}

	if r.Performance != nil {
		e.Performance = *r.Performance
		e.HasPerformance = true
	}

	return e
}

// HistoryQuery selects recorded runs. An empty Stage matches every stage and
// a zero Limit returns every run.
type HistoryQuery struct {
	Stage string
	Limit int
}

// ReadRuns returns the runs stored in the database file, newest first,
// together with the number of runs matching the query.
func ReadRuns(
	ctx context.Context,
	dbFile string,
	q HistoryQuery,
) ([]RunEntry, int, error) {
	_, err := os.Stat(dbFile)
	if err != nil {
		return nil, 0, err
	}

	reader := datarecording.NewReader(dbFile)
	defer reader.Close()

	reader.MapTable(RunTable, RunEntry{})

	params := datarecording.QueryParams{
		OrderBy: "RecordedAt DESC, rowid DESC",
		Limit:   q.Limit,
	}

	if q.Stage != "" {
		params.Where = "Stage = ?"
		params.Args = []any{q.Stage}
	}

	results, total, err := reader.Query(ctx, RunTable, params)
	if err != nil {
		return nil, 0, err
	}

	runs := make([]RunEntry, 0, len(results))
	for _, r := range results {
		runs = append(runs, *r.(*RunEntry))
	}

	return runs, total, nil
}
