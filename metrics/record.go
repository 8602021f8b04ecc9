// Package metrics turns the timing of a run into the record consumed by the
// reporting tools.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/sarchlab/heatbench/stencil"
	"github.com/sarchlab/heatbench/timing"
)

// ErrDivisionUndefined is returned when a rate is requested for a run that
// took no time or made no steps.
var ErrDivisionUndefined = errors.New("metrics: division undefined")

// Breakdown splits the total time of a run by phase, in seconds. OtherTime is
// the unattributed residual and may be slightly negative.
type Breakdown struct {
	StencilTime  float64 `json:"stencil_time"`
	BoundaryTime float64 `json:"boundary_time"`
	SwapTime     float64 `json:"swap_time"`
	OtherTime    float64 `json:"other_time"`
}

// Record is the outcome of one run. TimePerStep and Performance are nil when
// they are undefined.
type Record struct {
	Stage       string    `json:"stage"`
	GridSize    int       `json:"grid_size"`
	TimeSteps   int       `json:"time_steps"`
	TotalTime   float64   `json:"total_time"`
	TimePerStep *float64  `json:"time_per_step,omitempty"`
	Performance *float64  `json:"performance,omitempty"`
	Breakdown   Breakdown `json:"breakdown"`
}

// Performance returns the throughput of a run in steps per second.
func Performance(steps int, total time.Duration) (float64, error) {
	if steps == 0 || total == 0 {
		return 0, fmt.Errorf("%w: %d steps in %v", ErrDivisionUndefined, steps, total)
	}

	return float64(steps) / total.Seconds(), nil
}

// TimePerStep returns the average wall time of one step in milliseconds.
func TimePerStep(steps int, total time.Duration) (float64, error) {
	if steps == 0 || total == 0 {
		return 0, fmt.Errorf("%w: %d steps in %v", ErrDivisionUndefined, steps, total)
	}

	return total.Seconds() / float64(steps) * 1000, nil
}

// NewRecord builds the record of a run. Rates that cannot be computed are
// left nil.
func NewRecord(stage string, p stencil.Params, t timing.Record) Record {
	r := Record{
		Stage:     stage,
		GridSize:  p.Size,
		TimeSteps: p.Timesteps,
		TotalTime: t.Total.Seconds(),
		Breakdown: Breakdown{
			StencilTime:  t.Stencil.Seconds(),
			BoundaryTime: t.Boundary.Seconds(),
			SwapTime:     t.Swap.Seconds(),
			OtherTime:    t.Other().Seconds(),
		},
	}

	if v, err := Performance(p.Timesteps, t.Total); err == nil {
		r.Performance = &v
	}

	if v, err := TimePerStep(p.Timesteps, t.Total); err == nil {
		r.TimePerStep = &v
	}

	return r
}

// FromResult builds the record of a completed solver run.
func FromResult(res stencil.Result) Record {
	return NewRecord(res.Stage, res.Params, res.Timing)
}

// HasPerformance reports whether the throughput is defined.
func (r Record) HasPerformance() bool {
	return r.Performance != nil
}
