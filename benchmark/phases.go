package benchmark

import (
	"time"

	"github.com/sarchlab/heatbench/stencil"
	"github.com/sarchlab/heatbench/timing"
	"github.com/sarchlab/heatbench/tracing"
)

// PhaseStat summarizes the spans a solver reported for one phase.
type PhaseStat struct {
	Phase timing.Phase
	Count uint64
	Mean  time.Duration
	Total time.Duration
}

type phaseTracers struct {
	phase   timing.Phase
	average *tracing.AverageTimeTracer
	total   *tracing.TotalTimeTracer
}

func collectPhaseStats(solver stencil.Solver) []phaseTracers {
	tracers := make([]phaseTracers, 0, len(timing.Phases))

	for _, p := range timing.Phases {
		t := phaseTracers{
			phase:   p,
			average: tracing.NewAverageTimeTracer(tracing.PhaseFilter(p.String())),
			total:   tracing.NewTotalTimeTracer(tracing.PhaseFilter(p.String())),
		}

		tracing.CollectTrace(solver, t.average)
		tracing.CollectTrace(solver, t.total)

		tracers = append(tracers, t)
	}

	return tracers
}

func (t phaseTracers) stat() PhaseStat {
	return PhaseStat{
		Phase: t.phase,
		Count: t.average.TotalCount(),
		Mean:  t.average.AverageTime(),
		Total: t.total.TotalTime(),
	}
}
