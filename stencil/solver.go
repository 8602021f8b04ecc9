package stencil

import (
	"sync/atomic"
	"time"

	"github.com/sarchlab/heatbench/grid"
	"github.com/sarchlab/heatbench/hooking"
	"github.com/sarchlab/heatbench/timing"
)

// Hook positions raised by every solver.
var (
	// HookPosPhaseEnd fires after a phase's end sample. The item is a
	// PhaseSpan.
	HookPosPhaseEnd = &hooking.HookPos{Name: "PhaseEnd"}

	// HookPosStepEnd fires after the swap of each step. The item is a
	// StepInfo.
	HookPosStepEnd = &hooking.HookPos{Name: "StepEnd"}
)

// A PhaseSpan is one measured phase of one step.
type PhaseSpan struct {
	Step  int
	Phase timing.Phase
	Start time.Time
	End   time.Time
}

// Duration returns the length of the span.
func (s PhaseSpan) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// StepInfo describes a completed step. Grid is the solver's live buffer and
// must not be retained or modified by hooks.
type StepInfo struct {
	Step      int
	Timesteps int
	Elapsed   time.Duration
	Grid      *grid.Grid
}

// Result is the outcome of a completed run.
type Result struct {
	Stage  string
	Params Params
	Grid   *grid.Grid
	Timing timing.Record
}

// A Solver advances a freshly initialized grid for the requested number of
// steps and measures each phase of every step.
type Solver interface {
	hooking.Hookable

	Name() string
	Run(p Params) (Result, error)
}

// sweeper is the part that differs between stages: how the interior of next
// is computed from cur.
type sweeper interface {
	begin(p Params)
	sweep(cur, next *grid.Grid, r float64)
	end()
}

type solver struct {
	*hooking.HookableBase

	name    string
	clock   timing.Clock
	sweeper sweeper
	running atomic.Bool
}

func newSolver(name string, opts Options, s sweeper) *solver {
	clock := opts.Clock
	if clock == nil {
		clock = timing.WallClock()
	}

	return &solver{
		HookableBase: hooking.NewHookableBase(),
		name:         name,
		clock:        clock,
		sweeper:      s,
	}
}

// Name returns the stage name of the solver.
func (s *solver) Name() string {
	return s.name
}

// Run validates the parameters and advances the grid p.Timesteps times.
func (s *solver) Run(p Params) (Result, error) {
	err := p.Validate()
	if err != nil {
		return Result{}, err
	}

	if !s.running.CompareAndSwap(false, true) {
		panic("solver " + s.name + " is already running")
	}
	defer s.running.Store(false)

	bufs, err := grid.NewBuffers(p.Size)
	if err != nil {
		return Result{}, err
	}

	result := Result{Stage: s.name, Params: p}

	if p.Timesteps == 0 {
		result.Grid = bufs.Current()
		return result, nil
	}

	r := p.Coefficient()

	s.sweeper.begin(p)
	defer s.sweeper.end()

	sw := timing.NewStopwatch(s.clock)
	sw.StartRun()

	for step := 1; step <= p.Timesteps; step++ {
		s.step(sw, bufs, r, step, p.Timesteps)
	}

	sw.EndRun()

	result.Grid = bufs.Current()
	result.Timing = sw.Record()

	return result, nil
}

func (s *solver) step(
	sw *timing.Stopwatch,
	bufs *grid.Buffers,
	r float64,
	step, timesteps int,
) {
	start := sw.StartPhase()
	s.sweeper.sweep(bufs.Current(), bufs.Next(), r)
	end := sw.EndPhase(timing.PhaseStencil, start)
	s.phaseEnd(step, timing.PhaseStencil, start, end)

	start = sw.StartPhase()
	ApplyNeumann(bufs.Next())
	end = sw.EndPhase(timing.PhaseBoundary, start)
	s.phaseEnd(step, timing.PhaseBoundary, start, end)

	start = sw.StartPhase()
	bufs.Swap()
	end = sw.EndPhase(timing.PhaseSwap, start)
	s.phaseEnd(step, timing.PhaseSwap, start, end)

	if s.NumHooks() == 0 {
		return
	}

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    HookPosStepEnd,
		Item: StepInfo{
			Step:      step,
			Timesteps: timesteps,
			Elapsed:   end.Sub(sw.RunStart()),
			Grid:      bufs.Current(),
		},
	})
}

func (s *solver) phaseEnd(step int, p timing.Phase, start, end time.Time) {
	if s.NumHooks() == 0 {
		return
	}

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    HookPosPhaseEnd,
		Item: PhaseSpan{
			Step:  step,
			Phase: p,
			Start: start,
			End:   end,
		},
	})
}
