package tracing

import (
	"log"

	"github.com/sarchlab/heatbench/hooking"
	"github.com/sarchlab/heatbench/stencil"
)

// StepLogger is a hook that prints the progress of a solver every few steps.
type StepLogger struct {
	*log.Logger

	every int
}

// NewStepLogger returns a StepLogger that writes every n-th step, and the
// last one, into the logger.
func NewStepLogger(logger *log.Logger, n int) *StepLogger {
	if n <= 0 {
		panic("step logger interval must be positive")
	}

	return &StepLogger{Logger: logger, every: n}
}

// Func writes the step information into the logger
func (h *StepLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != stencil.HookPosStepEnd {
		return
	}

	info := ctx.Item.(stencil.StepInfo)
	if info.Step%h.every != 0 && info.Step != info.Timesteps {
		return
	}

	name := "solver"
	if s, ok := ctx.Domain.(NamedHookable); ok {
		name = s.Name()
	}

	h.Printf("%s step %d/%d, %v elapsed",
		name, info.Step, info.Timesteps, info.Elapsed)
}
