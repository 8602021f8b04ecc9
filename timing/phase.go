package timing

import "time"

// Phase identifies one of the disjoint parts of a solver step.
type Phase int

// The phases of a step, in execution order.
const (
	PhaseStencil Phase = iota
	PhaseBoundary
	PhaseSwap
	NumPhases
)

// Phases lists every phase in execution order.
var Phases = []Phase{PhaseStencil, PhaseBoundary, PhaseSwap}

func (p Phase) String() string {
	switch p {
	case PhaseStencil:
		return "stencil"
	case PhaseBoundary:
		return "boundary"
	case PhaseSwap:
		return "swap"
	default:
		return "unknown"
	}
}

// Record holds the accumulated time of a run.
type Record struct {
	Stencil  time.Duration
	Boundary time.Duration
	Swap     time.Duration
	Total    time.Duration
}

// Phase returns the accumulated time of the given phase.
func (r Record) Phase(p Phase) time.Duration {
	switch p {
	case PhaseStencil:
		return r.Stencil
	case PhaseBoundary:
		return r.Boundary
	case PhaseSwap:
		return r.Swap
	default:
		panic("unknown phase")
	}
}

// Other is the part of Total not attributed to any phase. Timer granularity
// can make it slightly negative.
func (r Record) Other() time.Duration {
	return r.Total - r.Stencil - r.Boundary - r.Swap
}

// IsZero reports whether nothing has been measured.
func (r Record) IsZero() bool {
	return r == Record{}
}

func (r *Record) add(p Phase, d time.Duration) {
	switch p {
	case PhaseStencil:
		r.Stencil += d
	case PhaseBoundary:
		r.Boundary += d
	case PhaseSwap:
		r.Swap += d
	default:
		panic("unknown phase")
	}
}
