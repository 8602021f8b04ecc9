package tracing

import (
	"fmt"
	"time"

	"github.com/sarchlab/heatbench/stencil"
)

// KindPhase is the kind of the tasks that cover one phase of one step.
const KindPhase = "phase"

// A Task is a span of work carried out by a solver.
type Task struct {
	ID        string
	Kind      string
	What      string
	Where     string
	Step      int
	StartTime time.Time
	EndTime   time.Time
}

// Duration returns how long the task took.
func (t Task) Duration() time.Duration {
	return t.EndTime.Sub(t.StartTime)
}

// TaskFilter is a function that can filter interesting tasks. If this function
// returns true, the task is considered useful.
type TaskFilter func(t Task) bool

// AllTasks accepts every task.
func AllTasks(Task) bool {
	return true
}

// PhaseFilter accepts the tasks of a single phase.
func PhaseFilter(phase string) TaskFilter {
	return func(t Task) bool {
		return t.Kind == KindPhase && t.What == phase
	}
}

// TaskFromSpan converts a phase span reported by a solver into a task.
func TaskFromSpan(where string, span stencil.PhaseSpan) Task {
	return Task{
		ID:        fmt.Sprintf("%s@%d", span.Phase, span.Step),
		Kind:      KindPhase,
		What:      span.Phase.String(),
		Where:     where,
		Step:      span.Step,
		StartTime: span.Start,
		EndTime:   span.End,
	}
}
