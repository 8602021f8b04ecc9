package stencil

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sarchlab/heatbench/timing"
)

// ErrUnknownStage is returned when no solver is registered under a name.
var ErrUnknownStage = errors.New("stencil: unknown stage")

// Options configure how a solver is constructed. Zero values pick defaults.
type Options struct {
	// Clock is sampled around every phase. Defaults to timing.WallClock.
	Clock timing.Clock

	// Workers is the number of goroutines used by the parallel stage.
	// Defaults to runtime.NumCPU.
	Workers int

	// TileRows and TileCols size the tiles of the blocked stage.
	TileRows int
	TileCols int
}

// Factory constructs a Solver.
type Factory func(opts Options) Solver

var stages = map[string]Factory{}

// Register adds a solver factory under the provided stage name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		panic("stage name and factory must be set")
	}

	if _, ok := stages[name]; ok {
		panic("stage " + name + " already registered")
	}

	stages[name] = f
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, bool) {
	f, ok := stages[name]
	return f, ok
}

// Stages returns the registered stage names in alphabetical order.
func Stages() []string {
	names := make([]string, 0, len(stages))
	for name := range stages {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// New constructs the solver registered under name.
func New(name string, opts Options) (Solver, error) {
	f, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, name)
	}

	return f(opts), nil
}
