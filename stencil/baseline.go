package stencil

import "github.com/sarchlab/heatbench/grid"

// StageBaseline is a single pass over the interior rows.
const StageBaseline = "baseline"

func init() {
	Register(StageBaseline, NewBaseline)
}

// NewBaseline creates the single-threaded reference solver.
func NewBaseline(opts Options) Solver {
	return newSolver(StageBaseline, opts, baselineSweeper{})
}

type baselineSweeper struct{}

func (baselineSweeper) begin(Params) {}

func (baselineSweeper) sweep(cur, next *grid.Grid, r float64) {
	UpdateRows(cur, next, r, 1, cur.Size()-1)
}

func (baselineSweeper) end() {}
