package stencil

import "github.com/sarchlab/heatbench/grid"

// StageBlocked sweeps the interior tile by tile so that the three rows a tile
// touches stay in cache.
const StageBlocked = "blocked"

// Default tile shape of the blocked stage.
const (
	DefaultTileRows = 32
	DefaultTileCols = 64
)

func init() {
	Register(StageBlocked, NewBlocked)
}

// NewBlocked creates a single-threaded solver that sweeps the interior in
// TileRows x TileCols tiles.
func NewBlocked(opts Options) Solver {
	s := &blockedSweeper{
		tileRows: opts.TileRows,
		tileCols: opts.TileCols,
	}

	if s.tileRows <= 0 {
		s.tileRows = DefaultTileRows
	}

	if s.tileCols <= 0 {
		s.tileCols = DefaultTileCols
	}

	return newSolver(StageBlocked, opts, s)
}

type blockedSweeper struct {
	tileRows int
	tileCols int
}

func (s *blockedSweeper) begin(Params) {}

func (s *blockedSweeper) sweep(cur, next *grid.Grid, r float64) {
	last := cur.Size() - 1

	for rowLo := 1; rowLo < last; rowLo += s.tileRows {
		rowHi := min(rowLo+s.tileRows, last)

		for colLo := 1; colLo < last; colLo += s.tileCols {
			colHi := min(colLo+s.tileCols, last)
			UpdateTile(cur, next, r, rowLo, rowHi, colLo, colHi)
		}
	}
}

func (s *blockedSweeper) end() {}
