// Package grid holds the temperature field that the stencil solvers advance.
package grid

import (
	"errors"
	"fmt"
)

// MinSize is the smallest edge length that leaves at least one interior cell.
const MinSize = 3

// HotSource is the temperature seeded at the center of a freshly initialized
// grid.
const HotSource = 100.0

// ErrInvalidDimension is returned when a grid is too small to have an
// interior.
var ErrInvalidDimension = errors.New("grid: invalid dimension")

// A Grid is a square field of float64 values stored in row-major order. Cell
// (i, j) is row i, column j.
type Grid struct {
	size  int
	cells []float64
}

// New allocates a size x size grid filled with zeros.
func New(size int) (*Grid, error) {
	if size < MinSize {
		return nil, fmt.Errorf(
			"%w: size %d is smaller than %d", ErrInvalidDimension, size, MinSize)
	}

	return &Grid{
		size:  size,
		cells: make([]float64, size*size),
	}, nil
}

// Initialize allocates a grid and seeds the center cell with HotSource.
func Initialize(size int) (*Grid, error) {
	g, err := New(size)
	if err != nil {
		return nil, err
	}

	center := size / 2
	g.Set(center, center, HotSource)

	return g, nil
}

// Size returns the edge length of the grid.
func (g *Grid) Size() int { return g.size }

// Index returns the position of (i, j) in the backing slice.
func (g *Grid) Index(i, j int) int { return i*g.size + j }

// At returns the value of cell (i, j).
func (g *Grid) At(i, j int) float64 { return g.cells[i*g.size+j] }

// Set overwrites the value of cell (i, j).
func (g *Grid) Set(i, j int, v float64) { g.cells[i*g.size+j] = v }

// Row returns row i as a slice that aliases the grid storage.
func (g *Grid) Row(i int) []float64 {
	start := i * g.size
	return g.cells[start : start+g.size : start+g.size]
}

// Cells exposes the backing slice so kernels can read and write it directly.
func (g *Grid) Cells() []float64 { return g.cells }

// Sum adds up every cell. It is the total heat held by the field.
func (g *Grid) Sum() float64 {
	sum := 0.0
	for _, v := range g.cells {
		sum += v
	}

	return sum
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		size:  g.size,
		cells: make([]float64, len(g.cells)),
	}
	copy(c.cells, g.cells)

	return c
}

// Equal reports whether both grids have the same size and bit-identical
// cells.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.size != other.size {
		return false
	}

	for i, v := range g.cells {
		if v != other.cells[i] {
			return false
		}
	}

	return true
}
