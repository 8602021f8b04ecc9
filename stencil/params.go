// Package stencil advances a heat field with an explicit finite-difference
// scheme. Every stage in this package computes the same numbers; they only
// differ in how the interior sweep is organized.
package stencil

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarchlab/heatbench/grid"
)

// StabilityFactor scales dx²/alpha into the time step. The explicit 2D
// 5-point scheme is stable below 0.25.
const StabilityFactor = 0.24

// ErrInvalidParameter is returned when the simulation parameters cannot
// describe a run.
var ErrInvalidParameter = errors.New("stencil: invalid parameter")

// Params are the immutable inputs of a run.
type Params struct {
	Size      int     `json:"size"`
	Timesteps int     `json:"timesteps"`
	Alpha     float64 `json:"alpha"`
	Dx        float64 `json:"dx"`
}

// DT returns the stability-constrained time step.
func (p Params) DT() float64 {
	return StabilityFactor * p.Dx * p.Dx / p.Alpha
}

// Coefficient returns alpha*dt/dx², the weight of the Laplacian in one step.
func (p Params) Coefficient() float64 {
	return p.Alpha * p.DT() / (p.Dx * p.Dx)
}

// Validate rejects parameters that cannot describe a run. Values are never
// clamped.
func (p Params) Validate() error {
	if p.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d",
			ErrInvalidParameter, p.Size)
	}

	if p.Size < grid.MinSize {
		return fmt.Errorf("%w: size %d has no interior cells",
			grid.ErrInvalidDimension, p.Size)
	}

	if p.Timesteps < 0 {
		return fmt.Errorf("%w: timesteps must not be negative, got %d",
			ErrInvalidParameter, p.Timesteps)
	}

	if !isPositiveFinite(p.Alpha) {
		return fmt.Errorf("%w: alpha must be positive, got %g",
			ErrInvalidParameter, p.Alpha)
	}

	if !isPositiveFinite(p.Dx) {
		return fmt.Errorf("%w: dx must be positive, got %g",
			ErrInvalidParameter, p.Dx)
	}

	dt, r := p.DT(), p.Coefficient()
	if !isPositiveFinite(dt) || math.IsNaN(r) || math.IsInf(r, 0) {
		return fmt.Errorf("%w: alpha %g and dx %g give dt %g and r %g",
			ErrInvalidParameter, p.Alpha, p.Dx, dt, r)
	}

	return nil
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
