// Package integrator provides numeric time-stepping of a vector field
// into a state vector: state[i] += values[i] * dt, for all i.
package integrator

import "gonum.org/v1/gonum/spatial/r2"

// Integrator advances state by values scaled by dt. The operation is
// data-parallel and order-independent across i, so implementations are
// free to parallelize; the default does not bother, since a single pass
// over a slice is already memory-bandwidth bound.
type Integrator interface {
	Integrate(values, state []r2.Vec, dt float64)
}

// Gaussian is the default integrator: explicit forward Euler. The name
// matches the reference implementation this core was ported from, where
// it denotes the simplest (first-order) time-stepping scheme.
type Gaussian struct{}

// Integrate computes state[i] += values[i] * dt for every i.
func (Gaussian) Integrate(values, state []r2.Vec, dt float64) {
	for i := range state {
		state[i].X += values[i].X * dt
		state[i].Y += values[i].Y * dt
	}
}
