package generators

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/titouanl/particlesim/particles"
)

// ComposedFactory builds new particles by drawing each attribute from
// an independent generator, implementing particles.Factory.
type ComposedFactory struct {
	Position Generator[r2.Vec]
	Velocity Generator[r2.Vec]
	Mass     Generator[float64]
	Color    Generator[particles.Color]
}

// Create implements particles.Factory.
func (f ComposedFactory) Create(n int, dst *particles.Store) {
	if n <= 0 {
		return
	}

	positions := make([]r2.Vec, 0, n)
	velocities := make([]r2.Vec, 0, n)
	masses := make([]float64, 0, n)
	colors := make([]particles.Color, 0, n)

	f.Position.Generate(n, &positions)
	f.Velocity.Generate(n, &velocities)
	f.Mass.Generate(n, &masses)
	f.Color.Generate(n, &colors)

	for i := 0; i < n; i++ {
		dst.Append(positions[i], velocities[i], masses[i], colors[i])
	}
}
