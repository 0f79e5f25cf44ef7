// Package forces provides the O(N) uniform field contributions and the
// pairwise Barnes–Hut force kernels (gravity, repulsion, ranged drag)
// shared by direct leaf-pair evaluation and aggregate-as-point traversal.
package forces

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/titouanl/particlesim/particles"
)

// Force adds its contribution to every particle's accumulator cell. It
// must not overwrite the buffer, only add to it, so that multiple forces
// can be applied in sequence within the same step.
type Force interface {
	Apply(store *particles.Store, buf []r2.Vec)
}

// UniformGravity adds mass * acceleration to every particle's force cell.
type UniformGravity struct {
	Acceleration r2.Vec
}

// Apply implements Force.
func (g UniformGravity) Apply(store *particles.Store, buf []r2.Vec) {
	for i, mass := range store.Masses {
		buf[i].X += mass * g.Acceleration.X
		buf[i].Y += mass * g.Acceleration.Y
	}
}

// UniformDrag adds -coef * (velocity - reference) to every particle's
// force cell.
type UniformDrag struct {
	Coef      float64
	Reference r2.Vec
}

// Apply implements Force.
func (d UniformDrag) Apply(store *particles.Store, buf []r2.Vec) {
	for i, v := range store.Velocities {
		buf[i].X -= d.Coef * (v.X - d.Reference.X)
		buf[i].Y -= d.Coef * (v.Y - d.Reference.Y)
	}
}

// Gravity is the pairwise inverse-square attraction kernel:
// F = -G * (pi - pj) * mi * mj / |pi - pj|^3, zero below Epsilon.
type Gravity struct {
	G       float64
	Epsilon float64
}

// On returns the force exerted on a particle at (pi, mi) by a particle
// (or Barnes–Hut aggregate) at (pj, mj).
func (k Gravity) On(pi, pj r2.Vec, mi, mj float64) r2.Vec {
	dx := pi.X - pj.X
	dy := pi.Y - pj.Y
	dist := math.Hypot(dx, dy)
	if dist < k.Epsilon {
		return r2.Vec{}
	}
	scale := -k.G * mi * mj / (dist * dist * dist)
	return r2.Vec{X: scale * dx, Y: scale * dy}
}

// Repulsion is the pairwise inverse-fourth-power repulsion kernel:
// F = +K * (pi - pj) / |pi - pj|^4, zero below Epsilon.
type Repulsion struct {
	K       float64
	Epsilon float64
}

// On returns the force exerted on a particle at pi by a particle (or
// aggregate) at pj.
func (k Repulsion) On(pi, pj r2.Vec) r2.Vec {
	dx := pi.X - pj.X
	dy := pi.Y - pj.Y
	dist := math.Hypot(dx, dy)
	if dist < k.Epsilon {
		return r2.Vec{}
	}
	scale := k.K / (dist * dist * dist * dist)
	return r2.Vec{X: scale * dx, Y: scale * dy}
}

// Drag is the pairwise distance-limited velocity-matching kernel:
// F = -C * (1 - (dist/DMax)^2) * (vi - vj), zero beyond DMax or at
// zero distance.
type Drag struct {
	C    float64
	DMax float64
}

// On returns the force exerted on a particle at (pi, vi) by a particle
// (or aggregate) at (pj, vj).
func (k Drag) On(pi, pj, vi, vj r2.Vec) r2.Vec {
	dx := pi.X - pj.X
	dy := pi.Y - pj.Y
	dist := math.Hypot(dx, dy)
	if dist > k.DMax || dist == 0 {
		return r2.Vec{}
	}
	ratio := dist / k.DMax
	coef := -k.C * (1 - ratio*ratio)
	return r2.Vec{X: coef * (vi.X - vj.X), Y: coef * (vi.Y - vj.Y)}
}
