package quadtree

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/titouanl/particlesim/forces"
	"github.com/titouanl/particlesim/particles"
)

// BruteForce computes the exact O(N^2) pairwise force sum, added into buf.
// It exists as a convergence oracle: as Theta approaches zero, QuadTree's
// BarnesHutForces must approach BruteForce's output, since an opening
// angle of zero forces every internal node open down to its leaves.
func BruteForce(store *particles.Store, buf []r2.Vec, gravity forces.Gravity, repulsion forces.Repulsion, drag forces.Drag) {
	n := store.Len()
	for i := 0; i < n; i++ {
		pi := store.Positions[i]
		vi := store.Velocities[i]
		mi := store.Masses[i]
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			g := gravity.On(pi, store.Positions[j], mi, store.Masses[j])
			r := repulsion.On(pi, store.Positions[j])
			d := drag.On(pi, store.Positions[j], vi, store.Velocities[j])
			buf[i].X += g.X + r.X + d.X
			buf[i].Y += g.Y + r.Y + d.Y
		}
	}
}
