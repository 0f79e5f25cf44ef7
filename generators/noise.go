package generators

import (
	"math/rand"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/titouanl/particlesim/areas"
)

// NoiseFieldPosition places particles within Rect by rejection
// sampling against an OpenSimplex noise field: a candidate position is
// accepted once the field's value there (rescaled to [0, 1]) is at least
// Threshold, biasing emission toward the field's high-density regions
// instead of spreading uniformly.
type NoiseFieldPosition struct {
	Rect      areas.Rect
	Threshold float64
	Scale     float64
	Noise     opensimplex.Noise
	Rng       *rand.Rand

	// MaxAttempts bounds rejection sampling per particle so a Threshold
	// close to 1 cannot stall generation indefinitely; the last
	// candidate is accepted unconditionally once exhausted.
	MaxAttempts int
}

// NewNoiseFieldPosition creates a NoiseFieldPosition seeded
// deterministically from seed.
func NewNoiseFieldPosition(rect areas.Rect, threshold, scale float64, seed int64, rng *rand.Rand) NoiseFieldPosition {
	return NoiseFieldPosition{
		Rect:        rect,
		Threshold:   threshold,
		Scale:       scale,
		Noise:       opensimplex.NewNormalized(seed),
		Rng:         rng,
		MaxAttempts: 32,
	}
}

// Generate implements Generator.
func (g NoiseFieldPosition) Generate(n int, out *[]r2.Vec) {
	for i := 0; i < n; i++ {
		var candidate r2.Vec
		for attempt := 0; attempt < g.MaxAttempts; attempt++ {
			candidate = r2.Vec{
				X: g.Rng.Float64()*g.Rect.Size.X + g.Rect.Position.X,
				Y: g.Rng.Float64()*g.Rect.Size.Y + g.Rect.Position.Y,
			}
			value := g.Noise.Eval2(candidate.X*g.Scale, candidate.Y*g.Scale)
			if value >= g.Threshold {
				break
			}
		}
		*out = append(*out, candidate)
	}
}
