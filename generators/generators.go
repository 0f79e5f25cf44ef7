// Package generators produces streams of values used to seed new
// particles: positions drawn from geometric regions or noise fields,
// velocities in Cartesian or polar form, and constant attributes such
// as mass and color.
package generators

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/titouanl/particlesim/areas"
	"github.com/titouanl/particlesim/particles"
)

// Generator appends n freshly generated values to out.
type Generator[T any] interface {
	Generate(n int, out *[]T)
}

// Constant always generates the same value.
type Constant[T any] struct {
	Value T
}

// Generate implements Generator.
func (c Constant[T]) Generate(n int, out *[]T) {
	for i := 0; i < n; i++ {
		*out = append(*out, c.Value)
	}
}

// UniformFloat generates values uniformly distributed in [Min, Max).
type UniformFloat struct {
	Min, Max float64
	Rng      *rand.Rand
}

// NewUniformFloat creates a UniformFloat, rejecting a degenerate range
// at construction rather than letting it flow silently into a reversed
// distribution.
func NewUniformFloat(min, max float64, rng *rand.Rand) (UniformFloat, error) {
	if max < min {
		return UniformFloat{}, fmt.Errorf("generators: uniform range max %v < min %v", max, min)
	}
	return UniformFloat{Min: min, Max: max, Rng: rng}, nil
}

// Generate implements Generator.
func (u UniformFloat) Generate(n int, out *[]float64) {
	dist := distuv.Uniform{Min: u.Min, Max: u.Max, Src: u.Rng}
	for i := 0; i < n; i++ {
		*out = append(*out, dist.Rand())
	}
}

// NormalFloat generates values normally distributed around Mu with
// standard deviation Sigma.
type NormalFloat struct {
	Mu, Sigma float64
	Rng       *rand.Rand
}

// Generate implements Generator.
func (nf NormalFloat) Generate(n int, out *[]float64) {
	dist := distuv.Normal{Mu: nf.Mu, Sigma: nf.Sigma, Src: nf.Rng}
	for i := 0; i < n; i++ {
		*out = append(*out, dist.Rand())
	}
}

// Vector2Cartesian composes two scalar generators into vectors by
// generating X and Y independently and zipping them.
type Vector2Cartesian struct {
	X, Y Generator[float64]
}

// Generate implements Generator.
func (v Vector2Cartesian) Generate(n int, out *[]r2.Vec) {
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	v.X.Generate(n, &xs)
	v.Y.Generate(n, &ys)

	for i := 0; i < n; i++ {
		*out = append(*out, r2.Vec{X: xs[i], Y: ys[i]})
	}
}

// Vector2Polar composes a radius and angle generator into Cartesian
// vectors: (r*cos(theta), r*sin(theta)).
type Vector2Polar struct {
	R, Theta Generator[float64]
}

// Generate implements Generator.
func (v Vector2Polar) Generate(n int, out *[]r2.Vec) {
	rs := make([]float64, 0, n)
	thetas := make([]float64, 0, n)
	v.R.Generate(n, &rs)
	v.Theta.Generate(n, &thetas)

	for i := 0; i < n; i++ {
		*out = append(*out, r2.Vec{X: rs[i] * math.Cos(thetas[i]), Y: rs[i] * math.Sin(thetas[i])})
	}
}

// RectUniform generates positions uniformly distributed within a Rect.
type RectUniform struct {
	Rect areas.Rect
	Rng  *rand.Rand
}

// Generate implements Generator.
func (g RectUniform) Generate(n int, out *[]r2.Vec) {
	for i := 0; i < n; i++ {
		*out = append(*out, r2.Vec{
			X: g.Rng.Float64()*g.Rect.Size.X + g.Rect.Position.X,
			Y: g.Rng.Float64()*g.Rect.Size.Y + g.Rect.Position.Y,
		})
	}
}

// DiskUniform generates positions uniformly distributed within a Disk.
// The radius is sampled as sqrt(u)*R so area, not radius, is uniform.
type DiskUniform struct {
	Disk areas.Disk
	Rng  *rand.Rand
}

// Generate implements Generator.
func (g DiskUniform) Generate(n int, out *[]r2.Vec) {
	radius := math.Sqrt(g.Disk.RadiusSquared)
	for i := 0; i < n; i++ {
		angle := g.Rng.Float64() * 2 * math.Pi
		r := math.Sqrt(g.Rng.Float64()) * radius
		*out = append(*out, r2.Vec{
			X: g.Disk.Position.X + r*math.Cos(angle),
			Y: g.Disk.Position.Y + r*math.Sin(angle),
		})
	}
}

// PointGen always generates the same fixed position.
type PointGen struct {
	Point areas.Point
}

// Generate implements Generator.
func (g PointGen) Generate(n int, out *[]r2.Vec) {
	for i := 0; i < n; i++ {
		*out = append(*out, g.Point.Position)
	}
}
