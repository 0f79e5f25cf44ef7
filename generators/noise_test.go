package generators

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/titouanl/particlesim/areas"
)

func TestNoiseFieldPositionStaysWithinRect(t *testing.T) {
	rect := areas.NewRect(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 100, Y: 100})
	g := NewNoiseFieldPosition(rect, 0.5, 0.05, 42, rand.New(rand.NewSource(4)))

	var out []r2.Vec
	g.Generate(50, &out)

	if len(out) != 50 {
		t.Fatalf("len(out) = %d, want 50", len(out))
	}
	for _, p := range out {
		if !rect.Contain(p) {
			t.Errorf("position %v outside rect %v", p, rect)
		}
	}
}

func TestNoiseFieldPositionWithThresholdBelowRangeAcceptsFirstCandidate(t *testing.T) {
	rect := areas.NewRect(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 10, Y: 10})
	g := NewNoiseFieldPosition(rect, -1, 0.1, 1, rand.New(rand.NewSource(5)))

	var out []r2.Vec
	g.Generate(10, &out)
	if len(out) != 10 {
		t.Fatalf("len(out) = %d, want 10", len(out))
	}

	// Every candidate passes, so each particle uses exactly the first two
	// draws of an identically seeded source.
	ref := rand.New(rand.NewSource(5))
	for i, p := range out {
		want := r2.Vec{X: ref.Float64() * 10, Y: ref.Float64() * 10}
		if p != want {
			t.Errorf("out[%d] = %v, want first candidate %v", i, p, want)
		}
	}
}
