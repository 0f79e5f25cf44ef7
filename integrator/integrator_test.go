package integrator

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestGaussianIntegrateIsEulerStep(t *testing.T) {
	values := []r2.Vec{{X: 1, Y: 2}, {X: -1, Y: 0.5}}
	state := []r2.Vec{{X: 10, Y: 10}, {X: 0, Y: 0}}

	Gaussian{}.Integrate(values, state, 0.5)

	want := []r2.Vec{{X: 10.5, Y: 11}, {X: -0.5, Y: 0.25}}
	for i := range want {
		if state[i] != want[i] {
			t.Errorf("state[%d] = %v, want %v", i, state[i], want[i])
		}
	}
}

func TestGaussianIntegrateIsOrderIndependent(t *testing.T) {
	values := make([]r2.Vec, 1000)
	stateA := make([]r2.Vec, 1000)
	stateB := make([]r2.Vec, 1000)
	for i := range values {
		values[i] = r2.Vec{X: float64(i), Y: -float64(i)}
		stateA[i] = r2.Vec{X: 1, Y: 1}
		stateB[i] = r2.Vec{X: 1, Y: 1}
	}

	Gaussian{}.Integrate(values, stateA, 0.1)
	// Integrating in reverse order must produce the same per-index result,
	// since each index's update is independent of every other.
	reversedValues := make([]r2.Vec, len(values))
	reversedState := make([]r2.Vec, len(values))
	for i := range values {
		reversedValues[len(values)-1-i] = values[i]
		reversedState[len(values)-1-i] = stateB[i]
	}
	Gaussian{}.Integrate(reversedValues, reversedState, 0.1)
	for i := range stateA {
		j := len(values) - 1 - i
		if stateA[i] != reversedState[j] {
			t.Fatalf("index %d diverged under reordering: %v vs %v", i, stateA[i], reversedState[j])
		}
	}
}
