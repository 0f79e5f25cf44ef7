// Package particles provides the structure-of-arrays particle store that
// backs the simulation: parallel position, velocity, mass and color
// sequences plus the bulk operations the rest of the core relies on.
package particles

import "gonum.org/v1/gonum/spatial/r2"

// Color is a particle's RGBA tint, each channel in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Store holds N particles as four equal-length parallel sequences.
// Indices are ephemeral: SwapRemove(i) moves the last particle into slot
// i, so afterwards index i names a different particle and the former
// last index no longer exists.
type Store struct {
	Positions  []r2.Vec
	Velocities []r2.Vec
	Masses     []float64
	Colors     []Color
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Len returns the number of particles.
func (s *Store) Len() int {
	return len(s.Positions)
}

// Append adds one particle, growing all four sequences together.
func (s *Store) Append(position, velocity r2.Vec, mass float64, color Color) {
	s.Positions = append(s.Positions, position)
	s.Velocities = append(s.Velocities, velocity)
	s.Masses = append(s.Masses, mass)
	s.Colors = append(s.Colors, color)
}

// SwapRemove removes particle i in O(1) by overwriting it with the last
// particle and shrinking all four sequences by one. Order is not
// preserved; the identity of any particle is only valid within one step.
func (s *Store) SwapRemove(i int) {
	last := s.Len() - 1

	s.Positions[i] = s.Positions[last]
	s.Positions = s.Positions[:last]

	s.Velocities[i] = s.Velocities[last]
	s.Velocities = s.Velocities[:last]

	s.Masses[i] = s.Masses[last]
	s.Masses = s.Masses[:last]

	s.Colors[i] = s.Colors[last]
	s.Colors = s.Colors[:last]
}

// Clear empties the store while retaining its backing capacity.
func (s *Store) Clear() {
	s.Positions = s.Positions[:0]
	s.Velocities = s.Velocities[:0]
	s.Masses = s.Masses[:0]
	s.Colors = s.Colors[:0]
}

// ReserveExact grows the backing capacity of all four sequences to hold
// at least n additional particles, in one allocation per sequence.
func (s *Store) ReserveExact(n int) {
	s.Positions = growExact(s.Positions, n)
	s.Velocities = growExact(s.Velocities, n)
	s.Masses = growExact(s.Masses, n)
	s.Colors = growExact(s.Colors, n)
}

func growExact[T any](s []T, n int) []T {
	if cap(s)-len(s) >= n {
		return s
	}
	grown := make([]T, len(s), len(s)+n)
	copy(grown, s)
	return grown
}

// ShrinkToFit releases any spare backing capacity beyond the current length.
func (s *Store) ShrinkToFit() {
	s.Positions = shrinkExact(s.Positions)
	s.Velocities = shrinkExact(s.Velocities)
	s.Masses = shrinkExact(s.Masses)
	s.Colors = shrinkExact(s.Colors)
}

func shrinkExact[T any](s []T) []T {
	if cap(s) == len(s) {
		return s
	}
	fit := make([]T, len(s))
	copy(fit, s)
	return fit
}

// CopyFromIndices replaces the store's contents with the permutation of
// src named by idx: the resulting store has len(idx) particles, where
// particle k is a copy of src's particle idx[k].
func (s *Store) CopyFromIndices(idx []int, src *Store) {
	s.Positions = make([]r2.Vec, len(idx))
	s.Velocities = make([]r2.Vec, len(idx))
	s.Masses = make([]float64, len(idx))
	s.Colors = make([]Color, len(idx))

	for k, i := range idx {
		s.Positions[k] = src.Positions[i]
		s.Velocities[k] = src.Velocities[i]
		s.Masses[k] = src.Masses[i]
		s.Colors[k] = src.Colors[i]
	}
}

// Factory appends exactly n new particles to dst, drawing each attribute
// from an independent generator. Implementations are expected to be
// total: there is no error return, per the no-error-path contract of the
// particle creation lifecycle.
type Factory interface {
	Create(n int, dst *Store)
}
