package particles

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func fourParticles() *Store {
	s := New()
	for i := 0; i < 4; i++ {
		s.Append(r2.Vec{X: float64(i), Y: float64(i)}, r2.Vec{X: 1, Y: 1}, float64(i+1), Color{R: float64(i)})
	}
	return s
}

func assertEqualLengths(t *testing.T, s *Store) {
	t.Helper()
	n := len(s.Positions)
	if len(s.Velocities) != n || len(s.Masses) != n || len(s.Colors) != n {
		t.Fatalf("SoA length mismatch: positions=%d velocities=%d masses=%d colors=%d",
			n, len(s.Velocities), len(s.Masses), len(s.Colors))
	}
}

func TestAppendKeepsLengthsEqual(t *testing.T) {
	s := fourParticles()
	assertEqualLengths(t, s)
	if s.Len() != 4 {
		t.Fatalf("expected len 4, got %d", s.Len())
	}
}

func TestSwapRemoveMovesLastElementIntoHole(t *testing.T) {
	s := fourParticles()
	lastPos := s.Positions[3]
	lastMass := s.Masses[3]

	s.SwapRemove(1)

	assertEqualLengths(t, s)
	if s.Len() != 3 {
		t.Fatalf("expected len 3 after swap_remove, got %d", s.Len())
	}
	if s.Positions[1] != lastPos {
		t.Fatalf("expected former last position %v at index 1, got %v", lastPos, s.Positions[1])
	}
	if s.Masses[1] != lastMass {
		t.Fatalf("expected former last mass %v at index 1, got %v", lastMass, s.Masses[1])
	}
}

func TestSwapRemoveLastElementIsJustATruncate(t *testing.T) {
	s := fourParticles()
	want := s.Positions[2]

	s.SwapRemove(3)

	assertEqualLengths(t, s)
	if s.Len() != 3 {
		t.Fatalf("expected len 3, got %d", s.Len())
	}
	if s.Positions[2] != want {
		t.Fatalf("index 2 should be untouched, got %v want %v", s.Positions[2], want)
	}
}

func TestClearRetainsCapacity(t *testing.T) {
	s := fourParticles()
	capBefore := cap(s.Positions)

	s.Clear()

	assertEqualLengths(t, s)
	if s.Len() != 0 {
		t.Fatalf("expected len 0 after clear, got %d", s.Len())
	}
	if cap(s.Positions) != capBefore {
		t.Fatalf("clear should not release capacity: before=%d after=%d", capBefore, cap(s.Positions))
	}
}

func TestReserveExactGrowsCapacityWithoutChangingLength(t *testing.T) {
	s := fourParticles()
	n := s.Len()

	s.ReserveExact(100)

	if s.Len() != n {
		t.Fatalf("reserve must not change length: got %d want %d", s.Len(), n)
	}
	if cap(s.Positions) < n+100 {
		t.Fatalf("expected capacity >= %d, got %d", n+100, cap(s.Positions))
	}
	assertEqualLengths(t, s)
}

func TestShrinkToFitDropsSpareCapacity(t *testing.T) {
	s := fourParticles()
	s.ReserveExact(50)

	s.ShrinkToFit()

	if cap(s.Positions) != s.Len() {
		t.Fatalf("expected capacity == length after shrink, got cap=%d len=%d", cap(s.Positions), s.Len())
	}
	assertEqualLengths(t, s)
}

func TestCopyFromIndicesIsAPermutation(t *testing.T) {
	src := fourParticles()
	dst := New()

	dst.CopyFromIndices([]int{3, 0, 0}, src)

	assertEqualLengths(t, dst)
	if dst.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", dst.Len())
	}
	if dst.Positions[0] != src.Positions[3] {
		t.Fatalf("index 0 should copy src[3]")
	}
	if dst.Positions[1] != src.Positions[0] || dst.Positions[2] != src.Positions[0] {
		t.Fatalf("indices 1 and 2 should both copy src[0]")
	}
}
