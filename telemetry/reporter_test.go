package telemetry

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/titouanl/particlesim/particles"
)

func TestSummarizeComputesMassAndAverageSpeed(t *testing.T) {
	store := particles.New()
	store.Append(r2.Vec{}, r2.Vec{X: 3, Y: 4}, 2, particles.Color{})
	store.Append(r2.Vec{}, r2.Vec{X: 0, Y: 0}, 3, particles.Color{})

	snap := Summarize(store, 12.5)

	if snap.ParticleCount != 2 {
		t.Errorf("ParticleCount = %d, want 2", snap.ParticleCount)
	}
	if snap.TotalMass != 5 {
		t.Errorf("TotalMass = %v, want 5", snap.TotalMass)
	}
	if snap.AverageSpeed != 2.5 {
		t.Errorf("AverageSpeed = %v, want 2.5", snap.AverageSpeed)
	}
	if snap.Time != 12.5 {
		t.Errorf("Time = %v, want 12.5", snap.Time)
	}
}

func TestSummarizeOfEmptyStoreHasZeroSpeed(t *testing.T) {
	store := particles.New()
	snap := Summarize(store, 0)

	if snap.ParticleCount != 0 || snap.AverageSpeed != 0 {
		t.Errorf("expected zeroed snapshot, got %+v", snap)
	}
}

func TestReporterOnlyFiresAtConfiguredInterval(t *testing.T) {
	calls := 0
	logger := discardLogger(&calls)
	r := NewReporter(logger, 1.0)
	store := particles.New()

	r.Tick(store, nil, 0.5, 0.5) // elapsed=0.5, below interval
	r.Tick(store, nil, 1.0, 0.5) // elapsed=1.0, fires
	r.Tick(store, nil, 1.3, 0.3) // elapsed=0.3, below interval

	if calls != 1 {
		t.Errorf("reporter fired %d times, want 1", calls)
	}
}
