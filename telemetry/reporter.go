package telemetry

import (
	"log/slog"
	"math"

	"github.com/titouanl/particlesim/particles"
)

// Snapshot summarizes the particle population at one instant in
// simulation time.
type Snapshot struct {
	Time          float64
	ParticleCount int
	TotalMass     float64
	AverageSpeed  float64
}

// Summarize computes a Snapshot of store at simTime.
func Summarize(store *particles.Store, simTime float64) Snapshot {
	snap := Snapshot{Time: simTime, ParticleCount: store.Len()}
	if snap.ParticleCount == 0 {
		return snap
	}

	var speedSum float64
	for i, mass := range store.Masses {
		snap.TotalMass += mass
		v := store.Velocities[i]
		speedSum += math.Hypot(v.X, v.Y)
	}
	snap.AverageSpeed = speedSum / float64(snap.ParticleCount)
	return snap
}

// Reporter logs a Snapshot and the current PerfStats breakdown at a
// fixed wall-clock-independent simulation-time interval.
type Reporter struct {
	logger   *slog.Logger
	interval float64
	elapsed  float64
}

// NewReporter creates a Reporter that logs through logger every
// intervalSeconds of simulated time.
func NewReporter(logger *slog.Logger, intervalSeconds float64) *Reporter {
	return &Reporter{logger: logger, interval: intervalSeconds}
}

// Tick advances the reporter's internal clock by dt and logs if the
// configured interval has elapsed.
func (r *Reporter) Tick(store *particles.Store, perf *PerfStats, simTime, dt float64) {
	r.elapsed += dt
	if r.interval <= 0 || r.elapsed < r.interval {
		return
	}
	r.elapsed = 0

	snap := Summarize(store, simTime)
	r.logger.Info("simulation snapshot",
		slog.Float64("time", snap.Time),
		slog.Int("particles", snap.ParticleCount),
		slog.Float64("total_mass", snap.TotalMass),
		slog.Float64("avg_speed", snap.AverageSpeed),
	)

	if perf == nil {
		return
	}
	for _, name := range perf.SortedNames() {
		r.logger.Debug("system timing", slog.String("system", name), slog.Duration("avg", perf.Avg(name)))
	}
}
