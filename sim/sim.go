// Package sim ties the particle store, event scheduler and system
// pipeline into one steppable simulation, and provides a render-safe
// snapshot of particle state for a consumer running on another
// goroutine.
package sim

import (
	"time"

	"github.com/titouanl/particlesim/events"
	"github.com/titouanl/particlesim/particles"
	"github.com/titouanl/particlesim/systems"
	"github.com/titouanl/particlesim/telemetry"
)

// Simulation owns the particle store and advances it one step at a
// time: first firing any events due at the new time, then running the
// system pipeline, matching the reference implementation's ordering.
type Simulation struct {
	Store    *particles.Store
	Pipeline *systems.Pipeline
	Events   *events.Scheduler

	// Perf, if non-nil, records how long each phase of a step takes.
	Perf *telemetry.PerfStats

	// Time is the total simulated time elapsed so far.
	Time float64
}

// New creates a Simulation over an existing store, pipeline and event
// scheduler.
func New(store *particles.Store, pipeline *systems.Pipeline, scheduler *events.Scheduler) *Simulation {
	return &Simulation{Store: store, Pipeline: pipeline, Events: scheduler}
}

// Step advances the simulation by dt seconds: due events fire first,
// then every system in the pipeline runs once.
func (s *Simulation) Step(dt float64) {
	start := time.Now()
	if s.Events != nil {
		s.Events.Tick(s.Store, s.Pipeline, dt)
	}
	if s.Perf != nil {
		s.Perf.Record("events", time.Since(start))
	}

	start = time.Now()
	s.Pipeline.Update(s.Store, dt)
	if s.Perf != nil {
		s.Perf.Record("pipeline", time.Since(start))
	}

	s.Time += dt
}

// Runner drives repeated Simulation steps, e.g. at a fixed timestep or
// substepped per frame.
type Runner interface {
	Step(sim *Simulation)
}

// FixedStepRunner advances the simulation by a constant dt every call,
// optionally running multiple substeps per call for faster-than-realtime
// playback.
type FixedStepRunner struct {
	DT       float64
	Substeps int
}

// NewFixedStepRunner creates a runner stepping by dt, once per call
// unless substeps is greater than 1.
func NewFixedStepRunner(dt float64, substeps int) FixedStepRunner {
	if substeps < 1 {
		substeps = 1
	}
	return FixedStepRunner{DT: dt, Substeps: substeps}
}

// Step implements Runner.
func (r FixedStepRunner) Step(sim *Simulation) {
	for i := 0; i < r.Substeps; i++ {
		sim.Step(r.DT)
	}
}
