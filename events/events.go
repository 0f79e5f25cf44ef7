// Package events provides a time-ordered scheduler for one-shot
// callbacks that mutate the particle store and system pipeline at a
// scheduled simulation time.
package events

import (
	"github.com/titouanl/particlesim/particles"
	"github.com/titouanl/particlesim/sortedvec"
	"github.com/titouanl/particlesim/systems"
)

// Callback mutates the particle store and pipeline when its event fires.
type Callback func(store *particles.Store, pipeline *systems.Pipeline)

// Event is a callback scheduled to fire once simulation time reaches At.
type Event struct {
	At       float64
	Callback Callback
}

// Scheduler holds pending events ordered by time and tracks the current
// simulation clock.
type Scheduler struct {
	pending     *sortedvec.SortedVec[Event]
	CurrentTime float64
}

// NewScheduler creates an empty scheduler starting at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{
		pending: sortedvec.New(func(a, b Event) bool { return a.At < b.At }),
	}
}

// Schedule adds an event to fire once CurrentTime reaches at.
func (s *Scheduler) Schedule(at float64, callback Callback) {
	s.pending.Add(Event{At: at, Callback: callback})
}

// Tick advances the clock by dt and fires every pending event whose time
// has now been reached, in ascending time order.
func (s *Scheduler) Tick(store *particles.Store, pipeline *systems.Pipeline, dt float64) {
	s.CurrentTime += dt

	for {
		event, ok := s.pending.First()
		if !ok || event.At > s.CurrentTime {
			break
		}
		s.pending.PopFront()
		event.Callback(store, pipeline)
	}
}

// Pending returns the number of events still waiting to fire.
func (s *Scheduler) Pending() int {
	return s.pending.Len()
}
