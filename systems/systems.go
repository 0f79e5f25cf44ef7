// Package systems provides the ordered pipeline of per-step mutators
// applied to the particle store: physics integration, boundary handling,
// and population control (emitters and consumers).
package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/titouanl/particlesim/areas"
	"github.com/titouanl/particlesim/forces"
	"github.com/titouanl/particlesim/integrator"
	"github.com/titouanl/particlesim/particles"
	"github.com/titouanl/particlesim/smoothrate"
)

// System mutates the particle store by dt seconds of simulated time.
// Systems run in a fixed order within a Pipeline; later systems observe
// the state left behind by earlier ones within the same step.
type System interface {
	Update(store *particles.Store, dt float64)
}

// Pipeline runs an ordered list of systems once per step.
type Pipeline struct {
	Systems []System
}

// NewPipeline creates a pipeline running the given systems in order.
func NewPipeline(systems ...System) *Pipeline {
	return &Pipeline{Systems: systems}
}

// Update runs every system in order, once, advancing dt seconds.
func (p *Pipeline) Update(store *particles.Store, dt float64) {
	for _, s := range p.Systems {
		s.Update(store, dt)
	}
}

// Physics accumulates every configured force into a per-particle buffer,
// converts it to acceleration by dividing by mass, and integrates that
// acceleration into velocity.
type Physics struct {
	Forces      []forces.Force
	Integrator  integrator.Integrator
	forceBuffer []r2.Vec
	accelBuffer []r2.Vec
}

// NewPhysics creates a Physics system applying the given forces in
// order with the given integrator.
func NewPhysics(integ integrator.Integrator, fs ...forces.Force) *Physics {
	return &Physics{Forces: fs, Integrator: integ}
}

// Update implements System.
func (p *Physics) Update(store *particles.Store, dt float64) {
	n := store.Len()
	if cap(p.forceBuffer) < n {
		p.forceBuffer = make([]r2.Vec, n)
		p.accelBuffer = make([]r2.Vec, n)
	}
	p.forceBuffer = p.forceBuffer[:n]
	p.accelBuffer = p.accelBuffer[:n]
	for i := range p.forceBuffer {
		p.forceBuffer[i] = r2.Vec{}
	}

	for _, f := range p.Forces {
		f.Apply(store, p.forceBuffer)
	}

	for i, mass := range store.Masses {
		if mass == 0 {
			p.accelBuffer[i] = r2.Vec{}
			continue
		}
		p.accelBuffer[i] = r2.Vec{X: p.forceBuffer[i].X / mass, Y: p.forceBuffer[i].Y / mass}
	}

	p.Integrator.Integrate(p.accelBuffer, store.Velocities, dt)
}

// VelocityIntegrator integrates velocity into position.
type VelocityIntegrator struct {
	Integrator integrator.Integrator
}

// Update implements System.
func (v VelocityIntegrator) Update(store *particles.Store, dt float64) {
	v.Integrator.Integrate(store.Velocities, store.Positions, dt)
}

// Wall reflects particles off the boundary of a rectangle, scaling the
// reflected velocity component by Restitution.
type Wall struct {
	XMin, YMin, XMax, YMax float64
	Restitution            float64
}

// Update implements System.
func (w Wall) Update(store *particles.Store, dt float64) {
	for i := range store.Positions {
		pos := &store.Positions[i]
		vel := &store.Velocities[i]

		if pos.X < w.XMin {
			pos.X = w.XMin
			vel.X = -vel.X * w.Restitution
		} else if pos.X > w.XMax {
			pos.X = w.XMax
			vel.X = -vel.X * w.Restitution
		}

		if pos.Y < w.YMin {
			pos.Y = w.YMin
			vel.Y = -vel.Y * w.Restitution
		} else if pos.Y > w.YMax {
			pos.Y = w.YMax
			vel.Y = -vel.Y * w.Restitution
		}
	}
}

// Loop wraps particle positions around the edges of a rectangle.
type Loop struct {
	XMin, YMin, XMax, YMax float64
}

// Update implements System.
func (l Loop) Update(store *particles.Store, dt float64) {
	for i := range store.Positions {
		pos := &store.Positions[i]

		if pos.X < l.XMin {
			pos.X = l.XMax
		} else if pos.X > l.XMax {
			pos.X = l.XMin
		}

		if pos.Y < l.YMin {
			pos.Y = l.YMax
		} else if pos.Y > l.YMax {
			pos.Y = l.YMin
		}
	}
}

// Void removes every particle whose position lies within Area.
type Void struct {
	Area areas.Area
}

// Update implements System.
func (v Void) Update(store *particles.Store, dt float64) {
	var toRemove []int
	v.Area.Contains(store.Positions, &toRemove)

	// Contains returns ascending indices; swap_remove moves the last
	// element into the removed slot, so removing from the highest index
	// down avoids invalidating indices still pending removal.
	for i := len(toRemove) - 1; i >= 0; i-- {
		store.SwapRemove(toRemove[i])
	}
}

// Emitter creates new particles at a smoothed rate per second.
type Emitter struct {
	Factory particles.Factory
	rate    *smoothrate.SmoothRate
}

// NewEmitter creates an Emitter producing particles via factory at the
// given rate per second.
func NewEmitter(factory particles.Factory, ratePerSecond float64) *Emitter {
	return &Emitter{Factory: factory, rate: smoothrate.New(ratePerSecond)}
}

// Update implements System.
func (e *Emitter) Update(store *particles.Store, dt float64) {
	n := e.rate.Next(dt)
	if n <= 0 {
		return
	}
	e.Factory.Create(n, store)
}

// Consumer removes particles within Area at a smoothed rate per second,
// up to however many currently lie within the area.
type Consumer struct {
	Area areas.Area
	rate *smoothrate.SmoothRate
}

// NewConsumer creates a Consumer removing particles from area at the
// given rate per second.
func NewConsumer(area areas.Area, ratePerSecond float64) *Consumer {
	return &Consumer{Area: area, rate: smoothrate.New(ratePerSecond)}
}

// Update implements System.
func (c *Consumer) Update(store *particles.Store, dt float64) {
	quota := c.rate.Next(dt)
	if quota <= 0 {
		return
	}

	var contained []int
	c.Area.Contains(store.Positions, &contained)

	// Contained is ascending; consume from the back (largest index
	// first) so swap_remove never invalidates an index still queued.
	for i := len(contained) - 1; i >= 0 && quota > 0; i-- {
		store.SwapRemove(contained[i])
		quota--
	}
}
