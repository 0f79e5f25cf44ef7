package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/titouanl/particlesim/areas"
	"github.com/titouanl/particlesim/forces"
	"github.com/titouanl/particlesim/integrator"
	"github.com/titouanl/particlesim/particles"
)

func TestPhysicsConvertsForceToAccelerationBeforeIntegrating(t *testing.T) {
	store := particles.New()
	store.Append(r2.Vec{}, r2.Vec{}, 2, particles.Color{})

	phys := NewPhysics(integrator.Gaussian{}, forces.UniformGravity{Acceleration: r2.Vec{X: 0, Y: -10}})
	phys.Update(store, 1)

	// Force = mass * 10 = 20 downward; acceleration = force/mass = 10;
	// velocity after 1s at acceleration 10 should be 10, not 20.
	if store.Velocities[0] != (r2.Vec{X: 0, Y: -10}) {
		t.Errorf("velocity = %v, want {0 -10}", store.Velocities[0])
	}
}

func TestPhysicsSkipsZeroMassParticles(t *testing.T) {
	store := particles.New()
	store.Append(r2.Vec{}, r2.Vec{}, 0, particles.Color{})

	phys := NewPhysics(integrator.Gaussian{}, forces.UniformGravity{Acceleration: r2.Vec{X: 0, Y: -10}})
	phys.Update(store, 1)

	if store.Velocities[0] != (r2.Vec{}) {
		t.Errorf("zero-mass particle should not accelerate, got %v", store.Velocities[0])
	}
}

func TestVelocityIntegratorAdvancesPosition(t *testing.T) {
	store := particles.New()
	store.Append(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 2, Y: -1}, 1, particles.Color{})

	VelocityIntegrator{Integrator: integrator.Gaussian{}}.Update(store, 2)

	if store.Positions[0] != (r2.Vec{X: 4, Y: -2}) {
		t.Errorf("position = %v, want {4 -2}", store.Positions[0])
	}
}

func TestWallReflectsAndClampsAtBoundary(t *testing.T) {
	store := particles.New()
	store.Append(r2.Vec{X: -5, Y: 50}, r2.Vec{X: -3, Y: 0}, 1, particles.Color{})

	w := Wall{XMin: 0, YMin: 0, XMax: 100, YMax: 100, Restitution: 0.5}
	w.Update(store, 1)

	if store.Positions[0].X != 0 {
		t.Errorf("position.X = %v, want clamped to 0", store.Positions[0].X)
	}
	if store.Velocities[0].X != 1.5 {
		t.Errorf("velocity.X = %v, want 1.5 (reflected and scaled)", store.Velocities[0].X)
	}
}

func TestLoopWrapsAcrossBoundary(t *testing.T) {
	store := particles.New()
	store.Append(r2.Vec{X: -1, Y: 150}, r2.Vec{}, 1, particles.Color{})

	l := Loop{XMin: 0, YMin: 0, XMax: 100, YMax: 100}
	l.Update(store, 1)

	if store.Positions[0] != (r2.Vec{X: 100, Y: 0}) {
		t.Errorf("position = %v, want {100 0}", store.Positions[0])
	}
}

func TestVoidRemovesAllContainedParticles(t *testing.T) {
	store := particles.New()
	store.Append(r2.Vec{X: 1, Y: 1}, r2.Vec{}, 1, particles.Color{})
	store.Append(r2.Vec{X: 50, Y: 50}, r2.Vec{}, 1, particles.Color{})
	store.Append(r2.Vec{X: 2, Y: 2}, r2.Vec{}, 1, particles.Color{})

	v := Void{Area: areas.NewRect(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 10, Y: 10})}
	v.Update(store, 1)

	if store.Len() != 1 {
		t.Fatalf("expected 1 particle remaining, got %d", store.Len())
	}
	if store.Positions[0] != (r2.Vec{X: 50, Y: 50}) {
		t.Errorf("remaining particle = %v, want {50 50}", store.Positions[0])
	}
}

type constantFactory struct {
	position r2.Vec
}

func (f constantFactory) Create(n int, dst *particles.Store) {
	for i := 0; i < n; i++ {
		dst.Append(f.position, r2.Vec{}, 1, particles.Color{})
	}
}

func TestEmitterCreatesSmoothedCount(t *testing.T) {
	e := NewEmitter(constantFactory{}, 2.5)
	store := particles.New()

	want := []int{2, 3, 2, 3}
	for _, w := range want {
		before := store.Len()
		e.Update(store, 1)
		if got := store.Len() - before; got != w {
			t.Errorf("emitted %d, want %d", got, w)
		}
	}
}

func TestConsumerRemovesUpToQuotaFromArea(t *testing.T) {
	store := particles.New()
	for i := 0; i < 5; i++ {
		store.Append(r2.Vec{X: 1, Y: 1}, r2.Vec{}, 1, particles.Color{})
	}

	c := NewConsumer(areas.NewRect(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 10, Y: 10}), 2)
	c.Update(store, 1)

	if store.Len() != 3 {
		t.Errorf("expected 2 removed leaving 3, got %d remaining", store.Len())
	}
}

func TestConsumerNeverRemovesMoreThanContained(t *testing.T) {
	store := particles.New()
	store.Append(r2.Vec{X: 1, Y: 1}, r2.Vec{}, 1, particles.Color{})
	store.Append(r2.Vec{X: 500, Y: 500}, r2.Vec{}, 1, particles.Color{})

	c := NewConsumer(areas.NewRect(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 10, Y: 10}), 10)
	c.Update(store, 1)

	if store.Len() != 1 {
		t.Errorf("expected only the single contained particle removed, got %d remaining", store.Len())
	}
}

func TestPipelineRunsSystemsInOrder(t *testing.T) {
	store := particles.New()
	store.Append(r2.Vec{}, r2.Vec{X: 1, Y: 0}, 1, particles.Color{})

	p := NewPipeline(
		VelocityIntegrator{Integrator: integrator.Gaussian{}},
		Loop{XMin: 0, YMin: 0, XMax: 10, YMax: 10},
	)
	p.Update(store, 15)

	// Integrator moves X to 15, which Loop then wraps back to XMin.
	if store.Positions[0] != (r2.Vec{X: 0, Y: 0}) {
		t.Errorf("position after integrate-then-wrap = %v, want {0 0}", store.Positions[0])
	}
}
