package sim

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/titouanl/particlesim/particles"
)

// Vertex is the minimal per-particle data a renderer needs.
type Vertex struct {
	Position r2.Vec
	Color    particles.Color
}

// VertexView hands a consistent snapshot of particle render state from
// the simulation goroutine to a renderer goroutine, without either side
// blocking on the other's full step. Publish and Snapshot may run
// concurrently; Snapshot never observes a partially-written buffer.
type VertexView struct {
	mu       sync.RWMutex
	vertices []Vertex
}

// NewVertexView creates an empty view.
func NewVertexView() *VertexView {
	return &VertexView{}
}

// Publish rebuilds the view from the current particle store. Intended
// to be called by the simulation goroutine once per step.
func (v *VertexView) Publish(store *particles.Store) {
	n := store.Len()

	v.mu.Lock()
	defer v.mu.Unlock()

	if cap(v.vertices) < n {
		v.vertices = make([]Vertex, n)
	}
	v.vertices = v.vertices[:n]
	for i := 0; i < n; i++ {
		v.vertices[i] = Vertex{Position: store.Positions[i], Color: store.Colors[i]}
	}
}

// Snapshot returns a copy of the current vertex buffer, safe to read
// from any goroutine without racing a concurrent Publish.
func (v *VertexView) Snapshot() []Vertex {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]Vertex, len(v.vertices))
	copy(out, v.vertices)
	return out
}
