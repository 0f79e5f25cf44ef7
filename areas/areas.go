// Package areas provides the geometric predicates (rectangle, disk, point
// containment) used by boundary systems, consumers and void regions.
package areas

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
)

// Area tests whether a position lies inside a region, and can bulk-filter
// a slice of positions into the set of contained indices.
type Area interface {
	Contain(p r2.Vec) bool

	// Contains appends the ascending indices of positions contained in
	// the area to out. Callers must not rely on out being empty on
	// entry; indices are appended, never inserted out of order.
	Contains(positions []r2.Vec, out *[]int)
}

// filterAscending is the shared bulk-containment implementation: it
// chunks positions across a worker pool (mirroring the per-chunk
// concurrency model used elsewhere in the core) while preserving
// ascending index order, since chunk k only ever holds indices greater
// than every index in chunk k-1.
func filterAscending(contain func(r2.Vec) bool, positions []r2.Vec, out *[]int) {
	n := len(positions)
	if n == 0 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	chunkSize := (n + workers - 1) / workers

	chunks := make([][]int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			local := make([]int, 0, end-start)
			for i := start; i < end; i++ {
				if contain(positions[i]) {
					local = append(local, i)
				}
			}
			chunks[w] = local
		}(w, start, end)
	}
	wg.Wait()

	for _, chunk := range chunks {
		*out = append(*out, chunk...)
	}
}

// Rect is an axis-aligned rectangle. Size must be strictly positive.
// Containment is closed on all four sides.
type Rect struct {
	Position r2.Vec
	Size     r2.Vec
}

// NewRect creates a rectangle with the given position and size.
func NewRect(position, size r2.Vec) Rect {
	return Rect{Position: position, Size: size}
}

// Contain reports whether p lies within the closed rectangle.
func (r Rect) Contain(p r2.Vec) bool {
	return p.X >= r.Position.X && p.X <= r.Position.X+r.Size.X &&
		p.Y >= r.Position.Y && p.Y <= r.Position.Y+r.Size.Y
}

// Contains bulk-filters positions into out, in ascending order.
func (r Rect) Contains(positions []r2.Vec, out *[]int) {
	filterAscending(r.Contain, positions, out)
}

// Disk is a circular region. The radius is stored squared to avoid a
// sqrt on every containment test.
type Disk struct {
	Position      r2.Vec
	RadiusSquared float64
}

// NewDisk creates a disk with the given center and radius.
func NewDisk(position r2.Vec, radius float64) Disk {
	return Disk{Position: position, RadiusSquared: radius * radius}
}

// Contain reports whether p lies within the closed disk.
func (d Disk) Contain(p r2.Vec) bool {
	dx := p.X - d.Position.X
	dy := p.Y - d.Position.Y
	return dx*dx+dy*dy <= d.RadiusSquared
}

// Contains bulk-filters positions into out, in ascending order.
func (d Disk) Contains(positions []r2.Vec, out *[]int) {
	filterAscending(d.Contain, positions, out)
}

// Point is a single exact location.
type Point struct {
	Position r2.Vec
}

// NewPoint creates a point area.
func NewPoint(position r2.Vec) Point {
	return Point{Position: position}
}

// Contain reports whether p exactly equals the point.
func (p Point) Contain(q r2.Vec) bool {
	return q.X == p.Position.X && q.Y == p.Position.Y
}

// Contains bulk-filters positions into out, in ascending order.
func (p Point) Contains(positions []r2.Vec, out *[]int) {
	filterAscending(p.Contain, positions, out)
}
