// Package batch builds triangle lists for the 2D renderer. It has no GL
// dependency so tessellation can be tested on its own.
package batch

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/skyline/pkg/color"
	"github.com/Faultbox/skyline/pkg/math"
)

// FloatsPerVertex is the vertex layout: pos(3) + color(4).
const FloatsPerVertex = 7

// Batch accumulates colored triangles.
type Batch struct {
	vertices []float32
}

// New creates a batch with room for capacity vertices.
func New(capacity int) *Batch {
	return &Batch{vertices: make([]float32, 0, capacity*FloatsPerVertex)}
}

// Reset empties the batch, keeping its memory.
func (b *Batch) Reset() {
	b.vertices = b.vertices[:0]
}

// Vertices returns the interleaved vertex data.
func (b *Batch) Vertices() []float32 {
	return b.vertices
}

// Len returns the number of vertices.
func (b *Batch) Len() int {
	return len(b.vertices) / FloatsPerVertex
}

func (b *Batch) vertex(p math.Vec2, c color.Color) {
	b.vertices = append(b.vertices, p.X, p.Y, 0, c.R, c.G, c.B, c.A)
}

// Triangle adds one triangle.
func (b *Batch) Triangle(p0, p1, p2 math.Vec2, c color.Color) {
	b.vertex(p0, c)
	b.vertex(p1, c)
	b.vertex(p2, c)
}

// Quad adds the quad p0-p1-p2-p3 as two triangles.
func (b *Batch) Quad(p0, p1, p2, p3 math.Vec2, c color.Color) {
	b.Triangle(p0, p1, p2, c)
	b.Triangle(p0, p2, p3, c)
}

// FillUnder fills the area between a polyline and the baseline y=0, one
// trapezoid per segment. Vertical segments add nothing, so a path closed
// back along the baseline fills exactly its interior.
func (b *Batch) FillUnder(path []math.Vec2, c color.Color) {
	for i := 1; i < len(path); i++ {
		p0, p1 := path[i-1], path[i]
		if p0.X == p1.X {
			continue
		}
		b.Quad(
			math.Vec2{X: p0.X, Y: 0},
			math.Vec2{X: p1.X, Y: 0},
			p1,
			p0,
			c,
		)
	}
}

// Polyline strokes a path with segments width units thick.
func (b *Batch) Polyline(path []math.Vec2, width float32, c color.Color) {
	half := width / 2
	for i := 1; i < len(path); i++ {
		p0, p1 := path[i-1], path[i]
		dir := p1.Sub(p0).Normalize()
		if dir == (math.Vec2{}) {
			continue
		}
		n := math.Vec2{X: -dir.Y * half, Y: dir.X * half}
		b.Quad(p0.Add(n), p1.Add(n), p1.Sub(n), p0.Sub(n), c)
	}
}

// CircleSegments picks a segment count that keeps circles smooth at the
// given radius.
func CircleSegments(radius float32) int {
	n := int(math32.Ceil(radius * 2))
	if n < 12 {
		return 12
	}
	if n > 64 {
		return 64
	}
	return n
}

// Circle adds a filled circle as a triangle fan.
func (b *Batch) Circle(center math.Vec2, radius float32, segments int, c color.Color) {
	if radius <= 0 || segments < 3 {
		return
	}
	step := 2 * math32.Pi / float32(segments)
	prev := math.Vec2{X: center.X + radius, Y: center.Y}
	for i := 1; i <= segments; i++ {
		sin, cos := math32.Sincos(step * float32(i))
		next := math.Vec2{X: center.X + radius*cos, Y: center.Y + radius*sin}
		b.Triangle(center, prev, next, c)
		prev = next
	}
}
