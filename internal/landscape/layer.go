package landscape

import (
	"sort"

	"github.com/chewxy/math32"

	"github.com/Faultbox/skyline/internal/heightfield"
	"github.com/Faultbox/skyline/pkg/math"
)

const noPoint = -1

// Layer is one terrain profile: a height field bounded by editable base
// points. The base point slice is the single source of truth for anchors;
// the height field only holds derived heights.
type Layer struct {
	field  *heightfield.HeightField
	points []math.Vec2 // x strictly increasing, integral
	seed   []math.Vec2 // immutable extension template
	opts   Options     // Points is always nil; see seed and points

	// Rotating cursors into seed for extension to the right and left.
	next int
	prev int

	activePoint  int
	hoveredPoint int
	hover        bool
}

// NewLayer validates opts and generates the span covered by its points.
// Malformed options are fatal for the layer and returned as an error
// wrapping ErrInvalidOptions.
func NewLayer(opts Options, src heightfield.Source) (*Layer, error) {
	seed, err := opts.seedPoints()
	if err != nil {
		return nil, err
	}

	style := opts.Clone()
	style.Points = nil

	l := &Layer{
		field:        heightfield.New(opts.Roughness, src),
		points:       append([]math.Vec2(nil), seed...),
		seed:         seed,
		opts:         style,
		next:         0,
		prev:         len(seed) - 1,
		activePoint:  noPoint,
		hoveredPoint: noPoint,
	}
	l.field.Set(l.xAt(0), l.points[0].Y)
	l.generateFullWidth()
	return l, nil
}

// generateFullWidth regenerates every interval between consecutive base
// points.
func (l *Layer) generateFullWidth() {
	for i := 1; i < len(l.points); i++ {
		l.field.Set(l.xAt(i), l.points[i].Y)
		l.field.Generate(l.xAt(i-1), l.xAt(i))
	}
}

func (l *Layer) xAt(i int) int {
	return int(l.points[i].X)
}

// Start is the x of the first base point, the left edge of generated
// territory.
func (l *Layer) Start() int {
	return l.xAt(0)
}

// End is the x of the last base point, the right edge of generated
// territory.
func (l *Layer) End() int {
	return l.xAt(len(l.points) - 1)
}

// Height returns the generated height at x. x must lie in [Start, End].
func (l *Layer) Height(x int) float32 {
	return l.field.At(x)
}

// Points returns a copy of the base points.
func (l *Layer) Points() []math.Vec2 {
	return append([]math.Vec2(nil), l.points...)
}

// Options returns a deep copy of the layer's options, with Points set to the
// current base points.
func (l *Layer) Options() Options {
	out := l.opts.Clone()
	out.Points = l.Points()
	return out
}

// Roughness returns the displacement coefficient.
func (l *Layer) Roughness() float32 {
	return l.field.Roughness()
}

// SetHover marks the whole layer as hovered.
func (l *Layer) SetHover(hover bool) {
	l.hover = hover
}

// Hovered reports whether the layer is hovered.
func (l *Layer) Hovered() bool {
	return l.hover
}

// ActivePoint returns the index of the activated base point, or -1.
func (l *Layer) ActivePoint() int {
	return l.activePoint
}

// HoveredPoint returns the index of the hovered base point, or -1.
func (l *Layer) HoveredPoint() int {
	return l.hoveredPoint
}

// Increase grows the layer by one seed interval: to the right for a positive
// direction, to the left for a negative one. The new edge is also added as a
// base point. Seed points repeat periodically, with Gap separating periods.
func (l *Layer) Increase(direction int) {
	n := len(l.seed)

	switch {
	case direction > 0:
		p := l.seed[l.next]
		gap := l.opts.Gap
		if l.next > 0 {
			gap = int(p.X - l.seed[l.next-1].X)
		}
		l.next = (l.next + 1) % n

		end := l.End()
		x := l.field.Extend(end, end+gap, p.Y)
		l.points = append(l.points, math.Vec2{X: float32(x), Y: p.Y})

	case direction < 0:
		p := l.seed[l.prev]
		gap := l.opts.Gap
		if l.prev != n-1 {
			gap = int(l.seed[l.prev+1].X - p.X)
		}
		l.prev = (l.prev - 1 + n) % n

		start := l.Start()
		x := l.field.Extend(start, start-gap, p.Y)
		l.points = append(l.points, math.Vec2{})
		copy(l.points[1:], l.points)
		l.points[0] = math.Vec2{X: float32(x), Y: p.Y}
		l.shiftIndices(0, 1)
	}
}

// shiftIndices moves the active and hovered indices at or after from by
// delta.
func (l *Layer) shiftIndices(from, delta int) {
	if l.activePoint >= from {
		l.activePoint += delta
	}
	if l.hoveredPoint >= from {
		l.hoveredPoint += delta
	}
}

// pointIndex returns the first base point within the pick radius of p, or
// -1.
func (l *Layer) pointIndex(p math.Vec2) int {
	r2 := l.opts.PointRadius * l.opts.PointRadius
	for i, bp := range l.points {
		if p.Distance2(bp) <= r2 {
			return i
		}
	}
	return noPoint
}

// AddBasePoint inserts p (x snapped to an integer) and regenerates the two
// intervals it now bounds. It refuses points on an existing anchor's x and
// points outside the generated span.
func (l *Layer) AddBasePoint(p math.Vec2) bool {
	p = p.RoundX()
	x := int(p.X)
	if x <= l.Start() || x >= l.End() {
		return false
	}

	i := sort.Search(len(l.points), func(i int) bool {
		return l.points[i].X >= p.X
	})
	if l.points[i].X == p.X {
		return false
	}

	l.points = append(l.points, math.Vec2{})
	copy(l.points[i+1:], l.points[i:])
	l.points[i] = p
	l.shiftIndices(i, 1)

	l.field.Set(x, p.Y)
	l.field.Generate(l.xAt(i-1), x)
	l.field.Generate(x, l.xAt(i+1))
	return true
}

// DeleteBasePoint removes the base point under p. The first and last points
// are protected.
func (l *Layer) DeleteBasePoint(p math.Vec2) bool {
	return l.DeleteBasePointAt(l.pointIndex(p))
}

// DeleteBasePointAt removes the base point at index i and regenerates the
// merged interval between its neighbours.
func (l *Layer) DeleteBasePointAt(i int) bool {
	if i <= 0 || i >= len(l.points)-1 {
		return false
	}

	l.field.Generate(l.xAt(i-1), l.xAt(i+1))
	l.points = append(l.points[:i], l.points[i+1:]...)

	if l.activePoint == i {
		l.activePoint = noPoint
	}
	if l.hoveredPoint == i {
		l.hoveredPoint = noPoint
	}
	l.shiftIndices(i+1, -1)
	return true
}

// ActivatePoint selects the base point under p for dragging.
func (l *Layer) ActivatePoint(p math.Vec2) bool {
	l.activePoint = l.pointIndex(p)
	return l.activePoint != noPoint
}

// DeactivatePoint clears the dragging selection.
func (l *Layer) DeactivatePoint() {
	l.activePoint = noPoint
}

// HoverBasePoint records the base point under p as hovered.
func (l *Layer) HoverBasePoint(p math.Vec2) bool {
	l.hoveredPoint = l.pointIndex(p)
	return l.hoveredPoint != noPoint
}

// ClearPointHover forgets the hovered base point.
func (l *Layer) ClearPointHover() {
	l.hoveredPoint = noPoint
}

// MoveActivePoint drags the active base point to pos. The height is taken
// as is; x is clamped at least one unit inside the neighbouring points.
// Protected edge points cannot be dragged.
func (l *Layer) MoveActivePoint(pos math.Vec2) bool {
	i := l.activePoint
	if i <= 0 || i >= len(l.points)-1 {
		return false
	}

	lo := l.points[i-1].X + 1
	hi := l.points[i+1].X - 1
	x := math32.Round(pos.X)
	if x < lo {
		x = lo
	} else if x > hi {
		x = hi
	}

	l.points[i] = math.Vec2{X: x, Y: pos.Y}
	l.field.Set(int(x), pos.Y)
	l.field.Generate(l.xAt(i-1), int(x))
	l.field.Generate(int(x), l.xAt(i+1))
	return true
}

// IsBelongs reports whether p lies on or under the layer's skyline.
func (l *Layer) IsBelongs(p math.Vec2) bool {
	if p.X < float32(l.Start()) || p.X > float32(l.End()) {
		return false
	}
	return p.Y <= l.field.At(int(math32.Round(p.X)))
}

// SetOptions applies edited options. Seed points in opts are ignored. A
// roughness change regenerates the whole layer, discarding previous detail.
func (l *Layer) SetOptions(opts Options) error {
	if err := opts.validateStyle(); err != nil {
		return err
	}

	style := opts.Clone()
	style.Points = nil
	old := l.opts.Roughness
	l.opts = style

	if old != opts.Roughness {
		l.field.SetRoughness(opts.Roughness)
		l.generateFullWidth()
	}
	return nil
}

// Skyline returns the height profile over [viewStart, viewEnd] in
// layer-local coordinates.
func (l *Layer) Skyline(viewStart, viewEnd int) []math.Vec2 {
	if viewEnd < viewStart {
		return nil
	}
	out := make([]math.Vec2, 0, viewEnd-viewStart+1)
	for x := viewStart; x <= viewEnd; x++ {
		out = append(out, math.Vec2{X: float32(x - viewStart), Y: l.field.At(x)})
	}
	return out
}

// VisiblePoints returns the base points inside [viewStart, viewEnd].
func (l *Layer) VisiblePoints(viewStart, viewEnd int) []PointMark {
	first := sort.Search(len(l.points), func(i int) bool {
		return l.points[i].X >= float32(viewStart)
	})

	var out []PointMark
	for i := first; i < len(l.points) && l.points[i].X <= float32(viewEnd); i++ {
		state := PointNormal
		switch i {
		case l.activePoint:
			state = PointActive
		case l.hoveredPoint:
			state = PointHovered
		}
		out = append(out, PointMark{
			Index:  i,
			Center: math.Vec2{X: l.points[i].X - float32(viewStart), Y: l.points[i].Y},
			State:  state,
		})
	}
	return out
}

// Draw fills the region between the skyline and y=0.
func (l *Layer) Draw(c Canvas, viewStart, viewEnd int) {
	if !l.tracePath(c, viewStart, viewEnd) {
		return
	}
	c.LineTo(float32(viewEnd-viewStart), 0)
	c.LineTo(0, 0)

	fill := l.opts.Color
	if l.hover {
		fill = l.opts.HoverColor
	}
	c.FillPath(fill)
}

// Stroke outlines the skyline.
func (l *Layer) Stroke(c Canvas, viewStart, viewEnd int) {
	if !l.tracePath(c, viewStart, viewEnd) {
		return
	}
	c.StrokePath(l.opts.StrokeColor, l.opts.StrokeWidth)
}

// DrawPoints paints the visible base points in their interaction colors.
func (l *Layer) DrawPoints(c Canvas, viewStart, viewEnd int) {
	for _, m := range l.VisiblePoints(viewStart, viewEnd) {
		col := l.opts.PointColor
		switch m.State {
		case PointActive:
			col = l.opts.ActivePointColor
		case PointHovered:
			col = l.opts.HoveredPointColor
		}
		c.FillCircle(m.Center, l.opts.PointRadius, col)
	}
}

func (l *Layer) tracePath(c Canvas, viewStart, viewEnd int) bool {
	if viewEnd < viewStart {
		return false
	}
	c.BeginPath()
	c.MoveTo(0, l.field.At(viewStart))
	for x := viewStart + 1; x <= viewEnd; x++ {
		c.LineTo(float32(x-viewStart), l.field.At(x))
	}
	return true
}
