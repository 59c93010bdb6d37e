package landscape

import (
	"errors"
	"fmt"
	stdmath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/skyline/internal/heightfield"
	"github.com/Faultbox/skyline/pkg/math"
)

// DefaultLookahead is how far past each viewport edge layers are kept
// generated.
const DefaultLookahead = 1000

// ErrInvalidViewport is returned for a non-positive viewport width or a
// negative look-ahead.
var ErrInvalidViewport = errors.New("invalid viewport")

// LandscapeOptions configures a Landscape.
type LandscapeOptions struct {
	Width     int     // viewport width in world units
	Height    float32 // viewport height, used to seed new layers
	Lookahead int     // 0 means DefaultLookahead
	MoveSpeed float32 // keyboard scroll speed per Update
	Layers    []Options
}

// Landscape is an ordered stack of layers seen through a scrolling viewport.
// Later layers are drawn on top and win hit tests.
type Landscape struct {
	layers []*Layer
	source heightfield.Source
	log    *zap.Logger

	offset    float64 // world points are float32: whole units are exact up to 2^24
	width     int
	height    float32
	lookahead int
	moveSpeed float32
	moving    float32

	// Intersection of every layer's generated span.
	start, end int

	active  int
	hovered *Layer
	drag    DragMode
}

// New builds a landscape and generates every layer far enough past the
// viewport. A nil logger disables logging.
func New(opts LandscapeOptions, src heightfield.Source, log *zap.Logger) (*Landscape, error) {
	if opts.Width <= 0 {
		return nil, fmt.Errorf("%w: width %d", ErrInvalidViewport, opts.Width)
	}
	if opts.Lookahead < 0 {
		return nil, fmt.Errorf("%w: lookahead %d", ErrInvalidViewport, opts.Lookahead)
	}
	if opts.Lookahead == 0 {
		opts.Lookahead = DefaultLookahead
	}
	if log == nil {
		log = zap.NewNop()
	}
	if src == nil {
		src = heightfield.NewUniformSource(nil)
	}

	ls := &Landscape{
		source:    src,
		log:       log,
		width:     opts.Width,
		height:    opts.Height,
		lookahead: opts.Lookahead,
		moveSpeed: opts.MoveSpeed,
		active:    noPoint,
	}
	ls.start, ls.end = ls.required()

	for i, layerOpts := range opts.Layers {
		if _, err := ls.AddLayer(layerOpts); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	ls.Translate(0)
	return ls, nil
}

// required returns the span every layer must cover for the current offset.
func (ls *Landscape) required() (int, int) {
	left := ls.ViewStart()
	return left - ls.lookahead, left + ls.width + ls.lookahead
}

// cover extends layer until it spans [lo, hi] and reports how many
// intervals were added.
func (ls *Landscape) cover(layer *Layer, lo, hi int) int {
	grown := 0
	for layer.Start() > lo {
		layer.Increase(-1)
		grown++
	}
	for layer.End() < hi {
		layer.Increase(1)
		grown++
	}
	return grown
}

// updateBounds recomputes the span where every layer has data.
func (ls *Landscape) updateBounds() {
	if len(ls.layers) == 0 {
		lo, hi := ls.required()
		ls.start = min(ls.start, lo)
		ls.end = max(ls.end, hi)
		return
	}

	ls.start, ls.end = ls.layers[0].Start(), ls.layers[0].End()
	for _, layer := range ls.layers[1:] {
		ls.start = max(ls.start, layer.Start())
		ls.end = min(ls.end, layer.End())
	}
}

// Translate scrolls the viewport by delta world units and extends layers
// that no longer reach past the look-ahead buffer.
func (ls *Landscape) Translate(delta float32) {
	ls.offset += float64(delta)

	lo, hi := ls.required()
	for i, layer := range ls.layers {
		if grown := ls.cover(layer, lo, hi); grown > 0 {
			ls.log.Debug("layer extended",
				zap.Int("layer", i),
				zap.Int("intervals", grown),
				zap.Int("start", layer.Start()),
				zap.Int("end", layer.End()),
			)
		}
	}
	ls.updateBounds()
}

// Go starts keyboard scrolling in direction's sign. Asking for the opposite
// direction while moving stops instead.
func (ls *Landscape) Go(direction int) {
	switch {
	case direction == 0:
		return
	case ls.moving*float32(direction) < 0:
		ls.moving = 0
	case ls.moving == 0:
		ls.moving = ls.moveSpeed
		if direction < 0 {
			ls.moving = -ls.moveSpeed
		}
	}
}

// Stop halts keyboard scrolling.
func (ls *Landscape) Stop() {
	ls.moving = 0
}

// Moving returns the current scroll velocity.
func (ls *Landscape) Moving() float32 {
	return ls.moving
}

// Update advances keyboard scrolling by one frame.
func (ls *Landscape) Update() {
	if ls.moving != 0 {
		ls.Translate(ls.moving)
	}
}

// Offset returns the world x of the viewport's left edge.
func (ls *Landscape) Offset() float64 {
	return ls.offset
}

// Width returns the viewport width.
func (ls *Landscape) Width() int {
	return ls.width
}

// Lookahead returns how far past each viewport edge layers are generated.
func (ls *Landscape) Lookahead() int {
	return ls.lookahead
}

// Height returns the viewport height.
func (ls *Landscape) Height() float32 {
	return ls.height
}

// ViewStart returns the first integer x of the visible window.
func (ls *Landscape) ViewStart() int {
	return int(stdmath.Floor(ls.offset))
}

// ViewEnd returns the last integer x of the visible window.
func (ls *Landscape) ViewEnd() int {
	return ls.ViewStart() + ls.width
}

// Bounds returns the span where every layer has generated data.
func (ls *Landscape) Bounds() (start, end int) {
	return ls.start, ls.end
}

// WorldPoint converts viewport coordinates (y up) to world coordinates.
func (ls *Landscape) WorldPoint(v math.Vec2) math.Vec2 {
	return math.Vec2{X: float32(float64(v.X) + ls.offset), Y: v.Y}
}

// Layers returns the layers bottom to top. The slice must not be modified.
func (ls *Landscape) Layers() []*Layer {
	return ls.layers
}

// ActiveLayer returns the layer selected for editing, or nil.
func (ls *Landscape) ActiveLayer() *Layer {
	if ls.active < 0 || ls.active >= len(ls.layers) {
		return nil
	}
	return ls.layers[ls.active]
}

// ActiveIndex returns the index of the active layer, or -1.
func (ls *Landscape) ActiveIndex() int {
	return ls.active
}

// HoveredLayer returns the hovered layer, or nil.
func (ls *Landscape) HoveredLayer() *Layer {
	return ls.hovered
}

// GetLayerAt returns the topmost layer whose skyline is above the world
// point p, with its index, or (nil, -1).
func (ls *Landscape) GetLayerAt(p math.Vec2) (*Layer, int) {
	for i := len(ls.layers) - 1; i >= 0; i-- {
		if ls.layers[i].IsBelongs(p) {
			return ls.layers[i], i
		}
	}
	return nil, noPoint
}

// SelectLayerAt makes the layer under the world point p active, or clears
// the selection when there is none. A hit on one of the active layer's base
// points keeps it selected, even above its skyline.
func (ls *Landscape) SelectLayerAt(p math.Vec2) *Layer {
	if active := ls.ActiveLayer(); active != nil && active.pointIndex(p) != noPoint {
		return active
	}
	layer, idx := ls.GetLayerAt(p)
	if prev := ls.ActiveLayer(); prev != nil && prev != layer {
		prev.DeactivatePoint()
		prev.ClearPointHover()
	}
	ls.active = idx
	return layer
}

// AddLayer creates a layer on top of the stack. It is pre-extended one
// interval each way and then grown to cover the current bounds.
func (ls *Landscape) AddLayer(opts Options) (*Layer, error) {
	layer, err := NewLayer(opts, ls.source)
	if err != nil {
		return nil, err
	}
	layer.Increase(1)
	layer.Increase(-1)

	lo, hi := ls.required()
	ls.cover(layer, min(lo, ls.start), max(hi, ls.end))

	ls.layers = append(ls.layers, layer)
	ls.updateBounds()

	ls.log.Info("layer added",
		zap.Int("index", len(ls.layers)-1),
		zap.String("name", opts.Name),
		zap.Float32("roughness", opts.Roughness),
		zap.Int("points", len(layer.points)),
	)
	return layer, nil
}

// DeleteActiveLayer removes the active layer.
func (ls *Landscape) DeleteActiveLayer() bool {
	layer := ls.ActiveLayer()
	if layer == nil {
		return false
	}

	ls.layers = append(ls.layers[:ls.active], ls.layers[ls.active+1:]...)
	if ls.hovered == layer {
		ls.hovered = nil
	}
	if ls.drag == DragPoint {
		ls.drag = DragNone
	}
	ls.log.Info("layer deleted", zap.Int("index", ls.active))
	ls.active = noPoint
	ls.updateBounds()
	return true
}

// Draw paints every layer over the visible window; the active layer also
// gets its outline and base points.
func (ls *Landscape) Draw(c Canvas) {
	vs, ve := ls.ViewStart(), ls.ViewEnd()
	for _, layer := range ls.layers {
		layer.Draw(c, vs, ve)
	}
	if active := ls.ActiveLayer(); active != nil {
		active.Stroke(c, vs, ve)
		active.DrawPoints(c, vs, ve)
	}
}
