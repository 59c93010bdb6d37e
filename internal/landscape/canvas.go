package landscape

import (
	"github.com/Faultbox/skyline/pkg/color"
	"github.com/Faultbox/skyline/pkg/math"
)

// Canvas is the drawing surface layers paint on. Coordinates are
// layer-local: the visible window's left edge is x=0 and y grows upward.
// Scaling, flipping and device pixel mapping belong to the implementation.
type Canvas interface {
	BeginPath()
	MoveTo(x, y float32)
	LineTo(x, y float32)
	FillPath(c color.Color)
	StrokePath(c color.Color, width float32)
	FillCircle(center math.Vec2, radius float32, c color.Color)
}

// PointState is the interaction state a base point is drawn with.
type PointState int

const (
	PointNormal PointState = iota
	PointHovered
	PointActive
)

// PointMark is a visible base point, ready to draw.
type PointMark struct {
	Index  int
	Center math.Vec2 // layer-local
	State  PointState
}
