package landscape

import (
	"go.uber.org/zap"

	"github.com/Faultbox/skyline/pkg/math"
)

// DragMode is the pointer drag state.
type DragMode int

const (
	DragNone DragMode = iota
	DragCanvas
	DragPoint
)

func (m DragMode) String() string {
	switch m {
	case DragCanvas:
		return "canvas"
	case DragPoint:
		return "point"
	default:
		return "none"
	}
}

// Hover is what the pointer is over, used for cursor styling.
type Hover int

const (
	HoverNone Hover = iota
	HoverLayer
	HoverPoint
)

func (h Hover) String() string {
	switch h {
	case HoverLayer:
		return "layer"
	case HoverPoint:
		return "point"
	default:
		return "none"
	}
}

// EditResult reports what a double click did.
type EditResult int

const (
	EditNone     EditResult = iota // no active layer
	EditAdded                      // a base point was inserted
	EditDeleted                    // a base point was removed
	EditRejected                   // the edit was refused (protected or duplicate point)
)

func (r EditResult) String() string {
	switch r {
	case EditAdded:
		return "added"
	case EditDeleted:
		return "deleted"
	case EditRejected:
		return "rejected"
	default:
		return "none"
	}
}

// DragMode returns the current drag state.
func (ls *Landscape) DragMode() DragMode {
	return ls.drag
}

// Pointer handlers take viewport coordinates (y up, already scaled from
// device pixels); the landscape applies its own offset.

// PointerDown starts a drag: a point drag when the pointer is on one of the
// active layer's base points, a canvas drag otherwise.
func (ls *Landscape) PointerDown(view math.Vec2) DragMode {
	if ls.drag == DragPoint {
		return ls.drag
	}

	p := ls.WorldPoint(view)
	if active := ls.ActiveLayer(); active != nil && active.ActivatePoint(p) {
		ls.drag = DragPoint
	} else {
		ls.drag = DragCanvas
	}
	return ls.drag
}

// PointerMove feeds a drag and recomputes hover. dx is the horizontal
// pointer movement in viewport units since the previous call.
func (ls *Landscape) PointerMove(view math.Vec2, dx float32) Hover {
	switch ls.drag {
	case DragCanvas:
		ls.Translate(-dx)
	case DragPoint:
		if active := ls.ActiveLayer(); active != nil {
			active.MoveActivePoint(ls.WorldPoint(view))
		}
	}
	return ls.updateHover(ls.WorldPoint(view))
}

// PointerUp ends any drag.
func (ls *Landscape) PointerUp() {
	if ls.drag == DragPoint {
		if active := ls.ActiveLayer(); active != nil {
			active.DeactivatePoint()
		}
	}
	ls.drag = DragNone
}

// PointerLeave ends any drag and clears hover.
func (ls *Landscape) PointerLeave() {
	ls.PointerUp()
	ls.clearHover()
}

// Click selects the layer under the pointer for editing.
func (ls *Landscape) Click(view math.Vec2) *Layer {
	return ls.SelectLayerAt(ls.WorldPoint(view))
}

// DoubleClick deletes the active layer's base point under the pointer, or
// inserts a new one there.
func (ls *Landscape) DoubleClick(view math.Vec2) EditResult {
	active := ls.ActiveLayer()
	if active == nil {
		return EditNone
	}

	p := ls.WorldPoint(view)
	if idx := active.pointIndex(p); idx != noPoint {
		if active.DeleteBasePointAt(idx) {
			return EditDeleted
		}
		ls.log.Debug("protected base point", zap.Int("index", idx))
		return EditRejected
	}
	if active.AddBasePoint(p) {
		return EditAdded
	}
	ls.log.Debug("base point rejected", zap.Float32("x", p.X), zap.Float32("y", p.Y))
	return EditRejected
}

func (ls *Landscape) clearHover() {
	if ls.hovered != nil {
		ls.hovered.SetHover(false)
		ls.hovered = nil
	}
	if active := ls.ActiveLayer(); active != nil {
		active.ClearPointHover()
	}
}

// updateHover prefers a base point of the active layer, then any layer.
func (ls *Landscape) updateHover(p math.Vec2) Hover {
	ls.clearHover()

	if active := ls.ActiveLayer(); active != nil && active.HoverBasePoint(p) {
		active.SetHover(true)
		ls.hovered = active
		return HoverPoint
	}

	if layer, _ := ls.GetLayerAt(p); layer != nil {
		layer.SetHover(true)
		ls.hovered = layer
		return HoverLayer
	}
	return HoverNone
}
