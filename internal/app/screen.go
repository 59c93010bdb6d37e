package app

import "github.com/Faultbox/skyline/pkg/math"

// screen maps window coordinates (pixels, y down) onto the landscape
// viewport (world units, y up). The viewport stretches to fill the window.
type screen struct {
	winW, winH   int
	viewW, viewH float32
}

func (s screen) toView(x, y int) math.Vec2 {
	if s.winW <= 0 || s.winH <= 0 {
		return math.Vec2{}
	}
	return math.Vec2{
		X: float32(x) * s.viewW / float32(s.winW),
		Y: float32(s.winH-y) * s.viewH / float32(s.winH),
	}
}

func (s screen) dx(dx int) float32 {
	if s.winW <= 0 {
		return 0
	}
	return float32(dx) * s.viewW / float32(s.winW)
}
