package app

import (
	"github.com/chewxy/math32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/skyline/internal/engine/input"
	"github.com/Faultbox/skyline/internal/landscape"
)

// roughnessStep is how much one key press changes the active layer's
// roughness.
const roughnessStep = 0.05

func (a *App) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		a.resize(a.window.GetSize())

	case input.EventPointerDown:
		if event.Button != sdl.BUTTON_LEFT {
			return
		}
		p := a.screen.toView(event.X, event.Y)
		if a.ls.PointerDown(p) == landscape.DragCanvas {
			a.ls.Click(p)
		}

	case input.EventDoubleClick:
		if event.Button != sdl.BUTTON_LEFT {
			return
		}
		result := a.ls.DoubleClick(a.screen.toView(event.X, event.Y))
		if result != landscape.EditNone {
			a.log.Debug("double click", zap.Stringer("result", result))
		}

	case input.EventPointerMove:
		hover := a.ls.PointerMove(a.screen.toView(event.X, event.Y), a.screen.dx(event.DX))
		a.window.SetPointerCursor(hover != landscape.HoverNone)

	case input.EventPointerUp:
		if event.Button == sdl.BUTTON_LEFT {
			a.ls.PointerUp()
		}

	case input.EventPointerLeave:
		a.ls.PointerLeave()
		a.window.SetPointerCursor(false)

	case input.EventKeyDown:
		a.keyDown(event)

	case input.EventKeyUp:
		switch event.Key {
		case sdl.K_LEFT, sdl.K_RIGHT:
			a.ls.Stop()
		}
	}
}

func (a *App) keyDown(event input.Event) {
	switch event.Key {
	case sdl.K_ESCAPE:
		a.running = false
	case sdl.K_LEFT:
		if !event.Repeat {
			a.ls.Go(-1)
		}
	case sdl.K_RIGHT:
		if !event.Repeat {
			a.ls.Go(1)
		}
	case sdl.K_n:
		a.createLayer()
	case sdl.K_DELETE, sdl.K_BACKSPACE:
		a.confirmDelete()
	case sdl.K_EQUALS, sdl.K_KP_PLUS:
		a.adjustRoughness(roughnessStep)
	case sdl.K_MINUS, sdl.K_KP_MINUS:
		a.adjustRoughness(-roughnessStep)
	case sdl.K_o:
		a.openPreset()
	case sdl.K_s:
		a.savePreset()
	}
}

// createLayer adds the proposed new layer as is.
func (a *App) createLayer() {
	req := a.ls.RequestNewLayer()
	if _, err := a.ls.Resolve(req, req.Options); err != nil {
		a.log.Warn("failed to create layer", zap.Error(err))
	}
}

func (a *App) adjustRoughness(delta float32) {
	req, err := a.ls.RequestEdit()
	if err != nil {
		a.log.Debug("roughness change ignored", zap.Error(err))
		return
	}
	opts := req.Options
	opts.Roughness = stepRoughness(opts.Roughness, delta)
	if _, err := a.ls.Resolve(req, opts); err != nil {
		req.Cancel()
		a.log.Warn("failed to edit layer", zap.Error(err))
	}
}

func stepRoughness(r, delta float32) float32 {
	return math32.Max(0, math32.Min(1, r+delta))
}
