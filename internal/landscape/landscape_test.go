package landscape

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/Faultbox/skyline/internal/canvas"
	"github.com/Faultbox/skyline/internal/heightfield"
	"github.com/Faultbox/skyline/pkg/math"
)

func flatLayer(y float32) Options {
	return layerOptions(0, math.Vec2{X: 0, Y: y}, math.Vec2{X: 600, Y: y}, math.Vec2{X: 1200, Y: y})
}

func newTestLandscape(t *testing.T, layers ...Options) *Landscape {
	t.Helper()
	ls, err := New(LandscapeOptions{
		Width:     1200,
		Height:    600,
		MoveSpeed: 5,
		Layers:    layers,
	}, heightfield.Zero, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ls
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		opts LandscapeOptions
		want error
	}{
		{"zero width", LandscapeOptions{Width: 0}, ErrInvalidViewport},
		{"negative lookahead", LandscapeOptions{Width: 100, Lookahead: -1}, ErrInvalidViewport},
		{"bad layer", LandscapeOptions{Width: 100, Layers: []Options{layerOptions(0, math.Vec2{})}}, ErrInvalidOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts, heightfield.Zero, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLayersCoverLookahead(t *testing.T) {
	ls := newTestLandscape(t, flatLayer(500), flatLayer(100))

	start, end := ls.Bounds()
	if start > -DefaultLookahead || end < 1200+DefaultLookahead {
		t.Fatalf("bounds [%d, %d] do not cover the look-ahead buffer", start, end)
	}
	for i, layer := range ls.Layers() {
		if layer.Start() > start || layer.End() < end {
			t.Errorf("layer %d span [%d, %d] does not contain bounds", i, layer.Start(), layer.End())
		}
	}
}

func TestBoundsOnlyWiden(t *testing.T) {
	ls := newTestLandscape(t, flatLayer(500), layerOptions(0.6,
		math.Vec2{X: 0, Y: 100}, math.Vec2{X: 250, Y: 300}, math.Vec2{X: 700, Y: 200}))
	rng := rand.New(rand.NewSource(9))

	prevStart, prevEnd := ls.Bounds()
	for i := 0; i < 100; i++ {
		ls.Translate(float32(rng.Intn(3000) - 1500))

		start, end := ls.Bounds()
		if start > prevStart || end < prevEnd {
			t.Fatalf("bounds shrank from [%d, %d] to [%d, %d]", prevStart, prevEnd, start, end)
		}
		if start > ls.ViewStart()-DefaultLookahead || end < ls.ViewEnd()+DefaultLookahead {
			t.Fatalf("bounds [%d, %d] miss viewport [%d, %d] plus look-ahead",
				start, end, ls.ViewStart(), ls.ViewEnd())
		}
		prevStart, prevEnd = start, end
	}
}

func TestViewportCoordinates(t *testing.T) {
	ls := newTestLandscape(t)
	ls.Translate(250.5)

	if ls.ViewStart() != 250 || ls.ViewEnd() != 1450 {
		t.Errorf("view = [%d, %d], want [250, 1450]", ls.ViewStart(), ls.ViewEnd())
	}
	if got := ls.WorldPoint(math.Vec2{X: 10, Y: 5}); got != (math.Vec2{X: 260.5, Y: 5}) {
		t.Errorf("WorldPoint = %v", got)
	}
}

func TestOffsetKeepsSmallStepsFarAway(t *testing.T) {
	// No layers, so scrolling far generates nothing.
	ls := newTestLandscape(t)
	ls.Translate(3e7)
	for i := 0; i < 4; i++ {
		ls.Translate(0.5)
	}

	if got := ls.Offset(); got != 3e7+2 {
		t.Errorf("offset = %v, want %v", got, 3e7+2)
	}
	if ls.ViewStart() != 30000002 {
		t.Errorf("ViewStart = %d, want 30000002", ls.ViewStart())
	}
}

func TestGetLayerAtPrefersTopmost(t *testing.T) {
	ls := newTestLandscape(t, flatLayer(500), flatLayer(100))

	tests := []struct {
		name string
		p    math.Vec2
		want int
	}{
		{"under both", math.Vec2{X: 600, Y: 50}, 1},
		{"only under bottom", math.Vec2{X: 600, Y: 300}, 0},
		{"sky", math.Vec2{X: 600, Y: 600}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layer, idx := ls.GetLayerAt(tt.p)
			if idx != tt.want {
				t.Fatalf("index = %d, want %d", idx, tt.want)
			}
			if (layer == nil) != (tt.want < 0) {
				t.Errorf("layer = %v for index %d", layer, idx)
			}
		})
	}
}

func TestPointDrag(t *testing.T) {
	ls := newTestLandscape(t, flatLayer(500))

	if ls.Click(math.Vec2{X: 600, Y: 100}) == nil || ls.ActiveIndex() != 0 {
		t.Fatal("click should select the layer")
	}

	if mode := ls.PointerDown(math.Vec2{X: 600, Y: 500}); mode != DragPoint {
		t.Fatalf("PointerDown on a base point = %v, want point", mode)
	}
	ls.PointerMove(math.Vec2{X: 650, Y: 400}, 50)

	layer := ls.ActiveLayer()
	found := false
	for _, p := range layer.Points() {
		if p == (math.Vec2{X: 650, Y: 400}) {
			found = true
		}
		if p.X == 600 {
			t.Error("old point position still present")
		}
	}
	if !found {
		t.Errorf("dragged point not at {650 400}: %v", layer.Points())
	}
	if ls.Offset() != 0 {
		t.Error("point drag must not scroll")
	}

	ls.PointerUp()
	if ls.DragMode() != DragNone || layer.ActivePoint() != -1 {
		t.Error("PointerUp should end the drag and release the point")
	}
}

func TestPressAbovePointStartsPointDrag(t *testing.T) {
	ls := newTestLandscape(t, flatLayer(300))
	ls.Click(math.Vec2{X: 600, Y: 100})

	above := math.Vec2{X: 600, Y: 305}
	if hover := ls.PointerMove(above, 0); hover != HoverPoint {
		t.Fatalf("hover above the point = %v, want point", hover)
	}

	if ls.Click(above) == nil || ls.ActiveIndex() != 0 {
		t.Fatalf("click on the active layer's point deselected it (active %d)", ls.ActiveIndex())
	}
	if mode := ls.PointerDown(above); mode != DragPoint {
		t.Fatalf("PointerDown above the point = %v, want point", mode)
	}
	layer := ls.ActiveLayer()
	if idx := layer.ActivePoint(); idx < 0 || layer.Points()[idx].X != 600 {
		t.Errorf("active point %d is not the one at x=600", idx)
	}
}

func TestClickAboveSkylineDeselects(t *testing.T) {
	ls := newTestLandscape(t, flatLayer(300))
	ls.Click(math.Vec2{X: 600, Y: 100})

	if ls.Click(math.Vec2{X: 300, Y: 400}) != nil || ls.ActiveIndex() != -1 {
		t.Error("click in the sky away from any point should clear the selection")
	}
}

func TestCanvasDrag(t *testing.T) {
	ls := newTestLandscape(t, flatLayer(500))

	if mode := ls.PointerDown(math.Vec2{X: 300, Y: 100}); mode != DragCanvas {
		t.Fatalf("PointerDown without an active layer = %v, want canvas", mode)
	}
	ls.PointerMove(math.Vec2{X: 290, Y: 100}, -10)
	ls.PointerMove(math.Vec2{X: 280, Y: 100}, -10)
	if ls.Offset() != 20 {
		t.Errorf("offset after dragging left = %v, want 20", ls.Offset())
	}

	ls.PointerLeave()
	if ls.DragMode() != DragNone {
		t.Error("PointerLeave should end the drag")
	}
	ls.PointerMove(math.Vec2{X: 270, Y: 100}, -10)
	if ls.Offset() != 20 {
		t.Error("moving without a drag must not scroll")
	}
}

func TestHover(t *testing.T) {
	ls := newTestLandscape(t, flatLayer(500))
	ls.Click(math.Vec2{X: 600, Y: 100})
	layer := ls.ActiveLayer()

	if h := ls.PointerMove(math.Vec2{X: 1200, Y: 500}, 0); h != HoverPoint {
		t.Errorf("hover over base point = %v, want point", h)
	}
	if layer.HoveredPoint() < 0 || !layer.Hovered() {
		t.Error("point hover not recorded")
	}

	if h := ls.PointerMove(math.Vec2{X: 900, Y: 100}, 0); h != HoverLayer {
		t.Errorf("hover over layer = %v, want layer", h)
	}
	if layer.HoveredPoint() != -1 || ls.HoveredLayer() != layer {
		t.Error("stale point hover")
	}

	if h := ls.PointerMove(math.Vec2{X: 900, Y: 550}, 0); h != HoverNone {
		t.Errorf("hover over sky = %v, want none", h)
	}
	if layer.Hovered() || ls.HoveredLayer() != nil {
		t.Error("layer hover not cleared")
	}

	ls.PointerMove(math.Vec2{X: 900, Y: 100}, 0)
	ls.PointerLeave()
	if layer.Hovered() {
		t.Error("PointerLeave should clear hover")
	}
}

func TestDoubleClick(t *testing.T) {
	ls := newTestLandscape(t, flatLayer(500))

	if got := ls.DoubleClick(math.Vec2{X: 300, Y: 200}); got != EditNone {
		t.Fatalf("double click without active layer = %v", got)
	}

	ls.Click(math.Vec2{X: 600, Y: 100})
	layer := ls.ActiveLayer()
	count := len(layer.Points())

	if got := ls.DoubleClick(math.Vec2{X: 300, Y: 200}); got != EditAdded {
		t.Fatalf("double click on empty spot = %v, want added", got)
	}
	if len(layer.Points()) != count+1 || layer.Height(300) != 200 {
		t.Error("base point not inserted")
	}

	if got := ls.DoubleClick(math.Vec2{X: 302, Y: 198}); got != EditDeleted {
		t.Fatalf("double click on point = %v, want deleted", got)
	}
	if len(layer.Points()) != count {
		t.Error("base point not removed")
	}

	first := layer.Points()[0]
	if got := ls.DoubleClick(first); got != EditRejected {
		t.Errorf("double click on edge point = %v, want rejected", got)
	}
}

func TestKeyboardScroll(t *testing.T) {
	ls := newTestLandscape(t, flatLayer(500))

	ls.Go(1)
	ls.Update()
	ls.Update()
	if ls.Offset() != 10 {
		t.Errorf("offset = %v, want 10", ls.Offset())
	}

	ls.Go(1)
	if ls.Moving() != 5 {
		t.Error("repeating the direction should keep speed")
	}
	ls.Go(-1)
	if ls.Moving() != 0 {
		t.Error("reversing should stop")
	}
	ls.Go(-1)
	ls.Update()
	if ls.Offset() != 5 {
		t.Errorf("offset = %v, want 5", ls.Offset())
	}

	ls.Stop()
	ls.Update()
	if ls.Offset() != 5 || ls.Moving() != 0 {
		t.Error("Stop should halt scrolling")
	}
}

func TestDeleteActiveLayer(t *testing.T) {
	ls := newTestLandscape(t, flatLayer(500), flatLayer(100))

	if ls.DeleteActiveLayer() {
		t.Fatal("nothing to delete without a selection")
	}

	ls.Click(math.Vec2{X: 600, Y: 50})
	top := ls.ActiveLayer()
	ls.PointerMove(math.Vec2{X: 600, Y: 50}, 0)

	if !ls.DeleteActiveLayer() {
		t.Fatal("DeleteActiveLayer failed")
	}
	if len(ls.Layers()) != 1 || ls.Layers()[0] == top {
		t.Error("wrong layer removed")
	}
	if ls.ActiveLayer() != nil || ls.HoveredLayer() != nil {
		t.Error("selection and hover should be cleared")
	}
}

func TestCreateLayerRequest(t *testing.T) {
	ls := newTestLandscape(t, flatLayer(500))
	start, end := ls.Bounds()

	req := ls.RequestNewLayer()
	if req.Mode != ModeCreate {
		t.Fatalf("mode = %v", req.Mode)
	}
	points := req.Options.Points
	if points[0].X != float32(start) || points[len(points)-1].X != float32(end) {
		t.Errorf("seed line spans [%v, %v], want [%d, %d]", points[0].X, points[len(points)-1].X, start, end)
	}
	for i, p := range points {
		if p.Y != 300 {
			t.Fatalf("seed point %d at height %v, want 300", i, p.Y)
		}
		if i > 0 && p.X-points[i-1].X > float32(req.Options.Gap)*2 {
			t.Fatalf("seed points %d and %d too far apart", i-1, i)
		}
	}

	bad := req.Options.Clone()
	bad.Gap = 0
	if _, err := ls.Resolve(req, bad); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
	if req.Closed() {
		t.Fatal("a failed resolve must leave the request open")
	}

	layer, err := ls.Resolve(req, req.Options)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(ls.Layers()) != 2 || ls.Layers()[1] != layer {
		t.Error("new layer should be on top")
	}
	if layer.Start() > start || layer.End() < end {
		t.Error("new layer does not cover the bounds")
	}
	if _, err := ls.Resolve(req, req.Options); !errors.Is(err, ErrRequestClosed) {
		t.Errorf("second resolve: expected ErrRequestClosed, got %v", err)
	}
}

func TestEditLayerRequest(t *testing.T) {
	ls := newTestLandscape(t, flatLayer(500))

	if _, err := ls.RequestEdit(); !errors.Is(err, ErrNoActiveLayer) {
		t.Fatalf("expected ErrNoActiveLayer, got %v", err)
	}

	ls.Click(math.Vec2{X: 600, Y: 100})
	req, err := ls.RequestEdit()
	if err != nil {
		t.Fatalf("RequestEdit: %v", err)
	}
	if req.Mode != ModeEdit || len(req.Options.Points) == 0 {
		t.Fatalf("unexpected request %+v", req)
	}

	opts := req.Options
	opts.Roughness = 0.9
	opts.Name = "ridge"
	layer, err := ls.Resolve(req, opts)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if layer != ls.ActiveLayer() || layer.Roughness() != 0.9 || layer.Options().Name != "ridge" {
		t.Error("edit not applied to the active layer")
	}

	cancelled, _ := ls.RequestEdit()
	cancelled.Cancel()
	if _, err := ls.Resolve(cancelled, opts); !errors.Is(err, ErrRequestClosed) {
		t.Errorf("expected ErrRequestClosed, got %v", err)
	}

	orphan, _ := ls.RequestEdit()
	ls.DeleteActiveLayer()
	if _, err := ls.Resolve(orphan, opts); !errors.Is(err, ErrLayerRemoved) {
		t.Errorf("expected ErrLayerRemoved, got %v", err)
	}
}

func TestLandscapeDraw(t *testing.T) {
	ls := newTestLandscape(t, flatLayer(500), flatLayer(100))
	rec := canvas.NewRecorder()

	ls.Draw(rec)
	if got := len(rec.Commands()); got != 2 {
		t.Fatalf("expected a fill per layer, got %d commands", got)
	}

	rec.Reset()
	ls.Click(math.Vec2{X: 600, Y: 300})
	ls.Draw(rec)
	cmds := rec.Commands()
	// two fills, the active outline, base points at 0, 600 and 1200
	if len(cmds) != 6 {
		t.Fatalf("expected 6 commands, got %d", len(cmds))
	}
	if cmds[2].Op != canvas.OpStroke {
		t.Errorf("third command = %v, want stroke", cmds[2].Op)
	}
	for _, cmd := range cmds[3:] {
		if cmd.Op != canvas.OpCircle {
			t.Errorf("expected circle, got %v", cmd.Op)
		}
	}
}
