package landscape

import (
	"errors"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/skyline/pkg/color"
	"github.com/Faultbox/skyline/pkg/math"
)

var (
	// ErrRequestClosed is returned when resolving a request twice or after
	// it was cancelled.
	ErrRequestClosed = errors.New("edit request already closed")
	// ErrNoActiveLayer is returned when an edit needs an active layer.
	ErrNoActiveLayer = errors.New("no active layer")
	// ErrLayerRemoved is returned when the edited layer was deleted while
	// its request was open.
	ErrLayerRemoved = errors.New("edited layer was removed")
)

// EditMode tells the form collaborator what the request is for.
type EditMode int

const (
	ModeCreate EditMode = iota
	ModeEdit
)

func (m EditMode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// EditRequest is a pending layer form. The form works on Options, then the
// caller hands the result back through Resolve or drops it with Cancel.
type EditRequest struct {
	Mode    EditMode
	Options Options

	target *Layer
	closed bool
}

// Closed reports whether the request was resolved or cancelled.
func (r *EditRequest) Closed() bool {
	return r.closed
}

// Cancel drops the request.
func (r *EditRequest) Cancel() {
	r.closed = true
}

// RequestNewLayer opens a create request. The proposed layer is a flat line
// at half the viewport height across the current bounds, with a base point
// every Gap units.
func (ls *Landscape) RequestNewLayer() *EditRequest {
	opts := DefaultLayerOptions()
	opts.Roughness = 0.5
	opts.Color = color.RGB(120, 120, 120)
	opts.HoverColor = color.RGB(160, 160, 160)
	opts.Points = seedLine(ls.start, ls.end, ls.height/2, opts.Gap)

	return &EditRequest{Mode: ModeCreate, Options: opts}
}

// RequestEdit opens an edit request for the active layer.
func (ls *Landscape) RequestEdit() (*EditRequest, error) {
	active := ls.ActiveLayer()
	if active == nil {
		return nil, ErrNoActiveLayer
	}
	return &EditRequest{Mode: ModeEdit, Options: active.Options(), target: active}, nil
}

// Resolve applies the form result. Create requests add a layer on top; edit
// requests update the target layer's style and parameters.
func (ls *Landscape) Resolve(req *EditRequest, opts Options) (*Layer, error) {
	if req.closed {
		return nil, ErrRequestClosed
	}

	if req.Mode == ModeCreate {
		layer, err := ls.AddLayer(opts)
		if err != nil {
			return nil, err
		}
		req.closed = true
		return layer, nil
	}

	if !ls.contains(req.target) {
		req.closed = true
		return nil, ErrLayerRemoved
	}
	roughnessChanged := req.target.Roughness() != opts.Roughness
	if err := req.target.SetOptions(opts); err != nil {
		return nil, err
	}
	req.closed = true

	ls.log.Info("layer edited",
		zap.String("name", opts.Name),
		zap.Float32("roughness", opts.Roughness),
		zap.Bool("regenerated", roughnessChanged),
	)
	return req.target, nil
}

func (ls *Landscape) contains(layer *Layer) bool {
	for _, l := range ls.layers {
		if l == layer {
			return true
		}
	}
	return false
}

// seedLine returns points from start to end at height y, spaced about gap
// apart. Both ends are always included.
func seedLine(start, end int, y float32, gap int) []math.Vec2 {
	span := end - start
	count := 1
	if gap > 0 && span/gap > 1 {
		count = span / gap
	}

	points := make([]math.Vec2, 0, count+1)
	for i := 0; i <= count; i++ {
		x := start + int(math32.Round(float32(i)*float32(span)/float32(count)))
		points = append(points, math.Vec2{X: float32(x), Y: y})
	}
	return points
}
