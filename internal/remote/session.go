package remote

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/skyline/internal/canvas"
	"github.com/Faultbox/skyline/internal/landscape"
)

var (
	// ErrNoActiveLayer is reported when a layer command needs a selection.
	ErrNoActiveLayer = errors.New("no layer selected")
	// ErrOutOfRange is reported for non-finite numbers and layers reaching
	// too far from the generated span.
	ErrOutOfRange = errors.New("value out of range")
)

// Session applies client messages to one landscape. It is not safe for
// concurrent use; a connection drives it from a single goroutine.
type Session struct {
	ls  *landscape.Landscape
	rec *canvas.Recorder
	log *zap.Logger

	hover  landscape.Hover
	result landscape.EditResult
}

// NewSession wraps ls. A nil logger disables logging.
func NewSession(ls *landscape.Landscape, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{ls: ls, rec: canvas.NewRecorder(), log: log}
}

// Handle applies one raw message and returns the reply, or nil when the
// message has none. Input messages are silent; frame requests and failures
// are answered.
func (s *Session) Handle(raw []byte) *Outbound {
	in, err := DecodeInbound(raw)
	if err != nil {
		s.log.Debug("rejected message", zap.Error(err))
		return errorMessage(err)
	}
	if err := s.apply(in); err != nil {
		s.log.Debug("message failed", zap.String("type", in.Type), zap.Error(err))
		return errorMessage(err)
	}
	if in.Type == TypeFrame {
		return &Outbound{Type: TypeFrame, Data: s.Frame()}
	}
	return nil
}

func (s *Session) apply(in Inbound) error {
	ls := s.ls

	switch in.Type {
	case TypePointerDown, TypePointerMove, TypeClick, TypeDoubleClick:
		var p Pointer
		if err := in.decodeData(&p); err != nil {
			return err
		}
		if !finite(p.X) || !finite(p.Y) || !finite(p.Dx) {
			return fmt.Errorf("%w: pointer", ErrOutOfRange)
		}
		p.Dx = s.clampDelta(p.Dx)
		switch in.Type {
		case TypePointerDown:
			ls.PointerDown(p.Vec2)
		case TypePointerMove:
			s.hover = ls.PointerMove(p.Vec2, p.Dx)
		case TypeClick:
			ls.Click(p.Vec2)
		case TypeDoubleClick:
			s.result = ls.DoubleClick(p.Vec2)
		}

	case TypePointerUp:
		ls.PointerUp()

	case TypePointerLeave:
		ls.PointerLeave()
		s.hover = landscape.HoverNone

	case TypeGo:
		var g Go
		if err := in.decodeData(&g); err != nil {
			return err
		}
		ls.Go(g.Direction)

	case TypeStop:
		ls.Stop()

	case TypeTranslate:
		var t Translate
		if err := in.decodeData(&t); err != nil {
			return err
		}
		if !finite(t.Delta) {
			return fmt.Errorf("%w: delta", ErrOutOfRange)
		}
		ls.Translate(s.clampDelta(t.Delta))

	case TypeDeleteLayer:
		if !ls.DeleteActiveLayer() {
			return ErrNoActiveLayer
		}
		s.hover = landscape.HoverNone

	case TypeCreateLayer:
		req := ls.RequestNewLayer()
		return s.resolve(in, req)

	case TypeEditLayer:
		req, err := ls.RequestEdit()
		if err != nil {
			return err
		}
		return s.resolve(in, req)

	case TypeFrame:
		ls.Update()
	}
	return nil
}

// resolve overlays the message payload on the request's proposed options,
// so clients only send the fields they change.
func (s *Session) resolve(in Inbound, req *landscape.EditRequest) error {
	opts := req.Options
	if err := in.decodeData(&opts); err != nil {
		req.Cancel()
		return err
	}
	if err := s.checkReach(req.Mode, opts); err != nil {
		req.Cancel()
		return err
	}
	if _, err := s.ls.Resolve(req, opts); err != nil {
		req.Cancel()
		return err
	}
	return nil
}

// clampDelta bounds one message's scroll so a single message generates at
// most one viewport plus the look-ahead of new terrain.
func (s *Session) clampDelta(d float32) float32 {
	limit := float32(s.ls.Width() + s.ls.Lookahead())
	return math32.Max(-limit, math32.Min(limit, d))
}

// checkReach rejects layer options that would generate terrain far outside
// the current bounds: new seed points beyond one viewport past either edge,
// or a gap wider than the bounds themselves. Edits keep their points.
func (s *Session) checkReach(mode landscape.EditMode, opts landscape.Options) error {
	start, end := s.ls.Bounds()
	lo, hi := float32(start-s.ls.Width()), float32(end+s.ls.Width())
	if mode == landscape.ModeCreate {
		for _, p := range opts.Points {
			if !finite(p.X) || !finite(p.Y) || p.X < lo || p.X > hi {
				return fmt.Errorf("%w: point (%v, %v) outside [%v, %v]", ErrOutOfRange, p.X, p.Y, lo, hi)
			}
		}
	}
	if opts.Gap > end-start {
		return fmt.Errorf("%w: gap %d wider than %d", ErrOutOfRange, opts.Gap, end-start)
	}
	return nil
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// Frame draws the current viewport and clears the pending edit result.
func (s *Session) Frame() Frame {
	s.rec.Reset()
	s.ls.Draw(s.rec)

	start, end := s.ls.Bounds()
	f := Frame{
		Offset:   s.ls.Offset(),
		Start:    start,
		End:      end,
		Layers:   len(s.ls.Layers()),
		Active:   s.ls.ActiveIndex(),
		Drag:     s.ls.DragMode().String(),
		Hover:    s.hover.String(),
		Commands: s.rec.Commands(),
	}
	if s.result != landscape.EditNone {
		f.Result = s.result.String()
		s.result = landscape.EditNone
	}
	return f
}
