package remote

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/Faultbox/skyline/internal/canvas"
	"github.com/Faultbox/skyline/internal/heightfield"
	"github.com/Faultbox/skyline/internal/landscape"
	"github.com/Faultbox/skyline/pkg/color"
	"github.com/Faultbox/skyline/pkg/math"
)

func flatLayers() []landscape.Options {
	opts := landscape.DefaultLayerOptions()
	opts.Name = "plain"
	opts.Roughness = 0
	opts.Points = []math.Vec2{{X: 0, Y: 500}, {X: 600, Y: 500}, {X: 1200, Y: 500}}
	return []landscape.Options{opts}
}

func landscapeOptions() landscape.LandscapeOptions {
	return landscape.LandscapeOptions{Width: 1200, Height: 600, MoveSpeed: 5}
}

func newTestSession(t *testing.T) (*Session, *landscape.Landscape) {
	t.Helper()
	opts := landscapeOptions()
	opts.Layers = flatLayers()
	ls, err := landscape.New(opts, heightfield.Zero, nil)
	if err != nil {
		t.Fatalf("landscape.New: %v", err)
	}
	return NewSession(ls, nil), ls
}

func frame(t *testing.T, s *Session) Frame {
	t.Helper()
	out := s.Handle([]byte(`{"type":"frame"}`))
	if out == nil || out.Type != TypeFrame {
		t.Fatalf("expected a frame, got %+v", out)
	}
	return out.Data.(Frame)
}

func send(t *testing.T, s *Session, msg string) {
	t.Helper()
	if out := s.Handle([]byte(msg)); out != nil {
		t.Fatalf("%s: unexpected reply %+v", msg, out)
	}
}

func expectError(t *testing.T, s *Session, msg string) string {
	t.Helper()
	out := s.Handle([]byte(msg))
	if out == nil || out.Type != TypeError {
		t.Fatalf("%s: expected an error reply, got %+v", msg, out)
	}
	return out.Data.(ErrorData).Message
}

func TestDecodeInbound(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"pointer", `{"type":"pointerDown","data":{"x":1,"y":2}}`, nil},
		{"no data", `{"type":"frame"}`, nil},
		{"data first", `{"data":{"delta":3},"type":"translate"}`, nil},
		{"missing type", `{"data":{}}`, ErrMissingType},
		{"unknown type", `{"type":"fire"}`, ErrUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeInbound([]byte(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := DecodeInbound([]byte(`{"type":`)); err == nil {
		t.Error("expected an error for truncated JSON")
	}
}

func TestPointerPayload(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"type":"pointerMove","data":{"x":10.5,"y":20,"dx":-3}}`))
	if err != nil {
		t.Fatalf("DecodeInbound: %v", err)
	}
	var p Pointer
	if err := in.decodeData(&p); err != nil {
		t.Fatalf("decodeData: %v", err)
	}
	if p.Vec2 != (math.Vec2{X: 10.5, Y: 20}) || p.Dx != -3 {
		t.Errorf("decoded %+v", p)
	}
}

func TestSessionSelectionAndEdits(t *testing.T) {
	s, ls := newTestSession(t)

	f := frame(t, s)
	if f.Layers != 1 || f.Active != -1 || len(f.Commands) != 1 {
		t.Fatalf("initial frame: layers=%d active=%d commands=%d", f.Layers, f.Active, len(f.Commands))
	}
	if f.Commands[0].Op != canvas.OpFill {
		t.Errorf("expected a fill, got %v", f.Commands[0].Op)
	}

	send(t, s, `{"type":"click","data":{"x":600,"y":100}}`)
	f = frame(t, s)
	// fill, outline and the three base points in view
	if f.Active != 0 || len(f.Commands) != 5 {
		t.Fatalf("after click: active=%d commands=%d", f.Active, len(f.Commands))
	}

	send(t, s, `{"type":"doubleClick","data":{"x":300,"y":200}}`)
	if f = frame(t, s); f.Result != "added" {
		t.Errorf("result = %q, want added", f.Result)
	}
	if f = frame(t, s); f.Result != "" {
		t.Errorf("result should be reported once, got %q", f.Result)
	}

	send(t, s, `{"type":"pointerMove","data":{"x":900,"y":100}}`)
	if f = frame(t, s); f.Hover != "layer" {
		t.Errorf("hover = %q, want layer", f.Hover)
	}
	send(t, s, `{"type":"pointerLeave"}`)
	if f = frame(t, s); f.Hover != "none" {
		t.Errorf("hover after leave = %q, want none", f.Hover)
	}

	send(t, s, `{"type":"editLayer","data":{"roughness":0.9}}`)
	active := ls.ActiveLayer()
	if active.Roughness() != 0.9 || active.Options().Name != "plain" {
		t.Errorf("partial edit not applied: %+v", active.Options())
	}

	msg := expectError(t, s, `{"type":"editLayer","data":{"gap":0}}`)
	if !strings.Contains(msg, landscape.ErrInvalidOptions.Error()) {
		t.Errorf("unexpected error message %q", msg)
	}

	send(t, s, `{"type":"deleteLayer"}`)
	if f = frame(t, s); f.Layers != 0 || f.Active != -1 {
		t.Errorf("after delete: layers=%d active=%d", f.Layers, f.Active)
	}
	expectError(t, s, `{"type":"deleteLayer"}`)
	expectError(t, s, `{"type":"editLayer","data":{"roughness":1}}`)
}

func TestSessionCreateLayer(t *testing.T) {
	s, ls := newTestSession(t)

	send(t, s, `{"type":"createLayer"}`)
	send(t, s, `{"type":"createLayer","data":{"name":"red","color":"#ff0000"}}`)

	layers := ls.Layers()
	if len(layers) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(layers))
	}
	top := layers[2].Options()
	if top.Name != "red" || top.Color != color.RGB(255, 0, 0) {
		t.Errorf("top layer = %q %v", top.Name, top.Color)
	}

	expectError(t, s, `{"type":"createLayer","data":{"points":[{"x":0,"y":0}]}}`)
	expectError(t, s, `{"type":"createLayer","data":{"color":"plaid"}}`)
	if len(ls.Layers()) != 3 {
		t.Error("failed creates must not add layers")
	}
}

func TestSessionScrolling(t *testing.T) {
	s, _ := newTestSession(t)

	send(t, s, `{"type":"go","data":{"direction":1}}`)
	frame(t, s)
	if f := frame(t, s); f.Offset != 10 {
		t.Errorf("offset = %v, want 10", f.Offset)
	}

	send(t, s, `{"type":"stop"}`)
	send(t, s, `{"type":"translate","data":{"delta":-2000}}`)
	f := frame(t, s)
	if f.Offset != -1990 {
		t.Errorf("offset = %v, want -1990", f.Offset)
	}
	if f.Start > -1990-landscape.DefaultLookahead {
		t.Errorf("bounds start %d not extended", f.Start)
	}

	send(t, s, `{"type":"pointerDown","data":{"x":100,"y":550}}`)
	send(t, s, `{"type":"pointerMove","data":{"x":90,"y":550,"dx":-10}}`)
	if f = frame(t, s); f.Offset != -1980 || f.Drag != "canvas" {
		t.Errorf("drag: offset=%v mode=%s", f.Offset, f.Drag)
	}
	send(t, s, `{"type":"pointerUp"}`)
	if f = frame(t, s); f.Drag != "none" {
		t.Errorf("drag after pointerUp = %s", f.Drag)
	}
}

func TestSessionBoundsScrollPerMessage(t *testing.T) {
	s, ls := newTestSession(t)
	limit := float32(ls.Width() + ls.Lookahead())

	send(t, s, `{"type":"translate","data":{"delta":3e7}}`)
	f := frame(t, s)
	if f.Offset != float64(limit) {
		t.Errorf("offset = %v, want %v", f.Offset, limit)
	}
	if f.End > int(limit)+ls.Width()+ls.Lookahead()+600 {
		t.Errorf("one translate generated up to %d", f.End)
	}

	send(t, s, `{"type":"pointerDown","data":{"x":100,"y":550}}`)
	send(t, s, `{"type":"pointerMove","data":{"x":100,"y":550,"dx":3e7}}`)
	if f = frame(t, s); f.Offset != 0 {
		t.Errorf("offset after a huge drag = %v, want 0", f.Offset)
	}
}

func TestSessionRejectsFarLayers(t *testing.T) {
	s, ls := newTestSession(t)

	tests := []struct {
		name string
		msg  string
	}{
		{"points far right", `{"type":"createLayer","data":{"points":[{"x":0,"y":100},{"x":1000000000,"y":100}]}}`},
		{"points far left", `{"type":"createLayer","data":{"points":[{"x":-1000000000,"y":100},{"x":0,"y":100}]}}`},
		{"huge gap", `{"type":"createLayer","data":{"gap":1000000000}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := expectError(t, s, tt.msg)
			if !strings.Contains(msg, ErrOutOfRange.Error()) {
				t.Errorf("error %q does not report the range", msg)
			}
		})
	}
	if len(ls.Layers()) != 1 {
		t.Errorf("rejected creates added layers: %d", len(ls.Layers()))
	}

	send(t, s, `{"type":"click","data":{"x":600,"y":100}}`)
	expectError(t, s, `{"type":"editLayer","data":{"gap":1000000000}}`)
	if got := ls.ActiveLayer().Options().Gap; got != 300 {
		t.Errorf("gap = %d after a rejected edit", got)
	}

	send(t, s, `{"type":"createLayer","data":{"points":[{"x":0,"y":100},{"x":1200,"y":100}]}}`)
	if len(ls.Layers()) != 2 {
		t.Error("a layer inside the bounds should be accepted")
	}
}

func TestSessionRejectsBadMessages(t *testing.T) {
	s, _ := newTestSession(t)

	expectError(t, s, `not json`)
	expectError(t, s, `{"type":"teleport"}`)
	expectError(t, s, `{"type":"go","data":{"direction":"left"}}`)
	// still usable
	frame(t, s)
}

type rawOutbound struct {
	Type string              `json:"type"`
	Data jsoniter.RawMessage `json:"data"`
}

func readOutbound(t *testing.T, conn *websocket.Conn) rawOutbound {
	t.Helper()
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var out rawOutbound
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decoding reply: %v", err)
	}
	return out
}

func TestServer(t *testing.T) {
	srv := NewServer(Options{
		Landscape: landscapeOptions(),
		Layers:    flatLayers,
		Source:    func() heightfield.Source { return heightfield.Zero },
		PongWait:  time.Second,
	}, nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	for _, msg := range []string{
		`{"type":"click","data":{"x":600,"y":100}}`,
		`{"type":"teleport"}`,
		`{"type":"frame"}`,
	} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	errReply := readOutbound(t, conn)
	if errReply.Type != TypeError {
		t.Fatalf("expected error reply first, got %s", errReply.Type)
	}

	frameReply := readOutbound(t, conn)
	if frameReply.Type != TypeFrame {
		t.Fatalf("expected frame, got %s", frameReply.Type)
	}
	var f Frame
	if err := json.Unmarshal(frameReply.Data, &f); err != nil {
		t.Fatalf("decoding frame: %v", err)
	}
	if f.Layers != 1 || f.Active != 0 || len(f.Commands) != 5 {
		t.Errorf("frame: layers=%d active=%d commands=%d", f.Layers, f.Active, len(f.Commands))
	}
	if f.Commands[0].Color != flatLayers()[0].Color {
		t.Errorf("fill color %v did not survive the wire", f.Commands[0].Color)
	}
}
