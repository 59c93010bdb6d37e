// Package remote drives a landscape over a websocket: clients send pointer
// and keyboard input as JSON messages and pull recorded frames back.
package remote

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/Faultbox/skyline/internal/canvas"
	"github.com/Faultbox/skyline/pkg/math"
)

var json = jsoniter.Config{
	EscapeHTML:                    false,
	SortMapKeys:                   true,
	TagKey:                        "json",
	ObjectFieldMustBeSimpleString: true,
	CaseSensitive:                 true,
}.Froze()

// Inbound message types.
const (
	TypePointerDown  = "pointerDown"
	TypePointerMove  = "pointerMove"
	TypePointerUp    = "pointerUp"
	TypePointerLeave = "pointerLeave"
	TypeClick        = "click"
	TypeDoubleClick  = "doubleClick"
	TypeGo           = "go"
	TypeStop         = "stop"
	TypeTranslate    = "translate"
	TypeDeleteLayer  = "deleteLayer"
	TypeCreateLayer  = "createLayer"
	TypeEditLayer    = "editLayer"
	TypeFrame        = "frame"
)

// Outbound message types.
const (
	TypeError = "error"
)

var (
	// ErrUnknownType is returned for a message type the server doesn't
	// handle.
	ErrUnknownType = errors.New("unknown message type")
	// ErrMissingType is returned for a message without a type.
	ErrMissingType = errors.New("missing message type")
)

// Inbound is a raw client message. Data is decoded per Type.
type Inbound struct {
	Type string              `json:"type"`
	Data jsoniter.RawMessage `json:"data,omitempty"`
}

// Pointer is a pointer position in viewport coordinates, y up. Dx is the
// horizontal movement since the previous pointerMove.
type Pointer struct {
	math.Vec2
	Dx float32 `json:"dx,omitempty"`
}

// Go starts keyboard scrolling.
type Go struct {
	Direction int `json:"direction"`
}

// Translate scrolls by a fixed amount.
type Translate struct {
	Delta float32 `json:"delta"`
}

// Outbound is a server message.
type Outbound struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Frame is the landscape as drawn for the current viewport.
type Frame struct {
	Offset   float64          `json:"offset"`
	Start    int              `json:"start"`
	End      int              `json:"end"`
	Layers   int              `json:"layers"`
	Active   int              `json:"active"`
	Drag     string           `json:"drag"`
	Hover    string           `json:"hover"`
	Result   string           `json:"result,omitempty"` // last double click outcome
	Commands []canvas.Command `json:"commands"`
}

// ErrorData reports a rejected message. The connection stays open.
type ErrorData struct {
	Message string `json:"message"`
}

func errorMessage(err error) *Outbound {
	return &Outbound{Type: TypeError, Data: ErrorData{Message: err.Error()}}
}

// DecodeInbound parses a message envelope and checks its type.
func DecodeInbound(raw []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return in, fmt.Errorf("decoding message: %w", err)
	}

	switch in.Type {
	case "":
		return in, ErrMissingType
	case TypePointerDown, TypePointerMove, TypePointerUp, TypePointerLeave,
		TypeClick, TypeDoubleClick, TypeGo, TypeStop, TypeTranslate,
		TypeDeleteLayer, TypeCreateLayer, TypeEditLayer, TypeFrame:
		return in, nil
	}
	return in, fmt.Errorf("%w: %q", ErrUnknownType, in.Type)
}

// decodeData unmarshals the payload into v. A missing payload leaves v as
// is, so callers can pre-fill defaults and accept partial payloads.
func (in Inbound) decodeData(v interface{}) error {
	if len(in.Data) == 0 || string(in.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(in.Data, v); err != nil {
		return fmt.Errorf("decoding %s data: %w", in.Type, err)
	}
	return nil
}
