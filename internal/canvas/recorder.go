// Package canvas provides a landscape.Canvas that records draw commands as
// plain data instead of painting them.
package canvas

import (
	"github.com/Faultbox/skyline/pkg/color"
	"github.com/Faultbox/skyline/pkg/math"
)

// Op is a recorded drawing operation.
type Op string

const (
	OpFill   Op = "fill"
	OpStroke Op = "stroke"
	OpCircle Op = "circle"
)

// Command is one finished drawing operation. Fill and stroke commands carry
// the path built since the last BeginPath; each MoveTo starts a subpath.
type Command struct {
	Op     Op            `json:"op"`
	Paths  [][]math.Vec2 `json:"paths,omitempty"`
	Center math.Vec2     `json:"center,omitempty"`
	Radius float32       `json:"radius,omitempty"`
	Width  float32       `json:"width,omitempty"`
	Color  color.Color   `json:"color"`
}

// Recorder collects commands in order. The zero value is ready to use.
type Recorder struct {
	commands []Command
	paths    [][]math.Vec2
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// BeginPath discards the path under construction.
func (r *Recorder) BeginPath() {
	r.paths = nil
}

// MoveTo starts a new subpath.
func (r *Recorder) MoveTo(x, y float32) {
	r.paths = append(r.paths, []math.Vec2{{X: x, Y: y}})
}

// LineTo extends the current subpath, starting one if needed.
func (r *Recorder) LineTo(x, y float32) {
	if len(r.paths) == 0 {
		r.MoveTo(x, y)
		return
	}
	last := len(r.paths) - 1
	r.paths[last] = append(r.paths[last], math.Vec2{X: x, Y: y})
}

// FillPath records a fill of the current path.
func (r *Recorder) FillPath(c color.Color) {
	r.commands = append(r.commands, Command{Op: OpFill, Paths: r.snapshot(), Color: c})
}

// StrokePath records an outline of the current path.
func (r *Recorder) StrokePath(c color.Color, width float32) {
	r.commands = append(r.commands, Command{Op: OpStroke, Paths: r.snapshot(), Width: width, Color: c})
}

// FillCircle records a filled circle.
func (r *Recorder) FillCircle(center math.Vec2, radius float32, c color.Color) {
	r.commands = append(r.commands, Command{Op: OpCircle, Center: center, Radius: radius, Color: c})
}

// Commands returns the recorded commands.
func (r *Recorder) Commands() []Command {
	return r.commands
}

// Reset clears everything for the next frame, keeping capacity.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
	r.paths = nil
}

// snapshot copies the current path so later edits don't alias recorded
// commands.
func (r *Recorder) snapshot() [][]math.Vec2 {
	out := make([][]math.Vec2, len(r.paths))
	for i, p := range r.paths {
		out[i] = append([]math.Vec2(nil), p...)
	}
	return out
}
