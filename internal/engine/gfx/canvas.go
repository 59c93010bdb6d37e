// Package gfx paints landscapes with OpenGL.
package gfx

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/skyline/internal/engine/batch"
	"github.com/Faultbox/skyline/internal/engine/shader"
	"github.com/Faultbox/skyline/pkg/color"
	"github.com/Faultbox/skyline/pkg/math"
)

const vertexShader = `
	#version 410 core

	layout (location = 0) in vec3 aPos;
	layout (location = 1) in vec4 aColor;

	uniform mat4 uProjection;

	out vec4 vColor;

	void main() {
		gl_Position = uProjection * vec4(aPos, 1.0);
		vColor = aColor;
	}
`

const fragmentShader = `
	#version 410 core

	in vec4 vColor;
	out vec4 FragColor;

	void main() {
		FragColor = vColor;
	}
`

// Canvas is a landscape.Canvas that tessellates paths into one triangle
// batch per frame. Coordinates are viewport units with y up; the projection
// maps them onto the window, so no flipping happens on the CPU.
type Canvas struct {
	program *shader.Program
	vao     uint32
	vbo     uint32

	batch *batch.Batch
	paths [][]math.Vec2

	width, height float32 // viewport size in world units
	background    color.Color
}

// New creates the GL resources. A GL context must be current.
func New(width, height float32, background color.Color) (*Canvas, error) {
	program, err := shader.Compile(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("compile canvas shader: %w", err)
	}

	c := &Canvas{
		program:    program,
		batch:      batch.New(16 * 1024),
		width:      width,
		height:     height,
		background: background,
	}

	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)
	gl.GenBuffers(1, &c.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)

	stride := int32(batch.FloatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return c, nil
}

// SetViewport changes the world-unit size mapped onto the window.
func (c *Canvas) SetViewport(width, height float32) {
	c.width, c.height = width, height
}

// Begin starts a frame.
func (c *Canvas) Begin() {
	c.batch.Reset()
	c.paths = c.paths[:0]
}

// BeginPath discards the path under construction.
func (c *Canvas) BeginPath() {
	c.paths = c.paths[:0]
}

// MoveTo starts a new subpath.
func (c *Canvas) MoveTo(x, y float32) {
	c.paths = append(c.paths, []math.Vec2{{X: x, Y: y}})
}

// LineTo extends the current subpath.
func (c *Canvas) LineTo(x, y float32) {
	if len(c.paths) == 0 {
		c.MoveTo(x, y)
		return
	}
	last := len(c.paths) - 1
	c.paths[last] = append(c.paths[last], math.Vec2{X: x, Y: y})
}

// FillPath fills between the current path and the baseline.
func (c *Canvas) FillPath(col color.Color) {
	for _, p := range c.paths {
		c.batch.FillUnder(p, col)
	}
}

// StrokePath outlines the current path.
func (c *Canvas) StrokePath(col color.Color, width float32) {
	for _, p := range c.paths {
		c.batch.Polyline(p, width, col)
	}
}

// FillCircle draws a filled circle.
func (c *Canvas) FillCircle(center math.Vec2, radius float32, col color.Color) {
	c.batch.Circle(center, radius, batch.CircleSegments(radius), col)
}

// End clears the framebuffer and draws the frame's batch.
func (c *Canvas) End(fbWidth, fbHeight int) {
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	bg := c.background
	gl.ClearColor(bg.R, bg.G, bg.B, bg.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	vertices := c.batch.Vertices()
	if len(vertices) == 0 {
		return
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	proj := math.Ortho(0, c.width, 0, c.height, -1, 1)
	c.program.Use()
	c.program.SetMat4("uProjection", &proj)

	gl.BindVertexArray(c.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(c.batch.Len()))

	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// Close releases GL resources.
func (c *Canvas) Close() {
	if c.vao != 0 {
		gl.DeleteVertexArrays(1, &c.vao)
	}
	if c.vbo != 0 {
		gl.DeleteBuffers(1, &c.vbo)
	}
	c.program.Delete()
}
