// Package app runs the desktop skyline viewer: SDL events drive the
// landscape, which is painted through the GL canvas every frame.
package app

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/skyline/internal/config"
	"github.com/Faultbox/skyline/internal/engine/gfx"
	"github.com/Faultbox/skyline/internal/engine/input"
	"github.com/Faultbox/skyline/internal/engine/window"
	"github.com/Faultbox/skyline/internal/heightfield"
	"github.com/Faultbox/skyline/internal/landscape"
	"github.com/Faultbox/skyline/internal/preset"
	"github.com/Faultbox/skyline/pkg/color"
)

const title = "Skyline"

var background = color.RGB(250, 240, 225)

// App is the viewer instance.
type App struct {
	cfg *config.Config
	log *zap.Logger

	running bool
	window  *window.Window
	input   *input.Input
	canvas  *gfx.Canvas

	src    heightfield.Source
	ls     *landscape.Landscape
	screen screen

	dialogs    chan dialogResult
	dialogOpen bool
}

// New opens the window and builds the landscape from layers.
func New(cfg *config.Config, layers []landscape.Options, src heightfield.Source, log *zap.Logger) (*App, error) {
	a := &App{
		cfg:     cfg,
		log:     log,
		src:     src,
		dialogs: make(chan dialogResult, 1),
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := gl.Init(); err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	if err := a.load(layers); err != nil {
		a.window.Close()
		return nil, err
	}

	a.canvas, err = gfx.New(float32(a.ls.Width()), a.ls.Height(), background)
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create canvas: %w", err)
	}

	a.input = input.New()
	a.resize(a.window.GetSize())

	log.Info("viewer initialized", zap.Int("layers", len(layers)))
	return a, nil
}

// load replaces the landscape with a fresh one holding layers.
func (a *App) load(layers []landscape.Options) error {
	ls, err := landscape.New(landscape.LandscapeOptions{
		Width:     a.cfg.Window.Width,
		Height:    float32(a.cfg.Window.Height),
		Lookahead: a.cfg.Viewport.Lookahead,
		MoveSpeed: a.cfg.Viewport.MoveSpeed,
		Layers:    layers,
	}, a.src, a.log.Named("landscape"))
	if err != nil {
		return fmt.Errorf("failed to build landscape: %w", err)
	}
	a.ls = ls
	return nil
}

func (a *App) resize(width, height int) {
	a.screen = screen{
		winW:  width,
		winH:  height,
		viewW: float32(a.ls.Width()),
		viewH: a.ls.Height(),
	}
}

// Run starts the main loop and returns when the window closes.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if a.input.Update() {
			a.running = false
			break
		}

		for _, event := range a.input.Events() {
			a.handleEvent(event)
		}
		a.pollDialogs()

		a.ls.Update()
		a.render()
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)),
				zap.Float64("offset", a.ls.Offset()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) render() {
	fbW, fbH := a.window.DrawableSize()
	a.canvas.SetViewport(float32(a.ls.Width()), a.ls.Height())
	a.canvas.Begin()
	a.ls.Draw(a.canvas)
	a.canvas.End(fbW, fbH)
}

// Close releases the canvas and the window.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.canvas != nil {
		a.canvas.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// Snapshot captures the current layers as a preset.
func (a *App) Snapshot() *preset.File {
	return preset.FromLandscape("skyline", a.ls)
}
