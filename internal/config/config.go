// Package config handles viewer and server configuration loading.
package config

import (
	"fmt"
	"time"
)

// Config holds all settings.
type Config struct {
	Viewport  ViewportConfig  `yaml:"viewport"`
	Window    WindowConfig    `yaml:"window"`
	Generator GeneratorConfig `yaml:"generator"`
	Server    ServerConfig    `yaml:"server"`
	Presets   PresetsConfig   `yaml:"presets"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ViewportConfig holds landscape viewport settings.
type ViewportConfig struct {
	Lookahead int     `yaml:"lookahead"`  // world units generated past each edge
	MoveSpeed float32 `yaml:"move_speed"` // keyboard scroll per frame
}

// WindowConfig holds desktop window settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// GeneratorConfig selects the displacement source.
type GeneratorConfig struct {
	Source     string  `yaml:"source"` // "uniform" or "perlin"
	Seed       int64   `yaml:"seed"`   // 0 seeds from the clock
	PerlinStep float64 `yaml:"perlin_step"`
}

// ServerConfig holds websocket server settings.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	Path           string        `yaml:"path"`
	Width          int           `yaml:"width"` // viewport width of remote sessions
	Height         int           `yaml:"height"`
	MaxMessageSize int64         `yaml:"max_message_size"`
	WriteWait      time.Duration `yaml:"write_wait"`
	PongWait       time.Duration `yaml:"pong_wait"`
}

// PresetsConfig locates layer presets.
type PresetsConfig struct {
	File string `yaml:"file"` // JSON preset loaded at startup; empty uses the built-in layers
	Dir  string `yaml:"dir"`  // starting directory of the open dialog
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"` // JSON lines in the log file
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewport: ViewportConfig{
			Lookahead: 1000,
			MoveSpeed: 8,
		},
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Generator: GeneratorConfig{
			Source:     "uniform",
			Seed:       0,
			PerlinStep: 0.37,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			Path:           "/ws",
			Width:          1280,
			Height:         720,
			MaxMessageSize: 4096,
			WriteWait:      10 * time.Second,
			PongWait:       60 * time.Second,
		},
		Presets: PresetsConfig{
			File: "",
			Dir:  ".",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the viewer or server cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Server.Width <= 0 || c.Server.Height <= 0:
		return fmt.Errorf("server viewport %dx%d must be positive", c.Server.Width, c.Server.Height)
	case c.Viewport.Lookahead < 0:
		return fmt.Errorf("negative lookahead %d", c.Viewport.Lookahead)
	}
	switch c.Generator.Source {
	case "uniform", "perlin":
	default:
		return fmt.Errorf("unknown displacement source %q", c.Generator.Source)
	}
	return nil
}
