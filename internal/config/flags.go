package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWidth      = flag.Int("width", 0, "Viewport width")
	flagHeight     = flag.Int("height", 0, "Viewport height")
	flagLookahead  = flag.Int("lookahead", 0, "World units generated past each viewport edge")
	flagSeed       = flag.Int64("seed", 0, "Displacement seed (0 uses the clock)")
	flagSource     = flag.String("source", "", "Displacement source: uniform or perlin")
	flagAddr       = flag.String("addr", "", "Websocket listen address")
	flagPresets    = flag.String("presets", "", "Layer preset file (JSON)")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagSave       = flag.Bool("save-config", false, "Write the effective config to the user config directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSave
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
		cfg.Server.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
		cfg.Server.Height = *flagHeight
	}
	if *flagLookahead > 0 {
		cfg.Viewport.Lookahead = *flagLookahead
	}
	if *flagSeed != 0 {
		cfg.Generator.Seed = *flagSeed
	}
	if *flagSource != "" {
		cfg.Generator.Source = *flagSource
	}
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}
	if *flagPresets != "" {
		cfg.Presets.File = *flagPresets
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
}
