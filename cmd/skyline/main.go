// Package main is the entry point for the skyline desktop viewer.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/skyline/internal/app"
	"github.com/Faultbox/skyline/internal/config"
	"github.com/Faultbox/skyline/internal/heightfield"
	"github.com/Faultbox/skyline/internal/logger"
	"github.com/Faultbox/skyline/internal/preset"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, cfg.Logging.JSON); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Skyline ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Error("failed to save config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
	}

	scene, err := startingScene(cfg)
	if err != nil {
		logger.Error("failed to load preset", zap.String("path", cfg.Presets.File), zap.Error(err))
		os.Exit(1)
	}

	gen := cfg.Generator
	src := heightfield.NewSource(gen.Source, gen.Seed, gen.PerlinStep)

	a, err := app.New(cfg, scene.Layers, src, logger.Log)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

// startingScene reads the configured preset, or builds the default scene.
func startingScene(cfg *config.Config) (*preset.File, error) {
	if cfg.Presets.File != "" {
		return preset.Load(cfg.Presets.File)
	}
	return preset.Defaults(rand.New(rand.NewSource(time.Now().UnixNano()))), nil
}
