// Package main serves skyline landscapes over websocket.
package main

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/skyline/internal/config"
	"github.com/Faultbox/skyline/internal/heightfield"
	"github.com/Faultbox/skyline/internal/landscape"
	"github.com/Faultbox/skyline/internal/logger"
	"github.com/Faultbox/skyline/internal/preset"
	"github.com/Faultbox/skyline/internal/remote"
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

	logger.Info("=== Skyline server ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Error("failed to save config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
	}

	layers, err := layerSource(cfg)
	if err != nil {
		logger.Error("failed to load preset", zap.String("path", cfg.Presets.File), zap.Error(err))
		os.Exit(1)
	}

	gen := cfg.Generator
	srv := remote.NewServer(remote.Options{
		Landscape: landscape.LandscapeOptions{
			Width:     cfg.Server.Width,
			Height:    float32(cfg.Server.Height),
			Lookahead: cfg.Viewport.Lookahead,
			MoveSpeed: cfg.Viewport.MoveSpeed,
		},
		Layers: layers,
		Source: func() heightfield.Source {
			return heightfield.NewSource(gen.Source, gen.Seed, gen.PerlinStep)
		},
		MaxMessageSize: cfg.Server.MaxMessageSize,
		WriteWait:      cfg.Server.WriteWait,
		PongWait:       cfg.Server.PongWait,
	}, logger.Named("remote"))

	mux := http.NewServeMux()
	mux.Handle(cfg.Server.Path, srv)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		httpServer.Close()
	}()

	logger.Info("listening", zap.String("addr", cfg.Server.Addr), zap.String("path", cfg.Server.Path))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

// layerSource returns the starting layers of each session: the configured
// preset, or a fresh default scene per session.
func layerSource(cfg *config.Config) (func() []landscape.Options, error) {
	if cfg.Presets.File == "" {
		return func() []landscape.Options {
			return preset.Defaults(rand.New(rand.NewSource(rand.Int63()))).Layers
		}, nil
	}

	f, err := preset.Load(cfg.Presets.File)
	if err != nil {
		return nil, err
	}
	return func() []landscape.Options {
		return f.Layers
	}, nil
}
