package app

import (
	"errors"
	"path/filepath"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/skyline/internal/preset"
)

type dialogKind int

const (
	kindOpen dialogKind = iota
	kindSave
)

// dialogResult is a file chosen in a native dialog.
type dialogResult struct {
	kind dialogKind
	path string
	err  error
}

// openPreset asks for a preset file without blocking the main loop.
func (a *App) openPreset() {
	if a.dialogOpen {
		return
	}
	a.dialogOpen = true
	dir := a.cfg.Presets.Dir

	go func() {
		path, err := dialog.File().
			Title("Open layer preset").
			Filter("Layer presets", "json").
			SetStartDir(dir).
			Load()
		a.dialogs <- dialogResult{kind: kindOpen, path: path, err: err}
	}()
}

// savePreset asks where to write the current layers.
func (a *App) savePreset() {
	if a.dialogOpen {
		return
	}
	a.dialogOpen = true
	dir := a.cfg.Presets.Dir
	snapshot := a.Snapshot()

	go func() {
		path, err := dialog.File().
			Title("Save layer preset").
			Filter("Layer presets", "json").
			SetStartDir(dir).
			Save()
		if err == nil {
			err = preset.Save(path, snapshot)
		}
		a.dialogs <- dialogResult{kind: kindSave, path: path, err: err}
	}()
}

// pollDialogs applies a finished dialog, if any.
func (a *App) pollDialogs() {
	select {
	case res := <-a.dialogs:
		a.dialogOpen = false
		a.applyDialog(res)
	default:
	}
}

func (a *App) applyDialog(res dialogResult) {
	if errors.Is(res.err, dialog.ErrCancelled) {
		return
	}

	switch res.kind {
	case kindOpen:
		if res.err != nil {
			a.log.Warn("open dialog failed", zap.Error(res.err))
			return
		}
		f, err := preset.Load(res.path)
		if err != nil {
			a.log.Warn("failed to load preset", zap.String("path", res.path), zap.Error(err))
			return
		}
		if err := a.load(f.Layers); err != nil {
			a.log.Warn("failed to apply preset", zap.String("path", res.path), zap.Error(err))
			return
		}
		a.resize(a.window.GetSize())
		a.window.SetTitle(title + " - " + filepath.Base(res.path))
		a.log.Info("preset loaded", zap.String("path", res.path), zap.Int("layers", len(f.Layers)))

	case kindSave:
		if res.err != nil {
			a.log.Warn("failed to save preset", zap.String("path", res.path), zap.Error(res.err))
			return
		}
		a.log.Info("preset saved", zap.String("path", res.path))
	}
}

// confirmDelete removes the active layer after a yes/no prompt. The prompt
// is modal, so it runs on the main thread.
func (a *App) confirmDelete() {
	active := a.ls.ActiveLayer()
	if active == nil {
		return
	}
	name := active.Options().Name
	if name == "" {
		name = "the selected layer"
	}
	if !dialog.Message("Delete %s?", name).Title("Delete layer").YesNo() {
		return
	}
	if a.ls.DeleteActiveLayer() {
		a.window.SetPointerCursor(false)
		a.log.Info("layer deleted", zap.String("name", name))
	}
}
