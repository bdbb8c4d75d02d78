// Package app is the composition root: it builds the engine context on top
// of a native engine, wires the host callbacks to the event manager and
// runs the loop.
package app

import (
	"fmt"

	"lava/internal/assets"
	"lava/internal/config"
	"lava/internal/engine"
	"lava/internal/native"
	"lava/internal/physics"
	"lava/internal/scene"

	// Component factories used by scene files.
	_ "lava/internal/components"
	_ "lava/internal/scripting"

	"go.uber.org/zap"
)

// Application owns one engine context for the life of the process.
type Application struct {
	Config  *config.Config
	Log     *zap.Logger
	Native  native.Engine
	Context *engine.Context
	Physics *physics.System

	initialized bool
}

func NewApplication(cfg *config.Config, log *zap.Logger, eng native.Engine, ctx *engine.Context, sys *physics.System) *Application {
	return &Application{
		Config:  cfg,
		Log:     log.Named("app"),
		Native:  eng,
		Context: ctx,
		Physics: sys,
	}
}

// Init registers the per-frame and resize callbacks and subscribes the world
// manager to updates. Calling it again does nothing.
func (a *Application) Init() {
	if a.initialized {
		return
	}
	events := a.Context.Events()
	a.Native.RegisterUpdateCallback(events.FireUpdate)
	a.Native.RegisterFramebufferResizeCallback(events.FireFramebufferResize)
	a.Context.Worlds().Init()
	if a.Config.Window.Fullscreen {
		a.Native.SetFullscreen(true)
	}
	a.initialized = true
	a.Log.Info("application initialized",
		zap.String("title", a.Config.Window.Title),
		zap.Int("width", a.Config.Window.Width),
		zap.Int("height", a.Config.Window.Height))
}

// LoadScene builds the scene file at path, relative to the scenes root, as
// the new current world.
func (a *Application) LoadScene(path string) (*engine.World, error) {
	full := assets.Resolve(a.Config.Paths.Scenes, path)
	w, err := scene.Load(a.Context, full)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	a.Log.Info("scene loaded", zap.String("path", full), zap.Int("entities", w.Len()))
	return w, nil
}

// Run initializes if needed and blocks in the native loop.
func (a *Application) Run() error {
	a.Init()
	a.Log.Info("entering main loop")
	if err := a.Native.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	a.Log.Info("main loop finished")
	return nil
}

func (a *Application) Quit() { a.Native.Quit() }

// Close tears the context down: worlds first, then leaked orphans.
func (a *Application) Close() {
	a.Context.Close()
	_ = a.Log.Sync()
}
