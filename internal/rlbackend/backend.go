// Package rlbackend implements the native engine boundary with raylib for
// windowing, drawing, asset loading, audio and input, and with softphysics
// for simulation. It is the desktop collaborator for the demo.
package rlbackend

import (
	"errors"

	"lava/internal/config"
	"lava/internal/native"
	"lava/internal/softphysics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

var ErrNoWindow = errors.New("rlbackend: window could not be created")

// Backend is a native.Engine. Scene, asset and audio calls are served by
// the embedded stores, physics by the embedded softphysics engine.
type Backend struct {
	*Scene
	*Assets
	*Mixer
	*softphysics.Engine

	cfg     config.WindowConfig
	log     *zap.Logger
	overlay *Overlay

	open   bool
	quit   bool
	update func()
	resize func(width, height int)

	now   float32
	delta float32
	scale float32
	steps int
}

func New(cfg config.WindowConfig, phys *softphysics.Engine, log *zap.Logger) *Backend {
	if log == nil {
		log = zap.NewNop()
	}
	if phys == nil {
		phys = softphysics.New(log, 0, 0)
	}
	b := &Backend{
		cfg:    cfg,
		log:    log.Named("rlbackend"),
		Engine: phys,
		scale:  1,
	}
	ready := func() bool { return b.open }
	b.Scene = NewScene(phys, log)
	b.Assets = NewAssets(ready, log)
	b.Mixer = NewMixer(ready, log)
	b.overlay = NewOverlay()
	return b
}

// Open creates the window and the audio device. Assets can only be loaded
// once it has run. Run opens the window itself if needed.
func (b *Backend) Open() error {
	if b.open {
		return nil
	}
	flags := uint32(rl.FlagWindowHighdpi)
	if b.cfg.Resizable {
		flags |= rl.FlagWindowResizable
	}
	if b.cfg.VSync {
		flags |= rl.FlagVsyncHint
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(b.cfg.Width), int32(b.cfg.Height), b.cfg.Title)
	if !rl.IsWindowReady() {
		return ErrNoWindow
	}
	rl.InitAudioDevice()
	if b.cfg.TargetFPS > 0 {
		rl.SetTargetFPS(int32(b.cfg.TargetFPS))
	}
	rl.DisableCursor()
	if b.cfg.Fullscreen {
		rl.ToggleFullscreen()
	}
	b.open = true
	b.log.Info("window opened",
		zap.String("title", b.cfg.Title),
		zap.Int("width", b.cfg.Width),
		zap.Int("height", b.cfg.Height))
	return nil
}

func (b *Backend) RegisterUpdateCallback(fn func()) { b.update = fn }

func (b *Backend) RegisterFramebufferResizeCallback(fn func(width, height int)) { b.resize = fn }

func (b *Backend) SetFullscreen(on bool) {
	if !b.open {
		b.cfg.Fullscreen = on
		return
	}
	if rl.IsWindowFullscreen() != on {
		rl.ToggleFullscreen()
	}
}

// Run blocks until Quit is called or the window is closed.
func (b *Backend) Run() error {
	if err := b.Open(); err != nil {
		return err
	}
	defer b.close()

	if b.resize != nil {
		b.resize(rl.GetRenderWidth(), rl.GetRenderHeight())
	}
	for !b.quit && !rl.WindowShouldClose() {
		b.frame()
	}
	return nil
}

func (b *Backend) Quit() { b.quit = true }

func (b *Backend) close() {
	b.Mixer.Unload()
	b.Assets.Unload()
	rl.CloseAudioDevice()
	rl.CloseWindow()
	b.open = false
	b.log.Info("window closed")
}

// frame runs physics, then the managed update, then draws.
func (b *Backend) frame() {
	b.delta = rl.GetFrameTime() * b.scale
	b.now += b.delta

	if rl.IsWindowResized() && b.resize != nil {
		b.resize(rl.GetRenderWidth(), rl.GetRenderHeight())
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		b.overlay.Toggle()
	}

	b.steps = 0
	if !b.overlay.Paused {
		b.steps = b.Engine.Advance(b.delta)
	}
	if b.update != nil {
		b.update()
	}
	b.Mixer.Update()

	rl.BeginDrawing()
	b.draw()
	b.overlay.Draw(b)
	rl.EndDrawing()
}

// Clock

func (b *Backend) Time() float32           { return b.now }
func (b *Backend) DeltaTime() float32      { return b.delta }
func (b *Backend) FixedDeltaTime() float32 { return b.Engine.FixedStep() }
func (b *Backend) TimeScale() float32      { return b.scale }

func (b *Backend) SetTimeScale(scale float32) { b.scale = max(0, scale) }

// Input. While the overlay has the cursor, the scene sees no mouse motion.

func (b *Backend) KeyDown(key int32) bool    { return rl.IsKeyDown(key) }
func (b *Backend) KeyPressed(key int32) bool { return rl.IsKeyPressed(key) }

func (b *Backend) MouseDelta() rl.Vector2 {
	if b.overlay.Visible {
		return rl.Vector2{}
	}
	return rl.GetMouseDelta()
}

var _ native.Engine = (*Backend)(nil)
