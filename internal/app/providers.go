package app

import (
	"lava/internal/assets"
	"lava/internal/config"
	"lava/internal/engine"
	"lava/internal/logging"
	"lava/internal/native"
	"lava/internal/physics"
	"lava/internal/rlbackend"
	"lava/internal/softphysics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/wire"
	"go.uber.org/zap"
)

// ConfigPath is the config file to load. Empty means defaults.
type ConfigPath string

func ProvideConfig(path ConfigPath) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(string(path))
}

func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Logging)
}

func ProvideSoftPhysics(cfg *config.Config, log *zap.Logger) *softphysics.Engine {
	return softphysics.New(log, cfg.Physics.TimeStep, cfg.Physics.MaxStepsPerFrame)
}

func ProvideBackend(cfg *config.Config, phys *softphysics.Engine, log *zap.Logger) *rlbackend.Backend {
	return rlbackend.New(cfg.Window, phys, log)
}

func ProvideLibrary(b *rlbackend.Backend, cfg *config.Config, log *zap.Logger) *assets.Library {
	return assets.NewLibrary(b, cfg.Paths, log)
}

// ProvideEngine serves asset loads through the caching library.
func ProvideEngine(b *rlbackend.Backend, lib *assets.Library) native.Engine {
	return assets.Wrap(b, lib)
}

func ProvideContext(eng native.Engine, log *zap.Logger) (*engine.Context, func()) {
	ctx := engine.NewContext(eng, log)
	return ctx, ctx.Close
}

func ProvidePhysicsSystem(ctx *engine.Context, cfg *config.Config) *physics.System {
	g := cfg.Physics.Gravity
	return physics.NewSystem(ctx, rl.Vector3{X: g[0], Y: g[1], Z: g[2]})
}

// CoreSet builds an Application on any native.Engine.
var CoreSet = wire.NewSet(
	ProvideContext,
	ProvidePhysicsSystem,
	NewApplication,
)

// DesktopSet adds the raylib window and the software physics engine.
var DesktopSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideSoftPhysics,
	ProvideBackend,
	ProvideLibrary,
	ProvideEngine,
	CoreSet,
)
