//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package app

import (
	"lava/internal/config"
	"lava/internal/native"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// InitializeApplication builds the desktop application from a config file.
func InitializeApplication(path ConfigPath) (*Application, func(), error) {
	wire.Build(DesktopSet)
	return nil, nil, nil
}

// InitializeWithEngine builds an application over an existing native engine.
func InitializeWithEngine(cfg *config.Config, log *zap.Logger, eng native.Engine) (*Application, func()) {
	wire.Build(CoreSet)
	return nil, nil
}
