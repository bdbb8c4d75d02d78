package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, [3]float32{0, -9.81, 0}, cfg.Physics.Gravity)
	assert.InDelta(t, 1.0/60.0, cfg.Physics.TimeStep, 1e-6)
}

func TestLoadTOML(t *testing.T) {
	path := write(t, "lava.toml", `
[window]
title = "demo"
width = 800

[physics]
gravity = [0.0, -3.0, 0.0]

[logging]
level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset keys keep defaults")
	assert.Equal(t, [3]float32{0, -3, 0}, cfg.Physics.Gravity)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadYAML(t *testing.T) {
	path := write(t, "lava.yaml", `
window:
  fullscreen: true
paths:
  scripts: game/scripts
logging:
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Window.Fullscreen)
	assert.Equal(t, "game/scripts", cfg.Paths.Scripts)
	assert.Equal(t, "assets/models", cfg.Paths.Models)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := write(t, "bad.toml", `
[physics]
time_step = 0.0
`)
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)

	path = write(t, "bad.yml", "window:\n  height: -1\n")
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(write(t, "lava.json", "{}"))
	assert.Error(t, err)

	_, err = Load(write(t, "broken.toml", "[window\n"))
	assert.Error(t, err)
}
