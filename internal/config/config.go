package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window  WindowConfig  `toml:"window" yaml:"window"`
	Paths   PathsConfig   `toml:"paths" yaml:"paths"`
	Physics PhysicsConfig `toml:"physics" yaml:"physics"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

type WindowConfig struct {
	Title      string `toml:"title" yaml:"title"`
	Width      int    `toml:"width" yaml:"width"`
	Height     int    `toml:"height" yaml:"height"`
	Fullscreen bool   `toml:"fullscreen" yaml:"fullscreen"`
	Resizable  bool   `toml:"resizable" yaml:"resizable"`
	VSync      bool   `toml:"vsync" yaml:"vsync"`
	TargetFPS  int    `toml:"target_fps" yaml:"target_fps"`
}

// PathsConfig holds the asset roots relative paths are resolved against.
type PathsConfig struct {
	Shaders       string `toml:"shaders" yaml:"shaders"`
	ShaderSources string `toml:"shader_sources" yaml:"shader_sources"`
	Materials     string `toml:"materials" yaml:"materials"`
	Pipelines     string `toml:"pipelines" yaml:"pipelines"`
	Textures      string `toml:"textures" yaml:"textures"`
	Models        string `toml:"models" yaml:"models"`
	Scripts       string `toml:"scripts" yaml:"scripts"`
	Sounds        string `toml:"sounds" yaml:"sounds"`
	Scenes        string `toml:"scenes" yaml:"scenes"`
}

type PhysicsConfig struct {
	Gravity          [3]float32 `toml:"gravity" yaml:"gravity"`
	TimeStep         float32    `toml:"time_step" yaml:"time_step"` // seconds
	MaxStepsPerFrame int        `toml:"max_steps_per_frame" yaml:"max_steps_per_frame"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

// Load reads a .toml, .yaml or .yml file over the defaults and validates
// the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "lava",
			Width:     1280,
			Height:    720,
			Resizable: true,
			VSync:     true,
			TargetFPS: 120,
		},
		Paths: PathsConfig{
			Shaders:       "assets/shaders/spv",
			ShaderSources: "assets/shaders",
			Materials:     "assets/materials",
			Pipelines:     "assets/pipelines",
			Textures:      "assets/textures",
			Models:        "assets/models",
			Scripts:       "assets/scripts",
			Sounds:        "assets/sounds",
			Scenes:        "assets/scenes",
		},
		Physics: PhysicsConfig{
			Gravity:          [3]float32{0, -9.81, 0},
			TimeStep:         1.0 / 60.0,
			MaxStepsPerFrame: 8,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.TargetFPS < 0:
		return fmt.Errorf("%w: target_fps %d", ErrInvalid, c.Window.TargetFPS)
	case c.Physics.TimeStep <= 0:
		return fmt.Errorf("%w: physics time_step %v", ErrInvalid, c.Physics.TimeStep)
	case c.Physics.MaxStepsPerFrame <= 0:
		return fmt.Errorf("%w: max_steps_per_frame %d", ErrInvalid, c.Physics.MaxStepsPerFrame)
	case c.Logging.Format != "json" && c.Logging.Format != "console":
		return fmt.Errorf("%w: logging format %q", ErrInvalid, c.Logging.Format)
	}
	return nil
}
