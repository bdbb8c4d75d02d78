// Package scene builds a World from a YAML scene file. Every component is
// created through the engine's component registry, so any registered type
// may appear in a scene.
package scene

import (
	"errors"
	"fmt"
	"os"

	"lava/internal/engine"
	"lava/internal/native"
	"lava/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrEmptyScene = errors.New("scene has no entities")

type File struct {
	World    WorldDef    `yaml:"world"`
	Entities []EntityDef `yaml:"entities"`
}

type WorldDef struct {
	Physics bool      `yaml:"physics"`
	Gravity []float32 `yaml:"gravity"`
	Sky     *SkyDef   `yaml:"sky"`
}

type SkyDef struct {
	Color    []float32 `yaml:"color"`
	HDR      string    `yaml:"hdr"`
	Exposure float32   `yaml:"exposure"`
	Gamma    float32   `yaml:"gamma"`
	Ambient  float32   `yaml:"ambient"`
}

type EntityDef struct {
	Name       string         `yaml:"name"`
	Components []ComponentDef `yaml:"components"`
}

type ComponentDef struct {
	Type  string         `yaml:"type"`
	Props map[string]any `yaml:"props"`
}

// Parse decodes a scene. JSON scenes parse too.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if len(f.Entities) == 0 {
		return nil, ErrEmptyScene
	}
	for i, e := range f.Entities {
		for j, c := range e.Components {
			if c.Type == "" {
				return nil, fmt.Errorf("entity %d (%s) component %d: missing type", i, e.Name, j)
			}
		}
	}
	return &f, nil
}

// Load reads and builds the scene at path. See Build.
func Load(ctx *engine.Context, path string) (*engine.World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Build(ctx, f)
}

// Build creates a new current world and populates it. Components are added
// to their entity in file order before the entity joins the world. On error
// the partly built world is destroyed.
func Build(ctx *engine.Context, f *File) (*engine.World, error) {
	w, err := ctx.Worlds().CreateWorld(true, f.World.Physics)
	if err != nil {
		return nil, err
	}
	if len(f.World.Gravity) == 3 {
		if pw := physics.Of(w); pw != nil {
			pw.SetGravity(rl.Vector3{X: f.World.Gravity[0], Y: f.World.Gravity[1], Z: f.World.Gravity[2]})
		}
	}
	if f.World.Sky != nil {
		w.Sky = sky(ctx, f.World.Sky)
	}
	for _, def := range f.Entities {
		if err := buildEntity(ctx, w, def); err != nil {
			w.Destroy()
			return nil, err
		}
	}
	ctx.Logger().Info("scene built",
		zap.Int("entities", w.Len()),
		zap.Bool("physics", f.World.Physics))
	return w, nil
}

func buildEntity(ctx *engine.Context, w *engine.World, def EntityDef) error {
	e := ctx.NewEntity(def.Name)
	for _, cd := range def.Components {
		c, err := engine.CreateComponent(ctx, cd.Type, cd.Props)
		if err == nil {
			err = e.AddComponent(c)
			if err != nil {
				c.Destroy()
			}
		}
		if err != nil {
			cs := e.Components()
			for i := len(cs) - 1; i >= 0; i-- {
				cs[i].Destroy()
			}
			return fmt.Errorf("entity %q: %w", def.Name, err)
		}
	}
	return w.AddEntity(e)
}

func sky(ctx *engine.Context, d *SkyDef) native.SkySettings {
	s := engine.DefaultSky()
	if len(d.Color) == 3 {
		s.Color = rl.Vector3{X: d.Color[0], Y: d.Color[1], Z: d.Color[2]}
	}
	if d.Exposure > 0 {
		s.Exposure = d.Exposure
	}
	if d.Gamma > 0 {
		s.Gamma = d.Gamma
	}
	if d.Ambient > 0 {
		s.Ambient = d.Ambient
	}
	if d.HDR != "" {
		s.HDRTex = ctx.Native().LoadTextureHDR(d.HDR, true)
		s.UseTex = s.HDRTex != 0
	}
	return s
}
