package components

import (
	"math"

	"lava/internal/engine"
	"lava/internal/native"
	"lava/internal/prop"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("DirectionalLight", func(ctx *engine.Context, props map[string]any) (engine.Component, error) {
		l := engine.New[DirectionalLight](ctx)
		l.Direction = rl.Vector3Normalize(prop.Vec3(props, "direction", l.Direction))
		l.Color = prop.Color(props, "color", l.Color)
		l.Intensity = prop.Float(props, "intensity", l.Intensity)
		l.ShadowCaster = prop.Bool(props, "shadows", l.ShadowCaster)
		return l, nil
	})
	engine.RegisterComponent("PointLight", func(ctx *engine.Context, props map[string]any) (engine.Component, error) {
		l := engine.New[PointLight](ctx)
		l.Color = prop.Color(props, "color", l.Color)
		l.Intensity = prop.Float(props, "intensity", l.Intensity)
		l.Offset = prop.Vec3(props, "offset", l.Offset)
		return l, nil
	})
}

var nan = float32(math.NaN())

var unset = rl.Vector3{X: nan, Y: nan, Z: nan}

// Lights are pushed to the renderer as snapshots when their entity joins a
// world. Edits made afterwards need Refresh.

type DirectionalLight struct {
	engine.BaseComponent
	Direction    rl.Vector3
	Color        rl.Color
	Intensity    float32
	ShadowCaster bool
}

func (l *DirectionalLight) OnInit() {
	l.Direction = rl.Vector3Normalize(rl.Vector3{X: 0.35, Y: -1.0, Z: -0.35})
	l.Color = rl.White
	l.Intensity = 1.0
	l.ShadowCaster = true
}

func (l *DirectionalLight) Capability() engine.Capability { return engine.CapLight }

func (l *DirectionalLight) LightInfo() native.LightInfo {
	return native.LightInfo{
		Type:         native.LightDirectional,
		Intensity:    l.Intensity,
		ShadowCaster: l.ShadowCaster,
		Color:        colorVec(l.Color, 1),
		Position:     unset,
		Direction:    l.Direction,
	}
}

func (l *DirectionalLight) Refresh() error { return refresh(l.Owner()) }

// PointLight sits at its entity's position plus Offset.
type PointLight struct {
	engine.BaseComponent
	Color     rl.Color
	Intensity float32
	Offset    rl.Vector3
}

func (l *PointLight) OnInit() {
	l.Color = rl.White
	l.Intensity = 1.0
}

func (l *PointLight) Capability() engine.Capability { return engine.CapLight }

func (l *PointLight) Position() rl.Vector3 {
	if e := l.Owner(); e != nil {
		if t, ok := e.Transform(); ok {
			return rl.Vector3Add(t.Position(), l.Offset)
		}
	}
	return l.Offset
}

func (l *PointLight) LightInfo() native.LightInfo {
	return native.LightInfo{
		Type:      native.LightPoint,
		Intensity: l.Intensity,
		Color:     colorVec(l.Color, 1),
		Position:  l.Position(),
		Direction: unset,
	}
}

func (l *PointLight) Refresh() error { return refresh(l.Owner()) }

// refresh repushes the descriptors of e in its world, if any.
func refresh(e *engine.Entity) error {
	if e == nil || e.World() == nil {
		return nil
	}
	return e.World().RepushDescriptors(e)
}
