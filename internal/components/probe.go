package components

import (
	"lava/internal/engine"
	"lava/internal/native"
	"lava/internal/prop"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("IBLProbe", func(ctx *engine.Context, props map[string]any) (engine.Component, error) {
		p := engine.New[IBLProbe](ctx)
		p.Offset = prop.Vec3(props, "offset", p.Offset)
		p.Far = prop.Float(props, "far", p.Far)
		return p, nil
	})
}

// Cube face order: +X, -X, +Y, -Y, +Z, -Z.
var probeFaces = [6]struct{ forward, up rl.Vector3 }{
	{rl.Vector3{X: 1}, rl.Vector3{Y: -1}},
	{rl.Vector3{X: -1}, rl.Vector3{Y: -1}},
	{rl.Vector3{Y: 1}, rl.Vector3{Z: 1}},
	{rl.Vector3{Y: -1}, rl.Vector3{Z: -1}},
	{rl.Vector3{Z: 1}, rl.Vector3{Y: -1}},
	{rl.Vector3{Z: -1}, rl.Vector3{Y: -1}},
}

// IBLProbe captures the scene around its entity into a cube map used for
// image based lighting.
type IBLProbe struct {
	engine.BaseComponent
	Offset rl.Vector3
	Near   float32
	Far    float32
}

func (p *IBLProbe) OnInit() {
	p.Near = 0.1
	p.Far = 512
}

func (p *IBLProbe) Capability() engine.Capability { return engine.CapProbe }

func (p *IBLProbe) Position() rl.Vector3 {
	if e := p.Owner(); e != nil {
		if t, ok := e.Transform(); ok {
			return rl.Vector3Add(t.Position(), p.Offset)
		}
	}
	return p.Offset
}

// ProbeInfo builds one 90 degree view-projection per cube face.
func (p *IBLProbe) ProbeInfo() native.ProbeInfo {
	pos := p.Position()
	proj := rl.MatrixPerspective(90*rl.Deg2rad, 1, p.Near, p.Far)
	info := native.ProbeInfo{Position: pos}
	for i, f := range probeFaces {
		view := rl.MatrixLookAt(pos, rl.Vector3Add(pos, f.forward), f.up)
		info.Matrices[i] = rl.MatrixMultiply(rl.MatrixMultiply(view, proj), Clip)
	}
	return info
}

func (p *IBLProbe) Refresh() error { return refresh(p.Owner()) }
