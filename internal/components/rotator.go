package components

import (
	"lava/internal/engine"
	"lava/internal/prop"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("Rotator", func(ctx *engine.Context, props map[string]any) (engine.Component, error) {
		r := engine.New[Rotator](ctx)
		r.Speed = prop.Float(props, "speed", r.Speed)
		r.Axis = prop.Vec3(props, "axis", r.Axis)
		return r, nil
	})
}

// Rotator spins its entity's transform around Axis at Speed degrees per second.
type Rotator struct {
	engine.BaseComponent
	Speed float32
	Axis  rl.Vector3
}

func (r *Rotator) OnInit() {
	r.Speed = 90
	r.Axis = rl.Vector3{Y: 1}
}

func (r *Rotator) OnUpdate() {
	e := r.Owner()
	if e == nil {
		return
	}
	t, ok := engine.GetComponent[*Transform](e)
	if !ok {
		return
	}
	t.Rotate(r.Speed*r.Context().Native().DeltaTime(), r.Axis)
}
