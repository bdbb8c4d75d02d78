package components

import (
	"math"

	"lava/internal/engine"
	"lava/internal/prop"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("FlyController", func(ctx *engine.Context, props map[string]any) (engine.Component, error) {
		f := engine.New[FlyController](ctx)
		f.Yaw = prop.Float(props, "yaw", f.Yaw)
		f.Pitch = prop.Float(props, "pitch", f.Pitch)
		f.MoveSpeed = prop.Float(props, "moveSpeed", f.MoveSpeed)
		f.LookSpeed = prop.Float(props, "lookSpeed", f.LookSpeed)
		return f, nil
	})
}

// FlyController steers the Camera on its entity with the mouse and WASD,
// E and Q for up and down, and left shift to go faster.
type FlyController struct {
	engine.BaseComponent
	Yaw       float32
	Pitch     float32
	MoveSpeed float32
	LookSpeed float32
	Boost     float32
}

func (f *FlyController) OnInit() {
	f.Yaw = -90.0
	f.MoveSpeed = 8.0
	f.LookSpeed = 0.1
	f.Boost = 3.0
}

func (f *FlyController) OnUpdate() {
	e := f.Owner()
	if e == nil {
		return
	}
	cam, ok := engine.GetComponent[*Camera](e)
	if !ok {
		return
	}
	n := f.Context().Native()
	dt := n.DeltaTime()

	// Mouse look
	md := n.MouseDelta()
	f.Yaw += md.X * f.LookSpeed
	f.Pitch -= md.Y * f.LookSpeed
	f.Pitch = max(-89, min(f.Pitch, 89))
	look := f.LookDirection()
	cam.SetForward(look)

	right := cam.Right()
	var move rl.Vector3
	if n.KeyDown(rl.KeyW) {
		move = rl.Vector3Add(move, look)
	}
	if n.KeyDown(rl.KeyS) {
		move = rl.Vector3Subtract(move, look)
	}
	if n.KeyDown(rl.KeyD) {
		move = rl.Vector3Add(move, right)
	}
	if n.KeyDown(rl.KeyA) {
		move = rl.Vector3Subtract(move, right)
	}
	if n.KeyDown(rl.KeyE) {
		move.Y++
	}
	if n.KeyDown(rl.KeyQ) {
		move.Y--
	}
	if rl.Vector3Length(move) == 0 {
		return
	}

	speed := f.MoveSpeed
	if n.KeyDown(rl.KeyLeftShift) {
		speed *= f.Boost
	}
	step := rl.Vector3Scale(rl.Vector3Normalize(move), speed*dt)
	cam.SetPosition(rl.Vector3Add(cam.Position(), step))
	if t, ok := e.Transform(); ok {
		t.SetPosition(cam.Position())
	}
}

func (f *FlyController) LookDirection() rl.Vector3 {
	yaw := float64(f.Yaw) * math.Pi / 180
	pitch := float64(f.Pitch) * math.Pi / 180
	return rl.Vector3{
		X: float32(math.Cos(yaw) * math.Cos(pitch)),
		Y: float32(math.Sin(pitch)),
		Z: float32(math.Sin(yaw) * math.Cos(pitch)),
	}
}
