package components

import (
	"lava/internal/engine"
	"lava/internal/prop"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("Transform", func(ctx *engine.Context, props map[string]any) (engine.Component, error) {
		t := engine.New[Transform](ctx)
		t.SetPosition(prop.Vec3(props, "position", rl.Vector3{}))
		t.SetScale(prop.Vec3(props, "scale", rl.Vector3{X: 1, Y: 1, Z: 1}))
		if e := prop.Vec3(props, "rotation", rl.Vector3{}); e != (rl.Vector3{}) {
			t.SetRotation(rl.QuaternionFromEuler(e.X*rl.Deg2rad, e.Y*rl.Deg2rad, e.Z*rl.Deg2rad))
		}
		return t, nil
	})
}

// Transform is position, rotation and scale. The model matrix is rebuilt
// lazily after any change.
type Transform struct {
	engine.BaseComponent
	position rl.Vector3
	rotation rl.Quaternion
	scale    rl.Vector3
	model    rl.Matrix
	dirty    bool
}

func (t *Transform) OnInit() {
	t.rotation = rl.QuaternionIdentity()
	t.scale = rl.Vector3{X: 1, Y: 1, Z: 1}
	t.dirty = true
}

func (t *Transform) Capability() engine.Capability { return engine.CapTransform }

func (t *Transform) Position() rl.Vector3    { return t.position }
func (t *Transform) Rotation() rl.Quaternion { return t.rotation }
func (t *Transform) Scale() rl.Vector3       { return t.scale }

func (t *Transform) SetPosition(p rl.Vector3) {
	t.position = p
	t.dirty = true
}

func (t *Transform) SetRotation(q rl.Quaternion) {
	t.rotation = q
	t.dirty = true
}

func (t *Transform) SetScale(s rl.Vector3) {
	t.scale = s
	t.dirty = true
}

func (t *Transform) Translate(d rl.Vector3) {
	t.SetPosition(rl.Vector3Add(t.position, d))
}

// Rotate applies a rotation of degrees around axis on top of the current one.
func (t *Transform) Rotate(degrees float32, axis rl.Vector3) {
	q := rl.QuaternionFromAxisAngle(axis, degrees*rl.Deg2rad)
	t.SetRotation(rl.QuaternionNormalize(rl.QuaternionMultiply(q, t.rotation)))
}

// Forward is the local -Z axis in world space.
func (t *Transform) Forward() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.Vector3{Z: -1}, t.rotation)
}

// Model returns scale, then rotation, then translation.
func (t *Transform) Model() rl.Matrix {
	if t.dirty {
		s := rl.MatrixScale(t.scale.X, t.scale.Y, t.scale.Z)
		r := rl.QuaternionToMatrix(t.rotation)
		tr := rl.MatrixTranslate(t.position.X, t.position.Y, t.position.Z)
		t.model = rl.MatrixMultiply(rl.MatrixMultiply(s, r), tr)
		t.dirty = false
	}
	return t.model
}
