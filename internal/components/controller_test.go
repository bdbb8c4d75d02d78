package components

import (
	"testing"

	"lava/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlyControllerMovesCamera(t *testing.T) {
	ctx, fake := newTestContext(t)
	e, cam, err := engine.NewEntityWith[Camera](ctx, "player")
	require.NoError(t, err)
	f, err := engine.Add[FlyController](e)
	require.NoError(t, err)
	f.Pitch = 0
	f.LookSpeed = 0

	fake.Keys[rl.KeyW] = true
	fake.Delta = 0.5
	e.Update()

	// Yaw -90 looks down -Z.
	assertVec3(t, rl.Vector3{Z: -1}, cam.Forward())
	assertVec3(t, rl.Vector3{Z: -4}, cam.Position())

	fake.Keys[rl.KeyW] = false
	fake.Keys[rl.KeyLeftShift] = true
	fake.Keys[rl.KeyD] = true
	e.Update()
	assertVec3(t, rl.Vector3{X: 12, Z: -4}, cam.Position())
}

func TestFlyControllerClampsPitch(t *testing.T) {
	ctx, fake := newTestContext(t)
	e, _, err := engine.NewEntityWith[Camera](ctx, "player")
	require.NoError(t, err)
	f, err := engine.Add[FlyController](e)
	require.NoError(t, err)

	fake.Mouse = rl.Vector2{Y: -10000}
	e.Update()
	assert.InDelta(t, 89, f.Pitch, eps)
}

func TestRotatorSpinsTransform(t *testing.T) {
	ctx, fake := newTestContext(t)
	e, tr, err := engine.NewEntityWith[Transform](ctx, "spinner")
	require.NoError(t, err)
	c, err := engine.CreateComponent(ctx, "Rotator", map[string]any{"speed": 180})
	require.NoError(t, err)
	require.NoError(t, e.AddComponent(c))

	fake.Delta = 0.5
	e.Update()
	assertVec3(t, rl.Vector3{X: -1}, tr.Forward())
}

func TestEveryComponentIsRegistered(t *testing.T) {
	names := engine.RegisteredComponents()
	for _, n := range []string{"Transform", "Camera", "DirectionalLight", "PointLight", "IBLProbe", "Visual", "AudioClip", "FlyController", "Rotator"} {
		assert.Contains(t, names, n)
	}
}
