package physics

import (
	"testing"

	"lava/internal/engine"
	"lava/internal/native"
	"lava/internal/native/nativetest"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRigidBodyFromProps(t *testing.T) {
	f := newFixture(t)
	c, err := engine.CreateComponent(f.ctx, "RigidBody", map[string]any{
		"type":       "static",
		"mass":       3,
		"gravity":    false,
		"bounciness": 0.5,
		"shapes": []any{
			map[string]any{"kind": "box", "half_extent": []any{1, 0.5, 1}},
			map[string]any{"kind": "sphere", "radius": 2, "mass": 4},
		},
	})
	require.NoError(t, err)
	rb := c.(*RigidBody)
	assert.Equal(t, native.BodyStatic, rb.Type())
	assert.Equal(t, float32(3), rb.Mass())
	assert.False(t, rb.GravityEnabled())
	assert.Equal(t, float32(0.5), rb.Material().Bounciness)
	assert.Equal(t, DefaultMaterial().Friction, rb.Material().Friction)
	require.Len(t, rb.shapes, 2)
	assert.Equal(t, rl.Vector3{X: 1, Y: 0.5, Z: 1}, rb.shapes[0].(*BoxShape).HalfExtent)

	e, _ := f.entity(t, "crate", rl.Vector3{})
	require.NoError(t, e.AddComponent(rb))
	assert.Equal(t, 2, f.fake.LiveShapes())
}

func TestRigidBodyFromPropsRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	_, err := engine.CreateComponent(f.ctx, "RigidBody", map[string]any{"type": "floaty"})
	assert.Error(t, err)

	_, err = engine.CreateComponent(f.ctx, "RigidBody", map[string]any{
		"shapes": []any{map[string]any{"kind": "torus"}},
	})
	assert.ErrorIs(t, err, ErrUnknownShape)
}

func TestCollisionBodyFromProps(t *testing.T) {
	f := newFixture(t)
	c, err := engine.CreateComponent(f.ctx, "CollisionBody", map[string]any{
		"shapes": []any{map[string]any{"kind": "box", "size": 4}},
	})
	require.NoError(t, err)
	cb := c.(*CollisionBody)
	require.Len(t, cb.Shapes(), 1)
	assert.Equal(t, rl.Vector3{X: 2, Y: 2, Z: 2}, cb.Shapes()[0].(*BoxShape).HalfExtent)

	_, err = engine.CreateComponent(f.ctx, "CollisionBody", map[string]any{
		"shapes": []any{map[string]any{"kind": "sphere"}},
	})
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestBodiesNeedAPhysicsWorld(t *testing.T) {
	fake := nativetest.New()
	ctx := engine.NewContext(fake, nil)
	t.Cleanup(ctx.Close)
	NewSystem(ctx, DefaultGravity)

	_, err := engine.CreateComponent(ctx, "RigidBody", nil)
	assert.ErrorIs(t, err, ErrNoPhysicsWorld)

	_, err = ctx.Worlds().CreateWorld(true, false)
	require.NoError(t, err)
	_, err = engine.CreateComponent(ctx, "CollisionBody", nil)
	assert.ErrorIs(t, err, ErrNoPhysicsWorld)
}

func TestParseBodyType(t *testing.T) {
	for _, bt := range []native.BodyType{native.BodyStatic, native.BodyKinematic, native.BodyDynamic} {
		got, ok := ParseBodyType(bt.String())
		assert.True(t, ok)
		assert.Equal(t, bt, got)
	}
	_, ok := ParseBodyType("nope")
	assert.False(t, ok)
}
