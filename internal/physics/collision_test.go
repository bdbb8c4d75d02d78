package physics

import (
	"testing"

	"lava/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrigger(t *testing.T, f *fixture) (*engine.Entity, *CollisionBody, *BoxShape) {
	t.Helper()
	e, _ := f.entity(t, "zone", rl.Vector3{})
	cb := f.pw.CreateCollisionBody()
	require.NoError(t, e.AddComponent(cb))
	box := NewCubeShape(1, 0)
	require.NoError(t, cb.AddCollisionShape(box))
	return e, cb, box
}

func TestBoxTriggerDeliversOneCollision(t *testing.T) {
	f := newFixture(t)
	_, cb, box := newTrigger(t, f)

	var got []CollisionInfo
	id, err := box.RegisterCollisionCallback(func(info CollisionInfo) { got = append(got, info) })
	require.NoError(t, err)
	assert.NotZero(t, id)

	shapes := f.fake.TriggerShapes(cb.Handle())
	require.Len(t, shapes, 1)
	f.fake.Touch(shapes[0].Handle, rl.Vector3{X: 1})

	require.Len(t, got, 1)
	assert.Equal(t, rl.Vector3{X: 1}, got[0].PointOfContact)
	assert.Same(t, cb, got[0].Owner)
}

func TestTriggerHandlersReceiveContacts(t *testing.T) {
	f := newFixture(t)
	e, cb, box := newTrigger(t, f)
	h, err := engine.Add[triggerLog](e)
	require.NoError(t, err)

	f.fake.Touch(box.handle, rl.Vector3{Z: 2})
	require.Len(t, h.got, 1)
	assert.Same(t, cb, h.got[0].Owner)
}

func TestRemovedCollisionCallbackIsNotCalled(t *testing.T) {
	f := newFixture(t)
	_, _, box := newTrigger(t, f)
	calls := 0
	id, err := box.RegisterCollisionCallback(func(CollisionInfo) { calls++ })
	require.NoError(t, err)
	require.True(t, box.Collision.RemoveListener(id))

	f.fake.Touch(box.handle, rl.Vector3{})
	assert.Zero(t, calls)
}

func TestSphereTriggerNotSupported(t *testing.T) {
	f := newFixture(t)
	_, cb, _ := newTrigger(t, f)
	before := f.fake.Count("CreateTriggerShape")

	sphere := NewSphereShape(1, 1)
	err := sphere.CreateProxyTrigger(cb)
	require.ErrorIs(t, err, ErrNotSupported)
	assert.Equal(t, before, f.fake.Count("CreateTriggerShape"))
	assert.False(t, sphere.Proxied())

	_, err = sphere.RegisterCollisionCallback(func(CollisionInfo) {})
	assert.ErrorIs(t, err, ErrNotSupported)
	assert.ErrorIs(t, NewCapsuleShape(0.5, 2, 1).CreateProxyTrigger(cb), ErrNotSupported)
	assert.ErrorIs(t, cb.AddCollisionShape(sphere), ErrNotSupported)
	assert.Equal(t, before, f.fake.Count("CreateTriggerShape"))
}

func TestCollisionBodyNeedsTransform(t *testing.T) {
	f := newFixture(t)
	e := f.ctx.NewEntity("bare")
	cb := f.pw.CreateCollisionBody()

	require.ErrorIs(t, e.AddComponent(cb), ErrMissingTransform)
	assert.Zero(t, f.fake.Count("CreateCollisionBody"))
}

func TestPendingTriggersAreProxiedOnAttach(t *testing.T) {
	f := newFixture(t)
	e, _ := f.entity(t, "zone", rl.Vector3{})
	cb := f.pw.CreateCollisionBody()
	box := NewCubeShape(1, 0)
	require.NoError(t, cb.AddCollisionShape(box))
	assert.Zero(t, f.fake.Count("CreateTriggerShape"))

	require.NoError(t, e.AddComponent(cb))
	assert.Equal(t, 1, f.fake.Count("CreateTriggerShape"))
	assert.True(t, box.Proxied())
}

func TestTriggerContactAfterDetachIsDropped(t *testing.T) {
	f := newFixture(t)
	e, cb, box := newTrigger(t, f)
	calls := 0
	_, err := box.RegisterCollisionCallback(func(CollisionInfo) { calls++ })
	require.NoError(t, err)
	handle := box.handle
	ref := f.fake.Shapes[handle].Ref
	live := f.sys.Live()

	require.NoError(t, e.RemoveComponent(cb))
	assert.Equal(t, live-1, f.sys.Live())
	assert.Zero(t, f.fake.LiveShapes())

	f.sys.ShapeContact(ref, nativeContact(rl.Vector3{X: 1}))
	assert.Zero(t, calls)
}

func TestCollisionBodySetTransformMovesEntity(t *testing.T) {
	f := newFixture(t)
	e, cb, _ := newTrigger(t, f)
	q := rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, 1)
	cb.SetTransform(rl.Vector3{Z: 4}, q)

	tr, ok := e.Transform()
	require.True(t, ok)
	assert.Equal(t, rl.Vector3{Z: 4}, tr.Position())
	assert.Equal(t, q, tr.Rotation())
	assert.Equal(t, rl.Vector3{Z: 4}, f.fake.Bodies[cb.Handle()].Position)
}

func TestTransformCannotBeRemovedUnderCollisionBody(t *testing.T) {
	f := newFixture(t)
	e, tr := f.entity(t, "pickup", rl.Vector3{})
	cb := f.pw.CreateCollisionBody()
	require.NoError(t, e.AddComponent(cb))

	require.ErrorIs(t, e.RemoveComponent(tr), engine.ErrRequiredBy)
	assert.True(t, cb.Attached())
}
