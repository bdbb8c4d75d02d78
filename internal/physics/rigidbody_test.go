package physics

import (
	"testing"

	"lava/internal/engine"
	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRigidBodyNeedsTransform(t *testing.T) {
	f := newFixture(t)
	e := f.ctx.NewEntity("bare")
	rb := f.pw.NewRigidBody()

	err := e.AddComponent(rb)
	require.ErrorIs(t, err, ErrMissingTransform)
	assert.Zero(t, f.fake.Count("CreateRigidBody"))
	assert.False(t, rb.Attached())
	assert.Nil(t, rb.Owner())
	assert.True(t, rb.IsOrphan())
}

func TestRigidBodyScenario(t *testing.T) {
	f := newFixture(t)
	e, tr := f.entity(t, "crate", rl.Vector3{})
	rb := f.pw.NewRigidBody()
	require.NoError(t, e.AddComponent(rb))
	require.NoError(t, f.world.AddEntity(e))
	require.True(t, rb.Attached())

	f.fake.MoveBody(rb.Handle(), rl.Vector3{Y: 5}, rl.QuaternionIdentity())

	assert.Equal(t, rl.Vector3{Y: 5}, tr.Position())
	assert.Equal(t, rl.Vector3{Y: 5}, rb.Position())
}

func TestRigidBodyPositionRoundTrip(t *testing.T) {
	f := newFixture(t)
	e, tr := f.entity(t, "crate", rl.Vector3{})
	rb := f.pw.NewRigidBody()
	require.NoError(t, e.AddComponent(rb))

	p := rl.Vector3{X: 1.25, Y: -3, Z: 7.5}
	rb.SetPosition(p)
	assert.Equal(t, p, rb.Position())
	assert.Equal(t, p, f.fake.Bodies[rb.Handle()].Position)

	q := rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, 0.5)
	f.fake.MoveBody(rb.Handle(), rl.Vector3{X: 2}, q)
	assert.Equal(t, rl.Vector3{X: 2}, rb.Position())
	assert.Equal(t, rl.Vector3{X: 2}, tr.Position())
	assert.Equal(t, q, rb.Rotation())
	assert.Equal(t, q, tr.Rotation())
}

func TestPosedBodyMovesTransformOnAttach(t *testing.T) {
	f := newFixture(t)
	e, tr := f.entity(t, "crate", rl.Vector3{X: 9})
	rb := f.pw.CreateRigidBodyAt(rl.Vector3{Y: 2})
	require.NoError(t, e.AddComponent(rb))

	assert.Equal(t, rl.Vector3{Y: 2}, tr.Position())
	assert.Equal(t, rl.Vector3{Y: 2}, f.fake.Bodies[rb.Handle()].Position)
}

func TestUnposedBodyTakesTransformPose(t *testing.T) {
	f := newFixture(t)
	e, _ := f.entity(t, "crate", rl.Vector3{X: 9})
	rb := f.pw.NewRigidBody()
	require.NoError(t, e.AddComponent(rb))

	assert.Equal(t, rl.Vector3{X: 9}, rb.Position())
	assert.Equal(t, rl.Vector3{X: 9}, f.fake.Bodies[rb.Handle()].Position)
}

func TestRigidBodyPushesCachedPropertiesOnAttach(t *testing.T) {
	f := newFixture(t)
	e, _ := f.entity(t, "crate", rl.Vector3{})
	rb := f.pw.NewRigidBody()
	assert.Equal(t, DefaultMaterial(), rb.Material())
	assert.Equal(t, native.BodyDynamic, rb.Type())
	assert.InDelta(t, 0.05, rb.AngularDamping(), 1e-6)

	rb.SetType(native.BodyKinematic)
	rb.SetMass(3)
	rb.EnableGravity(false)
	rb.SetLinearDamping(0.2)
	mat := native.PhysicsMaterial{Friction: 1, Bounciness: 0.9}
	rb.SetMaterial(mat)
	assert.Zero(t, f.fake.Count("SetMass"))

	require.NoError(t, e.AddComponent(rb))
	b := f.fake.Bodies[rb.Handle()]
	assert.Equal(t, native.BodyKinematic, b.Type)
	assert.InDelta(t, 3, b.Mass, 1e-6)
	assert.False(t, b.Gravity)
	assert.Equal(t, mat, b.Material)
	assert.InDelta(t, 0.2, b.Linear, 1e-6)
	assert.InDelta(t, 0.05, b.Angular, 1e-6)

	rb.SetMass(4)
	assert.InDelta(t, 4, b.Mass, 1e-6)
}

func TestForcesNeedNativeBody(t *testing.T) {
	f := newFixture(t)
	rb := f.pw.NewRigidBody()
	assert.ErrorIs(t, rb.ApplyForce(rl.Vector3{Y: 1}, rl.Vector3{}), ErrNotAttached)
	assert.ErrorIs(t, rb.ApplyForceToCenterOfMass(rl.Vector3{Y: 1}), ErrNotAttached)
	assert.ErrorIs(t, rb.ApplyTorque(rl.Vector3{Y: 1}), ErrNotAttached)

	e, _ := f.entity(t, "crate", rl.Vector3{})
	require.NoError(t, e.AddComponent(rb))
	assert.NoError(t, rb.ApplyForce(rl.Vector3{Y: 1}, rl.Vector3{}))
	assert.NoError(t, rb.ApplyForceToCenterOfMass(rl.Vector3{Y: 1}))
	assert.NoError(t, rb.ApplyTorque(rl.Vector3{Y: 1}))
	assert.Equal(t, 1, f.fake.Count("ApplyForce"))
	assert.Equal(t, 1, f.fake.Count("ApplyTorque"))
}

func TestRemovingOwnerDestroysProxies(t *testing.T) {
	f := newFixture(t)
	e, _ := f.entity(t, "crate", rl.Vector3{})
	rb := f.pw.NewRigidBody()
	require.NoError(t, rb.AddCollisionShape(NewCubeShape(0.5, 1)))
	require.NoError(t, e.AddComponent(rb))
	require.Equal(t, 1, f.fake.LiveBodies())
	require.Equal(t, 1, f.fake.LiveShapes())

	require.NoError(t, e.RemoveComponent(rb))
	assert.Zero(t, f.fake.LiveBodies())
	assert.Zero(t, f.fake.LiveShapes())
	assert.False(t, rb.Attached())

	last := f.fake.Calls[len(f.fake.Calls)-2:]
	assert.Contains(t, last[0], "DestroyShape")
	assert.Contains(t, last[1], "DestroyRigidBody")

	// Reattach recreates both.
	require.NoError(t, e.AddComponent(rb))
	assert.Equal(t, 1, f.fake.LiveBodies())
	assert.Equal(t, 1, f.fake.LiveShapes())
}

func TestPendingShapesAreProxiedOnAttach(t *testing.T) {
	f := newFixture(t)
	e, _ := f.entity(t, "capsule", rl.Vector3{})
	rb := f.pw.NewRigidBody()
	box := NewCubeShape(1, 2)
	sphere := NewSphereShape(0.5, 3)
	require.NoError(t, rb.AddCollisionShape(box))
	require.NoError(t, rb.AddCollisionShape(sphere))
	assert.Zero(t, f.fake.Count("CreateShape"))
	assert.InDelta(t, 5, rb.Mass(), 1e-6)

	require.NoError(t, e.AddComponent(rb))
	assert.Equal(t, 2, f.fake.Count("CreateShape"))
	assert.True(t, box.Proxied())
	assert.True(t, sphere.Proxied())
	assert.Zero(t, f.fake.Count("SetMass"))

	got, ok := GetShape[*SphereShape](rb)
	require.True(t, ok)
	assert.Same(t, sphere, got)
	_, ok = GetShape[*CapsuleShape](rb)
	assert.False(t, ok)
}

func TestShapeOnOneBodyOnly(t *testing.T) {
	f := newFixture(t)
	a, _ := f.entity(t, "a", rl.Vector3{})
	b, _ := f.entity(t, "b", rl.Vector3{})
	ra, rb := f.pw.NewRigidBody(), f.pw.NewRigidBody()
	require.NoError(t, a.AddComponent(ra))
	require.NoError(t, b.AddComponent(rb))

	box := NewCubeShape(1, 1)
	require.NoError(t, ra.AddCollisionShape(box))
	assert.ErrorIs(t, ra.AddCollisionShape(box), ErrAlreadyAttached)
	assert.ErrorIs(t, rb.AddCollisionShape(box), ErrShapeInUse)
	assert.ErrorIs(t, box.CreateProxy(rb), ErrShapeInUse)
	assert.ErrorIs(t, box.DestroyProxy(rb), ErrShapeNotAttached)
	assert.Equal(t, 1, f.fake.Count("CreateShape"))

	require.NoError(t, ra.RemoveCollisionShape(box))
	assert.False(t, box.Proxied())
	assert.ErrorIs(t, ra.RemoveCollisionShape(box), ErrShapeNotAttached)
	require.NoError(t, rb.AddCollisionShape(box))
	assert.True(t, box.Proxied())
}

func TestShapeLocalTransformPushedWhenProxied(t *testing.T) {
	f := newFixture(t)
	e, _ := f.entity(t, "crate", rl.Vector3{})
	rb := f.pw.NewRigidBody()
	box := NewCubeShape(1, 1)
	box.Position = rl.Vector3{Y: 1}
	box.SetLocalToBodyTransform()
	assert.Zero(t, f.fake.Count("SetShapeTransform"))

	require.NoError(t, rb.AddCollisionShape(box))
	require.NoError(t, e.AddComponent(rb))
	shape := f.fake.Shapes[box.handle]
	require.NotNil(t, shape)
	assert.Equal(t, rl.Vector3{Y: 1}, shape.Desc.Position)

	box.Position = rl.Vector3{Y: 2}
	box.SetLocalToBodyTransform()
	assert.Equal(t, 1, f.fake.Count("SetShapeTransform"))
}

func TestDestroyedBodyIgnoresLateCallbacks(t *testing.T) {
	f := newFixture(t)
	e, tr := f.entity(t, "crate", rl.Vector3{})
	rb := f.pw.NewRigidBody()
	require.NoError(t, e.AddComponent(rb))
	ref := f.fake.Bodies[rb.Handle()].Ref
	live := f.sys.Live()

	rb.Destroy()
	assert.Equal(t, live-1, f.sys.Live())
	assert.Zero(t, f.fake.LiveBodies())
	assert.False(t, engine.HasComponent[*RigidBody](e))

	f.fake.SendRaw(ref, rl.Vector3{Y: 100}, rl.QuaternionIdentity())
	assert.Equal(t, rl.Vector3{}, tr.Position())

	// The freed slot is reused under a new generation.
	rb2 := f.pw.NewRigidBody()
	require.NoError(t, e.AddComponent(rb2))
	assert.NotEqual(t, ref, f.fake.Bodies[rb2.Handle()].Ref)
	f.fake.SendRaw(ref, rl.Vector3{Y: 100}, rl.QuaternionIdentity())
	assert.Equal(t, rl.Vector3{}, rb2.Position())
}

func TestPhysicsUpdateReachesComponents(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.fake.StepCallback(f.pw.Handle()))

	e, tr := f.entity(t, "trigger", rl.Vector3{})
	cb := f.pw.CreateCollisionBody()
	require.NoError(t, e.AddComponent(cb))
	require.NoError(t, f.world.AddEntity(e))

	tr.SetPosition(rl.Vector3{X: 3})
	f.fake.Step(f.pw.Handle())
	assert.Equal(t, 1, f.fake.Count("SetBodyTransform"))
	assert.Equal(t, rl.Vector3{X: 3}, f.fake.Bodies[cb.Handle()].Position)

	f.fake.Step(f.pw.Handle())
	assert.Equal(t, 1, f.fake.Count("SetBodyTransform"))
}

func TestTransformCannotBeRemovedUnderBody(t *testing.T) {
	f := newFixture(t)
	e, tr := f.entity(t, "crate", rl.Vector3{})
	rb := f.pw.NewRigidBody()
	require.NoError(t, e.AddComponent(rb))

	require.ErrorIs(t, e.RemoveComponent(tr), engine.ErrRequiredBy)
	assert.True(t, rb.Attached())
	assert.Same(t, e, tr.Owner())

	f.fake.MoveBody(rb.Handle(), rl.Vector3{Y: 5}, rl.QuaternionIdentity())
	assert.Equal(t, rl.Vector3{Y: 5}, tr.Position())
}

func TestDestroyingTransformDetachesBody(t *testing.T) {
	f := newFixture(t)
	e, tr := f.entity(t, "crate", rl.Vector3{})
	rb := f.pw.NewRigidBody()
	require.NoError(t, rb.AddCollisionShape(NewCubeShape(0.5, 1)))
	require.NoError(t, e.AddComponent(rb))

	tr.Destroy()

	assert.False(t, rb.Attached())
	assert.True(t, rb.IsOrphan())
	assert.Zero(t, f.fake.LiveBodies())
	assert.Zero(t, f.fake.LiveShapes())
	assert.False(t, engine.HasComponent[*RigidBody](e))
}
