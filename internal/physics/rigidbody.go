package physics

import (
	"slices"

	"lava/internal/engine"
	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// DefaultMaterial is the surface every new rigid body starts with.
func DefaultMaterial() native.PhysicsMaterial {
	return native.PhysicsMaterial{Friction: 0.5, RollingResistance: 0.1, Bounciness: 0.05}
}

// RigidBody is a simulated body. Every property is cached here and pushed to
// the engine while the body has a native proxy, which exists between owner
// attach and owner removal. The owning entity must have a transform; after
// each physics step the engine's pose is written into it.
type RigidBody struct {
	engine.BaseComponent

	world     *World
	ref       native.ProxyRef
	handle    native.BodyHandle
	attached  bool
	posed     bool
	transform engine.Posed

	position       rl.Vector3
	rotation       rl.Quaternion
	bodyType       native.BodyType
	mass           float32
	massSet        bool
	gravity        bool
	material       native.PhysicsMaterial
	linearDamping  float32
	angularDamping float32

	shapes []Shape
}

func newRigidBody(w *World) *RigidBody {
	rb := &RigidBody{
		world:          w,
		rotation:       rl.QuaternionIdentity(),
		bodyType:       native.BodyDynamic,
		gravity:        true,
		material:       DefaultMaterial(),
		angularDamping: 0.05,
	}
	w.sys.ctx.Construct(rb)
	rb.ref = w.sys.proxies.alloc(rb)
	w.bodies[rb] = struct{}{}
	return rb
}

func (rb *RigidBody) Capability() engine.Capability { return engine.CapRigidBody }
func (rb *RigidBody) Requires() []engine.Capability { return []engine.Capability{engine.CapTransform} }

// Handle returns the native body, valid only while Attached.
func (rb *RigidBody) Handle() native.BodyHandle { return rb.handle }
func (rb *RigidBody) Attached() bool            { return rb.attached }
func (rb *RigidBody) PhysicsWorld() *World      { return rb.world }

func (rb *RigidBody) OnEntityAddOwner() error {
	switch {
	case rb.world == nil:
		return ErrNoPhysicsWorld
	case rb.world.closed:
		return ErrWorldClosed
	}
	t, ok := rb.Owner().Transform()
	if !ok {
		return ErrMissingTransform
	}
	rb.transform = t
	if rb.posed {
		t.SetPosition(rb.position)
		t.SetRotation(rb.rotation)
	} else {
		rb.position = t.Position()
		rb.rotation = t.Rotation()
	}
	rb.attach()
	return nil
}

func (rb *RigidBody) OnEntityRemoveOwner() {
	rb.detach()
	rb.transform = nil
}

func (rb *RigidBody) OnDestroy() {
	rb.detach()
	rb.shapes = nil
	if rb.world != nil {
		rb.world.sys.proxies.release(rb.ref)
		delete(rb.world.bodies, rb)
	}
	rb.ref = 0
}

func (rb *RigidBody) attach() {
	sys := rb.world.sys
	n := sys.native
	rb.handle = n.CreateRigidBody(rb.world.handle, rb.position, rb.rotation, rb.ref)
	rb.attached = true

	n.SetBodyType(rb.handle, rb.bodyType)
	n.SetBodyMaterial(rb.handle, rb.material)
	n.EnableGravity(rb.handle, rb.gravity)
	n.SetLinearDamping(rb.handle, rb.linearDamping)
	n.SetAngularDamping(rb.handle, rb.angularDamping)
	for _, s := range slices.Clone(rb.shapes) {
		if err := s.CreateProxy(rb); err != nil {
			sys.log.Warn("pending shape not proxied",
				zap.Stringer("kind", s.Kind()),
				zap.Error(err))
		}
	}
	// After shapes, so an explicit mass wins over the shape sum.
	if rb.massSet {
		n.SetMass(rb.handle, rb.mass)
	}
	sys.log.Debug("rigid body attached",
		zap.Stringer("entity", rb.Owner()),
		zap.Uint64("proxy", uint64(rb.ref)),
		zap.Int("shapes", len(rb.shapes)))
}

// detach destroys the shape proxies, then the body proxy.
func (rb *RigidBody) detach() {
	if !rb.attached {
		return
	}
	for _, s := range rb.shapes {
		if s.shape().rb == rb {
			_ = s.DestroyProxy(rb)
		}
	}
	rb.world.sys.native.DestroyRigidBody(rb.world.handle, rb.handle)
	rb.attached = false
	rb.handle = 0
}

// moved receives the engine's pose after a physics step.
func (rb *RigidBody) moved(pos rl.Vector3, rot rl.Quaternion) {
	rb.position = pos
	rb.rotation = rot
	if rb.transform != nil {
		rb.transform.SetPosition(pos)
		rb.transform.SetRotation(rot)
	}
}

func (rb *RigidBody) Position() rl.Vector3    { return rb.position }
func (rb *RigidBody) Rotation() rl.Quaternion { return rb.rotation }

func (rb *RigidBody) SetPosition(p rl.Vector3) {
	rb.SetTransform(p, rb.rotation)
}

func (rb *RigidBody) SetRotation(q rl.Quaternion) {
	rb.SetTransform(rb.position, q)
}

// SetTransform teleports the body. The entity's transform follows on the
// next physics step.
func (rb *RigidBody) SetTransform(p rl.Vector3, q rl.Quaternion) {
	rb.position = p
	rb.rotation = q
	rb.posed = true
	if rb.attached {
		rb.world.sys.native.SetBodyTransform(rb.handle, p, q)
	}
}

func (rb *RigidBody) Type() native.BodyType { return rb.bodyType }

func (rb *RigidBody) SetType(t native.BodyType) {
	rb.bodyType = t
	if rb.attached {
		rb.world.sys.native.SetBodyType(rb.handle, t)
	}
}

// Mass returns the explicitly set mass, or the sum of the shape masses.
func (rb *RigidBody) Mass() float32 {
	if rb.massSet {
		return rb.mass
	}
	var m float32
	for _, s := range rb.shapes {
		m += s.shape().Mass
	}
	return m
}

func (rb *RigidBody) SetMass(m float32) {
	rb.mass = m
	rb.massSet = true
	if rb.attached {
		rb.world.sys.native.SetMass(rb.handle, m)
	}
}

func (rb *RigidBody) GravityEnabled() bool { return rb.gravity }

func (rb *RigidBody) EnableGravity(on bool) {
	rb.gravity = on
	if rb.attached {
		rb.world.sys.native.EnableGravity(rb.handle, on)
	}
}

func (rb *RigidBody) Material() native.PhysicsMaterial { return rb.material }

func (rb *RigidBody) SetMaterial(m native.PhysicsMaterial) {
	rb.material = m
	if rb.attached {
		rb.world.sys.native.SetBodyMaterial(rb.handle, m)
	}
}

func (rb *RigidBody) LinearDamping() float32  { return rb.linearDamping }
func (rb *RigidBody) AngularDamping() float32 { return rb.angularDamping }

func (rb *RigidBody) SetLinearDamping(d float32) {
	rb.linearDamping = d
	if rb.attached {
		rb.world.sys.native.SetLinearDamping(rb.handle, d)
	}
}

func (rb *RigidBody) SetAngularDamping(d float32) {
	rb.angularDamping = d
	if rb.attached {
		rb.world.sys.native.SetAngularDamping(rb.handle, d)
	}
}

// ApplyForce applies force at a world-space point.
func (rb *RigidBody) ApplyForce(force, point rl.Vector3) error {
	if !rb.attached {
		return ErrNotAttached
	}
	rb.world.sys.native.ApplyForce(rb.handle, force, point)
	return nil
}

func (rb *RigidBody) ApplyForceToCenterOfMass(force rl.Vector3) error {
	if !rb.attached {
		return ErrNotAttached
	}
	rb.world.sys.native.ApplyForceToCenterOfMass(rb.handle, force)
	return nil
}

func (rb *RigidBody) ApplyTorque(torque rl.Vector3) error {
	if !rb.attached {
		return ErrNotAttached
	}
	rb.world.sys.native.ApplyTorque(rb.handle, torque)
	return nil
}

// AddCollisionShape adds s to the body. The native shape is created now if
// the body is attached, otherwise at attach.
func (rb *RigidBody) AddCollisionShape(s Shape) error {
	b := s.shape()
	if slices.Contains(rb.shapes, s) {
		return ErrAlreadyAttached
	}
	if b.Proxied() {
		return ErrShapeInUse
	}
	rb.shapes = append(rb.shapes, s)
	if !rb.attached {
		return nil
	}
	if err := s.CreateProxy(rb); err != nil {
		rb.untrack(s)
		return err
	}
	return nil
}

// RemoveCollisionShape destroys the shape's proxy, if any, and drops it.
func (rb *RigidBody) RemoveCollisionShape(s Shape) error {
	if !slices.Contains(rb.shapes, s) {
		return ErrShapeNotAttached
	}
	if s.shape().rb == rb {
		if err := s.DestroyProxy(rb); err != nil {
			return err
		}
	}
	rb.untrack(s)
	return nil
}

// Shapes returns the body's shapes in the order they were added.
func (rb *RigidBody) Shapes() []Shape {
	return slices.Clone(rb.shapes)
}

func (rb *RigidBody) track(s Shape) {
	if !slices.Contains(rb.shapes, s) {
		rb.shapes = append(rb.shapes, s)
	}
}

func (rb *RigidBody) untrack(s Shape) {
	if i := slices.Index(rb.shapes, s); i >= 0 {
		rb.shapes = slices.Delete(rb.shapes, i, i+1)
	}
}
