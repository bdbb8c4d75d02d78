package physics

import (
	"fmt"

	"lava/internal/engine"
	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Shape is a collision shape. A shape is proxied on at most one body at a
// time: as a simulation shape on a RigidBody, or as a trigger on a
// CollisionBody. Only BoxShape supports triggers.
type Shape interface {
	Kind() native.ShapeKind
	Desc() native.ShapeDesc
	Proxied() bool

	CreateProxy(rb *RigidBody) error
	DestroyProxy(rb *RigidBody) error
	CreateProxyTrigger(cb *CollisionBody) error
	DestroyProxyTrigger(cb *CollisionBody) error
	RegisterCollisionCallback(fn func(CollisionInfo)) (engine.ListenerID, error)

	// SetLocalToBodyTransform pushes Position and Rotation to the live proxy.
	SetLocalToBodyTransform()

	shape() *shapeBase
}

// shapeBase holds what every shape kind shares.
type shapeBase struct {
	// Position and Rotation are local to the body.
	Position rl.Vector3
	Rotation rl.Quaternion
	Mass     float32

	handle native.ShapeHandle
	rb     *RigidBody
	cb     *CollisionBody
}

func newShapeBase(mass float32) shapeBase {
	return shapeBase{Rotation: rl.QuaternionIdentity(), Mass: mass}
}

func (b *shapeBase) shape() *shapeBase { return b }

func (b *shapeBase) Proxied() bool {
	return b.rb != nil || b.cb != nil
}

func (b *shapeBase) desc(kind native.ShapeKind) native.ShapeDesc {
	return native.ShapeDesc{
		Kind:     kind,
		Position: b.Position,
		Rotation: b.Rotation,
		Mass:     b.Mass,
	}
}

func (b *shapeBase) SetLocalToBodyTransform() {
	if !b.Proxied() {
		return
	}
	b.physics().SetShapeTransform(b.handle, b.Position, b.Rotation)
}

func (b *shapeBase) physics() native.Physics {
	if b.rb != nil {
		return b.rb.world.sys.native
	}
	return b.cb.world.sys.native
}

func (b *shapeBase) createProxy(s Shape, rb *RigidBody) error {
	switch {
	case rb == nil:
		return ErrNotAttached
	case b.rb == rb:
		return ErrAlreadyAttached
	case b.Proxied():
		return ErrShapeInUse
	case !rb.attached:
		return ErrNotAttached
	}
	b.handle = rb.world.sys.native.CreateShape(rb.handle, s.Desc())
	b.rb = rb
	rb.track(s)
	return nil
}

func (b *shapeBase) destroyProxy(rb *RigidBody) error {
	if rb == nil || b.rb != rb {
		return ErrShapeNotAttached
	}
	rb.world.sys.native.DestroyShape(rb.handle, b.handle)
	b.rb = nil
	b.handle = 0
	return nil
}

func unsupported(kind native.ShapeKind, op string) error {
	return fmt.Errorf("%w: %s on %s shape", ErrNotSupported, op, kind)
}

// BoxShape is the only shape that can act as a trigger. Collision fires once
// per contact the engine reports on the trigger proxy.
type BoxShape struct {
	shapeBase
	HalfExtent rl.Vector3
	Collision  engine.EventWithArg[CollisionInfo]

	ref native.ProxyRef
}

func NewBoxShape(halfExtent rl.Vector3, mass float32) *BoxShape {
	return &BoxShape{shapeBase: newShapeBase(mass), HalfExtent: halfExtent}
}

// NewCubeShape returns a box with equal half extents.
func NewCubeShape(half, mass float32) *BoxShape {
	return NewBoxShape(rl.Vector3{X: half, Y: half, Z: half}, mass)
}

func (s *BoxShape) Kind() native.ShapeKind { return native.ShapeBox }

func (s *BoxShape) Desc() native.ShapeDesc {
	d := s.desc(native.ShapeBox)
	d.HalfExtent = s.HalfExtent
	return d
}

func (s *BoxShape) CreateProxy(rb *RigidBody) error  { return s.createProxy(s, rb) }
func (s *BoxShape) DestroyProxy(rb *RigidBody) error { return s.destroyProxy(rb) }

// CreateProxyTrigger registers the box as a trigger on cb. Contacts are
// routed to Collision and to TriggerHandler components on cb's entity.
func (s *BoxShape) CreateProxyTrigger(cb *CollisionBody) error {
	switch {
	case cb == nil:
		return ErrNotAttached
	case s.cb == cb:
		return ErrAlreadyAttached
	case s.Proxied():
		return ErrShapeInUse
	case !cb.attached:
		return ErrNotAttached
	}
	sys := cb.world.sys
	s.ref = sys.proxies.alloc(s)
	s.handle = sys.native.CreateTriggerShape(cb.handle, s.Desc(), s.ref)
	s.cb = cb
	cb.track(s)
	return nil
}

func (s *BoxShape) DestroyProxyTrigger(cb *CollisionBody) error {
	if cb == nil || s.cb != cb {
		return ErrShapeNotAttached
	}
	sys := cb.world.sys
	sys.native.DestroyTriggerShape(cb.handle, s.handle)
	sys.proxies.release(s.ref)
	s.ref = 0
	s.handle = 0
	s.cb = nil
	return nil
}

// RegisterCollisionCallback subscribes fn to Collision. Subscribing after the
// trigger proxy exists is fine.
func (s *BoxShape) RegisterCollisionCallback(fn func(CollisionInfo)) (engine.ListenerID, error) {
	return s.Collision.AddListener(fn), nil
}

func (s *BoxShape) touched(c native.Contact) {
	cb := s.cb
	if cb == nil {
		return
	}
	info := CollisionInfo{PointOfContact: c.PointOfContact, Owner: cb}
	s.Collision.Invoke(info)
	cb.dispatch(info)
}

type SphereShape struct {
	shapeBase
	Radius float32
}

func NewSphereShape(radius, mass float32) *SphereShape {
	return &SphereShape{shapeBase: newShapeBase(mass), Radius: radius}
}

func (s *SphereShape) Kind() native.ShapeKind { return native.ShapeSphere }

func (s *SphereShape) Desc() native.ShapeDesc {
	d := s.desc(native.ShapeSphere)
	d.Radius = s.Radius
	return d
}

func (s *SphereShape) CreateProxy(rb *RigidBody) error  { return s.createProxy(s, rb) }
func (s *SphereShape) DestroyProxy(rb *RigidBody) error { return s.destroyProxy(rb) }

func (s *SphereShape) CreateProxyTrigger(*CollisionBody) error {
	return unsupported(native.ShapeSphere, "CreateProxyTrigger")
}

func (s *SphereShape) DestroyProxyTrigger(*CollisionBody) error {
	return unsupported(native.ShapeSphere, "DestroyProxyTrigger")
}

func (s *SphereShape) RegisterCollisionCallback(func(CollisionInfo)) (engine.ListenerID, error) {
	return 0, unsupported(native.ShapeSphere, "RegisterCollisionCallback")
}

type CapsuleShape struct {
	shapeBase
	Radius float32
	Height float32
}

func NewCapsuleShape(radius, height, mass float32) *CapsuleShape {
	return &CapsuleShape{shapeBase: newShapeBase(mass), Radius: radius, Height: height}
}

func (s *CapsuleShape) Kind() native.ShapeKind { return native.ShapeCapsule }

func (s *CapsuleShape) Desc() native.ShapeDesc {
	d := s.desc(native.ShapeCapsule)
	d.Radius = s.Radius
	d.Height = s.Height
	return d
}

func (s *CapsuleShape) CreateProxy(rb *RigidBody) error  { return s.createProxy(s, rb) }
func (s *CapsuleShape) DestroyProxy(rb *RigidBody) error { return s.destroyProxy(rb) }

func (s *CapsuleShape) CreateProxyTrigger(*CollisionBody) error {
	return unsupported(native.ShapeCapsule, "CreateProxyTrigger")
}

func (s *CapsuleShape) DestroyProxyTrigger(*CollisionBody) error {
	return unsupported(native.ShapeCapsule, "DestroyProxyTrigger")
}

func (s *CapsuleShape) RegisterCollisionCallback(func(CollisionInfo)) (engine.ListenerID, error) {
	return 0, unsupported(native.ShapeCapsule, "RegisterCollisionCallback")
}

// GetShape returns the first shape of type T held by a body.
func GetShape[T Shape](body interface{ Shapes() []Shape }) (T, bool) {
	for _, s := range body.Shapes() {
		if typed, ok := s.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}
