// Package softphysics is a small rigid-body simulation that implements the
// native physics boundary in Go. It backs the desktop build and tests that
// want real integration instead of a recording fake.
//
// Dynamic bodies integrate gravity, forces and damping each fixed step and
// are pushed apart with oriented box tests. Trigger shapes report a contact
// on the step a body starts overlapping them.
package softphysics

import (
	"maps"
	"slices"

	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

const (
	DefaultFixedStep = 1.0 / 60.0
	DefaultMaxSteps  = 8
)

// Engine implements native.Physics.
type Engine struct {
	log       *zap.Logger
	listener  native.BodyListener
	fixedStep float32
	maxSteps  int
	acc       float32
	next      uint64

	spaces map[native.PhysicsWorldHandle]*space
	bodies map[native.BodyHandle]*body
	shapes map[native.ShapeHandle]*shape
}

// New returns an engine stepping at fixedStep seconds, running at most
// maxSteps steps per Advance. Non-positive values select the defaults.
func New(log *zap.Logger, fixedStep float32, maxSteps int) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if fixedStep <= 0 {
		fixedStep = DefaultFixedStep
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Engine{
		log:       log.Named("softphysics"),
		fixedStep: fixedStep,
		maxSteps:  maxSteps,
		spaces:    make(map[native.PhysicsWorldHandle]*space),
		bodies:    make(map[native.BodyHandle]*body),
		shapes:    make(map[native.ShapeHandle]*shape),
	}
}

func (e *Engine) FixedStep() float32 { return e.fixedStep }

func (e *Engine) id() uint64 {
	e.next++
	return e.next
}

// CreateSpace allocates a physics world.
func (e *Engine) CreateSpace() native.PhysicsWorldHandle {
	h := native.PhysicsWorldHandle(e.id())
	e.spaces[h] = newSpace(h)
	e.log.Debug("space created", zap.Uint64("space", uint64(h)))
	return h
}

// DestroySpace drops a physics world and every body still in it.
func (e *Engine) DestroySpace(pw native.PhysicsWorldHandle) {
	sp, ok := e.spaces[pw]
	if !ok {
		return
	}
	for _, b := range slices.Clone(sp.bodies) {
		e.destroyBody(b)
	}
	delete(e.spaces, pw)
}

// Advance adds dt to the accumulator and runs as many fixed steps as fit,
// up to the step limit. Time beyond the limit is dropped. It returns the
// number of steps run.
func (e *Engine) Advance(dt float32) int {
	e.acc += dt
	n := 0
	for e.acc >= e.fixedStep && n < e.maxSteps {
		e.Step()
		e.acc -= e.fixedStep
		n++
	}
	if n == e.maxSteps && e.acc >= e.fixedStep {
		e.log.Debug("physics falling behind, dropping time", zap.Float32("dropped", e.acc))
		e.acc = 0
	}
	return n
}

// Step runs one fixed step on every space, in creation order. Each space
// first calls its step callback, then simulates, then reports moved bodies
// and new trigger contacts to the listener.
func (e *Engine) Step() {
	handles := slices.Sorted(maps.Keys(e.spaces))
	for _, h := range handles {
		sp, ok := e.spaces[h]
		if !ok {
			continue
		}
		if sp.step != nil {
			sp.step()
		}
		// The callback may have destroyed the space.
		if _, ok := e.spaces[h]; !ok {
			continue
		}
		moved, contacts := sp.simulate(e.fixedStep)
		e.report(moved, contacts)
	}
}

func (e *Engine) report(moved []*body, contacts []contact) {
	if e.listener == nil {
		return
	}
	for _, b := range moved {
		e.listener.BodyMoved(b.ref, b.position, b.rotation)
	}
	for _, c := range contacts {
		e.listener.ShapeContact(c.ref, native.Contact{PointOfContact: c.point})
	}
}

func (e *Engine) body(h native.BodyHandle) *body {
	b, ok := e.bodies[h]
	if !ok {
		e.log.Warn("unknown body", zap.Uint64("body", uint64(h)))
	}
	return b
}

func (e *Engine) SetBodyListener(l native.BodyListener) { e.listener = l }

func (e *Engine) SetStepCallback(pw native.PhysicsWorldHandle, fn func()) {
	if sp, ok := e.spaces[pw]; ok {
		sp.step = fn
	}
}

func (e *Engine) SetGravity(pw native.PhysicsWorldHandle, g rl.Vector3) {
	if sp, ok := e.spaces[pw]; ok {
		sp.gravity = g
		sp.wakeAll()
	}
}

func (e *Engine) createBody(pw native.PhysicsWorldHandle, pos rl.Vector3, rot rl.Quaternion, ref native.ProxyRef, trigger bool) native.BodyHandle {
	sp, ok := e.spaces[pw]
	if !ok {
		e.log.Warn("body created in unknown space", zap.Uint64("space", uint64(pw)))
		return 0
	}
	b := &body{
		handle:   native.BodyHandle(e.id()),
		space:    sp,
		ref:      ref,
		trigger:  trigger,
		position: pos,
		rotation: rot,
		bodyType: native.BodyDynamic,
		gravity:  true,
	}
	if trigger {
		b.bodyType = native.BodyKinematic
	}
	sp.bodies = append(sp.bodies, b)
	e.bodies[b.handle] = b
	return b.handle
}

func (e *Engine) destroyBody(b *body) {
	for _, s := range b.shapes {
		delete(e.shapes, s.handle)
	}
	b.space.remove(b)
	delete(e.bodies, b.handle)
}

func (e *Engine) CreateRigidBody(pw native.PhysicsWorldHandle, pos rl.Vector3, rot rl.Quaternion, ref native.ProxyRef) native.BodyHandle {
	return e.createBody(pw, pos, rot, ref, false)
}

func (e *Engine) CreateCollisionBody(pw native.PhysicsWorldHandle, pos rl.Vector3, rot rl.Quaternion, ref native.ProxyRef) native.BodyHandle {
	return e.createBody(pw, pos, rot, ref, true)
}

func (e *Engine) DestroyRigidBody(pw native.PhysicsWorldHandle, h native.BodyHandle) {
	if b := e.body(h); b != nil {
		e.destroyBody(b)
	}
}

func (e *Engine) DestroyCollisionBody(pw native.PhysicsWorldHandle, h native.BodyHandle) {
	e.DestroyRigidBody(pw, h)
}

func (e *Engine) SetBodyTransform(h native.BodyHandle, pos rl.Vector3, rot rl.Quaternion) {
	if b := e.body(h); b != nil {
		b.position = pos
		b.rotation = rot
		b.wake()
	}
}

func (e *Engine) SetBodyType(h native.BodyHandle, t native.BodyType) {
	b := e.body(h)
	if b == nil || b.trigger {
		return
	}
	b.bodyType = t
	if t != native.BodyDynamic {
		b.velocity = rl.Vector3{}
		b.angularVelocity = rl.Vector3{}
	}
	b.wake()
}

func (e *Engine) SetBodyMaterial(h native.BodyHandle, m native.PhysicsMaterial) {
	if b := e.body(h); b != nil {
		b.material = m
	}
}

func (e *Engine) SetMass(h native.BodyHandle, mass float32) {
	if b := e.body(h); b != nil {
		b.mass = mass
		b.massSet = true
	}
}

func (e *Engine) EnableGravity(h native.BodyHandle, on bool) {
	if b := e.body(h); b != nil {
		b.gravity = on
		b.wake()
	}
}

func (e *Engine) SetLinearDamping(h native.BodyHandle, d float32) {
	if b := e.body(h); b != nil {
		b.linDamp = d
	}
}

func (e *Engine) SetAngularDamping(h native.BodyHandle, d float32) {
	if b := e.body(h); b != nil {
		b.angDamp = d
	}
}

// ApplyForce accumulates force at a world-space point until the next step.
func (e *Engine) ApplyForce(h native.BodyHandle, force, point rl.Vector3) {
	b := e.body(h)
	if b == nil {
		return
	}
	b.force = rl.Vector3Add(b.force, force)
	arm := rl.Vector3Subtract(point, b.position)
	b.torque = rl.Vector3Add(b.torque, rl.Vector3CrossProduct(arm, force))
	b.wake()
}

func (e *Engine) ApplyForceToCenterOfMass(h native.BodyHandle, force rl.Vector3) {
	if b := e.body(h); b != nil {
		b.force = rl.Vector3Add(b.force, force)
		b.wake()
	}
}

func (e *Engine) ApplyTorque(h native.BodyHandle, torque rl.Vector3) {
	if b := e.body(h); b != nil {
		b.torque = rl.Vector3Add(b.torque, torque)
		b.wake()
	}
}

func (e *Engine) addShape(h native.BodyHandle, desc native.ShapeDesc, ref native.ProxyRef, trigger bool) native.ShapeHandle {
	b := e.body(h)
	if b == nil {
		return 0
	}
	s := &shape{
		handle:  native.ShapeHandle(e.id()),
		body:    b,
		desc:    desc,
		ref:     ref,
		trigger: trigger,
	}
	b.shapes = append(b.shapes, s)
	e.shapes[s.handle] = s
	b.wake()
	return s.handle
}

func (e *Engine) removeShape(h native.ShapeHandle) {
	s, ok := e.shapes[h]
	if !ok {
		return
	}
	b := s.body
	if i := slices.Index(b.shapes, s); i >= 0 {
		b.shapes = slices.Delete(b.shapes, i, i+1)
	}
	b.space.forgetShape(s)
	delete(e.shapes, h)
}

func (e *Engine) CreateShape(h native.BodyHandle, desc native.ShapeDesc) native.ShapeHandle {
	return e.addShape(h, desc, 0, false)
}

func (e *Engine) DestroyShape(h native.BodyHandle, s native.ShapeHandle) { e.removeShape(s) }

func (e *Engine) CreateTriggerShape(h native.BodyHandle, desc native.ShapeDesc, ref native.ProxyRef) native.ShapeHandle {
	return e.addShape(h, desc, ref, true)
}

func (e *Engine) DestroyTriggerShape(h native.BodyHandle, s native.ShapeHandle) { e.removeShape(s) }

func (e *Engine) SetShapeTransform(h native.ShapeHandle, pos rl.Vector3, rot rl.Quaternion) {
	if s, ok := e.shapes[h]; ok {
		s.desc.Position = pos
		s.desc.Rotation = rot
		s.body.wake()
	}
}

// BodyPosition reports the current pose of a body, for tools and tests.
func (e *Engine) BodyPosition(h native.BodyHandle) (rl.Vector3, rl.Quaternion, bool) {
	b, ok := e.bodies[h]
	if !ok {
		return rl.Vector3{}, rl.Quaternion{}, false
	}
	return b.position, b.rotation, true
}

// Sleeping reports whether a body has come to rest.
func (e *Engine) Sleeping(h native.BodyHandle) bool {
	b, ok := e.bodies[h]
	return ok && b.sleeping
}

var _ native.Physics = (*Engine)(nil)
