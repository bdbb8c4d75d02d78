package physics

import (
	"slices"

	"lava/internal/engine"
	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// CollisionBody is a trigger body: it takes part in overlap detection but not
// in dynamics. It follows its entity's transform, which it checks once per
// physics step.
type CollisionBody struct {
	engine.BaseComponent

	world     *World
	ref       native.ProxyRef
	handle    native.BodyHandle
	attached  bool
	transform engine.Posed

	position rl.Vector3
	rotation rl.Quaternion

	shapes []Shape
}

func newCollisionBody(w *World) *CollisionBody {
	cb := &CollisionBody{world: w, rotation: rl.QuaternionIdentity()}
	w.sys.ctx.Construct(cb)
	cb.ref = w.sys.proxies.alloc(cb)
	w.colliders[cb] = struct{}{}
	return cb
}

func (cb *CollisionBody) Capability() engine.Capability { return engine.CapCollisionBody }
func (cb *CollisionBody) Requires() []engine.Capability { return []engine.Capability{engine.CapTransform} }

func (cb *CollisionBody) Handle() native.BodyHandle { return cb.handle }
func (cb *CollisionBody) Attached() bool            { return cb.attached }
func (cb *CollisionBody) Position() rl.Vector3      { return cb.position }
func (cb *CollisionBody) Rotation() rl.Quaternion   { return cb.rotation }

func (cb *CollisionBody) OnEntityAddOwner() error {
	switch {
	case cb.world == nil:
		return ErrNoPhysicsWorld
	case cb.world.closed:
		return ErrWorldClosed
	}
	t, ok := cb.Owner().Transform()
	if !ok {
		return ErrMissingTransform
	}
	cb.transform = t
	cb.position = t.Position()
	cb.rotation = t.Rotation()

	sys := cb.world.sys
	cb.handle = sys.native.CreateCollisionBody(cb.world.handle, cb.position, cb.rotation, cb.ref)
	cb.attached = true
	for _, s := range slices.Clone(cb.shapes) {
		if err := s.CreateProxyTrigger(cb); err != nil {
			sys.log.Warn("pending trigger not proxied",
				zap.Stringer("kind", s.Kind()),
				zap.Error(err))
		}
	}
	sys.log.Debug("collision body attached",
		zap.Stringer("entity", cb.Owner()),
		zap.Uint64("proxy", uint64(cb.ref)))
	return nil
}

func (cb *CollisionBody) OnEntityRemoveOwner() {
	cb.detach()
	cb.transform = nil
}

// OnPhysicsUpdate pushes the transform's pose when it moved since the last step.
func (cb *CollisionBody) OnPhysicsUpdate() {
	if !cb.attached || cb.transform == nil {
		return
	}
	p, q := cb.transform.Position(), cb.transform.Rotation()
	if p == cb.position && q == cb.rotation {
		return
	}
	cb.position, cb.rotation = p, q
	cb.world.sys.native.SetBodyTransform(cb.handle, p, q)
}

func (cb *CollisionBody) OnDestroy() {
	cb.detach()
	cb.shapes = nil
	if cb.world != nil {
		cb.world.sys.proxies.release(cb.ref)
		delete(cb.world.colliders, cb)
	}
	cb.ref = 0
}

func (cb *CollisionBody) detach() {
	if !cb.attached {
		return
	}
	for _, s := range cb.shapes {
		if s.shape().cb == cb {
			_ = s.DestroyProxyTrigger(cb)
		}
	}
	cb.world.sys.native.DestroyCollisionBody(cb.world.handle, cb.handle)
	cb.attached = false
	cb.handle = 0
}

func (cb *CollisionBody) moved(pos rl.Vector3, rot rl.Quaternion) {
	cb.position = pos
	cb.rotation = rot
}

// SetTransform moves the body and its entity's transform.
func (cb *CollisionBody) SetTransform(p rl.Vector3, q rl.Quaternion) {
	cb.position = p
	cb.rotation = q
	if cb.transform != nil {
		cb.transform.SetPosition(p)
		cb.transform.SetRotation(q)
	}
	if cb.attached {
		cb.world.sys.native.SetBodyTransform(cb.handle, p, q)
	}
}

// AddCollisionShape adds a trigger shape. Only boxes are accepted.
func (cb *CollisionBody) AddCollisionShape(s Shape) error {
	if s.Kind() != native.ShapeBox {
		return unsupported(s.Kind(), "AddCollisionShape")
	}
	if slices.Contains(cb.shapes, s) {
		return ErrAlreadyAttached
	}
	if s.Proxied() {
		return ErrShapeInUse
	}
	cb.shapes = append(cb.shapes, s)
	if !cb.attached {
		return nil
	}
	if err := s.CreateProxyTrigger(cb); err != nil {
		cb.untrack(s)
		return err
	}
	return nil
}

func (cb *CollisionBody) RemoveCollisionShape(s Shape) error {
	if !slices.Contains(cb.shapes, s) {
		return ErrShapeNotAttached
	}
	if s.shape().cb == cb {
		if err := s.DestroyProxyTrigger(cb); err != nil {
			return err
		}
	}
	cb.untrack(s)
	return nil
}

func (cb *CollisionBody) Shapes() []Shape {
	return slices.Clone(cb.shapes)
}

func (cb *CollisionBody) track(s Shape) {
	if !slices.Contains(cb.shapes, s) {
		cb.shapes = append(cb.shapes, s)
	}
}

func (cb *CollisionBody) untrack(s Shape) {
	if i := slices.Index(cb.shapes, s); i >= 0 {
		cb.shapes = slices.Delete(cb.shapes, i, i+1)
	}
}

// dispatch reports a contact to TriggerHandler components on the entity.
func (cb *CollisionBody) dispatch(info CollisionInfo) {
	owner := cb.Owner()
	if owner == nil {
		return
	}
	for _, h := range engine.ComponentsOf[TriggerHandler](owner) {
		h.OnTrigger(info)
	}
}
