package physics

import (
	"lava/internal/engine"
	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// World is the physics space of an engine.World. Bodies are created only
// through its factory methods.
type World struct {
	sys       *System
	owner     *engine.World
	handle    native.PhysicsWorldHandle
	gravity   rl.Vector3
	bodies    map[*RigidBody]struct{}
	colliders map[*CollisionBody]struct{}
	closed    bool
}

func (w *World) Handle() native.PhysicsWorldHandle { return w.handle }
func (w *World) Owner() *engine.World              { return w.owner }
func (w *World) Gravity() rl.Vector3               { return w.gravity }

func (w *World) SetGravity(g rl.Vector3) {
	w.gravity = g
	w.sys.native.SetGravity(w.handle, g)
}

// CreateRigidBody returns a dynamic body posed at pos/rot. Its native proxy
// is created when the body is added to an entity with a transform, and the
// transform is moved to the body's pose.
func (w *World) CreateRigidBody(pos rl.Vector3, rot rl.Quaternion) *RigidBody {
	rb := newRigidBody(w)
	rb.position = pos
	rb.rotation = rot
	rb.posed = true
	return rb
}

func (w *World) CreateRigidBodyAt(pos rl.Vector3) *RigidBody {
	return w.CreateRigidBody(pos, rl.QuaternionIdentity())
}

// NewRigidBody returns a body that takes its initial pose from the entity's
// transform when attached.
func (w *World) NewRigidBody() *RigidBody {
	return newRigidBody(w)
}

// CreateCollisionBody returns a trigger body. It always follows its entity's
// transform.
func (w *World) CreateCollisionBody() *CollisionBody {
	return newCollisionBody(w)
}

// Bodies returns the number of rigid and collision bodies with a native proxy.
func (w *World) Bodies() int {
	n := 0
	for rb := range w.bodies {
		if rb.attached {
			n++
		}
	}
	for cb := range w.colliders {
		if cb.attached {
			n++
		}
	}
	return n
}

// Close releases every native proxy still alive in the world. Bodies stay
// valid managed objects but can no longer attach.
func (w *World) Close() {
	if w.closed {
		return
	}
	for rb := range w.bodies {
		rb.detach()
	}
	for cb := range w.colliders {
		cb.detach()
	}
	w.closed = true
	w.sys.forget(w)
	w.sys.log.Debug("physics world closed", zap.Uint64("handle", uint64(w.handle)))
}
