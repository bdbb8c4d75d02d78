// Package physics is the managed face of the native physics engine: physics
// worlds, rigid and trigger bodies, collision shapes and the routing of the
// engine's per-body callbacks back to them.
//
// The engine never holds a Go pointer. Every body and trigger shape is
// registered in a generational arena and the engine is handed the resulting
// native.ProxyRef, which the System resolves when a callback arrives. A ref
// that outlived its proxy resolves to nothing and the callback is dropped.
package physics

import (
	"lava/internal/engine"
	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// DefaultGravity is applied to every new physics world.
var DefaultGravity = rl.Vector3{X: 0, Y: -9.81, Z: 0}

// System routes native physics callbacks. There is one per engine.Context.
type System struct {
	ctx     *engine.Context
	log     *zap.Logger
	native  native.Physics
	gravity rl.Vector3
	proxies arena
	worlds  []*World
}

// NewSystem installs the system as the context's physics provider and as the
// engine's body listener.
func NewSystem(ctx *engine.Context, gravity rl.Vector3) *System {
	s := &System{
		ctx:     ctx,
		log:     ctx.Logger().Named("physics"),
		native:  ctx.Native(),
		gravity: gravity,
	}
	s.native.SetBodyListener(s)
	ctx.SetPhysicsProvider(s)
	return s
}

// NewSpace implements engine.PhysicsProvider.
func (s *System) NewSpace(w *engine.World, h native.PhysicsWorldHandle) engine.PhysicsSpace {
	pw := &World{
		sys:       s,
		owner:     w,
		handle:    h,
		bodies:    make(map[*RigidBody]struct{}),
		colliders: make(map[*CollisionBody]struct{}),
	}
	pw.SetGravity(s.gravity)
	s.worlds = append(s.worlds, pw)
	return pw
}

// Of returns the physics world of w, or nil when w has none.
func Of(w *engine.World) *World {
	if w == nil {
		return nil
	}
	pw, _ := w.Physics().(*World)
	return pw
}

// Live reports how many bodies and trigger shapes hold a proxy record.
func (s *System) Live() int {
	return s.proxies.live
}

// BodyMoved implements native.BodyListener.
func (s *System) BodyMoved(ref native.ProxyRef, pos rl.Vector3, rot rl.Quaternion) {
	t, ok := s.proxies.get(ref)
	if !ok {
		s.log.Warn("pose for stale proxy dropped", zap.Uint64("proxy", uint64(ref)))
		return
	}
	if m, ok := t.(mover); ok {
		m.moved(pos, rot)
	}
}

// ShapeContact implements native.BodyListener.
func (s *System) ShapeContact(ref native.ProxyRef, c native.Contact) {
	t, ok := s.proxies.get(ref)
	if !ok {
		s.log.Warn("contact for stale proxy dropped", zap.Uint64("proxy", uint64(ref)))
		return
	}
	if h, ok := t.(toucher); ok {
		h.touched(c)
	}
}

func (s *System) forget(w *World) {
	for i, x := range s.worlds {
		if x == w {
			s.worlds = append(s.worlds[:i], s.worlds[i+1:]...)
			return
		}
	}
}
