package softphysics

import (
	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	// SleepVelocityThreshold is the speed under which a body starts to doze.
	SleepVelocityThreshold = 0.05
	// SleepDelay is how long a body must stay slow before it sleeps.
	SleepDelay = 0.5
)

type body struct {
	handle  native.BodyHandle
	space   *space
	ref     native.ProxyRef
	trigger bool

	position rl.Vector3
	rotation rl.Quaternion

	bodyType native.BodyType
	mass     float32
	massSet  bool
	gravity  bool
	material native.PhysicsMaterial
	linDamp  float32
	angDamp  float32

	velocity        rl.Vector3
	angularVelocity rl.Vector3 // radians per second
	force           rl.Vector3
	torque          rl.Vector3

	sleeping   bool
	sleepTimer float32

	shapes []*shape
}

func (b *body) dynamic() bool { return b.bodyType == native.BodyDynamic && !b.trigger }

// inverseMass is zero for bodies the solver never moves.
func (b *body) inverseMass() float32 {
	if !b.dynamic() {
		return 0
	}
	return 1 / b.effectiveMass()
}

func (b *body) effectiveMass() float32 {
	if b.massSet && b.mass > 0 {
		return b.mass
	}
	var m float32
	for _, s := range b.shapes {
		m += s.desc.Mass
	}
	if m <= 0 {
		return 1
	}
	return m
}

func (b *body) wake() {
	b.sleeping = false
	b.sleepTimer = 0
}

// trySleep puts a slow body to sleep after SleepDelay seconds.
func (b *body) trySleep(dt float32) {
	if rl.Vector3Length(b.velocity) > SleepVelocityThreshold ||
		rl.Vector3Length(b.angularVelocity) > SleepVelocityThreshold {
		b.sleepTimer = 0
		return
	}
	b.sleepTimer += dt
	if b.sleepTimer >= SleepDelay {
		b.sleeping = true
		b.velocity = rl.Vector3{}
		b.angularVelocity = rl.Vector3{}
	}
}

type shape struct {
	handle  native.ShapeHandle
	body    *body
	desc    native.ShapeDesc
	ref     native.ProxyRef
	trigger bool
}

// center returns the shape's world-space center.
func (s *shape) center() rl.Vector3 {
	b := s.body
	return rl.Vector3Add(b.position, rl.Vector3RotateByQuaternion(s.desc.Position, b.rotation))
}

func (s *shape) rotation() rl.Quaternion {
	return rl.QuaternionMultiply(s.body.rotation, s.desc.Rotation)
}

// obb returns the shape's oriented box. Spheres and capsules use their
// bounding box.
func (s *shape) obb() OBB {
	return NewOBB(s.center(), s.halfExtent(), s.rotation())
}

func (s *shape) halfExtent() rl.Vector3 {
	d := s.desc
	switch d.Kind {
	case native.ShapeSphere:
		return rl.Vector3{X: d.Radius, Y: d.Radius, Z: d.Radius}
	case native.ShapeCapsule:
		return rl.Vector3{X: d.Radius, Y: d.Height/2 + d.Radius, Z: d.Radius}
	default:
		return d.HalfExtent
	}
}
