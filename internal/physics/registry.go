package physics

import (
	"errors"
	"fmt"

	"lava/internal/engine"
	"lava/internal/native"
	"lava/internal/prop"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var ErrUnknownShape = errors.New("unknown shape kind")

// Scene files create bodies in the current world, which must have physics.
func init() {
	engine.RegisterComponent("RigidBody", func(ctx *engine.Context, props map[string]any) (engine.Component, error) {
		pw, err := currentWorld(ctx)
		if err != nil {
			return nil, err
		}
		rb := pw.NewRigidBody()
		if err := configureRigidBody(rb, props); err != nil {
			rb.Destroy()
			return nil, err
		}
		return rb, nil
	})
	engine.RegisterComponent("CollisionBody", func(ctx *engine.Context, props map[string]any) (engine.Component, error) {
		pw, err := currentWorld(ctx)
		if err != nil {
			return nil, err
		}
		cb := pw.CreateCollisionBody()
		for _, sp := range prop.List(props, "shapes") {
			s, err := ShapeFromProps(sp)
			if err == nil {
				err = cb.AddCollisionShape(s)
			}
			if err != nil {
				cb.Destroy()
				return nil, err
			}
		}
		return cb, nil
	})
}

func currentWorld(ctx *engine.Context) (*World, error) {
	w := ctx.Worlds().Current()
	if w == nil {
		return nil, ErrNoPhysicsWorld
	}
	pw := Of(w)
	if pw == nil {
		return nil, ErrNoPhysicsWorld
	}
	return pw, nil
}

// ParseBodyType accepts "static", "kinematic" or "dynamic".
func ParseBodyType(s string) (native.BodyType, bool) {
	for _, t := range []native.BodyType{native.BodyStatic, native.BodyKinematic, native.BodyDynamic} {
		if t.String() == s {
			return t, true
		}
	}
	return native.BodyDynamic, false
}

func configureRigidBody(rb *RigidBody, props map[string]any) error {
	if s := prop.String(props, "type", ""); s != "" {
		t, ok := ParseBodyType(s)
		if !ok {
			return fmt.Errorf("rigid body type %q", s)
		}
		rb.SetType(t)
	}
	if m := prop.Float(props, "mass", 0); m > 0 {
		rb.SetMass(m)
	}
	rb.EnableGravity(prop.Bool(props, "gravity", true))
	def := DefaultMaterial()
	rb.SetMaterial(native.PhysicsMaterial{
		Friction:          prop.Float(props, "friction", def.Friction),
		RollingResistance: prop.Float(props, "rolling_resistance", def.RollingResistance),
		Bounciness:        prop.Float(props, "bounciness", def.Bounciness),
	})
	rb.SetLinearDamping(prop.Float(props, "linear_damping", rb.LinearDamping()))
	rb.SetAngularDamping(prop.Float(props, "angular_damping", rb.AngularDamping()))
	for _, sp := range prop.List(props, "shapes") {
		s, err := ShapeFromProps(sp)
		if err != nil {
			return err
		}
		if err := rb.AddCollisionShape(s); err != nil {
			return err
		}
	}
	return nil
}

// ShapeFromProps builds a shape from {kind, mass} plus half_extent or size
// for boxes, radius for spheres and radius and height for capsules.
func ShapeFromProps(props map[string]any) (Shape, error) {
	mass := prop.Float(props, "mass", 1)
	switch kind := prop.String(props, "kind", "box"); kind {
	case "box":
		size := prop.Float(props, "size", 1)
		half := prop.Vec3(props, "half_extent", rl.Vector3{X: size / 2, Y: size / 2, Z: size / 2})
		return NewBoxShape(half, mass), nil
	case "sphere":
		return NewSphereShape(prop.Float(props, "radius", 0.5), mass), nil
	case "capsule":
		return NewCapsuleShape(prop.Float(props, "radius", 0.5), prop.Float(props, "height", 1), mass), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, kind)
	}
}
