package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// CollisionInfo describes one contact on a trigger shape.
type CollisionInfo struct {
	PointOfContact rl.Vector3
	// Owner is the collision body the trigger shape is proxied on.
	Owner *CollisionBody
}

// TriggerHandler is implemented by components that want every trigger
// contact reported on their entity's collision bodies.
type TriggerHandler interface {
	OnTrigger(info CollisionInfo)
}
