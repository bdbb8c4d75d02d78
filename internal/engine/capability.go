package engine

import (
	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Capability tags the role a component plays on its entity. The entity keeps
// one slot per capability pointing at the first component that declared it.
type Capability uint8

const (
	CapNone Capability = iota
	CapTransform
	CapRenderable
	CapLight
	CapProbe
	CapCamera
	CapRigidBody
	CapCollisionBody
	CapAudio
	CapScript

	capCount
)

var capNames = [capCount]string{
	CapNone:          "none",
	CapTransform:     "transform",
	CapRenderable:    "renderable",
	CapLight:         "light",
	CapProbe:         "probe",
	CapCamera:        "camera",
	CapRigidBody:     "rigidbody",
	CapCollisionBody: "collisionbody",
	CapAudio:         "audio",
	CapScript:        "script",
}

func (c Capability) String() string {
	if c >= capCount {
		return "unknown"
	}
	return capNames[c]
}

// Capable is implemented by components that fill a capability slot.
type Capable interface {
	Capability() Capability
}

// Dependent is implemented by components that bind to other capabilities of
// their entity at attach time. A component filling one of those slots cannot
// be removed while the dependent is attached.
type Dependent interface {
	Requires() []Capability
}

// Renderable is a component with a native scene entity.
type Renderable interface {
	NativeEntity() native.EntityHandle
	// SyncPosition pushes the current transform to the native entity.
	SyncPosition()
}

// LightSource produces the descriptor snapshot pushed when its entity joins
// a world.
type LightSource interface {
	LightInfo() native.LightInfo
}

type ProbeSource interface {
	ProbeInfo() native.ProbeInfo
}

// Posed is the transform contract physics bodies and renderables rely on.
type Posed interface {
	Position() rl.Vector3
	SetPosition(p rl.Vector3)
	Rotation() rl.Quaternion
	SetRotation(q rl.Quaternion)
	Model() rl.Matrix
}

// CameraView is what a world needs from the main camera.
type CameraView interface {
	Position() rl.Vector3
	FarPlane() float32
	View() rl.Matrix
	Projection() rl.Matrix
	ViewProjection() rl.Matrix
	SkyViewProjection() rl.Matrix
}
