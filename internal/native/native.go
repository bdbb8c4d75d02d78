// Package native describes the boundary between the managed object model and
// the engine that owns rendering, physics simulation, audio and the window.
//
// Everything here is a handle, a plain descriptor, or an interface. The core
// never looks behind a handle; it only hands it back to the Engine that issued it.
package native

import rl "github.com/gen2brain/raylib-go/raylib"

type (
	WorldHandle        uint64
	PhysicsWorldHandle uint64
	EntityHandle       uint64
	BodyHandle         uint64
	ShapeHandle        uint64
	LightHandle        uint64
	ProbeHandle        uint64
	MeshHandle         uint64
	MaterialHandle     uint64
	TextureHandle      uint64
	SoundHandle        uint64
)

// ProxyRef is the opaque context value the core hands to the physics engine
// when it creates a body or trigger shape. The engine passes it back verbatim
// in BodyMoved / ShapeContact. It is never a pointer.
type ProxyRef uint64

// Engine is the full collaborator surface.
type Engine interface {
	Host
	Clock
	Input
	Scene
	Physics
	Assets
	Audio
}

// Host drives the frame loop and owns the window.
type Host interface {
	RegisterUpdateCallback(fn func())
	RegisterFramebufferResizeCallback(fn func(width, height int))
	SetFullscreen(on bool)
	// Run blocks until Quit is called or the window is closed.
	Run() error
	Quit()
}

type Clock interface {
	Time() float32
	DeltaTime() float32
	FixedDeltaTime() float32
	TimeScale() float32
	SetTimeScale(scale float32)
}

type Input interface {
	KeyDown(key int32) bool
	KeyPressed(key int32) bool
	MouseDelta() rl.Vector2
}

// Scene is the rendering side of a world.
type Scene interface {
	CreateWorld(makeCurrent, hasPhysics bool) WorldHandle
	DestroyWorld(w WorldHandle)
	CurrentWorld() WorldHandle
	SetCurrentWorld(w WorldHandle)
	PhysicsWorldOf(w WorldHandle) PhysicsWorldHandle

	CreateEntity() EntityHandle
	DestroyEntity(e EntityHandle)
	SetEntityMesh(e EntityHandle, mesh MeshHandle)
	SetEntityMaterial(e EntityHandle, mat MaterialHandle)
	AddEntity(w WorldHandle, e EntityHandle)
	RemoveEntity(w WorldHandle, e EntityHandle)
	SetEntityModel(e EntityHandle, model rl.Matrix)
	SetEntityMVP(e EntityHandle, mvp rl.Matrix)
	SetEntityPosition(e EntityHandle, pos rl.Vector3)

	AddLight(w WorldHandle, info LightInfo) LightHandle
	UpdateLight(w WorldHandle, l LightHandle, info LightInfo)
	RemoveLight(w WorldHandle, l LightHandle)
	AddProbe(w WorldHandle, info ProbeInfo) ProbeHandle
	UpdateProbe(w WorldHandle, p ProbeHandle, info ProbeInfo)
	RemoveProbe(w WorldHandle, p ProbeHandle)

	SetCameraPosition(w WorldHandle, pos rl.Vector3)
	SetCameraMatrices(w WorldHandle, view, projection rl.Matrix)
	SetViewBounds(w WorldHandle, min, max rl.Vector3)
	SetSkyViewProjection(w WorldHandle, vp rl.Matrix)
	SetSkySettings(w WorldHandle, sky SkySettings)
}

// BodyListener receives every per-body callback from the physics engine.
type BodyListener interface {
	BodyMoved(ref ProxyRef, pos rl.Vector3, rot rl.Quaternion)
	ShapeContact(ref ProxyRef, contact Contact)
}

type Physics interface {
	SetBodyListener(l BodyListener)
	// SetStepCallback registers the function invoked once before every fixed step.
	SetStepCallback(pw PhysicsWorldHandle, fn func())
	SetGravity(pw PhysicsWorldHandle, g rl.Vector3)

	CreateRigidBody(pw PhysicsWorldHandle, pos rl.Vector3, rot rl.Quaternion, ref ProxyRef) BodyHandle
	DestroyRigidBody(pw PhysicsWorldHandle, b BodyHandle)
	CreateCollisionBody(pw PhysicsWorldHandle, pos rl.Vector3, rot rl.Quaternion, ref ProxyRef) BodyHandle
	DestroyCollisionBody(pw PhysicsWorldHandle, b BodyHandle)

	SetBodyTransform(b BodyHandle, pos rl.Vector3, rot rl.Quaternion)
	SetBodyType(b BodyHandle, t BodyType)
	SetBodyMaterial(b BodyHandle, m PhysicsMaterial)
	SetMass(b BodyHandle, mass float32)
	EnableGravity(b BodyHandle, on bool)
	SetLinearDamping(b BodyHandle, d float32)
	SetAngularDamping(b BodyHandle, d float32)
	ApplyForce(b BodyHandle, force, point rl.Vector3)
	ApplyForceToCenterOfMass(b BodyHandle, force rl.Vector3)
	ApplyTorque(b BodyHandle, torque rl.Vector3)

	CreateShape(b BodyHandle, desc ShapeDesc) ShapeHandle
	DestroyShape(b BodyHandle, s ShapeHandle)
	CreateTriggerShape(b BodyHandle, desc ShapeDesc, ref ProxyRef) ShapeHandle
	DestroyTriggerShape(b BodyHandle, s ShapeHandle)
	SetShapeTransform(s ShapeHandle, pos rl.Vector3, rot rl.Quaternion)
}

type Assets interface {
	LoadTexture(path string, genMips bool) TextureHandle
	LoadTextureHDR(path string, genMips bool) TextureHandle
	TextureFromColor(c rl.Color) TextureHandle
	LoadMesh(path string) MeshHandle
	NewMaterial(pipeline string) MaterialHandle
	LoadMaterial(descriptorPath string) MaterialHandle
	SetMaterialTexture(m MaterialHandle, slot int, tex TextureHandle)
}

type Audio interface {
	LoadSound(path string) SoundHandle
	PlaySound(s SoundHandle)
	StopSound(s SoundHandle)
	SetSoundLooping(s SoundHandle, loop bool)
	SetSoundVolume(s SoundHandle, volume float32)
}
