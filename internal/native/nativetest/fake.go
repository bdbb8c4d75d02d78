// Package nativetest provides an in-memory native.Engine that records every
// call made across the boundary and lets tests play the engine's side of the
// callback protocol.
package nativetest

import (
	"fmt"

	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var _ native.Engine = (*Fake)(nil)

type Body struct {
	Handle    native.BodyHandle
	World     native.PhysicsWorldHandle
	Ref       native.ProxyRef
	Trigger   bool
	Position  rl.Vector3
	Rotation  rl.Quaternion
	Type      native.BodyType
	Mass      float32
	Gravity   bool
	Material  native.PhysicsMaterial
	Linear    float32
	Angular   float32
	Destroyed bool
}

type Shape struct {
	Handle    native.ShapeHandle
	Body      native.BodyHandle
	Desc      native.ShapeDesc
	Ref       native.ProxyRef
	Trigger   bool
	Destroyed bool
}

type Light struct {
	World native.WorldHandle
	Info  native.LightInfo
}

type Entity struct {
	Mesh     native.MeshHandle
	Material native.MaterialHandle
	Model    rl.Matrix
	MVP      rl.Matrix
	Position rl.Vector3
	Worlds   []native.WorldHandle
}

type WorldState struct {
	Physics    native.PhysicsWorldHandle
	HasPhysics bool
	Destroyed  bool
	CameraPos  rl.Vector3
	BoundsMin  rl.Vector3
	BoundsMax  rl.Vector3
	SkyVP      rl.Matrix
	Sky        native.SkySettings
	View       rl.Matrix
	Projection rl.Matrix
}

// Fake is not safe for concurrent use, matching the single-threaded contract
// of the real engine callbacks.
type Fake struct {
	Calls []string

	Worlds   map[native.WorldHandle]*WorldState
	Current  native.WorldHandle
	Entities map[native.EntityHandle]*Entity
	Bodies   map[native.BodyHandle]*Body
	Shapes   map[native.ShapeHandle]*Shape
	Lights   map[native.LightHandle]*Light
	Probes   map[native.ProbeHandle]native.ProbeInfo
	Gravity  map[native.PhysicsWorldHandle]rl.Vector3
	Sounds   map[native.SoundHandle]string
	Playing  map[native.SoundHandle]bool

	Keys      map[int32]bool
	Mouse     rl.Vector2
	Delta     float32
	FixedStep float32
	Scale     float32
	Now       float32

	listener    native.BodyListener
	stepFns     map[native.PhysicsWorldHandle]func()
	updateFn    func()
	resizeFn    func(w, h int)
	nextHandle  uint64
	quit        bool
	Fullscreen  bool
	FramesOnRun int
}

func New() *Fake {
	return &Fake{
		Worlds:    make(map[native.WorldHandle]*WorldState),
		Entities:  make(map[native.EntityHandle]*Entity),
		Bodies:    make(map[native.BodyHandle]*Body),
		Shapes:    make(map[native.ShapeHandle]*Shape),
		Lights:    make(map[native.LightHandle]*Light),
		Probes:    make(map[native.ProbeHandle]native.ProbeInfo),
		Gravity:   make(map[native.PhysicsWorldHandle]rl.Vector3),
		Sounds:    make(map[native.SoundHandle]string),
		Playing:   make(map[native.SoundHandle]bool),
		Keys:      make(map[int32]bool),
		stepFns:   make(map[native.PhysicsWorldHandle]func()),
		Delta:     1.0 / 60.0,
		FixedStep: 1.0 / 60.0,
		Scale:     1,
	}
}

func (f *Fake) record(format string, args ...any) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

func (f *Fake) next() uint64 {
	f.nextHandle++
	return f.nextHandle
}

// Count returns how many recorded calls start with the given name.
func (f *Fake) Count(name string) int {
	n := 0
	for _, c := range f.Calls {
		if len(c) >= len(name) && c[:len(name)] == name && (len(c) == len(name) || c[len(name)] == '(') {
			n++
		}
	}
	return n
}

// LiveBodies returns the number of bodies created and not yet destroyed.
func (f *Fake) LiveBodies() int {
	n := 0
	for _, b := range f.Bodies {
		if !b.Destroyed {
			n++
		}
	}
	return n
}

// LiveShapes returns the number of shape proxies created and not yet destroyed.
func (f *Fake) LiveShapes() int {
	n := 0
	for _, s := range f.Shapes {
		if !s.Destroyed {
			n++
		}
	}
	return n
}

// --- engine side of the callback protocol ---

// Frame invokes the registered per-frame update callback once.
func (f *Fake) Frame() {
	if f.updateFn != nil {
		f.updateFn()
	}
}

// Resize invokes the framebuffer resize callback.
func (f *Fake) Resize(w, h int) {
	if f.resizeFn != nil {
		f.resizeFn(w, h)
	}
}

// Step runs the fixed-step callback registered for pw.
func (f *Fake) Step(pw native.PhysicsWorldHandle) {
	if fn := f.stepFns[pw]; fn != nil {
		fn()
	}
}

// StepCallback reports whether pw has a step callback registered.
func (f *Fake) StepCallback(pw native.PhysicsWorldHandle) bool {
	return f.stepFns[pw] != nil
}

// MoveBody reports a new pose for body b, as the simulation would after a step.
func (f *Fake) MoveBody(b native.BodyHandle, pos rl.Vector3, rot rl.Quaternion) {
	body, ok := f.Bodies[b]
	if !ok {
		panic(fmt.Sprintf("nativetest: unknown body %d", b))
	}
	body.Position = pos
	body.Rotation = rot
	if f.listener != nil {
		f.listener.BodyMoved(body.Ref, pos, rot)
	}
}

// Touch reports a contact on trigger shape s.
func (f *Fake) Touch(s native.ShapeHandle, point rl.Vector3) {
	shape, ok := f.Shapes[s]
	if !ok || !shape.Trigger {
		panic(fmt.Sprintf("nativetest: %d is not a trigger shape", s))
	}
	if f.listener != nil {
		f.listener.ShapeContact(shape.Ref, native.Contact{PointOfContact: point})
	}
}

// SendRaw delivers a body callback with an arbitrary ref, for stale-ref tests.
func (f *Fake) SendRaw(ref native.ProxyRef, pos rl.Vector3, rot rl.Quaternion) {
	if f.listener != nil {
		f.listener.BodyMoved(ref, pos, rot)
	}
}

// BodyByRef finds the live body created with ref.
func (f *Fake) BodyByRef(ref native.ProxyRef) (*Body, bool) {
	for _, b := range f.Bodies {
		if b.Ref == ref && !b.Destroyed {
			return b, true
		}
	}
	return nil, false
}

// TriggerShapes lists live trigger shapes on body b.
func (f *Fake) TriggerShapes(b native.BodyHandle) []*Shape {
	var out []*Shape
	for _, s := range f.Shapes {
		if s.Body == b && s.Trigger && !s.Destroyed {
			out = append(out, s)
		}
	}
	return out
}

// --- Host ---

func (f *Fake) RegisterUpdateCallback(fn func()) {
	f.record("RegisterUpdateCallback")
	f.updateFn = fn
}

func (f *Fake) RegisterFramebufferResizeCallback(fn func(w, h int)) {
	f.record("RegisterFramebufferResizeCallback")
	f.resizeFn = fn
}

func (f *Fake) SetFullscreen(on bool) {
	f.record("SetFullscreen(%t)", on)
	f.Fullscreen = on
}

// Run drives FramesOnRun frames, stepping every physics world once per frame.
func (f *Fake) Run() error {
	f.record("Run")
	for i := 0; i < f.FramesOnRun && !f.quit; i++ {
		for pw := range f.stepFns {
			f.Step(pw)
		}
		f.Frame()
	}
	return nil
}

func (f *Fake) Quit() {
	f.record("Quit")
	f.quit = true
}

// --- Clock ---

func (f *Fake) Time() float32              { return f.Now }
func (f *Fake) DeltaTime() float32         { return f.Delta * f.Scale }
func (f *Fake) FixedDeltaTime() float32    { return f.FixedStep }
func (f *Fake) TimeScale() float32         { return f.Scale }
func (f *Fake) SetTimeScale(scale float32) { f.Scale = scale }
func (f *Fake) KeyDown(key int32) bool     { return f.Keys[key] }
func (f *Fake) KeyPressed(key int32) bool  { return f.Keys[key] }
func (f *Fake) MouseDelta() rl.Vector2     { return f.Mouse }

// --- Scene ---

func (f *Fake) CreateWorld(makeCurrent, hasPhysics bool) native.WorldHandle {
	h := native.WorldHandle(f.next())
	ws := &WorldState{HasPhysics: hasPhysics}
	if hasPhysics {
		ws.Physics = native.PhysicsWorldHandle(f.next())
	}
	f.Worlds[h] = ws
	if makeCurrent {
		f.Current = h
	}
	f.record("CreateWorld(%d)", h)
	return h
}

func (f *Fake) DestroyWorld(w native.WorldHandle) {
	f.record("DestroyWorld(%d)", w)
	if ws, ok := f.Worlds[w]; ok {
		ws.Destroyed = true
		delete(f.stepFns, ws.Physics)
	}
}

func (f *Fake) CurrentWorld() native.WorldHandle { return f.Current }

func (f *Fake) SetCurrentWorld(w native.WorldHandle) {
	f.record("SetCurrentWorld(%d)", w)
	f.Current = w
}

func (f *Fake) PhysicsWorldOf(w native.WorldHandle) native.PhysicsWorldHandle {
	if ws, ok := f.Worlds[w]; ok {
		return ws.Physics
	}
	return 0
}

func (f *Fake) CreateEntity() native.EntityHandle {
	h := native.EntityHandle(f.next())
	f.Entities[h] = &Entity{}
	f.record("CreateEntity(%d)", h)
	return h
}

func (f *Fake) DestroyEntity(e native.EntityHandle) {
	f.record("DestroyEntity(%d)", e)
	delete(f.Entities, e)
}

func (f *Fake) SetEntityMesh(e native.EntityHandle, mesh native.MeshHandle) {
	f.record("SetEntityMesh(%d)", e)
	f.Entities[e].Mesh = mesh
}

func (f *Fake) SetEntityMaterial(e native.EntityHandle, mat native.MaterialHandle) {
	f.record("SetEntityMaterial(%d)", e)
	f.Entities[e].Material = mat
}

func (f *Fake) AddEntity(w native.WorldHandle, e native.EntityHandle) {
	f.record("AddEntity(%d)", e)
	f.Entities[e].Worlds = append(f.Entities[e].Worlds, w)
}

func (f *Fake) RemoveEntity(w native.WorldHandle, e native.EntityHandle) {
	f.record("RemoveEntity(%d)", e)
	ent := f.Entities[e]
	for i, h := range ent.Worlds {
		if h == w {
			ent.Worlds = append(ent.Worlds[:i], ent.Worlds[i+1:]...)
			return
		}
	}
}

func (f *Fake) SetEntityModel(e native.EntityHandle, model rl.Matrix) {
	f.record("SetEntityModel(%d)", e)
	f.Entities[e].Model = model
}

func (f *Fake) SetEntityMVP(e native.EntityHandle, mvp rl.Matrix) {
	f.record("SetEntityMVP(%d)", e)
	f.Entities[e].MVP = mvp
}

func (f *Fake) SetEntityPosition(e native.EntityHandle, pos rl.Vector3) {
	f.record("SetEntityPosition(%d)", e)
	f.Entities[e].Position = pos
}

func (f *Fake) AddLight(w native.WorldHandle, info native.LightInfo) native.LightHandle {
	h := native.LightHandle(f.next())
	f.Lights[h] = &Light{World: w, Info: info}
	f.record("AddLight(%d)", h)
	return h
}

func (f *Fake) UpdateLight(w native.WorldHandle, l native.LightHandle, info native.LightInfo) {
	f.record("UpdateLight(%d)", l)
	f.Lights[l].Info = info
}

func (f *Fake) RemoveLight(w native.WorldHandle, l native.LightHandle) {
	f.record("RemoveLight(%d)", l)
	delete(f.Lights, l)
}

func (f *Fake) AddProbe(w native.WorldHandle, info native.ProbeInfo) native.ProbeHandle {
	h := native.ProbeHandle(f.next())
	f.Probes[h] = info
	f.record("AddProbe(%d)", h)
	return h
}

func (f *Fake) UpdateProbe(w native.WorldHandle, p native.ProbeHandle, info native.ProbeInfo) {
	f.record("UpdateProbe(%d)", p)
	f.Probes[p] = info
}

func (f *Fake) RemoveProbe(w native.WorldHandle, p native.ProbeHandle) {
	f.record("RemoveProbe(%d)", p)
	delete(f.Probes, p)
}

func (f *Fake) SetCameraPosition(w native.WorldHandle, pos rl.Vector3) {
	f.record("SetCameraPosition")
	f.Worlds[w].CameraPos = pos
}

func (f *Fake) SetCameraMatrices(w native.WorldHandle, view, projection rl.Matrix) {
	f.record("SetCameraMatrices")
	f.Worlds[w].View = view
	f.Worlds[w].Projection = projection
}

func (f *Fake) SetViewBounds(w native.WorldHandle, min, max rl.Vector3) {
	f.record("SetViewBounds")
	f.Worlds[w].BoundsMin = min
	f.Worlds[w].BoundsMax = max
}

func (f *Fake) SetSkyViewProjection(w native.WorldHandle, vp rl.Matrix) {
	f.record("SetSkyViewProjection")
	f.Worlds[w].SkyVP = vp
}

func (f *Fake) SetSkySettings(w native.WorldHandle, sky native.SkySettings) {
	f.record("SetSkySettings")
	f.Worlds[w].Sky = sky
}

// --- Physics ---

func (f *Fake) SetBodyListener(l native.BodyListener) {
	f.record("SetBodyListener")
	f.listener = l
}

func (f *Fake) SetStepCallback(pw native.PhysicsWorldHandle, fn func()) {
	f.record("SetStepCallback(%d)", pw)
	f.stepFns[pw] = fn
}

func (f *Fake) SetGravity(pw native.PhysicsWorldHandle, g rl.Vector3) {
	f.record("SetGravity(%d)", pw)
	f.Gravity[pw] = g
}

func (f *Fake) createBody(pw native.PhysicsWorldHandle, pos rl.Vector3, rot rl.Quaternion, ref native.ProxyRef, trigger bool) native.BodyHandle {
	h := native.BodyHandle(f.next())
	f.Bodies[h] = &Body{
		Handle:   h,
		World:    pw,
		Ref:      ref,
		Trigger:  trigger,
		Position: pos,
		Rotation: rot,
		Type:     native.BodyDynamic,
		Gravity:  true,
	}
	return h
}

func (f *Fake) CreateRigidBody(pw native.PhysicsWorldHandle, pos rl.Vector3, rot rl.Quaternion, ref native.ProxyRef) native.BodyHandle {
	h := f.createBody(pw, pos, rot, ref, false)
	f.record("CreateRigidBody(%d)", h)
	return h
}

func (f *Fake) DestroyRigidBody(pw native.PhysicsWorldHandle, b native.BodyHandle) {
	f.record("DestroyRigidBody(%d)", b)
	f.Bodies[b].Destroyed = true
}

func (f *Fake) CreateCollisionBody(pw native.PhysicsWorldHandle, pos rl.Vector3, rot rl.Quaternion, ref native.ProxyRef) native.BodyHandle {
	h := f.createBody(pw, pos, rot, ref, true)
	f.record("CreateCollisionBody(%d)", h)
	return h
}

func (f *Fake) DestroyCollisionBody(pw native.PhysicsWorldHandle, b native.BodyHandle) {
	f.record("DestroyCollisionBody(%d)", b)
	f.Bodies[b].Destroyed = true
}

func (f *Fake) SetBodyTransform(b native.BodyHandle, pos rl.Vector3, rot rl.Quaternion) {
	f.record("SetBodyTransform(%d)", b)
	f.Bodies[b].Position = pos
	f.Bodies[b].Rotation = rot
}

func (f *Fake) SetBodyType(b native.BodyHandle, t native.BodyType) {
	f.record("SetBodyType(%d)", b)
	f.Bodies[b].Type = t
}

func (f *Fake) SetBodyMaterial(b native.BodyHandle, m native.PhysicsMaterial) {
	f.record("SetBodyMaterial(%d)", b)
	f.Bodies[b].Material = m
}

func (f *Fake) SetMass(b native.BodyHandle, mass float32) {
	f.record("SetMass(%d)", b)
	f.Bodies[b].Mass = mass
}

func (f *Fake) EnableGravity(b native.BodyHandle, on bool) {
	f.record("EnableGravity(%d)", b)
	f.Bodies[b].Gravity = on
}

func (f *Fake) SetLinearDamping(b native.BodyHandle, d float32) {
	f.record("SetLinearDamping(%d)", b)
	f.Bodies[b].Linear = d
}

func (f *Fake) SetAngularDamping(b native.BodyHandle, d float32) {
	f.record("SetAngularDamping(%d)", b)
	f.Bodies[b].Angular = d
}

func (f *Fake) ApplyForce(b native.BodyHandle, force, point rl.Vector3) {
	f.record("ApplyForce(%d)", b)
}

func (f *Fake) ApplyForceToCenterOfMass(b native.BodyHandle, force rl.Vector3) {
	f.record("ApplyForceToCenterOfMass(%d)", b)
}

func (f *Fake) ApplyTorque(b native.BodyHandle, torque rl.Vector3) {
	f.record("ApplyTorque(%d)", b)
}

func (f *Fake) CreateShape(b native.BodyHandle, desc native.ShapeDesc) native.ShapeHandle {
	h := native.ShapeHandle(f.next())
	f.Shapes[h] = &Shape{Handle: h, Body: b, Desc: desc}
	f.record("CreateShape(%d)", h)
	return h
}

func (f *Fake) DestroyShape(b native.BodyHandle, s native.ShapeHandle) {
	f.record("DestroyShape(%d)", s)
	f.Shapes[s].Destroyed = true
}

func (f *Fake) CreateTriggerShape(b native.BodyHandle, desc native.ShapeDesc, ref native.ProxyRef) native.ShapeHandle {
	h := native.ShapeHandle(f.next())
	f.Shapes[h] = &Shape{Handle: h, Body: b, Desc: desc, Ref: ref, Trigger: true}
	f.record("CreateTriggerShape(%d)", h)
	return h
}

func (f *Fake) DestroyTriggerShape(b native.BodyHandle, s native.ShapeHandle) {
	f.record("DestroyTriggerShape(%d)", s)
	f.Shapes[s].Destroyed = true
}

func (f *Fake) SetShapeTransform(s native.ShapeHandle, pos rl.Vector3, rot rl.Quaternion) {
	f.record("SetShapeTransform(%d)", s)
	f.Shapes[s].Desc.Position = pos
	f.Shapes[s].Desc.Rotation = rot
}

// --- Assets ---

func (f *Fake) LoadTexture(path string, genMips bool) native.TextureHandle {
	f.record("LoadTexture(%s)", path)
	return native.TextureHandle(f.next())
}

func (f *Fake) LoadTextureHDR(path string, genMips bool) native.TextureHandle {
	f.record("LoadTextureHDR(%s)", path)
	return native.TextureHandle(f.next())
}

func (f *Fake) TextureFromColor(c rl.Color) native.TextureHandle {
	f.record("TextureFromColor")
	return native.TextureHandle(f.next())
}

func (f *Fake) LoadMesh(path string) native.MeshHandle {
	f.record("LoadMesh(%s)", path)
	return native.MeshHandle(f.next())
}

func (f *Fake) NewMaterial(pipeline string) native.MaterialHandle {
	f.record("NewMaterial(%s)", pipeline)
	return native.MaterialHandle(f.next())
}

func (f *Fake) LoadMaterial(descriptorPath string) native.MaterialHandle {
	f.record("LoadMaterial(%s)", descriptorPath)
	return native.MaterialHandle(f.next())
}

func (f *Fake) SetMaterialTexture(m native.MaterialHandle, slot int, tex native.TextureHandle) {
	f.record("SetMaterialTexture(%d)", m)
}

// --- Audio ---

func (f *Fake) LoadSound(path string) native.SoundHandle {
	h := native.SoundHandle(f.next())
	f.Sounds[h] = path
	f.record("LoadSound(%s)", path)
	return h
}

func (f *Fake) PlaySound(s native.SoundHandle) {
	f.record("PlaySound(%d)", s)
	f.Playing[s] = true
}

func (f *Fake) StopSound(s native.SoundHandle) {
	f.record("StopSound(%d)", s)
	f.Playing[s] = false
}

func (f *Fake) SetSoundLooping(s native.SoundHandle, loop bool) {
	f.record("SetSoundLooping(%d)", s)
}

func (f *Fake) SetSoundVolume(s native.SoundHandle, volume float32) {
	f.record("SetSoundVolume(%d)", s)
}
