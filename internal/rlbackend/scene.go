package rlbackend

import (
	"slices"

	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// spaceAllocator is the part of the physics engine a scene needs to give
// worlds their own physics space.
type spaceAllocator interface {
	CreateSpace() native.PhysicsWorldHandle
	DestroySpace(pw native.PhysicsWorldHandle)
}

type entity struct {
	mesh     native.MeshHandle
	material native.MaterialHandle
	model    rl.Matrix
	mvp      rl.Matrix
	position rl.Vector3
}

type world struct {
	handle   native.WorldHandle
	physics  native.PhysicsWorldHandle
	entities []native.EntityHandle
	lights   map[native.LightHandle]native.LightInfo
	probes   map[native.ProbeHandle]native.ProbeInfo

	camera     rl.Vector3
	view, proj rl.Matrix
	hasCamera  bool
	boundsMin  rl.Vector3
	boundsMax  rl.Vector3
	skyVP      rl.Matrix
	sky        native.SkySettings
}

// Scene keeps the render state the managed side pushes through native.Scene.
type Scene struct {
	log      *zap.Logger
	spaces   spaceAllocator
	next     uint64
	worlds   map[native.WorldHandle]*world
	current  native.WorldHandle
	entities map[native.EntityHandle]*entity
}

func NewScene(spaces spaceAllocator, log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scene{
		log:      log.Named("scene"),
		spaces:   spaces,
		worlds:   make(map[native.WorldHandle]*world),
		entities: make(map[native.EntityHandle]*entity),
	}
}

func (s *Scene) id() uint64 {
	s.next++
	return s.next
}

func (s *Scene) world(h native.WorldHandle) *world {
	w, ok := s.worlds[h]
	if !ok {
		s.log.Warn("unknown world", zap.Uint64("world", uint64(h)))
	}
	return w
}

func (s *Scene) entity(h native.EntityHandle) *entity {
	e, ok := s.entities[h]
	if !ok {
		s.log.Warn("unknown entity", zap.Uint64("entity", uint64(h)))
	}
	return e
}

func (s *Scene) CreateWorld(makeCurrent, hasPhysics bool) native.WorldHandle {
	w := &world{
		handle: native.WorldHandle(s.id()),
		lights: make(map[native.LightHandle]native.LightInfo),
		probes: make(map[native.ProbeHandle]native.ProbeInfo),
	}
	if hasPhysics && s.spaces != nil {
		w.physics = s.spaces.CreateSpace()
	}
	s.worlds[w.handle] = w
	if makeCurrent {
		s.current = w.handle
	}
	return w.handle
}

func (s *Scene) DestroyWorld(h native.WorldHandle) {
	w := s.world(h)
	if w == nil {
		return
	}
	if w.physics != 0 {
		s.spaces.DestroySpace(w.physics)
	}
	delete(s.worlds, h)
	if s.current == h {
		s.current = 0
	}
}

func (s *Scene) CurrentWorld() native.WorldHandle { return s.current }

func (s *Scene) SetCurrentWorld(h native.WorldHandle) {
	if s.world(h) != nil {
		s.current = h
	}
}

func (s *Scene) PhysicsWorldOf(h native.WorldHandle) native.PhysicsWorldHandle {
	if w := s.world(h); w != nil {
		return w.physics
	}
	return 0
}

func (s *Scene) CreateEntity() native.EntityHandle {
	h := native.EntityHandle(s.id())
	s.entities[h] = &entity{model: rl.MatrixIdentity(), mvp: rl.MatrixIdentity()}
	return h
}

// DestroyEntity also drops the entity from every world it was drawn in.
func (s *Scene) DestroyEntity(h native.EntityHandle) {
	delete(s.entities, h)
	for _, w := range s.worlds {
		w.entities = slices.DeleteFunc(w.entities, func(e native.EntityHandle) bool { return e == h })
	}
}

func (s *Scene) SetEntityMesh(h native.EntityHandle, mesh native.MeshHandle) {
	if e := s.entity(h); e != nil {
		e.mesh = mesh
	}
}

func (s *Scene) SetEntityMaterial(h native.EntityHandle, mat native.MaterialHandle) {
	if e := s.entity(h); e != nil {
		e.material = mat
	}
}

func (s *Scene) AddEntity(wh native.WorldHandle, h native.EntityHandle) {
	w := s.world(wh)
	if w == nil || s.entity(h) == nil || slices.Contains(w.entities, h) {
		return
	}
	w.entities = append(w.entities, h)
}

func (s *Scene) RemoveEntity(wh native.WorldHandle, h native.EntityHandle) {
	if w := s.world(wh); w != nil {
		w.entities = slices.DeleteFunc(w.entities, func(e native.EntityHandle) bool { return e == h })
	}
}

func (s *Scene) SetEntityModel(h native.EntityHandle, model rl.Matrix) {
	if e := s.entity(h); e != nil {
		e.model = model
	}
}

func (s *Scene) SetEntityMVP(h native.EntityHandle, mvp rl.Matrix) {
	if e := s.entity(h); e != nil {
		e.mvp = mvp
	}
}

func (s *Scene) SetEntityPosition(h native.EntityHandle, pos rl.Vector3) {
	if e := s.entity(h); e != nil {
		e.position = pos
	}
}

func (s *Scene) AddLight(wh native.WorldHandle, info native.LightInfo) native.LightHandle {
	w := s.world(wh)
	if w == nil {
		return 0
	}
	h := native.LightHandle(s.id())
	w.lights[h] = info
	return h
}

func (s *Scene) UpdateLight(wh native.WorldHandle, l native.LightHandle, info native.LightInfo) {
	if w := s.world(wh); w != nil {
		if _, ok := w.lights[l]; ok {
			w.lights[l] = info
		}
	}
}

func (s *Scene) RemoveLight(wh native.WorldHandle, l native.LightHandle) {
	if w := s.world(wh); w != nil {
		delete(w.lights, l)
	}
}

func (s *Scene) AddProbe(wh native.WorldHandle, info native.ProbeInfo) native.ProbeHandle {
	w := s.world(wh)
	if w == nil {
		return 0
	}
	h := native.ProbeHandle(s.id())
	w.probes[h] = info
	return h
}

func (s *Scene) UpdateProbe(wh native.WorldHandle, p native.ProbeHandle, info native.ProbeInfo) {
	if w := s.world(wh); w != nil {
		if _, ok := w.probes[p]; ok {
			w.probes[p] = info
		}
	}
}

func (s *Scene) RemoveProbe(wh native.WorldHandle, p native.ProbeHandle) {
	if w := s.world(wh); w != nil {
		delete(w.probes, p)
	}
}

func (s *Scene) SetCameraPosition(wh native.WorldHandle, pos rl.Vector3) {
	if w := s.world(wh); w != nil {
		w.camera = pos
	}
}

func (s *Scene) SetCameraMatrices(wh native.WorldHandle, view, projection rl.Matrix) {
	if w := s.world(wh); w != nil {
		w.view, w.proj = view, projection
		w.hasCamera = true
	}
}

func (s *Scene) SetViewBounds(wh native.WorldHandle, min, max rl.Vector3) {
	if w := s.world(wh); w != nil {
		w.boundsMin, w.boundsMax = min, max
	}
}

func (s *Scene) SetSkyViewProjection(wh native.WorldHandle, vp rl.Matrix) {
	if w := s.world(wh); w != nil {
		w.skyVP = vp
	}
}

func (s *Scene) SetSkySettings(wh native.WorldHandle, sky native.SkySettings) {
	if w := s.world(wh); w != nil {
		w.sky = sky
	}
}

// Drawn reports the entities of world h in draw order.
func (s *Scene) Drawn(h native.WorldHandle) []native.EntityHandle {
	if w, ok := s.worlds[h]; ok {
		return slices.Clone(w.entities)
	}
	return nil
}

// Lights reports the light snapshots of world h.
func (s *Scene) Lights(h native.WorldHandle) []native.LightInfo {
	w, ok := s.worlds[h]
	if !ok {
		return nil
	}
	out := make([]native.LightInfo, 0, len(w.lights))
	for _, l := range w.lights {
		out = append(out, l)
	}
	return out
}

// visible lists the entities of w inside both the pushed view bounds and
// the camera frustum.
func (s *Scene) visible(w *world) []*entity {
	frustum := NewFrustum(rl.MatrixMultiply(w.view, w.proj))
	out := make([]*entity, 0, len(w.entities))
	for _, h := range w.entities {
		e := s.entities[h]
		if e == nil || e.mesh == 0 {
			continue
		}
		p := e.position
		if p.X < w.boundsMin.X || p.Y < w.boundsMin.Y || p.Z < w.boundsMin.Z ||
			p.X > w.boundsMax.X || p.Y > w.boundsMax.Y || p.Z > w.boundsMax.Z {
			continue
		}
		if !frustum.ContainsSphere(p, cullRadius(e.model)) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// cullRadius is a generous bound for a unit mesh under model's scale.
func cullRadius(model rl.Matrix) float32 {
	sx := rl.Vector3Length(rl.Vector3{X: model.M0, Y: model.M1, Z: model.M2})
	sy := rl.Vector3Length(rl.Vector3{X: model.M4, Y: model.M5, Z: model.M6})
	sz := rl.Vector3Length(rl.Vector3{X: model.M8, Y: model.M9, Z: model.M10})
	return max(sx, sy, sz) * 2
}

var _ native.Scene = (*Scene)(nil)
