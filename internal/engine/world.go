package engine

import (
	"fmt"

	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// viewBoundsMargin pads the camera's far plane when computing the box of
// space the renderer considers visible.
const viewBoundsMargin = 5

// PhysicsSpace is the physics side of a world, supplied by a PhysicsProvider.
type PhysicsSpace interface {
	Handle() native.PhysicsWorldHandle
	Close()
}

// PhysicsProvider creates physics spaces for new worlds.
type PhysicsProvider interface {
	NewSpace(w *World, h native.PhysicsWorldHandle) PhysicsSpace
}

// World owns a set of entities and the native scene they render into.
type World struct {
	Name string
	// Sky is pushed to the renderer every frame a main camera is set.
	Sky native.SkySettings

	id        uuid.UUID
	ctx       *Context
	handle    native.WorldHandle
	physics   PhysicsSpace
	entities  map[*Entity]struct{}
	drawn     map[Renderable]native.EntityHandle
	lights    map[LightSource]native.LightHandle
	probes    map[ProbeSource]native.ProbeHandle
	destroyed bool
}

func newWorld(ctx *Context, h native.WorldHandle) *World {
	return &World{
		Sky:      DefaultSky(),
		id:       uuid.New(),
		ctx:      ctx,
		handle:   h,
		entities: make(map[*Entity]struct{}),
		drawn:    make(map[Renderable]native.EntityHandle),
		lights:   make(map[LightSource]native.LightHandle),
		probes:   make(map[ProbeSource]native.ProbeHandle),
	}
}

// DefaultSky is a plain blue-grey sky without textures.
func DefaultSky() native.SkySettings {
	return native.SkySettings{
		Color:    rl.Vector3{X: 0.5, Y: 0.6, Z: 0.7},
		Exposure: 1,
		Gamma:    2.2,
		Ambient:  0.1,
	}
}

func (w *World) ID() uuid.UUID              { return w.id }
func (w *World) Handle() native.WorldHandle { return w.handle }
func (w *World) Context() *Context          { return w.ctx }

// Physics returns the world's physics space, or nil for a physics-less world.
func (w *World) Physics() PhysicsSpace { return w.physics }

func (w *World) Len() int { return len(w.entities) }

func (w *World) Contains(e *Entity) bool {
	_, ok := w.entities[e]
	return ok
}

// Entities returns the members in no particular order.
func (w *World) Entities() []*Entity {
	out := make([]*Entity, 0, len(w.entities))
	for e := range w.entities {
		out = append(out, e)
	}
	return out
}

// FindByID returns the member with the given id.
func (w *World) FindByID(id uuid.UUID) *Entity {
	for e := range w.entities {
		if e.id == id {
			return e
		}
	}
	return nil
}

// FindByName returns the first member found with the given name.
func (w *World) FindByName(name string) *Entity {
	for e := range w.entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// AddEntity makes e a member. Adding a member again does nothing. An entity
// that belongs to another world leaves that world's member set first, then
// its components see OnWorldRemove(old) followed by OnWorldAdd(w).
//
// Renderables, lights and probes are pushed to the renderer once, here.
func (w *World) AddEntity(e *Entity) error {
	if e == nil {
		return ErrNilEntity
	}
	if w.destroyed {
		return ErrWorldDestroyed
	}
	if w.Contains(e) {
		return nil
	}
	if prev := e.world; prev != nil {
		prev.release(e)
	}

	w.entities[e] = struct{}{}
	e.setWorld(w)
	w.pushSnapshots(e)

	w.ctx.log.Debug("entity added",
		zap.Stringer("entity", e),
		zap.String("world", w.Name),
		zap.Int("components", len(e.components)))
	return nil
}

// RemoveEntity fires OnWorldRemove on every component of e and drops it
// from the world and the renderer.
func (w *World) RemoveEntity(e *Entity) error {
	if e == nil {
		return ErrNilEntity
	}
	if !w.Contains(e) {
		return fmt.Errorf("%w: %s", ErrNotMember, e)
	}
	e.setWorld(nil)
	w.release(e)
	return nil
}

// RepushDescriptors sends fresh light and probe snapshots for e. Lights and
// probes never follow later edits on their own.
func (w *World) RepushDescriptors(e *Entity) error {
	if !w.Contains(e) {
		return fmt.Errorf("%w: %s", ErrNotMember, e)
	}
	n := w.ctx.native
	for _, l := range ComponentsOf[LightSource](e) {
		if h, ok := w.lights[l]; ok {
			n.UpdateLight(w.handle, h, l.LightInfo())
		} else {
			w.lights[l] = n.AddLight(w.handle, l.LightInfo())
		}
	}
	for _, p := range ComponentsOf[ProbeSource](e) {
		if h, ok := w.probes[p]; ok {
			n.UpdateProbe(w.handle, h, p.ProbeInfo())
		} else {
			w.probes[p] = n.AddProbe(w.handle, p.ProbeInfo())
		}
	}
	return nil
}

// Update updates every member, then pushes the main camera's state. Without
// a main camera the push is skipped.
func (w *World) Update() {
	for _, e := range w.Entities() {
		if e.world == w {
			e.Update()
		}
	}

	cam := w.ctx.MainCamera()
	if cam == nil {
		return
	}
	n := w.ctx.native
	pos := cam.Position()
	ext := cam.FarPlane() + viewBoundsMargin
	pad := rl.Vector3{X: ext, Y: ext, Z: ext}
	n.SetCameraPosition(w.handle, pos)
	n.SetCameraMatrices(w.handle, cam.View(), cam.Projection())
	n.SetViewBounds(w.handle, rl.Vector3Subtract(pos, pad), rl.Vector3Add(pos, pad))
	n.SetSkyViewProjection(w.handle, cam.SkyViewProjection())
	n.SetSkySettings(w.handle, w.Sky)
}

// Destroy removes every entity, closes the physics space and releases the
// native world. The world cannot be used afterwards.
func (w *World) Destroy() {
	if w.destroyed {
		return
	}
	for _, e := range w.Entities() {
		_ = w.RemoveEntity(e)
	}
	if w.physics != nil {
		w.physics.Close()
	}
	w.destroyed = true
	w.ctx.native.DestroyWorld(w.handle)
	w.ctx.worlds.forget(w)
	w.ctx.log.Debug("world destroyed", zap.String("world", w.Name))
}

func (w *World) Destroyed() bool { return w.destroyed }

func (w *World) pushSnapshots(e *Entity) {
	n := w.ctx.native
	if c, ok := e.Lookup(CapRenderable); ok {
		if r, ok := c.(Renderable); ok {
			r.SyncPosition()
			n.AddEntity(w.handle, r.NativeEntity())
			w.drawn[r] = r.NativeEntity()
		}
	}
	for _, l := range ComponentsOf[LightSource](e) {
		w.lights[l] = n.AddLight(w.handle, l.LightInfo())
	}
	for _, p := range ComponentsOf[ProbeSource](e) {
		w.probes[p] = n.AddProbe(w.handle, p.ProbeInfo())
	}
}

// release drops e from the member set and the renderer without touching
// component hooks.
func (w *World) release(e *Entity) {
	delete(w.entities, e)
	for _, c := range e.components {
		w.releaseComponent(c)
	}
}

// releaseComponent withdraws whatever c pushed to the renderer in this world.
func (w *World) releaseComponent(c Component) {
	n := w.ctx.native
	if r, ok := c.(Renderable); ok {
		if h, ok := w.drawn[r]; ok {
			n.RemoveEntity(w.handle, h)
			delete(w.drawn, r)
		}
	}
	if l, ok := c.(LightSource); ok {
		if h, ok := w.lights[l]; ok {
			n.RemoveLight(w.handle, h)
			delete(w.lights, l)
		}
	}
	if p, ok := c.(ProbeSource); ok {
		if h, ok := w.probes[p]; ok {
			n.RemoveProbe(w.handle, h)
			delete(w.probes, p)
		}
	}
}
