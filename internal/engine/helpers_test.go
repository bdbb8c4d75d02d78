package engine

import (
	"errors"
	"fmt"
	"testing"

	"lava/internal/native"
	"lava/internal/native/nativetest"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/require"
)

var errRefused = errors.New("refused")

// hookLog collects hook invocations across components.
type hookLog struct {
	entries []string
}

func (l *hookLog) add(format string, args ...any) {
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

func (l *hookLog) reset() { l.entries = nil }

type recorder struct {
	BaseComponent
	name    string
	log     *hookLog
	refuse  bool
	physics int
}

func (r *recorder) OnInit() { r.log.add("%s:init", r.name) }

func (r *recorder) OnEntityAddOwner() error {
	r.log.add("%s:owner-add", r.name)
	if r.refuse {
		return errRefused
	}
	return nil
}

func (r *recorder) OnEntityRemoveOwner()   { r.log.add("%s:owner-remove", r.name) }
func (r *recorder) OnWorldAdd(w *World)    { r.log.add("%s:world-add:%s", r.name, w.Name) }
func (r *recorder) OnWorldRemove(w *World) { r.log.add("%s:world-remove:%s", r.name, w.Name) }
func (r *recorder) OnUpdate()              { r.log.add("%s:update", r.name) }
func (r *recorder) OnPhysicsUpdate()       { r.physics++ }
func (r *recorder) OnDestroy()             { r.log.add("%s:destroy", r.name) }

func newRecorder(ctx *Context, name string, log *hookLog) *recorder {
	r := &recorder{name: name, log: log}
	ctx.Construct(r)
	return r
}

type late struct {
	recorder
}

func (l *late) OnLateUpdate() { l.log.add("%s:late", l.name) }

type light struct {
	BaseComponent
	intensity float32
}

func (l *light) Capability() Capability { return CapLight }

func (l *light) LightInfo() native.LightInfo {
	return native.LightInfo{Type: native.LightPoint, Intensity: l.intensity}
}

type probe struct {
	BaseComponent
}

func (p *probe) Capability() Capability      { return CapProbe }
func (p *probe) ProbeInfo() native.ProbeInfo { return native.ProbeInfo{} }

// pose fills the transform slot; follower binds to it.
type pose struct {
	BaseComponent
}

func (p *pose) Capability() Capability { return CapTransform }

type follower struct {
	BaseComponent
}

func (f *follower) Requires() []Capability { return []Capability{CapTransform} }

type visual struct {
	BaseComponent
	handle native.EntityHandle
	synced int
}

func (v *visual) Capability() Capability            { return CapRenderable }
func (v *visual) NativeEntity() native.EntityHandle { return v.handle }
func (v *visual) SyncPosition()                     { v.synced++ }

type camera struct {
	pos rl.Vector3
	far float32
}

func (c *camera) Position() rl.Vector3         { return c.pos }
func (c *camera) FarPlane() float32            { return c.far }
func (c *camera) View() rl.Matrix              { return rl.MatrixIdentity() }
func (c *camera) Projection() rl.Matrix        { return rl.MatrixIdentity() }
func (c *camera) ViewProjection() rl.Matrix    { return rl.MatrixIdentity() }
func (c *camera) SkyViewProjection() rl.Matrix { return rl.MatrixIdentity() }

type stubSpace struct {
	handle native.PhysicsWorldHandle
	closed bool
}

func (s *stubSpace) Handle() native.PhysicsWorldHandle { return s.handle }
func (s *stubSpace) Close()                            { s.closed = true }

type stubProvider struct {
	spaces []*stubSpace
}

func (p *stubProvider) NewSpace(w *World, h native.PhysicsWorldHandle) PhysicsSpace {
	s := &stubSpace{handle: h}
	p.spaces = append(p.spaces, s)
	return s
}

func newTestContext(t *testing.T) (*Context, *nativetest.Fake) {
	t.Helper()
	fake := nativetest.New()
	ctx := NewContext(fake, nil)
	t.Cleanup(ctx.Close)
	return ctx, fake
}

func newTestWorld(t *testing.T, ctx *Context, name string) *World {
	t.Helper()
	w, err := ctx.Worlds().CreateWorld(true, false)
	require.NoError(t, err)
	w.Name = name
	return w
}
