package physics

import (
	"testing"

	"lava/internal/components"
	"lava/internal/engine"
	"lava/internal/native/nativetest"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx   *engine.Context
	fake  *nativetest.Fake
	sys   *System
	world *engine.World
	pw    *World
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := nativetest.New()
	ctx := engine.NewContext(fake, nil)
	t.Cleanup(ctx.Close)
	sys := NewSystem(ctx, DefaultGravity)
	w, err := ctx.Worlds().CreateWorld(true, true)
	require.NoError(t, err)
	pw := Of(w)
	require.NotNil(t, pw)
	return &fixture{ctx: ctx, fake: fake, sys: sys, world: w, pw: pw}
}

// entity returns an entity with a Transform at pos.
func (f *fixture) entity(t *testing.T, name string, pos rl.Vector3) (*engine.Entity, *components.Transform) {
	t.Helper()
	e, tr, err := engine.NewEntityWith[components.Transform](f.ctx, name)
	require.NoError(t, err)
	tr.SetPosition(pos)
	return e, tr
}

type triggerLog struct {
	engine.BaseComponent
	got []CollisionInfo
}

func (l *triggerLog) OnTrigger(info CollisionInfo) { l.got = append(l.got, info) }
