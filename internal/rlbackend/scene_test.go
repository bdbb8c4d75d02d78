package rlbackend

import (
	"testing"

	"lava/internal/native"
	"lava/internal/softphysics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldsAndPhysicsSpaces(t *testing.T) {
	phys := softphysics.New(nil, 0, 0)
	s := NewScene(phys, nil)

	a := s.CreateWorld(false, true)
	assert.Zero(t, s.CurrentWorld(), "makeCurrent=false leaves current unset")
	assert.NotZero(t, s.PhysicsWorldOf(a))

	b := s.CreateWorld(true, false)
	assert.Equal(t, b, s.CurrentWorld())
	assert.Zero(t, s.PhysicsWorldOf(b))

	s.SetCurrentWorld(a)
	assert.Equal(t, a, s.CurrentWorld())

	pw := s.PhysicsWorldOf(a)
	body := phys.CreateRigidBody(pw, rl.Vector3{}, rl.QuaternionIdentity(), 1)
	s.DestroyWorld(a)
	assert.Zero(t, s.CurrentWorld())
	_, _, ok := phys.BodyPosition(body)
	assert.False(t, ok, "destroying a world drops its physics space")
}

func TestEntityMembership(t *testing.T) {
	s := NewScene(nil, nil)
	w := s.CreateWorld(true, false)
	e := s.CreateEntity()

	s.AddEntity(w, e)
	s.AddEntity(w, e)
	assert.Equal(t, []native.EntityHandle{e}, s.Drawn(w))

	s.RemoveEntity(w, e)
	assert.Empty(t, s.Drawn(w))

	s.AddEntity(w, e)
	s.DestroyEntity(e)
	assert.Empty(t, s.Drawn(w))

	// Unknown handles are ignored.
	assert.NotPanics(t, func() {
		s.SetEntityModel(e, rl.MatrixIdentity())
		s.AddEntity(w, 999)
		s.UpdateLight(w, 999, native.LightInfo{})
	})
	assert.Empty(t, s.Drawn(w))
}

func TestLightsAndProbes(t *testing.T) {
	s := NewScene(nil, nil)
	w := s.CreateWorld(true, false)

	l := s.AddLight(w, native.LightInfo{Type: native.LightPoint, Intensity: 1})
	s.UpdateLight(w, l, native.LightInfo{Type: native.LightPoint, Intensity: 3})
	require.Len(t, s.Lights(w), 1)
	assert.Equal(t, float32(3), s.Lights(w)[0].Intensity)

	p := s.AddProbe(w, native.ProbeInfo{})
	s.UpdateProbe(w, p, native.ProbeInfo{Position: rl.Vector3{Y: 2}})
	assert.Equal(t, float32(2), s.worlds[w].probes[p].Position.Y)

	s.RemoveLight(w, l)
	s.RemoveProbe(w, p)
	assert.Empty(t, s.Lights(w))
	assert.Empty(t, s.worlds[w].probes)
}

func TestVisibleCullsByBoundsAndFrustum(t *testing.T) {
	s := NewScene(nil, nil)
	w := s.CreateWorld(true, false)

	view := rl.MatrixLookAt(rl.Vector3{}, rl.Vector3{Z: -1}, rl.Vector3{Y: 1})
	proj := rl.MatrixPerspective(45*rl.Deg2rad, 1, 0.1, 100)
	s.SetCameraMatrices(w, view, proj)
	s.SetViewBounds(w, rl.Vector3{X: -50, Y: -50, Z: -50}, rl.Vector3{X: 50, Y: 50, Z: 50})

	place := func(pos rl.Vector3) native.EntityHandle {
		e := s.CreateEntity()
		s.SetEntityMesh(e, 1)
		s.SetEntityPosition(e, pos)
		s.SetEntityModel(e, rl.MatrixTranslate(pos.X, pos.Y, pos.Z))
		s.AddEntity(w, e)
		return e
	}
	place(rl.Vector3{Z: -10}) // in view
	place(rl.Vector3{Z: 10})  // behind
	place(rl.Vector3{Z: -60}) // outside bounds
	noMesh := s.CreateEntity()
	s.AddEntity(w, noMesh)

	visible := s.visible(s.worlds[w])
	require.Len(t, visible, 1)
	assert.Equal(t, float32(-10), visible[0].position.Z)
}
