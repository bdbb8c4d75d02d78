package engine

import (
	"testing"

	"lava/internal/native/nativetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructRunsInitAndRegistersOrphan(t *testing.T) {
	ctx, _ := newTestContext(t)
	log := &hookLog{}

	r := newRecorder(ctx, "a", log)

	assert.Equal(t, []string{"a:init"}, log.entries)
	assert.Nil(t, r.Owner())
	assert.True(t, r.IsOrphan())
	assert.Equal(t, 1, ctx.Events().PhysicsUpdate.ListenerCount())
}

func TestConstructTwicePanics(t *testing.T) {
	ctx, _ := newTestContext(t)
	r := newRecorder(ctx, "a", &hookLog{})

	assert.Panics(t, func() { ctx.Construct(r) })
}

func TestOwnerAndOrphanRegistryAgree(t *testing.T) {
	ctx, _ := newTestContext(t)
	log := &hookLog{}
	e := ctx.NewEntity("e")
	r := newRecorder(ctx, "a", log)

	check := func(stage string) {
		assert.Equal(t, r.Owner() != nil, !r.IsOrphan(), stage)
	}

	check("constructed")
	require.NoError(t, e.AddComponent(r))
	check("added")
	assert.Same(t, e, r.Owner())
	require.NoError(t, e.RemoveComponent(r))
	check("removed")
	require.NoError(t, e.AddComponent(r))
	check("re-added")
	r.Destroy()
	assert.Nil(t, r.Owner())
	assert.False(t, r.IsOrphan())
	assert.Equal(t, 0, ctx.OrphanCount())
}

func TestAddComponentWhileInWorldFiresWorldAddOnce(t *testing.T) {
	ctx, _ := newTestContext(t)
	log := &hookLog{}
	w := newTestWorld(t, ctx, "w")
	e := ctx.NewEntity("e")
	require.NoError(t, w.AddEntity(e))

	r := newRecorder(ctx, "a", log)
	log.reset()
	require.NoError(t, e.AddComponent(r))

	assert.Equal(t, []string{"a:owner-add", "a:world-add:w"}, log.entries)
}

func TestAddComponentOutsideWorldFiresOnlyOwnerAdd(t *testing.T) {
	ctx, _ := newTestContext(t)
	log := &hookLog{}
	e := ctx.NewEntity("e")
	r := newRecorder(ctx, "a", log)
	log.reset()

	require.NoError(t, e.AddComponent(r))

	assert.Equal(t, []string{"a:owner-add"}, log.entries)
}

func TestRemoveComponentInWorldOrder(t *testing.T) {
	ctx, _ := newTestContext(t)
	log := &hookLog{}
	w := newTestWorld(t, ctx, "w")
	e := ctx.NewEntity("e")
	r := newRecorder(ctx, "a", log)
	require.NoError(t, e.AddComponent(r))
	require.NoError(t, w.AddEntity(e))
	log.reset()

	require.NoError(t, e.RemoveComponent(r))

	assert.Equal(t, []string{"a:world-remove:w", "a:owner-remove"}, log.entries)
	assert.Empty(t, e.Components())
	assert.True(t, r.IsOrphan())
}

func TestRemoveComponentNotOwned(t *testing.T) {
	ctx, _ := newTestContext(t)
	e := ctx.NewEntity("e")
	other := ctx.NewEntity("other")
	r := newRecorder(ctx, "a", &hookLog{})
	require.NoError(t, other.AddComponent(r))

	err := e.RemoveComponent(r)

	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Same(t, other, r.Owner())
}

func TestAddComponentRefusedRollsBack(t *testing.T) {
	ctx, _ := newTestContext(t)
	log := &hookLog{}
	w := newTestWorld(t, ctx, "w")
	e := ctx.NewEntity("e")
	require.NoError(t, w.AddEntity(e))
	r := newRecorder(ctx, "a", log)
	r.refuse = true
	log.reset()

	err := e.AddComponent(r)

	assert.ErrorIs(t, err, errRefused)
	assert.Equal(t, []string{"a:owner-add"}, log.entries, "no world-add after refusal")
	assert.Nil(t, r.Owner())
	assert.True(t, r.IsOrphan())
	assert.Empty(t, e.Components())
}

func TestAddComponentAlreadyOwned(t *testing.T) {
	ctx, _ := newTestContext(t)
	a := ctx.NewEntity("a")
	b := ctx.NewEntity("b")
	r := newRecorder(ctx, "r", &hookLog{})
	require.NoError(t, a.AddComponent(r))

	assert.ErrorIs(t, b.AddComponent(r), ErrComponentOwned)
	assert.ErrorIs(t, a.AddComponent(r), ErrComponentOwned)
	assert.Len(t, a.Components(), 1)
}

func TestAddComponentRejectsDestroyedAndUnconstructed(t *testing.T) {
	ctx, _ := newTestContext(t)
	e := ctx.NewEntity("e")
	r := newRecorder(ctx, "r", &hookLog{})
	r.Destroy()

	assert.ErrorIs(t, e.AddComponent(r), ErrComponentDestroyed)
	assert.ErrorIs(t, e.AddComponent(&recorder{}), ErrNotConstructed)
}

func TestDestroyDetachesAndUnsubscribes(t *testing.T) {
	ctx, _ := newTestContext(t)
	log := &hookLog{}
	w := newTestWorld(t, ctx, "w")
	e := ctx.NewEntity("e")
	r := newRecorder(ctx, "a", log)
	require.NoError(t, e.AddComponent(r))
	require.NoError(t, w.AddEntity(e))
	log.reset()

	r.Destroy()
	r.Destroy()

	assert.Equal(t, []string{"a:world-remove:w", "a:owner-remove", "a:destroy"}, log.entries)
	assert.True(t, r.Destroyed())
	assert.Equal(t, 0, ctx.Events().PhysicsUpdate.ListenerCount())
	ctx.Events().FirePhysicsUpdate()
	assert.Equal(t, 0, r.physics)
}

func TestPhysicsUpdateReachesEveryComponent(t *testing.T) {
	ctx, _ := newTestContext(t)
	e := ctx.NewEntity("e")
	a := newRecorder(ctx, "a", &hookLog{})
	b := newRecorder(ctx, "b", &hookLog{})
	require.NoError(t, e.AddComponent(a))

	ctx.Events().FirePhysicsUpdate()
	ctx.Events().FirePhysicsUpdate()

	assert.Equal(t, 2, a.physics)
	assert.Equal(t, 2, b.physics, "orphans are subscribed too")
}

func TestGetComponentFirstInInsertionOrder(t *testing.T) {
	ctx, _ := newTestContext(t)
	e := ctx.NewEntity("e")
	first := newRecorder(ctx, "first", &hookLog{})
	second := newRecorder(ctx, "second", &hookLog{})
	require.NoError(t, e.AddComponent(first))
	require.NoError(t, e.AddComponent(second))

	got, ok := GetComponent[*recorder](e)
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.True(t, HasComponent[*recorder](e))
	assert.Len(t, ComponentsOf[*recorder](e), 2)

	_, ok = GetComponent[*light](e)
	assert.False(t, ok, "missing component is not an error")
}

func TestCapabilitySlotsFollowFirstComponent(t *testing.T) {
	ctx, _ := newTestContext(t)
	e := ctx.NewEntity("e")
	l1 := New[light](ctx)
	l2 := New[light](ctx)
	require.NoError(t, e.AddComponent(l1))
	require.NoError(t, e.AddComponent(l2))

	c, ok := e.Lookup(CapLight)
	require.True(t, ok)
	assert.Same(t, l1, c)

	require.NoError(t, e.RemoveComponent(l1))
	c, ok = e.Lookup(CapLight)
	require.True(t, ok)
	assert.Same(t, l2, c)

	_, ok = e.Lookup(CapTransform)
	assert.False(t, ok)
	_, ok = e.Transform()
	assert.False(t, ok)
}

func TestAddConstructsAndAttaches(t *testing.T) {
	ctx, _ := newTestContext(t)
	e, l, err := NewEntityWith[light](ctx, "lamp")
	require.NoError(t, err)

	assert.Same(t, e, l.Owner())
	assert.Equal(t, "lamp", e.Name)
	assert.Equal(t, 0, ctx.OrphanCount())
}

func TestUpdateRunsLateUpdatersAfterEveryComponent(t *testing.T) {
	ctx, _ := newTestContext(t)
	log := &hookLog{}
	e := ctx.NewEntity("e")
	l := &late{recorder{name: "late", log: log}}
	ctx.Construct(l)
	r := newRecorder(ctx, "plain", log)
	require.NoError(t, e.AddComponent(l))
	require.NoError(t, e.AddComponent(r))
	log.reset()

	e.Update()

	assert.Equal(t, []string{"late:update", "plain:update", "late:late"}, log.entries)
}

func TestEntityIDsAreUnique(t *testing.T) {
	ctx, _ := newTestContext(t)
	a := ctx.NewEntity("a")
	b := ctx.NewEntity("b")

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Contains(t, a.String(), "a(")
}

func TestRemoveComponentRefusedWhileRequired(t *testing.T) {
	ctx, _ := newTestContext(t)
	e := ctx.NewEntity("e")
	p := New[pose](ctx)
	f := New[follower](ctx)
	require.NoError(t, e.AddComponent(p))
	require.NoError(t, e.AddComponent(f))

	err := e.RemoveComponent(p)
	require.ErrorIs(t, err, ErrRequiredBy)
	assert.Same(t, e, p.Owner())
	assert.False(t, p.IsOrphan())
	c, ok := e.Lookup(CapTransform)
	require.True(t, ok)
	assert.Same(t, p, c)

	require.NoError(t, e.RemoveComponent(f))
	require.NoError(t, e.RemoveComponent(p))
	assert.True(t, p.IsOrphan())
}

func TestDestroyDetachesDependentsFirst(t *testing.T) {
	ctx, _ := newTestContext(t)
	log := &hookLog{}
	w := newTestWorld(t, ctx, "w")
	e := ctx.NewEntity("e")
	p := New[pose](ctx)
	f := New[follower](ctx)
	r := newRecorder(ctx, "a", log)
	require.NoError(t, e.AddComponent(p))
	require.NoError(t, e.AddComponent(f))
	require.NoError(t, e.AddComponent(r))
	require.NoError(t, w.AddEntity(e))

	p.Destroy()

	assert.True(t, p.Destroyed())
	assert.Nil(t, f.Owner())
	assert.True(t, f.IsOrphan())
	assert.False(t, f.Destroyed())
	assert.Same(t, e, r.Owner())
	assert.Equal(t, []Component{r}, e.Components())
}

func TestAddComponentFromAnotherContextFails(t *testing.T) {
	ctx, _ := newTestContext(t)
	other := NewContext(nativetest.New(), nil)
	t.Cleanup(other.Close)
	e := ctx.NewEntity("e")
	l := New[light](other)

	err := e.AddComponent(l)
	require.ErrorIs(t, err, ErrForeignContext)
	assert.Nil(t, l.Owner())
	assert.True(t, l.IsOrphan())
	assert.Empty(t, e.Components())
}
