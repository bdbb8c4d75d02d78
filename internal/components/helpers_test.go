package components

import (
	"testing"

	"lava/internal/engine"
	"lava/internal/native/nativetest"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func newTestContext(t *testing.T) (*engine.Context, *nativetest.Fake) {
	t.Helper()
	fake := nativetest.New()
	ctx := engine.NewContext(fake, nil)
	t.Cleanup(ctx.Close)
	return ctx, fake
}

func newTestWorld(t *testing.T, ctx *engine.Context) *engine.World {
	t.Helper()
	w, err := ctx.Worlds().CreateWorld(true, false)
	require.NoError(t, err)
	return w
}

func assertVec3(t *testing.T, want, got rl.Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "x")
	assert.InDelta(t, want.Y, got.Y, eps, "y")
	assert.InDelta(t, want.Z, got.Z, eps, "z")
}
