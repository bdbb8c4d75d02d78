package components

import (
	"testing"

	"lava/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformDefaults(t *testing.T) {
	ctx, _ := newTestContext(t)
	tr := engine.New[Transform](ctx)

	assert.Equal(t, rl.QuaternionIdentity(), tr.Rotation())
	assert.Equal(t, rl.Vector3{X: 1, Y: 1, Z: 1}, tr.Scale())
	assert.Equal(t, rl.MatrixIdentity(), tr.Model())
}

func TestTransformModelIsRebuiltAfterChange(t *testing.T) {
	ctx, _ := newTestContext(t)
	tr := engine.New[Transform](ctx)
	tr.SetScale(rl.Vector3{X: 2, Y: 2, Z: 2})
	tr.SetPosition(rl.Vector3{X: 1, Y: 2, Z: 3})

	m := tr.Model()
	assert.InDelta(t, 2, m.M0, eps)
	assert.InDelta(t, 1, m.M12, eps)
	assert.InDelta(t, 2, m.M13, eps)
	assert.InDelta(t, 3, m.M14, eps)

	tr.Translate(rl.Vector3{X: 1})
	assert.InDelta(t, 2, tr.Model().M12, eps)
}

func TestTransformRotate(t *testing.T) {
	ctx, _ := newTestContext(t)
	tr := engine.New[Transform](ctx)
	tr.Rotate(90, rl.Vector3{Y: 1})

	assertVec3(t, rl.Vector3{X: -1}, tr.Forward())
	p := rl.Vector3Transform(rl.Vector3{X: 1}, tr.Model())
	assertVec3(t, rl.Vector3{Z: -1}, p)
}

func TestTransformSatisfiesPosed(t *testing.T) {
	ctx, _ := newTestContext(t)
	e, tr, err := engine.NewEntityWith[Transform](ctx, "e")
	require.NoError(t, err)

	posed, ok := e.Transform()
	require.True(t, ok)
	posed.SetPosition(rl.Vector3{Y: 5})
	assert.Equal(t, rl.Vector3{Y: 5}, tr.Position())
}

func TestTransformFromProps(t *testing.T) {
	ctx, _ := newTestContext(t)
	c, err := engine.CreateComponent(ctx, "Transform", map[string]any{
		"position": []any{1, 2.5, 3},
		"scale":    []any{2.0, 2.0, 2.0},
		"rotation": []any{0, 90, 0},
	})
	require.NoError(t, err)
	tr := c.(*Transform)

	assert.Equal(t, rl.Vector3{X: 1, Y: 2.5, Z: 3}, tr.Position())
	assert.Equal(t, rl.Vector3{X: 2, Y: 2, Z: 2}, tr.Scale())
	assertVec3(t, rl.Vector3{X: -1}, tr.Forward())
}
