package components

import (
	"testing"

	"lava/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
)

func TestCameraDefaults(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := engine.New[Camera](ctx)

	assert.Equal(t, Perspective, c.Kind())
	assert.InDelta(t, 45, c.FieldOfView(), eps)
	assert.InDelta(t, 1.7395, c.Aspect(), eps)
	assert.InDelta(t, 0.1, c.NearPlane(), eps)
	assert.InDelta(t, 800, c.FarPlane(), eps)
	assertVec3(t, rl.Vector3{Z: -1}, c.Forward())
}

func TestCameraFollowsFramebufferResize(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := engine.New[Camera](ctx)

	ctx.Events().FireFramebufferResize(800, 400)
	assert.InDelta(t, 2, c.Aspect(), eps)

	ctx.Events().FireFramebufferResize(0, 0)
	assert.InDelta(t, 2, c.Aspect(), eps)
}

func TestCameraUnsubscribesOnDestroy(t *testing.T) {
	ctx, _ := newTestContext(t)
	before := ctx.Events().FramebufferResize.ListenerCount()
	c := engine.New[Camera](ctx)
	assert.Equal(t, before+1, ctx.Events().FramebufferResize.ListenerCount())

	c.MakeMain()
	c.Destroy()
	assert.Equal(t, before, ctx.Events().FramebufferResize.ListenerCount())
	assert.Nil(t, ctx.MainCamera())
}

func TestCameraBasisAndView(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := engine.New[Camera](ctx)
	c.SetPosition(rl.Vector3{Z: 5})
	c.SetTarget(rl.Vector3{})

	assertVec3(t, rl.Vector3{Z: -1}, c.Forward())
	assertVec3(t, rl.Vector3{X: 1}, c.Right())
	assertVec3(t, rl.Vector3{Y: 1}, c.Up())
	assertVec3(t, rl.Vector3{Z: -5}, rl.Vector3Transform(rl.Vector3{}, c.View()))
}

func TestCameraRotate(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := engine.New[Camera](ctx)
	c.Rotate(90, rl.Vector3{Y: 1})

	assertVec3(t, rl.Vector3{X: -1}, c.Forward())
}

func TestCameraClipFlipsY(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := engine.New[Camera](ctx)
	c.SetPosition(rl.Vector3{Z: 5})

	above := rl.Vector3{Y: 1}
	gl := rl.Vector3Transform(above, c.ViewProjectionGL())
	vk := rl.Vector3Transform(above, c.ViewProjection())
	assert.Greater(t, gl.Y, float32(0))
	assert.Less(t, vk.Y, float32(0))
}

func TestCameraSkyIgnoresTranslation(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := engine.New[Camera](ctx)
	atOrigin := c.SkyViewProjection()

	c.SetPosition(rl.Vector3{X: 10, Y: -3, Z: 7})
	assert.Equal(t, atOrigin, c.SkyViewProjection())
	assert.NotEqual(t, atOrigin, c.ViewProjection())
}

func TestOrthographicCamera(t *testing.T) {
	ctx, _ := newTestContext(t)
	c, err := engine.CreateComponent(ctx, "Camera", map[string]any{"projection": "orthographic"})
	assert.NoError(t, err)
	cam := c.(*Camera)

	assert.Equal(t, Orthographic, cam.Kind())
	assert.InDelta(t, 1, cam.FarPlane(), eps)
	p := cam.Projection()
	assert.InDelta(t, 2.0/1336, p.M0, eps)
}

func TestMainCameraDrivesWorldPush(t *testing.T) {
	ctx, fake := newTestContext(t)
	w := newTestWorld(t, ctx)
	c := engine.New[Camera](ctx)
	c.SetPosition(rl.Vector3{X: 1})
	c.MakeMain()

	w.Update()
	ws := fake.Worlds[w.Handle()]
	assert.Equal(t, rl.Vector3{X: 1}, ws.CameraPos)
	assert.Equal(t, c.View(), ws.View)
	assert.Equal(t, c.SkyViewProjection(), ws.SkyVP)
	assertVec3(t, rl.Vector3{X: 1 - 805, Y: -805, Z: -805}, ws.BoundsMin)
}
