package components

import (
	"lava/internal/engine"
	"lava/internal/prop"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("Camera", func(ctx *engine.Context, props map[string]any) (engine.Component, error) {
		c := engine.New[Camera](ctx)
		if prop.String(props, "projection", "perspective") == "orthographic" {
			c.SetOrthographic(
				prop.Float(props, "width", 1336),
				prop.Float(props, "height", 768),
				prop.Float(props, "near", 0),
				prop.Float(props, "far", 1))
		} else {
			c.SetPerspective(
				prop.Float(props, "fov", 45),
				prop.Float(props, "aspect", 1.7395),
				prop.Float(props, "near", 0.1),
				prop.Float(props, "far", 800))
		}
		c.SetPosition(prop.Vec3(props, "position", rl.Vector3{}))
		if t := prop.Vec3(props, "target", rl.Vector3{}); t != c.position {
			c.SetTarget(t)
		}
		if prop.Bool(props, "main", false) {
			c.MakeMain()
		}
		return c, nil
	})
}

type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

// Clip maps OpenGL clip space to Vulkan's: Y flipped, depth in [0, 1].
var Clip = rl.Matrix{
	M0:  1,
	M5:  -1,
	M10: 0.5,
	M14: 0.5,
	M15: 1,
}

var worldUp = rl.Vector3{Y: 1}

// Camera is a free camera with its own position and orientation. It does not
// follow the entity transform; controllers drive it directly.
type Camera struct {
	engine.BaseComponent

	projection Projection
	fov        float32 // radians
	aspect     float32
	width      float32
	height     float32
	near       float32
	far        float32

	position rl.Vector3
	forward  rl.Vector3

	resize engine.ListenerID
}

func (c *Camera) OnInit() {
	c.SetPerspective(45, 1.7395, 0.1, 800)
	c.forward = rl.Vector3{Z: -1}
	c.resize = c.Context().Events().FramebufferResize.AddListener(c.onResize)
}

func (c *Camera) OnDestroy() {
	c.Context().Events().FramebufferResize.RemoveListener(c.resize)
	if c.Context().MainCamera() == engine.CameraView(c) {
		c.Context().SetMainCamera(nil)
	}
}

func (c *Camera) Capability() engine.Capability { return engine.CapCamera }

// SetPerspective takes the vertical field of view in degrees.
func (c *Camera) SetPerspective(fovDeg, aspect, near, far float32) {
	c.projection = Perspective
	c.fov = fovDeg * rl.Deg2rad
	c.aspect = aspect
	c.near, c.far = near, far
}

func (c *Camera) SetOrthographic(width, height, near, far float32) {
	c.projection = Orthographic
	c.width, c.height = width, height
	c.near, c.far = near, far
}

func (c *Camera) onResize(s engine.Size) {
	if s.Height == 0 {
		return
	}
	c.aspect = float32(s.Width) / float32(s.Height)
	c.width, c.height = float32(s.Width), float32(s.Height)
}

func (c *Camera) Kind() Projection         { return c.projection }
func (c *Camera) Aspect() float32          { return c.aspect }
func (c *Camera) FieldOfView() float32     { return c.fov * rl.Rad2deg }
func (c *Camera) NearPlane() float32       { return c.near }
func (c *Camera) FarPlane() float32        { return c.far }
func (c *Camera) Position() rl.Vector3     { return c.position }
func (c *Camera) Forward() rl.Vector3      { return c.forward }
func (c *Camera) SetPosition(p rl.Vector3) { c.position = p }

// SetForward points the camera along dir. A zero vector is ignored.
func (c *Camera) SetForward(dir rl.Vector3) {
	if rl.Vector3Length(dir) == 0 {
		return
	}
	c.forward = rl.Vector3Normalize(dir)
}

func (c *Camera) SetTarget(target rl.Vector3) {
	c.SetForward(rl.Vector3Subtract(target, c.position))
}

// Rotate turns the view direction by degrees around axis.
func (c *Camera) Rotate(degrees float32, axis rl.Vector3) {
	q := rl.QuaternionFromAxisAngle(axis, degrees*rl.Deg2rad)
	c.SetForward(rl.Vector3RotateByQuaternion(c.forward, q))
}

func (c *Camera) Right() rl.Vector3 {
	r := rl.Vector3CrossProduct(c.forward, worldUp)
	if rl.Vector3Length(r) == 0 {
		// Looking straight up or down.
		return rl.Vector3{X: 1}
	}
	return rl.Vector3Normalize(r)
}

func (c *Camera) Up() rl.Vector3 {
	return rl.Vector3CrossProduct(c.Right(), c.forward)
}

func (c *Camera) View() rl.Matrix {
	return rl.MatrixLookAt(c.position, rl.Vector3Add(c.position, c.forward), c.Up())
}

func (c *Camera) Projection() rl.Matrix {
	if c.projection == Orthographic {
		return rl.MatrixOrtho(0, c.width, c.height, 0, c.near, c.far)
	}
	return rl.MatrixPerspective(c.fov, c.aspect, c.near, c.far)
}

// ViewProjection is view, then projection, then the Vulkan clip correction.
func (c *Camera) ViewProjection() rl.Matrix {
	return rl.MatrixMultiply(c.ViewProjectionGL(), Clip)
}

func (c *Camera) ViewProjectionGL() rl.Matrix {
	return rl.MatrixMultiply(c.View(), c.Projection())
}

// SkyViewProjection drops the view translation so the sky stays at infinity.
func (c *Camera) SkyViewProjection() rl.Matrix {
	v := c.View()
	v.M12, v.M13, v.M14 = 0, 0, 0
	return rl.MatrixMultiply(rl.MatrixMultiply(v, c.Projection()), Clip)
}

// MakeMain makes this the camera worlds push to the renderer each frame.
func (c *Camera) MakeMain() {
	c.Context().SetMainCamera(c)
}
