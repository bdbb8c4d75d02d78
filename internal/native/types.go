package native

import rl "github.com/gen2brain/raylib-go/raylib"

type BodyType int32

const (
	BodyStatic BodyType = iota
	BodyKinematic
	BodyDynamic
)

func (t BodyType) String() string {
	switch t {
	case BodyStatic:
		return "static"
	case BodyKinematic:
		return "kinematic"
	case BodyDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

type PhysicsMaterial struct {
	Friction          float32
	RollingResistance float32
	Bounciness        float32 // 0..1
}

type ShapeKind int32

const (
	ShapeBox ShapeKind = iota
	ShapeSphere
	ShapeCapsule
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	case ShapeCapsule:
		return "capsule"
	default:
		return "unknown"
	}
}

// ShapeDesc carries the parameters of every shape kind; only the fields of
// Kind are meaningful.
type ShapeDesc struct {
	Kind       ShapeKind
	HalfExtent rl.Vector3 // box
	Radius     float32    // sphere, capsule
	Height     float32    // capsule
	Position   rl.Vector3 // local to body
	Rotation   rl.Quaternion
	Mass       float32
}

// Contact is what the physics engine reports for a trigger overlap.
type Contact struct {
	PointOfContact rl.Vector3
}

type LightType int32

const (
	LightDirectional LightType = iota
	LightPoint
)

// LightInfo is a one-shot snapshot of a light. Unused vector fields are NaN.
type LightInfo struct {
	Type         LightType
	Intensity    float32
	ShadowCaster bool
	Color        rl.Vector4
	Position     rl.Vector3
	Direction    rl.Vector3
}

// ProbeInfo is a one-shot snapshot of an image based lighting probe.
type ProbeInfo struct {
	Matrices [6]rl.Matrix
	Position rl.Vector3
}

type SkySettings struct {
	Color    rl.Vector3
	HDRTex   TextureHandle
	HDREnv   TextureHandle // irradiance map
	UseTex   bool
	Exposure float32
	Gamma    float32
	Ambient  float32
}
