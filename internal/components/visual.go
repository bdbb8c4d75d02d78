package components

import (
	"errors"

	"lava/internal/engine"
	"lava/internal/native"
	"lava/internal/prop"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var ErrNoTransform = errors.New("components: visual needs a transform on its entity")

func init() {
	engine.RegisterComponent("Visual", func(ctx *engine.Context, props map[string]any) (engine.Component, error) {
		n := ctx.Native()
		var mesh native.MeshHandle
		if path := prop.String(props, "mesh", ""); path != "" {
			mesh = n.LoadMesh(path)
		}
		var mat native.MaterialHandle
		if path := prop.String(props, "material", ""); path != "" {
			mat = n.LoadMaterial(path)
		}
		v := NewVisual(ctx, mesh, mat)
		v.Static = prop.Bool(props, "static", false)
		return v, nil
	})
}

// Visual owns a native scene entity drawn with a mesh and a material. After
// every update it pushes its transform's model matrix, and the MVP when a
// main camera is set.
type Visual struct {
	engine.BaseComponent
	// Static visuals are pushed on world add only.
	Static bool

	entity    native.EntityHandle
	mesh      native.MeshHandle
	material  native.MaterialHandle
	transform engine.Posed
}

// NewVisual creates the native entity. Zero handles leave the mesh or
// material unset.
func NewVisual(ctx *engine.Context, mesh native.MeshHandle, mat native.MaterialHandle) *Visual {
	v := &Visual{}
	ctx.Construct(v)
	n := ctx.Native()
	v.entity = n.CreateEntity()
	v.SetMesh(mesh)
	v.SetMaterial(mat)
	return v
}

// NewVisualEntity returns an entity with a transform and a visual.
func NewVisualEntity(ctx *engine.Context, name string, mesh native.MeshHandle, mat native.MaterialHandle) (*engine.Entity, *Visual, error) {
	e, _, err := engine.NewEntityWith[Transform](ctx, name)
	if err != nil {
		return nil, nil, err
	}
	v := NewVisual(ctx, mesh, mat)
	if err := e.AddComponent(v); err != nil {
		v.Destroy()
		return nil, nil, err
	}
	return e, v, nil
}

func (v *Visual) Capability() engine.Capability { return engine.CapRenderable }
func (v *Visual) Requires() []engine.Capability { return []engine.Capability{engine.CapTransform} }

func (v *Visual) NativeEntity() native.EntityHandle { return v.entity }
func (v *Visual) Mesh() native.MeshHandle           { return v.mesh }
func (v *Visual) Material() native.MaterialHandle   { return v.material }

func (v *Visual) SetMesh(m native.MeshHandle) {
	v.mesh = m
	if m != 0 {
		v.Context().Native().SetEntityMesh(v.entity, m)
	}
}

func (v *Visual) SetMaterial(m native.MaterialHandle) {
	v.material = m
	if m != 0 {
		v.Context().Native().SetEntityMaterial(v.entity, m)
	}
}

func (v *Visual) OnEntityAddOwner() error {
	t, ok := v.Owner().Transform()
	if !ok {
		return ErrNoTransform
	}
	v.transform = t
	return nil
}

func (v *Visual) OnEntityRemoveOwner() { v.transform = nil }

func (v *Visual) OnDestroy() {
	if v.entity != 0 {
		v.Context().Native().DestroyEntity(v.entity)
		v.entity = 0
	}
}

// SyncPosition pushes the model matrix and position.
func (v *Visual) SyncPosition() {
	if v.transform == nil || v.entity == 0 {
		return
	}
	n := v.Context().Native()
	n.SetEntityModel(v.entity, v.transform.Model())
	n.SetEntityPosition(v.entity, v.transform.Position())
}

func (v *Visual) OnLateUpdate() {
	if v.Static || v.transform == nil {
		return
	}
	v.SyncPosition()
	cam := v.Context().MainCamera()
	if cam == nil {
		return
	}
	mvp := rl.MatrixMultiply(v.transform.Model(), cam.ViewProjection())
	v.Context().Native().SetEntityMVP(v.entity, mvp)
}
