package rlbackend

import (
	"math"

	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const pointLightRange = 10

// draw renders the current world with flat per-object lighting.
func (b *Backend) draw() {
	w, ok := b.Scene.worlds[b.Scene.current]
	if !ok {
		rl.ClearBackground(rl.Black)
		return
	}
	rl.ClearBackground(skyColor(w.sky))
	if !w.hasCamera {
		return
	}

	// BeginMode3D sets up the GL state; the pushed matrices replace its camera.
	rl.BeginMode3D(rl.Camera3D{
		Position:   w.camera,
		Target:     rl.Vector3Add(w.camera, rl.Vector3{Z: -1}),
		Up:         rl.Vector3{Y: 1},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	})
	rl.SetMatrixProjection(w.proj)
	rl.SetMatrixModelview(w.view)

	lights := b.Scene.Lights(w.handle)
	for _, e := range b.Scene.visible(w) {
		model, ok := b.Assets.models[e.mesh]
		if !ok {
			continue
		}
		m := b.Assets.material(e.material)
		m.mat.GetMap(rl.MapAlbedo).Color = shade(m.color, m.emissive, w.sky.Ambient, lights, e.position)
		for _, mesh := range model.GetMeshes() {
			rl.DrawMesh(mesh, m.mat, e.model)
		}
	}

	if b.overlay.Visible {
		for _, l := range lights {
			if l.Type == native.LightPoint {
				rl.DrawSphere(l.Position, 0.15, rl.ColorFromNormalized(clampColor(l.Color)))
			}
		}
		rl.DrawGrid(20, 1)
	}
	rl.EndMode3D()
}

// material returns the material for h, or a shared white default.
func (a *Assets) material(h native.MaterialHandle) *material {
	if m, ok := a.materials[h]; ok {
		return m
	}
	if a.fallback == nil {
		a.fallback = &material{name: "default", color: rl.White, mat: rl.LoadMaterialDefault()}
	}
	return a.fallback
}

func skyColor(sky native.SkySettings) rl.Color {
	e := sky.Exposure
	if e <= 0 {
		e = 1
	}
	return rl.ColorFromNormalized(clampColor(rl.Vector4{
		X: sky.Color.X * e,
		Y: sky.Color.Y * e,
		Z: sky.Color.Z * e,
		W: 1,
	}))
}

func clampColor(c rl.Vector4) rl.Vector4 {
	return rl.Vector4{
		X: min(max(c.X, 0), 1),
		Y: min(max(c.Y, 0), 1),
		Z: min(max(c.Z, 0), 1),
		W: min(max(c.W, 0), 1),
	}
}

// shade lights base at pos: ambient, plus directional lights by how much
// they shine downward, plus point lights with distance falloff. Emissive
// adds on top. Light colours arrive pre-multiplied by intensity.
func shade(base rl.Color, emissive, ambient float32, lights []native.LightInfo, pos rl.Vector3) rl.Color {
	light := rl.Vector3{X: ambient, Y: ambient, Z: ambient}
	for _, l := range lights {
		c := rl.Vector3{X: l.Color.X, Y: l.Color.Y, Z: l.Color.Z}
		switch l.Type {
		case native.LightDirectional:
			if isNaN(l.Direction) {
				continue
			}
			down := max(0, -rl.Vector3Normalize(l.Direction).Y)
			light = rl.Vector3Add(light, rl.Vector3Scale(c, down))
		case native.LightPoint:
			if isNaN(l.Position) {
				continue
			}
			d := rl.Vector3Distance(pos, l.Position)
			if d > pointLightRange {
				continue
			}
			falloff := 1 - d/pointLightRange
			light = rl.Vector3Add(light, rl.Vector3Scale(c, falloff*falloff))
		}
	}
	light = rl.Vector3AddValue(light, emissive)

	return rl.ColorFromNormalized(clampColor(rl.Vector4{
		X: float32(base.R) / 255 * light.X,
		Y: float32(base.G) / 255 * light.Y,
		Z: float32(base.B) / 255 * light.Z,
		W: float32(base.A) / 255,
	}))
}

func isNaN(v rl.Vector3) bool {
	return math.IsNaN(float64(v.X)) || math.IsNaN(float64(v.Y)) || math.IsNaN(float64(v.Z))
}
