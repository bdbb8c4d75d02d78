package rlbackend

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Frustum represents the 6 planes of a view frustum for culling
type Frustum struct {
	planes [6]Plane // left, right, bottom, top, near, far
}

// Plane represents a plane in 3D space (ax + by + cz + d = 0)
type Plane struct {
	normal   rl.Vector3
	distance float32
}

// NewFrustum extracts the planes of vp, a view matrix multiplied by a
// projection (Gribb/Hartmann).
func NewFrustum(vp rl.Matrix) Frustum {
	var f Frustum

	row := func(a, b, c, d float32) Plane {
		return normalizePlane(Plane{normal: rl.Vector3{X: a, Y: b, Z: c}, distance: d})
	}

	// row4 + row1, row4 - row1
	f.planes[0] = row(vp.M3+vp.M0, vp.M7+vp.M4, vp.M11+vp.M8, vp.M15+vp.M12)
	f.planes[1] = row(vp.M3-vp.M0, vp.M7-vp.M4, vp.M11-vp.M8, vp.M15-vp.M12)
	// row4 + row2, row4 - row2
	f.planes[2] = row(vp.M3+vp.M1, vp.M7+vp.M5, vp.M11+vp.M9, vp.M15+vp.M13)
	f.planes[3] = row(vp.M3-vp.M1, vp.M7-vp.M5, vp.M11-vp.M9, vp.M15-vp.M13)
	// row4 + row3, row4 - row3
	f.planes[4] = row(vp.M3+vp.M2, vp.M7+vp.M6, vp.M11+vp.M10, vp.M15+vp.M14)
	f.planes[5] = row(vp.M3-vp.M2, vp.M7-vp.M6, vp.M11-vp.M10, vp.M15-vp.M14)

	return f
}

func normalizePlane(p Plane) Plane {
	length := rl.Vector3Length(p.normal)
	if length == 0 {
		return p
	}
	return Plane{
		normal:   rl.Vector3Scale(p.normal, 1.0/length),
		distance: p.distance / length,
	}
}

// ContainsSphere tests if a sphere is inside or intersects the frustum
func (f *Frustum) ContainsSphere(center rl.Vector3, radius float32) bool {
	for i := range f.planes {
		dist := rl.Vector3DotProduct(f.planes[i].normal, center) + f.planes[i].distance
		// Completely behind any plane means outside
		if dist < -radius {
			return false
		}
	}
	return true
}

func (f *Frustum) ContainsPoint(point rl.Vector3) bool {
	return f.ContainsSphere(point, 0)
}
