package softphysics

import (
	"math"

	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type RaycastHit struct {
	Body     native.BodyHandle
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
}

// Raycast returns the closest solid shape in pw hit by the ray within
// maxDistance. Trigger shapes are ignored.
func (e *Engine) Raycast(pw native.PhysicsWorldHandle, origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	sp, ok := e.spaces[pw]
	if !ok || rl.Vector3Length(direction) == 0 {
		return RaycastHit{}, false
	}
	direction = rl.Vector3Normalize(direction)
	closest := RaycastHit{Distance: maxDistance}
	hit := false

	for _, b := range sp.bodies {
		for _, s := range b.shapes {
			if s.trigger {
				continue
			}
			var h RaycastHit
			var ok bool
			if s.desc.Kind == native.ShapeSphere {
				h, ok = raycastSphere(origin, direction, s.center(), s.desc.Radius, maxDistance)
			} else {
				h, ok = raycastBox(origin, direction, s.obb(), maxDistance)
			}
			if ok && h.Distance < closest.Distance {
				closest = h
				closest.Body = b.handle
				hit = true
			}
		}
	}
	return closest, hit
}

// raycastBox runs the slab test in the box's local frame.
func raycastBox(origin, direction rl.Vector3, box OBB, maxDistance float32) (RaycastHit, bool) {
	rel := rl.Vector3Subtract(origin, box.Center)
	var ol, dl [3]float32
	for i, ax := range box.Axes {
		ol[i] = rl.Vector3DotProduct(rel, ax)
		dl[i] = rl.Vector3DotProduct(direction, ax)
	}
	hl := [3]float32{box.HalfSize.X, box.HalfSize.Y, box.HalfSize.Z}

	tmin, tmax := float32(-1e30), float32(1e30)
	axis, sign := 0, float32(-1)
	for i := range 3 {
		if dl[i] == 0 {
			if ol[i] < -hl[i] || ol[i] > hl[i] {
				return RaycastHit{}, false
			}
			continue
		}
		t1 := (-hl[i] - ol[i]) / dl[i]
		t2 := (hl[i] - ol[i]) / dl[i]
		s := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1
		}
		if t1 > tmin {
			tmin, axis, sign = t1, i, s
		}
		tmax = min(tmax, t2)
		if tmin > tmax {
			return RaycastHit{}, false
		}
	}

	t := tmin
	if t < 0 {
		// Origin inside the box.
		t = tmax
	}
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	normal := rl.Vector3Scale(box.Axes[axis], sign)
	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}

func raycastSphere(origin, direction, center rl.Vector3, radius, maxDistance float32) (RaycastHit, bool) {
	oc := rl.Vector3Subtract(origin, center)
	a := rl.Vector3DotProduct(direction, direction)
	b := 2.0 * rl.Vector3DotProduct(oc, direction)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return RaycastHit{}, false
	}

	t := (-b - float32(math.Sqrt(float64(discriminant)))) / (2 * a)
	if t < 0 {
		t = (-b + float32(math.Sqrt(float64(discriminant)))) / (2 * a)
	}
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	normal := rl.Vector3Normalize(rl.Vector3Subtract(point, center))

	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}
