package softphysics

import (
	"math"
	"slices"

	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Spatial grid cell size - objects within same or neighboring cells are checked
const CellSize = 5.0

// Cell key for spatial hashing
type CellKey struct {
	X, Y, Z int
}

func posToCell(pos rl.Vector3) CellKey {
	return CellKey{
		X: int(math.Floor(float64(pos.X / CellSize))),
		Y: int(math.Floor(float64(pos.Y / CellSize))),
		Z: int(math.Floor(float64(pos.Z / CellSize))),
	}
}

// overlapKey identifies a trigger shape overlapping a body.
type overlapKey struct {
	trigger native.ShapeHandle
	other   native.BodyHandle
}

type contact struct {
	ref   native.ProxyRef
	point rl.Vector3
}

type space struct {
	handle  native.PhysicsWorldHandle
	gravity rl.Vector3
	step    func()
	bodies  []*body
	grid    map[CellKey][]*body

	// Overlaps seen on the previous step; contacts fire on entry only.
	active map[overlapKey]bool
}

func newSpace(h native.PhysicsWorldHandle) *space {
	return &space{
		handle: h,
		grid:   make(map[CellKey][]*body),
		active: make(map[overlapKey]bool),
	}
}

func (sp *space) remove(b *body) {
	if i := slices.Index(sp.bodies, b); i >= 0 {
		sp.bodies = slices.Delete(sp.bodies, i, i+1)
	}
	for k := range sp.active {
		if k.other == b.handle {
			delete(sp.active, k)
		}
	}
	for _, s := range b.shapes {
		sp.forgetShape(s)
	}
}

func (sp *space) forgetShape(s *shape) {
	for k := range sp.active {
		if k.trigger == s.handle {
			delete(sp.active, k)
		}
	}
}

func (sp *space) wakeAll() {
	for _, b := range sp.bodies {
		b.wake()
	}
}

// simulate advances the space by dt. It returns the bodies whose pose the
// engine changed and the trigger contacts that began this step.
func (sp *space) simulate(dt float32) ([]*body, []contact) {
	var moved []*body

	// 1. Integrate forces and velocities
	for _, b := range sp.bodies {
		if !b.dynamic() || b.sleeping {
			b.force, b.torque = rl.Vector3{}, rl.Vector3{}
			continue
		}
		sp.integrate(b, dt)
		moved = append(moved, b)
	}

	// 2. Broad phase over dynamic bodies, then narrow phase per pair
	sp.rebuildGrid()
	checked := make(map[[2]native.BodyHandle]bool)
	for _, b := range sp.bodies {
		if !b.dynamic() || len(b.shapes) == 0 {
			continue
		}
		for _, other := range sp.neighbors(b) {
			if other == b {
				continue
			}
			key := [2]native.BodyHandle{min(b.handle, other.handle), max(b.handle, other.handle)}
			if checked[key] {
				continue
			}
			checked[key] = true
			if sp.resolve(b, other) {
				moved = appendOnce(moved, b, other)
			}
		}
		// Static and kinematic bodies are few; test them all.
		for _, other := range sp.bodies {
			if other.dynamic() || other.trigger {
				continue
			}
			if sp.resolve(b, other) {
				moved = appendOnce(moved, b)
			}
		}
	}

	// 3. Sleep
	for _, b := range moved {
		b.trySleep(dt)
	}

	return moved, sp.triggers()
}

func appendOnce(list []*body, bs ...*body) []*body {
	for _, b := range bs {
		if b.dynamic() && !slices.Contains(list, b) {
			list = append(list, b)
		}
	}
	return list
}

func (sp *space) integrate(b *body, dt float32) {
	inv := b.inverseMass()
	accel := rl.Vector3Scale(b.force, inv)
	if b.gravity {
		accel = rl.Vector3Add(accel, sp.gravity)
	}
	b.velocity = rl.Vector3Add(b.velocity, rl.Vector3Scale(accel, dt))
	b.angularVelocity = rl.Vector3Add(b.angularVelocity, rl.Vector3Scale(b.torque, inv*dt))
	b.force, b.torque = rl.Vector3{}, rl.Vector3{}

	// Damping (time-based so it's framerate independent)
	b.velocity = rl.Vector3Scale(b.velocity, max(0, 1-b.linDamp*dt))
	b.angularVelocity = rl.Vector3Scale(b.angularVelocity, max(0, 1-b.angDamp*dt))

	b.position = rl.Vector3Add(b.position, rl.Vector3Scale(b.velocity, dt))
	if w := rl.Vector3Length(b.angularVelocity); w > 0 {
		dq := rl.QuaternionFromAxisAngle(rl.Vector3Scale(b.angularVelocity, 1/w), w*dt)
		b.rotation = rl.QuaternionNormalize(rl.QuaternionMultiply(dq, b.rotation))
	}
}

// rebuildGrid clears and repopulates the spatial hash grid
func (sp *space) rebuildGrid() {
	clear(sp.grid)
	for _, b := range sp.bodies {
		if b.dynamic() {
			cell := posToCell(b.position)
			sp.grid[cell] = append(sp.grid[cell], b)
		}
	}
}

// neighbors returns all dynamic bodies in the same and the 26 surrounding cells
func (sp *space) neighbors(b *body) []*body {
	cell := posToCell(b.position)
	var out []*body
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				key := CellKey{cell.X + dx, cell.Y + dy, cell.Z + dz}
				out = append(out, sp.grid[key]...)
			}
		}
	}
	return out
}

// resolve separates a from b and exchanges an impulse when their solid
// shapes overlap. It reports whether a contact was found.
func (sp *space) resolve(a, b *body) bool {
	if a.sleeping && (b.sleeping || !b.dynamic()) {
		return false
	}
	hit := false
	for _, sa := range a.shapes {
		if sa.trigger {
			continue
		}
		for _, sb := range b.shapes {
			if sb.trigger {
				continue
			}
			push := penetration(sa, sb)
			if push == (rl.Vector3{}) {
				continue
			}
			hit = true
			separate(a, b, push)
		}
	}
	return hit
}

// penetration returns the minimum translation pushing sa out of sb.
func penetration(sa, sb *shape) rl.Vector3 {
	ka, kb := sa.desc.Kind, sb.desc.Kind
	switch {
	case ka == native.ShapeSphere && kb == native.ShapeSphere:
		ca, cb := sa.center(), sb.center()
		diff := rl.Vector3Subtract(ca, cb)
		dist := rl.Vector3Length(diff)
		depth := sa.desc.Radius + sb.desc.Radius - dist
		if depth <= 0 {
			return rl.Vector3{}
		}
		if dist < 0.0001 {
			return rl.Vector3{Y: depth}
		}
		return rl.Vector3Scale(diff, depth/dist)
	case ka == native.ShapeSphere:
		return sphereOutOfBox(sa.center(), sa.desc.Radius, sb.obb())
	case kb == native.ShapeSphere:
		return rl.Vector3Negate(sphereOutOfBox(sb.center(), sb.desc.Radius, sa.obb()))
	default:
		return sa.obb().ResolveOBB(sb.obb())
	}
}

func sphereOutOfBox(center rl.Vector3, radius float32, box OBB) rl.Vector3 {
	closest := ClosestPointOnOBB(box, center)
	diff := rl.Vector3Subtract(center, closest)
	dist := rl.Vector3Length(diff)
	if dist >= radius {
		return rl.Vector3{}
	}
	if dist < 0.0001 {
		// Center inside the box: fall back to the box's separating axis.
		return NewOBB(center, rl.Vector3{X: radius, Y: radius, Z: radius}, rl.QuaternionIdentity()).ResolveOBB(box)
	}
	return rl.Vector3Scale(diff, (radius-dist)/dist)
}

// separate splits the push by inverse mass and applies a restitution
// impulse along the contact normal, with friction on the tangent.
func separate(a, b *body, push rl.Vector3) {
	invA, invB := a.inverseMass(), b.inverseMass()
	total := invA + invB
	if total == 0 {
		return
	}
	a.position = rl.Vector3Add(a.position, rl.Vector3Scale(push, invA/total))
	b.position = rl.Vector3Subtract(b.position, rl.Vector3Scale(push, invB/total))

	pushLen := rl.Vector3Length(push)
	if pushLen < 0.0001 {
		return
	}
	normal := rl.Vector3Scale(push, 1/pushLen)
	relVel := rl.Vector3Subtract(a.velocity, b.velocity)
	velAlongNormal := rl.Vector3DotProduct(relVel, normal)

	// Only a real hit wakes a sleeper, so settled stacks stay asleep.
	if absf(velAlongNormal) > SleepVelocityThreshold*2 {
		for _, x := range []*body{a, b} {
			if x.sleeping && x.dynamic() {
				x.wake()
			}
		}
	}
	if velAlongNormal > 0 {
		return
	}

	e := (a.material.Bounciness + b.material.Bounciness) / 2
	j := -(1 + e) * velAlongNormal / total
	impulse := rl.Vector3Scale(normal, j)
	a.velocity = rl.Vector3Add(a.velocity, rl.Vector3Scale(impulse, invA))
	b.velocity = rl.Vector3Subtract(b.velocity, rl.Vector3Scale(impulse, invB))

	friction := clampf((a.material.Friction+b.material.Friction)/2, 0, 1)
	rolling := clampf((a.material.RollingResistance+b.material.RollingResistance)/2, 0, 1)
	for _, x := range []*body{a, b} {
		if !x.dynamic() {
			continue
		}
		vn := rl.Vector3Scale(normal, rl.Vector3DotProduct(x.velocity, normal))
		vt := rl.Vector3Subtract(x.velocity, vn)
		x.velocity = rl.Vector3Add(vn, rl.Vector3Scale(vt, 1-friction))
		x.angularVelocity = rl.Vector3Scale(x.angularVelocity, 1-rolling)
	}
}

// triggers collects contacts for trigger shapes that started overlapping a
// solid body this step.
func (sp *space) triggers() []contact {
	var out []contact
	current := make(map[overlapKey]bool)
	for _, tb := range sp.bodies {
		for _, ts := range tb.shapes {
			if !ts.trigger {
				continue
			}
			box := ts.obb()
			for _, other := range sp.bodies {
				if other == tb || other.trigger {
					continue
				}
				for _, s := range other.shapes {
					if s.trigger || !overlaps(box, s) {
						continue
					}
					key := overlapKey{trigger: ts.handle, other: other.handle}
					if current[key] {
						break
					}
					current[key] = true
					if !sp.active[key] {
						out = append(out, contact{ref: ts.ref, point: ClosestPointOnOBB(box, s.center())})
					}
					break
				}
			}
		}
	}
	sp.active = current
	return out
}

func overlaps(box OBB, s *shape) bool {
	if s.desc.Kind == native.ShapeSphere {
		return box.IntersectsSphere(s.center(), s.desc.Radius)
	}
	return box.IntersectsOBB(s.obb())
}
