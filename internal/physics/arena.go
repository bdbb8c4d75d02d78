package physics

import (
	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// A ProxyRef encodes a 32-bit slot index in the lower bits and a 32-bit
// generation in the upper bits. Generations start at 1 so the zero ref is
// never live, and bump on release to invalidate refs the engine still holds.
func newRef(index, generation uint32) native.ProxyRef {
	return native.ProxyRef(uint64(generation)<<32 | uint64(index))
}

func refIndex(r native.ProxyRef) uint32      { return uint32(r) }
func refGeneration(r native.ProxyRef) uint32 { return uint32(r >> 32) }

// mover receives pose updates for a body.
type mover interface {
	moved(pos rl.Vector3, rot rl.Quaternion)
}

// toucher receives contacts for a trigger shape.
type toucher interface {
	touched(c native.Contact)
}

// arena holds the live proxy records the engine can call back into.
type arena struct {
	generations []uint32
	targets     []any
	freeList    []uint32
	live        int
}

func (a *arena) alloc(target any) native.ProxyRef {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.targets[idx] = target
		a.live++
		return newRef(idx, a.generations[idx])
	}
	idx := uint32(len(a.generations))
	a.generations = append(a.generations, 1)
	a.targets = append(a.targets, target)
	a.live++
	return newRef(idx, 1)
}

func (a *arena) get(r native.ProxyRef) (any, bool) {
	idx := refIndex(r)
	if int(idx) >= len(a.generations) || a.generations[idx] != refGeneration(r) {
		return nil, false
	}
	return a.targets[idx], true
}

func (a *arena) release(r native.ProxyRef) {
	idx := refIndex(r)
	if int(idx) >= len(a.generations) || a.generations[idx] != refGeneration(r) {
		return // stale
	}
	a.generations[idx]++
	a.targets[idx] = nil
	a.freeList = append(a.freeList, idx)
	a.live--
}
