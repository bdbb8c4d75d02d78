package engine

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// WorldManager creates worlds and tracks which one is current.
type WorldManager struct {
	ctx      *Context
	worlds   []*World
	current  *World
	updateID ListenerID
}

// CreateWorld creates a native world and its managed counterpart. With
// hasPhysics the context's PhysicsProvider builds the physics space and the
// fixed-step callback is routed to EventManager.FirePhysicsUpdate.
func (m *WorldManager) CreateWorld(makeCurrent, hasPhysics bool) (*World, error) {
	if hasPhysics && m.ctx.physics == nil {
		return nil, ErrNoPhysicsProvider
	}
	n := m.ctx.native
	h := n.CreateWorld(makeCurrent, hasPhysics)
	w := newWorld(m.ctx, h)
	w.Name = fmt.Sprintf("world-%d", len(m.worlds))
	if hasPhysics {
		pw := n.PhysicsWorldOf(h)
		w.physics = m.ctx.physics.NewSpace(w, pw)
		n.SetStepCallback(pw, m.ctx.events.FirePhysicsUpdate)
	}
	m.worlds = append(m.worlds, w)
	if makeCurrent {
		m.current = w
	}
	m.ctx.log.Info("world created",
		zap.String("world", w.Name),
		zap.Bool("physics", hasPhysics),
		zap.Bool("current", makeCurrent))
	return w, nil
}

func (m *WorldManager) Current() *World { return m.current }

// SetCurrent makes w the world the native engine renders and simulates.
func (m *WorldManager) SetCurrent(w *World) error {
	if w == nil || w.destroyed || !slices.Contains(m.worlds, w) {
		return ErrUnknownWorld
	}
	m.ctx.native.SetCurrentWorld(w.handle)
	m.current = w
	return nil
}

// SyncCurrent re-reads the native current world and selects the matching
// managed world, or none.
func (m *WorldManager) SyncCurrent() *World {
	h := m.ctx.native.CurrentWorld()
	m.current = nil
	for _, w := range m.worlds {
		if w.handle == h {
			m.current = w
			break
		}
	}
	return m.current
}

// UpdateCurrent updates the current world, if any.
func (m *WorldManager) UpdateCurrent() {
	if m.current != nil {
		m.current.Update()
	}
}

func (m *WorldManager) Worlds() []*World {
	return slices.Clone(m.worlds)
}

// Init subscribes UpdateCurrent to the per-frame update event. Repeated
// calls do nothing.
func (m *WorldManager) Init() {
	if m.updateID != 0 {
		return
	}
	m.updateID = m.ctx.events.Update.AddListener(m.UpdateCurrent)
}

func (m *WorldManager) close() {
	for _, w := range slices.Clone(m.worlds) {
		w.Destroy()
	}
	if m.updateID != 0 {
		m.ctx.events.Update.RemoveListener(m.updateID)
		m.updateID = 0
	}
}

func (m *WorldManager) forget(w *World) {
	if i := slices.Index(m.worlds, w); i >= 0 {
		m.worlds = slices.Delete(m.worlds, i, i+1)
	}
	if m.current == w {
		m.current = nil
	}
}
