package effect

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/magecombat/internal/model"
)

// Active is one applied effect instance.
type Active struct {
	ID      uuid.UUID
	Def     Definition
	Elapsed time.Duration

	fired     int
	cancelled bool
}

// Remaining returns the time left until expiry.
func (a *Active) Remaining() time.Duration {
	return a.Def.Duration - a.Elapsed
}

// FireFunc receives one periodic tick of an active effect.
type FireFunc func(a Active)

// Manager tracks the active effects of one character.
//
// Stacking: one instance per (status, source). Reapplication from the same
// source replaces the definition and restarts the duration and the tick
// schedule. Different sources stack independently.
//
// Thread-safe: all methods are protected by sync.Mutex. FireFunc is called
// without the lock held and may call back into the manager.
type Manager struct {
	mu      sync.Mutex
	owner   model.ObjectID
	effects []*Active
}

// NewManager creates an empty manager for owner.
func NewManager(owner model.ObjectID) *Manager {
	return &Manager{
		owner:   owner,
		effects: make([]*Active, 0, 4),
	}
}

// Apply adds def or refreshes the instance from the same source.
// Returns the instance ID and whether an existing instance was refreshed.
func (m *Manager) Apply(def Definition) (uuid.UUID, bool) {
	if !def.Valid() {
		slog.Debug("invalid effect definition ignored",
			"owner", m.owner,
			"period", def.Period,
			"duration", def.Duration)
		return uuid.Nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.effects {
		if existing.Def.key() == def.key() {
			existing.Def = def
			existing.Elapsed = 0
			existing.fired = 0
			return existing.ID, true
		}
	}

	a := &Active{ID: uuid.New(), Def: def}
	m.effects = append(m.effects, a)
	return a.ID, false
}

// Advance moves every effect forward by dt and calls fire for each tick due.
// A tick is due at every k·Period with 0 < k·Period ≤ Duration, so an
// effect fires exactly Duration/Period times over its life. Expired effects
// are removed. Effects removed while firing (owner death) fire no further.
func (m *Manager) Advance(dt time.Duration, fire FireFunc) {
	if dt <= 0 {
		return
	}

	type dueTick struct {
		a     *Active
		snap  Active
		count int
	}

	m.mu.Lock()
	due := make([]dueTick, 0, len(m.effects))
	kept := m.effects[:0]
	for _, a := range m.effects {
		a.Elapsed = min(a.Elapsed+dt, a.Def.Duration)
		reached := int(a.Elapsed / a.Def.Period)
		if n := reached - a.fired; n > 0 {
			due = append(due, dueTick{a: a, snap: *a, count: n})
			a.fired = reached
		}
		if a.Elapsed < a.Def.Duration {
			kept = append(kept, a)
		}
	}
	clear(m.effects[len(kept):])
	m.effects = kept
	m.mu.Unlock()

	if fire == nil {
		return
	}
	for _, d := range due {
		for range d.count {
			if m.isCancelled(d.a) {
				break
			}
			fire(d.snap)
		}
	}
}

func (m *Manager) isCancelled(a *Active) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return a.cancelled
}

// RemoveAll cancels every effect and returns how many were removed.
func (m *Manager) RemoveAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.effects)
	for _, a := range m.effects {
		a.cancelled = true
	}
	clear(m.effects)
	m.effects = m.effects[:0]
	return n
}

// RemoveBySource cancels every effect applied by source.
func (m *Manager) RemoveBySource(source model.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.effects[:0]
	removed := 0
	for _, a := range m.effects {
		if a.Def.SourceID == source {
			a.cancelled = true
			removed++
			continue
		}
		kept = append(kept, a)
	}
	clear(m.effects[len(kept):])
	m.effects = kept
	return removed
}

// Has reports whether an effect with status is active.
func (m *Manager) Has(status model.Status) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.effects {
		if a.Def.Status == status {
			return true
		}
	}
	return false
}

// Active returns a copy of the active effects.
func (m *Manager) Active() []Active {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]Active, len(m.effects))
	for i, a := range m.effects {
		result[i] = *a
	}
	return result
}

// Count returns the number of active effects.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.effects)
}
