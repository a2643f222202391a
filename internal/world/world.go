package world

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/udisondev/magecombat/internal/character"
	"github.com/udisondev/magecombat/internal/combat"
	"github.com/udisondev/magecombat/internal/data"
	"github.com/udisondev/magecombat/internal/model"
)

// World is the registry of participants of one simulation.
type World struct {
	mu           sync.RWMutex
	participants map[model.ObjectID]*character.Character

	registry *data.Registry
	ids      *ObjectIDGenerator
}

// New creates an empty world over registry.
func New(registry *data.Registry) *World {
	return &World{
		participants: make(map[model.ObjectID]*character.Character, 64),
		registry:     registry,
		ids:          NewObjectIDGenerator(),
	}
}

// SpawnPlayer creates and registers a player character.
func (w *World) SpawnPlayer(name string, class model.CharacterClass, level int32) (*character.Character, error) {
	c, err := character.New(w.ids.NextPlayerID(), name, class, level, w.registry)
	if err != nil {
		return nil, fmt.Errorf("spawning player: %w", err)
	}
	w.Add(c)
	return c, nil
}

// SpawnEnemy creates and registers an enemy.
func (w *World) SpawnEnemy(name string, class model.CharacterClass, level int32) (*character.Character, error) {
	c, err := character.New(w.ids.NextEnemyID(), name, class, level, w.registry)
	if err != nil {
		return nil, fmt.Errorf("spawning enemy: %w", err)
	}
	w.Add(c)
	return c, nil
}

// RestorePlayer registers a persisted player under a fresh object ID.
func (w *World) RestorePlayer(name string, class model.CharacterClass, p character.Progress) (*character.Character, error) {
	c, err := character.Restore(w.ids.NextPlayerID(), name, class, p, w.registry)
	if err != nil {
		return nil, fmt.Errorf("restoring player: %w", err)
	}
	w.Add(c)
	return c, nil
}

// Add registers c, replacing any participant with the same ID.
func (w *World) Add(c *character.Character) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.participants[c.ObjectID()] = c
}

// Remove unregisters id and cancels its effects (despawn).
func (w *World) Remove(id model.ObjectID) {
	w.mu.Lock()
	c, ok := w.participants[id]
	delete(w.participants, id)
	w.mu.Unlock()

	if ok {
		c.Effects().RemoveAll()
	}
}

// Get returns the character with id.
func (w *World) Get(id model.ObjectID) (*character.Character, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.participants[id]
	return c, ok
}

// Lookup resolves id as a combat participant. Missing IDs return a nil
// interface, never a typed nil.
func (w *World) Lookup(id model.ObjectID) combat.Participant {
	c, ok := w.Get(id)
	if !ok {
		return nil
	}
	return c
}

// All returns every participant ordered by object ID.
func (w *World) All() []*character.Character {
	w.mu.RLock()
	result := make([]*character.Character, 0, len(w.participants))
	for _, c := range w.participants {
		result = append(result, c)
	}
	w.mu.RUnlock()

	slices.SortFunc(result, func(a, b *character.Character) int {
		return cmp.Compare(a.ObjectID(), b.ObjectID())
	})
	return result
}

// Count returns the number of registered participants.
func (w *World) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.participants)
}
