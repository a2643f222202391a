package attribute

import (
	"log/slog"
	"math"
)

// Value is the base and current value of one attribute slot.
type Value struct {
	Base    float64
	Current float64
}

// Observer receives the previous and the new current value of an attribute.
type Observer func(oldValue, newValue float64)

// MetaHandler consumes a value written to a meta channel.
type MetaHandler func(value float64)

type subscription struct {
	id uint64
	fn Observer
}

type change struct {
	id       ID
	old, new float64
}

// Store holds the attribute table of exactly one character.
//
// Every write is clamped before commit, secondary attributes are recomputed
// from their primaries after commit, and vital attributes are re-validated
// against their caps before any observer runs. Observers therefore never see
// Health outside [0, MaxHealth], even transiently.
//
// Store is not safe for concurrent use: it is owned by the authoritative
// simulation goroutine.
type Store struct {
	values    [Count]Value
	level     int32
	observers [Count][]subscription
	nextSubID uint64
}

// NewStore creates an empty store at the given level (minimum 1).
func NewStore(level int32) *Store {
	if level < 1 {
		level = 1
	}
	return &Store{level: level}
}

// Level returns the character level used by the recompute formulas.
func (s *Store) Level() int32 {
	return s.level
}

// Current returns the current value of an attribute.
func (s *Store) Current(id ID) float64 {
	if !id.Valid() {
		return 0
	}
	return s.values[id].Current
}

// Base returns the base value of an attribute.
func (s *Store) Base(id ID) float64 {
	if !id.Valid() {
		return 0
	}
	return s.values[id].Base
}

// Value returns the full slot of an attribute.
func (s *Store) Value(id ID) Value {
	if !id.Valid() {
		return Value{}
	}
	return s.values[id]
}

// SetBase writes an attribute and settles every dependent value.
// Meta channels must be written through WriteMeta.
func (s *Store) SetBase(id ID, value float64) {
	if !id.Valid() {
		slog.Warn("write to unknown attribute ignored", "attribute", uint8(id))
		return
	}
	if id.IsMeta() {
		slog.Warn("meta channel written without handler, use WriteMeta", "attribute", id)
		return
	}

	var changes []change
	s.commit(id, value, &changes)
	s.propagate(id, &changes)
	s.notify(changes)
}

// SetLevel changes the level and recomputes every level-dependent attribute.
func (s *Store) SetLevel(level int32) {
	if level < 1 {
		level = 1
	}
	s.level = level
	s.RecomputeAll()
}

// RecomputeAll recomputes every secondary attribute in canonical order.
func (s *Store) RecomputeAll() {
	var changes []change
	s.recomputeAll(&changes)
	s.notify(changes)
}

// Fill sets every vital attribute to its cap.
func (s *Store) Fill() {
	var changes []change
	for _, vital := range Vitals {
		capID, _ := vital.Cap()
		s.commit(vital, s.values[capID].Current, &changes)
	}
	s.notify(changes)
}

// WriteMeta writes value to a meta channel, runs handler with it and resets
// the channel to zero. The channel never notifies observers.
func (s *Store) WriteMeta(id ID, value float64, handler MetaHandler) {
	if !id.IsMeta() {
		slog.Error("WriteMeta on non-meta attribute", "attribute", id)
		return
	}
	s.values[id] = Value{Base: value, Current: value}
	if handler != nil {
		handler(value)
	}
	s.values[id] = Value{}
}

// Subscribe registers fn for change notifications of id and returns a function
// that removes the registration. Observers fire synchronously after each
// settled write, in commit order.
func (s *Store) Subscribe(id ID, fn Observer) (unsubscribe func()) {
	if !id.Valid() || fn == nil {
		return func() {}
	}
	s.nextSubID++
	subID := s.nextSubID
	s.observers[id] = append(s.observers[id], subscription{id: subID, fn: fn})

	return func() {
		subs := s.observers[id]
		for i, sub := range subs {
			if sub.id == subID {
				s.observers[id] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// commit clamps and stores one value, recording the change.
func (s *Store) commit(id ID, value float64, changes *[]change) {
	value = s.clamp(id, value)
	old := s.values[id].Current
	s.values[id] = Value{Base: value, Current: value}
	*changes = append(*changes, change{id: id, old: old, new: value})
}

// clamp is the pre-write clamp applied to every committed value.
func (s *Store) clamp(id ID, value float64) float64 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	if capID, ok := id.Cap(); ok {
		if limit := s.values[capID].Current; value > limit {
			return limit
		}
	}
	return value
}

// propagate runs the post-write hook for id.
func (s *Store) propagate(id ID, changes *[]change) {
	for _, dep := range dependents[id] {
		s.commit(dep, derive(dep, s), changes)
		s.revalidate(dep, changes)
	}
	s.revalidate(id, changes)
}

// revalidate re-clamps the vital bounded by id, if id is a cap.
func (s *Store) revalidate(id ID, changes *[]change) {
	vital, ok := id.capped()
	if !ok {
		return
	}
	cur := s.values[vital].Current
	if clamped := s.clamp(vital, cur); clamped != cur {
		s.commit(vital, clamped, changes)
	}
}

func (s *Store) recomputeAll(changes *[]change) {
	for _, id := range Secondaries {
		s.commit(id, derive(id, s), changes)
		s.revalidate(id, changes)
	}
}

func (s *Store) notify(changes []change) {
	for _, c := range changes {
		subs := s.observers[c.id]
		if len(subs) == 0 {
			continue
		}
		// Observers may unsubscribe while being notified.
		snapshot := make([]subscription, len(subs))
		copy(snapshot, subs)
		for _, sub := range snapshot {
			sub.fn(c.old, c.new)
		}
	}
}
