package attribute

// Snapshot is an immutable copy of a store's current values, taken by the
// damage pipeline before any write of the resolution pass.
type Snapshot struct {
	Values [Count]float64
	Level  int32
}

// Get returns the captured current value of id.
func (s Snapshot) Get(id ID) float64 {
	if !id.Valid() {
		return 0
	}
	return s.Values[id]
}

// Snapshot captures the store's current values.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{Level: s.level}
	for i := range s.values {
		snap.Values[i] = s.values[i].Current
	}
	return snap
}
