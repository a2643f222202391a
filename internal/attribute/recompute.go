package attribute

// dependents lists, per primary attribute, the secondaries recomputed after
// a write to it. Order is significant only for observers.
var dependents = [Count][]ID{
	Strength:     {MaxHealth, MaxPhysicalAttack, MinPhysicalAttack},
	Intelligence: {MaxMana, MaxMagicAttack, MinMagicAttack},
	Stamina:      {MaxHealth, MaxVitality, Defense},
	Vigor:        {MaxPhysicalAttack, MinPhysicalAttack, MaxMagicAttack, MinMagicAttack, CriticalHitChance},
}

// Dependents returns the secondaries recomputed after a write to id.
func Dependents(id ID) []ID {
	if !id.Valid() {
		return nil
	}
	out := make([]ID, len(dependents[id]))
	copy(out, dependents[id])
	return out
}

// derive computes a secondary attribute from the store's current values.
// Non-secondary ids return their current value unchanged.
func derive(id ID, s *Store) float64 {
	v := func(a ID) float64 { return s.values[a].Current }
	return Derive(id, v, s.level)
}

// Derive evaluates the closed-form formula of a secondary attribute.
// get supplies current attribute values. Non-secondary ids return get(id).
func Derive(id ID, get func(ID) float64, level int32) float64 {
	lvl := float64(level)
	switch id {
	case MaxHealth:
		return get(Strength)*2.0 + get(Stamina)*19.4 + lvl*10
	case MaxMana:
		return get(Intelligence)*3.0 + lvl*15
	case MaxVitality:
		return 100 + get(Stamina)*0.1 + lvl*1
	case MinPhysicalAttack:
		return get(Strength)*1.3 + get(Vigor)*1.7 + lvl
	case MaxPhysicalAttack:
		return get(Strength)*1.3 + get(Vigor)*2.5 + lvl
	case MinMagicAttack:
		return get(Intelligence)*2.2 + get(Vigor)*1.7 + lvl
	case MaxMagicAttack:
		return get(Intelligence)*2.2 + get(Vigor)*2.5 + lvl
	case Defense:
		return get(Stamina)*4.8 + lvl
	case CriticalHitChance:
		return 0.1 + get(Vigor)*0.01
	}
	return get(id)
}
