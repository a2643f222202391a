package attribute

import "fmt"

// ID identifies one named scalar attribute of a character.
type ID uint8

// Primary attributes.
const (
	Strength ID = iota
	Intelligence
	Stamina
	Vigor

	// Vital attributes, each bounded by its cap.
	Health
	Mana
	Vitality

	// Secondary attributes, derived from primaries and level.
	MaxHealth
	MaxMana
	MaxVitality
	MinPhysicalAttack
	MaxPhysicalAttack
	MinMagicAttack
	MaxMagicAttack
	Defense
	CriticalHitChance

	// Resistances (fractions, clamped to [0,1] by the damage pipeline).
	FireResistance
	IceResistance
	LightningResistance
	PhysicalResistance

	// Meta channels: write-only scratch values reset after every write.
	MetaDamage
	MetaExp

	// Count is the number of attributes.
	Count
)

// Category groups attributes by role.
type Category uint8

const (
	CategoryPrimary Category = iota
	CategoryVital
	CategorySecondary
	CategoryResistance
	CategoryMeta
)

var (
	Primaries   = [...]ID{Strength, Intelligence, Stamina, Vigor}
	Vitals      = [...]ID{Health, Mana, Vitality}
	Resistances = [...]ID{FireResistance, IceResistance, LightningResistance, PhysicalResistance}

	// Secondaries is the canonical full-recompute order. Max is computed before
	// min for every attack range so observers see ranges settle in a stable order.
	Secondaries = [...]ID{
		MaxHealth,
		MaxMana,
		MaxVitality,
		MaxPhysicalAttack,
		MinPhysicalAttack,
		MaxMagicAttack,
		MinMagicAttack,
		Defense,
		CriticalHitChance,
	}
)

var names = [Count]string{
	Strength:            "Strength",
	Intelligence:        "Intelligence",
	Stamina:             "Stamina",
	Vigor:               "Vigor",
	Health:              "Health",
	Mana:                "Mana",
	Vitality:            "Vitality",
	MaxHealth:           "MaxHealth",
	MaxMana:             "MaxMana",
	MaxVitality:         "MaxVitality",
	MinPhysicalAttack:   "MinPhysicalAttack",
	MaxPhysicalAttack:   "MaxPhysicalAttack",
	MinMagicAttack:      "MinMagicAttack",
	MaxMagicAttack:      "MaxMagicAttack",
	Defense:             "Defense",
	CriticalHitChance:   "CriticalHitChance",
	FireResistance:      "FireResistance",
	IceResistance:       "IceResistance",
	LightningResistance: "LightningResistance",
	PhysicalResistance:  "PhysicalResistance",
	MetaDamage:          "MetaDamage",
	MetaExp:             "MetaExp",
}

func (id ID) String() string {
	if id < Count {
		return names[id]
	}
	return fmt.Sprintf("Attribute(%d)", uint8(id))
}

// Valid reports whether id names a known attribute.
func (id ID) Valid() bool {
	return id < Count
}

// Category returns the attribute's category.
func (id ID) Category() Category {
	switch {
	case id <= Vigor:
		return CategoryPrimary
	case id <= Vitality:
		return CategoryVital
	case id <= CriticalHitChance:
		return CategorySecondary
	case id <= PhysicalResistance:
		return CategoryResistance
	default:
		return CategoryMeta
	}
}

// IsMeta reports whether id is a write-only meta channel.
func (id ID) IsMeta() bool {
	return id == MetaDamage || id == MetaExp
}

// Cap returns the cap attribute bounding a vital attribute.
func (id ID) Cap() (ID, bool) {
	switch id {
	case Health:
		return MaxHealth, true
	case Mana:
		return MaxMana, true
	case Vitality:
		return MaxVitality, true
	}
	return 0, false
}

// capped returns the vital attribute bounded by a cap attribute.
func (id ID) capped() (ID, bool) {
	switch id {
	case MaxHealth:
		return Health, true
	case MaxMana:
		return Mana, true
	case MaxVitality:
		return Vitality, true
	}
	return 0, false
}

// Parse returns the attribute with the given name.
func Parse(s string) (ID, error) {
	for i, name := range names {
		if name == s {
			return ID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown attribute %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}
