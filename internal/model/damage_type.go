package model

import "fmt"

// DamageType is the elemental category of a damage magnitude.
// Each type maps to exactly one resistance attribute and one debuff status
// (see data.Registry).
type DamageType uint8

const (
	DamageTypeNone DamageType = iota
	DamageTypeFire
	DamageTypeIce
	DamageTypeLightning
	DamageTypePhysical

	damageTypeCount
)

// DamageTypes lists every real damage type in a stable order.
// Iteration order of the damage pipeline follows this slice.
var DamageTypes = [...]DamageType{
	DamageTypeFire,
	DamageTypeIce,
	DamageTypeLightning,
	DamageTypePhysical,
}

var damageTypeNames = [damageTypeCount]string{
	DamageTypeNone:      "None",
	DamageTypeFire:      "Fire",
	DamageTypeIce:       "Ice",
	DamageTypeLightning: "Lightning",
	DamageTypePhysical:  "Physical",
}

// Valid reports whether d is one of the real damage types.
func (d DamageType) Valid() bool {
	return d > DamageTypeNone && d < damageTypeCount
}

func (d DamageType) String() string {
	if d < damageTypeCount {
		return damageTypeNames[d]
	}
	return fmt.Sprintf("DamageType(%d)", uint8(d))
}

// ParseDamageType returns the damage type with the given name.
func ParseDamageType(s string) (DamageType, error) {
	for i, name := range damageTypeNames {
		if name == s {
			return DamageType(i), nil
		}
	}
	return DamageTypeNone, fmt.Errorf("unknown damage type %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler (used by YAML data files).
func (d *DamageType) UnmarshalText(text []byte) error {
	v, err := ParseDamageType(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d DamageType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
