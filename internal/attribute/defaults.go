package attribute

// Defaults is the default-attribute application applied once at spawn.
type Defaults struct {
	Strength     float64 `yaml:"strength"`
	Intelligence float64 `yaml:"intelligence"`
	Stamina      float64 `yaml:"stamina"`
	Vigor        float64 `yaml:"vigor"`

	FireResistance      float64 `yaml:"fire_resistance"`
	IceResistance       float64 `yaml:"ice_resistance"`
	LightningResistance float64 `yaml:"lightning_resistance"`
	PhysicalResistance  float64 `yaml:"physical_resistance"`
}

// PrimaryValues are the base primary attributes, the only attribute values
// that are persisted.
type PrimaryValues struct {
	Strength     float64
	Intelligence float64
	Stamina      float64
	Vigor        float64
}

// Primaries returns the primary part of d.
func (d Defaults) Primaries() PrimaryValues {
	return PrimaryValues{
		Strength:     d.Strength,
		Intelligence: d.Intelligence,
		Stamina:      d.Stamina,
		Vigor:        d.Vigor,
	}
}

// WithPrimaries returns d with its primaries replaced by p.
// Resistances are kept.
func (d Defaults) WithPrimaries(p PrimaryValues) Defaults {
	d.Strength = p.Strength
	d.Intelligence = p.Intelligence
	d.Stamina = p.Stamina
	d.Vigor = p.Vigor
	return d
}

// ApplyDefaults writes primaries and resistances, recomputes every secondary
// and fills vitals to their caps. Observers see the settled values only.
func (s *Store) ApplyDefaults(d Defaults) {
	var changes []change
	writes := [...]struct {
		id ID
		v  float64
	}{
		{Strength, d.Strength},
		{Intelligence, d.Intelligence},
		{Stamina, d.Stamina},
		{Vigor, d.Vigor},
		{FireResistance, d.FireResistance},
		{IceResistance, d.IceResistance},
		{LightningResistance, d.LightningResistance},
		{PhysicalResistance, d.PhysicalResistance},
	}
	for _, w := range writes {
		s.commit(w.id, w.v, &changes)
	}
	s.recomputeAll(&changes)
	for _, vital := range Vitals {
		capID, _ := vital.Cap()
		s.commit(vital, s.values[capID].Current, &changes)
	}
	s.notify(changes)
}

// Primaries returns the base primary attributes.
func (s *Store) Primaries() PrimaryValues {
	return PrimaryValues{
		Strength:     s.values[Strength].Base,
		Intelligence: s.values[Intelligence].Base,
		Stamina:      s.values[Stamina].Base,
		Vigor:        s.values[Vigor].Base,
	}
}
