package data

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/magecombat/internal/attribute"
	"github.com/udisondev/magecombat/internal/model"
)

//go:embed registry.yaml
var defaultRegistryYAML []byte

// ErrInvalidRegistry wraps every validation failure of game data.
var ErrInvalidRegistry = errors.New("invalid registry")

// AbilityInfo describes one ability a class can unlock.
type AbilityInfo struct {
	Tag              string `yaml:"tag"`
	LevelRequirement int32  `yaml:"level_requirement"`
}

// ClassInfo holds the per-class defaults.
type ClassInfo struct {
	Class     model.CharacterClass
	Defaults  attribute.Defaults
	ExpReward *Curve
	Abilities []AbilityInfo
}

// Registry is the immutable, process-wide game data: damage-type mappings,
// curves, level table and class info. Safe for concurrent reads.
type Registry struct {
	resistances map[model.DamageType]attribute.ID
	statuses    map[model.DamageType]model.Status
	curves      map[string]*Curve
	levels      LevelTable
	classes     map[model.CharacterClass]ClassInfo
}

type registryFile struct {
	DamageTypes []struct {
		Type       model.DamageType `yaml:"type"`
		Resistance attribute.ID     `yaml:"resistance"`
		Status     model.Status     `yaml:"status"`
	} `yaml:"damage_types"`
	Curves  map[string][]CurvePoint `yaml:"curves"`
	Levels  []LevelInfo             `yaml:"levels"`
	Classes []struct {
		Class     model.CharacterClass `yaml:"class"`
		Defaults  attribute.Defaults   `yaml:"defaults"`
		ExpReward []CurvePoint         `yaml:"exp_reward"`
		Abilities []AbilityInfo        `yaml:"abilities"`
	} `yaml:"classes"`
}

// Default returns the registry built from the embedded registry.yaml.
func Default() *Registry {
	r, err := Parse(defaultRegistryYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded registry: %v", err))
	}
	return r
}

// Load reads a registry from a YAML file.
// If the file doesn't exist, returns the embedded default.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("registry file not found, using embedded default", "path", path)
			return Default(), nil
		}
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}
	r, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing registry %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes and validates registry YAML.
func Parse(raw []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decoding registry: %w", err)
	}

	r := &Registry{
		resistances: make(map[model.DamageType]attribute.ID, len(f.DamageTypes)),
		statuses:    make(map[model.DamageType]model.Status, len(f.DamageTypes)),
		curves:      make(map[string]*Curve, len(f.Curves)),
		levels:      NewLevelTable(f.Levels),
		classes:     make(map[model.CharacterClass]ClassInfo, len(f.Classes)),
	}

	for _, dt := range f.DamageTypes {
		if !dt.Type.Valid() {
			return nil, fmt.Errorf("%w: damage type %v", ErrInvalidRegistry, dt.Type)
		}
		if dt.Resistance.Category() != attribute.CategoryResistance {
			return nil, fmt.Errorf("%w: %v mapped to non-resistance %v", ErrInvalidRegistry, dt.Type, dt.Resistance)
		}
		r.resistances[dt.Type] = dt.Resistance
		if dt.Status != model.StatusNone {
			r.statuses[dt.Type] = dt.Status
		}
	}

	for name, pts := range f.Curves {
		c, err := NewCurve(pts)
		if err != nil {
			return nil, fmt.Errorf("%w: curve %s: %v", ErrInvalidRegistry, name, err)
		}
		r.curves[name] = c
	}

	for _, ci := range f.Classes {
		info := ClassInfo{Class: ci.Class, Defaults: ci.Defaults, Abilities: ci.Abilities}
		if len(ci.ExpReward) > 0 {
			c, err := NewCurve(ci.ExpReward)
			if err != nil {
				return nil, fmt.Errorf("%w: class %v exp reward: %v", ErrInvalidRegistry, ci.Class, err)
			}
			info.ExpReward = c
		}
		r.classes[ci.Class] = info
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks that everything the damage pipeline requires is present.
func (r *Registry) Validate() error {
	var errs []error
	for _, name := range []string{CurveAttackBonus, CurveCriticalMultiplier} {
		if _, ok := r.curves[name]; !ok {
			errs = append(errs, fmt.Errorf("%w: missing curve %s", ErrInvalidRegistry, name))
		}
	}
	for _, dt := range model.DamageTypes {
		if _, ok := r.resistances[dt]; !ok {
			errs = append(errs, fmt.Errorf("%w: damage type %v has no resistance", ErrInvalidRegistry, dt))
		}
	}
	if len(r.levels) < 2 {
		errs = append(errs, fmt.Errorf("%w: empty level table", ErrInvalidRegistry))
	}
	for i := 2; i < len(r.levels); i++ {
		if r.levels[i].Requirement < r.levels[i-1].Requirement {
			errs = append(errs, fmt.Errorf("%w: level %d requirement decreases", ErrInvalidRegistry, i))
		}
	}
	return errors.Join(errs...)
}

// Resistance returns the resistance attribute mapped to dt.
func (r *Registry) Resistance(dt model.DamageType) (attribute.ID, bool) {
	id, ok := r.resistances[dt]
	return id, ok
}

// Status returns the debuff status mapped to dt.
func (r *Registry) Status(dt model.DamageType) (model.Status, bool) {
	s, ok := r.statuses[dt]
	return s, ok
}

// Curve returns the named curve.
func (r *Registry) Curve(name string) (*Curve, bool) {
	c, ok := r.curves[name]
	return c, ok
}

// MustCurve returns the named curve and panics if it is missing.
// Validate rejects registries without the pipeline curves, so a panic here
// means the registry was built bypassing Parse.
func (r *Registry) MustCurve(name string) *Curve {
	c, ok := r.curves[name]
	if !ok {
		panic(fmt.Sprintf("data: required curve %q not found", name))
	}
	return c
}

// Levels returns the level table.
func (r *Registry) Levels() LevelTable {
	return r.levels
}

// Class returns the info of class c.
func (r *Registry) Class(c model.CharacterClass) (ClassInfo, bool) {
	info, ok := r.classes[c]
	return info, ok
}

// ExpReward returns the experience granted for defeating a character of
// class c at level. Unknown classes reward nothing.
func (r *Registry) ExpReward(c model.CharacterClass, level int32) int64 {
	info, ok := r.classes[c]
	if !ok || info.ExpReward == nil {
		slog.Warn("no exp reward for class", "class", c)
		return 0
	}
	return int64(info.ExpReward.Eval(float64(level)))
}
