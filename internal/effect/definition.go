package effect

import (
	"time"

	"github.com/udisondev/magecombat/internal/model"
)

// Kind is the behaviour of an effect.
type Kind uint8

const (
	// KindPeriodicDamage deals Magnitude to the owner's meta-damage channel every Period.
	KindPeriodicDamage Kind = iota + 1
)

// Definition is a debuff built at runtime from an effect context.
// It is a plain value: applying it creates an independent Active instance.
type Definition struct {
	Kind       Kind
	Status     model.Status
	DamageType model.DamageType
	Magnitude  float64
	Period     time.Duration
	Duration   time.Duration
	SourceID   model.ObjectID
}

// Valid reports whether the definition can be applied.
func (d Definition) Valid() bool {
	return d.Kind == KindPeriodicDamage && d.Period > 0 && d.Duration > 0
}

// TickCount returns how many times the effect fires over its full duration.
func (d Definition) TickCount() int {
	if !d.Valid() {
		return 0
	}
	return int(d.Duration / d.Period)
}

type stackKey struct {
	status model.Status
	source model.ObjectID
}

func (d Definition) key() stackKey {
	return stackKey{status: d.Status, source: d.SourceID}
}
