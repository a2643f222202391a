package combat

import (
	"math/rand/v2"

	"github.com/udisondev/magecombat/internal/data"
	"github.com/udisondev/magecombat/internal/effectctx"
	"github.com/udisondev/magecombat/internal/model"
)

// Rand is the authoritative random source. *rand.Rand satisfies it.
type Rand interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
}

// FloatingText is a damage number shown to one player-controlled viewer.
type FloatingText struct {
	Viewer   model.ObjectID
	Target   model.ObjectID
	Value    float64
	Critical bool
}

// ExpGrant is one experience award event.
type ExpGrant struct {
	Recipient model.ObjectID
	Amount    int64
	Total     int64
	OldLevel  int32
	NewLevel  int32
}

// Engine resolves damage applications. It runs on the simulation goroutine
// only; every roll is made here, never on a replica.
type Engine struct {
	registry *data.Registry
	rng      Rand

	// lookupFunc resolves debuff sources on periodic ticks (may be nil).
	lookupFunc func(id model.ObjectID) Participant

	// floatingTextFunc выводит цифры урона игроку (nil = не показывать).
	floatingTextFunc func(FloatingText)

	// expFunc observes every experience grant.
	expFunc func(ExpGrant)

	// applyFunc observes every resolved application, including debuff ticks.
	applyFunc func(target model.ObjectID, ctx *effectctx.Context)

	// deathFunc is called once when a participant dies.
	deathFunc func(victim, killer Participant)
}

// NewEngine creates an engine over registry. A nil rng seeds a PCG source.
func NewEngine(registry *data.Registry, rng Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Engine{registry: registry, rng: rng}
}

// SetLookupFunc sets the participant resolver used by debuff ticks.
func (e *Engine) SetLookupFunc(fn func(id model.ObjectID) Participant) {
	e.lookupFunc = fn
}

// SetFloatingTextFunc sets the damage number callback.
func (e *Engine) SetFloatingTextFunc(fn func(FloatingText)) {
	e.floatingTextFunc = fn
}

// SetExpFunc sets the experience grant observer.
func (e *Engine) SetExpFunc(fn func(ExpGrant)) {
	e.expFunc = fn
}

// SetApplyFunc sets the application observer (replication hook).
func (e *Engine) SetApplyFunc(fn func(target model.ObjectID, ctx *effectctx.Context)) {
	e.applyFunc = fn
}

// SetDeathFunc sets the death callback.
func (e *Engine) SetDeathFunc(fn func(victim, killer Participant)) {
	e.deathFunc = fn
}

// Registry returns the game data the engine resolves against.
func (e *Engine) Registry() *data.Registry {
	return e.registry
}

func (e *Engine) lookup(id model.ObjectID) Participant {
	if e.lookupFunc == nil || id == 0 {
		return nil
	}
	return e.lookupFunc(id)
}
