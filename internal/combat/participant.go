package combat

import (
	"github.com/udisondev/magecombat/internal/ability"
	"github.com/udisondev/magecombat/internal/attribute"
	"github.com/udisondev/magecombat/internal/effect"
	"github.com/udisondev/magecombat/internal/model"
)

// Participant is the capability set the pipeline needs from a character.
// Attributes, Effects, Leveler and Abilities may return nil: the pipeline
// then skips whatever depends on them.
type Participant interface {
	ObjectID() model.ObjectID
	Name() string
	Level() int32
	Class() model.CharacterClass
	IsPlayerControlled() bool

	IsDead() bool
	Die(impulse model.Vector)
	HitReact()
	ApplyKnockback(v model.Vector)

	Attributes() *attribute.Store
	Effects() *effect.Manager
	Leveler() Leveler
	Abilities() *ability.Coordinator
}

// Leveler is implemented by participants that accumulate experience.
type Leveler interface {
	Exp() int64
	// AddExp adds amount and returns the new total.
	AddExp(amount int64) int64
	AddAttributePoints(n int32)
	AddSkillPoints(n int32)
}

func sameParticipant(a, b Participant) bool {
	return a != nil && b != nil && a.ObjectID() == b.ObjectID()
}
