package sim

import (
	"log/slog"

	"github.com/udisondev/magecombat/internal/attribute"
	"github.com/udisondev/magecombat/internal/combat"
	"github.com/udisondev/magecombat/internal/effectctx"
	"github.com/udisondev/magecombat/internal/model"
)

// Command is one state change executed on the simulation goroutine.
type Command interface {
	execute(s *Simulation)
}

// Damage applies Spec from Source to Target.
// If Reply is set, the resulting context (nil on abort) is sent to it
// without blocking.
type Damage struct {
	Source model.ObjectID
	Target model.ObjectID
	Spec   combat.DamageSpec
	Reply  chan<- *effectctx.Context
}

func (c Damage) execute(s *Simulation) {
	ctx := s.engine.CauseDamage(s.world.Lookup(c.Source), s.world.Lookup(c.Target), c.Spec)
	if c.Reply == nil {
		return
	}
	select {
	case c.Reply <- ctx:
	default:
		slog.Warn("damage reply dropped", "source", c.Source, "target", c.Target)
	}
}

// GrantExperience awards Amount experience to Target.
type GrantExperience struct {
	Target model.ObjectID
	Amount int64
}

func (c GrantExperience) execute(s *Simulation) {
	p := s.world.Lookup(c.Target)
	if p == nil {
		slog.Warn("experience grant to unknown object", "target", c.Target)
		return
	}
	s.engine.GrantExperience(p, c.Amount)
}

// SetPrimary writes the base value of a primary attribute.
type SetPrimary struct {
	Target    model.ObjectID
	Attribute attribute.ID
	Value     float64
}

func (c SetPrimary) execute(s *Simulation) {
	if c.Attribute.Category() != attribute.CategoryPrimary {
		slog.Warn("SetPrimary on non-primary attribute ignored", "attribute", c.Attribute)
		return
	}
	p := s.world.Lookup(c.Target)
	if p == nil || p.Attributes() == nil {
		slog.Warn("SetPrimary on unknown object", "target", c.Target)
		return
	}
	p.Attributes().SetBase(c.Attribute, c.Value)
}
