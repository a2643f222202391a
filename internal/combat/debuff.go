package combat

import (
	"log/slog"
	"math"
	"time"

	"github.com/udisondev/magecombat/internal/data"
	"github.com/udisondev/magecombat/internal/effect"
	"github.com/udisondev/magecombat/internal/effectctx"
	"github.com/udisondev/magecombat/internal/model"
)

// BuildDebuff constructs the periodic damage definition carried by ctx.
// Returns false when the damage type has no status or the timing is not
// positive.
func BuildDebuff(registry *data.Registry, source model.ObjectID, ctx *effectctx.Context) (effect.Definition, bool) {
	dt := ctx.GetDamageType()
	status, ok := registry.Status(dt)
	if !ok {
		slog.Warn("no debuff status for damage type", "damageType", dt)
		return effect.Definition{}, false
	}
	def := effect.Definition{
		Kind:       effect.KindPeriodicDamage,
		Status:     status,
		DamageType: dt,
		Magnitude:  ctx.DebuffDamage,
		Period:     seconds(ctx.DebuffFrequency),
		Duration:   seconds(ctx.DebuffDuration),
		SourceID:   source,
	}
	if !def.Valid() {
		slog.Debug("debuff with non-positive timing skipped",
			"frequency", ctx.DebuffFrequency,
			"duration", ctx.DebuffDuration)
		return effect.Definition{}, false
	}
	return def, true
}

func (e *Engine) applyDebuff(source, target Participant, ctx *effectctx.Context) {
	effects := target.Effects()
	if effects == nil {
		slog.Debug("debuff skipped: target has no effect manager", "target", target.ObjectID())
		return
	}
	def, ok := BuildDebuff(e.registry, objectIDOf(source), ctx)
	if !ok {
		return
	}
	id, refreshed := effects.Apply(def)
	slog.Debug("debuff applied",
		"target", target.ObjectID(),
		"status", def.Status,
		"effectID", id,
		"refreshed", refreshed)
}

// AdvanceEffects moves p's effects forward by dt, dealing debuff tick damage.
// Each tick re-enters the meta-damage handler with a fresh, non-debuff context.
func (e *Engine) AdvanceEffects(p Participant, dt time.Duration) {
	effects := p.Effects()
	if effects == nil {
		return
	}
	effects.Advance(dt, func(a effect.Active) {
		if p.IsDead() || p.Attributes() == nil {
			return
		}
		source := e.lookup(a.Def.SourceID)
		ctx := effectctx.New(a.Def.SourceID, a.Def.SourceID)
		ctx.AddActor(p.ObjectID())
		ctx.SetDamageType(a.Def.DamageType)
		e.applyDamage(source, p, ctx, a.Def.Magnitude)
	})
}

// seconds rounds to the nearest nanosecond: 4.1s must stay 41 ticks of 0.1s.
func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

