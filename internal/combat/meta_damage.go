package combat

import (
	"log/slog"

	"github.com/udisondev/magecombat/internal/attribute"
	"github.com/udisondev/magecombat/internal/effectctx"
)

// applyDamage writes amount to the target's meta-damage channel.
// source may be nil for debuff ticks whose source has despawned.
func (e *Engine) applyDamage(source, target Participant, ctx *effectctx.Context, amount float64) {
	store := target.Attributes()
	store.WriteMeta(attribute.MetaDamage, amount, func(v float64) {
		e.handleMetaDamage(source, target, ctx, v)
	})
	if e.applyFunc != nil {
		e.applyFunc(target.ObjectID(), ctx)
	}
}

// handleMetaDamage is the post-write hook of MetaDamage.
func (e *Engine) handleMetaDamage(source, target Participant, ctx *effectctx.Context, damage float64) {
	if damage <= 0 {
		e.showFloatingText(source, target, 0, false)
		return
	}

	store := target.Attributes()
	health := clamp(store.Current(attribute.Health)-damage, 0, store.Current(attribute.MaxHealth))
	store.SetBase(attribute.Health, health)

	fatal := store.Current(attribute.Health) <= 0
	if fatal {
		e.kill(source, target, ctx)
	} else {
		target.HitReact()
		if !ctx.Knockback.IsZero() {
			target.ApplyKnockback(ctx.Knockback)
		}
	}

	e.showFloatingText(source, target, damage, ctx.IsCritical)

	if ctx.IsDebuff && !fatal {
		e.applyDebuff(source, target, ctx)
	}
}

// kill runs the death sequence once per participant.
func (e *Engine) kill(killer, victim Participant, ctx *effectctx.Context) {
	if victim.IsDead() {
		return
	}
	if effects := victim.Effects(); effects != nil {
		if n := effects.RemoveAll(); n > 0 {
			slog.Debug("debuffs cancelled on death", "victim", victim.ObjectID(), "count", n)
		}
	}
	victim.Die(ctx.DeathImpulse)

	slog.Info("participant died",
		"victim", victim.Name(),
		"victimID", victim.ObjectID(),
		"killerID", objectIDOf(killer))

	if e.deathFunc != nil {
		e.deathFunc(victim, killer)
	}

	if killer == nil || sameParticipant(killer, victim) {
		return
	}
	// Один килл = ровно одно событие опыта, даже с нулевой наградой.
	e.GrantExperience(killer, e.registry.ExpReward(victim.Class(), victim.Level()))
}

// showFloatingText routes the damage number to the player-controlled side:
// the source first, otherwise the target. Self-damage shows nothing.
func (e *Engine) showFloatingText(source, target Participant, value float64, critical bool) {
	if e.floatingTextFunc == nil || sameParticipant(source, target) {
		return
	}
	var viewer Participant
	switch {
	case source != nil && source.IsPlayerControlled():
		viewer = source
	case target.IsPlayerControlled():
		viewer = target
	default:
		return
	}
	e.floatingTextFunc(FloatingText{
		Viewer:   viewer.ObjectID(),
		Target:   target.ObjectID(),
		Value:    value,
		Critical: critical,
	})
}

func objectIDOf(p Participant) uint32 {
	if p == nil {
		return 0
	}
	return p.ObjectID()
}
