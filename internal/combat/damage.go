package combat

import (
	"log/slog"

	"github.com/udisondev/magecombat/internal/attribute"
	"github.com/udisondev/magecombat/internal/data"
	"github.com/udisondev/magecombat/internal/effectctx"
	"github.com/udisondev/magecombat/internal/model"
)

// DebuffSpec describes the debuff an ability may attach. Frequency and
// Duration are in seconds.
type DebuffSpec struct {
	Chance    float64
	Damage    float64
	Frequency float64
	Duration  float64
}

// DamageSpec is one damage application requested by the ability layer.
type DamageSpec struct {
	// Magnitudes per damage type, already scaled by the ability.
	Magnitudes   map[model.DamageType]float64
	AbilityLevel int32
	AbilityClass uint32

	// DamageType is the debuff damage type carried in the context.
	DamageType model.DamageType
	Debuff     DebuffSpec

	DeathImpulse    model.Vector
	Knockback       model.Vector
	KnockbackChance float64

	HitResult *effectctx.HitResult
}

// Breakdown is the intermediate result of one damage calculation.
type Breakdown struct {
	TypeDamage   float64
	RandomAttack float64
	Defense      float64
	RawDamage    float64
	Critical     bool
	Final        float64
}

// CauseDamage resolves spec from source against target and applies the
// result to the target's meta-damage channel. The returned context carries
// the critical, debuff and knockback outcome for the ability layer.
// A dead target, or one without attributes, aborts silently with nil.
func (e *Engine) CauseDamage(source, target Participant, spec DamageSpec) *effectctx.Context {
	if target == nil || target.Attributes() == nil {
		slog.Debug("damage aborted: target has no attributes")
		return nil
	}
	if target.IsDead() {
		slog.Debug("damage aborted: target is dead", "target", target.ObjectID())
		return nil
	}
	if source == nil || source.Attributes() == nil {
		slog.Debug("damage aborted: source has no attributes", "target", target.ObjectID())
		return nil
	}

	b := e.Calculate(source.Class(), source.Attributes().Snapshot(), target.Attributes().Snapshot(), spec)

	ctx := effectctx.New(source.ObjectID(), source.ObjectID())
	ctx.AbilityClass = spec.AbilityClass
	ctx.AddActor(target.ObjectID())
	ctx.HitResult = spec.HitResult
	ctx.IsCritical = b.Critical
	ctx.DeathImpulse = spec.DeathImpulse

	if spec.Debuff.Chance > 0 && e.rng.Float64() < spec.Debuff.Chance {
		ctx.IsDebuff = true
		ctx.DebuffDamage = spec.Debuff.Damage
		ctx.DebuffFrequency = spec.Debuff.Frequency
		ctx.DebuffDuration = spec.Debuff.Duration
		ctx.SetDamageType(spec.DamageType)
	}
	if spec.KnockbackChance > 0 && !spec.Knockback.IsZero() && e.rng.Float64() < spec.KnockbackChance {
		ctx.Knockback = spec.Knockback
	}

	slog.Debug("damage resolved",
		"source", source.ObjectID(),
		"target", target.ObjectID(),
		"typeDamage", b.TypeDamage,
		"randomAttack", b.RandomAttack,
		"defense", b.Defense,
		"critical", b.Critical,
		"final", b.Final)

	e.applyDamage(source, target, ctx, b.Final)
	return ctx
}

// Calculate runs the damage formula over two attribute snapshots.
// Rolls: the random attack first, then the critical roll.
//
// Panics if the registry lacks the attack bonus or critical curves.
func (e *Engine) Calculate(class model.CharacterClass, src, tgt attribute.Snapshot, spec DamageSpec) Breakdown {
	var b Breakdown

	for _, dt := range model.DamageTypes {
		magnitude := spec.Magnitudes[dt]
		if magnitude == 0 {
			continue
		}
		resistance := 0.0
		if id, ok := e.registry.Resistance(dt); ok {
			resistance = clamp(tgt.Get(id), 0, 1)
		} else {
			slog.Warn("damage type has no resistance mapping", "damageType", dt)
		}
		b.TypeDamage += magnitude * (1 - resistance)
	}

	minID, maxID := attribute.MinPhysicalAttack, attribute.MaxPhysicalAttack
	if class.UsesMagicAttack() {
		minID, maxID = attribute.MinMagicAttack, attribute.MaxMagicAttack
	}
	lo, hi := src.Get(minID), src.Get(maxID)
	attackBonus := e.registry.MustCurve(data.CurveAttackBonus).Eval(float64(spec.AbilityLevel))
	b.RandomAttack = (lo + e.rng.Float64()*(hi-lo)) * attackBonus

	b.Defense = tgt.Get(attribute.Defense)
	b.RawDamage = max(0, b.TypeDamage+b.RandomAttack-b.Defense)

	critChance := clamp(src.Get(attribute.CriticalHitChance), 0, 1)
	b.Critical = e.rng.Float64() <= critChance

	b.Final = b.RawDamage
	if b.Critical {
		b.Final *= e.registry.MustCurve(data.CurveCriticalMultiplier).Eval(float64(spec.AbilityLevel))
	}
	return b
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
