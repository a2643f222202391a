package combat

import (
	"log/slog"

	"github.com/udisondev/magecombat/internal/attribute"
)

// GrantExperience writes amount to p's meta-experience channel.
// A zero amount still raises an ExpGrant event; negative amounts are ignored.
// Participants without a Leveler ignore the grant.
func (e *Engine) GrantExperience(p Participant, amount int64) {
	if p == nil || amount < 0 {
		return
	}
	lv := p.Leveler()
	store := p.Attributes()
	if lv == nil || store == nil {
		slog.Debug("experience ignored: participant cannot level", "objectID", p.ObjectID())
		return
	}
	store.WriteMeta(attribute.MetaExp, float64(amount), func(v float64) {
		e.handleMetaExp(p, lv, int64(v))
	})
}

// handleMetaExp is the post-write hook of MetaExp.
func (e *Engine) handleMetaExp(p Participant, lv Leveler, amount int64) {
	store := p.Attributes()
	oldLevel := store.Level()
	total := lv.AddExp(amount)

	levels := e.registry.Levels()
	newLevel := levels.LevelForExp(total)

	if newLevel > oldLevel {
		for l := oldLevel + 1; l <= newLevel; l++ {
			attrPoints, skillPoints := levels.Awards(l)
			lv.AddAttributePoints(attrPoints)
			lv.AddSkillPoints(skillPoints)
		}
		store.SetLevel(newLevel)
		store.Fill()
		if abilities := p.Abilities(); abilities != nil {
			abilities.UnlockForLevel(newLevel)
		}
		slog.Info("level up",
			"name", p.Name(),
			"objectID", p.ObjectID(),
			"oldLevel", oldLevel,
			"newLevel", newLevel)
	}

	if e.expFunc != nil {
		e.expFunc(ExpGrant{
			Recipient: p.ObjectID(),
			Amount:    amount,
			Total:     total,
			OldLevel:  oldLevel,
			NewLevel:  max(oldLevel, newLevel),
		})
	}
}
