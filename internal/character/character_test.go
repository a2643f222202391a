package character

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/magecombat/internal/ability"
	"github.com/udisondev/magecombat/internal/attribute"
	"github.com/udisondev/magecombat/internal/combat"
	"github.com/udisondev/magecombat/internal/data"
	"github.com/udisondev/magecombat/internal/model"
)

const (
	testPlayerID = model.ObjectIDPlayerStart + 1
	testEnemyID  = model.ObjectIDEnemyStart + 1
)

func TestNew_AppliesClassDefaults(t *testing.T) {
	reg := data.Default()

	c, err := New(testPlayerID, "Merlin", model.ClassMage, 1, reg)
	require.NoError(t, err)

	assert.True(t, c.IsPlayerControlled())
	assert.NotNil(t, c.Leveler())
	assert.InDelta(t, 26.4, c.Attributes().Current(attribute.MinMagicAttack), 1e-9)
	assert.InDelta(t, 29.6, c.Attributes().Current(attribute.MaxMagicAttack), 1e-9)
	assert.Equal(t, c.Attributes().Current(attribute.MaxHealth), c.Attributes().Current(attribute.Health))

	st, err := c.Abilities().State("Ability.Fire.Fireball")
	require.NoError(t, err)
	assert.Equal(t, ability.StateEligible, st)
}

func TestNew_WarriorMaxHealth(t *testing.T) {
	c, err := New(testEnemyID, "Orc", model.ClassWarrior, 1, data.Default())
	require.NoError(t, err)

	assert.False(t, c.IsPlayerControlled())
	assert.Nil(t, c.Leveler())
	assert.InDelta(t, 127.0, c.Attributes().Current(attribute.MaxHealth), 1e-9)
}

func TestNew_UnknownClass(t *testing.T) {
	_, err := New(testEnemyID, "Ghost", model.ClassNone, 1, data.Default())
	require.ErrorIs(t, err, ErrUnknownClass)
}

func TestRestore_RoundTrip(t *testing.T) {
	reg := data.Default()
	c, err := New(testPlayerID, "Merlin", model.ClassMage, 1, reg)
	require.NoError(t, err)

	c.AddAttributePoints(2)
	require.NoError(t, c.UpgradeAttribute(attribute.Intelligence))
	c.AddExp(950)
	c.Attributes().SetLevel(3)

	p := c.Progress()
	restored, err := Restore(testPlayerID, "Merlin", model.ClassMage, p, reg)
	require.NoError(t, err)

	assert.Equal(t, p, restored.Progress())
	assert.Equal(t, c.Attributes().Current(attribute.MaxMana), restored.Attributes().Current(attribute.MaxMana))
	assert.Equal(t, 11.0, restored.Attributes().Base(attribute.Intelligence))
	assert.Equal(t, 0.2, restored.Attributes().Base(attribute.FireResistance))
}

func TestRestore_ResistancesFromRegistry(t *testing.T) {
	c, err := New(testPlayerID, "Merlin", model.ClassMage, 1, data.Default())
	require.NoError(t, err)
	c.AddAttributePoints(1)
	require.NoError(t, c.UpgradeAttribute(attribute.Stamina))
	p := c.Progress()

	// Баланс поменялся между сохранением и загрузкой.
	raw, err := os.ReadFile("../data/registry.yaml")
	require.NoError(t, err)
	raw = bytes.Replace(raw, []byte("fire_resistance: 0.2"), []byte("fire_resistance: 0.6"), 1)
	rebalanced, err := data.Parse(raw)
	require.NoError(t, err)

	restored, err := Restore(testPlayerID, "Merlin", model.ClassMage, p, rebalanced)
	require.NoError(t, err)

	store := restored.Attributes()
	assert.Equal(t, 0.6, store.Base(attribute.FireResistance))
	assert.Equal(t, 0.2, store.Base(attribute.IceResistance))
	assert.Equal(t, 4.0, store.Base(attribute.Stamina), "primaries come from progress")
	assert.Equal(t, p, restored.Progress())
}

func TestUpgradeAttribute(t *testing.T) {
	c, err := New(testPlayerID, "Conan", model.ClassWarrior, 1, data.Default())
	require.NoError(t, err)

	require.ErrorIs(t, c.UpgradeAttribute(attribute.Strength), ErrNoAttributePoints)
	c.AddAttributePoints(1)
	require.ErrorIs(t, c.UpgradeAttribute(attribute.MaxHealth), ErrNotPrimaryAttribute)

	before := c.Attributes().Current(attribute.MaxHealth)
	require.NoError(t, c.UpgradeAttribute(attribute.Strength))
	assert.InDelta(t, before+2, c.Attributes().Current(attribute.MaxHealth), 1e-9)
	assert.Zero(t, c.AttributePoints())
}

func TestDie_Once(t *testing.T) {
	c, err := New(testEnemyID, "Orc", model.ClassWarrior, 1, data.Default())
	require.NoError(t, err)

	c.ApplyKnockback(model.Vector{X: 5})
	c.Die(model.Vector{X: 1})
	c.Die(model.Vector{X: 2})

	assert.True(t, c.IsDead())
	assert.Equal(t, model.Vector{X: 1}, c.DeathImpulse())
	assert.True(t, c.Velocity().IsZero())
}

type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

func TestCombat_PlayerKillsEnemy(t *testing.T) {
	reg := data.Default()
	engine := combat.NewEngine(reg, fixedRand(0.5))

	var grants []combat.ExpGrant
	engine.SetExpFunc(func(g combat.ExpGrant) { grants = append(grants, g) })

	mage, err := New(testPlayerID, "Merlin", model.ClassMage, 1, reg)
	require.NoError(t, err)
	orc, err := New(testEnemyID, "Orc", model.ClassWarrior, 1, reg)
	require.NoError(t, err)

	spec := combat.DamageSpec{
		Magnitudes:   map[model.DamageType]float64{model.DamageTypeFire: 60},
		AbilityLevel: 1,
	}
	for i := 0; i < 10 && !orc.IsDead(); i++ {
		engine.CauseDamage(mage, orc, spec)
	}

	require.True(t, orc.IsDead())
	require.Len(t, grants, 1)
	assert.Equal(t, int64(40), mage.Exp())
	assert.Zero(t, orc.Attributes().Current(attribute.Health))
	assert.Greater(t, orc.HitReactions(), 0)
}
