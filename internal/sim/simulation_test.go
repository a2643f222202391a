package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/magecombat/internal/attribute"
	"github.com/udisondev/magecombat/internal/character"
	"github.com/udisondev/magecombat/internal/combat"
	"github.com/udisondev/magecombat/internal/data"
	"github.com/udisondev/magecombat/internal/effectctx"
	"github.com/udisondev/magecombat/internal/model"
	"github.com/udisondev/magecombat/internal/world"
)

type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

type fixture struct {
	sim    *Simulation
	mage   *character.Character
	orc    *character.Character
	engine *combat.Engine
}

func newFixture(t *testing.T, queueSize int) fixture {
	t.Helper()
	reg := data.Default()
	w := world.New(reg)
	engine := combat.NewEngine(reg, fixedRand(0.5))
	engine.SetLookupFunc(w.Lookup)

	mage, err := w.SpawnPlayer("Merlin", model.ClassMage, 1)
	require.NoError(t, err)
	orc, err := w.SpawnEnemy("Orc", model.ClassWarrior, 1)
	require.NoError(t, err)

	return fixture{
		sim:    New(w, engine, time.Hour, queueSize),
		mage:   mage,
		orc:    orc,
		engine: engine,
	}
}

func fireball(m float64) combat.DamageSpec {
	return combat.DamageSpec{
		Magnitudes:   map[model.DamageType]float64{model.DamageTypeFire: m},
		AbilityLevel: 1,
		DamageType:   model.DamageTypeFire,
	}
}

func TestRunExecutesSubmittedCommands(t *testing.T) {
	f := newFixture(t, 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.sim.Run(ctx) }()

	reply := make(chan *effectctx.Context, 1)
	before := f.orc.Attributes().Current(attribute.Health)
	require.NoError(t, f.sim.Submit(ctx, Damage{
		Source: f.mage.ObjectID(),
		Target: f.orc.ObjectID(),
		Spec:   fireball(10),
		Reply:  reply,
	}))

	select {
	case got := <-reply:
		require.NotNil(t, got)
		assert.Equal(t, f.mage.ObjectID(), got.Instigator)
	case <-time.After(time.Second):
		t.Fatal("damage command was not executed")
	}

	cancel()
	require.NoError(t, <-done)
	assert.Less(t, f.orc.Attributes().Current(attribute.Health), before)
	assert.Equal(t, uint64(1), f.sim.Executed())
}

func TestDamageUnknownTargetReplyNil(t *testing.T) {
	f := newFixture(t, 1)
	reply := make(chan *effectctx.Context, 1)

	f.sim.execute(Damage{Source: f.mage.ObjectID(), Target: 12345, Spec: fireball(10), Reply: reply})

	assert.Nil(t, <-reply)
}

func TestSetPrimary(t *testing.T) {
	f := newFixture(t, 1)
	store := f.mage.Attributes()
	maxMana := store.Current(attribute.MaxMana)

	f.sim.execute(SetPrimary{Target: f.mage.ObjectID(), Attribute: attribute.Intelligence, Value: 20})
	assert.Equal(t, 20.0, store.Base(attribute.Intelligence))
	assert.Greater(t, store.Current(attribute.MaxMana), maxMana)

	f.sim.execute(SetPrimary{Target: f.mage.ObjectID(), Attribute: attribute.Health, Value: 1})
	assert.NotEqual(t, 1.0, store.Current(attribute.Health), "vitals are not primaries")
}

func TestGrantExperienceCommand(t *testing.T) {
	f := newFixture(t, 1)

	f.sim.execute(GrantExperience{Target: f.mage.ObjectID(), Amount: 300})
	f.sim.execute(GrantExperience{Target: 999, Amount: 300})

	assert.Equal(t, int64(300), f.mage.Exp())
	assert.Equal(t, int32(2), f.mage.Level())
}

func TestStepRunsDebuffTicks(t *testing.T) {
	f := newFixture(t, 1)
	spec := fireball(10)
	spec.Debuff = combat.DebuffSpec{Chance: 1, Damage: 2, Frequency: 1, Duration: 5}

	f.sim.execute(Damage{Source: f.mage.ObjectID(), Target: f.orc.ObjectID(), Spec: spec})
	require.Equal(t, 1, f.orc.Effects().Count())
	afterHit := f.orc.Attributes().Current(attribute.Health)

	for range 5 {
		f.sim.Step(time.Second)
	}

	assert.InDelta(t, afterHit-10, f.orc.Attributes().Current(attribute.Health), 1e-9)
	assert.Zero(t, f.orc.Effects().Count())
	assert.Equal(t, uint64(5), f.sim.Ticks())
}

func TestStepClearsDeadEffects(t *testing.T) {
	f := newFixture(t, 1)
	spec := fireball(1)
	spec.Debuff = combat.DebuffSpec{Chance: 1, Damage: 2, Frequency: 1, Duration: 5}
	f.sim.execute(Damage{Source: f.mage.ObjectID(), Target: f.orc.ObjectID(), Spec: spec})
	require.Equal(t, 1, f.orc.Effects().Count())

	f.orc.Die(model.Vector{})
	health := f.orc.Attributes().Current(attribute.Health)
	f.sim.Step(time.Second)

	assert.Zero(t, f.orc.Effects().Count())
	assert.Equal(t, health, f.orc.Attributes().Current(attribute.Health))
}

func TestSubmitRespectsContext(t *testing.T) {
	f := newFixture(t, 1)
	require.NoError(t, f.sim.Submit(context.Background(), GrantExperience{Target: 1, Amount: 1}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := f.sim.Submit(ctx, GrantExperience{Target: 1, Amount: 1})
	require.ErrorIs(t, err, context.Canceled)

	assert.Error(t, f.sim.Submit(context.Background(), nil))
}
