package combat

import (
	"testing"

	"github.com/udisondev/magecombat/internal/ability"
	"github.com/udisondev/magecombat/internal/attribute"
	"github.com/udisondev/magecombat/internal/data"
	"github.com/udisondev/magecombat/internal/effect"
	"github.com/udisondev/magecombat/internal/model"
)

// seqRand returns the queued values in order, then 0.5.
type seqRand struct {
	values []float64
	calls  int
}

func (r *seqRand) Float64() float64 {
	r.calls++
	if len(r.values) == 0 {
		return 0.5
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v
}

type testLeveler struct {
	exp         int64
	attrPoints  int32
	skillPoints int32
}

func (l *testLeveler) Exp() int64                 { return l.exp }
func (l *testLeveler) AddExp(n int64) int64       { l.exp += n; return l.exp }
func (l *testLeveler) AddAttributePoints(n int32) { l.attrPoints += n }
func (l *testLeveler) AddSkillPoints(n int32)     { l.skillPoints += n }

type testParticipant struct {
	id        model.ObjectID
	class     model.CharacterClass
	player    bool
	store     *attribute.Store
	effects   *effect.Manager
	leveler   *testLeveler
	abilities *ability.Coordinator

	dead       bool
	deaths     int
	impulse    model.Vector
	hitReacts  int
	knockbacks []model.Vector
}

func newTestParticipant(t *testing.T, id model.ObjectID, class model.CharacterClass, level int32, d attribute.Defaults) *testParticipant {
	t.Helper()
	s := attribute.NewStore(level)
	s.ApplyDefaults(d)
	return &testParticipant{
		id:      id,
		class:   class,
		player:  model.IsPlayerObjectID(id),
		store:   s,
		effects: effect.NewManager(id),
	}
}

func (p *testParticipant) ObjectID() model.ObjectID     { return p.id }
func (p *testParticipant) Name() string                 { return "test" }
func (p *testParticipant) Level() int32                 { return p.store.Level() }
func (p *testParticipant) Class() model.CharacterClass  { return p.class }
func (p *testParticipant) IsPlayerControlled() bool     { return p.player }
func (p *testParticipant) IsDead() bool                 { return p.dead }
func (p *testParticipant) HitReact()                    { p.hitReacts++ }
func (p *testParticipant) Attributes() *attribute.Store { return p.store }
func (p *testParticipant) Effects() *effect.Manager     { return p.effects }

func (p *testParticipant) Die(impulse model.Vector) {
	p.dead = true
	p.deaths++
	p.impulse = impulse
}

func (p *testParticipant) ApplyKnockback(v model.Vector) {
	p.knockbacks = append(p.knockbacks, v)
}

func (p *testParticipant) Leveler() Leveler {
	if p.leveler == nil {
		return nil
	}
	return p.leveler
}

func (p *testParticipant) Abilities() *ability.Coordinator { return p.abilities }

const (
	playerID = model.ObjectIDPlayerStart + 1
	enemyID  = model.ObjectIDEnemyStart + 1
)

func newTestEngine(t *testing.T, rng Rand) *Engine {
	t.Helper()
	return NewEngine(data.Default(), rng)
}
