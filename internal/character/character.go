package character

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/udisondev/magecombat/internal/ability"
	"github.com/udisondev/magecombat/internal/attribute"
	"github.com/udisondev/magecombat/internal/combat"
	"github.com/udisondev/magecombat/internal/data"
	"github.com/udisondev/magecombat/internal/effect"
	"github.com/udisondev/magecombat/internal/model"
)

var (
	ErrUnknownClass        = errors.New("unknown character class")
	ErrNoAttributePoints   = errors.New("no attribute points")
	ErrNotPrimaryAttribute = errors.New("not a primary attribute")
)

// Character представляет участника боя: игрока или врага.
// Владеет своим хранилищем атрибутов, менеджером эффектов и прогрессией.
//
// Mutations happen on the simulation goroutine only. The dead flag is
// atomic so that read-only observers may poll it.
type Character struct {
	objectID model.ObjectID
	name     string
	class    model.CharacterClass
	player   bool

	store     *attribute.Store
	effects   *effect.Manager
	abilities *ability.Coordinator

	// Progression (players only)
	exp             int64
	attributePoints int32

	location model.Vector
	velocity model.Vector

	dead         atomic.Bool
	deathImpulse model.Vector
	hitReacts    int
}

// Progress is the persisted progression of a character.
type Progress struct {
	Level     int32
	Exp       int64
	Primaries attribute.PrimaryValues
}

// New spawns a character at level with the class defaults of registry.
// Player control is derived from the object ID range.
func New(objectID model.ObjectID, name string, class model.CharacterClass, level int32, registry *data.Registry) (*Character, error) {
	info, ok := registry.Class(class)
	if !ok {
		return nil, fmt.Errorf("new character %q: %w: %v", name, ErrUnknownClass, class)
	}
	return restore(objectID, name, info, Progress{Level: level, Primaries: info.Defaults.Primaries()}), nil
}

// Restore rebuilds a persisted character. Derived attributes are recomputed
// from the stored primaries; they are never loaded. Resistances always come
// from the class defaults of registry.
func Restore(objectID model.ObjectID, name string, class model.CharacterClass, p Progress, registry *data.Registry) (*Character, error) {
	info, ok := registry.Class(class)
	if !ok {
		return nil, fmt.Errorf("restore character %q: %w: %v", name, ErrUnknownClass, class)
	}
	return restore(objectID, name, info, p), nil
}

func restore(objectID model.ObjectID, name string, info data.ClassInfo, p Progress) *Character {
	c := &Character{
		objectID:  objectID,
		name:      name,
		class:     info.Class,
		player:    model.IsPlayerObjectID(objectID),
		store:     attribute.NewStore(p.Level),
		effects:   effect.NewManager(objectID),
		abilities: ability.NewCoordinator(info.Abilities),
		exp:       p.Exp,
	}
	// Сопротивления всегда берутся из класса, сохраняются только первичные.
	c.store.ApplyDefaults(info.Defaults.WithPrimaries(p.Primaries))
	c.abilities.UnlockForLevel(c.store.Level())
	return c
}

func (c *Character) ObjectID() model.ObjectID        { return c.objectID }
func (c *Character) Name() string                    { return c.name }
func (c *Character) Class() model.CharacterClass     { return c.class }
func (c *Character) IsPlayerControlled() bool        { return c.player }
func (c *Character) Level() int32                    { return c.store.Level() }
func (c *Character) Attributes() *attribute.Store    { return c.store }
func (c *Character) Effects() *effect.Manager        { return c.effects }
func (c *Character) Abilities() *ability.Coordinator { return c.abilities }
func (c *Character) IsDead() bool                    { return c.dead.Load() }
func (c *Character) DeathImpulse() model.Vector      { return c.deathImpulse }
func (c *Character) Location() model.Vector          { return c.location }
func (c *Character) Velocity() model.Vector          { return c.velocity }
func (c *Character) HitReactions() int               { return c.hitReacts }
func (c *Character) AttributePoints() int32          { return c.attributePoints }
func (c *Character) SetLocation(loc model.Vector)    { c.location = loc }

// Leveler returns the character's progression, nil for enemies.
func (c *Character) Leveler() combat.Leveler {
	if !c.player {
		return nil
	}
	return c
}

// Die marks the character dead. Only the first call has any effect.
func (c *Character) Die(impulse model.Vector) {
	if !c.dead.CompareAndSwap(false, true) {
		return
	}
	c.deathImpulse = impulse
	c.velocity = model.ZeroVector
	slog.Debug("character died", "name", c.name, "objectID", c.objectID)
}

// HitReact plays the hit reaction.
func (c *Character) HitReact() {
	c.hitReacts++
}

// ApplyKnockback adds v to the character's velocity.
func (c *Character) ApplyKnockback(v model.Vector) {
	c.velocity = c.velocity.Add(v)
}

// Exp returns the accumulated experience.
func (c *Character) Exp() int64 { return c.exp }

// AddExp adds amount and returns the new total.
func (c *Character) AddExp(amount int64) int64 {
	c.exp += amount
	return c.exp
}

// AddAttributePoints adds n unspent attribute points.
func (c *Character) AddAttributePoints(n int32) {
	c.attributePoints += n
}

// AddSkillPoints adds n skill points to the ability coordinator.
func (c *Character) AddSkillPoints(n int32) {
	c.abilities.AddSkillPoints(n)
}

// UpgradeAttribute spends one attribute point on a primary attribute.
func (c *Character) UpgradeAttribute(id attribute.ID) error {
	if id.Category() != attribute.CategoryPrimary {
		return fmt.Errorf("upgrade %v: %w", id, ErrNotPrimaryAttribute)
	}
	if c.attributePoints <= 0 {
		return fmt.Errorf("upgrade %v: %w", id, ErrNoAttributePoints)
	}
	c.attributePoints--
	c.store.SetBase(id, c.store.Base(id)+1)
	return nil
}

// Progress returns what gets persisted.
func (c *Character) Progress() Progress {
	return Progress{
		Level:     c.store.Level(),
		Exp:       c.exp,
		Primaries: c.store.Primaries(),
	}
}

var _ combat.Participant = (*Character)(nil)
