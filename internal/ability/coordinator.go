package ability

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/udisondev/magecombat/internal/data"
)

// State is the progression state of an ability.
type State uint8

const (
	StateLocked State = iota
	StateEligible
	StateUnlocked
	StateEquipped
)

func (s State) String() string {
	switch s {
	case StateLocked:
		return "Locked"
	case StateEligible:
		return "Eligible"
	case StateUnlocked:
		return "Unlocked"
	case StateEquipped:
		return "Equipped"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

var (
	ErrUnknownAbility   = errors.New("unknown ability")
	ErrNotEligible      = errors.New("ability not eligible")
	ErrNoSkillPoints    = errors.New("no skill points")
	ErrAbilityNotLearnt = errors.New("ability not unlocked")
)

// Ability is one entry of the coordinator.
type Ability struct {
	Tag              string
	LevelRequirement int32
	State            State
}

// Coordinator tracks level-gated abilities of one character.
// Owned by the simulation goroutine.
type Coordinator struct {
	abilities   []Ability
	skillPoints int32
}

// NewCoordinator registers infos as locked abilities, in the given order.
func NewCoordinator(infos []data.AbilityInfo) *Coordinator {
	c := &Coordinator{abilities: make([]Ability, 0, len(infos))}
	for _, info := range infos {
		c.abilities = append(c.abilities, Ability{
			Tag:              info.Tag,
			LevelRequirement: info.LevelRequirement,
		})
	}
	return c
}

// UnlockForLevel moves every locked ability whose requirement is met to
// Eligible and returns the tags that changed.
func (c *Coordinator) UnlockForLevel(level int32) []string {
	var changed []string
	for i := range c.abilities {
		a := &c.abilities[i]
		if a.State == StateLocked && a.LevelRequirement <= level {
			a.State = StateEligible
			changed = append(changed, a.Tag)
		}
	}
	if len(changed) > 0 {
		slog.Debug("abilities became eligible", "level", level, "tags", changed)
	}
	return changed
}

// AddSkillPoints adds n skill points.
func (c *Coordinator) AddSkillPoints(n int32) {
	c.skillPoints += n
}

// SkillPoints returns the unspent skill points.
func (c *Coordinator) SkillPoints() int32 {
	return c.skillPoints
}

// Learn spends one skill point to unlock an eligible ability.
func (c *Coordinator) Learn(tag string) error {
	a, err := c.find(tag)
	if err != nil {
		return err
	}
	if a.State != StateEligible {
		return fmt.Errorf("learn %s (state %v): %w", tag, a.State, ErrNotEligible)
	}
	if c.skillPoints <= 0 {
		return fmt.Errorf("learn %s: %w", tag, ErrNoSkillPoints)
	}
	c.skillPoints--
	a.State = StateUnlocked
	return nil
}

// Equip marks an unlocked ability as equipped.
func (c *Coordinator) Equip(tag string) error {
	a, err := c.find(tag)
	if err != nil {
		return err
	}
	if a.State != StateUnlocked {
		return fmt.Errorf("equip %s (state %v): %w", tag, a.State, ErrAbilityNotLearnt)
	}
	a.State = StateEquipped
	return nil
}

// State returns the state of tag.
func (c *Coordinator) State(tag string) (State, error) {
	a, err := c.find(tag)
	if err != nil {
		return StateLocked, err
	}
	return a.State, nil
}

// Abilities returns a copy of every registered ability.
func (c *Coordinator) Abilities() []Ability {
	return slices.Clone(c.abilities)
}

func (c *Coordinator) find(tag string) (*Ability, error) {
	for i := range c.abilities {
		if c.abilities[i].Tag == tag {
			return &c.abilities[i], nil
		}
	}
	slog.Warn("ability not registered", "tag", tag)
	return nil, fmt.Errorf("%s: %w", tag, ErrUnknownAbility)
}
