package effectctx

import (
	"slices"

	"github.com/udisondev/magecombat/internal/model"
)

// HitResult is the geometry of the hit that produced an application.
type HitResult struct {
	Location model.Vector
	Normal   model.Vector
	Distance float64
}

// Context is the per-application metadata of one effect: who caused it,
// how it resolved and which debuff it carries. Zero values mean "absent"
// and are not serialized.
type Context struct {
	Instigator   model.ObjectID
	EffectCauser model.ObjectID
	AbilityClass uint32
	SourceObject model.ObjectID
	Actors       []model.ObjectID
	HitResult    *HitResult

	WorldOrigin    model.Vector
	HasWorldOrigin bool

	IsCritical bool
	IsDebuff   bool

	DebuffDamage    float64
	DebuffFrequency float64
	DebuffDuration  float64

	DamageType *model.DamageType

	DeathImpulse model.Vector
	Knockback    model.Vector
}

// New creates a context for an application from source, caused by causer.
func New(instigator, causer model.ObjectID) *Context {
	return &Context{Instigator: instigator, EffectCauser: causer}
}

// SetDamageType stores dt, allocating the slot on first use.
func (c *Context) SetDamageType(dt model.DamageType) {
	if c.DamageType == nil {
		c.DamageType = new(model.DamageType)
	}
	*c.DamageType = dt
}

// GetDamageType returns the damage type or DamageTypeNone.
func (c *Context) GetDamageType() model.DamageType {
	if c.DamageType == nil {
		return model.DamageTypeNone
	}
	return *c.DamageType
}

// SetWorldOrigin stores the origin of the application.
func (c *Context) SetWorldOrigin(v model.Vector) {
	c.WorldOrigin = v
	c.HasWorldOrigin = true
}

// AddActor appends an affected actor.
func (c *Context) AddActor(id model.ObjectID) {
	c.Actors = append(c.Actors, id)
}

// Clone returns a deep copy.
func (c *Context) Clone() *Context {
	if c == nil {
		return nil
	}
	out := *c
	out.Actors = slices.Clone(c.Actors)
	if c.HitResult != nil {
		hr := *c.HitResult
		out.HitResult = &hr
	}
	if c.DamageType != nil {
		dt := *c.DamageType
		out.DamageType = &dt
	}
	return &out
}
