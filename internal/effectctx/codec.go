package effectctx

import (
	"log/slog"

	"github.com/udisondev/magecombat/internal/model"
	"github.com/udisondev/magecombat/internal/wire"
)

// Presence bits, in serialization order.
const (
	BitInstigator = iota
	BitEffectCauser
	BitAbilityClass
	BitSourceObject
	BitActors
	BitHitResult
	BitWorldOrigin
	BitIsCritical
	BitIsDebuff
	BitDebuffDamage
	BitDebuffFrequency
	BitDebuffDuration
	BitDamageType
	BitDeathImpulse
	BitKnockback

	fieldCount
)

const (
	maskBits       = 16
	actorCountBits = 5
	damageTypeBits = 3

	// MaxActors is the largest actor list the wire format can carry.
	MaxActors = 1<<actorCountBits - 1
)

// field describes one optional slot of the wire format. Encode and Decode
// iterate the same table so the two sides cannot drift apart.
// Boolean fields have no payload: the presence bit is the value.
type field struct {
	present func(c *Context) bool
	write   func(w *wire.BitWriter, c *Context)
	read    func(r *wire.BitReader, c *Context) error
}

var fields = [fieldCount]field{
	BitInstigator:   refField(func(c *Context) *model.ObjectID { return &c.Instigator }),
	BitEffectCauser: refField(func(c *Context) *model.ObjectID { return &c.EffectCauser }),
	BitAbilityClass: refField(func(c *Context) *model.ObjectID { return &c.AbilityClass }),
	BitSourceObject: refField(func(c *Context) *model.ObjectID { return &c.SourceObject }),
	BitActors: {
		present: func(c *Context) bool { return len(c.Actors) > 0 },
		write: func(w *wire.BitWriter, c *Context) {
			actors := c.Actors
			if len(actors) > MaxActors {
				slog.Warn("effect context actor list truncated", "actors", len(actors), "max", MaxActors)
				actors = actors[:MaxActors]
			}
			w.WriteBits(uint64(len(actors)), actorCountBits)
			for _, id := range actors {
				w.WriteUint32(id)
			}
		},
		read: func(r *wire.BitReader, c *Context) error {
			n, err := r.ReadBits(actorCountBits)
			if err != nil {
				return err
			}
			c.Actors = make([]model.ObjectID, 0, n)
			for range n {
				id, err := r.ReadUint32()
				if err != nil {
					return err
				}
				c.Actors = append(c.Actors, id)
			}
			return nil
		},
	},
	BitHitResult: {
		present: func(c *Context) bool { return c.HitResult != nil },
		write: func(w *wire.BitWriter, c *Context) {
			writeVector(w, c.HitResult.Location)
			writeVector(w, c.HitResult.Normal)
			w.WriteFloat32(c.HitResult.Distance)
		},
		read: func(r *wire.BitReader, c *Context) error {
			if c.HitResult == nil {
				c.HitResult = &HitResult{}
			}
			var err error
			if c.HitResult.Location, err = readVector(r); err != nil {
				return err
			}
			if c.HitResult.Normal, err = readVector(r); err != nil {
				return err
			}
			c.HitResult.Distance, err = r.ReadFloat32()
			return err
		},
	},
	BitWorldOrigin: {
		present: func(c *Context) bool { return c.HasWorldOrigin },
		write:   func(w *wire.BitWriter, c *Context) { writeVector(w, c.WorldOrigin) },
		read: func(r *wire.BitReader, c *Context) error {
			v, err := readVector(r)
			if err != nil {
				return err
			}
			c.SetWorldOrigin(v)
			return nil
		},
	},
	BitIsCritical:      flagField(func(c *Context) *bool { return &c.IsCritical }),
	BitIsDebuff:        flagField(func(c *Context) *bool { return &c.IsDebuff }),
	BitDebuffDamage:    floatField(func(c *Context) *float64 { return &c.DebuffDamage }),
	BitDebuffFrequency: floatField(func(c *Context) *float64 { return &c.DebuffFrequency }),
	BitDebuffDuration:  floatField(func(c *Context) *float64 { return &c.DebuffDuration }),
	BitDamageType: {
		present: func(c *Context) bool { return c.DamageType != nil },
		write: func(w *wire.BitWriter, c *Context) {
			w.WriteBits(uint64(*c.DamageType), damageTypeBits)
		},
		read: func(r *wire.BitReader, c *Context) error {
			if c.DamageType == nil {
				c.DamageType = new(model.DamageType)
			}
			v, err := r.ReadBits(damageTypeBits)
			if err != nil {
				return err
			}
			*c.DamageType = model.DamageType(v)
			return nil
		},
	},
	BitDeathImpulse: vectorField(func(c *Context) *model.Vector { return &c.DeathImpulse }),
	BitKnockback:    vectorField(func(c *Context) *model.Vector { return &c.Knockback }),
}

func refField(slot func(c *Context) *model.ObjectID) field {
	return field{
		present: func(c *Context) bool { return *slot(c) != 0 },
		write:   func(w *wire.BitWriter, c *Context) { w.WriteUint32(*slot(c)) },
		read: func(r *wire.BitReader, c *Context) error {
			v, err := r.ReadUint32()
			if err != nil {
				return err
			}
			*slot(c) = v
			return nil
		},
	}
}

func flagField(slot func(c *Context) *bool) field {
	return field{
		present: func(c *Context) bool { return *slot(c) },
		write:   func(*wire.BitWriter, *Context) {},
		read: func(_ *wire.BitReader, c *Context) error {
			*slot(c) = true
			return nil
		},
	}
}

func floatField(slot func(c *Context) *float64) field {
	return field{
		present: func(c *Context) bool { return *slot(c) != 0 },
		write:   func(w *wire.BitWriter, c *Context) { w.WriteFloat32(*slot(c)) },
		read: func(r *wire.BitReader, c *Context) error {
			v, err := r.ReadFloat32()
			if err != nil {
				return err
			}
			*slot(c) = v
			return nil
		},
	}
}

func vectorField(slot func(c *Context) *model.Vector) field {
	return field{
		present: func(c *Context) bool { return !slot(c).IsZero() },
		write:   func(w *wire.BitWriter, c *Context) { writeVector(w, *slot(c)) },
		read: func(r *wire.BitReader, c *Context) error {
			v, err := readVector(r)
			if err != nil {
				return err
			}
			*slot(c) = v
			return nil
		},
	}
}

func writeVector(w *wire.BitWriter, v model.Vector) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
	w.WriteFloat32(v.Z)
}

func readVector(r *wire.BitReader) (model.Vector, error) {
	var v model.Vector
	var err error
	if v.X, err = r.ReadFloat32(); err != nil {
		return v, err
	}
	if v.Y, err = r.ReadFloat32(); err != nil {
		return v, err
	}
	v.Z, err = r.ReadFloat32()
	return v, err
}

// Mask returns the presence mask of c.
func Mask(c *Context) uint16 {
	var mask uint16
	for i := range fields {
		if fields[i].present(c) {
			mask |= 1 << i
		}
	}
	return mask
}

// Encode serializes c: the presence mask, then every present field in bit order.
func Encode(c *Context) []byte {
	w := wire.NewBitWriter(32)
	mask := Mask(c)
	w.WriteBits(uint64(mask), maskBits)
	for i := range fields {
		if mask&(1<<i) != 0 {
			fields[i].write(w, c)
		}
	}
	return w.Bytes()
}

// Decode parses data into a new context. Absent fields keep their zero
// values. On a truncated stream the fields decoded so far are returned
// together with an error wrapping wire.ErrShortBuffer.
func Decode(data []byte) (*Context, error) {
	c := &Context{}
	return c, DecodeInto(data, c)
}

// DecodeInto parses data into c, overwriting present fields.
func DecodeInto(data []byte, c *Context) error {
	r := wire.NewBitReader(data)
	raw, err := r.ReadBits(maskBits)
	if err != nil {
		return err
	}
	mask := uint16(raw)
	for i := range fields {
		if mask&(1<<i) == 0 {
			continue
		}
		if err := fields[i].read(r, c); err != nil {
			return err
		}
	}
	return nil
}
