package world

import (
	"sync/atomic"

	"github.com/udisondev/magecombat/internal/model"
)

// ObjectIDGenerator generates unique object IDs for combat participants.
//
// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: Reserved (0 = no object)
//	0x10000000 - 0x1FFFFFFF: Players
//	0x20000000 - 0xFFFFFFFF: Enemies
type ObjectIDGenerator struct {
	nextPlayerID atomic.Uint32
	nextEnemyID  atomic.Uint32
}

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextPlayerID.Store(model.ObjectIDPlayerStart)
	gen.nextEnemyID.Store(model.ObjectIDEnemyStart)
	return gen
}

// NextPlayerID generates the next player object ID.
// Thread-safe via atomic increment.
func (g *ObjectIDGenerator) NextPlayerID() model.ObjectID {
	return g.nextPlayerID.Add(1)
}

// NextEnemyID generates the next enemy object ID.
func (g *ObjectIDGenerator) NextEnemyID() model.ObjectID {
	return g.nextEnemyID.Add(1)
}
