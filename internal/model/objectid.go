package model

// ObjectID identifies a combat participant inside one simulation.
// Zero is never assigned and means "no object".
type ObjectID = uint32

// Object ID ranges (players and enemies are allocated from separate ranges
// so replicas can tell them apart without a lookup).
const (
	ObjectIDPlayerStart uint32 = 0x10000000
	ObjectIDPlayerEnd   uint32 = 0x1FFFFFFF
	ObjectIDEnemyStart  uint32 = 0x20000000
)

// IsPlayerObjectID returns true if objectID is in the player range.
func IsPlayerObjectID(objectID uint32) bool {
	return objectID >= ObjectIDPlayerStart && objectID <= ObjectIDPlayerEnd
}

// IsEnemyObjectID returns true if objectID is in the enemy range.
func IsEnemyObjectID(objectID uint32) bool {
	return objectID >= ObjectIDEnemyStart
}
