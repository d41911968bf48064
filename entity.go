package bento

// Entity is an opaque packed handle identifying one entity in one World.
// It combines a 32-bit slot index, a 24-bit reuse generation and an 8-bit
// world id in a single integer, so equality and staleness checks are pure
// bit arithmetic with no lookups.
//
// Two handles with the same slot index but different generations refer to
// different entities: the slot was released and reused in between, and the
// older handle is permanently stale.
type Entity uint64

const (
	slotBits       = 32
	generationBits = 24

	slotMask       = (1 << slotBits) - 1
	generationMask = (1 << generationBits) - 1
)

// makeEntity packs a world id, reuse generation and slot index into a handle.
func makeEntity(world uint8, generation uint32, slot uint32) Entity {
	return Entity(uint64(world)<<(slotBits+generationBits) |
		uint64(generation&generationMask)<<slotBits |
		uint64(slot))
}

// Slot returns the entity's dense slot index. Collaborators storing
// entity-keyed data index their arrays by Slot and revalidate against the
// full handle whenever staleness matters.
func (e Entity) Slot() uint32 {
	return uint32(e & slotMask)
}

// Generation returns the slot-reuse generation stamped into the handle.
func (e Entity) Generation() uint32 {
	return uint32(e>>slotBits) & generationMask
}

// World returns the id of the World that issued the handle.
func (e Entity) World() uint8 {
	return uint8(e >> (slotBits + generationBits))
}
