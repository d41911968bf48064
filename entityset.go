package bento

// EntitySet is the materialized result cache owned by one query: bitset
// membership keyed by slot index, fused with a dense ordered handle array
// and a sparse slot-to-dense-index map. Membership tests are O(1), ordered
// iteration touches only the dense prefix, and removal is O(1) swap
// removal.
//
// The membership bit alone is not authoritative: a bit can be set for a
// slot whose stored handle has a different reuse generation than the probe
// (the slot was released and reused). Has therefore always revalidates the
// exact handle at the mapped dense position.
type EntitySet struct {
	bits   BitSet
	dense  []Entity
	sparse []uint32 // slot -> dense index
	size   int
}

// NewEntitySet returns a set pre-sized for slots below initialCapacity.
func NewEntitySet(initialCapacity int) *EntitySet {
	s := &EntitySet{}
	if initialCapacity > 0 {
		s.dense = make([]Entity, initialCapacity)
		s.sparse = make([]uint32, initialCapacity)
	}
	return s
}

// Has reports whether exactly e is in the set. A stale handle occupying
// the same slot index never counts as membership.
func (s *EntitySet) Has(e Entity) bool {
	slot := e.Slot()
	if !s.bits.Has(slot) {
		return false
	}
	return s.dense[s.sparse[slot]] == e
}

// Add inserts e. If the slot's bit is already set for a handle with a
// different generation (the slot was released and reused since), the dense
// entry is overwritten in place without changing size. Adding a handle
// already present is a no-op.
func (s *EntitySet) Add(e Entity) {
	slot := e.Slot()
	if s.bits.Has(slot) {
		di := s.sparse[slot]
		if s.dense[di] != e {
			s.dense[di] = e
		}
		return
	}
	s.dense = growEntities(s.dense, s.size+1)
	s.sparse = growUint32(s.sparse, int(slot)+1)
	s.dense[s.size] = e
	s.sparse[slot] = uint32(s.size)
	s.size++
	s.bits.Add(slot)
}

// Remove deletes e if exactly e is present, swap-moving the last dense
// entry into the freed position. It returns false for absent or stale
// handles.
func (s *EntitySet) Remove(e Entity) bool {
	if !s.Has(e) {
		return false
	}
	slot := e.Slot()
	di := s.sparse[slot]
	last := uint32(s.size - 1)
	if di != last {
		moved := s.dense[last]
		s.dense[di] = moved
		s.sparse[moved.Slot()] = di
	}
	s.size--
	s.bits.Remove(slot)
	return true
}

// Clear empties the set in time proportional to its size, not its
// capacity: only the bits of contained slots are cleared.
func (s *EntitySet) Clear() {
	for i := 0; i < s.size; i++ {
		s.bits.Remove(s.dense[i].Slot())
	}
	s.size = 0
}

// Size returns the number of contained handles.
func (s *EntitySet) Size() int {
	return s.size
}

// Dense returns a fresh ordered copy of the contained handles.
func (s *EntitySet) Dense() []Entity {
	out := make([]Entity, s.size)
	copy(out, s.dense[:s.size])
	return out
}

// at returns the handle at dense position i. Iteration helper for the
// destroy orchestrator; i must be below Size.
func (s *EntitySet) at(i int) Entity {
	return s.dense[i]
}
