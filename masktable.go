package bento

// TraitID is a unique identifier for a trait type. Traits are grouped into
// banks of 32: bits 5 and up select the bank, the low 5 bits select the
// bit position inside the bank's mask word.
type TraitID uint32

// MaxTraitTypes defines the maximum number of unique trait types that can
// be registered in a World. This value is fixed at 256.
const MaxTraitTypes = 256

const traitsPerBank = 32

// bank returns the trait bank index the trait belongs to.
func (t TraitID) bank() uint32 {
	return uint32(t) / traitsPerBank
}

// bit returns the trait's mask bit within its bank.
func (t TraitID) bit() uint32 {
	return 1 << (uint32(t) % traitsPerBank)
}

// maskTable is the bitmask membership store: one growable mask-word array
// per trait bank, indexed by entity slot. Bit set means the entity at that
// slot has the trait. Rows only ever grow, growth doubles capacity and
// preserves existing bits, and reads of un-grown rows coalesce to zero.
type maskTable struct {
	banks [][]uint32
}

// newMaskTable pre-sizes bankCount rows for slots below initialCapacity.
func newMaskTable(bankCount, initialCapacity int) maskTable {
	m := maskTable{banks: make([][]uint32, bankCount)}
	for i := range m.banks {
		m.banks[i] = make([]uint32, initialCapacity)
	}
	return m
}

// ensureCapacity guarantees the bank's row covers slot, doubling the row
// until it does. Callers must invoke it before any mask write; it is the
// only way a row grows.
func (m *maskTable) ensureCapacity(bank, slot uint32) {
	for int(bank) >= len(m.banks) {
		m.banks = append(m.banks, nil)
	}
	m.banks[bank] = growUint32(m.banks[bank], int(slot)+1)
}

// word returns the entity's mask word for the bank, zero when the row has
// never grown to cover the slot.
func (m *maskTable) word(bank, slot uint32) uint32 {
	if int(bank) >= len(m.banks) {
		return 0
	}
	row := m.banks[bank]
	if int(slot) >= len(row) {
		return 0
	}
	return row[slot]
}

// setBit marks the trait's bit for the slot, growing the row if needed.
func (m *maskTable) setBit(t TraitID, slot uint32) {
	bank := t.bank()
	m.ensureCapacity(bank, slot)
	m.banks[bank][slot] |= t.bit()
}

// clearBit unmarks the trait's bit for the slot. Un-grown rows hold no
// bits, so there is nothing to clear.
func (m *maskTable) clearBit(t TraitID, slot uint32) {
	bank := t.bank()
	if int(bank) >= len(m.banks) || int(slot) >= len(m.banks[bank]) {
		return
	}
	m.banks[bank][slot] &^= t.bit()
}

// hasBit reports whether the trait's bit is set for the slot.
func (m *maskTable) hasBit(t TraitID, slot uint32) bool {
	return m.word(t.bank(), slot)&t.bit() != 0
}

// zeroRow clears the slot's mask word in every bank. Used when a destroyed
// entity's slot is returned to the pool.
func (m *maskTable) zeroRow(slot uint32) {
	for _, row := range m.banks {
		if int(slot) < len(row) {
			row[slot] = 0
		}
	}
}
