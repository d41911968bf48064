package bento

import "math/bits"

// bitsPerWord is the width of one bottom-level word. One top-level bit
// summarizes bitsPerWord bottom words, i.e. 1024 keys.
const bitsPerWord = 32

// BitSet is a two-level hierarchical bitfield over a dense uint32 key
// space. The bottom level holds one bit per key; each top-level bit is set
// iff its corresponding bottom word is nonzero. The top level lets set
// algebra skip whole empty 1024-key blocks without touching bottom words.
//
// The zero value is an empty set. Add grows the backing arrays on demand
// by capacity doubling; capacity never shrinks.
type BitSet struct {
	bottom []uint32 // one bit per key
	top    []uint32 // one bit per bottom word
	count  int      // number of set keys
}

// NewBitSet returns a BitSet pre-sized to hold keys below initialCapacity
// without reallocating.
func NewBitSet(initialCapacity int) *BitSet {
	b := &BitSet{}
	if initialCapacity > 0 {
		b.grow((initialCapacity + bitsPerWord - 1) / bitsPerWord)
	}
	return b
}

// grow reallocates the bottom array to the smallest doubling covering
// words bottom words, and the top array to match. Existing bits are
// preserved in the prefix.
func (b *BitSet) grow(words int) {
	nw := grownCapacity(len(b.bottom), words)
	nb := make([]uint32, nw)
	copy(nb, b.bottom)
	b.bottom = nb
	nt := make([]uint32, (nw+bitsPerWord-1)/bitsPerWord)
	copy(nt, b.top)
	b.top = nt
}

// Has reports whether key is in the set. Keys beyond the current capacity
// read as absent.
func (b *BitSet) Has(key uint32) bool {
	w := int(key >> 5)
	if w >= len(b.bottom) {
		return false
	}
	return b.bottom[w]&(1<<(key&31)) != 0
}

// Add inserts key, growing the set if needed. It returns false if the key
// was already present.
func (b *BitSet) Add(key uint32) bool {
	w := int(key >> 5)
	if w >= len(b.bottom) {
		b.grow(w + 1)
	}
	bit := uint32(1) << (key & 31)
	if b.bottom[w]&bit != 0 {
		return false
	}
	b.bottom[w] |= bit
	b.top[w>>5] |= 1 << (uint32(w) & 31)
	b.count++
	return true
}

// Remove deletes key. It returns false if the key was absent. The top bit
// is cleared when the bottom word drains to zero, preserving the summary
// invariant the skip-based algebra depends on.
func (b *BitSet) Remove(key uint32) bool {
	w := int(key >> 5)
	if w >= len(b.bottom) {
		return false
	}
	bit := uint32(1) << (key & 31)
	if b.bottom[w]&bit == 0 {
		return false
	}
	b.bottom[w] &^= bit
	if b.bottom[w] == 0 {
		b.top[w>>5] &^= 1 << (uint32(w) & 31)
	}
	b.count--
	return true
}

// Clear removes all keys, keeping the allocated capacity.
func (b *BitSet) Clear() {
	clear(b.bottom)
	clear(b.top)
	b.count = 0
}

// Count returns the number of keys currently in the set.
func (b *BitSet) Count() int {
	return b.count
}

// ForEach calls visit for every key in the set, in ascending order.
func (b *BitSet) ForEach(visit func(key uint32)) {
	for ti, tw := range b.top {
		for tw != 0 {
			j := bits.TrailingZeros32(tw)
			tw &= tw - 1
			wi := ti<<5 + j
			w := b.bottom[wi]
			base := uint32(wi) << 5
			for w != 0 {
				k := bits.TrailingZeros32(w)
				w &= w - 1
				visit(base + uint32(k))
			}
		}
	}
}

// ToArray returns the set's keys as a fresh ascending slice.
func (b *BitSet) ToArray() []uint32 {
	out := make([]uint32, 0, b.count)
	b.ForEach(func(key uint32) {
		out = append(out, key)
	})
	return out
}

// And visits every key present in both a and b, in ascending order.
// Blocks whose top bits do not intersect are skipped wholesale.
func And(a, b *BitSet, visit func(key uint32)) {
	n := min(len(a.top), len(b.top))
	for ti := 0; ti < n; ti++ {
		tw := a.top[ti] & b.top[ti]
		for tw != 0 {
			j := bits.TrailingZeros32(tw)
			tw &= tw - 1
			wi := ti<<5 + j
			w := a.bottom[wi] & b.bottom[wi]
			base := uint32(wi) << 5
			for w != 0 {
				k := bits.TrailingZeros32(w)
				w &= w - 1
				visit(base + uint32(k))
			}
		}
	}
}

// AndMany visits the n-way intersection of sets in ascending order. It is
// semantically pairwise And reduced across all sets; zero sets visit
// nothing and a single set is a plain traversal.
func AndMany(sets []*BitSet, visit func(key uint32)) {
	switch len(sets) {
	case 0:
		return
	case 1:
		sets[0].ForEach(visit)
		return
	case 2:
		And(sets[0], sets[1], visit)
		return
	}
	n := len(sets[0].top)
	for _, s := range sets[1:] {
		n = min(n, len(s.top))
	}
	for ti := 0; ti < n; ti++ {
		tw := sets[0].top[ti]
		for _, s := range sets[1:] {
			tw &= s.top[ti]
		}
		for tw != 0 {
			j := bits.TrailingZeros32(tw)
			tw &= tw - 1
			wi := ti<<5 + j
			w := sets[0].bottom[wi]
			for _, s := range sets[1:] {
				w &= s.bottom[wi]
			}
			base := uint32(wi) << 5
			for w != 0 {
				k := bits.TrailingZeros32(w)
				w &= w - 1
				visit(base + uint32(k))
			}
		}
	}
}

// AndNot visits every key present in a and absent from b, in ascending
// order. Blocks beyond b's capacity read as zero.
func AndNot(a, b *BitSet, visit func(key uint32)) {
	for ti, tw := range a.top {
		for tw != 0 {
			j := bits.TrailingZeros32(tw)
			tw &= tw - 1
			wi := ti<<5 + j
			w := a.bottom[wi]
			if wi < len(b.bottom) {
				w &^= b.bottom[wi]
			}
			base := uint32(wi) << 5
			for w != 0 {
				k := bits.TrailingZeros32(w)
				w &= w - 1
				visit(base + uint32(k))
			}
		}
	}
}

// AndAny reports whether a and b intersect, short-circuiting on the first
// common key.
func AndAny(a, b *BitSet) bool {
	n := min(len(a.top), len(b.top))
	for ti := 0; ti < n; ti++ {
		tw := a.top[ti] & b.top[ti]
		for tw != 0 {
			j := bits.TrailingZeros32(tw)
			tw &= tw - 1
			wi := ti<<5 + j
			if a.bottom[wi]&b.bottom[wi] != 0 {
				return true
			}
		}
	}
	return false
}

// IsSubset reports whether every key in a is also in b. Positions beyond
// b's capacity read as zero, so a larger a is not automatically a
// non-subset.
func IsSubset(a, b *BitSet) bool {
	for ti, tw := range a.top {
		for tw != 0 {
			j := bits.TrailingZeros32(tw)
			tw &= tw - 1
			wi := ti<<5 + j
			var bw uint32
			if wi < len(b.bottom) {
				bw = b.bottom[wi]
			}
			if a.bottom[wi]&^bw != 0 {
				return false
			}
		}
	}
	return true
}
