package bento

// grownCapacity returns the smallest doubling of cur that covers need.
// A zero current capacity starts from 1 so the doubling sequence is
// well-defined. Capacities only ever grow.
func grownCapacity(cur, need int) int {
	nc := cur
	if nc == 0 {
		nc = 1
	}
	for nc < need {
		nc *= 2
	}
	return nc
}

// growUint32 reallocates s to the smallest doubling that covers need
// elements, copying existing values into the prefix and zero-filling the
// rest. Returns s unchanged if it is already large enough.
func growUint32(s []uint32, need int) []uint32 {
	if len(s) >= need {
		return s
	}
	ns := make([]uint32, grownCapacity(len(s), need))
	copy(ns, s)
	return ns
}

// growEntities mirrors growUint32 for handle arrays.
func growEntities(s []Entity, need int) []Entity {
	if len(s) >= need {
		return s
	}
	ns := make([]Entity, grownCapacity(len(s), need))
	copy(ns, s)
	return ns
}
