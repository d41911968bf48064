package bento

import "fmt"

// BankClause is the compiled bitmask triple a query applies to one trait
// bank. An entity's mask word for the bank must contain every Required
// bit, none of the Forbidden bits, and at least one Or bit when Or is
// nonzero.
type BankClause struct {
	Required  uint32
	Forbidden uint32
	Or        uint32
}

// TraitEventKind selects which mask transition a tracking query observes.
type TraitEventKind uint8

const (
	// TraitAdded matches entities whose tracked trait was set since the
	// flag was last consumed.
	TraitAdded TraitEventKind = iota
	// TraitRemoved matches entities whose tracked trait was cleared since
	// the flag was last consumed.
	TraitRemoved
)

const (
	flagAdded   = 1 << iota // tracked trait set since last consume
	flagRemoved             // tracked trait cleared since last consume
)

// tracking is per-query change-detection state: one flag byte per entity
// slot, marked by the world on trait mutation and consumed (cleared) by a
// successful tracking check, so each event is observed exactly once per
// read-reset cycle.
type tracking struct {
	trait TraitID
	kind  TraitEventKind
	flags []uint8
}

func (t *tracking) mark(slot uint32, kind TraitEventKind) {
	if int(slot) >= len(t.flags) {
		nf := make([]uint8, grownCapacity(len(t.flags), int(slot)+1))
		copy(nf, t.flags)
		t.flags = nf
	}
	if kind == TraitAdded {
		t.flags[slot] |= flagAdded
	} else {
		t.flags[slot] |= flagRemoved
	}
}

func (t *tracking) consume(slot uint32) bool {
	if int(slot) >= len(t.flags) {
		return false
	}
	want := uint8(flagAdded)
	if t.kind == TraitRemoved {
		want = flagRemoved
	}
	if t.flags[slot]&want == 0 {
		return false
	}
	t.flags[slot] &^= want
	return true
}

func (t *tracking) reset(slot uint32) {
	if int(slot) < len(t.flags) {
		t.flags[slot] = 0
	}
}

// Query is a compiled, reusable descriptor of the trait, relation and
// tracking requirements one persistent query places on entities, plus the
// materialized set of entities currently matching it. Descriptors are
// stable: the matchers never mutate the clause data, so one Query can
// serve any number of checks.
type Query struct {
	banks     []uint32
	clauses   []BankClause
	relations []RelationFilter
	tracking  *tracking
	entities  *EntitySet
}

// NewQuery builds a query descriptor from the trait banks it touches and
// the per-bank clause triples, in matching order. It panics if the two
// slices disagree in length or if a touched bank carries an all-zero
// clause: an empty clause on a touched bank indicates a broken compilation
// upstream, not an optional bank.
func NewQuery(banks []uint32, clauses []BankClause) *Query {
	if len(banks) != len(clauses) {
		panic(fmt.Sprintf("bento: query touches %d banks but has %d clauses", len(banks), len(clauses)))
	}
	for i, c := range clauses {
		if c == (BankClause{}) {
			panic(fmt.Sprintf("bento: query clause for bank %d is empty", banks[i]))
		}
	}
	return &Query{
		banks:    banks,
		clauses:  clauses,
		entities: NewEntitySet(0),
	}
}

// WithRelations attaches relation filters: matching entities must satisfy
// every (relation, target) pair. Returns the query for chaining.
func (q *Query) WithRelations(filters ...RelationFilter) *Query {
	q.relations = append(q.relations, filters...)
	return q
}

// WithTracking makes the query observe one mask transition of one trait.
// Returns the query for chaining.
func (q *Query) WithTracking(t TraitID, kind TraitEventKind) *Query {
	q.tracking = &tracking{trait: t, kind: kind}
	return q
}

// Entities returns the query's materialized entity set. The set is kept
// current by the World the query is registered with.
func (q *Query) Entities() *EntitySet {
	return q.entities
}

// Size returns the number of entities currently matching the query.
func (q *Query) Size() int {
	return q.entities.Size()
}

// touches reports whether the query reads the bank.
func (q *Query) touches(bank uint32) bool {
	for _, b := range q.banks {
		if b == bank {
			return true
		}
	}
	return false
}

// matches applies the per-bank clause triples to the entity's mask words.
// Mask rows that never grew to cover the slot read as zero, never as an
// error. A query touching zero banks matches nothing.
func (q *Query) matches(m *maskTable, slot uint32) bool {
	switch len(q.banks) {
	case 0:
		return false
	case 1:
		// Fast path: one bank, three compares.
		c := q.clauses[0]
		w := m.word(q.banks[0], slot)
		if w&c.Forbidden != 0 {
			return false
		}
		if w&c.Required != c.Required {
			return false
		}
		if c.Or != 0 && w&c.Or == 0 {
			return false
		}
		return true
	}
	for i, bank := range q.banks {
		c := q.clauses[i]
		if c == (BankClause{}) {
			// An empty clause passes its bank rather than rejecting.
			// NewQuery refuses to build such a descriptor; see there.
			continue
		}
		w := m.word(bank, slot)
		if w&c.Forbidden != 0 {
			return false
		}
		if w&c.Required != c.Required {
			return false
		}
		if c.Or != 0 && w&c.Or == 0 {
			return false
		}
	}
	return true
}

// matchesRelations runs the bitmask test first and only then the relation
// filters. The ordering is deliberate: the bitmask test is three compares
// per bank, a relation lookup walks an external index.
func (q *Query) matchesRelations(m *maskTable, e Entity) bool {
	if !q.matches(m, e.Slot()) {
		return false
	}
	for _, f := range q.relations {
		if !f.Relation.HasPair(e, f) {
			return false
		}
	}
	return true
}

// MakeClauses packs required, forbidden and or trait lists into the
// bank/clause form NewQuery consumes. Banks touched by any of the three
// lists appear once, in first-touch order.
func MakeClauses(required, forbidden, anyOf []TraitID) ([]uint32, []BankClause) {
	var banks []uint32
	var clauses []BankClause
	slot := func(bank uint32) *BankClause {
		for i, b := range banks {
			if b == bank {
				return &clauses[i]
			}
		}
		banks = append(banks, bank)
		clauses = append(clauses, BankClause{})
		return &clauses[len(clauses)-1]
	}
	for _, t := range required {
		slot(t.bank()).Required |= t.bit()
	}
	for _, t := range forbidden {
		slot(t.bank()).Forbidden |= t.bit()
	}
	for _, t := range anyOf {
		slot(t.bank()).Or |= t.bit()
	}
	return banks, clauses
}
