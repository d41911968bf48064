package bento

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// entityRegistry is the slot allocator: a LIFO stack of recycled slot
// indexes plus the per-slot reuse generation. Releasing a slot bumps its
// generation, so every handle issued before the release goes permanently
// stale. At most one live handle exists per slot.
type entityRegistry struct {
	freeSlots   []uint32 // stack of recycled slot indexes
	generations []uint32 // current reuse generation per slot
	capacity    int
}

// World owns the entity identity space, the bitmask membership store, the
// registered queries and relations, and the destroy orchestrator state for
// one entity population. All access is single-threaded by contract.
type World struct {
	entities   entityRegistry
	masks      maskTable
	queries    []*Query
	all        *EntitySet
	relations  []Relation
	bus        *EventBus
	cascade    cascadeState
	nextTrait  uint32
	id         uint8
}

// NewWorld creates a World with the given world id (stamped into every
// handle it issues) and pre-allocates identity and mask storage for
// initialCapacity entities.
func NewWorld(id uint8, initialCapacity int) *World {
	w := &World{
		id: id,
		entities: entityRegistry{
			freeSlots:   make([]uint32, initialCapacity),
			generations: make([]uint32, initialCapacity),
			capacity:    initialCapacity,
		},
		masks: newMaskTable(1, initialCapacity),
		all:   NewEntitySet(initialCapacity),
	}
	for i := range w.entities.freeSlots {
		// fill freeSlots with [cap-1 .. 0] so slot 0 is issued first
		w.entities.freeSlots[i] = uint32(initialCapacity - 1 - i)
	}
	return w
}

// ID returns the world id stamped into this world's handles.
func (w *World) ID() uint8 {
	return w.id
}

// SetEventBus attaches a lifecycle event bus. A nil bus disables
// publishing.
func (w *World) SetEventBus(bus *EventBus) {
	w.bus = bus
}

func (w *World) publish(ev Event) {
	if w.bus != nil {
		w.bus.Publish(ev)
	}
}

// NewTrait registers a trait type and returns its id. It panics when the
// maximum number of trait types is exceeded.
func (w *World) NewTrait() TraitID {
	if w.nextTrait >= MaxTraitTypes {
		panic(fmt.Sprintf("bento: maximum number of trait types (%d) reached", MaxTraitTypes))
	}
	t := TraitID(w.nextTrait)
	w.nextTrait++
	return t
}

// expand grows the identity space when the free stack drains, doubling
// capacity (at least by additional slots).
func (w *World) expand(additional int) {
	oldCap := w.entities.capacity
	newCap := oldCap * 2
	if newCap == 0 {
		newCap = 1
	}
	if newCap < oldCap+additional {
		newCap = oldCap + additional
	}
	delta := newCap - oldCap
	w.entities.generations = append(w.entities.generations, make([]uint32, delta)...)
	for i := 0; i < delta; i++ {
		w.entities.freeSlots = append(w.entities.freeSlots, uint32(newCap-1-i))
	}
	w.entities.capacity = newCap
}

// allocate draws a free slot and stamps a handle with the slot's current
// reuse generation.
func (w *World) allocate() Entity {
	if len(w.entities.freeSlots) == 0 {
		w.expand(1)
	}
	last := len(w.entities.freeSlots) - 1
	slot := w.entities.freeSlots[last]
	w.entities.freeSlots = w.entities.freeSlots[:last]
	return makeEntity(w.id, w.entities.generations[slot], slot)
}

// release returns the slot to the pool, bumping its generation so any
// outstanding handle referencing it stops matching.
func (w *World) release(slot uint32) {
	w.entities.generations[slot] = (w.entities.generations[slot] + 1) & generationMask
	w.entities.freeSlots = append(w.entities.freeSlots, slot)
}

// CreateEntity allocates a traitless entity, adds it to the all-entities
// set and to every registered query it already matches (queries built only
// from forbidden clauses pick newborns up here). Tracking state left over
// from the slot's previous occupant is reset.
func (w *World) CreateEntity() Entity {
	e := w.allocate()
	slot := e.Slot()
	w.all.Add(e)
	for _, q := range w.queries {
		if q.tracking != nil {
			q.tracking.reset(slot)
		}
		if q.matchesRelations(&w.masks, e) {
			q.entities.Add(e)
		}
	}
	w.publish(Event{Kind: EventEntityCreated, Entity: e})
	return e
}

// Exists reports whether exactly e is currently alive. Stale handles of a
// reused slot report false.
func (w *World) Exists(e Entity) bool {
	return w.all.Has(e)
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return w.all.Size()
}

// AllEntities returns the implicit all-entities query's set.
func (w *World) AllEntities() *EntitySet {
	return w.all
}

// AddTrait sets the trait's bit for the entity and incrementally updates
// every query touching the trait's bank. Adding a trait the entity already
// has is a no-op. Dead or stale handles and unregistered traits are
// errors.
func (w *World) AddTrait(e Entity, t TraitID) error {
	if uint32(t) >= w.nextTrait {
		return errors.Newf("bento: trait %d not registered", t)
	}
	if !w.Exists(e) {
		return errors.Newf("bento: add trait %d on dead entity (slot %d, generation %d)", t, e.Slot(), e.Generation())
	}
	slot := e.Slot()
	if w.masks.hasBit(t, slot) {
		return nil
	}
	w.masks.setBit(t, slot)
	w.refreshQueries(e, t, TraitAdded)
	w.publish(Event{Kind: EventTraitAdded, Entity: e, Trait: t})
	return nil
}

// RemoveTrait clears the trait's bit for the entity and incrementally
// updates every query touching the trait's bank. Removing a trait the
// entity does not have is a no-op.
func (w *World) RemoveTrait(e Entity, t TraitID) error {
	if uint32(t) >= w.nextTrait {
		return errors.Newf("bento: trait %d not registered", t)
	}
	if !w.Exists(e) {
		return errors.Newf("bento: remove trait %d on dead entity (slot %d, generation %d)", t, e.Slot(), e.Generation())
	}
	slot := e.Slot()
	if !w.masks.hasBit(t, slot) {
		return nil
	}
	w.masks.clearBit(t, slot)
	w.refreshQueries(e, t, TraitRemoved)
	w.publish(Event{Kind: EventTraitRemoved, Entity: e, Trait: t})
	return nil
}

// HasTrait reports whether the live entity e has the trait. Dead or stale
// handles report false.
func (w *World) HasTrait(e Entity, t TraitID) bool {
	return w.Exists(e) && w.masks.hasBit(t, e.Slot())
}

// refreshQueries re-evaluates membership of e for every query touching the
// mutated trait's bank and records the transition for tracking queries.
func (w *World) refreshQueries(e Entity, t TraitID, kind TraitEventKind) {
	bank := t.bank()
	for _, q := range w.queries {
		if q.tracking != nil && q.tracking.trait == t {
			q.tracking.mark(e.Slot(), kind)
		}
		if !q.touches(bank) {
			continue
		}
		if q.matchesRelations(&w.masks, e) {
			q.entities.Add(e)
		} else {
			q.entities.Remove(e)
		}
	}
}

// RegisterQuery adds the query to the world's live set and backfills its
// entity set from the current population. From here on the world keeps the
// set current across every create, mutate and destroy.
func (w *World) RegisterQuery(q *Query) {
	w.queries = append(w.queries, q)
	for i := 0; i < w.all.Size(); i++ {
		e := w.all.at(i)
		if q.matchesRelations(&w.masks, e) {
			q.entities.Add(e)
		}
	}
}

// RegisterRelation makes the relation visible to the destroy orchestrator,
// which unlinks its edges and applies its auto-destroy policy during
// cascades.
func (w *World) RegisterRelation(r Relation) {
	w.relations = append(w.relations, r)
}

// Check reports whether the entity's trait masks satisfy the query's
// clauses. It reads only the membership store; staleness of e is not
// checked here.
func (w *World) Check(q *Query, e Entity) bool {
	return q.matches(&w.masks, e.Slot())
}

// CheckWithRelations is Check plus the query's relation filters, in that
// order.
func (w *World) CheckWithRelations(q *Query, e Entity) bool {
	return q.matchesRelations(&w.masks, e)
}

// CheckTracking is Check plus consumption of the query's pending tracking
// flag for e: it reports true at most once per recorded transition.
// Queries without tracking state never match.
func (w *World) CheckTracking(q *Query, e Entity) bool {
	if q.tracking == nil {
		return false
	}
	if !q.matches(&w.masks, e.Slot()) {
		return false
	}
	return q.tracking.consume(e.Slot())
}

// CheckTrackingWithRelations is CheckTracking with the relation filters
// applied before the tracking flag is consumed.
func (w *World) CheckTrackingWithRelations(q *Query, e Entity) bool {
	if q.tracking == nil {
		return false
	}
	if !q.matchesRelations(&w.masks, e) {
		return false
	}
	return q.tracking.consume(e.Slot())
}
