package bento

import (
	"github.com/cockroachdb/errors"
)

// cascadeState is the destroy orchestrator's reusable scratch: a FIFO
// queue of handles reachable from the destroy root and a processed set
// keyed by slot index. Both are owned by the world and reused across
// cascades to avoid allocation churn under high destroy throughput.
//
// Slots released mid-cascade are never reallocated before the cascade
// finishes (nothing creates entities inside a cascade), so slot identity
// is stable for the processed set's lifetime.
type cascadeState struct {
	queue     []Entity
	processed BitSet
	active    bool
}

// Destroy releases the entity and cascades along the registered relations.
// For every relation, edges from sources to the dying entity are unlinked;
// a DestroySource policy additionally enqueues those sources. The dying
// entity's own outgoing edges are unlinked too, except under a
// DestroyTarget policy, where the targets are enqueued instead and the
// edges die when each target is processed in its own turn. No edge may
// survive its endpoint: a dangling edge would later feed stale handles
// back into a cascade. Every destroyed entity is removed from all
// registered query sets and the all-entities set, its mask rows are
// zeroed, and its slot is released for reuse under a bumped generation.
//
// Destroying a handle that does not currently exist is an error, never a
// silent no-op: silently ignoring it would mask use-after-destroy bugs.
// Destroy must not be re-entered from inside a running cascade (e.g. from
// an event handler); the shared scratch state admits one traversal at a
// time and the guard reports the misuse instead of corrupting it.
func (w *World) Destroy(e Entity) error {
	if w.cascade.active {
		return errors.New("bento: destroy re-entered from inside a running cascade")
	}
	if !w.Exists(e) {
		return errors.Newf("bento: destroy of nonexistent entity (slot %d, generation %d, world %d)", e.Slot(), e.Generation(), e.World())
	}
	w.cascade.active = true
	defer func() { w.cascade.active = false }()

	w.cascade.queue = append(w.cascade.queue[:0], e)
	w.cascade.processed.Clear()
	for head := 0; head < len(w.cascade.queue); head++ {
		h := w.cascade.queue[head]
		if !w.cascade.processed.Add(h.Slot()) {
			continue // already processed this cascade: cycle guard
		}
		if !w.Exists(h) {
			// An enqueued handle a relation store handed back stale.
			// Releasing it again would put its slot into the free pool
			// twice and two later entities would share one handle.
			continue
		}
		for _, rel := range w.relations {
			policy := rel.Policy()
			for _, src := range rel.SourcesOf(h) {
				rel.Unlink(src, h)
				if policy == DestroySource {
					w.cascade.queue = append(w.cascade.queue, src)
				}
			}
			if policy == DestroyTarget {
				for _, tgt := range rel.TargetsOf(h) {
					if !w.cascade.processed.Has(tgt.Slot()) {
						w.cascade.queue = append(w.cascade.queue, tgt)
					}
				}
			} else {
				for _, tgt := range rel.TargetsOf(h) {
					rel.Unlink(h, tgt)
				}
			}
		}
		w.releaseEntity(h)
	}
	return nil
}

// releaseEntity takes h to its terminal state: trait removal propagated to
// every registered query, removal from the all-entities set, mask rows
// zeroed, slot released. After this the slot may be reallocated with a
// bumped reuse generation.
func (w *World) releaseEntity(h Entity) {
	slot := h.Slot()
	for _, q := range w.queries {
		if q.tracking != nil && w.masks.hasBit(q.tracking.trait, slot) {
			q.tracking.mark(slot, TraitRemoved)
		}
		q.entities.Remove(h)
	}
	w.all.Remove(h)
	w.masks.zeroRow(slot)
	w.release(slot)
	w.publish(Event{Kind: EventEntityDestroyed, Entity: h})
}
