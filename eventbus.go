package bento

// EventKind identifies one entity lifecycle event.
type EventKind uint8

const (
	// EventEntityCreated fires after a handle is allocated and registered.
	EventEntityCreated EventKind = iota
	// EventEntityDestroyed fires after a handle is fully released; the
	// handle in the event is already stale.
	EventEntityDestroyed
	// EventTraitAdded fires after a trait bit is set and queries updated.
	EventTraitAdded
	// EventTraitRemoved fires after a trait bit is cleared and queries
	// updated.
	EventTraitRemoved

	eventKinds
)

// Event carries the data of one lifecycle event. Trait is only meaningful
// for the trait events.
type Event struct {
	Entity Entity
	Trait  TraitID
	Kind   EventKind
}

// EventBus dispatches entity lifecycle events to subscribed handlers.
// Handlers for a kind run synchronously in subscription order; Publish is
// allocation-free. A World publishes to at most one bus (SetEventBus).
//
// Handlers run inside the world's mutation paths and must not call
// Destroy; the destroy orchestrator's reentrancy guard reports the error.
type EventBus struct {
	handlers [eventKinds][]func(Event)
}

// Subscribe registers a handler for one event kind. Subscription may
// allocate; keep it out of hot paths.
func (b *EventBus) Subscribe(kind EventKind, handler func(Event)) {
	if cap(b.handlers[kind]) == 0 {
		b.handlers[kind] = make([]func(Event), 0, 4)
	}
	b.handlers[kind] = append(b.handlers[kind], handler)
}

// Publish delivers the event to every handler of its kind.
func (b *EventBus) Publish(ev Event) {
	for _, h := range b.handlers[ev.Kind] {
		h(ev)
	}
}
