package bento

// AutoDestroyPolicy selects how entity destruction cascades along a
// relation's edges.
type AutoDestroyPolicy uint8

const (
	// DestroyNone only unlinks edges touching a destroyed entity.
	DestroyNone AutoDestroyPolicy = iota
	// DestroySource destroys every source still pointing at a destroyed
	// target. A child related to its parent via a DestroySource relation
	// dies with the parent.
	DestroySource
	// DestroyTarget destroys every target a destroyed source points at.
	DestroyTarget
)

// DestroyOrphans is the conventional name for DestroySource: sources left
// without their target are orphans and are destroyed.
const DestroyOrphans = DestroySource

// Relation is the lookup contract a relation store must provide for query
// filtering and cascading destruction. The store itself (edge layout,
// indexes) lives outside this package; the orchestrator and matcher only
// ever read through this interface, plus Unlink during cascades.
type Relation interface {
	// Policy returns the relation's auto-destroy policy.
	Policy() AutoDestroyPolicy
	// SourcesOf enumerates entities that relate to target. The returned
	// slice must stay valid while the caller unlinks the enumerated
	// edges, so implementations backed by mutable storage return a
	// snapshot.
	SourcesOf(target Entity) []Entity
	// TargetsOf enumerates entities source relates to. Same snapshot
	// requirement as SourcesOf.
	TargetsOf(source Entity) []Entity
	// HasPair reports whether e currently satisfies the filter, i.e. is
	// related to the filter's target via this relation.
	HasPair(e Entity, f RelationFilter) bool
	// Unlink removes the source->target edge.
	Unlink(source, target Entity)
}

// RelationFilter is one (relation, target) constraint attached to a query:
// matching entities must relate to Target via Relation.
type RelationFilter struct {
	Relation Relation
	Target   Entity
}
