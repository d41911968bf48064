package bento_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuzudev/bento"
)

// go test -run ^TestWorldTraitLifecycle$ . -count 1
func TestWorldTraitLifecycle(t *testing.T) {
	w := bento.NewWorld(0, 8)
	tr := w.NewTrait()
	e := w.CreateEntity()

	assert.False(t, w.HasTrait(e, tr))
	require.NoError(t, w.AddTrait(e, tr))
	assert.True(t, w.HasTrait(e, tr))

	// Idempotent add.
	require.NoError(t, w.AddTrait(e, tr))
	assert.True(t, w.HasTrait(e, tr))

	require.NoError(t, w.RemoveTrait(e, tr))
	assert.False(t, w.HasTrait(e, tr))

	// Idempotent remove.
	require.NoError(t, w.RemoveTrait(e, tr))
}

// go test -run ^TestWorldTraitErrors$ . -count 1
func TestWorldTraitErrors(t *testing.T) {
	w := bento.NewWorld(0, 8)
	tr := w.NewTrait()
	e := w.CreateEntity()
	require.NoError(t, w.Destroy(e))

	t.Run("DeadHandle", func(t *testing.T) {
		assert.Error(t, w.AddTrait(e, tr))
		assert.Error(t, w.RemoveTrait(e, tr))
		assert.False(t, w.HasTrait(e, tr))
	})

	t.Run("StaleHandle", func(t *testing.T) {
		reused := w.CreateEntity()
		require.Equal(t, e.Slot(), reused.Slot())
		assert.Error(t, w.AddTrait(e, tr), "old generation must not mutate the slot's new occupant")
		assert.False(t, w.HasTrait(reused, tr))
	})

	t.Run("UnregisteredTrait", func(t *testing.T) {
		e2 := w.CreateEntity()
		assert.Error(t, w.AddTrait(e2, bento.TraitID(99)))
	})
}

// go test -run ^TestWorldQueryMaintenance$ . -count 1
func TestWorldQueryMaintenance(t *testing.T) {
	w := bento.NewWorld(0, 8)
	pos := w.NewTrait()
	vel := w.NewTrait()

	banks, clauses := bento.MakeClauses([]bento.TraitID{pos, vel}, nil, nil)
	q := bento.NewQuery(banks, clauses)
	w.RegisterQuery(q)

	e := w.CreateEntity()
	assert.Equal(t, 0, q.Size())

	require.NoError(t, w.AddTrait(e, pos))
	assert.Equal(t, 0, q.Size(), "half the requirement is not membership")

	require.NoError(t, w.AddTrait(e, vel))
	assert.Equal(t, 1, q.Size())
	assert.True(t, q.Entities().Has(e))

	require.NoError(t, w.RemoveTrait(e, pos))
	assert.Equal(t, 0, q.Size(), "losing a required trait leaves the query")
}

// go test -run ^TestWorldRegisterQueryBackfill$ . -count 1
func TestWorldRegisterQueryBackfill(t *testing.T) {
	w := bento.NewWorld(0, 8)
	tr := w.NewTrait()

	matching := w.CreateEntity()
	other := w.CreateEntity()
	require.NoError(t, w.AddTrait(matching, tr))

	// Registering after the fact picks up the existing population.
	banks, clauses := bento.MakeClauses([]bento.TraitID{tr}, nil, nil)
	q := bento.NewQuery(banks, clauses)
	w.RegisterQuery(q)
	assert.Equal(t, 1, q.Size())
	assert.True(t, q.Entities().Has(matching))
	assert.False(t, q.Entities().Has(other))
}

// go test -run ^TestWorldForbiddenOnlyQueryPicksUpNewborns$ . -count 1
func TestWorldForbiddenOnlyQueryPicksUpNewborns(t *testing.T) {
	w := bento.NewWorld(0, 8)
	tr := w.NewTrait()
	banks, clauses := bento.MakeClauses(nil, []bento.TraitID{tr}, nil)
	q := bento.NewQuery(banks, clauses)
	w.RegisterQuery(q)

	e := w.CreateEntity()
	assert.True(t, q.Entities().Has(e), "a traitless newborn matches a forbidden-only query")

	require.NoError(t, w.AddTrait(e, tr))
	assert.False(t, q.Entities().Has(e))

	require.NoError(t, w.RemoveTrait(e, tr))
	assert.True(t, q.Entities().Has(e))
}

// go test -run ^TestWorldMaskGrowth$ . -count 1
func TestWorldMaskGrowth(t *testing.T) {
	// Start tiny and force both identity and mask rows through several
	// doublings; earlier entities' bits must survive every growth step.
	w := bento.NewWorld(0, 1)
	tr := w.NewTrait()

	first := w.CreateEntity()
	require.NoError(t, w.AddTrait(first, tr))
	for i := 0; i < 1000; i++ {
		e := w.CreateEntity()
		if i%2 == 0 {
			require.NoError(t, w.AddTrait(e, tr))
		}
	}
	assert.True(t, w.HasTrait(first, tr), "growth must preserve existing bits")
	assert.Equal(t, 1001, w.EntityCount())
}

// go test -run ^TestWorldTraitRegistryExhaustion$ . -count 1
func TestWorldTraitRegistryExhaustion(t *testing.T) {
	w := bento.NewWorld(0, 1)
	for i := 0; i < bento.MaxTraitTypes; i++ {
		w.NewTrait()
	}
	assert.Panics(t, func() { w.NewTrait() })
}
