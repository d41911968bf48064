// Package bento implements an in-memory entity/trait membership store with
// incrementally maintained queries.
//
// Features:
// - Packed 64-bit entity handles with slot reuse and generation-based
//   staleness detection.
// - Bitmask trait membership in 32-trait banks, max 256 trait types.
// - Two-level hierarchical bitset for skip-based set algebra.
// - Per-query materialized entity sets with O(1) membership and ordered,
//   allocation-free iteration.
// - Relation-aware cascading destruction with per-relation auto-destroy
//   policies.
//
// The package is single-threaded by contract: one writer per World, no
// internal locking. Trait value storage and query compilation live outside
// this package; the World consumes compiled Query descriptors and keeps
// their entity sets current as entities are created, mutated and destroyed.
package bento
