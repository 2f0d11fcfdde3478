// Package raw implements the lock-free concurrent hash table core:
// the per-slot atomic state machine, the quadratic probe sequence, the
// get/insert/update/remove protocols, incremental migration, and
// Guard-scoped iteration.
//
// raw is untyped: keys and values are carried as any and compared with
// Go's built-in interface equality, which is exactly the (==) a
// comparable key type gets boxed into - this lets pkg/cmap monomorphize
// a generic façade over a single, non-generic copy of the lock-free
// algorithm instead of duplicating it per type instantiation.
//
// raw consumes one narrow external capability, per spec §3.9: a Guard
// (github.com/epochmap/epochmap/internal/epoch) that defers reclamation
// of retired entries and tables. Hashing happens one layer up, in
// pkg/cmap, which still has the concrete key type and so can call a
// Hasher before boxing the key to any; every raw entry point below
// takes that precomputed hash as a plain uint64.
package raw
