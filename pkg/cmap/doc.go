// Package cmap provides Map[K, V], a lock-free concurrent hash table
// built on top of internal/raw's slot/table core and internal/epoch's
// reclamation guards.
//
// # Basic Usage
//
//	m := cmap.New[string, int]()
//
//	g := m.Guard()
//	defer g.Release()
//
//	m.Insert("a", 1, g)
//	v, ok := m.Get("a", g)
//
// Most call sites prefer [Map.Pin], which returns a [Pinned] handle
// that carries its own guard and reads more like a plain map:
//
//	p := m.Pin()
//	defer p.Release()
//
//	p.Insert("a", 1)
//	v, ok := p.Get("a")
//
// # Concurrency
//
// Map is safe for concurrent use from any number of goroutines without
// external locking. Every read and write takes a [*Guard] (or goes
// through a [Pinned] handle that already holds one); the guard is what
// lets retired entries and retired tables be reclaimed safely once no
// concurrent operation can still observe them.
//
// # Error Handling
//
// TryInsert reports an existing key via [*OccupiedError] rather than a
// sentinel value, since the caller needs the existing value back.
// Passing a guard obtained from a different Map's Collector is a
// programming error and panics with [ErrGuardMismatch].
package cmap
