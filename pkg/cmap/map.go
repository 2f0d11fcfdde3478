package cmap

import (
	"github.com/epochmap/epochmap/internal/epoch"
	"github.com/epochmap/epochmap/internal/hash"
	"github.com/epochmap/epochmap/internal/raw"
)

// defaultInitialCapacity mirrors the teacher's habit of picking a small
// but non-degenerate starting size rather than growing from a
// single-slot table on the very first insert.
const defaultInitialCapacity = 16

// Options configure a Map at construction time.
//
// The zero value is valid and selects a randomly-seeded hasher and the
// default initial capacity.
type Options struct {
	// InitialCapacity reserves room for at least this many entries
	// before the first migration is triggered. Zero selects a small
	// default.
	InitialCapacity int

	// Seed pins the internal hasher to a fixed maphash.Seed instead of
	// a random one, for reproducible probe sequences in tests and
	// benchmarks. The zero Seed means "pick a random one."
	Seed hash.SeedOption
}

// Map is a lock-free concurrent hash table keyed by K with values V.
// The zero value is not usable; construct one with [New] or
// [NewWithOptions].
type Map[K comparable, V any] struct {
	root      *raw.Root
	hasher    hash.Hasher[K]
	collector *epoch.Collector
}

// New constructs a Map with default options.
func New[K comparable, V any]() *Map[K, V] {
	return NewWithOptions[K, V](Options{})
}

// NewWithOptions constructs a Map per opts.
func NewWithOptions[K comparable, V any](opts Options) *Map[K, V] {
	cap := opts.InitialCapacity
	if cap <= 0 {
		cap = defaultInitialCapacity
	}

	return &Map[K, V]{
		root:      raw.NewRoot(uint64(cap)),
		hasher:    hash.NewFromOption[K](opts.Seed),
		collector: epoch.New(),
	}
}

// Guard pins the current epoch so that entries and tables read through
// it remain valid until released. Callers MUST call [*Guard.Release]
// (directly, or via [Pinned.Release]) once done.
func (m *Map[K, V]) Guard() *Guard {
	return m.collector.Enter()
}

// checkGuard returns ErrGuardMismatch if g was not obtained from this
// Map's own Collector.
func (m *Map[K, V]) checkGuard(g *Guard) error {
	if g.Collector() != m.collector {
		return ErrGuardMismatch
	}
	return nil
}

// Pin returns a [Pinned] handle holding a fresh guard from this Map,
// for call sites that prefer not to thread a *Guard through every call.
func (m *Map[K, V]) Pin() *Pinned[K, V] {
	return &Pinned[K, V]{m: m, g: m.Guard()}
}

// Pinned bundles a Map with a Guard obtained from it, offering the same
// operations without an explicit guard argument. Release the guard
// via [Pinned.Release] once the handle is no longer needed.
type Pinned[K comparable, V any] struct {
	m *Map[K, V]
	g *Guard
}

// Release releases the guard backing this handle. The handle must not
// be used afterward.
func (p *Pinned[K, V]) Release() { p.g.Release() }

// Guard is a type alias for the reclamation guard every Map operation
// consumes, re-exported so callers don't need to import internal/epoch.
type Guard = epoch.Guard
