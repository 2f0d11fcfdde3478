// Package hash provides the default key hasher pkg/cmap seeds every
// map with, grounded on the maphash.MakeSeed/maphash.Comparable
// pattern real Go hash-table implementations in this codebase's
// reference corpus use (e.g. a homier/stablemap-style
// MakeDefaultHashFunc) rather than a hand-rolled FNV/xx variant.
package hash

import "hash/maphash"

// Hasher turns a key into the uint64 the internal/raw core probes
// with. A single seed is shared by every call from a given Hasher so
// that (spec §3.9) "equal keys always hash identically for the
// lifetime of the table."
type Hasher[K comparable] struct {
	seed maphash.Seed
}

// New returns a Hasher seeded from the process-global random seed
// source, so distinct maps in the same process do not share probe
// sequences (spec §9 hash-flooding note).
func New[K comparable]() Hasher[K] {
	return Hasher[K]{seed: maphash.MakeSeed()}
}

// NewSeeded returns a Hasher pinned to an explicit seed, so tests and
// benchmarks can get reproducible probe sequences across runs.
func NewSeeded[K comparable](seed maphash.Seed) Hasher[K] {
	return Hasher[K]{seed: seed}
}

// Hash returns key's hash under this Hasher's seed.
func (h Hasher[K]) Hash(key K) uint64 {
	return maphash.Comparable(h.seed, key)
}

// Seed exposes the seed in use; a Hasher built from it with NewSeeded
// hashes every key identically to this one.
func (h Hasher[K]) Seed() maphash.Seed { return h.seed }

// SeedOption carries an optional, explicit maphash.Seed through
// pkg/cmap's Options. maphash.Seed's zero value cannot be used to hash
// anything, so "unset" needs its own bool rather than a zero check.
type SeedOption struct {
	seed maphash.Seed
	set  bool
}

// WithSeed wraps an explicit seed for use in Options.Seed.
func WithSeed(seed maphash.Seed) SeedOption {
	return SeedOption{seed: seed, set: true}
}

// NewFromOption resolves opt into a Hasher: the pinned seed if one was
// given via WithSeed, or a fresh random one otherwise.
func NewFromOption[K comparable](opt SeedOption) Hasher[K] {
	if opt.set {
		return NewSeeded[K](opt.seed)
	}
	return New[K]()
}

