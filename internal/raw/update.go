package raw

import "github.com/epochmap/epochmap/internal/epoch"

// UpdateResult is the outcome of a settled (non-redirected) update
// attempt (spec §4.4).
type UpdateResult struct {
	// Found reports whether the key existed in the table.
	Found bool

	// Value is the new value installed when Found.
	Value any

	// OldValue is the value the key held before this update.
	OldValue any
}

// remapFunc mirrors papaya's update<F>(&self, key, f: F) where
// F: Fn(&V) -> V (original_source/src/map.rs): a pure function from the
// current value to its replacement. It may be invoked more than once on
// contention, so it must have no side effects.
type remapFunc func(oldValue any) (newValue any)

// update implements the update protocol (spec §4.4) against a single
// table.
func (t *table) update(hash uint64, key any, remap remapFunc, g *epoch.Guard) (UpdateResult, *table) {
	limit := probeLen(t.size())

	for i := uint64(0); i < limit; i++ {
		idx := probeIndex(hash, t.mask, i)
		s := &t.slots[idx]

		res, redirect, matched := t.tryUpdateAtSlot(s, hash, key, remap, g)
		if redirect != nil {
			return UpdateResult{}, redirect
		}
		if matched {
			return res, nil
		}
	}

	return UpdateResult{Found: false}, nil
}

// tryUpdateAtSlot resolves a single probe slot, spinning only on CAS
// races touching this exact slot. matched is false when the slot
// settles on a Tombstone or on an Entry belonging to a different key.
func (t *table) tryUpdateAtSlot(
	s *slot,
	hash uint64,
	key any,
	remap remapFunc,
	g *epoch.Guard,
) (result UpdateResult, redirect *table, matched bool) {
	for {
		st := s.load()

		switch {
		case isMigrating(st):
			return UpdateResult{}, t.assist(g), true

		case isEmpty(st):
			return UpdateResult{Found: false}, nil, true

		case isTombstone(st):
			return UpdateResult{}, nil, false

		case isEntry(st):
			cur := entryOf(st)
			if cur.key != key {
				return UpdateResult{}, nil, false
			}

			newValue := remap(cur.value)

			newE := newEntry(hash, key, newValue)
			if s.cas(st, entryState(newE)) {
				g.Retire(func() {})
				return UpdateResult{Found: true, Value: newValue, OldValue: cur.value}, nil, true
			}
			// Lost the race; reload and re-dispatch.
		}
	}
}
