package raw

import "github.com/epochmap/epochmap/internal/epoch"

// RemoveResult is the outcome of a settled (non-redirected) remove
// attempt (spec §4.5).
type RemoveResult struct {
	Found bool
	Key   any
	Value any
}

// remove implements the remove/remove_entry protocol (spec §4.5)
// against a single table.
func (t *table) remove(hash uint64, key any, g *epoch.Guard) (RemoveResult, *table) {
	limit := probeLen(t.size())

	for i := uint64(0); i < limit; i++ {
		idx := probeIndex(hash, t.mask, i)
		s := &t.slots[idx]

		res, redirect, matched := t.tryRemoveAtSlot(s, hash, key, g)
		if redirect != nil {
			return RemoveResult{}, redirect
		}
		if matched {
			return res, nil
		}
	}

	return RemoveResult{Found: false}, nil
}

// tryRemoveAtSlot resolves a single probe slot, spinning only on CAS
// races touching this exact slot. matched is false when the slot
// settles on a Tombstone or on an Entry belonging to a different key.
func (t *table) tryRemoveAtSlot(
	s *slot,
	hash uint64,
	key any,
	g *epoch.Guard,
) (result RemoveResult, redirect *table, matched bool) {
	for {
		st := s.load()

		switch {
		case isMigrating(st):
			return RemoveResult{}, t.assist(g), true

		case isEmpty(st):
			return RemoveResult{Found: false}, nil, true

		case isTombstone(st):
			return RemoveResult{}, nil, false

		case isEntry(st):
			cur := entryOf(st)
			if cur.key != key {
				return RemoveResult{}, nil, false
			}

			if s.cas(st, tombstoneState) {
				t.addLen(hash, -1)
				g.Retire(func() {})
				return RemoveResult{Found: true, Key: cur.key, Value: cur.value}, nil, true
			}
			// Lost the race; reload and re-dispatch.
		}
	}
}
