package raw

import "github.com/epochmap/epochmap/internal/epoch"

// InsertKind classifies the outcome of a single-table insert attempt,
// mirroring the EntryStatus union spec §4.3 describes.
type InsertKind uint8

const (
	// InsertedEmpty: the key was new and claimed a never-used slot.
	InsertedEmpty InsertKind = iota
	// InsertedTombstone: the key was new and reused a tombstoned slot.
	InsertedTombstone
	// InsertReplaced: the key already existed and replace was true.
	InsertReplaced
	// InsertRejected: the key already existed and replace was false;
	// the candidate value was not installed.
	InsertRejected
)

// InsertResult is the outcome of a settled (non-redirected) insert
// attempt.
type InsertResult struct {
	Kind InsertKind

	// Value holds the value now logically associated with the key for
	// InsertedEmpty/InsertedTombstone/InsertReplaced, or the existing
	// (unchanged) value for InsertRejected.
	Value any

	// OldValue holds the value that was replaced, for InsertReplaced only.
	OldValue any

	// NotInserted echoes back the candidate value for InsertRejected,
	// so the caller can recover ownership of it (spec §4.3 step 3).
	NotInserted any
}

// insert implements the insert/try_insert protocol (spec §4.3) against
// a single table, returning a redirect table when migration blocks the
// attempt or the probe sequence is exhausted ("table full").
func (t *table) insert(hash uint64, key, value any, replace bool, g *epoch.Guard) (InsertResult, *table) {
	newE := newEntry(hash, key, value)
	limit := probeLen(t.size())

	for i := uint64(0); i < limit; i++ {
		idx := probeIndex(hash, t.mask, i)
		s := &t.slots[idx]

		// Reuse a tombstone only when key is not held further along
		// this probe sequence; otherwise the key would appear twice.
		if isTombstone(s.load()) {
			later := false
			for j := i + 1; j < limit && !later; j++ {
				st := t.slots[probeIndex(hash, t.mask, j)].load()
				if isEmpty(st) {
					break
				}
				e := entryOf(st)
				later = e != nil && e.key == key
			}
			if later {
				continue
			}
		}

		res, redirect, matched := t.tryInsertAtSlot(s, hash, key, value, replace, newE, g)
		if redirect != nil {
			return InsertResult{}, redirect
		}
		if matched {
			t.maybeTriggerMigration(g)
			return res, nil
		}
		// A different key occupies this slot: keep probing.
	}

	// Probe exhausted: spec §4.3 step 4, "treat as table full."
	return InsertResult{}, t.ensureNext(t.size()+1, g)
}

// tryInsertAtSlot resolves a single probe slot for key, spinning only
// on CAS races that touch this exact slot. matched is false only when
// the slot settles on an Entry belonging to a different key, telling
// the caller to advance to the next probe index.
func (t *table) tryInsertAtSlot(
	s *slot,
	hash uint64,
	key, value any,
	replace bool,
	newE *entry,
	g *epoch.Guard,
) (result InsertResult, redirect *table, matched bool) {
	for {
		st := s.load()

		switch {
		case isMigrating(st):
			return InsertResult{}, t.assist(g), true

		case isOccupiable(st):
			if s.cas(st, entryState(newE)) {
				t.addLen(hash, 1)
				if isEmpty(st) {
					return InsertResult{Kind: InsertedEmpty, Value: value}, nil, true
				}
				return InsertResult{Kind: InsertedTombstone, Value: value}, nil, true
			}
			// Lost the race; reload and re-dispatch.

		case isEntry(st):
			cur := entryOf(st)
			if cur.key != key {
				return InsertResult{}, nil, false
			}
			if !replace {
				return InsertResult{Kind: InsertRejected, Value: cur.value, NotInserted: value}, nil, true
			}
			if s.cas(st, entryState(newE)) {
				g.Retire(func() {})
				return InsertResult{Kind: InsertReplaced, Value: value, OldValue: cur.value}, nil, true
			}
			// Lost the race (could be a concurrent remove turning this
			// into a Tombstone, which the next loop pass will see as
			// isOccupiable and claim fresh); reload and re-dispatch.
		}
	}
}
