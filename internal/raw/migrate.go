package raw

import "github.com/epochmap/epochmap/internal/epoch"

// ensureNext makes sure a migration target at least large enough for
// needSize live entries exists, installs it if not, helps migrate one
// range of work into it, and returns it (spec §4.6 steps 1-2).
func (t *table) ensureNext(needSize uint64, g *epoch.Guard) *table {
	next := t.next.Load()
	if next == nil {
		target := growthTarget(t.size(), needSize)
		candidate := newTable(target)
		if t.next.CompareAndSwap(nil, candidate) {
			next = candidate
		} else {
			next = t.next.Load()
		}
	}

	t.migrateOneRange(next, g)
	return next
}

// maybeTriggerMigration checks the load-factor trigger (spec §4.6
// trigger (a)) after a successful insert and starts a migration if
// crossed. A migration already in flight is left alone; callers help
// it opportunistically via assist instead.
func (t *table) maybeTriggerMigration(g *epoch.Guard) {
	if t.next.Load() != nil {
		return
	}
	if float64(t.len())/float64(t.size()) >= loadFactor {
		t.ensureNext(t.size()+1, g)
	}
}

// assist is called by ordinary operations that observe a Copied or
// CopyLocked marker mid-probe. Both states imply a migration target
// already exists (it is installed before any slot is touched), so this
// helps move one more range of work along and hands back the table the
// caller should redirect its own attempt to.
func (t *table) assist(g *epoch.Guard) *table {
	next := t.next.Load()
	if next == nil {
		// Defensive only: Copied/CopyLocked should never be observed
		// before next is published.
		return t.ensureNext(t.size()+1, g)
	}
	t.migrateOneRange(next, g)
	return next
}

// migrateOneRange claims the next unclaimed disjoint range of this
// table's slots (work-stealing via t.claim) and migrates every slot in
// it into next, marking the range complete in t.copied on exit
// (spec §4.6 step 2). Returns false if no range was left to claim.
func (t *table) migrateOneRange(next *table, g *epoch.Guard) bool {
	idx := t.claim.Add(1) - 1
	if idx >= t.ranges {
		return false
	}

	start := idx * t.rangeSize
	end := start + t.rangeSize
	if end > t.size() {
		end = t.size()
	}

	for i := start; i < end; i++ {
		t.migrateSlot(i, next, g)
	}

	t.copied.Add(1)
	return true
}

// migrateSlot drives a single old-table slot through its migration
// transitions (spec §3 CopyLocked, §4.6 step 2). Ranges are disjoint
// and claimed by exactly one goroutine, so the only contention here is
// with ordinary readers/writers racing the Entry -> CopyLocked CAS.
func (t *table) migrateSlot(idx uint64, next *table, g *epoch.Guard) {
	s := &t.slots[idx]

	for {
		st := s.load()

		switch {
		case isCopied(st):
			return

		case isEmpty(st), isTombstone(st):
			if s.cas(st, copiedState) {
				return
			}
			// Lost the race to a concurrent writer claiming this slot;
			// reload and re-dispatch.

		case isCopyLocked(st):
			// Only this goroutine's range owns this slot, so observing
			// CopyLocked here means a previous pass locked it but was
			// interrupted before the final CAS; finish that handoff.
			t.finishMigrateSlot(s, st, entryOf(st), next, g)
			return

		case isEntry(st):
			e := entryOf(st)
			locked := copyLockedState(e)
			if !s.cas(st, locked) {
				// Lost the race to a concurrent update/remove; reload.
				continue
			}
			t.finishMigrateSlot(s, locked, e, next, g)
			return
		}
	}
}

// finishMigrateSlot publishes e into next and only then marks the old
// slot Copied, preserving the happens-before edge spec §5 requires:
// the relocated entry must be visible in next before any reader can be
// redirected away from the old slot.
func (t *table) finishMigrateSlot(s *slot, locked *state, e *entry, next *table, g *epoch.Guard) {
	next.installDuringMigration(e.hash, e.key, e.value, g)

	if !s.cas(locked, copiedState) {
		panic("raw: slot mutated concurrently with an exclusive CopyLocked hold")
	}
}

// installDuringMigration relocates a single live entry into t (or, if
// t itself is already being migrated further, into whichever table at
// the end of t's redirect chain is currently accepting writes).
func (t *table) installDuringMigration(hash uint64, key, value any, g *epoch.Guard) {
	cur := t
	for {
		_, redirect := cur.insert(hash, key, value, true, g)
		if redirect == nil {
			return
		}
		cur = redirect
	}
}
