package raw

import "github.com/epochmap/epochmap/internal/epoch"

// IterEntry is one (key, value, hash) triple yielded by Snapshot.
type IterEntry struct {
	Hash  uint64
	Key   any
	Value any
}

// Snapshot implements the Guard-scoped iteration protocol (spec §4.7):
// it returns every live entry as of a single consistent point in time.
//
// Rather than chase Copied markers across an in-flight migration's old
// and new tables (which needs per-range dedup bookkeeping to avoid
// yielding a relocated entry twice), Snapshot drives any migration
// already in progress to completion first, then walks the single
// settled destination table. The guard held by the caller still
// protects that table against concurrent reclamation; callers pay for
// the (bounded, already-started) migration's remaining work instead of
// for cross-table dedup logic.
func (r *Root) Snapshot(g *epoch.Guard) []IterEntry {
	t := r.current()
	for {
		next := t.next.Load()
		if next == nil {
			break
		}
		for t.migrateOneRange(next, g) {
		}
		r.tryPromote(t, next)
		t = next
	}

	out := make([]IterEntry, 0, t.len())
	for i := range t.slots {
		st := t.slots[i].load()
		switch {
		case isEntry(st), isCopyLocked(st):
			e := entryOf(st)
			out = append(out, IterEntry{Hash: e.hash, Key: e.key, Value: e.value})
		default:
			// Empty, Tombstone, Copied: nothing live at this slot.
		}
	}
	return out
}
