package raw

import "github.com/epochmap/epochmap/internal/epoch"

// clearSlots implements spec §4.8's clear: walk every physical slot and
// CAS each Entry to Tombstone, retiring the displaced entry. It never
// swaps the table object itself, so a concurrent Insert/Update/Remove
// racing clearSlots keeps operating on this same table exactly as it
// would without a clear in flight — there is no dead table for a
// "successful" concurrent write to vanish into, only the ordinary
// per-slot CAS races every other operation already retries through.
func (t *table) clearSlots(g *epoch.Guard) {
	for i := range t.slots {
		s := &t.slots[i]

		for {
			st := s.load()

			switch {
			case isEntry(st):
				cur := entryOf(st)
				if s.cas(st, tombstoneState) {
					t.addLen(cur.hash, -1)
					g.Retire(func() {})
					break
				}
				// Lost the race; reload and re-dispatch this slot.
				continue

			default:
				// Empty, Tombstone, Copied, CopyLocked: nothing for clear
				// to do. A CopyLocked entry is mid-handoff into next and
				// is left for the migration to finish; per spec §4.8 this
				// is best-effort, not a strict guarantee against entries
				// that were already relocating when clear started.
			}

			break
		}
	}
}
