package raw

import (
	"sync/atomic"

	"github.com/epochmap/epochmap/internal/epoch"
)

// Root is the single handle consumers hold onto: an atomically
// swappable pointer to the current table, updated only by promotion
// once a migration has fully drained its source (spec §4.6 step 3).
// Every operation below follows a table's redirect chain itself rather
// than relying on Root already pointing at the newest table, since
// Root is only ever advanced opportunistically.
type Root struct {
	ptr atomic.Pointer[table]
}

// NewRoot allocates a fresh Root backed by a table sized for at least
// initialSize entries.
func NewRoot(initialSize uint64) *Root {
	r := &Root{}
	r.ptr.Store(newTable(uint64(float64(initialSize)/loadFactor) + 1))
	return r
}

func (r *Root) current() *table { return r.ptr.Load() }

// tryPromote advances Root from a fully-drained source table to its
// successor. It is safe to call speculatively; it only ever succeeds
// once from has copied every one of its ranges, and is a no-op
// otherwise (spec §4.6 step 3).
func (r *Root) tryPromote(from, to *table) {
	if from.copied.Load() < from.ranges {
		return
	}
	if r.ptr.CompareAndSwap(from, to) {
		from.retired.Store(true)
	}
}

// Get implements spec §4.2.
func (r *Root) Get(hash uint64, key any) (value any, ok bool) {
	t := r.current()
	for {
		v, found, redirect := t.get(hash, key)
		if redirect == nil {
			return v, found
		}
		r.tryPromote(t, redirect)
		t = redirect
	}
}

// GetEntry recovers the stored (key, value) pair, used by
// pkg/cmap's GetKeyValue.
func (r *Root) GetEntry(hash uint64, key any) (k, v any, ok bool) {
	t := r.current()
	for {
		fk, fv, found, redirect := t.getEntry(hash, key)
		if redirect == nil {
			return fk, fv, found
		}
		r.tryPromote(t, redirect)
		t = redirect
	}
}

// ContainsKey implements spec §4.2's contains_key as a thin Get wrapper.
func (r *Root) ContainsKey(hash uint64, key any) bool {
	_, ok := r.Get(hash, key)
	return ok
}

// Insert implements spec §4.3 (replace == true is plain insert,
// replace == false is try_insert).
func (r *Root) Insert(hash uint64, key, value any, replace bool, g *epoch.Guard) InsertResult {
	t := r.current()
	for {
		res, redirect := t.insert(hash, key, value, replace, g)
		if redirect == nil {
			return res
		}
		r.tryPromote(t, redirect)
		t = redirect
	}
}

// Update implements spec §4.4.
func (r *Root) Update(hash uint64, key any, remap remapFunc, g *epoch.Guard) UpdateResult {
	t := r.current()
	for {
		res, redirect := t.update(hash, key, remap, g)
		if redirect == nil {
			return res
		}
		r.tryPromote(t, redirect)
		t = redirect
	}
}

// Remove implements spec §4.5 (remove and remove_entry share this;
// RemoveResult already carries the removed key).
func (r *Root) Remove(hash uint64, key any, g *epoch.Guard) RemoveResult {
	t := r.current()
	for {
		res, redirect := t.remove(hash, key, g)
		if redirect == nil {
			return res
		}
		r.tryPromote(t, redirect)
		t = redirect
	}
}

// Len is a best-effort live-entry count (spec §3), read from the
// current table's own counter. A relocated entry is never subtracted
// from its source table's counter (see table.addLen), so the source
// keeps counting it; but writes redirected into the successor during a
// migration are counted only there, so mid-migration the result can be
// off until Root is promoted to the successor.
func (r *Root) Len() int64 { return r.current().len() }

func (r *Root) IsEmpty() bool { return r.Len() <= 0 }

// Reserve eagerly grows (and fully drains any resulting migration)
// so that at least additional more entries fit without a caller-visible
// resize (spec §4.8).
func (r *Root) Reserve(additional uint64, g *epoch.Guard) {
	t := r.current()
	want := uint64(t.len()) + additional

	next := t.next.Load()
	if next == nil {
		if float64(want)/float64(t.size()) < loadFactor {
			return
		}
		next = t.ensureNext(want, g)
	}

	for t.migrateOneRange(next, g) {
	}
	r.tryPromote(t, next)
}

// Clear empties the current table in place, per spec §4.8: every slot
// holding an Entry is CASed to Tombstone and retired. The table object
// itself is never swapped, so a writer that already loaded this same
// table via current() keeps operating on a live, reachable table -
// its insert either lands before clear's scan reaches that slot (and
// is then cleared) or after (and survives), matching the spec's
// best-effort guarantee instead of silently discarding it.
func (r *Root) Clear(g *epoch.Guard) {
	r.current().clearSlots(g)
}
