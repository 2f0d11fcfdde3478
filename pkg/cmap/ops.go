package cmap

import "github.com/epochmap/epochmap/internal/raw"

// Len returns a best-effort count of live entries (spec §3). It does
// not require a guard: the underlying counter is read with a single
// atomic load per shard and is safe to call from any goroutine.
func (m *Map[K, V]) Len() int { return int(m.root.Len()) }

// IsEmpty reports whether Len() == 0.
func (m *Map[K, V]) IsEmpty() bool { return m.root.IsEmpty() }

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K, g *Guard) bool {
	if err := m.checkGuard(g); err != nil {
		panic(err)
	}
	return m.root.ContainsKey(m.hasher.Hash(key), key)
}

// Get returns the value stored for key, if any.
func (m *Map[K, V]) Get(key K, g *Guard) (V, bool) {
	if err := m.checkGuard(g); err != nil {
		panic(err)
	}
	v, ok := m.root.Get(m.hasher.Hash(key), key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// GetKeyValue returns the stored key and value for key, if present.
// The returned key is the one physically stored in the table, which is
// useful when K values that compare equal can still differ observably
// (spec §9).
func (m *Map[K, V]) GetKeyValue(key K, g *Guard) (K, V, bool) {
	if err := m.checkGuard(g); err != nil {
		panic(err)
	}
	fk, fv, ok := m.root.GetEntry(m.hasher.Hash(key), key)
	if !ok {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, false
	}
	return fk.(K), fv.(V), true
}

// Insert inserts key/value, overwriting any existing value, and
// returns the value previously stored for key, if any (spec §4.3).
func (m *Map[K, V]) Insert(key K, value V, g *Guard) (old V, hadOld bool) {
	if err := m.checkGuard(g); err != nil {
		panic(err)
	}
	res := m.root.Insert(m.hasher.Hash(key), key, value, true, g)
	if res.Kind == raw.InsertReplaced {
		return res.OldValue.(V), true
	}
	var zero V
	return zero, false
}

// TryInsert inserts key/value only if key is not already present. If
// key is present, it returns an *OccupiedError carrying the existing
// value and the rejected candidate (spec §4.3 step 3, the
// already-present result-class error). A guard from a different Map,
// like every other operation here, panics instead (spec §7 classifies
// guard misuse as a programming error, not a recoverable result).
func (m *Map[K, V]) TryInsert(key K, value V, g *Guard) (V, error) {
	if err := m.checkGuard(g); err != nil {
		panic(err)
	}
	res := m.root.Insert(m.hasher.Hash(key), key, value, false, g)
	if res.Kind == raw.InsertRejected {
		return res.Value.(V), &OccupiedError[K, V]{
			Key:         key,
			Current:     res.Value.(V),
			NotInserted: res.NotInserted.(V),
		}
	}
	return res.Value.(V), nil
}

// Update atomically replaces key's value with remap(oldValue) and
// returns the new value (spec §4.4). remap is a pure function of the
// current value to its replacement — it may be invoked more than once
// under contention, so it must have no side effects, exactly papaya's
// update<F>(&self, key, f: F) where F: Fn(&V) -> V. A remap applied to
// a key that is not present does nothing and returns the zero value
// and false.
func (m *Map[K, V]) Update(key K, remap func(old V) V, g *Guard) (V, bool) {
	if err := m.checkGuard(g); err != nil {
		panic(err)
	}

	res := m.root.Update(m.hasher.Hash(key), key, func(oldValue any) any {
		return remap(oldValue.(V))
	}, g)

	if !res.Found {
		var zero V
		return zero, false
	}
	return res.Value.(V), true
}

// Remove removes key and returns its value, if present.
func (m *Map[K, V]) Remove(key K, g *Guard) (V, bool) {
	if err := m.checkGuard(g); err != nil {
		panic(err)
	}
	res := m.root.Remove(m.hasher.Hash(key), key, g)
	if !res.Found {
		var zero V
		return zero, false
	}
	return res.Value.(V), true
}

// RemoveEntry removes key and returns the physically stored key along
// with its value, if present.
func (m *Map[K, V]) RemoveEntry(key K, g *Guard) (K, V, bool) {
	if err := m.checkGuard(g); err != nil {
		panic(err)
	}
	res := m.root.Remove(m.hasher.Hash(key), key, g)
	if !res.Found {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, false
	}
	return res.Key.(K), res.Value.(V), true
}

// Reserve grows the table, if needed, so at least additional more
// entries can be inserted without triggering a resize mid-operation
// (spec §4.8).
func (m *Map[K, V]) Reserve(additional int, g *Guard) {
	if err := m.checkGuard(g); err != nil {
		panic(err)
	}
	if additional <= 0 {
		return
	}
	m.root.Reserve(uint64(additional), g)
}

// Clear removes every entry from the table (spec §4.8).
func (m *Map[K, V]) Clear(g *Guard) {
	if err := m.checkGuard(g); err != nil {
		panic(err)
	}
	m.root.Clear(g)
}

// Pinned mirrors every Map operation without a guard argument.

func (p *Pinned[K, V]) ContainsKey(key K) bool       { return p.m.ContainsKey(key, p.g) }
func (p *Pinned[K, V]) Get(key K) (V, bool)          { return p.m.Get(key, p.g) }
func (p *Pinned[K, V]) GetKeyValue(key K) (K, V, bool) {
	return p.m.GetKeyValue(key, p.g)
}
func (p *Pinned[K, V]) Insert(key K, value V) (V, bool) { return p.m.Insert(key, value, p.g) }
func (p *Pinned[K, V]) TryInsert(key K, value V) (V, error) {
	return p.m.TryInsert(key, value, p.g)
}
func (p *Pinned[K, V]) Update(key K, remap func(old V) V) (V, bool) {
	return p.m.Update(key, remap, p.g)
}
func (p *Pinned[K, V]) Remove(key K) (V, bool) { return p.m.Remove(key, p.g) }
func (p *Pinned[K, V]) RemoveEntry(key K) (K, V, bool) {
	return p.m.RemoveEntry(key, p.g)
}
func (p *Pinned[K, V]) Reserve(additional int) { p.m.Reserve(additional, p.g) }
func (p *Pinned[K, V]) Clear()                 { p.m.Clear(p.g) }
func (p *Pinned[K, V]) Len() int               { return p.m.Len() }
func (p *Pinned[K, V]) IsEmpty() bool          { return p.m.IsEmpty() }
