package cmap

import (
	"fmt"
	"strings"
)

// Equal reports whether m and other contain the same set of key/value
// pairs, using == on V (spec §9 PartialEq). Values of a type without a
// meaningful == should compare via a fresh Iter pass in caller code
// instead.
func (m *Map[K, V]) Equal(other *Map[K, V], g, otherG *Guard) bool {
	if m.Len() != other.Len() {
		return false
	}
	for _, kv := range m.Iter(g) {
		ov, ok := other.Get(kv.Key, otherG)
		if !ok {
			return false
		}
		if !valuesEqual(kv.Value, ov) {
			return false
		}
	}
	return true
}

// valuesEqual compares two V values with ==, recovering from the panic
// == raises on non-comparable dynamic types hiding behind V (spec §9:
// "Equal/Debug MAY be restricted to comparable V in a future version").
func valuesEqual[V any](a, b V) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return any(a) == any(b)
}

// String renders m as a debug dump of its live entries, in the style
// of Rust's derived Debug for papaya::HashMap (spec §9).
func (m *Map[K, V]) String(g *Guard) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, kv := range m.Iter(g) {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v: %v", kv.Key, kv.Value)
	}
	b.WriteByte('}')
	return b.String()
}

// Clone returns a new Map containing a snapshot copy of m's entries as
// seen through g. Clone replays Iter's snapshot through fresh Inserts
// rather than copying internal/raw tables directly, since the source
// and destination tables may end up differently sized (spec §9 "Clone
// via replay, not structural copy").
func (m *Map[K, V]) Clone(g *Guard) *Map[K, V] {
	snap := m.Iter(g)
	out := NewWithOptions[K, V](Options{InitialCapacity: len(snap)})

	og := out.Guard()
	defer og.Release()

	for _, kv := range snap {
		out.Insert(kv.Key, kv.Value, og)
	}
	return out
}
