// Package testutil provides a reference model and a behavior runner
// for comparing cmap.Map against a deliberately simple, single-threaded
// implementation, grounded on the teacher's
// pkg/slotcache/internal/testutil model-vs-real harness.
package testutil

// Model is a deliberately simple, easily-audited mirror of a
// cmap.Map[string, int]'s observable behavior. It favors clarity over
// performance: a single map behind no concurrency control at all,
// since every comparison run drives the model, and the real map beside
// it, from a single goroutine.
type Model struct {
	entries map[string]int
}

// NewModel returns an empty Model.
func NewModel() *Model {
	return &Model{entries: make(map[string]int)}
}

func (m *Model) Get(key string) (int, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *Model) ContainsKey(key string) bool {
	_, ok := m.entries[key]
	return ok
}

// Insert mirrors spec.md §4.3's insert (replace == true): always
// installs value, returns the value previously stored, if any.
func (m *Model) Insert(key string, value int) (old int, hadOld bool) {
	old, hadOld = m.entries[key]
	m.entries[key] = value
	return old, hadOld
}

// TryInsert mirrors spec.md §4.3's try_insert (replace == false):
// installs value only if key is absent.
func (m *Model) TryInsert(key string, value int) (current int, inserted bool) {
	if existing, ok := m.entries[key]; ok {
		return existing, false
	}
	m.entries[key] = value
	return value, true
}

// Update mirrors spec.md §4.4: remap is a pure function of the current
// value to its replacement, not called for an absent key, matching
// cmap.Map's behavior of doing nothing for a remap of a key that is
// not present.
func (m *Model) Update(key string, remap func(old int) int) (newValue int, found bool) {
	old, ok := m.entries[key]
	if !ok {
		return 0, false
	}
	next := remap(old)
	m.entries[key] = next
	return next, true
}

func (m *Model) Remove(key string) (int, bool) {
	v, ok := m.entries[key]
	if ok {
		delete(m.entries, key)
	}
	return v, ok
}

func (m *Model) Len() int { return len(m.entries) }

func (m *Model) IsEmpty() bool { return len(m.entries) == 0 }

func (m *Model) Clear() { m.entries = make(map[string]int) }

// Snapshot returns every (key, value) pair, order-independent, for
// comparison as a map against cmap.Map.Iter's pairs via cmp.Diff.
func (m *Model) Snapshot() map[string]int {
	out := make(map[string]int, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}
