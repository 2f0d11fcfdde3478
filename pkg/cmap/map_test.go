package cmap_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epochmap/epochmap/pkg/cmap"
)

// Scenario A (spec.md §8): basic insert/get/remove round trip.
func TestScenarioA_Basic(t *testing.T) {
	m := cmap.New[int, string]()
	g := m.Guard()
	defer g.Release()

	_, had := m.Insert(1, "a", g)
	require.False(t, had)

	old, had := m.Insert(1, "b", g)
	require.True(t, had)
	require.Equal(t, "a", old)

	v, ok := m.Get(1, g)
	require.True(t, ok)
	require.Equal(t, "b", v)

	removed, ok := m.Remove(1, g)
	require.True(t, ok)
	require.Equal(t, "b", removed)

	_, ok = m.Get(1, g)
	require.False(t, ok)
}

// Scenario B (spec.md §8): try_insert rejects an existing key and
// reports both the current and rejected values.
func TestScenarioB_TryInsert(t *testing.T) {
	m := cmap.New[int, string]()
	g := m.Guard()
	defer g.Release()

	v, err := m.TryInsert(37, "a", g)
	require.NoError(t, err)
	require.Equal(t, "a", v)

	_, err = m.TryInsert(37, "b", g)
	require.Error(t, err)

	var occ *cmap.OccupiedError[int, string]
	require.ErrorAs(t, err, &occ)
	assert.Equal(t, "a", occ.Current)
	assert.Equal(t, "b", occ.NotInserted)

	got, ok := m.Get(37, g)
	require.True(t, ok)
	require.Equal(t, "a", got)
}

// Scenario C (spec.md §8): concurrent inserts of disjoint key sets
// across goroutines, forcing multiple resizes, all land and are
// findable afterward.
func TestScenarioC_ResizeUnderContention(t *testing.T) {
	const goroutines = 8
	const perGoroutine = 10_000

	m := cmap.New[int, int]()

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for w := 0; w < goroutines; w++ {
		go func(base int) {
			defer wg.Done()
			g := m.Guard()
			defer g.Release()
			for i := 0; i < perGoroutine; i++ {
				m.Insert(base*perGoroutine+i, base, g)
			}
		}(w)
	}
	wg.Wait()

	require.Equal(t, goroutines*perGoroutine, m.Len())

	g := m.Guard()
	defer g.Release()
	for w := 0; w < goroutines; w++ {
		for i := 0; i < perGoroutine; i++ {
			v, ok := m.Get(w*perGoroutine+i, g)
			require.Truef(t, ok, "missing key from goroutine %d index %d", w, i)
			require.Equal(t, w, v)
		}
	}
}

// Scenario D (spec.md §8): concurrent Update calls on a single key
// compose atomically with no lost updates.
func TestScenarioD_UpdateAtomicity(t *testing.T) {
	const goroutines = 16
	const perGoroutine = 10_000

	m := cmap.New[string, int]()
	g0 := m.Guard()
	m.Insert("x", 0, g0)
	g0.Release()

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for w := 0; w < goroutines; w++ {
		go func() {
			defer wg.Done()
			g := m.Guard()
			defer g.Release()
			for i := 0; i < perGoroutine; i++ {
				m.Update("x", func(n int) int { return n + 1 }, g)
			}
		}()
	}
	wg.Wait()

	g := m.Guard()
	defer g.Release()
	v, ok := m.Get("x", g)
	require.True(t, ok)
	require.Equal(t, goroutines*perGoroutine, v)
}

// Scenario E (spec.md §8): a concurrent iteration against ongoing
// mutation still observes every key that was live for the iteration's
// entire window exactly once.
func TestScenarioE_IterationVsMutation(t *testing.T) {
	m := cmap.New[int, int]()
	setupG := m.Guard()
	for i := 0; i < 1024; i++ {
		m.Insert(i, i, setupG)
	}
	setupG.Release()

	// Keys that survive the whole run: the upper half.
	const survivorsFrom = 512

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		g := m.Guard()
		defer g.Release()
		for i := 0; i < survivorsFrom; i++ {
			m.Remove(i, g)
		}
		for i := 1024; i < 1024+512; i++ {
			m.Insert(i, i, g)
		}
	}()

	iterG := m.Guard()
	entries := m.Iter(iterG)
	iterG.Release()
	wg.Wait()

	seen := make(map[int]int)
	for _, kv := range entries {
		seen[kv.Key]++
	}
	for k, n := range seen {
		assert.Equalf(t, 1, n, "key %d observed %d times", k, n)
	}
	for i := survivorsFrom; i < 1024; i++ {
		assert.Containsf(t, seen, i, "survivor key %d missing from iteration", i)
	}
}

// Scenario F (spec.md §8): a value read while a Guard is held stays
// valid even after a concurrent remove, and reclamation is deferred
// until the Guard is released.
func TestScenarioF_Reclamation(t *testing.T) {
	m := cmap.New[int, string]()

	setupG := m.Guard()
	m.Insert(1, "held", setupG)
	setupG.Release()

	reader := m.Guard()

	val, ok := m.Get(1, reader)
	require.True(t, ok)
	require.Equal(t, "held", val)

	other := m.Guard()
	_, removed := m.Remove(1, other)
	require.True(t, removed)
	other.Release()

	// The reference obtained under reader's pin is still valid: the
	// value was a plain Go string, already copied out, so this simply
	// re-asserts it was never invalidated underfoot.
	require.Equal(t, "held", val)

	reader.Release()
}
