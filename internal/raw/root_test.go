package raw

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epochmap/epochmap/internal/epoch"
)

func strHash(s string) uint64 {
	var h uint64 = 1469598103934665603
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

func TestRootBasicInsertGetRemove(t *testing.T) {
	c := epoch.New()
	r := NewRoot(4)
	g := c.Enter()
	defer g.Release()

	res := r.Insert(strHash("a"), "a", 1, true, g)
	require.Equal(t, InsertedEmpty, res.Kind)

	v, ok := r.Get(strHash("a"), "a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	res = r.Insert(strHash("a"), "a", 2, true, g)
	require.Equal(t, InsertReplaced, res.Kind)
	require.Equal(t, 1, res.OldValue)

	rr := r.Remove(strHash("a"), "a", g)
	require.True(t, rr.Found)
	require.Equal(t, 2, rr.Value)

	_, ok = r.Get(strHash("a"), "a")
	require.False(t, ok)
}

func TestRootTryInsertRejectsExisting(t *testing.T) {
	c := epoch.New()
	r := NewRoot(4)
	g := c.Enter()
	defer g.Release()

	res := r.Insert(strHash("k"), "k", "first", false, g)
	require.Equal(t, InsertedEmpty, res.Kind)

	res = r.Insert(strHash("k"), "k", "second", false, g)
	require.Equal(t, InsertRejected, res.Kind)
	require.Equal(t, "first", res.Value)
	require.Equal(t, "second", res.NotInserted)
}

func TestRootUpdateRemoveSemantics(t *testing.T) {
	c := epoch.New()
	r := NewRoot(4)
	g := c.Enter()
	defer g.Release()

	r.Insert(strHash("n"), "n", 10, true, g)

	res := r.Update(strHash("n"), "n", func(old any) any {
		return old.(int) + 5
	}, g)
	require.True(t, res.Found)
	require.Equal(t, 15, res.Value)
	require.Equal(t, 10, res.OldValue)

	v, ok := r.Get(strHash("n"), "n")
	require.True(t, ok)
	require.Equal(t, 15, v)

	rr := r.Remove(strHash("n"), "n", g)
	require.True(t, rr.Found)
	require.Equal(t, 15, rr.Value)

	_, ok = r.Get(strHash("n"), "n")
	require.False(t, ok)

	res = r.Update(strHash("missing"), "missing", func(old any) any {
		t.Fatal("remap must not be called for an absent key")
		return nil
	}, g)
	require.False(t, res.Found)
}

// TestRootGrowsAndMigratesUnderLoad forces a small initial table
// through several migrations by inserting enough distinct keys to
// repeatedly cross the load factor (spec §4.6 trigger (a)).
func TestRootGrowsAndMigratesUnderLoad(t *testing.T) {
	c := epoch.New()
	r := NewRoot(1)
	g := c.Enter()
	defer g.Release()

	const n = 5000
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("key-%d", i)
		res := r.Insert(strHash(key), key, i, true, g)
		require.Equal(t, InsertedEmpty, res.Kind)
	}

	require.Equal(t, int64(n), r.Len())

	for i := 0; i < n; i++ {
		key := fmt.Sprintf("key-%d", i)
		v, ok := r.Get(strHash(key), key)
		require.Truef(t, ok, "missing %s", key)
		require.Equal(t, i, v)
	}
}

func TestRootConcurrentInsertsDisjointKeys(t *testing.T) {
	c := epoch.New()
	r := NewRoot(1)

	const goroutines = 8
	const perGoroutine = 2000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for w := 0; w < goroutines; w++ {
		go func(base int) {
			defer wg.Done()
			g := c.Enter()
			defer g.Release()
			for i := 0; i < perGoroutine; i++ {
				key := fmt.Sprintf("g%d-%d", base, i)
				r.Insert(strHash(key), key, base, true, g)
			}
		}(w)
	}
	wg.Wait()

	require.Equal(t, int64(goroutines*perGoroutine), r.Len())

	g := c.Enter()
	defer g.Release()
	for w := 0; w < goroutines; w++ {
		for i := 0; i < perGoroutine; i++ {
			key := fmt.Sprintf("g%d-%d", w, i)
			v, ok := r.Get(strHash(key), key)
			require.True(t, ok)
			require.Equal(t, w, v)
		}
	}
}

func TestSnapshotReflectsLiveEntries(t *testing.T) {
	c := epoch.New()
	r := NewRoot(4)
	g := c.Enter()
	defer g.Release()

	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("s%d", i)
		r.Insert(strHash(key), key, i, true, g)
	}
	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("s%d", i)
		r.Remove(strHash(key), key, g)
	}

	snap := r.Snapshot(g)
	require.Len(t, snap, 50)

	seen := make(map[string]bool, len(snap))
	for _, e := range snap {
		seen[e.Key.(string)] = true
	}
	for i := 50; i < 100; i++ {
		require.Containsf(t, seen, fmt.Sprintf("s%d", i), "missing s%d", i)
	}
}
