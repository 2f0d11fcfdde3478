package cmap_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epochmap/epochmap/pkg/cmap"
)

func TestIterKeysValues(t *testing.T) {
	m := cmap.New[int, string]()
	g := m.Guard()
	defer g.Release()

	want := map[int]string{1: "a", 2: "b", 3: "c"}
	for k, v := range want {
		m.Insert(k, v, g)
	}

	keys := m.Keys(g)
	sort.Ints(keys)
	require.Equal(t, []int{1, 2, 3}, keys)

	values := m.Values(g)
	sort.Strings(values)
	require.Equal(t, []string{"a", "b", "c"}, values)

	got := make(map[int]string, len(want))
	for _, kv := range m.Iter(g) {
		got[kv.Key] = kv.Value
	}
	require.Equal(t, want, got)
}

func TestReserveAndClear(t *testing.T) {
	m := cmap.New[int, int]()
	g := m.Guard()
	defer g.Release()

	m.Reserve(10_000, g)
	for i := 0; i < 10_000; i++ {
		m.Insert(i, i, g)
	}
	require.Equal(t, 10_000, m.Len())

	m.Clear(g)
	require.Equal(t, 0, m.Len())
	require.True(t, m.IsEmpty())

	_, ok := m.Get(5, g)
	require.False(t, ok)
}
