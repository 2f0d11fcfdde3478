package cmap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epochmap/epochmap/pkg/cmap"
)

func TestEqualAndClone(t *testing.T) {
	a := cmap.New[string, int]()
	ga := a.Guard()
	defer ga.Release()
	a.Insert("x", 1, ga)
	a.Insert("y", 2, ga)

	b := a.Clone(ga)
	gb := b.Guard()
	defer gb.Release()

	require.True(t, a.Equal(b, ga, gb))

	b.Insert("z", 3, gb)
	require.False(t, a.Equal(b, ga, gb))
}

func TestStringRendersEntries(t *testing.T) {
	m := cmap.New[string, int]()
	g := m.Guard()
	defer g.Release()

	m.Insert("only", 1, g)
	require.Equal(t, "{only: 1}", m.String(g))
}

func TestPinnedHandleMirrorsMapOperations(t *testing.T) {
	m := cmap.New[int, string]()
	p := m.Pin()
	defer p.Release()

	p.Insert(1, "a")
	v, ok := p.Get(1)
	require.True(t, ok)
	require.Equal(t, "a", v)

	require.Equal(t, 1, p.Len())
	require.False(t, p.IsEmpty())

	v, ok = p.Remove(1)
	require.True(t, ok)
	require.Equal(t, "a", v)
	require.True(t, p.IsEmpty())
}
