package hash_test

import (
	"hash/maphash"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epochmap/epochmap/internal/hash"
)

func TestHasherIsDeterministicForASingleSeed(t *testing.T) {
	h := hash.NewSeeded[string](maphash.MakeSeed())
	require.Equal(t, h.Hash("abc"), h.Hash("abc"))
}

func TestHasherDiffersAcrossSeeds(t *testing.T) {
	a := hash.NewSeeded[string](maphash.MakeSeed())
	b := hash.NewSeeded[string](maphash.MakeSeed())

	// Not guaranteed to differ, but overwhelmingly likely to across a
	// handful of distinct keys; used only to sanity-check seeding is wired,
	// not to prove independence.
	diffFound := false
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		if a.Hash(k) != b.Hash(k) {
			diffFound = true
			break
		}
	}
	require.True(t, diffFound, "two independently seeded hashers produced identical hashes for every sample key")
}

func TestNewFromOptionHonorsWithSeed(t *testing.T) {
	seed := maphash.MakeSeed()
	h1 := hash.NewFromOption[int](hash.WithSeed(seed))
	h2 := hash.NewFromOption[int](hash.WithSeed(seed))
	require.Equal(t, h1.Hash(42), h2.Hash(42))
}
