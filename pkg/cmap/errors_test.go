package cmap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epochmap/epochmap/pkg/cmap"
)

func TestGuardFromAnotherMapPanics(t *testing.T) {
	a := cmap.New[int, int]()
	b := cmap.New[int, int]()
	bGuard := b.Guard()
	defer bGuard.Release()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic using a foreign guard")
		err, ok := r.(error)
		require.True(t, ok)
		require.True(t, errors.Is(err, cmap.ErrGuardMismatch))
	}()

	a.Get(1, bGuard)
}

func TestTryInsertWithForeignGuardPanics(t *testing.T) {
	a := cmap.New[int, int]()
	b := cmap.New[int, int]()
	bGuard := b.Guard()
	defer bGuard.Release()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic using a foreign guard")
		err, ok := r.(error)
		require.True(t, ok)
		require.True(t, errors.Is(err, cmap.ErrGuardMismatch))
	}()

	a.TryInsert(1, 1, bGuard)
}
