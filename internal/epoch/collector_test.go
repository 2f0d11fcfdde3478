package epoch_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epochmap/epochmap/internal/epoch"
)

func TestGuardPinsAgainstReclamation(t *testing.T) {
	c := epoch.New()

	g := c.Enter()
	defer g.Release()

	var reclaimed atomic.Bool
	g.Retire(func() { reclaimed.Store(true) })

	// A later Enter/Retire on another goroutine must not be able to
	// reclaim garbage while g is still pinned.
	for i := 0; i < advanceEveryForTest; i++ {
		other := c.Enter()
		other.Retire(func() {})
		other.Release()
	}

	require.False(t, reclaimed.Load(), "garbage reclaimed while an older Guard was still pinned")

	g.Release()
	c.Flush()

	require.True(t, reclaimed.Load(), "garbage not reclaimed after the pinning Guard released")
}

const advanceEveryForTest = 20

func TestGuardReleaseIdempotent(t *testing.T) {
	c := epoch.New()
	g := c.Enter()

	require.NotPanics(t, func() {
		g.Release()
		g.Release()
	})
}

func TestRefreshOnPinnedGuardDoesNotPanic(t *testing.T) {
	c := epoch.New()
	g := c.Enter()
	defer g.Release()

	require.NotPanics(t, func() {
		g.Refresh()
		g.Refresh()
	})
}

func TestConcurrentEnterRetireDoesNotRace(t *testing.T) {
	c := epoch.New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				g := c.Enter()
				g.Retire(func() {})
				g.Release()
			}
		}()
	}
	wg.Wait()
	c.Flush()

	require.Equal(t, 0, c.Pending())
}
