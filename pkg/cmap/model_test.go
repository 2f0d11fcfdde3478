package cmap_test

import (
	"fmt"
	"testing"

	"github.com/epochmap/epochmap/internal/testutil"
)

// TestModelCuratedSeeds replays the hand-picked edge-case sequences
// from internal/testutil against both the reference model and a real
// Map, asserting they agree at every step (spec.md §8 Testable
// Properties).
func TestModelCuratedSeeds(t *testing.T) {
	for name, ops := range testutil.CuratedSeeds {
		t.Run(name, func(t *testing.T) {
			testutil.RunSerial(t, ops)
		})
	}
}

// TestModelRandomSequences drives several independently-seeded random
// operation streams through RunSerial.
func TestModelRandomSequences(t *testing.T) {
	for seed := int64(0); seed < 8; seed++ {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			gen := testutil.NewOpGenerator(seed, 24)
			testutil.RunSerial(t, gen.Sequence(2000))
		})
	}
}
