package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/epochmap/epochmap/pkg/cmap"
)

// RunSerial replays ops against both a fresh Model and a fresh
// cmap.Map[string, int], from a single goroutine, asserting that every
// individual op's result matches and that the final snapshot matches
// (spec.md §8 Scenario A: single-threaded correctness baseline).
func RunSerial(tb testing.TB, ops []Op) {
	tb.Helper()

	model := NewModel()
	real := cmap.New[string, int]()
	g := real.Guard()
	defer g.Release()

	for i, op := range ops {
		wantRes := op.Apply(model)
		gotRes := applyToReal(real, g, op)

		require.Equalf(tb, wantRes, gotRes, "op %d (%s): result mismatch", i, op)
	}

	CompareSnapshot(tb, model, real, g)
}

// applyToReal mirrors Op.Apply but against the real map.
func applyToReal(m *cmap.Map[string, int], g *cmap.Guard, op Op) Result {
	switch op.Kind {
	case OpInsert:
		old, had := m.Insert(op.Key, op.Value, g)
		return Result{Found: had, Value: old}
	case OpTryInsert:
		v, err := m.TryInsert(op.Key, op.Value, g)
		if err == nil {
			return Result{Found: false, Value: op.Value}
		}
		var occ *cmap.OccupiedError[string, int]
		if ok := asOccupied(err, &occ); ok {
			return Result{Found: true, Value: occ.Current}
		}
		return Result{Found: true, Value: v}
	case OpUpdate:
		v, found := m.Update(op.Key, op.remap(), g)
		return Result{Found: found, Value: v}
	case OpRemove:
		v, found := m.Remove(op.Key, g)
		return Result{Found: found, Value: v}
	case OpGet:
		v, found := m.Get(op.Key, g)
		return Result{Found: found, Value: v}
	case OpLen:
		return Result{Value: m.Len()}
	default:
		panic("testutil: unknown op kind")
	}
}

func asOccupied(err error, target **cmap.OccupiedError[string, int]) bool {
	occ, ok := err.(*cmap.OccupiedError[string, int])
	if !ok {
		return false
	}
	*target = occ
	return true
}

// CompareSnapshot asserts that model and real agree on every live
// (key, value) pair, ignoring order (spec.md §4.7 iteration has no
// defined order).
func CompareSnapshot(tb testing.TB, model *Model, real *cmap.Map[string, int], g *cmap.Guard) {
	tb.Helper()

	want := model.Snapshot()
	got := make(map[string]int, len(want))
	for _, kv := range real.Iter(g) {
		got[kv.Key] = kv.Value
	}

	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		tb.Fatalf("snapshot mismatch (-model +real):\n%s", diff)
	}
	require.Equal(tb, model.Len(), real.Len(), "Len() mismatch")
}
