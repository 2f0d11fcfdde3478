package testutil

import "fmt"

// OpKind enumerates the operation shapes RunBehavior can replay
// against both the Model and a real cmap.Map.
type OpKind uint8

const (
	OpInsert OpKind = iota
	OpTryInsert
	OpUpdate
	OpRemove
	OpGet
	OpLen
)

// Op is a single, self-contained operation: everything RunBehavior
// needs to apply it to both the model and the real map and compare the
// two results.
type Op struct {
	Kind  OpKind
	Key   string
	Value int

	// Delta is applied by Update's remap function: newValue = old + Delta.
	Delta int
}

func (o Op) String() string {
	switch o.Kind {
	case OpInsert:
		return fmt.Sprintf("Insert(%q, %d)", o.Key, o.Value)
	case OpTryInsert:
		return fmt.Sprintf("TryInsert(%q, %d)", o.Key, o.Value)
	case OpUpdate:
		return fmt.Sprintf("Update(%q, +%d)", o.Key, o.Delta)
	case OpRemove:
		return fmt.Sprintf("Remove(%q)", o.Key)
	case OpGet:
		return fmt.Sprintf("Get(%q)", o.Key)
	case OpLen:
		return "Len()"
	default:
		return "Op(?)"
	}
}

// remap turns Op's Delta field into the pure closure Model.Update and
// cmap.Map.Update both expect (spec §4.4: f: &V -> V, no side channel).
func (o Op) remap() func(old int) int {
	return func(old int) int {
		return old + o.Delta
	}
}

// Apply applies o to m and returns a comparable summary of the result.
func (o Op) Apply(m *Model) Result {
	switch o.Kind {
	case OpInsert:
		old, had := m.Insert(o.Key, o.Value)
		return Result{Found: had, Value: old}
	case OpTryInsert:
		cur, inserted := m.TryInsert(o.Key, o.Value)
		return Result{Found: !inserted, Value: cur}
	case OpUpdate:
		v, found := m.Update(o.Key, o.remap())
		return Result{Found: found, Value: v}
	case OpRemove:
		v, found := m.Remove(o.Key)
		return Result{Found: found, Value: v}
	case OpGet:
		v, found := m.Get(o.Key)
		return Result{Found: found, Value: v}
	case OpLen:
		return Result{Value: m.Len()}
	default:
		panic(fmt.Sprintf("testutil: unknown op kind %d", o.Kind))
	}
}

// Result is a comparable summary of applying an Op, used to diff the
// model's outcome against the real map's outcome for the same Op.
type Result struct {
	Found bool
	Value int
}
