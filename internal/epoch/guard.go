package epoch

// Guard pins the Collector that produced it against reclamation for as
// long as the Guard is live. Guards are scope-bounded: acquire one
// with Collector.Enter and Release it when done.
//
// A Guard must not be shared across goroutines; each goroutine that
// needs to pin the collector should call Enter for its own Guard.
type Guard struct {
	collector *Collector
	slot      *pinSlot
	released  bool
}

// Retire schedules cleanup to run once no Guard live at the time of
// this call (or started after) could still be observing the retired
// value. It is the narrow capability the core table requires from a
// reclamation engine (spec §5 "Guard contract (consumed)").
func (g *Guard) Retire(cleanup func()) {
	g.collector.retire(cleanup)
}

// Refresh moves the Guard's pin forward to the collector's current
// epoch; garbage retired before that epoch is then no longer held back
// by this Guard. Refresh does nothing on a released Guard.
func (g *Guard) Refresh() {
	if g.released {
		return
	}
	g.slot.epoch.Store(g.collector.epoch.Load())
}

// Release unpins the Guard, letting the collector reclaim anything
// retired while it was live once other pinned Guards catch up.
// Release is idempotent.
func (g *Guard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.collector.release(g.slot)
}

// Collector returns the Collector that produced this Guard. Callers
// (pkg/cmap) use this to detect a Guard minted by a different
// Collector being used against this map - a misuse the spec (§7)
// classifies as a programming error.
func (g *Guard) Collector() *Collector {
	return g.collector
}
