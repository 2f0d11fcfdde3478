package epoch

import (
	"sync"
	"sync/atomic"
)

// unpinned is the sentinel epoch value for a pin slot that is not
// currently guarding the collector against reclamation.
const unpinned = 0

// advanceEvery amortizes the registry scan in tryAdvance: we only pay
// for it every few retires instead of on every single one.
const advanceEvery = 16

// Collector defers reclamation of retired values until no live Guard
// could still be inspecting them.
//
// A Collector is the concrete implementation of the "Guard contract"
// the core table consumes (spec §5): enter() returns a Guard tied to
// the current epoch; a value retire()d after a Guard began is not
// reclaimed while that Guard lives.
type Collector struct {
	epoch atomic.Uint64

	mu    sync.Mutex
	slots []*pinSlot

	garbageMu sync.Mutex
	garbage   []garbageItem
}

type pinSlot struct {
	epoch atomic.Uint64
}

type garbageItem struct {
	epoch   uint64
	cleanup func()
}

// New creates a Collector with its own independent epoch clock.
func New() *Collector {
	c := &Collector{}
	c.epoch.Store(1)
	return c
}

// Enter pins the calling goroutine against reclamation and returns a
// Guard tied to the current epoch. Enter is cheap: it reuses a free
// pin slot from the registry when one is available instead of growing
// the registry.
func (c *Collector) Enter() *Guard {
	s := c.acquireSlot()

	return &Guard{collector: c, slot: s}
}

// acquireSlot pins a free (or new) slot at the current epoch while
// holding mu, so two concurrent Enters never share a slot.
func (c *Collector) acquireSlot() *pinSlot {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.epoch.Load()
	for _, s := range c.slots {
		if s.epoch.Load() == unpinned {
			s.epoch.Store(e)
			return s
		}
	}

	s := &pinSlot{}
	s.epoch.Store(e)
	c.slots = append(c.slots, s)

	return s
}

func (c *Collector) release(s *pinSlot) {
	s.epoch.Store(unpinned)
}

// retire defers cleanup until every Guard live at (or after) the time
// of this call has been released. cleanup must not block; it should
// only drop references (or return a value to a pool) since it may run
// on an arbitrary caller's goroutine during a later Enter or Retire.
func (c *Collector) retire(cleanup func()) {
	e := c.epoch.Load()

	c.garbageMu.Lock()
	c.garbage = append(c.garbage, garbageItem{epoch: e, cleanup: cleanup})
	pending := len(c.garbage)
	c.garbageMu.Unlock()

	if pending%advanceEvery == 0 {
		c.tryAdvance()
	}
}

// tryAdvance bumps the epoch if every currently-pinned Guard has
// already caught up to the latest epoch, then reclaims garbage old
// enough that no pinned Guard could still be observing it.
func (c *Collector) tryAdvance() {
	current := c.epoch.Load()

	c.mu.Lock()
	minPinned := current
	allCaughtUp := true
	for _, s := range c.slots {
		e := s.epoch.Load()
		if e == unpinned {
			continue
		}
		if e < minPinned {
			minPinned = e
		}
		if e != current {
			allCaughtUp = false
		}
	}
	c.mu.Unlock()

	if allCaughtUp {
		c.epoch.CompareAndSwap(current, current+1)
	}

	c.reclaim(minPinned)
}

// reclaim runs cleanups for garbage retired at least two epochs before
// safeEpoch, the oldest epoch any currently-pinned Guard might still be
// observing. The two-epoch margin matches the contract's "retired
// after at least one Guard began" wording: a Guard pinned at safeEpoch
// may have begun before a retirement stamped at safeEpoch-1.
func (c *Collector) reclaim(safeEpoch uint64) {
	if safeEpoch < 2 {
		return
	}
	threshold := safeEpoch - 2

	c.garbageMu.Lock()
	kept := c.garbage[:0]
	var due []garbageItem
	for _, g := range c.garbage {
		if g.epoch <= threshold {
			due = append(due, g)
		} else {
			kept = append(kept, g)
		}
	}
	c.garbage = kept
	c.garbageMu.Unlock()

	for _, g := range due {
		g.cleanup()
	}
}

// Flush runs three advance-and-reclaim passes regardless of
// advanceEvery; with no Guard pinned, that reclaims every pending
// garbage item. Intended for tests and for callers that want to drain
// pending garbage deterministically.
func (c *Collector) Flush() {
	c.tryAdvance()
	c.tryAdvance()
	c.tryAdvance()
}

// Pending reports the number of garbage items not yet reclaimed.
// Approximate; intended for diagnostics and tests.
func (c *Collector) Pending() int {
	c.garbageMu.Lock()
	defer c.garbageMu.Unlock()

	return len(c.garbage)
}
