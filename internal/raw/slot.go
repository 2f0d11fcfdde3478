package raw

import "sync/atomic"

// tag identifies which of the per-slot states (spec §3) a slot holds.
// Empty is represented by a nil *state rather than its own tag value,
// so a fresh slot costs nothing beyond a zeroed atomic.Pointer.
type tag uint8

const (
	tagEntry tag = iota + 1
	tagTombstone
	tagCopied
	tagCopyLocked
)

// state is the immutable value a slot's atomic pointer swaps between.
// Every transition table row in spec §3 becomes a single CAS on this
// pointer. Using an atomic.Pointer to a small immutable wrapper struct
// (instead of stealing tag bits out of a raw Entry pointer, as a
// non-GC'd implementation would) keeps every slot transition a normal,
// GC-safe pointer swap: the collector always sees a pointer to a real
// object, never a tagged integer masquerading as one.
type state struct {
	tag tag
	e   *entry // non-nil only for tagEntry and tagCopyLocked
}

// Shared immutable singletons for the two entry-less terminal states.
var (
	tombstoneState = &state{tag: tagTombstone}
	copiedState    = &state{tag: tagCopied}
)

func entryState(e *entry) *state      { return &state{tag: tagEntry, e: e} }
func copyLockedState(e *entry) *state { return &state{tag: tagCopyLocked, e: e} }

// slot is a single atomically-mutable cell holding Empty, Tombstone,
// Copied, or a published reference to an Entry (CopyLocked keeps that
// reference readable while a migrator owns the transplant).
type slot struct {
	v atomic.Pointer[state]
}

// load returns the slot's current raw state pointer; nil means Empty.
func (s *slot) load() *state {
	return s.v.Load()
}

// cas attempts the transition old -> new. old must be the exact
// pointer previously observed via load (nil for Empty).
func (s *slot) cas(old, new *state) bool {
	return s.v.CompareAndSwap(old, new)
}

func tagOf(st *state) tag {
	if st == nil {
		return 0 // Empty
	}
	return st.tag
}

func entryOf(st *state) *entry {
	if st == nil {
		return nil
	}
	return st.e
}

func isEmpty(st *state) bool       { return st == nil }
func isTombstone(st *state) bool   { return tagOf(st) == tagTombstone }
func isCopied(st *state) bool      { return tagOf(st) == tagCopied }
func isCopyLocked(st *state) bool  { return tagOf(st) == tagCopyLocked }
func isEntry(st *state) bool       { return tagOf(st) == tagEntry }
func isMigrating(st *state) bool   { return isCopied(st) || isCopyLocked(st) }
func isOccupiable(st *state) bool  { return isEmpty(st) || isTombstone(st) }
