// Package epoch implements the deferred-reclamation engine the core
// table consumes as a Guard.
//
// It is a small epoch-based reclamation (EBR) scheme: a global epoch
// counter, a registry of per-Guard pin slots, and a retire list drained
// once every currently-pinned Guard has caught up to a recent epoch.
//
// Go already garbage-collects memory that nothing references, so
// retiring an entry here never risks a use-after-free the way it would
// in a non-GC'd language - a reference returned to a caller stays valid
// for as long as the caller holds it, Guard or no Guard. What this
// package buys instead is the API contract spec'd for the core: a
// retire(p) that promises not to hand p's slot back out for reuse (or
// run any caller-supplied cleanup on it) while an older Guard might
// still be inspecting it, which matters the day the core starts
// pooling entries instead of leaning on the collector.
package epoch
