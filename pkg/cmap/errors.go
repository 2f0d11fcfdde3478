package cmap

import (
	"errors"
	"fmt"
)

// ErrGuardMismatch indicates a [*Guard] obtained from one Map's
// reclamation Collector was passed to a different Map's operation.
// Implementations MUST classify this error using errors.Is.
var ErrGuardMismatch = errors.New("cmap: guard belongs to a different map")

// OccupiedError is returned by TryInsert when key is already present.
// It carries the value already stored and the candidate value that was
// rejected, so the caller can recover ownership of the latter (spec
// §4.3 step 3).
type OccupiedError[K comparable, V any] struct {
	Key         K
	Current     V
	NotInserted V
}

func (e *OccupiedError[K, V]) Error() string {
	return fmt.Sprintf("cmap: key %v already occupied", e.Key)
}
