package skiptree

import "errors"

// ErrOutOfRange is returned when a mutation targets a key outside a
// SubMap's bounds (4.12, 7: out-of-range).
var ErrOutOfRange = errors.New("skiptree: key outside sub-view bounds")

// ErrIllegalBounds is returned when a SubMap is constructed, or
// re-subviewed, with inconsistent or widening bounds (4.12, 7:
// illegal-bounds).
var ErrIllegalBounds = errors.New("skiptree: invalid sub-view bounds")
