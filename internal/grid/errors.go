package grid

import "errors"

// Failures reported by grid operations. Every failing operation leaves the
// grid unchanged; callers match with errors.Is.
var (
	ErrInvalidDimensions = errors.New("dimensions must be positive")
	ErrOutOfBounds       = errors.New("footprint out of bounds")
	ErrAmbiguousOverlap  = errors.New("footprint overlaps more than one item")
	ErrNoSpace           = errors.New("no free space for item")

	// Precondition violations: programmer errors, not user errors.
	ErrNilItem       = errors.New("nil item")
	ErrAlreadyPlaced = errors.New("item is already placed")
	ErrRotatePlaced  = errors.New("cannot rotate a placed item")
	ErrNotPlaced     = errors.New("item is not placed on this grid")
	ErrHeld          = errors.New("item is held by another grid's open batch")
)
