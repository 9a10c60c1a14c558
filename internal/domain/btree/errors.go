package btree

import "errors"

var (
	// ErrInvalidOrder is returned when the configured order cannot keep both
	// halves of a split node non-empty.
	ErrInvalidOrder = errors.New("btree: order must be at least 4")
)
