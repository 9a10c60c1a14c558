package query

import "errors"

var (
	// ErrInvalidQuery wraps every parse failure.
	ErrInvalidQuery = errors.New("invalid query")
)
