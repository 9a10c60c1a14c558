package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrMissingColumn   = errors.New("missing column")
)
