package dataset

import "errors"

// ErrInvalidConfig is returned when generator settings cannot produce a
// dataset.
var ErrInvalidConfig = errors.New("invalid dataset config")
