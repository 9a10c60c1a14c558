package hashtable

import "errors"

// Sentinel kinds for hash table errors.
var (
	// ErrInvariantViolation means an entry that was just inserted could not be
	// found again. It indicates a bug in the table, not a runtime condition.
	ErrInvariantViolation = errors.New("hashtable: invariant violation")
)
