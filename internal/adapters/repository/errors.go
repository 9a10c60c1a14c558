package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for store errors. Every not-found kind wraps ErrNotFound.
var (
	ErrNotFound           = errors.New("not found")
	ErrPlayerNotFound     = fmt.Errorf("player %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrPositionNotIndexed = fmt.Errorf("position not indexed: %w", ErrNotFound)
	ErrTagNotFound        = fmt.Errorf("tag %w", ErrNotFound)

	ErrDuplicatePlayer    = errors.New("duplicate player id")
	ErrEmptyTag           = errors.New("empty tag")
	ErrAlreadyInitialized = errors.New("database already initialized")
	ErrInvalidLimit       = errors.New("invalid top limit")
	ErrEmptyQuery         = errors.New("empty query")
	ErrUnknownQuery       = errors.New("unknown query kind")
)
