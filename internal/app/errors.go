package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotLoaded     = errors.New("dataset not loaded")
	ErrAlreadyLoaded = errors.New("dataset already loaded")
	ErrClosed        = errors.New("service closed")
)
