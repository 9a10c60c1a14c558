package trie

import "errors"

// Sentinel kinds for trie errors.
var (
	ErrEmptyKey = errors.New("trie: key is empty after normalization")
)
