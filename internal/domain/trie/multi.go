package trie

import "slices"

// MultiTrie stores a deduplicated list of values per word.
type MultiTrie[T comparable] struct {
	trie *Trie[[]T]
}

// NewMulti returns an empty MultiTrie.
func NewMulti[T comparable]() *MultiTrie[T] {
	return &MultiTrie[T]{trie: New[[]T]()}
}

// Insert adds v to the list stored under key unless it is already there.
func (m *MultiTrie[T]) Insert(key string, v T) error {
	list, _ := m.trie.Get(key)
	if !slices.Contains(list, v) {
		list = append(list, v)
	}
	return m.trie.Insert(key, list)
}

// Get returns a copy of the list stored under exactly key.
func (m *MultiTrie[T]) Get(key string) ([]T, bool) {
	list, ok := m.trie.Get(key)
	return slices.Clone(list), ok
}

// Find returns the values of every word starting with prefix, grouped by
// word and kept in insertion order within each word.
func (m *MultiTrie[T]) Find(prefix string) []T {
	out := []T{}
	for _, e := range m.trie.FindFromPrefix(prefix) {
		out = append(out, e.Value...)
	}
	return out
}

// Len is the number of distinct keys.
func (m *MultiTrie[T]) Len() int { return m.trie.Len() }
