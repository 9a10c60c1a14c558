// Package hashtable implements a fixed-capacity hash table whose buckets are
// small ordered lists of colliding pairs.
//
// Insert never looks for an existing equal key: inserting the same key twice
// stores two entries and lookups return the first one. Callers that need
// replace semantics use Upsert or GetOrInsertDefault.
//
// The table is not safe for concurrent mutation.
package hashtable

type entry[K Key, V any] struct {
	key   K
	value V
}

// HashTable maps keys to values through capacity bucket lists.
type HashTable[K Key, V any] struct {
	buckets [][]*entry[K, V]
	count   int
}

// New builds a table with capacity buckets. Capacity below one is raised to one.
func New[K Key, V any](capacity int) *HashTable[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &HashTable[K, V]{buckets: make([][]*entry[K, V], capacity)}
}

func (t *HashTable[K, V]) bucket(k K) int {
	return int(hashKey(k) % uint64(len(t.buckets)))
}

func (t *HashTable[K, V]) find(k K) *entry[K, V] {
	for _, e := range t.buckets[t.bucket(k)] {
		if e.key == k {
			return e
		}
	}
	return nil
}

// Insert appends (k, v) to its bucket without checking for an existing key.
func (t *HashTable[K, V]) Insert(k K, v V) {
	b := t.bucket(k)
	t.buckets[b] = append(t.buckets[b], &entry[K, V]{key: k, value: v})
	t.count++
}

// Upsert replaces the value of the first entry for k, or inserts one.
// It reports whether a new entry was created.
func (t *HashTable[K, V]) Upsert(k K, v V) bool {
	if e := t.find(k); e != nil {
		e.value = v
		return false
	}
	t.Insert(k, v)
	return true
}

// Get returns a copy of the first value stored under k.
func (t *HashTable[K, V]) Get(k K) (V, bool) {
	if e := t.find(k); e != nil {
		return e.value, true
	}
	var zero V
	return zero, false
}

// GetMut returns a pointer to the first value stored under k. The pointer
// stays valid for the lifetime of the table.
func (t *HashTable[K, V]) GetMut(k K) (*V, bool) {
	if e := t.find(k); e != nil {
		return &e.value, true
	}
	return nil, false
}

// GetOrInsertDefault returns the value stored under k, inserting the zero
// value first when k is absent.
func (t *HashTable[K, V]) GetOrInsertDefault(k K) (*V, error) {
	if v, ok := t.GetMut(k); ok {
		return v, nil
	}
	var zero V
	t.Insert(k, zero)
	v, ok := t.GetMut(k)
	if !ok {
		return nil, ErrInvariantViolation
	}
	return v, nil
}

// Contains reports whether any entry is stored under k.
func (t *HashTable[K, V]) Contains(k K) bool {
	return t.find(k) != nil
}

// ForEach visits entries in bucket order, then list order. Returning false
// from fn stops the walk.
func (t *HashTable[K, V]) ForEach(fn func(k K, v V) bool) {
	for _, b := range t.buckets {
		for _, e := range b {
			if !fn(e.key, e.value) {
				return
			}
		}
	}
}

// Len is the number of stored entries, duplicates included.
func (t *HashTable[K, V]) Len() int { return t.count }

// Capacity is the number of buckets.
func (t *HashTable[K, V]) Capacity() int { return len(t.buckets) }

// LoadFactor is Len divided by Capacity.
func (t *HashTable[K, V]) LoadFactor() float64 {
	return float64(t.count) / float64(len(t.buckets))
}
