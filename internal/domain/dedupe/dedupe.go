// Package dedupe tracks which record ids have already been ingested.
package dedupe

import (
	"sync"

	"github.com/okian/scoutdb/internal/domain/hashtable"
)

const defaultCapacity = 22807

// Deduper records seen ids so a repeated source row is dropped before it
// reaches the store.
type Deduper interface {
	// SeenAndRecord returns true if id was seen before, otherwise records it
	// and returns false.
	SeenAndRecord(id uint32) bool

	// Seen reports whether id was recorded, without recording it.
	Seen(id uint32) bool
	Record(id uint32)

	Size() int
}

type inMemoryDeduper struct {
	mu       sync.Mutex
	capacity int
	seen     *hashtable.HashTable[uint32, struct{}]
}

// NewInMemoryDeduper creates a deduper backed by the project hash table.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = hashtable.New[uint32, struct{}](d.capacity)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(id uint32) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.seen.Contains(id) {
		return true
	}
	d.seen.Insert(id, struct{}{})
	return false
}

func (d *inMemoryDeduper) Seen(id uint32) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seen.Contains(id)
}

func (d *inMemoryDeduper) Record(id uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.seen.Contains(id) {
		d.seen.Insert(id, struct{}{})
	}
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seen.Len()
}
