// Package queue carries ingestion records from a source reader to the
// single writer that applies them, in order.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/scoutdb/internal/domain/model"
	"github.com/okian/scoutdb/pkg/metrics"
)

const defaultCapacity = 4096

// Queue is a FIFO of records with blocking enqueue.
type Queue interface {
	// Enqueue blocks until there is room, ctx is done or the queue is closed.
	Enqueue(ctx context.Context, r model.Record) error

	// Dequeue returns a channel that yields records in enqueue order and is
	// closed once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan model.Record

	Len() int

	// Close stops accepting records. The producer calls it after its last
	// Enqueue.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue over a buffered channel.
type InMemoryQueue struct {
	records  chan model.Record
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.records = make(chan model.Record, q.capacity)
	metrics.UpdateQueueDepth(0)
	return q
}

// Enqueue adds a record to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r model.Record) error { //nolint:gocritic // hugeParam: Record is passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrClosed
	}
	select {
	case q.records <- r:
		metrics.UpdateQueueDepth(len(q.records))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("enqueue %s line %d: %w", r.Kind, r.Line, ctx.Err())
	}
}

// Dequeue returns a channel that will receive records as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan model.Record {
	out := make(chan model.Record)
	go func() {
		defer close(out)
		for r := range q.records {
			select {
			case out <- r:
				metrics.UpdateQueueDepth(len(q.records))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the number of waiting records.
func (q *InMemoryQueue) Len() int {
	return len(q.records)
}

// Close gracefully shuts down the queue. Records already queued are still
// delivered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.records)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
