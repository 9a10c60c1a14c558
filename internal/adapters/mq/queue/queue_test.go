package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/scoutdb/internal/domain/model"
)

func rec(line int) model.Record {
	return model.Record{Kind: model.RecordRating, Line: line, Rating: model.Rating{UserID: 1, PlayerID: uint32(line), Score: 3}}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if err := q.Enqueue(ctx, rec(1)); err != nil {
		t.Fatalf("expected enqueue to succeed: %v", err)
	}
	if l := q.Len(); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.Line != 1 {
		t.Errorf("expected line 1, got %d", got.Line)
	}
}

func TestInMemoryQueue_PreservesOrder(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(8))
	ctx := context.Background()

	go func() {
		for i := 1; i <= 100; i++ {
			if err := q.Enqueue(ctx, rec(i)); err != nil {
				t.Errorf("enqueue %d: %v", i, err)
				return
			}
		}
		_ = q.Close()
	}()

	want := 1
	for r := range q.Dequeue(ctx) {
		if r.Line != want {
			t.Fatalf("expected line %d, got %d", want, r.Line)
		}
		want++
	}
	if want != 101 {
		t.Errorf("expected 100 records, got %d", want-1)
	}
}

func TestInMemoryQueue_BlocksUntilCancelled(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	if err := q.Enqueue(context.Background(), rec(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, rec(2))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue()
	ctx := context.Background()
	if err := q.Enqueue(ctx, rec(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed")
	}
	if err := q.Enqueue(ctx, rec(2)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	count := 0
	for range q.Dequeue(ctx) {
		count++
	}
	if count != 1 {
		t.Errorf("queued record must still be delivered, got %d", count)
	}
}
