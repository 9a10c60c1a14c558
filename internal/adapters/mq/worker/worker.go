package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/scoutdb/internal/adapters/repository"
	"github.com/okian/scoutdb/internal/domain/dedupe"
	"github.com/okian/scoutdb/internal/domain/model"
	"github.com/okian/scoutdb/internal/domain/scoring"
	"github.com/okian/scoutdb/internal/domain/trie"
	"github.com/okian/scoutdb/pkg/logger"
	"github.com/okian/scoutdb/pkg/metrics"
)

// Skip reasons used in logs and metrics.
const (
	ReasonNotFound   = "not_found"
	ReasonOutOfRange = "out_of_range"
	ReasonDuplicate  = "duplicate"
	ReasonInvalid    = "invalid"
)

var (
	// ErrDuplicateRecord marks a player row whose id was already applied.
	ErrDuplicateRecord = errors.New("duplicate record")
	ErrUnknownRecord   = errors.New("unknown record kind")
)

// Store is the write side of the database.
type Store interface {
	InsertPlayer(p model.Player) error
	InsertRating(r model.Rating) error
	InsertTag(t model.Tag) error
}

// Queue defines how the applier receives records.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Record
}

// Stats counts what a run did.
type Stats struct {
	Applied int
	Skipped int
}

// Applier drains a queue into a Store.
type Applier struct {
	queue  Queue
	store  Store
	name   string
	strict bool
	bounds scoring.Bounds
	dedupe dedupe.Deduper

	stats  Stats
	logger logger.Logger
}

// NewApplier creates an applier with configuration options.
func NewApplier(q Queue, store Store, opts ...Option) *Applier {
	a := &Applier{
		queue:  q,
		store:  store,
		name:   "applier",
		bounds: scoring.DefaultBounds(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.dedupe == nil {
		a.dedupe = dedupe.NewInMemoryDeduper()
	}
	if a.logger == nil {
		a.logger = logger.Get().Named("worker")
	}
	a.logger = a.logger.Named(a.name)
	return a
}

// Run applies records until the queue is drained. It returns ctx.Err() on
// cancellation and, in strict mode, the first rejected record's error.
func (a *Applier) Run(ctx context.Context) error {
	records := a.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r, ok := <-records:
			if !ok {
				return nil
			}
			if err := a.Apply(ctx, r); err != nil {
				return err
			}
		}
	}
}

// Apply writes one record. Rejected records are skipped and counted unless
// the applier is strict; structural failures are always returned.
func (a *Applier) Apply(ctx context.Context, r model.Record) error { //nolint:gocritic // hugeParam: Record mirrors queue semantics
	err := a.apply(r)
	if err == nil {
		a.stats.Applied++
		metrics.RecordIngested(r.Kind.String())
		return nil
	}

	reason, skippable := classify(err)
	if !skippable || a.strict {
		return fmt.Errorf("%s line %d: %w", r.Source, r.Line, err)
	}
	a.stats.Skipped++
	metrics.RecordSkipped(r.Kind.String(), reason)
	a.logger.Warn(ctx, "record skipped",
		logger.String("kind", r.Kind.String()),
		logger.String("source", r.Source),
		logger.Int("line", r.Line),
		logger.String("reason", reason),
		logger.Error(err),
	)
	return nil
}

func (a *Applier) apply(r model.Record) error { //nolint:gocritic // hugeParam: Record mirrors queue semantics
	switch r.Kind {
	case model.RecordPlayer:
		if a.dedupe.Seen(r.Player.ID) {
			return fmt.Errorf("%w: player %d", ErrDuplicateRecord, r.Player.ID)
		}
		// A rejected row must not claim the id.
		if err := a.store.InsertPlayer(r.Player); err != nil {
			return err
		}
		a.dedupe.Record(r.Player.ID)
		return nil
	case model.RecordRating:
		if err := a.bounds.Check(r.Rating.Score); err != nil {
			return err
		}
		return a.store.InsertRating(r.Rating)
	case model.RecordTag:
		return a.store.InsertTag(r.Tag)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownRecord, r.Kind)
	}
}

// Stats returns the counts so far. Call it after Run returns.
func (a *Applier) Stats() Stats { return a.stats }

func classify(err error) (string, bool) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ReasonNotFound, true
	case errors.Is(err, scoring.ErrScoreOutOfRange):
		return ReasonOutOfRange, true
	case errors.Is(err, ErrDuplicateRecord), errors.Is(err, repository.ErrDuplicatePlayer):
		return ReasonDuplicate, true
	case errors.Is(err, repository.ErrEmptyTag), errors.Is(err, trie.ErrEmptyKey):
		return ReasonInvalid, true
	default:
		return "", false
	}
}
