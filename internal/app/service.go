// Package service composes the database, the ingestion pipeline and the
// query cache behind one lock: exclusive while a dataset loads, shared
// while queries run.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"

	"github.com/okian/scoutdb/internal/adapters/mq/queue"
	"github.com/okian/scoutdb/internal/adapters/mq/worker"
	"github.com/okian/scoutdb/internal/adapters/repository"
	"github.com/okian/scoutdb/internal/adapters/source"
	"github.com/okian/scoutdb/internal/domain/dedupe"
	"github.com/okian/scoutdb/internal/domain/model"
	"github.com/okian/scoutdb/internal/domain/query"
	"github.com/okian/scoutdb/internal/domain/scoring"
	"github.com/okian/scoutdb/internal/domain/types"
	"github.com/okian/scoutdb/pkg/logger"
	"github.com/okian/scoutdb/pkg/metrics"
)

// Query outcomes used in metrics.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

const (
	defaultQueueSize      = 4096
	defaultCacheSize      = 1024
	cacheCountersPerEntry = 10
	cacheBufferItems      = 64
)

// Stats summarizes the service state.
type Stats struct {
	Loaded       bool             `json:"loaded"`
	LoadDuration time.Duration    `json:"load_duration"`
	Applied      int              `json:"applied"`
	Skipped      int              `json:"skipped"`
	Dataset      repository.Stats `json:"dataset"`
}

// Service answers queries over one loaded dataset.
type Service struct {
	mu sync.RWMutex

	db    *repository.Database
	cache *ristretto.Cache[string, types.Result]

	queueSize      int
	cacheSize      int
	dedupeCapacity int
	dbOpts         []repository.Option
	bounds         scoring.Bounds
	strict         bool

	loaded       bool
	closed       bool
	loadDuration time.Duration
	ingest       worker.Stats

	logger logger.Logger
}

// New constructs a Service. It fails on invalid database options or when the
// cache cannot be created.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		queueSize:      defaultQueueSize,
		cacheSize:      defaultCacheSize,
		dedupeCapacity: repository.DefaultPlayerCapacity,
		bounds:         scoring.DefaultBounds(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if err := s.bounds.Validate(); err != nil {
		return nil, err
	}

	db, err := repository.NewDatabase(s.dbOpts...)
	if err != nil {
		return nil, fmt.Errorf("create database: %w", err)
	}
	s.db = db

	if s.cacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[string, types.Result]{
			NumCounters: int64(s.cacheSize) * cacheCountersPerEntry,
			MaxCost:     int64(s.cacheSize),
			BufferItems: cacheBufferItems,
		})
		if err != nil {
			return nil, fmt.Errorf("create query cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Load reads players, then ratings, then tags from src and builds the rank
// index. It runs once per Service.
func (s *Service) Load(ctx context.Context, src source.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.closed:
		return ErrClosed
	case s.loaded:
		return ErrAlreadyLoaded
	}

	start := time.Now()
	s.logger.Info(ctx, "loading dataset", logger.Bool("strict", s.strict))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	applier := worker.NewApplier(q, s.db,
		worker.WithName("ingest"),
		worker.WithLogger(s.logger),
		worker.WithStrict(s.strict),
		worker.WithBounds(s.bounds),
		worker.WithDeduper(dedupe.NewInMemoryDeduper(dedupe.WithCapacity(s.dedupeCapacity))),
	)

	produced := make(chan error, 1)
	go func() {
		err := produce(ctx, src, q)
		_ = q.Close()
		produced <- err
	}()

	applyErr := applier.Run(ctx)
	if applyErr != nil {
		cancel()
	}
	readErr := <-produced
	s.ingest = applier.Stats()

	if err := errors.Join(applyErr, ignoreCanceled(readErr, applyErr)); err != nil {
		s.logger.Error(ctx, "dataset load failed", logger.Error(err))
		s.reset()
		return fmt.Errorf("load dataset: %w", err)
	}

	if err := s.db.FinishInitialization(); err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	s.loaded = true
	s.loadDuration = time.Since(start)
	metrics.RecordIngestDuration(s.loadDuration.Seconds())

	st := s.db.Stats()
	s.logger.Info(ctx, "dataset loaded",
		logger.Duration("elapsed", s.loadDuration),
		logger.Int("applied", s.ingest.Applied),
		logger.Int("skipped", s.ingest.Skipped),
		logger.Int("players", st.Players),
		logger.Int("users", st.Users),
		logger.Int("tags", st.Tags),
		logger.Int("positions", st.Positions),
	)
	return nil
}

// reset drops a partially loaded database so Load can be retried.
func (s *Service) reset() {
	if db, err := repository.NewDatabase(s.dbOpts...); err == nil {
		s.db = db
	}
}

func produce(ctx context.Context, src source.Source, q queue.Queue) error {
	emit := func(r model.Record) error { return q.Enqueue(ctx, r) }
	for _, read := range []func(context.Context, source.Emit) error{src.Players, src.Ratings, src.Tags} {
		if err := read(ctx, emit); err != nil {
			return err
		}
	}
	return nil
}

// ignoreCanceled drops the reader's cancellation error when the applier's
// failure caused it.
func ignoreCanceled(readErr, applyErr error) error {
	if applyErr != nil && errors.Is(readErr, context.Canceled) {
		return nil
	}
	return readErr
}

// Query parses text and runs it.
func (s *Service) Query(ctx context.Context, text string) (types.Result, error) {
	q, err := query.Parse(text)
	if err != nil {
		metrics.RecordQuery("invalid", OutcomeError, 0)
		return types.Result{}, err
	}
	return s.Run(ctx, q)
}

// Run answers q from the cache or the database.
func (s *Service) Run(ctx context.Context, q query.Query) (types.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.Result{}, ErrClosed
	}
	if !s.loaded {
		return types.Result{}, ErrNotLoaded
	}

	key := q.String()
	log := s.logger.With(logger.String("query_id", uuid.NewString()), logger.String("query", key))
	start := time.Now()

	if s.cache != nil {
		if res, ok := s.cache.Get(key); ok {
			metrics.RecordCacheHit()
			s.observe(ctx, log, q, start, res, nil, true)
			return res, nil
		}
		metrics.RecordCacheMiss()
	}

	res, err := s.db.RunQuery(q)
	if err == nil && s.cache != nil {
		s.cache.Set(key, res, 1)
		s.cache.Wait()
	}
	s.observe(ctx, log, q, start, res, err, false)
	return res, err
}

func (s *Service) observe(ctx context.Context, log logger.Logger, q query.Query, start time.Time, res types.Result, err error, cached bool) { //nolint:gocritic // hugeParam: Result is read-only here
	elapsed := time.Since(start)
	outcome := OutcomeOK
	switch {
	case errors.Is(err, repository.ErrNotFound):
		outcome = OutcomeNotFound
	case err != nil:
		outcome = OutcomeError
	}
	metrics.RecordQuery(q.Kind.String(), outcome, float64(elapsed.Microseconds())/1000)
	if err != nil {
		log.Debug(ctx, "query failed", logger.Duration("elapsed", elapsed), logger.Error(err))
		return
	}
	metrics.RecordQueryResultSize(res.Len())
	log.Debug(ctx, "query answered",
		logger.Duration("elapsed", elapsed),
		logger.Int("results", res.Len()),
		logger.Bool("cached", cached),
	)
}

// Player returns one player by id.
func (s *Service) Player(id uint32) (model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return model.Player{}, ErrNotLoaded
	}
	return s.db.Player(id)
}

// GetStats returns service statistics.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		Loaded:       s.loaded,
		LoadDuration: s.loadDuration,
		Applied:      s.ingest.Applied,
		Skipped:      s.ingest.Skipped,
		Dataset:      s.db.Stats(),
	}
}

// Close releases the cache. Later calls return ErrClosed.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.cache != nil {
		s.cache.Close()
	}
	s.logger.Info(context.Background(), "service closed")
	return nil
}
