package service

import (
	"github.com/okian/scoutdb/internal/adapters/repository"
	"github.com/okian/scoutdb/internal/domain/scoring"
	"github.com/okian/scoutdb/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the capacity of the ingestion queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithCacheSize sets how many query results are cached. Zero disables the
// cache.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.cacheSize = size
		}
	}
}

// WithDedupeCapacity sets the bucket count of the player id seen-set.
func WithDedupeCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeCapacity = n
		}
	}
}

// WithDatabaseOptions passes options through to the database.
func WithDatabaseOptions(opts ...repository.Option) Option {
	return func(s *Service) {
		s.dbOpts = append(s.dbOpts, opts...)
	}
}

// WithBounds sets the accepted rating range.
func WithBounds(b scoring.Bounds) Option {
	return func(s *Service) {
		s.bounds = b
	}
}

// WithStrictIngest stops loading at the first bad record.
func WithStrictIngest(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
