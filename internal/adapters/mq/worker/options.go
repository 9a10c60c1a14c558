// Package worker applies ingestion records to the database. One Applier is
// the only writer while a dataset loads.
package worker

import (
	"github.com/okian/scoutdb/internal/domain/dedupe"
	"github.com/okian/scoutdb/internal/domain/scoring"
	"github.com/okian/scoutdb/pkg/logger"
)

// Option applies a configuration option to the Applier.
type Option func(*Applier)

// WithName sets the applier name for identification and logging.
func WithName(name string) Option {
	return func(a *Applier) {
		if name != "" {
			a.name = name
		}
	}
}

// WithLogger sets a custom logger for the applier.
func WithLogger(l logger.Logger) Option {
	return func(a *Applier) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithStrict makes the first rejected record stop the run.
func WithStrict(strict bool) Option {
	return func(a *Applier) {
		a.strict = strict
	}
}

// WithBounds sets the accepted rating range.
func WithBounds(b scoring.Bounds) Option {
	return func(a *Applier) {
		a.bounds = b
	}
}

// WithDeduper sets the seen-set used to drop repeated player rows.
func WithDeduper(d dedupe.Deduper) Option {
	return func(a *Applier) {
		if d != nil {
			a.dedupe = d
		}
	}
}
