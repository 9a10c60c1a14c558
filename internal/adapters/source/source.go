// Package source reads the player, rating and tag datasets and hands each
// row to the ingestion pipeline as a model.Record.
package source

import (
	"context"

	"github.com/okian/scoutdb/internal/domain/model"
)

// Emit receives one record. Returning an error stops the read.
type Emit func(r model.Record) error

// Source streams the three datasets. The loader reads them in this order:
// players, ratings, tags.
type Source interface {
	Players(ctx context.Context, emit Emit) error
	Ratings(ctx context.Context, emit Emit) error
	Tags(ctx context.Context, emit Emit) error
}

// Memory is a Source over in-memory slices.
type Memory struct {
	PlayerRows []model.Player
	RatingRows []model.Rating
	TagRows    []model.Tag
}

var _ Source = (*Memory)(nil)

// Players emits PlayerRows in order.
func (m *Memory) Players(ctx context.Context, emit Emit) error {
	for i, p := range m.PlayerRows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(model.Record{Kind: model.RecordPlayer, Source: "memory", Line: i + 1, Player: p}); err != nil {
			return err
		}
	}
	return nil
}

// Ratings emits RatingRows in order.
func (m *Memory) Ratings(ctx context.Context, emit Emit) error {
	for i, r := range m.RatingRows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(model.Record{Kind: model.RecordRating, Source: "memory", Line: i + 1, Rating: r}); err != nil {
			return err
		}
	}
	return nil
}

// Tags emits TagRows in order.
func (m *Memory) Tags(ctx context.Context, emit Emit) error {
	for i, t := range m.TagRows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(model.Record{Kind: model.RecordTag, Source: "memory", Line: i + 1, Tag: t}); err != nil {
			return err
		}
	}
	return nil
}
