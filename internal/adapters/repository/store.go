// Package repository holds the player and user stores and the Database that
// composes them.
package repository

import (
	"github.com/okian/scoutdb/internal/domain/model"
	"github.com/okian/scoutdb/internal/domain/query"
	"github.com/okian/scoutdb/internal/domain/types"
)

// Stats is a size summary of the database.
type Stats struct {
	Players   int `json:"players"`
	Users     int `json:"users"`
	Tags      int `json:"tags"`
	Positions int `json:"positions"`
}

// Store is the ingest and query surface of the Database. It is not safe for
// concurrent use; callers serialize writers against readers.
type Store interface {
	InsertPlayer(p model.Player) error
	InsertRating(r model.Rating) error
	InsertTag(t model.Tag) error

	// FinishInitialization builds the rank index. It must run exactly once,
	// after every record is inserted.
	FinishInitialization() error
	Initialized() bool

	RunQuery(q query.Query) (types.Result, error)
	Player(id uint32) (model.Player, error)
	User(id uint32) (model.User, error)
	Stats() Stats
}

var _ Store = (*Database)(nil)
