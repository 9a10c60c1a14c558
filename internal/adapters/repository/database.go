package repository

import (
	"fmt"
	"time"

	"github.com/okian/scoutdb/internal/domain/btree"
	"github.com/okian/scoutdb/internal/domain/model"
	"github.com/okian/scoutdb/internal/domain/query"
	"github.com/okian/scoutdb/internal/domain/types"
	"github.com/okian/scoutdb/pkg/metrics"
)

// Database composes the player and user stores.
type Database struct {
	players *PlayerStore
	users   *UserStore

	playerCapacity   int
	userCapacity     int
	tagCapacity      int
	positionCapacity int
	popularity       uint32
	btreeOrder       int

	initialized bool
}

// NewDatabase returns an empty database. It fails only when the tree order
// is invalid.
func NewDatabase(opts ...Option) (*Database, error) {
	d := &Database{
		playerCapacity:   DefaultPlayerCapacity,
		userCapacity:     DefaultUserCapacity,
		tagCapacity:      DefaultTagCapacity,
		positionCapacity: DefaultPositionCapacity,
		popularity:       DefaultPopularityThreshold,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.btreeOrder != 0 {
		if _, err := btree.New(btree.WithOrder(d.btreeOrder)); err != nil {
			return nil, err
		}
	}
	d.players = newPlayerStore(d)
	d.users = newUserStore(d.userCapacity)
	return d, nil
}

// InsertPlayer stores a player. Ids must be unique.
func (d *Database) InsertPlayer(p model.Player) error {
	return d.players.Insert(p)
}

// InsertRating applies r to the player aggregate and the user's history.
// The player is checked first so a dangling rating creates no user.
func (d *Database) InsertRating(r model.Rating) error {
	if err := d.players.AddRating(r.PlayerID, r.Score); err != nil {
		return err
	}
	return d.users.AddRating(r)
}

// InsertTag tags a known player.
func (d *Database) InsertTag(t model.Tag) error {
	return d.players.AddTag(t)
}

// FinishInitialization builds the per-position rank index.
func (d *Database) FinishInitialization() error {
	if d.initialized {
		return ErrAlreadyInitialized
	}
	start := time.Now()
	if err := d.players.BuildRankIndex(); err != nil {
		return fmt.Errorf("build rank index: %w", err)
	}
	d.initialized = true

	metrics.RecordRankIndexDuration(float64(time.Since(start).Milliseconds()))
	st := d.Stats()
	metrics.UpdateDatasetSize(st.Players, st.Users, st.Tags, st.Positions)
	return nil
}

// Initialized reports whether FinishInitialization has run.
func (d *Database) Initialized() bool { return d.initialized }

// RunQuery answers q. It never panics on unknown input.
func (d *Database) RunQuery(q query.Query) (types.Result, error) {
	switch q.Kind {
	case query.KindPlayer:
		if q.Name == "" {
			return types.Result{}, fmt.Errorf("%w: player name", ErrEmptyQuery)
		}
		found := d.players.SearchByName(q.Name)
		if len(found) == 1 {
			return types.SinglePlayer(found[0]), nil
		}
		return types.PlayerList(found), nil

	case query.KindUser:
		u, err := d.users.Get(q.UserID)
		if err != nil {
			return types.Result{}, err
		}
		return types.UserResult(u), nil

	case query.KindTop:
		found, err := d.players.Top(q.Limit, q.Position)
		if err != nil {
			return types.Result{}, err
		}
		return types.PlayerList(found), nil

	case query.KindTags:
		found, err := d.players.WithTags(q.Tags)
		if err != nil {
			return types.Result{}, err
		}
		return types.PlayerList(found), nil

	default:
		return types.Result{}, fmt.Errorf("%w: %d", ErrUnknownQuery, q.Kind)
	}
}

// Player returns one player by id.
func (d *Database) Player(id uint32) (model.Player, error) {
	return d.players.Get(id)
}

// User returns one user by id.
func (d *Database) User(id uint32) (model.User, error) {
	return d.users.Get(id)
}

// Stats returns current structure sizes.
func (d *Database) Stats() Stats {
	return Stats{
		Players:   d.players.Len(),
		Users:     d.users.Len(),
		Tags:      d.players.TagCount(),
		Positions: d.players.PositionCount(),
	}
}
