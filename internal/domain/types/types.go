// Package types contains the query result shapes shared by the store and the
// presentation layers.
package types

import "github.com/okian/scoutdb/internal/domain/model"

// Kind tells which field of a Result is set.
type Kind uint8

const (
	KindSinglePlayer Kind = iota + 1
	KindPlayerList
	KindUser
)

func (k Kind) String() string {
	switch k {
	case KindSinglePlayer:
		return "single_player"
	case KindPlayerList:
		return "player_list"
	case KindUser:
		return "user"
	default:
		return "unknown"
	}
}

// Result is the answer to a query.
type Result struct {
	Kind    Kind           `json:"kind"`
	Player  *model.Player  `json:"player,omitempty"`
	Players []model.Player `json:"players,omitempty"`
	User    *model.User    `json:"user,omitempty"`
}

// SinglePlayer wraps one player.
func SinglePlayer(p model.Player) Result {
	return Result{Kind: KindSinglePlayer, Player: &p}
}

// PlayerList wraps zero or more players.
func PlayerList(ps []model.Player) Result {
	if ps == nil {
		ps = []model.Player{}
	}
	return Result{Kind: KindPlayerList, Players: ps}
}

// UserResult wraps a user.
func UserResult(u model.User) Result {
	return Result{Kind: KindUser, User: &u}
}

// Len is the number of players in the result, or ratings for a user.
func (r Result) Len() int {
	switch r.Kind {
	case KindSinglePlayer:
		return 1
	case KindPlayerList:
		return len(r.Players)
	case KindUser:
		return len(r.User.Ratings)
	default:
		return 0
	}
}

// MarshalText lets Kind render by name in JSON.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
