package model

import "slices"

// Rating is one score a user gave a player.
type Rating struct {
	UserID   uint32  `json:"user_id"`
	PlayerID uint32  `json:"player_id"`
	Score    float64 `json:"score"`
}

// Tag is free text attached to a player. UserID is zero when the source
// does not say who wrote it.
type Tag struct {
	UserID   uint32 `json:"user_id,omitempty"`
	PlayerID uint32 `json:"player_id"`
	Text     string `json:"text"`
}

// User is created on the first rating that references it.
type User struct {
	ID      uint32   `json:"id"`
	Ratings []Rating `json:"ratings"`
}

// Clone returns a copy that shares no slices with u.
func (u User) Clone() User {
	u.Ratings = slices.Clone(u.Ratings)
	return u
}
