// Package model contains domain models passed between layers.
package model

import (
	"slices"
	"strings"

	"github.com/okian/scoutdb/internal/domain/scoring"
)

// Player is one footballer with aggregated ratings and tags.
type Player struct {
	ID          uint32   `json:"id"`
	Name        string   `json:"name"`
	Positions   []string `json:"positions"`
	Rating      float64  `json:"rating"`
	RatingCount uint32   `json:"rating_count"`
	Tags        []string `json:"tags,omitempty"`
}

// AddRating folds score into the running mean.
func (p *Player) AddRating(score float64) {
	p.Rating = scoring.RunningMean(p.Rating, p.RatingCount, score)
	p.RatingCount++
}

// AddTag appends tag unless an equal tag, ignoring case, is already present.
// It reports whether the tag was added.
func (p *Player) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return false
		}
	}
	p.Tags = append(p.Tags, tag)
	return true
}

// Clone returns a copy that shares no slices with p.
func (p Player) Clone() Player {
	p.Positions = slices.Clone(p.Positions)
	p.Tags = slices.Clone(p.Tags)
	return p
}

// NormalizePosition returns the canonical form of a position code.
func NormalizePosition(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ParsePositions splits a comma separated list such as "ST, CF" into
// normalized, unique codes in their original order.
func ParsePositions(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		code := NormalizePosition(part)
		if code == "" || slices.Contains(out, code) {
			continue
		}
		out = append(out, code)
	}
	return out
}
