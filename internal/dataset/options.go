package dataset

import "github.com/okian/scoutdb/pkg/logger"

// Default generator settings.
const (
	DefaultPlayers        = 2000
	DefaultUsers          = 5000
	DefaultRatingsPerUser = 20
	DefaultTags           = 4000
	DefaultHotPlayers     = 40
	DefaultHotRatings     = 1200
	DefaultSeed           = 1
)

// Option configures a Generator.
type Option func(*Generator)

// WithPlayers sets how many players are written.
func WithPlayers(n int) Option {
	return func(g *Generator) {
		g.players = n
	}
}

// WithUsers sets the size of the rating user pool.
func WithUsers(n int) Option {
	return func(g *Generator) {
		g.users = n
	}
}

// WithRatingsPerUser sets how many random players each user rates.
func WithRatingsPerUser(n int) Option {
	return func(g *Generator) {
		g.ratingsPerUser = n
	}
}

// WithTags sets how many tag rows are written.
func WithTags(n int) Option {
	return func(g *Generator) {
		g.tags = n
	}
}

// WithHotPlayers makes the first count players receive ratings extra ratings
// each, so they clear the ranking popularity threshold.
func WithHotPlayers(count, ratings int) Option {
	return func(g *Generator) {
		g.hotPlayers = count
		g.hotRatings = ratings
	}
}

// WithSeed fixes the random sequence; equal seeds write equal files.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithFiles overrides the output file names. Empty names keep the defaults.
func WithFiles(players, ratings, tags string) Option {
	return func(g *Generator) {
		if players != "" {
			g.playersFile = players
		}
		if ratings != "" {
			g.ratingsFile = ratings
		}
		if tags != "" {
			g.tagsFile = tags
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}
