package source

import "github.com/okian/scoutdb/pkg/logger"

// Default file names of the public dataset.
const (
	DefaultPlayersFile = "players.csv"
	DefaultRatingsFile = "rating.csv"
	DefaultTagsFile    = "tags.csv"
)

// Option applies a configuration option to the CSV source.
type Option func(*CSV)

// WithFiles overrides the file names inside the data directory. Empty names
// keep the defaults.
func WithFiles(players, ratings, tags string) Option {
	return func(c *CSV) {
		if players != "" {
			c.playersFile = players
		}
		if ratings != "" {
			c.ratingsFile = ratings
		}
		if tags != "" {
			c.tagsFile = tags
		}
	}
}

// WithSkipMalformed logs and skips rows that fail to parse instead of
// stopping the read.
func WithSkipMalformed(skip bool) Option {
	return func(c *CSV) {
		c.skipMalformed = skip
	}
}

// WithLogger sets a custom logger for the source.
func WithLogger(l logger.Logger) Option {
	return func(c *CSV) {
		if l != nil {
			c.logger = l
		}
	}
}
