// Package config defines process configuration and how it is loaded.
package config

import (
	"fmt"

	"github.com/okian/scoutdb/internal/adapters/repository"
	"github.com/okian/scoutdb/internal/adapters/source"
	"github.com/okian/scoutdb/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	LogJSON  bool   `koanf:"log_json"`

	// DataDir holds the three dataset files.
	DataDir     string `koanf:"data_dir"`
	PlayersFile string `koanf:"players_file"`
	RatingsFile string `koanf:"ratings_file"`
	TagsFile    string `koanf:"tags_file"`

	// QueueSize bounds the ingestion queue between reader and applier.
	QueueSize int `koanf:"queue_size"`

	// CacheSize is the number of query results kept; 0 disables the cache.
	CacheSize int `koanf:"cache_size"`

	PlayerCapacity   int `koanf:"player_capacity"`
	UserCapacity     int `koanf:"user_capacity"`
	TagCapacity      int `koanf:"tag_capacity"`
	PositionCapacity int `koanf:"position_capacity"`

	// PopularityThreshold is the rating count a player must exceed to be
	// ranked by position.
	PopularityThreshold int `koanf:"popularity_threshold"`

	// BTreeOrder of 0 derives the order from the default page size.
	BTreeOrder int `koanf:"btree_order"`

	RatingMin float64 `koanf:"rating_min"`
	RatingMax float64 `koanf:"rating_max"`

	// StrictIngest stops loading at the first bad record.
	StrictIngest bool `koanf:"strict_ingest"`

	// MaxResults caps how many players the terminal prints per query; 0 means
	// no cap.
	MaxResults int `koanf:"max_results"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		DataDir:             "data",
		PlayersFile:         source.DefaultPlayersFile,
		RatingsFile:         source.DefaultRatingsFile,
		TagsFile:            source.DefaultTagsFile,
		QueueSize:           4096,
		CacheSize:           1024,
		PlayerCapacity:      repository.DefaultPlayerCapacity,
		UserCapacity:        repository.DefaultUserCapacity,
		TagCapacity:         repository.DefaultTagCapacity,
		PositionCapacity:    repository.DefaultPositionCapacity,
		PopularityThreshold: repository.DefaultPopularityThreshold,
		RatingMin:           scoring.DefaultMin,
		RatingMax:           scoring.DefaultMax,
		MaxResults:          100,
	}
}

// Bounds returns the configured rating range.
func (c *Config) Bounds() scoring.Bounds {
	return scoring.Bounds{Min: c.RatingMin, Max: c.RatingMax}
}

// Validate reports the first unusable value.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache_size must not be negative, got %d", ErrInvalidConfig, c.CacheSize)
	}
	for name, v := range map[string]int{
		"player_capacity":   c.PlayerCapacity,
		"user_capacity":     c.UserCapacity,
		"tag_capacity":      c.TagCapacity,
		"position_capacity": c.PositionCapacity,
	} {
		if v < 1 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, name, v)
		}
	}
	if c.PopularityThreshold < 0 {
		return fmt.Errorf("%w: popularity_threshold must not be negative, got %d", ErrInvalidConfig, c.PopularityThreshold)
	}
	if c.BTreeOrder != 0 && c.BTreeOrder < 4 {
		return fmt.Errorf("%w: btree_order must be 0 or at least 4, got %d", ErrInvalidConfig, c.BTreeOrder)
	}
	if c.MaxResults < 0 {
		return fmt.Errorf("%w: max_results must not be negative, got %d", ErrInvalidConfig, c.MaxResults)
	}
	if err := c.Bounds().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
