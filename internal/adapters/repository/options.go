package repository

// Bucket counts sized for the public FIFA dataset.
const (
	DefaultPlayerCapacity      = 22807
	DefaultUserCapacity        = 200001
	DefaultTagCapacity         = 438001
	DefaultPositionCapacity    = 101
	DefaultPopularityThreshold = 1000
)

// Option applies a configuration option to the Database.
type Option func(*Database)

// WithPlayerCapacity sets the bucket count of the player table.
func WithPlayerCapacity(n int) Option {
	return func(d *Database) {
		if n > 0 {
			d.playerCapacity = n
		}
	}
}

// WithUserCapacity sets the bucket count of the user table.
func WithUserCapacity(n int) Option {
	return func(d *Database) {
		if n > 0 {
			d.userCapacity = n
		}
	}
}

// WithTagCapacity sets the bucket count of the tag index.
func WithTagCapacity(n int) Option {
	return func(d *Database) {
		if n > 0 {
			d.tagCapacity = n
		}
	}
}

// WithPositionCapacity sets the bucket count of the position index.
func WithPositionCapacity(n int) Option {
	return func(d *Database) {
		if n > 0 {
			d.positionCapacity = n
		}
	}
}

// WithPopularityThreshold sets how many ratings a player needs, strictly
// more than, to be ranked by position.
func WithPopularityThreshold(n uint32) Option {
	return func(d *Database) {
		d.popularity = n
	}
}

// WithBTreeOrder sets the order of the per-position trees. Zero keeps the
// page derived default.
func WithBTreeOrder(order int) Option {
	return func(d *Database) {
		d.btreeOrder = order
	}
}
