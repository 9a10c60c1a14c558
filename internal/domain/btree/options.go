package btree

const (
	// DefaultPageSize is the memory budget of one node in bytes.
	DefaultPageSize = 2048

	nodeOverhead = 72 // slice headers of keys, values and children
	keySize      = 8
	valueSize    = 4

	minOrder = 4
)

type config struct {
	order int
}

// Option configures a BTree.
type Option func(*config)

// WithOrder sets the maximum number of children per node.
func WithOrder(order int) Option {
	return func(c *config) {
		c.order = order
	}
}

// WithPageSize derives the order from a per-node byte budget.
func WithPageSize(bytes int) Option {
	return func(c *config) {
		c.order = orderForPage(bytes)
	}
}

func orderForPage(bytes int) int {
	return (bytes - nodeOverhead) / (keySize + valueSize)
}
