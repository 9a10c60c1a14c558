package dedupe

// Option applies a configuration option to the InMemoryDeduper.
type Option func(*inMemoryDeduper)

// WithCapacity sets the bucket count of the seen-set. Values below 1 keep
// the default.
func WithCapacity(capacity int) Option {
	return func(d *inMemoryDeduper) {
		if capacity > 0 {
			d.capacity = capacity
		}
	}
}
