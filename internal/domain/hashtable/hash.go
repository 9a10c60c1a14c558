package hashtable

// Key is the set of key types the table knows how to hash.
type Key interface {
	uint32 | string
}

const (
	stringBase   = 31
	uint32Factor = 2654435761 // Knuth's multiplicative constant
)

// HashString is a polynomial rolling hash over the runes of s.
// Collisions are expected and resolved by the bucket lists.
func HashString(s string) uint64 {
	var h uint64
	for _, r := range s {
		h = h*stringBase + uint64(r)
	}
	return h
}

// HashUint32 scrambles k with a single multiplication.
func HashUint32(k uint32) uint64 {
	return uint64(k) * uint32Factor
}

func hashKey[K Key](k K) uint64 {
	switch v := any(k).(type) {
	case uint32:
		return HashUint32(v)
	case string:
		return HashString(v)
	}
	panic("hashtable: unsupported key type")
}
