// Package trie provides a ternary search trie with exact and prefix lookup,
// and a multi-value wrapper used for name indexing.
//
// Each node holds one character. Siblings that share a prefix hang off the
// lower and higher links in character order, and next continues the word.
// A node carries a payload only where an inserted word ends.
package trie

// Entry is a stored word with its payload.
type Entry[V any] struct {
	Word  string
	Value V
}

type node[V any] struct {
	c             rune
	lower, higher *node[V]
	next          *node[V]

	terminal bool
	word     string // as last inserted, trimmed but not case folded
	value    V
}

// Trie is a ternary search trie keyed by case-insensitive words.
type Trie[V any] struct {
	root *node[V]
	size int
}

// New returns an empty trie.
func New[V any]() *Trie[V] {
	return &Trie[V]{}
}

// Insert stores v under word. Inserting an existing word overwrites its value.
func (t *Trie[V]) Insert(word string, v V) error {
	key := []rune(Normalize(word))
	if len(key) == 0 {
		return ErrEmptyKey
	}
	t.root = t.insert(t.root, key, 0, trimmed(word), v)
	return nil
}

func (t *Trie[V]) insert(n *node[V], key []rune, i int, word string, v V) *node[V] {
	c := key[i]
	if n == nil {
		n = &node[V]{c: c}
	}
	switch {
	case c < n.c:
		n.lower = t.insert(n.lower, key, i, word, v)
	case c > n.c:
		n.higher = t.insert(n.higher, key, i, word, v)
	case i < len(key)-1:
		n.next = t.insert(n.next, key, i+1, word, v)
	default:
		if !n.terminal {
			n.terminal = true
			t.size++
		}
		n.word = word
		n.value = v
	}
	return n
}

// lookup returns the node holding the last character of key.
func (t *Trie[V]) lookup(key []rune) *node[V] {
	n, i := t.root, 0
	for n != nil {
		c := key[i]
		switch {
		case c < n.c:
			n = n.lower
		case c > n.c:
			n = n.higher
		case i == len(key)-1:
			return n
		default:
			i++
			n = n.next
		}
	}
	return nil
}

// Get returns the value stored under exactly word.
func (t *Trie[V]) Get(word string) (V, bool) {
	var zero V
	key := []rune(Normalize(word))
	if len(key) == 0 {
		return zero, false
	}
	n := t.lookup(key)
	if n == nil || !n.terminal {
		return zero, false
	}
	return n.value, true
}

// FindFromPrefix returns every stored word that starts with prefix, the
// prefix itself included when it is a word. An empty prefix matches all.
func (t *Trie[V]) FindFromPrefix(prefix string) []Entry[V] {
	key := []rune(Normalize(prefix))
	if len(key) == 0 {
		return t.Words()
	}
	out := []Entry[V]{}
	n := t.lookup(key)
	if n == nil {
		return out
	}
	if n.terminal {
		out = append(out, Entry[V]{Word: n.word, Value: n.value})
	}
	collect(n.next, &out)
	return out
}

// Words returns every stored word. The order is deterministic for a given
// insertion history.
func (t *Trie[V]) Words() []Entry[V] {
	out := make([]Entry[V], 0, t.size)
	collect(t.root, &out)
	return out
}

// Len is the number of distinct stored words.
func (t *Trie[V]) Len() int { return t.size }

func collect[V any](n *node[V], out *[]Entry[V]) {
	if n == nil {
		return
	}
	collect(n.lower, out)
	if n.terminal {
		*out = append(*out, Entry[V]{Word: n.word, Value: n.value})
	}
	collect(n.next, out)
	collect(n.higher, out)
}
