// Package btree implements an in-memory B-tree keyed by float64 with uint32
// values. It is used to rank player ids by mean rating.
//
// Duplicate keys are allowed. Equal keys go to the right of existing ones,
// and Find returns whichever match it reaches first.
package btree

import (
	"fmt"
	"slices"
)

// Item is one key/value pair.
type Item struct {
	Key   float64
	Value uint32
}

type node struct {
	keys     []float64
	values   []uint32
	children []*node // empty for leaves, otherwise len(keys)+1
}

func (n *node) leaf() bool { return len(n.children) == 0 }

// BTree is not safe for concurrent mutation.
type BTree struct {
	root    *node
	order   int
	maxKeys int
	midKeys int
	size    int
}

// New returns an empty tree. The default order is derived from DefaultPageSize.
func New(opts ...Option) (*BTree, error) {
	cfg := config{order: orderForPage(DefaultPageSize)}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.order < minOrder {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrder, cfg.order)
	}
	return &BTree{
		root:    &node{},
		order:   cfg.order,
		maxKeys: cfg.order - 1,
		midKeys: (cfg.order - 1) / 2,
	}, nil
}

// Order is the maximum number of children per node.
func (t *BTree) Order() int { return t.order }

// Len is the number of stored items.
func (t *BTree) Len() int { return t.size }

// Height counts levels; an empty or single-node tree has height 1.
func (t *BTree) Height() int {
	h := 1
	for n := t.root; !n.leaf(); n = n.children[0] {
		h++
	}
	return h
}

// Insert adds key/value. The tree only grows in height when the root splits.
func (t *BTree) Insert(key float64, value uint32) {
	if len(t.root.keys) == t.maxKeys {
		old := t.root
		t.root = &node{children: []*node{old}}
		t.splitChild(t.root, 0)
	}
	t.insertNonFull(t.root, key, value)
	t.size++
}

func (t *BTree) insertNonFull(n *node, key float64, value uint32) {
	i := len(n.keys)
	for i > 0 && key < n.keys[i-1] {
		i--
	}
	if n.leaf() {
		n.keys = slices.Insert(n.keys, i, key)
		n.values = slices.Insert(n.values, i, value)
		return
	}
	if len(n.children[i].keys) == t.maxKeys {
		t.splitChild(n, i)
		if key >= n.keys[i] {
			i++
		}
	}
	t.insertNonFull(n.children[i], key, value)
}

// splitChild moves the middle entry of the full child at i into parent and
// the upper half into a new right sibling at i+1.
func (t *BTree) splitChild(parent *node, i int) {
	child := parent.children[i]
	mid := t.midKeys

	right := &node{
		keys:   slices.Clone(child.keys[mid+1:]),
		values: slices.Clone(child.values[mid+1:]),
	}
	if !child.leaf() {
		right.children = slices.Clone(child.children[mid+1:])
		child.children = child.children[:mid+1]
	}
	midKey, midValue := child.keys[mid], child.values[mid]
	child.keys = child.keys[:mid]
	child.values = child.values[:mid]

	parent.keys = slices.Insert(parent.keys, i, midKey)
	parent.values = slices.Insert(parent.values, i, midValue)
	parent.children = slices.Insert(parent.children, i+1, right)
}

// Find returns a value stored under key.
func (t *BTree) Find(key float64) (uint32, bool) {
	n := t.root
	for {
		i := 0
		for i < len(n.keys) && key > n.keys[i] {
			i++
		}
		if i < len(n.keys) && key == n.keys[i] {
			return n.values[i], true
		}
		if n.leaf() {
			return 0, false
		}
		n = n.children[i]
	}
}

// GreatestN returns up to n values in descending key order.
func (t *BTree) GreatestN(n int) []uint32 {
	if n <= 0 {
		return []uint32{}
	}
	out := make([]uint32, 0, min(n, t.size))
	t.root.greatest(n, &out)
	return out
}

func (n *node) greatest(limit int, out *[]uint32) {
	if len(*out) >= limit {
		return
	}
	for i := len(n.keys) - 1; i >= 0; i-- {
		if !n.leaf() {
			n.children[i+1].greatest(limit, out)
		}
		if len(*out) >= limit {
			return
		}
		*out = append(*out, n.values[i])
	}
	if !n.leaf() && len(*out) < limit {
		n.children[0].greatest(limit, out)
	}
}

// All returns every item in ascending key order.
func (t *BTree) All() []Item {
	out := make([]Item, 0, t.size)
	t.root.walk(&out)
	return out
}

func (n *node) walk(out *[]Item) {
	for i := range n.keys {
		if !n.leaf() {
			n.children[i].walk(out)
		}
		*out = append(*out, Item{Key: n.keys[i], Value: n.values[i]})
	}
	if !n.leaf() {
		n.children[len(n.keys)].walk(out)
	}
}
