package skiptree

import "sync/atomic"

// contents is an immutable snapshot of a node's keys and, depending on
// whether the node is a router or a leaf, either its child pointers or its
// values. A node never mutates a contents in place; every visible change to
// a node installs a brand new contents by compare-and-swap.
//
// keys is strictly ascending under the map's comparator; the final element
// may be the +Inf sentinel, and when it is, it appears exactly once and
// only at the rightmost node of the level (D1).
type contents[K, V any] struct {
	keys     []orderedKey[K]
	values   []V           // non-nil only at leaves, unless a value proxy is configured
	children []*node[K, V] // non-nil only at routers
	link     *node[K, V]
}

func (c *contents[K, V]) isLeaf() bool {
	return c.children == nil
}

func (c *contents[K, V]) length() int {
	return len(c.keys)
}

// lastIsInf reports whether this contents ends with the +Inf sentinel, i.e.
// whether this is the rightmost node of its level.
func (c *contents[K, V]) lastIsInf() bool {
	n := len(c.keys)
	return n > 0 && c.keys[n-1].isInf()
}

// searchableLength returns the number of keys eligible for in-node binary
// search, excluding a trailing +Inf sentinel (4.2).
func (c *contents[K, V]) searchableLength() int {
	if c.lastIsInf() {
		return len(c.keys) - 1
	}
	return len(c.keys)
}

// node is the mutable wrapper around a contents snapshot. It exposes
// exactly one atomic slot; that slot is the only thing ever mutated.
type node[K, V any] struct {
	v atomic.Pointer[contents[K, V]]
}

func newNode[K, V any](c *contents[K, V]) *node[K, V] {
	n := &node[K, V]{}
	n.v.Store(c)
	return n
}

func (n *node[K, V]) load() *contents[K, V] {
	return n.v.Load()
}

func (n *node[K, V]) casContents(expected, update *contents[K, V]) bool {
	return n.v.CompareAndSwap(expected, update)
}

// headNode identifies the current top of the tree: which node is the root
// and how tall the tree is above the leaf level. Growing the tree replaces
// the whole headNode by CAS (4.7); it is never mutated field-by-field.
type headNode[K, V any] struct {
	top    *node[K, V]
	height int
}

// newSentinelLeaf builds the single-node tree that represents an empty map:
// one leaf whose only key is +Inf.
func newSentinelLeaf[K, V any]() *node[K, V] {
	return newNode(&contents[K, V]{
		keys:   []orderedKey[K]{infiniteKey[K]()},
		values: make([]V, 1),
	})
}

// newSentinelRouter wraps child as the sole child of a new one-key +Inf
// router node; increaseRootHeight uses it to add a level above the root.
func newSentinelRouter[K, V any](child *node[K, V]) *node[K, V] {
	return newNode(&contents[K, V]{
		keys:     []orderedKey[K]{infiniteKey[K]()},
		children: []*node[K, V]{child},
	})
}
