package skiptree

// bound represents an optional lower barrier carried during a descent: the
// last real key known to lie at or below everything reachable from here.
// The zero value means "no barrier yet" (equivalent to -infinity).
type bound[K any] struct {
	key orderedKey[K]
	set bool
}

func (b bound[K]) lessThan(cmp Comparator[K], k orderedKey[K]) bool {
	if !b.set {
		return true
	}
	return compareKeys(cmp, b.key, k) < 0
}

// levelResult records where a multi-level descent landed at one height:
// the node it stopped at, the contents it read, and the raw search() code
// (negative encodes "absent, would insert at -code-1").
type levelResult[K, V any] struct {
	n   *node[K, V]
	c   *contents[K, V]
	idx int
}

func (r levelResult[K, V]) present() bool { return r.idx >= 0 }
func (r levelResult[K, V]) insertAt() int { return insertionIndex(r.idx) }

// traverseLeaf descends from the current root to the leaf that does or
// would contain key, performing good-Samaritan link cleaning along the
// way (4.3). It returns the leaf node, the contents snapshot that was
// searched, and the raw search() code against that snapshot's keys.
func (m *Map[K, V]) traverseLeaf(key orderedKey[K]) (*node[K, V], *contents[K, V], int) {
	head := m.root.Load()
	n := head.top
	barrier := bound[K]{}

	for {
		c := n.load()
		if c.isLeaf() {
			sr := c.search(m.cmp, key)
			ii := insertionIndex(sr)
			if afterSearchHook != nil {
				afterSearchHook(ii, sr)
			}
			if ii < c.searchableLength() || c.lastIsInf() {
				return n, c, sr
			}
			// Past everything stored here and this isn't the rightmost
			// node of the level: the key belongs further right.
			if c.link == nil {
				return n, c, sr
			}
			if c.searchableLength() > 0 {
				barrier = bound[K]{key: c.keys[c.searchableLength()-1], set: true}
			}
			n = m.maybeCleanLink(n, c)
			continue
		}

		ii := insertionIndex(c.search(m.cmp, key))
		if ii < len(c.keys) {
			m.cleanRouter(n, c, ii, barrier)
			if ii > 0 {
				barrier = bound[K]{key: c.keys[ii-1], set: true}
			}
			n = c.children[ii]
			continue
		}
		if c.link == nil {
			n = c.children[len(c.children)-1]
			continue
		}
		if c.searchableLength() > 0 {
			barrier = bound[K]{key: c.keys[len(c.keys)-1], set: true}
		}
		n = m.maybeCleanLink(n, c)
	}
}

// traverseNonLeaf descends collecting a levelResult for every height from
// target down to 0, growing the root first if target exceeds the current
// height (4.3, 4.7).
func (m *Map[K, V]) traverseNonLeaf(key orderedKey[K], target int) []levelResult[K, V] {
	head := m.increaseRootHeight(target)
	results := make([]levelResult[K, V], target+1)

	n := head.top
	height := head.height
	barrier := bound[K]{}

	for {
		c := n.load()
		if c.isLeaf() {
			results[0] = levelResult[K, V]{n: n, c: c, idx: c.search(m.cmp, key)}
			return results
		}

		sr := c.search(m.cmp, key)
		ii := insertionIndex(sr)
		if ii >= len(c.keys) {
			if c.link == nil {
				ii = len(c.children) - 1
			} else {
				if c.searchableLength() > 0 {
					barrier = bound[K]{key: c.keys[len(c.keys)-1], set: true}
				}
				n = m.maybeCleanLink(n, c)
				continue
			}
		}

		if height <= target {
			results[height] = levelResult[K, V]{n: n, c: c, idx: sr}
		}
		m.cleanRouter(n, c, ii, barrier)
		if ii > 0 {
			barrier = bound[K]{key: c.keys[ii-1], set: true}
		}
		n = c.children[ii]
		height--
	}
}

// moveForward re-anchors after a failed CAS on n: follow link until the
// in-node search says this node could still contain or insertion-point the
// key (4.3).
func (m *Map[K, V]) moveForward(n *node[K, V], key orderedKey[K]) (*node[K, V], *contents[K, V]) {
	for {
		c := n.load()
		ii := insertionIndex(c.search(m.cmp, key))
		if ii < c.searchableLength() || c.lastIsInf() || c.link == nil {
			return n, c
		}
		n = c.link
	}
}
