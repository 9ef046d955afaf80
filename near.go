package skiptree

// findLastFrom returns the maximal real key reachable from start, using
// the same descend-then-fallback-scan strategy as findLast but rooted at
// an arbitrary subtree instead of the whole map. It underlies
// findPredecessor's fallback when a leaf has no in-node predecessor.
func (m *Map[K, V]) findLastFrom(start *node[K, V]) (K, V, bool) {
	n := start
	for {
		c := n.load()
		if c.isLeaf() {
			if c.searchableLength() > 0 {
				idx := c.searchableLength() - 1
				if m.hasValueProxy {
					return c.keys[idx].val, m.valueProxy, true
				}
				return c.keys[idx].val, c.values[idx], true
			}
			return m.findLastScanFrom(start)
		}
		if c.link != nil {
			n = c.link
			continue
		}
		if len(c.children) == 0 {
			return m.findLastScanFrom(start)
		}
		n = c.children[len(c.children)-1]
	}
}

// findLastScanFrom walks forward from an arbitrary leaf-level node,
// returning the last real key seen before the chain ends. It is only ever
// reached when the preferred descent in findLastFrom hit a transiently
// empty node.
func (m *Map[K, V]) findLastScanFrom(start *node[K, V]) (K, V, bool) {
	var lastKey orderedKey[K]
	var lastVal V
	found := false

	n := start
	for {
		c := n.load()
		if c.isLeaf() {
			for i := 0; i < c.searchableLength(); i++ {
				lastKey = c.keys[i]
				found = true
				if m.hasValueProxy {
					lastVal = m.valueProxy
				} else {
					lastVal = c.values[i]
				}
			}
		}
		if c.link == nil {
			break
		}
		n = c.link
	}

	if !found {
		var zk K
		var zv V
		return zk, zv, false
	}
	return lastKey.val, lastVal, true
}

// findPredecessor descends from the root tracking the closest left-sibling
// subtree seen so far, backtracking into it whenever the direct path turns
// out to have no in-node predecessor. This is a single-pass simplification
// of the stack-based descent in 4.9: because the candidate is always
// refined to a strictly nested, strictly closer subtree on the way down,
// the most recent candidate is always the tightest one, so there is never
// a need to pop back to an earlier one.
func (m *Map[K, V]) findPredecessor(key orderedKey[K]) (K, V, bool) {
	head := m.root.Load()
	n := head.top
	var predSubtree *node[K, V]

	for {
		c := n.load()
		if c.isLeaf() {
			idx := c.search(m.cmp, key)
			ii := insertionIndex(idx)
			if ii > 0 {
				pos := ii - 1
				if m.hasValueProxy {
					return c.keys[pos].val, m.valueProxy, true
				}
				return c.keys[pos].val, c.values[pos], true
			}
			if predSubtree != nil {
				return m.findLastFrom(predSubtree)
			}
			var zk K
			var zv V
			return zk, zv, false
		}

		idx := c.search(m.cmp, key)
		ii := insertionIndex(idx)
		if ii >= len(c.keys) {
			if len(c.children) > 0 {
				predSubtree = c.children[len(c.children)-1]
			}
			if c.link == nil {
				if predSubtree != nil {
					return m.findLastFrom(predSubtree)
				}
				var zk K
				var zv V
				return zk, zv, false
			}
			n = c.link
			continue
		}

		if ii > 0 {
			predSubtree = c.children[ii-1]
		}
		n = c.children[ii]
	}
}

// successorFrom returns the smallest real key at position >= idx within c
// (n's contents), following links past any nodes with nothing left at or
// after idx.
func (m *Map[K, V]) successorFrom(n *node[K, V], c *contents[K, V], idx int) (K, V, bool) {
	for {
		if idx < c.searchableLength() {
			if m.hasValueProxy {
				return c.keys[idx].val, m.valueProxy, true
			}
			return c.keys[idx].val, c.values[idx], true
		}
		if c.link == nil {
			var zk K
			var zv V
			return zk, zv, false
		}
		n = c.link
		c = n.load()
		idx = 0
	}
}

// lowerKey returns the greatest key strictly less than key.
func (m *Map[K, V]) lowerKey(key orderedKey[K]) (K, V, bool) {
	return m.findPredecessor(key)
}

// floorKey returns the greatest key less than or equal to key.
func (m *Map[K, V]) floorKey(key orderedKey[K]) (K, V, bool) {
	_, c, idx := m.traverseLeaf(key)
	if idx >= 0 {
		if m.hasValueProxy {
			return c.keys[idx].val, m.valueProxy, true
		}
		return c.keys[idx].val, c.values[idx], true
	}
	return m.findPredecessor(key)
}

// ceilingKey returns the smallest key greater than or equal to key.
func (m *Map[K, V]) ceilingKey(key orderedKey[K]) (K, V, bool) {
	n, c, idx := m.traverseLeaf(key)
	ii := insertionIndex(idx)
	return m.successorFrom(n, c, ii)
}

// higherKey returns the smallest key strictly greater than key.
func (m *Map[K, V]) higherKey(key orderedKey[K]) (K, V, bool) {
	n, c, idx := m.traverseLeaf(key)
	ii := insertionIndex(idx)
	if idx >= 0 {
		ii++
	}
	return m.successorFrom(n, c, ii)
}
