package skiptree

// findFirst anchors at leafHead, advancing it past leaves that have become
// empty, and reports the first key unless the map is empty (the first
// surviving key is the +Inf sentinel) (4.8).
func (m *Map[K, V]) findFirst() (K, V, bool) {
	for {
		head := m.leafHead.Load()
		c := head.load()
		if c.empty() {
			if c.link == nil {
				var zk K
				var zv V
				return zk, zv, false
			}
			m.leafHead.CompareAndSwap(head, c.link)
			continue
		}
		if c.keys[0].isInf() {
			var zk K
			var zv V
			return zk, zv, false
		}
		if m.hasValueProxy {
			return c.keys[0].val, m.valueProxy, true
		}
		return c.keys[0].val, c.values[0], true
	}
}

// findLast descends always preferring link over the rightmost child, which
// lands on the rightmost leaf in the common case. If that leaf turns out
// to hold no real keys (a transient state while a concurrent remove or
// split is in flight), it falls back to a full forward scan of the leaf
// level starting at leafHead, exactly as the last-resort path described in
// 4.8.
func (m *Map[K, V]) findLast() (K, V, bool) {
	n := m.root.Load().top
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
			return m.findLastScanFrom(m.leafHead.Load())
		}
		if c.link != nil {
			n = c.link
			continue
		}
		if len(c.children) == 0 {
			return m.findLastScanFrom(m.leafHead.Load())
		}
		n = c.children[len(c.children)-1]
	}
}

// pollFirstEntry finds, then removes, the smallest key, retrying if it was
// removed by somebody else in between (4.8).
func (m *Map[K, V]) pollFirstEntry() (K, V, bool) {
	for {
		k, _, ok := m.findFirst()
		if !ok {
			var zk K
			var zv V
			return zk, zv, false
		}
		if val, removed := m.doRemove(realKey(k), zeroValue[V](), false, nil); removed {
			return k, val, true
		}
	}
}

// pollLastEntry finds, then removes, the largest key, retrying if it was
// removed by somebody else in between (4.8).
func (m *Map[K, V]) pollLastEntry() (K, V, bool) {
	for {
		k, _, ok := m.findLast()
		if !ok {
			var zk K
			var zv V
			return zk, zv, false
		}
		if val, removed := m.doRemove(realKey(k), zeroValue[V](), false, nil); removed {
			return k, val, true
		}
	}
}

func zeroValue[V any]() V {
	var zero V
	return zero
}
