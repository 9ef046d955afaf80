package skiptree

// doGet performs a router descent to the leaf that would hold key and
// reports whether it is present, returning its value (or the configured
// value proxy) when it is (4.4).
func (m *Map[K, V]) doGet(key orderedKey[K]) (V, bool) {
	_, c, idx := m.traverseLeaf(key)
	if idx < 0 {
		var zero V
		return zero, false
	}
	if m.hasValueProxy {
		return m.valueProxy, true
	}
	return c.values[idx], true
}

// doPut implements put/putIfAbsent (4.5): insert at the leaf, then cascade
// a split-and-route upward for as many levels as the sampled tower height
// calls for.
func (m *Map[K, V]) doPut(key orderedKey[K], value V, onlyIfAbsent bool) (V, bool) {
	level := m.gen.sample()

	if level == 0 {
		leaf, _, _ := m.traverseLeaf(key)
		return m.insertLeafLevel(leaf, key, value, onlyIfAbsent)
	}

	results := m.traverseNonLeaf(key, level)
	prev, existed := m.insertLeafLevel(results[0].n, key, value, onlyIfAbsent)
	if existed {
		return prev, existed
	}

	cur := results[0].n
	for i := 0; i < level; i++ {
		right := m.splitOneLevel(key, cur)
		if right == nil {
			break
		}
		m.insertOneLevel(key, results[i+1].n, right)
		cur = results[i+1].n
	}
	return prev, existed
}

// insertLeafLevel CAS-installs key/value into the leaf the caller already
// descended to, retrying with moveForward whenever the leaf moved on it
// (4.5). It returns the previous value and whether the key was already
// present.
func (m *Map[K, V]) insertLeafLevel(n *node[K, V], key orderedKey[K], value V, onlyIfAbsent bool) (V, bool) {
	var zero V
	n, c := m.moveForward(n, key)
	for {
		idx := c.search(m.cmp, key)
		if idx >= 0 {
			prev := zero
			if !m.hasValueProxy {
				prev = c.values[idx]
			} else {
				prev = m.valueProxy
			}
			if onlyIfAbsent {
				return prev, true
			}
			updated := &contents[K, V]{keys: c.keys, link: c.link}
			if !m.hasValueProxy {
				newValues := append([]V{}, c.values...)
				newValues[idx] = value
				updated.values = newValues
			}
			if n.casContents(c, updated) {
				m.metrics.incMutationCASSuccess()
				return prev, true
			}
			m.metrics.incMutationCASRetry()
			n, c = m.moveForward(n, key)
			continue
		}

		ii := insertionIndex(idx)
		nb := m.builders.get(len(c.keys) + 1)
		newKeys := nb.keys[:len(c.keys)+1]
		copy(newKeys, c.keys[:ii])
		newKeys[ii] = key
		copy(newKeys[ii+1:], c.keys[ii:])
		updated := &contents[K, V]{keys: newKeys, link: c.link}
		if !m.hasValueProxy {
			newValues := make([]V, len(c.values)+1)
			copy(newValues, c.values[:ii])
			newValues[ii] = value
			copy(newValues[ii+1:], c.values[ii:])
			updated.values = newValues
		}
		if n.casContents(c, updated) {
			m.metrics.incMutationCASSuccess()
			return zero, false
		}
		m.builders.put(nb)
		m.metrics.incMutationCASRetry()
		n, c = m.moveForward(n, key)
	}
}

// splitOneLevel attempts to split n at key, as described in 4.5: key must
// currently be present in n, n must hold at least two keys, and key must
// not be n's last element (there would be nothing to carry into a right
// sibling). On success it returns the newly allocated right sibling; on a
// precondition failure it returns nil and the upward split cascade stops.
func (m *Map[K, V]) splitOneLevel(key orderedKey[K], n *node[K, V]) *node[K, V] {
	for {
		c := n.load()
		idx := c.search(m.cmp, key)
		if idx < 0 || len(c.keys) < 2 || idx == len(c.keys)-1 {
			return nil
		}

		leftKeys := append([]orderedKey[K]{}, c.keys[:idx+1]...)
		rightKeys := append([]orderedKey[K]{}, c.keys[idx+1:]...)

		right := &contents[K, V]{keys: rightKeys, link: c.link}
		left := &contents[K, V]{keys: leftKeys}

		if c.isLeaf() {
			if !m.hasValueProxy {
				left.values = append([]V{}, c.values[:idx+1]...)
				right.values = append([]V{}, c.values[idx+1:]...)
			}
		} else {
			left.children = append([]*node[K, V]{}, c.children[:idx+1]...)
			right.children = append([]*node[K, V]{}, c.children[idx+1:]...)
		}

		rightNode := newNode(right)
		left.link = rightNode

		m.metrics.incSplitAttempt()
		if n.casContents(c, left) {
			m.metrics.incSplitSuccess()
			return rightNode
		}
		m.metrics.incMutationCASRetry()
	}
}

// insertOneLevel installs a new router key/child pair into n, the router
// one level above the split that produced right (4.5). If key is already
// routed here (another goroutine promoted it first) this is a no-op.
func (m *Map[K, V]) insertOneLevel(key orderedKey[K], n *node[K, V], right *node[K, V]) {
	n, c := m.moveForward(n, key)
	for {
		idx := c.search(m.cmp, key)
		if idx >= 0 {
			return
		}
		ii := insertionIndex(idx)

		nb := m.builders.get(len(c.keys) + 1)
		newKeys := nb.keys[:len(c.keys)+1]
		copy(newKeys, c.keys[:ii])
		newKeys[ii] = key
		copy(newKeys[ii+1:], c.keys[ii:])

		newChildren := make([]*node[K, V], len(c.children)+1)
		copy(newChildren, c.children[:ii+1])
		newChildren[ii+1] = right
		copy(newChildren[ii+2:], c.children[ii+1:])

		updated := &contents[K, V]{keys: newKeys, children: newChildren, link: c.link}
		if n.casContents(c, updated) {
			m.metrics.incMutationCASSuccess()
			return
		}
		m.builders.put(nb)
		m.metrics.incMutationCASRetry()
		n, c = m.moveForward(n, key)
	}
}

// doReplace implements replace(k,v) and replace(k,old,new) (4.5). When
// hasExpected is true the update is gated on the current value comparing
// equal to expected under valuesEqual.
func (m *Map[K, V]) doReplace(key orderedKey[K], expected V, hasExpected bool, newValue V, valuesEqual func(a, b V) bool) (V, bool) {
	var zero V
	n, c, idx := m.traverseLeaf(key)
	for {
		if idx < 0 {
			return zero, false
		}
		var cur V
		if !m.hasValueProxy {
			cur = c.values[idx]
		} else {
			cur = m.valueProxy
		}
		if hasExpected && !valuesEqual(cur, expected) {
			return zero, false
		}
		updated := &contents[K, V]{keys: c.keys, link: c.link}
		if !m.hasValueProxy {
			newValues := append([]V{}, c.values...)
			newValues[idx] = newValue
			updated.values = newValues
		}
		if n.casContents(c, updated) {
			m.metrics.incMutationCASSuccess()
			return cur, true
		}
		m.metrics.incMutationCASRetry()
		n, c = m.moveForward(n, key)
		idx = c.search(m.cmp, key)
	}
}

// doRemove implements remove(k) and remove(k,v) (4.5). It only touches the
// leaf; any router keys promoted from key at higher levels are left for
// online compaction to clean up, per the design notes on cleaning never
// being required for correctness.
func (m *Map[K, V]) doRemove(key orderedKey[K], expected V, hasExpected bool, valuesEqual func(a, b V) bool) (V, bool) {
	var zero V
	n, c, idx := m.traverseLeaf(key)
	for {
		if idx < 0 {
			return zero, false
		}
		var cur V
		if !m.hasValueProxy {
			cur = c.values[idx]
		} else {
			cur = m.valueProxy
		}
		if hasExpected && !valuesEqual(cur, expected) {
			return zero, false
		}

		newKeys := append(append([]orderedKey[K]{}, c.keys[:idx]...), c.keys[idx+1:]...)
		updated := &contents[K, V]{keys: newKeys, link: c.link}
		if !m.hasValueProxy {
			updated.values = append(append([]V{}, c.values[:idx]...), c.values[idx+1:]...)
		}
		if beforeInstallHook != nil {
			beforeInstallHook(0, c, updated)
		}
		if n.casContents(c, updated) {
			m.metrics.incMutationCASSuccess()
			return cur, true
		}
		m.metrics.incMutationCASRetry()
		n, c = m.moveForward(n, key)
		idx = c.search(m.cmp, key)
	}
}
