package skiptree

// NewFromSorted builds a Map directly from parallel, already-ascending
// keys/values slices, without going through the usual CAS-split insert
// path (6: "initial contents: ... from-sorted-map ... a streamlined bulk
// build that constructs leaves of exactly B entries plus routers as each
// B-multiple is reached"). Construction itself is single-threaded and
// only the finished tree is ever published, so no synchronization is
// needed while building it.
//
// keys must already be in strictly ascending order under the configured
// comparator; NewFromSorted does not re-sort or deduplicate.
func NewFromSorted[K, V any](keys []K, values []V, opts ...Option[K, V]) *Map[K, V] {
	m := New[K, V](opts...)
	if len(keys) == 0 {
		return m
	}

	b := m.avgNodeLength
	leaves := buildLeafLevel(m, keys, values, b)
	m.leafHead.Store(leaves[0])

	level := leaves
	height := 0
	for len(level) > 1 {
		height++
		level = buildRouterLevel(level, b)
	}
	m.root.Store(&headNode[K, V]{top: level[0], height: height})
	return m
}

func buildLeafLevel[K, V any](m *Map[K, V], keys []K, values []V, b int) []*node[K, V] {
	var leaves []*node[K, V]
	for i := 0; i < len(keys); i += b {
		end := i + b
		if end > len(keys) {
			end = len(keys)
		}
		chunkKeys := make([]orderedKey[K], end-i)
		for j := range chunkKeys {
			chunkKeys[j] = realKey(keys[i+j])
		}
		var chunkValues []V
		if !m.hasValueProxy {
			chunkValues = append([]V{}, values[i:end]...)
		}
		leaves = append(leaves, newNode(&contents[K, V]{keys: chunkKeys, values: chunkValues}))
	}

	last := leaves[len(leaves)-1]
	lc := last.load()
	sentKeys := append(append([]orderedKey[K]{}, lc.keys...), infiniteKey[K]())
	var sentValues []V
	if !m.hasValueProxy {
		sentValues = append(append([]V{}, lc.values...), zeroValue[V]())
	}
	last.v.Store(&contents[K, V]{keys: sentKeys, values: sentValues})

	for i := 0; i < len(leaves)-1; i++ {
		leaves[i].load().link = leaves[i+1]
	}
	return leaves
}

// buildRouterLevel groups children into routers of up to b entries each,
// with every router key taken from the last key of the child it routes
// to, matching the key a split cascade would have promoted for that
// child.
func buildRouterLevel[K, V any](children []*node[K, V], b int) []*node[K, V] {
	var routers []*node[K, V]
	for i := 0; i < len(children); i += b {
		end := i + b
		if end > len(children) {
			end = len(children)
		}
		chunk := children[i:end]
		keys := make([]orderedKey[K], len(chunk))
		for j, child := range chunk {
			cc := child.load()
			keys[j] = cc.keys[len(cc.keys)-1]
		}
		routers = append(routers, newNode(&contents[K, V]{
			keys:     keys,
			children: append([]*node[K, V]{}, chunk...),
		}))
	}
	for i := 0; i < len(routers)-1; i++ {
		routers[i].load().link = routers[i+1]
	}
	return routers
}
