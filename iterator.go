package skiptree

// Iterator is a weakly consistent cursor over a Map's keys in ascending or
// descending order (4.10). It guarantees to return every key that was
// present for its entire lifetime; it may or may not return keys inserted
// or removed while it runs, and it never panics from concurrent
// modification. The zero value is not usable; obtain one from Map.Iterator
// or Map.DescendingIterator.
type Iterator[K, V any] struct {
	m          *Map[K, V]
	descending bool
	valid      bool
	key        orderedKey[K]
	value      V
}

// Iterator returns a new ascending iterator positioned before the first
// element.
func (m *Map[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{m: m}
}

// DescendingIterator returns a new descending iterator positioned after
// the last element.
func (m *Map[K, V]) DescendingIterator() *Iterator[K, V] {
	return &Iterator[K, V]{m: m, descending: true}
}

// Valid reports whether the iterator currently points at an element.
func (it *Iterator[K, V]) Valid() bool {
	return it != nil && it.valid
}

// Key returns the key at the iterator's current position; it is the key
// that was observed when the cursor moved onto it, even if the map has
// since changed. It should only be called when Valid reports true.
func (it *Iterator[K, V]) Key() K {
	if it == nil || !it.valid {
		var zero K
		return zero
	}
	return it.key.val
}

// Value returns the cached value at the iterator's current position. It
// should only be called when Valid reports true.
func (it *Iterator[K, V]) Value() V {
	if it == nil || !it.valid {
		var zero V
		return zero
	}
	return it.value
}

// Next advances the iterator and reports whether it now points at an
// element. The first call to Next positions the cursor at the first (or,
// for a descending iterator, last) element.
func (it *Iterator[K, V]) Next() bool {
	if it == nil || it.m == nil {
		return false
	}

	var (
		k  K
		v  V
		ok bool
	)
	switch {
	case !it.valid && !it.descending:
		k, v, ok = it.m.findFirst()
	case !it.valid && it.descending:
		k, v, ok = it.m.findLast()
	case it.descending:
		k, v, ok = it.m.lowerKey(it.key)
	default:
		k, v, ok = it.m.higherKey(it.key)
	}

	if !ok {
		it.invalidate()
		return false
	}
	it.key = realKey(k)
	it.value = v
	it.valid = true
	return true
}

// Remove deletes the key at the iterator's current position using the
// standard delete path; it does not require the snapshot that produced
// the cursor's current position to still be current (4.10). It panics if
// called before a successful Next, mirroring the illegal-state error kind
// in the error handling design.
func (it *Iterator[K, V]) Remove() (V, bool) {
	if it == nil || !it.valid {
		panic("skiptree: Iterator.Remove called without a prior successful Next")
	}
	return it.m.doRemove(it.key, zeroValue[V](), false, nil)
}

func (it *Iterator[K, V]) invalidate() {
	it.valid = false
	var zero orderedKey[K]
	var zeroV V
	it.key = zero
	it.value = zeroV
}
