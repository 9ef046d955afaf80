package skiptree

// rangeBound is one side of a SubMap's key range: either unset (open on
// that side) or a key with an inclusive/exclusive flag.
type rangeBound[K any] struct {
	key       orderedKey[K]
	set       bool
	inclusive bool
}

// SubMap is a bounded, optionally reversed view over a Map (4.11). It
// delegates every operation to the underlying Map, rejecting mutations
// that would land outside its bounds rather than maintaining any
// structure of its own.
type SubMap[K, V any] struct {
	m          *Map[K, V]
	lo, hi     rangeBound[K]
	descending bool
}

// SubMap returns a view restricted to keys between fromKey and toKey,
// with inclusivity controlled independently on each side. It returns
// ErrIllegalBounds if fromKey sorts after toKey.
func (m *Map[K, V]) SubMap(fromKey K, fromInclusive bool, toKey K, toInclusive bool) (*SubMap[K, V], error) {
	if m.cmp(fromKey, toKey) > 0 {
		return nil, ErrIllegalBounds
	}
	return &SubMap[K, V]{
		m:  m,
		lo: rangeBound[K]{key: realKey(fromKey), set: true, inclusive: fromInclusive},
		hi: rangeBound[K]{key: realKey(toKey), set: true, inclusive: toInclusive},
	}, nil
}

// HeadMap returns a view restricted to keys at or before toKey.
func (m *Map[K, V]) HeadMap(toKey K, inclusive bool) *SubMap[K, V] {
	return &SubMap[K, V]{m: m, hi: rangeBound[K]{key: realKey(toKey), set: true, inclusive: inclusive}}
}

// TailMap returns a view restricted to keys at or after fromKey.
func (m *Map[K, V]) TailMap(fromKey K, inclusive bool) *SubMap[K, V] {
	return &SubMap[K, V]{m: m, lo: rangeBound[K]{key: realKey(fromKey), set: true, inclusive: inclusive}}
}

// DescendingMap returns an unbounded view that iterates in reverse order.
func (m *Map[K, V]) DescendingMap() *SubMap[K, V] {
	return &SubMap[K, V]{m: m, descending: true}
}

func (s *SubMap[K, V]) contains(key orderedKey[K]) bool {
	cmp := s.m.cmp
	if s.lo.set {
		c := compareKeys(cmp, key, s.lo.key)
		if c < 0 || (c == 0 && !s.lo.inclusive) {
			return false
		}
	}
	if s.hi.set {
		c := compareKeys(cmp, key, s.hi.key)
		if c > 0 || (c == 0 && !s.hi.inclusive) {
			return false
		}
	}
	return true
}

// SubMap narrows this view further. Re-subviewing intersects the bounds
// rather than replacing them, and widening an already-bounded side
// returns ErrIllegalBounds (4.11: "rejects widening").
func (s *SubMap[K, V]) SubMap(fromKey K, fromInclusive bool, toKey K, toInclusive bool) (*SubMap[K, V], error) {
	if s.m.cmp(fromKey, toKey) > 0 {
		return nil, ErrIllegalBounds
	}
	lo := rangeBound[K]{key: realKey(fromKey), set: true, inclusive: fromInclusive}
	hi := rangeBound[K]{key: realKey(toKey), set: true, inclusive: toInclusive}
	if s.lo.set {
		if c := compareKeys(s.m.cmp, lo.key, s.lo.key); c < 0 || (c == 0 && lo.inclusive && !s.lo.inclusive) {
			return nil, ErrIllegalBounds
		}
	}
	if s.hi.set {
		if c := compareKeys(s.m.cmp, hi.key, s.hi.key); c > 0 || (c == 0 && hi.inclusive && !s.hi.inclusive) {
			return nil, ErrIllegalBounds
		}
	}
	return &SubMap[K, V]{m: s.m, lo: lo, hi: hi, descending: s.descending}, nil
}

// HeadMap narrows this view's upper bound.
func (s *SubMap[K, V]) HeadMap(toKey K, inclusive bool) (*SubMap[K, V], error) {
	hi := rangeBound[K]{key: realKey(toKey), set: true, inclusive: inclusive}
	if s.hi.set {
		if c := compareKeys(s.m.cmp, hi.key, s.hi.key); c > 0 || (c == 0 && hi.inclusive && !s.hi.inclusive) {
			return nil, ErrIllegalBounds
		}
	}
	return &SubMap[K, V]{m: s.m, lo: s.lo, hi: hi, descending: s.descending}, nil
}

// TailMap narrows this view's lower bound.
func (s *SubMap[K, V]) TailMap(fromKey K, inclusive bool) (*SubMap[K, V], error) {
	lo := rangeBound[K]{key: realKey(fromKey), set: true, inclusive: inclusive}
	if s.lo.set {
		if c := compareKeys(s.m.cmp, lo.key, s.lo.key); c < 0 || (c == 0 && lo.inclusive && !s.lo.inclusive) {
			return nil, ErrIllegalBounds
		}
	}
	return &SubMap[K, V]{m: s.m, lo: lo, hi: s.hi, descending: s.descending}, nil
}

// DescendingMap returns the same range, iterated in the opposite
// direction.
func (s *SubMap[K, V]) DescendingMap() *SubMap[K, V] {
	return &SubMap[K, V]{m: s.m, lo: s.lo, hi: s.hi, descending: !s.descending}
}

// Get looks up key, reporting absent for any key outside this view's
// bounds exactly as it would for a key that was never inserted.
func (s *SubMap[K, V]) Get(key K) (V, bool) {
	if !s.contains(realKey(key)) {
		var zero V
		return zero, false
	}
	return s.m.Get(key)
}

func (s *SubMap[K, V]) ContainsKey(key K) bool {
	_, ok := s.Get(key)
	return ok
}

// Put inserts key/value, failing with ErrOutOfRange if key falls outside
// this view's bounds (4.11, 4.12).
func (s *SubMap[K, V]) Put(key K, value V) (V, bool, error) {
	var zero V
	if !s.contains(realKey(key)) {
		return zero, false, ErrOutOfRange
	}
	prev, existed := s.m.Put(key, value)
	return prev, existed, nil
}

func (s *SubMap[K, V]) PutIfAbsent(key K, value V) (V, bool, error) {
	var zero V
	if !s.contains(realKey(key)) {
		return zero, false, ErrOutOfRange
	}
	prev, existed := s.m.PutIfAbsent(key, value)
	return prev, existed, nil
}

func (s *SubMap[K, V]) Replace(key K, value V) (V, bool, error) {
	var zero V
	if !s.contains(realKey(key)) {
		return zero, false, ErrOutOfRange
	}
	prev, ok := s.m.Replace(key, value)
	return prev, ok, nil
}

func (s *SubMap[K, V]) CompareAndSwap(key K, old, new V, equal func(a, b V) bool) (bool, error) {
	if !s.contains(realKey(key)) {
		return false, ErrOutOfRange
	}
	return s.m.CompareAndSwap(key, old, new, equal), nil
}

// Remove behaves like Get for out-of-bounds keys: it reports absent
// rather than failing, mirroring a navigable sub-map whose mutation
// restriction (4.11) is documented only for insertion.
func (s *SubMap[K, V]) Remove(key K) (V, bool) {
	if !s.contains(realKey(key)) {
		var zero V
		return zero, false
	}
	return s.m.Remove(key)
}

func (s *SubMap[K, V]) CompareAndDelete(key K, old V, equal func(a, b V) bool) bool {
	if !s.contains(realKey(key)) {
		return false
	}
	return s.m.CompareAndDelete(key, old, equal)
}

// FirstKey returns the smallest key within bounds. It panics if the view
// is currently empty, mirroring Map.FirstKey.
func (s *SubMap[K, V]) FirstKey() K {
	k, ok := s.firstKey()
	if !ok {
		panic("skiptree: FirstKey called on an empty sub-view")
	}
	return k
}

// LastKey returns the largest key within bounds. It panics if the view is
// currently empty.
func (s *SubMap[K, V]) LastKey() K {
	k, ok := s.lastKey()
	if !ok {
		panic("skiptree: LastKey called on an empty sub-view")
	}
	return k
}

func (s *SubMap[K, V]) FirstEntry() (K, V, bool) {
	it := s.Iterator()
	if !it.Next() {
		var zk K
		var zv V
		return zk, zv, false
	}
	return it.Key(), it.Value(), true
}

func (s *SubMap[K, V]) LastEntry() (K, V) {
	it := s.DescendingIterator()
	if !it.Next() {
		panic("skiptree: LastEntry called on an empty sub-view")
	}
	return it.Key(), it.Value()
}

func (s *SubMap[K, V]) firstKey() (K, bool) {
	it := s.Iterator()
	if !it.Next() {
		var zero K
		return zero, false
	}
	return it.Key(), true
}

func (s *SubMap[K, V]) lastKey() (K, bool) {
	it := s.DescendingIterator()
	if !it.Next() {
		var zero K
		return zero, false
	}
	return it.Key(), true
}

// Size walks the sub-range and counts it; like Map.Len it is O(k) in the
// size of the view, not a maintained counter (4.11).
func (s *SubMap[K, V]) Size() int {
	n := 0
	it := s.Iterator()
	for it.Next() {
		n++
	}
	return n
}

func (s *SubMap[K, V]) IsEmpty() bool {
	_, ok := s.firstKey()
	return !ok
}

// LowerKey, FloorKey, CeilingKey and HigherKey report the nearest key in
// the requested relation to key, clipped to this view's bounds.
func (s *SubMap[K, V]) LowerKey(key K) (K, bool) {
	return s.nearest(key, s.m.LowerEntry)
}

func (s *SubMap[K, V]) FloorKey(key K) (K, bool) {
	return s.nearest(key, s.m.FloorEntry)
}

func (s *SubMap[K, V]) CeilingKey(key K) (K, bool) {
	return s.nearest(key, s.m.CeilingEntry)
}

func (s *SubMap[K, V]) HigherKey(key K) (K, bool) {
	return s.nearest(key, s.m.HigherEntry)
}

func (s *SubMap[K, V]) nearest(key K, relation func(K) (K, V, bool)) (K, bool) {
	k, _, ok := relation(key)
	if !ok || !s.contains(realKey(k)) {
		var zero K
		return zero, false
	}
	return k, true
}

// SubMapIterator walks a SubMap in its configured direction, exactly like
// Iterator but clipped to the view's bounds.
type SubMapIterator[K, V any] struct {
	s       *SubMap[K, V]
	started bool
	valid   bool
	key     K
	value   V
}

// Iterator returns an iterator over this view in its configured
// direction.
func (s *SubMap[K, V]) Iterator() *SubMapIterator[K, V] {
	return &SubMapIterator[K, V]{s: s}
}

// DescendingIterator returns an iterator over this view in the reverse of
// its configured direction.
func (s *SubMap[K, V]) DescendingIterator() *SubMapIterator[K, V] {
	reversed := &SubMap[K, V]{m: s.m, lo: s.lo, hi: s.hi, descending: !s.descending}
	return &SubMapIterator[K, V]{s: reversed}
}

func (it *SubMapIterator[K, V]) Valid() bool { return it != nil && it.valid }
func (it *SubMapIterator[K, V]) Key() K      { return it.key }
func (it *SubMapIterator[K, V]) Value() V    { return it.value }

func (it *SubMapIterator[K, V]) Next() bool {
	var k K
	var v V
	var ok bool

	if !it.started {
		it.started = true
		s := it.s
		switch {
		case !s.descending && s.lo.set && s.lo.inclusive:
			k, v, ok = s.m.CeilingEntry(s.lo.key.val)
		case !s.descending && s.lo.set:
			k, v, ok = s.m.HigherEntry(s.lo.key.val)
		case !s.descending:
			k, v, ok = s.m.findFirst()
		case s.descending && s.hi.set && s.hi.inclusive:
			k, v, ok = s.m.FloorEntry(s.hi.key.val)
		case s.descending && s.hi.set:
			k, v, ok = s.m.LowerEntry(s.hi.key.val)
		default:
			k, v, ok = s.m.findLast()
		}
		return it.settle(k, v, ok)
	}

	if !it.s.descending {
		k, v, ok = it.s.m.HigherEntry(it.key)
	} else {
		k, v, ok = it.s.m.LowerEntry(it.key)
	}
	return it.settle(k, v, ok)
}

func (it *SubMapIterator[K, V]) settle(k K, v V, ok bool) bool {
	if !ok || !it.s.contains(realKey(k)) {
		it.valid = false
		return false
	}
	it.key, it.value, it.valid = k, v, true
	return true
}
