package skiptree

import (
	"sync/atomic"

	"github.com/bits-and-blooms/bloom/v3"
)

// Map is a lock-free concurrent ordered map: every method is safe to call
// from any number of goroutines at once, without acquiring a mutex. See
// the package doc for the structural design (the "skip tree").
//
// The zero value is not usable. Construct one with New, NewFromUnordered,
// or NewFromSorted.
type Map[K, V any] struct {
	root     atomic.Pointer[headNode[K, V]]
	leafHead atomic.Pointer[node[K, V]]

	cmp           Comparator[K]
	valueProxy    V
	hasValueProxy bool
	avgNodeLength int

	gen      *levelGenerator
	metrics  *Metrics
	builders *builderPool[K, V]

	bloom         *bloom.BloomFilter
	bloomKeyBytes func(K) []byte
}

// New builds an empty Map. A comparator is required, either via
// WithComparator or WithNaturalOrder; New panics without one, the same way
// it would panic on any other unusable configuration (7, illegal-state).
func New[K, V any](opts ...Option[K, V]) *Map[K, V] {
	cfg := NewConfig[K, V]()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.comparator == nil {
		panic("skiptree: New requires a comparator; use WithComparator or WithNaturalOrder")
	}

	m := &Map[K, V]{
		cmp:           cfg.comparator,
		valueProxy:    cfg.valueProxy,
		hasValueProxy: cfg.hasValueProxy,
		avgNodeLength: cfg.avgNodeLength,
	}
	m.gen = newLevelGenerator(cfg.avgNodeLength)
	m.metrics = newMetrics(m.gen)
	m.builders = newBuilderPool[K, V]()
	if cfg.bloomEnabled {
		m.bloom = bloom.NewWithEstimates(cfg.bloomExpectedItems, cfg.bloomFalsePositive)
		m.bloomKeyBytes = cfg.bloomKeyBytes
	}

	leaf := newSentinelLeaf[K, V]()
	m.leafHead.Store(leaf)
	m.root.Store(&headNode[K, V]{top: leaf, height: 0})
	return m
}

// NewFromUnordered builds a Map by calling Put once per entry of source in
// Go's unspecified map iteration order ("initial contents: ...
// from-unordered-map" in the configuration section).
func NewFromUnordered[K comparable, V any](source map[K]V, opts ...Option[K, V]) *Map[K, V] {
	m := New[K, V](opts...)
	for k, v := range source {
		m.Put(k, v)
	}
	return m
}

// Get looks up key and reports whether it is present. If a Bloom filter
// is configured and it reports key as definitely absent, Get returns
// without touching the tree at all.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if m.bloom != nil && !m.bloom.Test(m.bloomKeyBytes(key)) {
		var zero V
		return zero, false
	}
	return m.doGet(realKey(key))
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// ContainsValue performs a linear scan of the map looking for a value
// equal to target under equal, exactly as the external interface promises
// (6): this is not a lookup by key, and it costs O(n).
func (m *Map[K, V]) ContainsValue(target V, equal func(a, b V) bool) bool {
	it := m.Iterator()
	for it.Next() {
		if equal(it.Value(), target) {
			return true
		}
	}
	return false
}

// Put inserts or overwrites key's value, returning the previous value (if
// any).
func (m *Map[K, V]) Put(key K, value V) (V, bool) {
	prev, existed := m.doPut(realKey(key), value, false)
	if !existed && m.bloom != nil {
		m.bloom.Add(m.bloomKeyBytes(key))
	}
	return prev, existed
}

// PutIfAbsent inserts key's value only if key is not already present. It
// returns the value currently stored for key, which is value itself if
// the insert happened.
func (m *Map[K, V]) PutIfAbsent(key K, value V) (V, bool) {
	prev, existed := m.doPut(realKey(key), value, true)
	if existed {
		return prev, true
	}
	if m.bloom != nil {
		m.bloom.Add(m.bloomKeyBytes(key))
	}
	return value, false
}

// Replace updates key's value only if key is already present, returning
// the value that was replaced.
func (m *Map[K, V]) Replace(key K, value V) (V, bool) {
	return m.doReplace(realKey(key), zeroValue[V](), false, value, nil)
}

// CompareAndSwap updates key's value to new only if its current value
// compares equal to old under equal, mirroring sync.Map's method of the
// same name and implementing the spec's replace(k, old, new).
func (m *Map[K, V]) CompareAndSwap(key K, old, new V, equal func(a, b V) bool) bool {
	_, ok := m.doReplace(realKey(key), old, true, new, equal)
	return ok
}

// Remove deletes key unconditionally, returning the value it held.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	return m.doRemove(realKey(key), zeroValue[V](), false, nil)
}

// CompareAndDelete deletes key only if its current value compares equal to
// old under equal, mirroring sync.Map's method of the same name.
func (m *Map[K, V]) CompareAndDelete(key K, old V, equal func(a, b V) bool) bool {
	_, ok := m.doRemove(realKey(key), old, true, equal)
	return ok
}

// Clear removes every entry. It is not atomic (Non-goals explicitly
// exclude a bulk atomic clear): concurrent inserts racing with Clear may
// survive it.
func (m *Map[K, V]) Clear() {
	for {
		if _, _, ok := m.pollFirstEntry(); !ok {
			return
		}
	}
}

// FirstKey returns the smallest key. It panics if the map is empty
// (no-such-element, 7): unlike FirstEntry, a Key-returning accessor has no
// zero value it could return instead that wouldn't be mistaken for a real
// key.
func (m *Map[K, V]) FirstKey() K {
	k, _, ok := m.findFirst()
	if !ok {
		panic("skiptree: FirstKey called on an empty map")
	}
	return k
}

// LastKey returns the largest key. It panics if the map is empty, for the
// same reason as FirstKey.
func (m *Map[K, V]) LastKey() K {
	k, _, ok := m.findLast()
	if !ok {
		panic("skiptree: LastKey called on an empty map")
	}
	return k
}

// FirstEntry returns the smallest key and its value, reporting false if
// the map is empty.
func (m *Map[K, V]) FirstEntry() (K, V, bool) {
	return m.findFirst()
}

// LastEntry returns the largest key and its value. It panics if the map
// is empty. This is a deliberate asymmetry with FirstEntry (9, open
// questions): findLast's empty-map branch is treated as the caller's
// responsibility to raise, rather than as an ordinary absent result.
func (m *Map[K, V]) LastEntry() (K, V) {
	k, v, ok := m.findLast()
	if !ok {
		panic("skiptree: LastEntry called on an empty map")
	}
	return k, v
}

// PollFirstEntry removes and returns the smallest key and its value.
func (m *Map[K, V]) PollFirstEntry() (K, V, bool) {
	return m.pollFirstEntry()
}

// PollLastEntry removes and returns the largest key and its value.
func (m *Map[K, V]) PollLastEntry() (K, V, bool) {
	return m.pollLastEntry()
}

// LowerKey returns the greatest key strictly less than key.
func (m *Map[K, V]) LowerKey(key K) (K, bool) {
	k, _, ok := m.lowerKey(realKey(key))
	return k, ok
}

// FloorKey returns the greatest key less than or equal to key.
func (m *Map[K, V]) FloorKey(key K) (K, bool) {
	k, _, ok := m.floorKey(realKey(key))
	return k, ok
}

// CeilingKey returns the smallest key greater than or equal to key.
func (m *Map[K, V]) CeilingKey(key K) (K, bool) {
	k, _, ok := m.ceilingKey(realKey(key))
	return k, ok
}

// HigherKey returns the smallest key strictly greater than key.
func (m *Map[K, V]) HigherKey(key K) (K, bool) {
	k, _, ok := m.higherKey(realKey(key))
	return k, ok
}

// LowerEntry, FloorEntry, CeilingEntry and HigherEntry are the
// value-returning counterparts of the Key variants above.

func (m *Map[K, V]) LowerEntry(key K) (K, V, bool) { return m.lowerKey(realKey(key)) }
func (m *Map[K, V]) FloorEntry(key K) (K, V, bool) { return m.floorKey(realKey(key)) }
func (m *Map[K, V]) CeilingEntry(key K) (K, V, bool) {
	return m.ceilingKey(realKey(key))
}
func (m *Map[K, V]) HigherEntry(key K) (K, V, bool) {
	return m.higherKey(realKey(key))
}

// Len reports the number of entries currently in the map. Per the external
// interface contract this is an O(n) scan, not a maintained counter: exact
// real-time size is an explicit non-goal of the structure.
func (m *Map[K, V]) Len() int {
	n := 0
	it := m.Iterator()
	for it.Next() {
		n++
	}
	return n
}

// IsEmpty reports whether the map currently has no entries.
func (m *Map[K, V]) IsEmpty() bool {
	_, _, ok := m.findFirst()
	return !ok
}

// Comparator returns the ordering used by this map.
func (m *Map[K, V]) Comparator() Comparator[K] {
	return m.cmp
}

// Metrics returns the map's internal churn counters (CAS retries, splits,
// cleaning steps). It is purely observational.
func (m *Map[K, V]) Metrics() *Metrics {
	return m.metrics
}
