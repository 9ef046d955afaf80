package skiptree

// KeySet, Values and EntrySet are mechanical projections over a Map's
// iterator (1: "external collaborators... mechanical projections over
// the core"). They hold no state of their own beyond a reference back to
// the map.

// KeySet is a thin view exposing only the keys of a Map, in order.
type KeySet[K, V any] struct {
	m *Map[K, V]
}

// KeySet returns a view of this map's keys.
func (m *Map[K, V]) KeySet() KeySet[K, V] {
	return KeySet[K, V]{m: m}
}

func (k KeySet[K, V]) Contains(key K) bool   { return k.m.ContainsKey(key) }
func (k KeySet[K, V]) Remove(key K) bool     { _, ok := k.m.Remove(key); return ok }
func (k KeySet[K, V]) Size() int             { return k.m.Len() }
func (k KeySet[K, V]) IsEmpty() bool         { return k.m.IsEmpty() }
func (k KeySet[K, V]) Iterator() *KeyIterator[K, V] {
	return &KeyIterator[K, V]{it: k.m.Iterator()}
}

// KeyIterator walks a KeySet in ascending order.
type KeyIterator[K, V any] struct {
	it *Iterator[K, V]
}

func (it *KeyIterator[K, V]) Next() bool  { return it.it.Next() }
func (it *KeyIterator[K, V]) Valid() bool { return it.it.Valid() }
func (it *KeyIterator[K, V]) Key() K      { return it.it.Key() }
func (it *KeyIterator[K, V]) Remove()     { it.it.Remove() }

// Values is a thin view exposing only the values of a Map, in key order.
type Values[K, V any] struct {
	m *Map[K, V]
}

// Values returns a view of this map's values, in ascending key order.
func (m *Map[K, V]) Values() Values[K, V] {
	return Values[K, V]{m: m}
}

func (vs Values[K, V]) Contains(target V, equal func(a, b V) bool) bool {
	return vs.m.ContainsValue(target, equal)
}
func (vs Values[K, V]) Size() int     { return vs.m.Len() }
func (vs Values[K, V]) IsEmpty() bool { return vs.m.IsEmpty() }
func (vs Values[K, V]) Iterator() *ValueIterator[K, V] {
	return &ValueIterator[K, V]{it: vs.m.Iterator()}
}

// ValueIterator walks a Values view in ascending key order.
type ValueIterator[K, V any] struct {
	it *Iterator[K, V]
}

func (it *ValueIterator[K, V]) Next() bool  { return it.it.Next() }
func (it *ValueIterator[K, V]) Valid() bool { return it.it.Valid() }
func (it *ValueIterator[K, V]) Value() V    { return it.it.Value() }
func (it *ValueIterator[K, V]) Remove()     { it.it.Remove() }

// Entry is a single key/value pair as yielded by an EntrySet iterator.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// EntrySet is a thin view exposing key/value pairs of a Map, in order.
type EntrySet[K, V any] struct {
	m *Map[K, V]
}

// EntrySet returns a view of this map's entries.
func (m *Map[K, V]) EntrySet() EntrySet[K, V] {
	return EntrySet[K, V]{m: m}
}

func (es EntrySet[K, V]) Size() int     { return es.m.Len() }
func (es EntrySet[K, V]) IsEmpty() bool { return es.m.IsEmpty() }
func (es EntrySet[K, V]) Iterator() *EntryIterator[K, V] {
	return &EntryIterator[K, V]{it: es.m.Iterator()}
}

// EntryIterator walks an EntrySet in ascending key order.
type EntryIterator[K, V any] struct {
	it *Iterator[K, V]
}

func (it *EntryIterator[K, V]) Next() bool       { return it.it.Next() }
func (it *EntryIterator[K, V]) Valid() bool      { return it.it.Valid() }
func (it *EntryIterator[K, V]) Entry() Entry[K, V] {
	return Entry[K, V]{Key: it.it.Key(), Value: it.it.Value()}
}
func (it *EntryIterator[K, V]) Remove() { it.it.Remove() }
