package skiptree

import "cmp"

// Comparator imposes a total order on keys of type K. It must return a
// negative number if a < b, zero if a == b, and a positive number if a > b,
// matching the convention of cmp.Compare.
//
// A Comparator supplied to New must be a genuine total order: consistent,
// transitive, and free of ties between keys the caller considers distinct.
type Comparator[K any] func(a, b K) int

// Natural returns a Comparator that orders keys of a builtin ordered type
// the way the language's own < operator would.
func Natural[K cmp.Ordered]() Comparator[K] {
	return cmp.Compare[K]
}

// CmpType is implemented by key types that know how to order themselves
// against another value of the same type, mirroring java.lang.Comparable.
type CmpType interface {
	Compare(other any) int
}

// FromCmpType adapts a CmpType-implementing key type into a Comparator.
func FromCmpType[K CmpType]() Comparator[K] {
	return func(a, b K) int { return a.Compare(b) }
}

// Reversed flips the direction of a Comparator, useful for building a
// descendingMap view out of an ascending one.
func Reversed[K any](c Comparator[K]) Comparator[K] {
	return func(a, b K) int { return c(b, a) }
}

// WithNaturalOrder sets the key ordering to the natural order of a builtin
// ordered type. Equivalent to WithComparator(Natural[K]()).
func WithNaturalOrder[K cmp.Ordered, V any]() Option[K, V] {
	return WithComparator[K, V](Natural[K]())
}
