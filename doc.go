// Package skiptree implements a lock-free concurrent ordered map: an
// in-memory associative container that maps unique keys to values under a
// total order, supports concurrent readers and writers without any mutex,
// and exposes the navigable interface of an ordered key-value store
// (exact lookup, range views, nearest-neighbor queries, ordered
// iteration, and endpoint removal).
//
// The underlying structure is a "skip tree": an isomorphism of a skip
// list and a B+-tree in which each probabilistic tower is a multiway
// node holding a small ordered array of keys (and, at the leaf level,
// values) rather than a single key. Updates publish whole-node
// replacements by compare-and-swap on a single atomic pointer per node.
// Right "link" pointers let readers step past a node mid-split without
// waiting for it to finish, and every descent that passes through a
// stale router helps repair it in passing ("good-Samaritan" cleaning);
// no background thread or lock is ever involved.
//
// Construct a Map with New, configuring it with a Comparator (or
// WithNaturalOrder for a cmp.Ordered key type). KeySet, Values, EntrySet
// and SubMap are thin, stateless projections over the same underlying
// tree.
package skiptree
