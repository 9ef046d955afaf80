package skiptree

import (
	"os"
	"strconv"
)

// defaultAverageNodeLength is the target average number of keys per node
// (called B in the design notes). The expected tower height for a random
// insert is B/(B-1)-1, which keeps router fan-out high and tree height low
// for the workloads this package is built for.
const defaultAverageNodeLength = 32

// Config collects the tunables accepted by New. Build one with NewConfig
// and the With* functional options rather than constructing it directly, so
// that new fields can be added without breaking callers.
type Config[K, V any] struct {
	comparator    Comparator[K]
	valueProxy    V
	hasValueProxy bool
	avgNodeLength int

	bloomEnabled       bool
	bloomExpectedItems uint
	bloomFalsePositive float64
	bloomKeyBytes      func(K) []byte
}

// Option mutates a Config. Apply options through New, not by hand.
type Option[K, V any] func(*Config[K, V])

// NewConfig builds a Config with the package defaults: natural ordering is
// NOT assumed (a comparator must be supplied unless WithComparator or
// WithNaturalOrder is used), no value proxy, and an average node length of
// 32. The average node length can be overridden process-wide by setting the
// LOCKFREESKIPTREE_AVG_NODE_LENGTH environment variable, which is read once
// here so that callers who only want the env-driven default never need to
// touch Option values at all.
func NewConfig[K, V any]() Config[K, V] {
	return Config[K, V]{
		avgNodeLength: resolveAverageNodeLength(),
	}
}

func resolveAverageNodeLength() int {
	if s := os.Getenv("LOCKFREESKIPTREE_AVG_NODE_LENGTH"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 2 {
			return n
		}
	}
	return defaultAverageNodeLength
}

// WithComparator sets the key ordering. Required unless WithNaturalOrder is
// used instead.
func WithComparator[K, V any](cmp Comparator[K]) Option[K, V] {
	return func(c *Config[K, V]) { c.comparator = cmp }
}

// WithValueProxy configures the map to behave like an ordered set: every
// Get and every successful Put returns proxy in place of the value the
// caller supplied, and no per-entry value storage is allocated.
func WithValueProxy[K, V any](proxy V) Option[K, V] {
	return func(c *Config[K, V]) {
		c.valueProxy = proxy
		c.hasValueProxy = true
	}
}

// WithAverageNodeLength overrides the target average node length (B). It
// must be at least 2; values below that are ignored.
func WithAverageNodeLength[K, V any](avgLength int) Option[K, V] {
	return func(c *Config[K, V]) {
		if avgLength >= 2 {
			c.avgNodeLength = avgLength
		}
	}
}

// WithBloomFilter fronts Get and ContainsKey with a Bloom filter
// membership test, letting a lookup for a key that was never inserted
// skip the router descent entirely. expectedItems and falsePositiveRate
// size the filter (passed straight through to bloom.NewWithEstimates);
// keyBytes must deterministically encode a key the same way every time it
// is called. The filter only ever gains entries (on Put of a genuinely
// new key); it is never consulted by Remove, since a Bloom filter cannot
// forget a member without risking false negatives.
func WithBloomFilter[K, V any](expectedItems uint, falsePositiveRate float64, keyBytes func(K) []byte) Option[K, V] {
	return func(c *Config[K, V]) {
		c.bloomEnabled = true
		c.bloomExpectedItems = expectedItems
		c.bloomFalsePositive = falsePositiveRate
		c.bloomKeyBytes = keyBytes
	}
}
