package skiptree

import (
	"math/bits"
	"runtime"
	"sync/atomic"
)

// metricShard holds one shard's worth of counters, padded to a cache line
// so that concurrent mutators updating different shards never false-share.
type metricShard struct {
	mutationCASRetries   atomic.Int64
	mutationCASSuccesses atomic.Int64
	splitAttempts        atomic.Int64
	splitSuccesses       atomic.Int64
	cleaningSteps        atomic.Int64
	rootGrowths          atomic.Int64
	_                    [16]byte
}

// Metrics accumulates lock-free-friendly counters describing how much
// internal churn (CAS retries, splits, cooperative cleaning) a Map has
// done. None of it is required for correctness; it exists so that callers
// embedding this map in a service can export it the way the teacher's
// package exports InsertCASStats, without the map ever needing a mutex to
// do so.
type Metrics struct {
	shards []metricShard
	mask   uint32
	gen    *levelGenerator
}

func newMetrics(gen *levelGenerator) *Metrics {
	shardCount := nextPowerOfTwo(max(1, runtime.GOMAXPROCS(0)))
	return &Metrics{
		shards: make([]metricShard, shardCount),
		mask:   uint32(shardCount - 1),
		gen:    gen,
	}
}

func nextPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(v-1))
}

func (m *Metrics) shard() *metricShard {
	if len(m.shards) == 1 {
		return &m.shards[0]
	}
	idx := uint32(m.gen.nextRandom64()) & m.mask
	return &m.shards[idx]
}

func (m *Metrics) incMutationCASRetry()   { m.shard().mutationCASRetries.Add(1) }
func (m *Metrics) incMutationCASSuccess() { m.shard().mutationCASSuccesses.Add(1) }
func (m *Metrics) incSplitAttempt()       { m.shard().splitAttempts.Add(1) }
func (m *Metrics) incSplitSuccess()       { m.shard().splitSuccesses.Add(1) }
func (m *Metrics) incCleaningStep()       { m.shard().cleaningSteps.Add(1) }
func (m *Metrics) incRootGrowth()         { m.shard().rootGrowths.Add(1) }

// MutationCASStats reports the total number of lost and won
// compare-and-swap races across every put/replace/remove call on the map.
func (m *Metrics) MutationCASStats() (retries, successes int64) {
	for i := range m.shards {
		retries += m.shards[i].mutationCASRetries.Load()
		successes += m.shards[i].mutationCASSuccesses.Load()
	}
	return retries, successes
}

// SplitStats reports how many split attempts were made during upward
// cascades and how many actually installed a new right sibling; a split
// attempt can legitimately fail its preconditions (4.5) without that being
// an error.
func (m *Metrics) SplitStats() (attempts, successes int64) {
	for i := range m.shards {
		attempts += m.shards[i].splitAttempts.Load()
		successes += m.shards[i].splitSuccesses.Load()
	}
	return attempts, successes
}

// CleaningSteps reports the total number of cooperative compaction steps
// (cleanLink, cleanNode1/2/N, good-Samaritan neighbor cleaning) performed
// by every descent through this map so far.
func (m *Metrics) CleaningSteps() int64 {
	var total int64
	for i := range m.shards {
		total += m.shards[i].cleaningSteps.Load()
	}
	return total
}

// RootGrowths reports how many times increaseRootHeight installed a taller
// HeadNode.
func (m *Metrics) RootGrowths() int64 {
	var total int64
	for i := range m.shards {
		total += m.shards[i].rootGrowths.Load()
	}
	return total
}
