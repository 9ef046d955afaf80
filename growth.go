package skiptree

// increaseRootHeight loops until the tree's height is at least target,
// CAS-installing a new HeadNode whose top is a fresh one-key +Inf router
// wrapping the previous root each time the height is insufficient (4.7). A
// lost race just means somebody else grew the tree; the loop re-reads root
// and checks again rather than retrying its own stale plan.
func (m *Map[K, V]) increaseRootHeight(target int) *headNode[K, V] {
	for {
		head := m.root.Load()
		if head.height >= target {
			return head
		}
		grown := &headNode[K, V]{top: newSentinelRouter(head.top), height: head.height + 1}
		if m.root.CompareAndSwap(head, grown) {
			m.metrics.incRootGrowth()
		}
	}
}
