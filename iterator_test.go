package skiptree

import (
	"sync"
	"testing"
)

func TestIteratorNextTraversesElementsInOrder(t *testing.T) {
	m := New[int, int](WithNaturalOrder[int, int]())

	for _, key := range []int{5, 1, 3} {
		m.Put(key, key*10)
	}

	it := m.Iterator()

	var keys []int
	for it.Next() {
		k := it.Key()
		v := it.Value()
		keys = append(keys, k)
		if expected := k * 10; v != expected {
			t.Fatalf("expected value %d for key %d, got %d", expected, k, v)
		}
	}

	expectedKeys := []int{1, 3, 5}
	if len(keys) != len(expectedKeys) {
		t.Fatalf("expected %d keys from iterator, got %d", len(expectedKeys), len(keys))
	}
	for i, want := range expectedKeys {
		if keys[i] != want {
			t.Fatalf("expected key %d at position %d, got %d", want, i, keys[i])
		}
	}

	if it.Valid() {
		t.Fatalf("expected iterator to be invalid after exhaustion")
	}
}

func TestIteratorDescendingTraversesElementsInOrder(t *testing.T) {
	m := New[int, int](WithNaturalOrder[int, int]())
	for _, key := range []int{5, 1, 3} {
		m.Put(key, key*10)
	}

	it := m.DescendingIterator()
	var keys []int
	for it.Next() {
		keys = append(keys, it.Key())
	}

	expected := []int{5, 3, 1}
	if len(keys) != len(expected) {
		t.Fatalf("expected %d keys, got %d", len(expected), len(keys))
	}
	for i, want := range expected {
		if keys[i] != want {
			t.Fatalf("expected key %d at position %d, got %d", want, i, keys[i])
		}
	}
}

func TestIteratorRemoveDeletesCurrentElement(t *testing.T) {
	m := New[int, string](WithNaturalOrder[int, string]())
	m.Put(1, "one")
	m.Put(2, "two")
	m.Put(3, "three")

	it := m.Iterator()
	for it.Next() {
		if it.Key() == 2 {
			if v, ok := it.Remove(); !ok || v != "two" {
				t.Fatalf("expected Remove to report (two, true), got (%q, %t)", v, ok)
			}
		}
	}

	if m.ContainsKey(2) {
		t.Fatalf("expected key 2 to be removed")
	}
	if !m.ContainsKey(1) || !m.ContainsKey(3) {
		t.Fatalf("expected keys 1 and 3 to survive")
	}
}

func TestIteratorRemovePanicsBeforeNext(t *testing.T) {
	m := New[int, int](WithNaturalOrder[int, int]())
	m.Put(1, 1)
	it := m.Iterator()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected Remove to panic before a successful Next")
		}
	}()
	it.Remove()
}

func TestNearestNeighborKeys(t *testing.T) {
	m := New[int, int](WithNaturalOrder[int, int]())
	for _, k := range []int{10, 20, 30, 40} {
		m.Put(k, k)
	}

	cases := []struct {
		name string
		fn   func(int) (int, bool)
		in   int
		want int
		ok   bool
	}{
		{"lower-between", m.LowerKey, 25, 20, true},
		{"lower-exact", m.LowerKey, 20, 10, true},
		{"lower-first", m.LowerKey, 10, 0, false},
		{"floor-between", m.FloorKey, 25, 20, true},
		{"floor-exact", m.FloorKey, 20, 20, true},
		{"ceiling-between", m.CeilingKey, 25, 30, true},
		{"ceiling-exact", m.CeilingKey, 20, 20, true},
		{"ceiling-past-last", m.CeilingKey, 41, 0, false},
		{"higher-between", m.HigherKey, 25, 30, true},
		{"higher-exact", m.HigherKey, 20, 30, true},
		{"higher-last", m.HigherKey, 40, 0, false},
	}
	for _, c := range cases {
		got, ok := c.fn(c.in)
		if ok != c.ok {
			t.Fatalf("%s: expected ok=%t, got ok=%t", c.name, c.ok, ok)
		}
		if ok && got != c.want {
			t.Fatalf("%s: expected %d, got %d", c.name, c.want, got)
		}
	}
}

func TestIteratorToleratesConcurrentRemoval(t *testing.T) {
	m := New[int, int](WithNaturalOrder[int, int]())
	m.Put(1, 1)
	m.Put(2, 2)
	m.Put(3, 3)

	removed := make(chan struct{})
	resume := make(chan struct{})
	var once sync.Once

	afterSearchHook = func(target, idx int) {
		once.Do(func() { close(removed) })
		<-resume
	}
	defer func() { afterSearchHook = nil }()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.Remove(2)
	}()

	<-removed
	close(resume)
	wg.Wait()

	it := m.Iterator()
	var keys []int
	for it.Next() {
		keys = append(keys, it.Key())
	}
	for _, k := range keys {
		if k == 2 {
			t.Fatalf("expected iterator never to yield a fully removed key once settled")
		}
	}
}
