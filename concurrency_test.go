package skiptree

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"sync"
	"testing"
	"time"
)

const testXorshiftFallback = uint64(0xdeadbeefcafebabe)

func TestConcurrentMixedOperationsStorm(t *testing.T) {
	t.Cleanup(func() {
		if t.Failed() {
			pprof.Lookup("goroutine").WriteTo(os.Stderr, 2)
		}
	})

	seed := time.Now().UnixNano()
	t.Logf("test seed=%d", seed)

	m := New[int, int](WithNaturalOrder[int, int]())

	const keySpace = 128
	goroutines := max(2*runtime.GOMAXPROCS(0), 4)
	const operationsPerGoroutine = 2000

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		goroutineSeed := seed + int64(g)
		go func(s int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(s))
			for i := 0; i < operationsPerGoroutine; i++ {
				key := r.Intn(keySpace)
				switch r.Intn(4) {
				case 0:
					value := r.Intn(1 << 16)
					m.Put(key, value)
				case 1:
					m.Remove(key)
				case 2:
					m.Get(key)
				case 3:
					m.ContainsKey(key)
				}
			}
		}(goroutineSeed)
	}
	wg.Wait()

	observed := make(map[int]int)
	it := m.Iterator()
	prevSet := false
	var prevKey int
	for it.Next() {
		k := it.Key()
		v := it.Value()

		if _, ok := observed[k]; ok {
			t.Fatalf("duplicate key %d", k)
		}
		observed[k] = v

		if prevSet && !(prevKey < k) {
			t.Fatalf("iterator out of order: previous=%d current=%d", prevKey, k)
		}
		prevKey, prevSet = k, true

		if gv, ok := m.Get(k); !ok {
			t.Fatalf("iterator returned key %d, but Get reports missing", k)
		} else if gv != v {
			t.Fatalf("value mismatch for key %d: iterator=%d Get=%d", k, v, gv)
		}
		if !m.ContainsKey(k) {
			t.Fatalf("iterator returned key %d, but ContainsKey reports false", k)
		}
	}

	for seek := 0; seek < keySpace; seek++ {
		k, ok := m.CeilingKey(seek)
		if ok {
			if k < seek {
				t.Fatalf("CeilingKey(%d) returned key %d < %d", seek, k, seek)
			}
			if !m.ContainsKey(k) {
				t.Logf("CeilingKey(%d) returned key %d not currently present (transient race)", seek, k)
			}
		}
	}
}

func TestRemoveWhileInsertRacing(t *testing.T) {
	m := New[int, int](WithNaturalOrder[int, int]())

	const iterations = 5000

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < iterations; i++ {
			m.Put(1, i)
		}
	}()

	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < iterations; i++ {
			m.Remove(1)
		}
	}()

	close(start)
	wg.Wait()

	if got := m.Len(); got < 0 {
		t.Fatalf("length should never be negative, got %d", got)
	}

	if k, ok := m.CeilingKey(1); ok && k != 1 {
		t.Fatalf("unexpected ceiling after racing ops: key=%d", k)
	}
}

func TestCascadeCleaningUnderRemovalStorm(t *testing.T) {
	m := New[int, int](WithNaturalOrder[int, int]())

	const totalKeys = 1024
	for i := 0; i < totalKeys; i++ {
		m.Put(i, i)
	}

	const workers = 8
	var removers sync.WaitGroup
	removers.Add(workers)
	for w := 0; w < workers; w++ {
		go func(offset int) {
			defer removers.Done()
			for k := offset; k < totalKeys; k += workers {
				m.Remove(k)
			}
		}(w)
	}

	stop := make(chan struct{})
	var helper sync.WaitGroup
	helper.Add(1)
	errCh := make(chan error, 1)
	go func() {
		defer helper.Done()
		r := rand.New(rand.NewSource(1234))
		for {
			select {
			case <-stop:
				return
			default:
			}

			key := r.Intn(totalKeys)
			if k, ok := m.CeilingKey(key); ok {
				if k < key {
					select {
					case errCh <- fmt.Errorf("CeilingKey(%d) returned key %d < seek", key, k):
					default:
					}
					return
				}
				if v, ok := m.Get(k); ok && v != k {
					select {
					case errCh <- fmt.Errorf("value mismatch for key %d: %d", k, v):
					default:
					}
					return
				}
			}

			time.Sleep(time.Microsecond)
		}
	}()

	removers.Wait()
	close(stop)
	helper.Wait()

	select {
	case err := <-errCh:
		t.Fatal(err)
	default:
	}

	if got := m.Len(); got != 0 {
		t.Fatalf("expected map to be empty after cascading removes, got %d", got)
	}

	if _, ok := m.CeilingKey(0); ok {
		t.Fatalf("expected no keys after full removal")
	}
}

func TestPutGeneratorDoesNotBlock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping generator contention stress test in short mode")
	}

	runtime.SetBlockProfileRate(0)
	runtime.SetBlockProfileRate(1)
	defer runtime.SetBlockProfileRate(0)

	m := New[int, int](WithNaturalOrder[int, int]())

	goroutines := max(4*runtime.GOMAXPROCS(0), 8)
	const operationsPerGoroutine = 10000

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		seed := uint64(0x9e3779b97f4a7c15) + uint64(g)
		go func(seed uint64) {
			defer wg.Done()
			x := seed | 1
			for i := 0; i < operationsPerGoroutine; i++ {
				x ^= x >> 12
				x ^= x << 25
				x ^= x >> 27
				if x == 0 {
					x = testXorshiftFallback
				}
				key := int(x & ((1 << 16) - 1))
				m.Put(key, int(x))
			}
		}(seed)
	}

	wg.Wait()
	runtime.GC()

	if p := pprof.Lookup("block"); p != nil {
		var sb strings.Builder
		if err := p.WriteTo(&sb, 2); err != nil {
			t.Fatalf("failed to read block profile: %v", err)
		}
		if strings.Contains(sb.String(), "skiptree.levelGenerator") {
			t.Fatalf("levelGenerator appeared in block profile indicating serialization:\n%s", sb.String())
		}
	}
}
