package skiptree

import (
	"encoding/binary"
	"testing"
)

func intKeyBytes(k int) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(k))
	return buf[:]
}

func TestBloomFilterFastPathAgreesWithTree(t *testing.T) {
	m := New[int, int](
		WithNaturalOrder[int, int](),
		WithBloomFilter[int, int](1024, 0.01, intKeyBytes),
	)

	for i := 0; i < 100; i += 2 {
		m.Put(i, i*10)
	}

	for i := 0; i < 200; i++ {
		v, ok := m.Get(i)
		wantOK := i < 100 && i%2 == 0
		if ok != wantOK {
			t.Fatalf("Get(%d): got ok=%t, want %t", i, ok, wantOK)
		}
		if ok && v != i*10 {
			t.Fatalf("Get(%d): got %d, want %d", i, v, i*10)
		}
	}
}
