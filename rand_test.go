package skiptree

import (
	"math"
	"testing"
)

func TestLevelGeneratorDistribution(t *testing.T) {
	const avg = 32
	const numSamples = 1_000_000

	g := newLevelGenerator(avg)
	g.seed.Store(0x123456789abcdef)

	counts := make(map[int]int)
	for i := 0; i < numSamples; i++ {
		counts[g.sample()]++
	}

	p := 1.0 / float64(avg)

	// Level i+1 is populated by roughly a p fraction of the instances that
	// reached level i, since each level requires an independent 1/avg draw
	// to continue climbing.
	for i := 0; i < 3; i++ {
		count1 := counts[i]
		if count1 == 0 {
			continue
		}
		count2 := counts[i+1]
		ratio := float64(count2) / float64(count1)

		stdDev := math.Sqrt(p * (1 - p) / float64(count1))
		tolerance := 6 * stdDev

		if math.Abs(ratio-p) > tolerance {
			t.Errorf("level %d -> %d ratio = %.4f, want %.4f +/- %.4f", i, i+1, ratio, p, tolerance)
		}
	}

	if counts[0] == 0 {
		t.Fatal("expected the overwhelming majority of samples to land at level 0")
	}
}

func TestLevelGeneratorBounded(t *testing.T) {
	g := newLevelGenerator(2)
	for i := 0; i < 10000; i++ {
		if level := g.sample(); level > maxTowerHeight {
			t.Fatalf("sample() returned %d, want <= %d", level, maxTowerHeight)
		}
	}
}

func BenchmarkLevelGeneratorSample(b *testing.B) {
	g := newLevelGenerator(defaultAverageNodeLength)
	for i := 0; i < b.N; i++ {
		g.sample()
	}
}
