package compressed_test

import (
	"math/rand/v2"
	"testing"

	"github.com/Sumatoshi-tech/lazyseq/pkg/compressed"
)

const (
	benchLength   = 100_000
	benchMaxEdit  = 32
	benchInterval = 1024
)

// counter derives element i as i.
func counter() compressed.Generator[int] {
	return compressed.GeneratorFuncs[int]{
		FirstFunc:    func() (int, error) { return 0, nil },
		GenerateFunc: func(prev, steps int) (int, error) { return prev + steps, nil },
	}
}

func newBenchList(b *testing.B, strategy compressed.Strategy, opts ...compressed.Option) compressed.List[int] {
	b.Helper()

	list, err := compressed.New(strategy, counter(), benchLength, opts...)
	if err != nil {
		b.Fatal(err)
	}

	return list
}

func benchRecalculate(b *testing.B, list compressed.List[int]) {
	b.Helper()

	rng := rand.New(rand.NewPCG(1, 1)) //nolint:gosec // deterministic benchmark input.

	b.ResetTimer()

	for range b.N {
		n := list.Len()
		from := rng.IntN(n + 1)
		removed := rng.IntN(min(benchMaxEdit, n-from) + 1)
		added := removed // Keep the length stable across iterations.

		err := list.Recalculate(compressed.MustReplace(from, from+removed-1, added))
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRecalculate_Full re-derives the suffix after every edit.
func BenchmarkRecalculate_Full(b *testing.B) {
	benchRecalculate(b, newBenchList(b, compressed.StrategyFull))
}

// BenchmarkRecalculate_Lazy drops the suffix anchors and seeds the insertion.
func BenchmarkRecalculate_Lazy(b *testing.B) {
	benchRecalculate(b, newBenchList(b, compressed.StrategyLazy))
}

// BenchmarkRecalculate_LazyInterval also re-derives periodic anchors.
func BenchmarkRecalculate_LazyInterval(b *testing.B) {
	benchRecalculate(b, newBenchList(b, compressed.StrategyLazy, compressed.WithAnchorInterval(benchInterval)))
}

// BenchmarkGet_LazyRandom reads random indices, mostly misses at first.
func BenchmarkGet_LazyRandom(b *testing.B) {
	list := newBenchList(b, compressed.StrategyLazy)
	rng := rand.New(rand.NewPCG(2, 2)) //nolint:gosec // deterministic benchmark input.

	b.ResetTimer()

	for range b.N {
		_, err := list.Get(rng.IntN(benchLength))
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkGet_FullRandom reads random indices of a materialized list.
func BenchmarkGet_FullRandom(b *testing.B) {
	list := newBenchList(b, compressed.StrategyFull)
	rng := rand.New(rand.NewPCG(2, 2)) //nolint:gosec // deterministic benchmark input.

	b.ResetTimer()

	for range b.N {
		_, err := list.Get(rng.IntN(benchLength))
		if err != nil {
			b.Fatal(err)
		}
	}
}
