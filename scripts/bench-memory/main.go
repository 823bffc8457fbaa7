// bench-memory measures heap memory held by a fully materialized list and a
// lazily generated list of the same length, before and after random edits
// and reads.
//
// Usage:
//
//	go run ./scripts/bench-memory --length 1000000 --edits 100 --reads 10000 \
//	  --profile-dir docs/profiles/lazy-vs-full
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/lazyseq/pkg/compressed"
)

// payloadWords pads each element so list overhead is visible in the heap.
const payloadWords = 6

// row is one synthetic element: a position-derived id plus padding.
type row struct {
	id      int64
	payload [payloadWords]int64
}

func rowAt(id int64) row {
	r := row{id: id}
	for i := range r.payload {
		r.payload[i] = id * int64(i+1)
	}

	return r
}

// arithmetic derives element i from element j in O(1), so both strategies
// pay the same per-call cost.
func arithmetic() compressed.Generator[row] {
	return compressed.GeneratorFuncs[row]{
		FirstFunc: func() (row, error) { return rowAt(0), nil },
		GenerateFunc: func(prev row, steps int) (row, error) {
			return rowAt(prev.id + int64(steps)), nil
		},
	}
}

type heapSnapshot struct {
	label     string
	heapInUse uint64
	heapSys   uint64
	numGC     uint32
}

func main() {
	length := flag.Int("length", 1_000_000, "Initial list length")
	edits := flag.Int("edits", 100, "Random edits applied to each list")
	maxEdit := flag.Int("max-edit", 64, "Upper bound for removed and added counts of one edit")
	reads := flag.Int("reads", 10_000, "Random reads after the edits")
	strategy := flag.String("strategy", "lazy", "List strategy to measure (full, lazy)")
	interval := flag.Int("anchor-interval", 0, "Lazy anchor interval (0 = off)")
	seed := flag.Uint64("seed", 1, "Random seed")
	profileDir := flag.String("profile-dir", "", "Directory to write heap profiles (empty = none)")

	flag.Parse()

	kind, err := compressed.ParseStrategy(*strategy)
	if err != nil {
		log.Fatal(err)
	}

	if *profileDir != "" {
		if mkErr := os.MkdirAll(*profileDir, 0o755); mkErr != nil {
			log.Fatalf("mkdir profile-dir: %v", mkErr)
		}
	}

	var snapshots []heapSnapshot

	takeSnapshot := func(label string) {
		runtime.GC()
		runtime.GC()

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		snapshots = append(snapshots, heapSnapshot{
			label:     label,
			heapInUse: m.HeapInuse,
			heapSys:   m.HeapSys,
			numGC:     m.NumGC,
		})
		log.Printf("  [heap] %-30s inuse=%10s  sys=%10s",
			label, humanize.Bytes(m.HeapInuse), humanize.Bytes(m.HeapSys))
	}

	writeHeapProfile := func(name string) {
		if *profileDir == "" {
			return
		}

		runtime.GC()

		path := filepath.Join(*profileDir, name)

		f, ferr := os.Create(path)
		if ferr != nil {
			log.Printf("warning: create heap profile %s: %v", path, ferr)

			return
		}
		defer f.Close()

		if perr := pprof.WriteHeapProfile(f); perr != nil {
			log.Printf("warning: write heap profile %s: %v", path, perr)
		}
	}

	takeSnapshot("before_build")

	list, err := compressed.New(kind, arithmetic(), *length,
		compressed.WithAnchorInterval(*interval))
	if err != nil {
		log.Fatalf("build %s list: %v", kind, err)
	}

	takeSnapshot("after_build")
	writeHeapProfile(fmt.Sprintf("heap_%s_after_build.prof", kind))

	rng := rand.New(rand.NewPCG(*seed, ^*seed)) //nolint:gosec // reproducible benchmark input.

	for range *edits {
		n := list.Len()
		from := rng.IntN(n + 1)
		removed := rng.IntN(min(*maxEdit, n-from) + 1)

		if recErr := list.Recalculate(compressed.MustReplace(from, from+removed-1, rng.IntN(*maxEdit+1))); recErr != nil {
			log.Fatalf("recalculate: %v", recErr)
		}
	}

	takeSnapshot("after_edits")

	for range *reads {
		if list.Len() == 0 {
			break
		}

		if _, getErr := list.Get(rng.IntN(list.Len())); getErr != nil {
			log.Fatalf("get: %v", getErr)
		}
	}

	takeSnapshot("after_reads")
	writeHeapProfile(fmt.Sprintf("heap_%s_after_reads.prof", kind))

	stats := list.Stats()

	fmt.Println()
	fmt.Printf("=== Heap Memory Timeline (%s) ===\n", kind)
	fmt.Printf("%-30s %12s %12s %6s\n", "Phase", "InUse", "Sys", "GCs")
	fmt.Println("------------------------------+------------+------------+------")

	for _, s := range snapshots {
		fmt.Printf("%-30s %12s %12s %6d\n",
			s.label, humanize.Bytes(s.heapInUse), humanize.Bytes(s.heapSys), s.numGC)
	}

	fmt.Println()
	fmt.Println("=== List Stats ===")
	fmt.Printf("  length:          %s\n", humanize.Comma(int64(stats.Len)))
	fmt.Printf("  stored elements: %s (ratio %.4f)\n", humanize.Comma(int64(stats.Anchors)), stats.CompressionRatio())
	fmt.Printf("  generate calls:  %s\n", humanize.Comma(int64(stats.GenerateCalls)))
	fmt.Printf("  hit rate:        %.1f%%\n", stats.HitRate()*100) //nolint:mnd // percent.
}
