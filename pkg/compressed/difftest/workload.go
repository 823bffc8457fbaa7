package difftest

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/Sumatoshi-tech/lazyseq/pkg/compressed"
)

// ErrInvalidWorkload is returned for workload parameters that cannot run.
var ErrInvalidWorkload = errors.New("invalid workload")

// Workload describes a seeded random run of edits and reads.
type Workload struct {
	InitialLength  int
	Steps          int
	MaxEdit        int // Upper bound for both removed and added counts of one edit.
	ReadsPerStep   int
	Seed           uint64
	AnchorInterval int
	SeedLimit      int

	// Sparse skips the full comparison after each edit. Only the sampled
	// reads are checked between edits, so the lazy list keeps gaps across
	// them. Everything is compared once after the last edit.
	Sparse bool
}

// Run executes the workload and calls observe after every step. It stops at
// the first divergence or when ctx is done.
func (w Workload) Run(ctx context.Context, observe func(StepResult)) ([]StepResult, error) {
	if w.InitialLength < 0 || w.Steps < 0 || w.MaxEdit < 0 || w.ReadsPerStep < 0 {
		return nil, fmt.Errorf("%w: negative parameter in %+v", ErrInvalidWorkload, w)
	}

	h, err := NewHarness(w.InitialLength,
		compressed.WithAnchorInterval(w.AnchorInterval),
		compressed.WithSeedLimit(w.SeedLimit),
	)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(w.Seed, w.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // reproducible test data.
	results := make([]StepResult, 0, w.Steps)

	for range w.Steps {
		ctxErr := ctx.Err()
		if ctxErr != nil {
			return results, fmt.Errorf("workload interrupted: %w", ctxErr)
		}

		result, stepErr := w.step(h, randomReplace(rng, h.Domain().Len(), w.MaxEdit))
		if stepErr != nil {
			return results, stepErr
		}

		calls, readErr := h.ReadAll(randomIndices(rng, h.Lazy().Len(), w.ReadsPerStep)...)
		if readErr != nil {
			return results, fmt.Errorf("step %d: %w", result.Step, readErr)
		}

		result.LazyReadCalls = calls
		results = append(results, result)

		if observe != nil {
			observe(result)
		}
	}

	if w.Sparse {
		err = h.Check("final state")
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

func (w Workload) step(h *Harness, r compressed.Replace) (StepResult, error) {
	if w.Sparse {
		return h.Apply(r)
	}

	return h.Step(r)
}

func randomReplace(rng *rand.Rand, length, maxEdit int) compressed.Replace {
	from := rng.IntN(length + 1)
	removed := rng.IntN(min(maxEdit, length-from) + 1)
	added := rng.IntN(maxEdit + 1)

	return compressed.MustReplace(from, from+removed-1, added)
}

func randomIndices(rng *rand.Rand, length, n int) []int {
	if length == 0 {
		return nil
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = rng.IntN(length)
	}

	return indices
}
