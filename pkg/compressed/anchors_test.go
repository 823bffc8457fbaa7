package compressed_test

import (
	"maps"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/lazyseq/pkg/compressed"
)

const (
	// modelRounds is the number of random rewrites checked against the map model.
	modelRounds = 500

	// modelMaxIndex bounds the start of a random rewrite window.
	modelMaxIndex = 100

	// modelMaxRun bounds removed and inserted run lengths.
	modelMaxRun = 20
)

func storeOf(indices ...int) *compressed.AnchorStore[string] {
	var s compressed.AnchorStore[string]

	for _, i := range indices {
		s.Put(compressed.Anchor[string]{Index: i, Value: "v" + string(rune('a'+i%26))})
	}

	return &s
}

func indicesOf[T any](s *compressed.AnchorStore[T]) []int {
	var out []int

	for a := range s.All() {
		out = append(out, a.Index)
	}

	return out
}

func TestAnchorStore_Lookup(t *testing.T) {
	t.Parallel()

	s := storeOf(30, 10, 20)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []int{10, 20, 30}, indicesOf(s))

	a, ok := s.Get(20)
	require.True(t, ok)
	assert.Equal(t, 20, a.Index)

	_, ok = s.Get(21)
	assert.False(t, ok)

	a, ok = s.NearestAtOrBefore(25)
	require.True(t, ok)
	assert.Equal(t, 20, a.Index)

	a, ok = s.NearestAtOrBefore(30)
	require.True(t, ok)
	assert.Equal(t, 30, a.Index)

	_, ok = s.NearestAtOrBefore(9)
	assert.False(t, ok, "no anchor before 10 means walk from the start")
}

func TestAnchorStore_ZeroValue(t *testing.T) {
	t.Parallel()

	var s compressed.AnchorStore[int]

	assert.Equal(t, 0, s.Len())

	_, ok := s.NearestAtOrBefore(5)
	assert.False(t, ok)

	s.RewriteInterval(0, -1, 2, []compressed.Anchor[int]{{Index: 1, Value: 7}})
	assert.Equal(t, []int{1}, indicesOf(&s))
}

func TestAnchorStore_DuplicatePanics(t *testing.T) {
	t.Parallel()

	s := storeOf(5)
	assert.Panics(t, func() { s.Put(compressed.Anchor[string]{Index: 5}) })
}

func TestAnchorStore_RewriteInterval(t *testing.T) {
	t.Parallel()

	// Remove [15, 24] (10 elements), insert 5: anchor 20 goes, 30 moves to 25.
	s := storeOf(10, 20, 30)
	s.RewriteInterval(15, 24, -5, []compressed.Anchor[string]{{Index: 15, Value: "new"}})
	assert.Equal(t, []int{10, 15, 25}, indicesOf(s))

	a, ok := s.Get(15)
	require.True(t, ok)
	assert.Equal(t, "new", a.Value)

	// Pure insertion of 3 at 11 shifts everything after by 3.
	s.RewriteInterval(11, 10, 3, []compressed.Anchor[string]{{Index: 11}, {Index: 12}, {Index: 13}})
	assert.Equal(t, []int{10, 11, 12, 13, 18, 28}, indicesOf(s))

	// Truncate: drop everything from 12 on.
	s.RewriteInterval(12, 29, -18, nil)
	assert.Equal(t, []int{10, 11}, indicesOf(s))
}

func TestAnchorStore_RewriteIntervalRejectsMisplacedAnchors(t *testing.T) {
	t.Parallel()

	s := storeOf(1, 10)

	assert.Panics(t, func() {
		s.RewriteInterval(2, 5, 0, []compressed.Anchor[string]{{Index: 6}})
	})
	assert.Panics(t, func() {
		s.RewriteInterval(2, 5, 0, []compressed.Anchor[string]{{Index: 4}, {Index: 3}})
	})
}

func TestAnchorStore_Validate(t *testing.T) {
	t.Parallel()

	s := storeOf(0, 4, 9)
	assert.NotPanics(t, func() { s.Validate(10) })
	assert.Panics(t, func() { s.Validate(9) })
}

// TestAnchorStore_RewriteMatchesModel checks random rewrites against a map keyed by index.
func TestAnchorStore_RewriteMatchesModel(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2)) //nolint:gosec // deterministic test data.
	model := map[int]int{}

	var s compressed.AnchorStore[int]

	for round := range modelRounds {
		from := rng.IntN(modelMaxIndex)
		removed := rng.IntN(modelMaxRun)
		added := rng.IntN(modelMaxRun)
		to := from + removed - 1
		delta := added - removed

		var fresh []compressed.Anchor[int]

		for i := from; i < from+added; i++ {
			if rng.IntN(2) == 0 {
				fresh = append(fresh, compressed.Anchor[int]{Index: i, Value: round})
			}
		}

		next := map[int]int{}

		for k, v := range model {
			switch {
			case k < from:
				next[k] = v
			case k > to:
				next[k+delta] = v
			}
		}

		for _, a := range fresh {
			next[a.Index] = a.Value
		}

		model = next

		s.RewriteInterval(from, to, delta, fresh)

		got := map[int]int{}
		for a := range s.All() {
			got[a.Index] = a.Value
		}

		require.Equal(t, model, got, "round %d", round)
		require.Equal(t, slices.Sorted(maps.Keys(model)), indicesOf(&s), "round %d", round)
	}
}
