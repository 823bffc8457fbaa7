package compressed

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
)

// growCapacityNumerator and growCapacityDenominator define the 3/2 growth factor for storage.
const (
	growCapacityNumerator   = 3
	growCapacityDenominator = 2
)

// Anchor is a materialized sample of the logical sequence.
type Anchor[T any] struct {
	Index int
	Value T
}

// AnchorStore keeps anchors ordered by strictly increasing index in one
// contiguous slice. Edits splice the slice once and re-index only the stored
// anchors that follow the edit, so their cost never depends on the logical length.
//
// The zero value is empty and ready to use.
type AnchorStore[T any] struct {
	anchors []Anchor[T]
}

// Len returns the number of stored anchors.
func (s *AnchorStore[T]) Len() int {
	return len(s.anchors)
}

// search returns the position of the first anchor with Index >= index.
func (s *AnchorStore[T]) search(index int) (int, bool) {
	return slices.BinarySearchFunc(s.anchors, index, func(a Anchor[T], target int) int {
		return cmp.Compare(a.Index, target)
	})
}

// Get returns the anchor stored exactly at index.
func (s *AnchorStore[T]) Get(index int) (Anchor[T], bool) {
	pos, found := s.search(index)
	if !found {
		return Anchor[T]{}, false
	}

	return s.anchors[pos], true
}

// NearestAtOrBefore returns the stored anchor with the greatest Index <= index.
// False means no such anchor exists and the caller walks from the first element.
func (s *AnchorStore[T]) NearestAtOrBefore(index int) (Anchor[T], bool) {
	pos, found := s.search(index)
	if found {
		return s.anchors[pos], true
	}

	if pos == 0 {
		return Anchor[T]{}, false
	}

	return s.anchors[pos-1], true
}

// Put stores a new anchor. A second anchor at the same index is a broken
// invalidation discipline and panics.
func (s *AnchorStore[T]) Put(a Anchor[T]) {
	pos, found := s.search(a.Index)
	if found {
		panic(fmt.Sprintf("compressed: duplicate anchor at index %d", a.Index))
	}

	s.splice(pos, pos, []Anchor[T]{a})
}

// RewriteInterval removes the anchors with Index in [from, to], inserts fresh
// in their place and shifts the Index of every anchor originally after to by delta.
// Fresh anchors must be ordered and fall inside [from, to+delta].
func (s *AnchorStore[T]) RewriteInterval(from, to, delta int, fresh []Anchor[T]) {
	checkFresh(from, to+delta, fresh)

	lo, _ := s.search(from)
	hi, _ := s.search(to + 1)

	s.splice(lo, hi, fresh)

	if delta == 0 {
		return
	}

	for i := lo + len(fresh); i < len(s.anchors); i++ {
		s.anchors[i].Index += delta
	}
}

// splice replaces anchors[lo:hi] with fresh, moving the tail at most once.
func (s *AnchorStore[T]) splice(lo, hi int, fresh []Anchor[T]) {
	oldLen := len(s.anchors)
	tail := oldLen - hi
	newLen := lo + len(fresh) + tail

	if newLen > cap(s.anchors) {
		grown := make([]Anchor[T], newLen, newLen*growCapacityNumerator/growCapacityDenominator+1)
		copy(grown, s.anchors[:lo])
		copy(grown[lo+len(fresh):], s.anchors[hi:])
		copy(grown[lo:], fresh)
		s.anchors = grown

		return
	}

	s.anchors = s.anchors[:max(newLen, oldLen)]
	copy(s.anchors[lo+len(fresh):], s.anchors[hi:hi+tail])
	copy(s.anchors[lo:], fresh)

	if newLen < oldLen {
		// Release values held by the vacated slots.
		clear(s.anchors[newLen:oldLen])
	}

	s.anchors = s.anchors[:newLen]
}

func checkFresh[T any](lo, hi int, fresh []Anchor[T]) {
	prev := lo - 1

	for _, a := range fresh {
		if a.Index <= prev || a.Index > hi {
			panic(fmt.Sprintf("compressed: fresh anchor %d outside [%d, %d] or out of order", a.Index, lo, hi))
		}

		prev = a.Index
	}
}

// All yields the stored anchors in index order.
func (s *AnchorStore[T]) All() iter.Seq[Anchor[T]] {
	return func(yield func(Anchor[T]) bool) {
		for _, a := range s.anchors {
			if !yield(a) {
				return
			}
		}
	}
}

// Validate panics if anchors are not strictly increasing or fall outside [0, length).
func (s *AnchorStore[T]) Validate(length int) {
	prev := -1

	for _, a := range s.anchors {
		if a.Index <= prev {
			panic(fmt.Sprintf("compressed: anchor %d follows %d", a.Index, prev))
		}

		prev = a.Index
	}

	if prev >= length {
		panic(fmt.Sprintf("compressed: anchor %d past length %d", prev, length))
	}
}
