package compressed

import (
	"fmt"
	"math"
)

// Replace describes one edit of a logical sequence: the elements in
// [From, To] are removed and Added new elements are inserted at From.
// To == From-1 denotes a pure insertion.
//
// The zero value is a no-op at index 0. Build other values with NewReplace.
type Replace struct {
	from    int
	removed int
	added   int
}

// NewReplace validates and returns a Replace.
func NewReplace(from, to, added int) (Replace, error) {
	if from < 0 {
		return Replace{}, fmt.Errorf("%w: negative from %d", ErrInvalidReplace, from)
	}

	if to < from-1 {
		return Replace{}, fmt.Errorf("%w: to %d before from %d", ErrInvalidReplace, to, from)
	}

	if added < 0 {
		return Replace{}, fmt.Errorf("%w: negative added count %d", ErrInvalidReplace, added)
	}

	// to-from+1 must fit in an int.
	if to == math.MaxInt {
		return Replace{}, fmt.Errorf("%w: to %d out of range", ErrInvalidReplace, to)
	}

	return Replace{from: from, removed: to - from + 1, added: added}, nil
}

// MustReplace is like NewReplace but panics on invalid input.
func MustReplace(from, to, added int) Replace {
	r, err := NewReplace(from, to, added)
	if err != nil {
		panic(err)
	}

	return r
}

// Insert returns a Replace that inserts count elements at index at.
func Insert(at, count int) (Replace, error) {
	return NewReplace(at, at-1, count)
}

// Remove returns a Replace that removes the elements in [from, to].
func Remove(from, to int) (Replace, error) {
	return NewReplace(from, to, 0)
}

// From returns the first affected index.
func (r Replace) From() int { return r.from }

// To returns the last removed index, From()-1 for pure insertions.
func (r Replace) To() int { return r.from + r.removed - 1 }

// Added returns the number of inserted elements.
func (r Replace) Added() int { return r.added }

// RemovedCount returns the number of removed elements.
func (r Replace) RemovedCount() int { return r.removed }

// NetDelta returns the change in sequence length.
func (r Replace) NetDelta() int { return r.added - r.removed }

// Validate checks that r can be applied to a sequence of the given length.
func (r Replace) Validate(length int) error {
	if r.from > length {
		return fmt.Errorf("%w: %s starts after end %d", ErrInvalidReplace, r, length)
	}

	if r.To() >= length {
		return fmt.Errorf("%w: %s removes past end %d", ErrInvalidReplace, r, length)
	}

	if r.added > math.MaxInt-(length-r.removed) {
		return fmt.Errorf("%w: %s overflows length %d", ErrInvalidReplace, r, length)
	}

	return nil
}

func (r Replace) String() string {
	return fmt.Sprintf("Replace(from=%d, to=%d, added=%d)", r.from, r.To(), r.added)
}
