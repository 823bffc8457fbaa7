package compressed

import "fmt"

// FullList holds every element of the sequence. Each recalculation re-derives
// the whole suffix from the edit point with unit steps, so it costs O(L).
// It is the reference the lazy strategy is checked against.
type FullList[T any] struct {
	gen    Generator[T]
	values []T
	counters
}

// NewFull walks the generator from its first element to build n values.
func NewFull[T any](gen Generator[T], n int) (*FullList[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}

	list := &FullList[T]{gen: gen, values: make([]T, 0, n)}

	err := list.fill(n)
	if err != nil {
		return nil, err
	}

	return list, nil
}

// Len returns the number of elements.
func (l *FullList[T]) Len() int {
	return len(l.values)
}

// Get returns the element at index i.
func (l *FullList[T]) Get(i int) (T, error) {
	err := checkIndex(i, len(l.values))
	if err != nil {
		var zero T

		return zero, err
	}

	l.hits++

	return l.values[i], nil
}

// Recalculate drops everything from r.From() on and regenerates through the
// new end. A generator error leaves the list truncated; discard it.
func (l *FullList[T]) Recalculate(r Replace) error {
	err := r.Validate(len(l.values))
	if err != nil {
		return err
	}

	newLen := len(l.values) + r.NetDelta()

	clear(l.values[r.From():])
	l.values = l.values[:r.From()]
	l.recalculations++

	return l.fill(newLen)
}

// fill appends unit-step successors until the list holds n values.
func (l *FullList[T]) fill(n int) error {
	if len(l.values) >= n {
		return nil
	}

	l.values = growTo(l.values, n)

	if len(l.values) == 0 {
		l.firstCalls++

		first, err := l.gen.First()
		if err != nil {
			return fmt.Errorf("generate first: %w", err)
		}

		l.values = append(l.values, first)
	}

	for len(l.values) < n {
		l.generateCalls++

		next, err := l.gen.Generate(l.values[len(l.values)-1], 1)
		if err != nil {
			return fmt.Errorf("generate index %d: %w", len(l.values), err)
		}

		l.values = append(l.values, next)
	}

	return nil
}

// Sequence returns a read-only view of the list.
func (l *FullList[T]) Sequence() *Sequence[T] {
	return &Sequence[T]{src: l}
}

// Stats returns the current counters. Every element counts as an anchor.
func (l *FullList[T]) Stats() Stats {
	return l.snapshot(len(l.values), len(l.values))
}

func (l *FullList[T]) sealed() {}

func growTo[T any](values []T, n int) []T {
	if n <= cap(values) {
		return values
	}

	grown := make([]T, len(values), n)
	copy(grown, values)

	return grown
}
