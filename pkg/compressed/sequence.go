package compressed

import "iter"

// reader is the read half of List.
type reader[T any] interface {
	Len() int
	Get(i int) (T, error)
}

// Sequence is a read-only view over a List. It does not copy the list: reads
// go through to it and observe later recalculations.
type Sequence[T any] struct {
	src reader[T]
	err error
}

// Len returns the logical length.
func (s *Sequence[T]) Len() int {
	return s.src.Len()
}

// At returns the element at index i.
func (s *Sequence[T]) At(i int) (T, error) {
	return s.src.Get(i)
}

// All yields index/value pairs in order. Iteration stops at the first read
// error, which Err reports afterwards.
func (s *Sequence[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		s.err = nil

		for i := range s.src.Len() {
			v, err := s.src.Get(i)
			if err != nil {
				s.err = err

				return
			}

			if !yield(i, v) {
				return
			}
		}
	}
}

// Err returns the error that stopped the last All iteration.
func (s *Sequence[T]) Err() error {
	return s.err
}

// Collect materializes every element of the list.
func Collect[T any](list List[T]) ([]T, error) {
	seq := list.Sequence()
	out := make([]T, 0, seq.Len())

	for _, v := range seq.All() {
		out = append(out, v)
	}

	if err := seq.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
