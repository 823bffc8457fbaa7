package compressed

import "fmt"

// List is a sequence of generated values that tracks edits of the data behind
// its Generator. The implementations are FullList and LazyList; the set is closed.
type List[T any] interface {
	// Len returns the logical length.
	Len() int

	// Get returns the element at index i as the generator defines it now.
	Get(i int) (T, error)

	// Recalculate brings the list in line with one edit of the underlying data.
	// It must be called exactly once per edit, after the data has changed.
	Recalculate(r Replace) error

	// Sequence returns a read-only view of the list.
	Sequence() *Sequence[T]

	// Stats returns the current counters.
	Stats() Stats

	sealed()
}

// Strategy selects a List implementation.
type Strategy string

// Supported strategies.
const (
	StrategyFull Strategy = "full"
	StrategyLazy Strategy = "lazy"
)

// ParseStrategy converts a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case StrategyFull, StrategyLazy:
		return Strategy(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// New creates a list of the given strategy with initial length n.
// Options only affect the lazy strategy.
func New[T any](strategy Strategy, gen Generator[T], n int, opts ...Option) (List[T], error) {
	switch strategy {
	case StrategyFull:
		full, err := NewFull(gen, n)
		if err != nil {
			return nil, err
		}

		return full, nil
	case StrategyLazy:
		lazy, err := NewLazy(gen, n, opts...)
		if err != nil {
			return nil, err
		}

		return lazy, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(strategy))
	}
}

func checkIndex(i, length int) error {
	if i < 0 || i >= length {
		return fmt.Errorf("%w: index %d not in [0, %d)", ErrOutOfRange, i, length)
	}

	return nil
}
