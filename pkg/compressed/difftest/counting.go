package difftest

import "github.com/Sumatoshi-tech/lazyseq/pkg/compressed"

// Counting wraps a generator and counts the calls made through it.
type Counting[T any] struct {
	inner      compressed.Generator[T]
	calls      int
	firstCalls int
}

// NewCounting wraps gen.
func NewCounting[T any](gen compressed.Generator[T]) *Counting[T] {
	return &Counting[T]{inner: gen}
}

// First counts and forwards the call.
func (c *Counting[T]) First() (T, error) {
	c.firstCalls++

	return c.inner.First()
}

// Generate counts and forwards the call.
func (c *Counting[T]) Generate(prev T, steps int) (T, error) {
	c.calls++

	return c.inner.Generate(prev, steps)
}

// Calls returns the number of Generate calls since the last Reset.
func (c *Counting[T]) Calls() int { return c.calls }

// FirstCalls returns the number of First calls since the last Reset.
func (c *Counting[T]) FirstCalls() int { return c.firstCalls }

// Reset zeroes both counters.
func (c *Counting[T]) Reset() {
	c.calls = 0
	c.firstCalls = 0
}
