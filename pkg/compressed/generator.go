package compressed

// Generator defines a logical sequence by its first element and a successor
// function that can jump any number of steps.
//
// Results must be deterministic within a single call but may change between
// calls when the data the generator reads is edited. Within one state,
// Generate(Generate(x, a), b) equals Generate(x, a+b).
type Generator[T any] interface {
	// First returns the element at index 0.
	First() (T, error)

	// Generate returns the element steps positions after prev. It returns an
	// error wrapping ErrOutOfRange when the target leaves the sequence.
	Generate(prev T, steps int) (T, error)
}

// GeneratorFuncs adapts a pair of functions to the Generator interface.
type GeneratorFuncs[T any] struct {
	FirstFunc    func() (T, error)
	GenerateFunc func(prev T, steps int) (T, error)
}

// First calls FirstFunc.
func (g GeneratorFuncs[T]) First() (T, error) {
	return g.FirstFunc()
}

// Generate calls GenerateFunc.
func (g GeneratorFuncs[T]) Generate(prev T, steps int) (T, error) {
	return g.GenerateFunc(prev, steps)
}
