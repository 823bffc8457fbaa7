package compressed

import "fmt"

// defaultSeedLimit is how many inserted elements a recalculation derives eagerly.
const defaultSeedLimit = 64

// Option configures a LazyList.
type Option func(*options)

type options struct {
	seedLimit int
	interval  int
}

// WithSeedLimit caps the number of inserted elements derived during
// Recalculate. Zero disables eager seeding; inserted elements are then derived
// on first read.
func WithSeedLimit(n int) Option {
	return func(o *options) {
		o.seedLimit = max(n, 0)
	}
}

// WithAnchorInterval makes Recalculate also re-derive an anchor at every
// multiple of k after the edit, bounding the stride of later reads. Each such
// anchor costs one generator call per recalculation. Zero disables it.
func WithAnchorInterval(k int) Option {
	return func(o *options) {
		o.interval = max(k, 0)
	}
}

// LazyList stores only the anchors that were read or seeded by edits and
// derives any other element with a single generator call from the nearest
// anchor before it.
//
// Anchors at or after the start of an edit are dropped by Recalculate: the
// generator may answer differently for those positions afterwards.
type LazyList[T any] struct {
	gen     Generator[T]
	anchors AnchorStore[T]
	length  int
	opts    options
	counters
}

// NewLazy creates a list of length n over gen. No generator calls are made
// until the list is read or recalculated.
func NewLazy[T any](gen Generator[T], n int, opts ...Option) (*LazyList[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}

	list := &LazyList[T]{
		gen:    gen,
		length: n,
		opts:   options{seedLimit: defaultSeedLimit},
	}

	for _, opt := range opts {
		opt(&list.opts)
	}

	return list, nil
}

// Len returns the logical length.
func (l *LazyList[T]) Len() int {
	return l.length
}

// Get returns the element at index i, memoizing it as an anchor.
func (l *LazyList[T]) Get(i int) (T, error) {
	var zero T

	err := checkIndex(i, l.length)
	if err != nil {
		return zero, err
	}

	if a, ok := l.anchors.Get(i); ok {
		l.hits++

		return a.Value, nil
	}

	l.misses++

	origin, stored, err := l.origin(i)
	if err != nil {
		return zero, err
	}

	if !stored {
		l.anchors.Put(origin)
	}

	if origin.Index == i {
		return origin.Value, nil
	}

	v, err := l.generate(origin, i)
	if err != nil {
		return zero, err
	}

	l.anchors.Put(Anchor[T]{Index: i, Value: v})

	return v, nil
}

// origin returns the anchor to derive index from. When no stored anchor
// precedes index it returns the first element with stored set to false.
func (l *LazyList[T]) origin(index int) (Anchor[T], bool, error) {
	a, ok := l.anchors.NearestAtOrBefore(index)
	if ok {
		return a, true, nil
	}

	l.firstCalls++

	first, err := l.gen.First()
	if err != nil {
		return Anchor[T]{}, false, fmt.Errorf("generate first: %w", err)
	}

	return Anchor[T]{Index: 0, Value: first}, false, nil
}

func (l *LazyList[T]) generate(from Anchor[T], index int) (T, error) {
	l.generateCalls++

	v, err := l.gen.Generate(from.Value, index-from.Index)
	if err != nil {
		return v, fmt.Errorf("generate index %d from %d: %w", index, from.Index, err)
	}

	return v, nil
}

// Recalculate applies r. Every anchor at or after r.From() is dropped, then up
// to the seed limit of the inserted elements and, with an anchor interval,
// the periodic anchors after them are derived from the nearest surviving
// anchor. On a generator error the list still reflects r but holds fewer anchors.
func (l *LazyList[T]) Recalculate(r Replace) error {
	err := r.Validate(l.length)
	if err != nil {
		return err
	}

	oldLen := l.length
	l.length += r.NetDelta()
	l.recalculations++

	fresh, seedErr := l.seed(r)

	l.anchors.RewriteInterval(r.From(), oldLen-1, r.NetDelta(), fresh)

	return seedErr
}

// seed derives the anchors placed at r.From() and after it. The list length
// must already include r.
func (l *LazyList[T]) seed(r Replace) ([]Anchor[T], error) {
	targets := l.seedTargets(r)
	if len(targets) == 0 {
		return nil, nil
	}

	origin, stored, err := l.origin(r.From() - 1)
	if err != nil {
		return nil, err
	}

	fresh := make([]Anchor[T], 0, len(targets))

	if !stored {
		if r.From() > 0 {
			l.anchors.Put(origin)
		} else {
			fresh = append(fresh, origin)
		}
	}

	for _, index := range targets {
		if index == origin.Index {
			continue
		}

		v, genErr := l.generate(origin, index)
		if genErr != nil {
			return nil, genErr
		}

		fresh = append(fresh, Anchor[T]{Index: index, Value: v})
	}

	return fresh, nil
}

// seedTargets lists the indices Recalculate derives for r, in order.
func (l *LazyList[T]) seedTargets(r Replace) []int {
	end := r.From() + min(r.Added(), l.opts.seedLimit)

	var targets []int

	for i := r.From(); i < end; i++ {
		targets = append(targets, i)
	}

	k := l.opts.interval
	if k == 0 {
		return targets
	}

	next := (end + k - 1) / k * k
	for i := next; i < l.length; i += k {
		targets = append(targets, i)
	}

	return targets
}

// Sequence returns a read-only view of the list.
func (l *LazyList[T]) Sequence() *Sequence[T] {
	return &Sequence[T]{src: l}
}

// Stats returns the current counters.
func (l *LazyList[T]) Stats() Stats {
	return l.snapshot(l.length, l.anchors.Len())
}

// Anchors returns the stored anchors.
func (l *LazyList[T]) Anchors() *AnchorStore[T] {
	return &l.anchors
}

// Validate panics if the anchor store is out of order or indexes past the end.
func (l *LazyList[T]) Validate() {
	l.anchors.Validate(l.length)
}

func (l *LazyList[T]) sealed() {}
