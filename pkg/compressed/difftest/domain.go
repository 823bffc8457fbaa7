// Package difftest drives the full and lazy list strategies through the same
// edits over a shared, mutable domain and reports any divergence.
package difftest

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/lazyseq/pkg/compressed"
)

// ErrUnknownRow is returned when a generator is asked to step from a row that
// is no longer part of the domain. It means a stale value was used.
var ErrUnknownRow = errors.New("row not in domain")

// Domain is a mutable sequence of unique row ids, standing in for the data a
// real generator reads (for example the rows of a commit graph). All state is
// owned by the instance.
type Domain struct {
	rows   []int
	pos    map[int]int
	nextID int
}

// NewDomain creates a domain holding the rows 0..n-1, so that initially each
// row id equals its index.
func NewDomain(n int) *Domain {
	d := &Domain{
		rows:   make([]int, n),
		pos:    make(map[int]int, n),
		nextID: n,
	}

	for i := range n {
		d.rows[i] = i
		d.pos[i] = i
	}

	return d
}

// Len returns the number of rows.
func (d *Domain) Len() int {
	return len(d.rows)
}

// Rows returns a copy of the current rows.
func (d *Domain) Rows() []int {
	return slices.Clone(d.rows)
}

// Apply edits the rows as r describes. Inserted rows get fresh ids that were
// never used before.
func (d *Domain) Apply(r compressed.Replace) error {
	err := r.Validate(len(d.rows))
	if err != nil {
		return err
	}

	for _, id := range d.rows[r.From() : r.To()+1] {
		delete(d.pos, id)
	}

	added := make([]int, r.Added())
	for i := range added {
		added[i] = d.nextID
		d.nextID++
	}

	d.rows = slices.Replace(d.rows, r.From(), r.To()+1, added...)

	for i := r.From(); i < len(d.rows); i++ {
		d.pos[d.rows[i]] = i
	}

	return nil
}

// Generator returns a generator reading the domain's current rows.
func (d *Domain) Generator() compressed.Generator[int] {
	return domainGenerator{domain: d}
}

type domainGenerator struct {
	domain *Domain
}

func (g domainGenerator) First() (int, error) {
	if len(g.domain.rows) == 0 {
		return 0, fmt.Errorf("%w: empty domain", compressed.ErrOutOfRange)
	}

	return g.domain.rows[0], nil
}

func (g domainGenerator) Generate(prev, steps int) (int, error) {
	at, ok := g.domain.pos[prev]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownRow, prev)
	}

	target := at + steps
	if target < 0 || target >= len(g.domain.rows) {
		return 0, fmt.Errorf("%w: step %d from index %d (len %d)",
			compressed.ErrOutOfRange, steps, at, len(g.domain.rows))
	}

	return g.domain.rows[target], nil
}
