package difftest

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/lazyseq/pkg/compressed"
)

// ErrMismatch is returned when two materializations of the sequence differ.
var ErrMismatch = errors.New("materializations differ")

// StepResult describes one edit applied by a Harness.
//
// LazyGenerateCalls counts the lazy list's calls during Recalculate and
// LazyReadCalls the calls made serving the reads that followed the edit.
// The full list makes no calls on reads, so FullGenerateCalls is its whole cost.
type StepResult struct {
	Step              int    `json:"step"                yaml:"step"`
	Replace           string `json:"replace"             yaml:"replace"`
	Len               int    `json:"len"                 yaml:"len"`
	Anchors           int    `json:"anchors"             yaml:"anchors"`
	LazyGenerateCalls int    `json:"lazy_generate_calls" yaml:"lazy_generate_calls"`
	LazyReadCalls     int    `json:"lazy_read_calls"     yaml:"lazy_read_calls"`
	FullGenerateCalls int    `json:"full_generate_calls" yaml:"full_generate_calls"`
}

// LazyCalls returns the lazy list's total generator calls for the step.
func (r StepResult) LazyCalls() int {
	return r.LazyGenerateCalls + r.LazyReadCalls
}

// Harness keeps a Domain, a full list and a lazy list in lock-step.
type Harness struct {
	domain  *Domain
	full    *compressed.FullList[int]
	lazy    *compressed.LazyList[int]
	fullGen *Counting[int]
	lazyGen *Counting[int]
	steps   int
}

// NewHarness builds a domain of n rows and both lists over it. Options are
// passed to the lazy list.
func NewHarness(n int, opts ...compressed.Option) (*Harness, error) {
	domain := NewDomain(n)
	fullGen := NewCounting(domain.Generator())
	lazyGen := NewCounting(domain.Generator())

	full, err := compressed.NewFull[int](fullGen, n)
	if err != nil {
		return nil, fmt.Errorf("full list: %w", err)
	}

	lazy, err := compressed.NewLazy[int](lazyGen, n, opts...)
	if err != nil {
		return nil, fmt.Errorf("lazy list: %w", err)
	}

	return &Harness{
		domain:  domain,
		full:    full,
		lazy:    lazy,
		fullGen: fullGen,
		lazyGen: lazyGen,
	}, nil
}

// Domain returns the shared domain.
func (h *Harness) Domain() *Domain { return h.domain }

// Full returns the reference list.
func (h *Harness) Full() *compressed.FullList[int] { return h.full }

// Lazy returns the list under test.
func (h *Harness) Lazy() *compressed.LazyList[int] { return h.lazy }

// LazyGenerator returns the counting generator behind the lazy list.
func (h *Harness) LazyGenerator() *Counting[int] { return h.lazyGen }

// Step edits the domain, recalculates both lists and checks them in full.
// The check reads every element of the lazy list, so the next edit starts
// from a fully memoized list.
func (h *Harness) Step(r compressed.Replace) (StepResult, error) {
	result, err := h.Apply(r)
	if err != nil {
		return result, err
	}

	return result, h.Check(r.String())
}

// Apply edits the domain and recalculates both lists without reading the
// lazy list, so anchors it has not stored stay unstored. Only the anchor
// store's ordering is checked.
func (h *Harness) Apply(r compressed.Replace) (StepResult, error) {
	h.fullGen.Reset()
	h.lazyGen.Reset()

	err := h.domain.Apply(r)
	if err != nil {
		return StepResult{}, fmt.Errorf("apply %s to domain: %w", r, err)
	}

	err = h.full.Recalculate(r)
	if err != nil {
		return StepResult{}, fmt.Errorf("full recalculate %s: %w", r, err)
	}

	err = h.lazy.Recalculate(r)
	if err != nil {
		return StepResult{}, fmt.Errorf("lazy recalculate %s: %w", r, err)
	}

	h.lazy.Validate()
	h.steps++

	return StepResult{
		Step:              h.steps,
		Replace:           r.String(),
		Len:               h.lazy.Len(),
		Anchors:           h.lazy.Anchors().Len(),
		LazyGenerateCalls: h.lazyGen.Calls(),
		FullGenerateCalls: h.fullGen.Calls(),
	}, nil
}

// ReadAll reads each index from both lists, comparing them with the domain,
// and returns the lazy list's generator calls for those reads.
func (h *Harness) ReadAll(indices ...int) (int, error) {
	h.lazyGen.Reset()

	for _, i := range indices {
		err := h.Read(i)
		if err != nil {
			return h.lazyGen.Calls(), err
		}
	}

	return h.lazyGen.Calls(), nil
}

// Read compares a single element of both lists and the domain.
func (h *Harness) Read(i int) error {
	want, err := h.full.Get(i)
	if err != nil {
		return fmt.Errorf("full get %d: %w", i, err)
	}

	got, err := h.lazy.Get(i)
	if err != nil {
		return fmt.Errorf("lazy get %d: %w", i, err)
	}

	if want != got {
		return fmt.Errorf("%w: index %d: full %d, lazy %d", ErrMismatch, i, want, got)
	}

	if i >= len(h.domain.rows) {
		return fmt.Errorf("%w: index %d past domain end %d", ErrMismatch, i, len(h.domain.rows))
	}

	if row := h.domain.rows[i]; row != want {
		return fmt.Errorf("%w: index %d: domain %d, full %d", ErrMismatch, i, row, want)
	}

	return nil
}

// Check compares the domain rows with both lists' full materializations.
// The label names the edit in the error.
func (h *Harness) Check(label string) error {
	want := h.domain.Rows()

	full, err := compressed.Collect[int](h.full)
	if err != nil {
		return fmt.Errorf("%s: collect full: %w", label, err)
	}

	if !slices.Equal(want, full) {
		return fmt.Errorf("%w after %s: full list vs domain:\n%s", ErrMismatch, label, renderDiff(want, full))
	}

	lazy, err := compressed.Collect[int](h.lazy)
	if err != nil {
		return fmt.Errorf("%s: collect lazy: %w", label, err)
	}

	if !slices.Equal(full, lazy) {
		return fmt.Errorf("%w after %s: lazy list vs full list:\n%s", ErrMismatch, label, renderDiff(full, lazy))
	}

	h.lazy.Validate()

	return nil
}

// renderDiff prints the lines that differ between want and got, one value per line.
func renderDiff(want, got []int) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(joinLines(want), joinLines(got))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder

	for _, d := range diffs {
		var prefix string

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffEqual:
			continue
		}

		for line := range strings.SplitSeq(strings.TrimSuffix(d.Text, "\n"), "\n") {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

func joinLines(values []int) string {
	var sb strings.Builder

	for _, v := range values {
		sb.WriteString(strconv.Itoa(v))
		sb.WriteByte('\n')
	}

	return sb.String()
}
