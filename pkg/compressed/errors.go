// Package compressed provides lists over a generated sequence that keep only a
// sparse set of materialized values and re-derive the rest from a Generator.
//
// Two strategies share the List interface: FullList materializes every element
// and serves as the reference, LazyList stores anchors only where values were
// read or edited. Both are confined to a single goroutine.
package compressed

import "errors"

// Sentinel errors.
var (
	// ErrInvalidReplace is returned when a Replace violates its bounds.
	ErrInvalidReplace = errors.New("invalid replace")

	// ErrOutOfRange is returned when an index or a generator step leaves the sequence.
	ErrOutOfRange = errors.New("out of range")

	// ErrInvalidLength is returned when a list is created with a negative length.
	ErrInvalidLength = errors.New("invalid length")

	// ErrUnknownStrategy is returned by ParseStrategy for unsupported names.
	ErrUnknownStrategy = errors.New("unknown strategy")
)
