package phase

import "errors"

var (
	// ErrNoEntries is returned when a diagram is constructed with no usable
	// entries.
	ErrNoEntries = errors.New("no entries supplied")

	// ErrInvalidEntry is returned when an entry's composition has no atoms.
	ErrInvalidEntry = errors.New("entry has no atoms")

	// ErrMissingReference is returned when an element present in the entry
	// set has no pure-element entry to anchor its corner of the diagram.
	ErrMissingReference = errors.New("missing elemental reference entry")

	// ErrOutOfBounds is returned by queries for compositions outside the
	// diagram's element space. The diagram remains usable.
	ErrOutOfBounds = errors.New("composition outside the diagram's element space")

	// ErrNotStable is returned when a chemical-potential query names an
	// entry that is not on the hull.
	ErrNotStable = errors.New("entry is not stable")

	// ErrDegenerate is returned when the admitted entries do not span the
	// composition-energy space. With elemental references validated this
	// indicates inconsistent input rather than a geometry failure.
	ErrDegenerate = errors.New("entries do not span the composition space")
)
