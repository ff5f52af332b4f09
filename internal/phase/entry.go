package phase

import (
	"fmt"

	"github.com/CifLord/phasehull/internal/comp"
)

// Entry kinds tag where an entry's energy came from. The hull never inspects
// the kind; it exists for provenance display and filtering by callers.
const (
	KindComputed     = "computed"
	KindExperimental = "experimental"
	KindCorrected    = "corrected"
)

// Entry is one immutable composition+energy sample. Energy is the total
// energy for the composition's atom count, not per atom; Correction is an
// additive adjustment applied on top of Energy everywhere the engine
// evaluates it.
type Entry struct {
	Name       string            // optional identifier; DisplayName falls back to the formula
	Comp       comp.Composition  // element → amount, at least one atom
	Energy     float64           // total energy
	Correction float64           // additive energy correction
	Kind       string            // KindComputed, KindExperimental, KindCorrected
	Attributes map[string]string // opaque caller metadata
}

// NewEntry builds a computed entry from a formula string.
func NewEntry(formula string, energy float64) (Entry, error) {
	c, err := comp.Parse(formula)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %q: %w", formula, err)
	}
	return Entry{Comp: c, Energy: energy, Kind: KindComputed}, nil
}

// TotalEnergy returns the corrected total energy.
func (e Entry) TotalEnergy() float64 {
	return e.Energy + e.Correction
}

// EnergyPerAtom returns the corrected energy divided by the atom count.
func (e Entry) EnergyPerAtom() float64 {
	n := e.Comp.NAtoms()
	if n == 0 {
		return 0
	}
	return e.TotalEnergy() / n
}

// DisplayName returns the entry's name, or its reduced formula when unnamed.
func (e Entry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Comp.ReducedFormula()
}

// Validate checks the entry invariant: a composition with at least one atom.
func (e Entry) Validate() error {
	if e.Comp.NAtoms() <= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidEntry, e.Name)
	}
	return nil
}
