package phase

import (
	"fmt"
	"math"

	"github.com/CifLord/phasehull/internal/hull"
)

// Range is a closed interval of chemical potential.
type Range struct {
	Min float64
	Max float64
}

// ChempotRanges returns, per element, the range of chemical potentials over
// which the given stable entry remains an equilibrium phase. Each lower-hull
// facet touching the entry fixes one chemical-potential vector (the solution
// of the facet's composition-energy system); the range is the spread of
// those solutions across adjacent facets. Returns ErrNotStable when the
// entry is not on the hull.
func (d *PhaseDiagram) ChempotRanges(e Entry) (map[string]Range, error) {
	idx := -1
	epa := e.EnergyPerAtom()
	for _, i := range d.stableIdx {
		s := d.entries[i]
		if s.Comp.AlmostEquals(e.Comp, d.tol) && math.Abs(s.EnergyPerAtom()-epa) <= d.tol {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotStable, e.DisplayName())
	}

	ranges := make(map[string]Range, len(d.elements))
	seen := false
	for fi := range d.facets {
		f := &d.facets[fi]
		if !containsInt(f.idx, idx) {
			continue
		}
		mu, err := d.facetChempots(f)
		if err != nil {
			// A facet whose composition matrix is singular within pivot
			// tolerance cannot constrain the potentials.
			continue
		}
		for i, el := range d.elements {
			r, ok := ranges[el]
			if !ok {
				r = Range{Min: mu[i], Max: mu[i]}
			} else {
				if mu[i] < r.Min {
					r.Min = mu[i]
				}
				if mu[i] > r.Max {
					r.Max = mu[i]
				}
			}
			ranges[el] = r
		}
		seen = true
	}
	if !seen {
		return nil, fmt.Errorf("%w: %s touches no facet", ErrNotStable, e.DisplayName())
	}
	return ranges, nil
}

// facetChempots solves for the per-element chemical potentials fixed by one
// facet: for every vertex, the composition-weighted potentials equal the
// vertex energy per atom.
func (d *PhaseDiagram) facetChempots(f *diagramFacet) ([]float64, error) {
	k := len(d.elements)
	a := make([][]float64, k)
	b := make([]float64, k)
	for j := range f.idx {
		a[j] = append([]float64(nil), f.fracs[j]...)
		b[j] = f.epas[j]
	}
	return hull.Solve(a, b)
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
