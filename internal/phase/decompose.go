package phase

import (
	"math"

	"github.com/CifLord/phasehull/internal/comp"
	"github.com/CifLord/phasehull/internal/hull"
)

// Portion is one stable entry's share of a decomposition. Amount is the
// fraction of the queried composition's atoms supplied by the entry.
type Portion struct {
	Entry  Entry
	Amount float64
}

// Decomposition is the equilibrium mixture of stable entries a composition
// separates into, with the mixture's energy per atom.
type Decomposition struct {
	Portions []Portion
	Energy   float64
}

// Decompose finds the lower-hull facet whose composition simplex contains c
// and returns the barycentric mixture of its vertices reproducing c. A
// composition on a boundary shared by several facets resolves to the facet
// with the canonically smallest vertex ordering; vertices with zero weight
// are omitted from the result. Returns ErrOutOfBounds when c contains an
// element absent from the diagram.
//
// For a stable entry's composition the decomposition is the entry itself and
// the energy equals the entry's energy per atom.
func (d *PhaseDiagram) Decompose(c comp.Composition) (Decomposition, error) {
	if c.NAtoms() <= 0 {
		return Decomposition{}, ErrInvalidEntry
	}
	fr, err := d.fullFracs(c)
	if err != nil {
		return Decomposition{}, err
	}
	f, w, err := d.findFacet(fr)
	if err != nil {
		return Decomposition{}, err
	}

	dec := Decomposition{}
	for j, weight := range w {
		dec.Energy += weight * f.epas[j]
		if weight <= d.tol {
			// Boundary compositions sit on a sub-simplex; vertices outside
			// it carry no weight and drop out of the reaction.
			continue
		}
		dec.Portions = append(dec.Portions, Portion{
			Entry:  d.entries[f.idx[j]],
			Amount: weight,
		})
	}
	return dec, nil
}

// findFacet locates the facet containing the fraction vector fr, returning
// it with the barycentric weights of fr in its simplex. Facets are scanned
// in canonical order, so boundary ties resolve to the canonically smallest
// facet. A small negative weight within tolerance counts as containment.
func (d *PhaseDiagram) findFacet(fr []float64) (*diagramFacet, []float64, error) {
	var fallback *diagramFacet
	var fallbackW []float64
	fallbackMin := math.Inf(-1)

	for fi := range d.facets {
		f := &d.facets[fi]
		w, err := d.barycentric(f, fr)
		if err != nil {
			continue
		}
		minw := math.Inf(1)
		for _, x := range w {
			if x < minw {
				minw = x
			}
		}
		if minw >= -d.tol {
			return f, w, nil
		}
		if minw > fallbackMin {
			fallback, fallbackW, fallbackMin = f, w, minw
		}
	}

	// Every in-bounds composition lies in some facet's simplex; a miss here
	// is floating-point slip on a shared boundary. Accept the least-negative
	// candidate within a loose guard before declaring the query outside.
	if fallback != nil && fallbackMin >= -1e3*d.tol {
		return fallback, fallbackW, nil
	}
	return nil, nil, ErrOutOfBounds
}

// barycentric solves for weights w with sum(w) = 1 and
// sum(w_j * vertexFrac_j) = fr over the facet's vertices.
func (d *PhaseDiagram) barycentric(f *diagramFacet, fr []float64) ([]float64, error) {
	k := len(d.elements)
	a := make([][]float64, k)
	b := make([]float64, k)
	a[0] = make([]float64, k)
	for j := range f.idx {
		a[0][j] = 1
	}
	b[0] = 1
	for r := 1; r < k; r++ {
		a[r] = make([]float64, k)
		for j := range f.idx {
			a[r][j] = f.fracs[j][r]
		}
		b[r] = fr[r]
	}
	return hull.Solve(a, b)
}
