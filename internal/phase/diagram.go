// Package phase implements the phase-diagram engine: given entries pairing
// chemical compositions with computed energies, it builds the lower convex
// hull in (composition-fraction, energy-per-atom) space and answers
// thermodynamic stability queries against it.
//
// A PhaseDiagram is built once, eagerly, and is immutable afterwards; all
// query methods are pure reads and safe for concurrent use. Construction
// failures are atomic: no partially built diagram is ever observable.
package phase

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/CifLord/phasehull/internal/comp"
	"github.com/CifLord/phasehull/internal/hull"
)

// DefaultTolerance is the energy/composition coincidence tolerance used when
// Options.Tolerance is not set. Two energies per atom within this value are
// treated as equal.
const DefaultTolerance = 1e-6

// Options configures diagram construction.
type Options struct {
	// Tolerance is the coincidence/degeneracy epsilon. Zero selects
	// DefaultTolerance.
	Tolerance float64

	// ExcludePositiveCorrections drops entries carrying a positive energy
	// correction before the hull is built. Exclusion happens before the
	// elemental-reference check, so stripping a corrected reference entry
	// surfaces as ErrMissingReference.
	ExcludePositiveCorrections bool
}

// Facet is one face of the lower hull: k entries (k = number of elements)
// whose compositions span a simplex of the composition space.
type Facet struct {
	Entries []Entry
}

// PhaseDiagram aggregates entries, the computed lower-hull facets, and the
// derived stability indices. Construct with New.
type PhaseDiagram struct {
	tol         float64
	entries     []Entry
	elements    []string
	refEnergies map[string]float64
	facets      []diagramFacet
	stableIdx   []int
}

// diagramFacet caches per-vertex fraction vectors and energies so query-time
// barycentric and chemical-potential solves need no recomputation.
type diagramFacet struct {
	idx   []int       // indices into entries, canonical order
	fracs [][]float64 // full k-length fraction vector per vertex
	epas  []float64   // energy per atom per vertex
}

// New builds a phase diagram from the given entries. The entry slice is
// copied; entries are immutable once admitted.
//
// Duplicate compositions are deduplicated before hull construction: the
// lowest-energy entry at each composition becomes canonical, and among
// entries whose energies coincide within tolerance the first-seen entry
// wins. Every element appearing in any composition must have at least one
// pure-element entry (ErrMissingReference otherwise).
func New(entries []Entry, opts Options) (*PhaseDiagram, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	tol := opts.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	admitted := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if opts.ExcludePositiveCorrections && e.Correction > 0 {
			continue
		}
		admitted = append(admitted, e)
	}
	if len(admitted) == 0 {
		return nil, fmt.Errorf("%w: every entry was excluded by options", ErrNoEntries)
	}

	elements := elementUnion(admitted)

	// Elemental references anchor the corners of the composition simplex;
	// without one per element the hull cannot close.
	refs := make(map[string]float64, len(elements))
	for _, e := range admitted {
		el, pure := e.Comp.Pure()
		if !pure {
			continue
		}
		epa := e.EnergyPerAtom()
		if cur, ok := refs[el]; !ok || epa < cur {
			refs[el] = epa
		}
	}
	for _, el := range elements {
		if _, ok := refs[el]; !ok {
			return nil, fmt.Errorf("%w: element %s", ErrMissingReference, el)
		}
	}

	d := &PhaseDiagram{
		tol:         tol,
		entries:     admitted,
		elements:    elements,
		refEnergies: refs,
	}

	reps := d.dedup()
	k := len(elements)

	if k == 1 {
		// Single-element diagram: the lone canonical entry (the lowest-
		// energy polymorph) is the hull.
		d.facets = []diagramFacet{d.facetOf([]int{reps[0]})}
		d.stableIdx = []int{reps[0]}
		return d, nil
	}

	pts := make([][]float64, 0, len(reps)+1)
	maxEPA := math.Inf(-1)
	for _, i := range reps {
		e := d.entries[i]
		epa := e.EnergyPerAtom()
		if epa > maxEPA {
			maxEPA = epa
		}
		pt := make([]float64, 0, k)
		for _, el := range elements[1:] {
			pt = append(pt, e.Comp.Fraction(el))
		}
		pts = append(pts, append(pt, epa))
	}

	// Sentinel point above the centroid composition. It closes the hull
	// from above, so the point set is always full-dimensional and every
	// facet not touching the sentinel belongs to the lower envelope.
	sentinel := make([]float64, k)
	for i := 0; i < k-1; i++ {
		sentinel[i] = 1.0 / float64(k)
	}
	sentinel[k-1] = maxEPA + 1.0
	pts = append(pts, sentinel)
	sentinelIdx := len(reps)

	h, err := hull.Build(pts, tol)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}

	stableSet := map[int]bool{}
	for _, f := range h.Lower(tol) {
		touchesSentinel := false
		idx := make([]int, 0, len(f.Vertices))
		for _, v := range f.Vertices {
			if v == sentinelIdx {
				touchesSentinel = true
				break
			}
			idx = append(idx, reps[v])
		}
		if touchesSentinel {
			continue
		}
		d.facets = append(d.facets, d.facetOf(idx))
		for _, i := range idx {
			stableSet[i] = true
		}
	}
	if len(d.facets) == 0 {
		return nil, fmt.Errorf("%w: no lower facets", ErrDegenerate)
	}

	for i := range stableSet {
		d.stableIdx = append(d.stableIdx, i)
	}
	sort.Slice(d.stableIdx, func(a, b int) bool {
		return d.entryLess(d.stableIdx[a], d.stableIdx[b])
	})
	sort.Slice(d.facets, func(a, b int) bool {
		return d.facetLess(&d.facets[a], &d.facets[b])
	})
	return d, nil
}

// Entries returns a copy of the admitted entries in input order.
func (d *PhaseDiagram) Entries() []Entry {
	return append([]Entry(nil), d.entries...)
}

// Elements returns the diagram's element symbols, sorted.
func (d *PhaseDiagram) Elements() []string {
	return append([]string(nil), d.elements...)
}

// Tolerance returns the coincidence epsilon the diagram was built with.
func (d *PhaseDiagram) Tolerance() float64 {
	return d.tol
}

// ReferenceEnergy returns the energy per atom of the element's reference
// entry (its lowest-energy pure form).
func (d *PhaseDiagram) ReferenceEnergy(el string) (float64, bool) {
	epa, ok := d.refEnergies[el]
	return epa, ok
}

// StableEntries returns the entries on the lower hull, in canonical order
// (by composition, then energy).
func (d *PhaseDiagram) StableEntries() []Entry {
	out := make([]Entry, len(d.stableIdx))
	for i, idx := range d.stableIdx {
		out[i] = d.entries[idx]
	}
	return out
}

// Facets returns the lower-hull facets in canonical order.
func (d *PhaseDiagram) Facets() []Facet {
	out := make([]Facet, len(d.facets))
	for i, f := range d.facets {
		entries := make([]Entry, len(f.idx))
		for j, idx := range f.idx {
			entries[j] = d.entries[idx]
		}
		out[i] = Facet{Entries: entries}
	}
	return out
}

// IsStable reports whether the entry lies on the lower hull: its composition
// and energy per atom coincide, within tolerance, with a stable entry.
func (d *PhaseDiagram) IsStable(e Entry) bool {
	epa := e.EnergyPerAtom()
	for _, idx := range d.stableIdx {
		s := d.entries[idx]
		if s.Comp.AlmostEquals(e.Comp, d.tol) && math.Abs(s.EnergyPerAtom()-epa) <= d.tol {
			return true
		}
	}
	return false
}

// EAboveHull returns the entry's energy per atom in excess of the hull's
// envelope at its composition. Stable entries return 0; a negative value
// (below -tolerance) means the entry lies under the current hull and is not
// part of this diagram. Returns ErrOutOfBounds when the composition contains
// an element absent from the diagram.
func (d *PhaseDiagram) EAboveHull(e Entry) (float64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	env, err := d.envelopeAt(e.Comp)
	if err != nil {
		return 0, err
	}
	val := e.EnergyPerAtom() - env
	if val < 0 && val >= -d.tol {
		val = 0
	}
	return val, nil
}

// FormationEnergy returns the entry's energy per atom relative to the
// composition-weighted elemental references.
func (d *PhaseDiagram) FormationEnergy(e Entry) (float64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	fr, err := d.fullFracs(e.Comp)
	if err != nil {
		return 0, err
	}
	form := e.EnergyPerAtom()
	for i, el := range d.elements {
		form -= fr[i] * d.refEnergies[el]
	}
	return form, nil
}

// envelopeAt evaluates the lower hull's energy per atom at a composition.
func (d *PhaseDiagram) envelopeAt(c comp.Composition) (float64, error) {
	fr, err := d.fullFracs(c)
	if err != nil {
		return 0, err
	}
	f, w, err := d.findFacet(fr)
	if err != nil {
		return 0, err
	}
	var env float64
	for j, weight := range w {
		env += weight * f.epas[j]
	}
	return env, nil
}

// fullFracs projects a composition onto the diagram's element axes,
// returning the k-length mole-fraction vector. A composition carrying an
// element outside the diagram is ErrOutOfBounds.
func (d *PhaseDiagram) fullFracs(c comp.Composition) ([]float64, error) {
	for _, el := range c.Elements() {
		if !containsString(d.elements, el) {
			return nil, fmt.Errorf("%w: element %s", ErrOutOfBounds, el)
		}
	}
	fr := make([]float64, len(d.elements))
	for i, el := range d.elements {
		fr[i] = c.Fraction(el)
	}
	return fr, nil
}

// dedup collapses entries sharing a composition (within tolerance) to the
// lowest-energy one. First-seen wins ties within tolerance, which keeps
// canonical selection deterministic for identical inputs.
func (d *PhaseDiagram) dedup() []int {
	byKey := map[string]int{}
	var order []string
	for i, e := range d.entries {
		key := d.fracKey(e.Comp)
		j, ok := byKey[key]
		if !ok {
			byKey[key] = i
			order = append(order, key)
			continue
		}
		if e.EnergyPerAtom() < d.entries[j].EnergyPerAtom()-d.tol {
			byKey[key] = i
		}
	}
	reps := make([]int, 0, len(order))
	for _, key := range order {
		reps = append(reps, byKey[key])
	}
	return reps
}

// fracKey quantizes a composition's fraction vector at the tolerance.
func (d *PhaseDiagram) fracKey(c comp.Composition) string {
	var b strings.Builder
	for _, el := range d.elements {
		b.WriteString(strconv.FormatInt(int64(math.Round(c.Fraction(el)/d.tol)), 36))
		b.WriteByte('|')
	}
	return b.String()
}

// facetOf builds a diagramFacet with vertices in canonical order and cached
// fraction/energy columns.
func (d *PhaseDiagram) facetOf(idx []int) diagramFacet {
	sorted := append([]int(nil), idx...)
	sort.Slice(sorted, func(a, b int) bool { return d.entryLess(sorted[a], sorted[b]) })
	f := diagramFacet{idx: sorted}
	for _, i := range sorted {
		fr, _ := d.fullFracs(d.entries[i].Comp)
		f.fracs = append(f.fracs, fr)
		f.epas = append(f.epas, d.entries[i].EnergyPerAtom())
	}
	return f
}

// entryLess is the canonical entry order: fraction vector, then energy per
// atom, then name, then input position.
func (d *PhaseDiagram) entryLess(i, j int) bool {
	a, b := d.entries[i], d.entries[j]
	for _, el := range d.elements {
		fa, fb := a.Comp.Fraction(el), b.Comp.Fraction(el)
		if fa != fb {
			return fa < fb
		}
	}
	if ea, eb := a.EnergyPerAtom(), b.EnergyPerAtom(); ea != eb {
		return ea < eb
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return i < j
}

// facetLess orders facets by their canonical vertex sequences. This is the
// deterministic tie-break for compositions on shared facet boundaries.
func (d *PhaseDiagram) facetLess(a, b *diagramFacet) bool {
	n := len(a.idx)
	if len(b.idx) < n {
		n = len(b.idx)
	}
	for v := 0; v < n; v++ {
		if a.idx[v] != b.idx[v] {
			return d.entryLess(a.idx[v], b.idx[v])
		}
	}
	return len(a.idx) < len(b.idx)
}

// elementUnion returns the sorted set of elements across all entries.
func elementUnion(entries []Entry) []string {
	seen := map[string]bool{}
	for _, e := range entries {
		for _, el := range e.Comp.Elements() {
			seen[el] = true
		}
	}
	out := make([]string, 0, len(seen))
	for el := range seen {
		out = append(out, el)
	}
	sort.Strings(out)
	return out
}

func containsString(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
