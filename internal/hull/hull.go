// Package hull computes exact convex hulls of small point sets in arbitrary
// dimension. It exists to support phase-diagram construction, where the final
// coordinate is an energy axis and only the minimum-energy (lower) facets
// matter, but the hull itself is generic.
//
// The algorithm is incremental insertion (beneath-beyond): seed a full-
// dimensional simplex, then for each remaining point find the facets it sees,
// extract the horizon ridges, and replace the visible facets with the cone
// from the point over the horizon. Visibility uses an absolute tolerance so
// coplanar points within noise do not generate sliver facets.
package hull

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoPoints is returned when Build is given an empty point set.
var ErrNoPoints = errors.New("no points supplied")

// ErrDegenerate is returned when the points do not span a full-dimensional
// simplex and no hull of the requested dimension exists.
var ErrDegenerate = errors.New("points do not span the space")

// ErrDimension is returned when points have inconsistent dimensions.
var ErrDimension = errors.New("inconsistent point dimensions")

// DefaultTol is the visibility tolerance used when Build is given a
// non-positive tolerance.
const DefaultTol = 1e-9

// Facet is one face of a convex hull: dim vertices spanning a hyperplane
// with an outward unit normal. A point x lies outside the facet's halfspace
// when Normal·x > Offset.
type Facet struct {
	Vertices []int     // indices into the input points, ascending
	Normal   []float64 // outward unit normal
	Offset   float64   // Normal·x == Offset on the facet plane
}

// Dist returns the signed distance of p from the facet plane, positive
// outside the hull.
func (f Facet) Dist(p []float64) float64 {
	return dot(f.Normal, p) - f.Offset
}

// Hull is the convex hull of a point set. It is immutable once built.
type Hull struct {
	dim    int
	tol    float64
	points [][]float64
	facets []Facet
}

// Build computes the convex hull of the given points. All points must share
// the same dimension d >= 1, and for d >= 2 the set must contain d+1
// affinely independent points. A non-positive tol selects DefaultTol.
func Build(points [][]float64, tol float64) (*Hull, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	if tol <= 0 {
		tol = DefaultTol
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return nil, fmt.Errorf("%w: point %d has dimension %d, want %d", ErrDimension, i, len(p), dim)
		}
	}
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-dimensional points", ErrDimension)
	}

	h := &Hull{dim: dim, tol: tol, points: points}
	if dim == 1 {
		h.buildLine()
		return h, nil
	}
	if err := h.build(); err != nil {
		return nil, err
	}
	return h, nil
}

// Facets returns the hull's facets. The slice is owned by the hull;
// callers must not modify it.
func (h *Hull) Facets() []Facet {
	return h.facets
}

// Dim returns the dimension the hull was built in.
func (h *Hull) Dim() int {
	return h.dim
}

// Lower returns facets whose outward normal points downward along the final
// coordinate: the minimum-energy envelope when the last axis is energy.
// Near-vertical facets (|normal energy component| <= tol) are excluded.
func (h *Hull) Lower(tol float64) []Facet {
	if tol <= 0 {
		tol = h.tol
	}
	var lower []Facet
	for _, f := range h.facets {
		if f.Normal[h.dim-1] < -tol {
			lower = append(lower, f)
		}
	}
	return lower
}

// Vertices returns the sorted set of input indices that appear on any facet.
func (h *Hull) Vertices() []int {
	seen := map[int]bool{}
	for _, f := range h.facets {
		for _, v := range f.Vertices {
			seen[v] = true
		}
	}
	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// buildLine handles the 1-D hull: two vertex facets at the extremes, or a
// single facet when all points coincide within tolerance.
func (h *Hull) buildLine() {
	lo, hi := 0, 0
	for i, p := range h.points {
		if p[0] < h.points[lo][0] {
			lo = i
		}
		if p[0] > h.points[hi][0] {
			hi = i
		}
	}
	h.facets = []Facet{{Vertices: []int{lo}, Normal: []float64{-1}, Offset: -h.points[lo][0]}}
	if h.points[hi][0]-h.points[lo][0] > h.tol {
		h.facets = append(h.facets, Facet{Vertices: []int{hi}, Normal: []float64{1}, Offset: h.points[hi][0]})
	}
}

// build runs incremental insertion for dim >= 2.
func (h *Hull) build() error {
	seed, err := h.initialSimplex()
	if err != nil {
		return err
	}

	// Interior reference point: centroid of the seed simplex. It stays
	// strictly inside the hull as facets are added, so it orients every
	// new facet normal outward.
	interior := make([]float64, h.dim)
	for _, idx := range seed {
		for i, c := range h.points[idx] {
			interior[i] += c
		}
	}
	for i := range interior {
		interior[i] /= float64(len(seed))
	}

	// The seed simplex contributes one facet per omitted vertex.
	inSeed := map[int]bool{}
	for _, idx := range seed {
		inSeed[idx] = true
	}
	for omit := range seed {
		verts := make([]int, 0, h.dim)
		for j, idx := range seed {
			if j != omit {
				verts = append(verts, idx)
			}
		}
		f, err := h.newFacet(verts, interior)
		if err != nil {
			return err
		}
		h.facets = append(h.facets, f)
	}

	for idx := range h.points {
		if inSeed[idx] {
			continue
		}
		if err := h.addPoint(idx, interior); err != nil {
			return err
		}
	}
	return nil
}

// initialSimplex selects dim+1 affinely independent points, greedily
// maximizing the distance of each new point from the affine span of the
// points chosen so far. The first point is the lexicographically smallest,
// keeping construction deterministic for identical inputs.
func (h *Hull) initialSimplex() ([]int, error) {
	if len(h.points) < h.dim+1 {
		return nil, fmt.Errorf("%w: %d points in dimension %d", ErrDegenerate, len(h.points), h.dim)
	}

	first := 0
	for i := 1; i < len(h.points); i++ {
		if lexLess(h.points[i], h.points[first]) {
			first = i
		}
	}
	seed := []int{first}

	var basis [][]float64
	for len(seed) < h.dim+1 {
		best, bestRes := -1, h.tol
		for i, p := range h.points {
			if containsInt(seed, i) {
				continue
			}
			v := sub(p, h.points[first])
			res := projectOut(v, basis)
			if res > bestRes {
				best, bestRes = i, res
			}
		}
		if best < 0 {
			return nil, fmt.Errorf("%w: affine rank %d in dimension %d", ErrDegenerate, len(seed)-1, h.dim)
		}
		v := sub(h.points[best], h.points[first])
		res := projectOut(v, basis)
		for i := range v {
			v[i] /= res
		}
		basis = append(basis, v)
		seed = append(seed, best)
	}
	return seed, nil
}

// addPoint inserts point idx: facets it sees are replaced by the cone from
// the point over the horizon ridges. A point inside (or within tolerance of)
// the current hull leaves it unchanged.
func (h *Hull) addPoint(idx int, interior []float64) error {
	p := h.points[idx]

	var visible, kept []Facet
	for _, f := range h.facets {
		if f.Dist(p) > h.tol {
			visible = append(visible, f)
		} else {
			kept = append(kept, f)
		}
	}
	if len(visible) == 0 {
		return nil
	}

	// Every ridge of a proper hull is shared by exactly two facets, so a
	// ridge counted once among the visible facets borders an unseen facet:
	// it is on the horizon.
	type ridge struct {
		key   string
		verts []int
	}
	counts := map[string]int{}
	var ridges []ridge
	for _, f := range visible {
		for omit := range f.Vertices {
			verts := make([]int, 0, len(f.Vertices)-1)
			for j, v := range f.Vertices {
				if j != omit {
					verts = append(verts, v)
				}
			}
			key := ridgeKey(verts)
			counts[key]++
			if counts[key] == 1 {
				ridges = append(ridges, ridge{key: key, verts: verts})
			}
		}
	}

	var horizon []ridge
	for _, r := range ridges {
		if counts[r.key] == 1 {
			horizon = append(horizon, r)
		}
	}
	sort.Slice(horizon, func(i, j int) bool { return horizon[i].key < horizon[j].key })

	h.facets = kept
	for _, r := range horizon {
		verts := append(append([]int{}, r.verts...), idx)
		f, err := h.newFacet(verts, interior)
		if err != nil {
			return err
		}
		h.facets = append(h.facets, f)
	}
	return nil
}

// newFacet builds the facet through the given vertices, with its normal
// oriented away from the interior point. The vertices are stored in
// ascending index order.
func (h *Hull) newFacet(verts []int, interior []float64) (Facet, error) {
	sorted := append([]int{}, verts...)
	sort.Ints(sorted)

	// Orthonormal basis of the facet's tangent space.
	origin := h.points[sorted[0]]
	var basis [][]float64
	for _, v := range sorted[1:] {
		e := sub(h.points[v], origin)
		res := projectOut(e, basis)
		if res < h.tol {
			return Facet{}, fmt.Errorf("%w: facet %v is not full rank", ErrDegenerate, sorted)
		}
		for i := range e {
			e[i] /= res
		}
		basis = append(basis, e)
	}

	// The normal is the axis direction with the largest residual after
	// removing tangent components.
	var normal []float64
	bestRes := 0.0
	for axis := 0; axis < h.dim; axis++ {
		e := make([]float64, h.dim)
		e[axis] = 1
		res := projectOut(e, basis)
		if res > bestRes {
			bestRes = res
			normal = e
		}
	}
	if normal == nil || bestRes < h.tol {
		return Facet{}, fmt.Errorf("%w: no normal for facet %v", ErrDegenerate, sorted)
	}
	for i := range normal {
		normal[i] /= bestRes
	}

	offset := dot(normal, origin)
	if dot(normal, interior)-offset > 0 {
		for i := range normal {
			normal[i] = -normal[i]
		}
		offset = -offset
	}
	return Facet{Vertices: sorted, Normal: normal, Offset: offset}, nil
}

// lexLess orders points lexicographically coordinate by coordinate.
func lexLess(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// ridgeKey encodes a sorted vertex set as a compact map key.
func ridgeKey(verts []int) string {
	sorted := append([]int{}, verts...)
	sort.Ints(sorted)
	key := make([]byte, 0, len(sorted)*3)
	for _, v := range sorted {
		key = append(key, byte(v), byte(v>>8), byte(v>>16))
	}
	return string(key)
}
