package libpoly

import (
	"github.com/pkg/errors"

	"github.com/polytope-systems/gopoly/gopoly"
)

// MaxShapeDim bounds the generator dimensions: hypercube vertex counts and
// cross-polytope facet counts grow as 2^dim.
const MaxShapeDim = 16

// Simplex returns the combinatorial d-simplex: d+1 vertices, d+1 facets,
// each facet omitting one vertex.
func Simplex(dim int) (*Polytope, error) {
	if dim < 1 || dim > MaxShapeDim {
		return nil, errors.Wrapf(gopoly.ErrBadPolyExpr, "simplex dimension %d", dim)
	}
	numAtoms := dim + 1
	coatoms := make([][]int, numAtoms)
	for skip := 0; skip < numAtoms; skip++ {
		facet := make([]int, 0, dim)
		for a := 0; a < numAtoms; a++ {
			if a != skip {
				facet = append(facet, a)
			}
		}
		coatoms[skip] = facet
	}
	return NewPolytope(numAtoms, coatoms)
}

// Hypercube returns the combinatorial d-cube: 2^d vertices indexed by their
// coordinate bit patterns, 2d facets (one per axis and side).
func Hypercube(dim int) (*Polytope, error) {
	if dim < 1 || dim > MaxShapeDim {
		return nil, errors.Wrapf(gopoly.ErrBadPolyExpr, "hypercube dimension %d", dim)
	}
	numAtoms := 1 << uint(dim)
	coatoms := make([][]int, 0, 2*dim)
	for axis := 0; axis < dim; axis++ {
		for side := 0; side < 2; side++ {
			facet := make([]int, 0, numAtoms/2)
			for v := 0; v < numAtoms; v++ {
				if (v>>uint(axis))&1 == side {
					facet = append(facet, v)
				}
			}
			coatoms = append(coatoms, facet)
		}
	}
	return NewPolytope(numAtoms, coatoms)
}

// CrossPolytope returns the combinatorial d-cross-polytope (the hypercube's
// dual): 2d vertices (a ± pair per axis), 2^d facets (one sign choice per axis).
// Vertex 2i is the positive end of axis i and 2i+1 the negative end.
func CrossPolytope(dim int) (*Polytope, error) {
	if dim < 1 || dim > MaxShapeDim {
		return nil, errors.Wrapf(gopoly.ErrBadPolyExpr, "cross-polytope dimension %d", dim)
	}
	numAtoms := 2 * dim
	numCoatoms := 1 << uint(dim)
	coatoms := make([][]int, numCoatoms)
	for signs := 0; signs < numCoatoms; signs++ {
		facet := make([]int, dim)
		for axis := 0; axis < dim; axis++ {
			facet[axis] = 2*axis + (signs>>uint(axis))&1
		}
		coatoms[signs] = facet
	}
	return NewPolytope(numAtoms, coatoms)
}
