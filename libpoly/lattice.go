package libpoly

import (
	"sort"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"github.com/pkg/errors"

	"github.com/polytope-systems/gopoly/gopoly"
)

// LatticeFace is one face of a brute-force enumerated lattice.
type LatticeFace struct {
	Atoms []int // sorted vertex indices
	Dim   int
}

// Lattice is the full face set of a polytope, built by closing the coatom
// intersections. Exponential in the coatom count — this is the independent
// reference that face iterator runs are audited against, not a substitute
// for them.
type Lattice struct {
	tree *redblacktree.Tree // FaceLSM key -> *LatticeFace
	fvec gopoly.FVector
	dim  int
}

// BuildLattice enumerates every face of the polytope by repeated subset
// intersection over the coatoms, then grades the result by chain length.
func BuildLattice(tables *IncidenceTables) (*Lattice, error) {
	if tables == nil {
		return nil, gopoly.ErrNilPolytope
	}
	numAtoms := tables.NumAtoms()

	type latFace struct {
		atoms Bits
		count int
		dim   int
	}

	seen := redblacktree.NewWith(utils.StringComparator)
	var all []*latFace

	keyOf := func(b Bits) string {
		F := Face{Atoms: b}
		return string(F.AppendFaceLSM(nil))
	}
	add := func(b Bits) *latFace {
		key := keyOf(b)
		if found, ok := seen.Get(key); ok {
			return found.(*latFace)
		}
		stored := NewBits(numAtoms)
		stored.CopyFrom(b)
		lf := &latFace{atoms: stored, count: stored.Count()}
		seen.Put(key, lf)
		all = append(all, lf)
		return lf
	}

	full := NewBits(numAtoms)
	full.SetAll()
	add(full)

	scratch := NewBits(numAtoms)
	for at := 0; at < len(all); at++ {
		base := all[at].atoms
		for c := 0; c < tables.NumCoatoms(); c++ {
			scratch.SetIntersect(base, tables.CoatomAtoms(c))
			if scratch.IsZero() {
				continue
			}
			add(scratch)
		}
	}

	// grade by longest chain from the minimal faces
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count < all[j].count
		}
		return all[i].atoms.Compare(all[j].atoms) < 0
	})
	for i, fi := range all {
		fi.dim = 0
		for j := 0; j < i; j++ {
			fj := all[j]
			if fj.count < fi.count && fj.atoms.ContainedIn(fi.atoms) && fi.dim < fj.dim+1 {
				fi.dim = fj.dim + 1
			}
		}
	}

	dim := tables.Dimension()
	lattice := &Lattice{
		tree: redblacktree.NewWith(utils.StringComparator),
		dim:  dim,
	}
	lattice.fvec.SetLen(dim)

	for _, fi := range all {
		isFull := fi.count == numAtoms
		if isFull && fi.dim != dim {
			return nil, errors.Errorf("lattice grading found dimension %d, incidence tables say %d", fi.dim, dim)
		}
		lattice.tree.Put(keyOf(fi.atoms), &LatticeFace{
			Atoms: fi.atoms.AppendIndices(nil),
			Dim:   fi.dim,
		})
		if !isFull {
			lattice.fvec[fi.dim]++
		}
	}
	return lattice, nil
}

// Dimension returns the graded dimension of the full polytope.
func (lattice *Lattice) Dimension() int {
	return lattice.dim
}

// NumFaces returns the number of faces, including the full polytope.
func (lattice *Lattice) NumFaces() int {
	return lattice.tree.Size()
}

// FVector returns the proper-face counts by dimension.
func (lattice *Lattice) FVector() gopoly.FVector {
	return lattice.fvec
}

// FindFace returns the lattice face with exactly the given sorted atom
// indices, or nil.
func (lattice *Lattice) FindFace(atoms []int) *LatticeFace {
	key := string(AppendAtomSetLSM(nil, atoms))
	if found, ok := lattice.tree.Get(key); ok {
		return found.(*LatticeFace)
	}
	return nil
}

// FacesOfDim returns every face of the given dimension, ordered by face key.
func (lattice *Lattice) FacesOfDim(dim int) []*LatticeFace {
	var out []*LatticeFace
	iter := lattice.tree.Iterator()
	for iter.Next() {
		lf := iter.Value().(*LatticeFace)
		if lf.Dim == dim {
			out = append(out, lf)
		}
	}
	return out
}
