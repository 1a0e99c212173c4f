package libpoly

import (
	"github.com/polytope-systems/gopoly/gopoly"
)

// CombinatorialFace is a read-only view of the face currently held by a
// FaceIterator.
//
// The view is valid only until the next call to NextFace; callers needing to
// retain a face must MakeCopy it. Comparisons are defined only between views
// produced by the same iterator run — bit positions are relative to one run's
// working representation and are not portable identifiers.
type CombinatorialFace struct {
	it    *FaceIterator
	face  *Face // nil marks the full-polytope face
	level int   // working level of face
}

// Dimension returns the face's dimension in the polytope's convention,
// regardless of dual mode.
func (cf *CombinatorialFace) Dimension() int {
	if cf.face == nil {
		return cf.it.dim
	}
	return cf.it.primalDim(cf.level)
}

// Atoms returns the sorted vertex indices contained in this face.
func (cf *CombinatorialFace) Atoms() []int {
	it := cf.it
	if cf.face == nil {
		all := make([]int, it.tables.NumAtoms())
		for a := range all {
			all[a] = a
		}
		return all
	}
	if it.dual {
		// primal vertices are the working coatoms containing the face
		return it.exactCoatomRep(cf.face).AppendIndices(nil)
	}
	return cf.face.Atoms.AppendIndices(nil)
}

// Coatoms returns the sorted facet indices containing this face. Unlike the
// hint maintained during descent, this is exact: membership is recomputed
// against the incidence tables.
func (cf *CombinatorialFace) Coatoms() []int {
	it := cf.it
	if cf.face == nil {
		return []int{}
	}
	if it.dual {
		// primal facets are the working atoms of the face
		return cf.face.Atoms.AppendIndices(nil)
	}
	return it.exactCoatomRep(cf.face).AppendIndices(nil)
}

// IsSubsetOf reports whether this face lies within other. Both views must
// come from the same iterator run.
func (cf *CombinatorialFace) IsSubsetOf(other *CombinatorialFace) bool {
	if cf.it != other.it {
		panic("libpoly: face views compared across iterator runs")
	}
	if other.face == nil {
		return true
	}
	if cf.face == nil {
		return false
	}
	if cf.it.variant == CompareCoatoms {
		// both representations exact here, so the cheaper side decides
		return cf.it.exactCoatomRep(other.face).ContainedIn(cf.it.exactCoatomRep2(cf.face))
	}
	return cf.face.Atoms.ContainedIn(other.face.Atoms)
}

// IsSameFace reports whether two views of one run denote the same face.
func (cf *CombinatorialFace) IsSameFace(other *CombinatorialFace) bool {
	if cf.it != other.it {
		panic("libpoly: face views compared across iterator runs")
	}
	if cf.face == nil || other.face == nil {
		return cf.face == other.face
	}
	return cf.face.Equal(other.face)
}

// MakeCopy detaches this view into a portable snapshot that outlives the
// iterator.
func (cf *CombinatorialFace) MakeCopy() gopoly.Face {
	return gopoly.Face{
		Dim:     cf.Dimension(),
		Atoms:   cf.Atoms(),
		Coatoms: cf.Coatoms(),
	}
}

// AppendFaceLSM appends the canonical key of this face (its primal atom set).
func (cf *CombinatorialFace) AppendFaceLSM(out []byte) FaceLSM {
	return AppendAtomSetLSM(out, cf.Atoms())
}

// exactCoatomRep fills the iterator's scratch bits with the exact working
// coatom membership of F, starting from the hint and testing only the
// missing bits.
func (it *FaceIterator) exactCoatomRep(F *Face) Bits {
	rep := it.coatomRep
	rep.CopyFrom(F.Coatoms)
	for c := 0; c < it.numCoatoms; c++ {
		if rep.Test(c) {
			continue
		}
		if F.Atoms.ContainedIn(it.coatoms[c]) {
			rep.Set(c)
		}
	}
	return rep
}

// exactCoatomRep2 is exactCoatomRep into a second scratch, for two-face tests.
func (it *FaceIterator) exactCoatomRep2(F *Face) Bits {
	if it.coatomRep2.Cap() == 0 {
		it.coatomRep2 = NewBits(it.numCoatoms)
	}
	rep := it.coatomRep2
	rep.CopyFrom(F.Coatoms)
	for c := 0; c < it.numCoatoms; c++ {
		if rep.Test(c) {
			continue
		}
		if F.Atoms.ContainedIn(it.coatoms[c]) {
			rep.Set(c)
		}
	}
	return rep
}
