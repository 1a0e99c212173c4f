package libpoly

import (
	"github.com/polytope-systems/gopoly/gopoly"
)

// DimRange is an inclusive range of face dimensions to emit.
type DimRange struct {
	Lo int
	Hi int
}

// SingleDim requests faces of exactly one dimension.
// A dimension outside [0, polytope dimension - 1] yields a valid,
// immediately exhausted iterator.
func SingleDim(d int) *DimRange {
	return &DimRange{Lo: d, Hi: d}
}

// EnumOpts parametrizes one face enumeration run.
type EnumOpts struct {

	// Dual swaps the roles of atoms and coatoms for the traversal.
	// The set of faces produced is unchanged; choose the mode whose
	// coatom side is smaller.
	Dual bool

	// Dims restricts which dimensions are emitted. nil emits every proper
	// face plus the full polytope once. A range whose Hi reaches the
	// polytope dimension includes the full polytope; the empty face is
	// never emitted.
	Dims *DimRange
}

type iterLevel struct {
	newFaces   *FaceArena // faces discovered at this level, in pop order
	visitedAll *FaceArena // faces whose entire sub-lattice is already produced
	next       int        // cursor into newFaces; Len()-next faces are yet to visit
	popped     *Face      // face whose children currently occupy the level below
}

// FaceIterator enumerates every face of a polytope exactly once, dimension by
// dimension, without materializing the face lattice.
//
// The traversal pops a face, prunes it if it lies inside any fully-explored
// face, and otherwise descends by intersecting it with the remaining coatoms.
// When a level is exhausted, the face that spawned it has been fully explored
// and replaces its sub-lattice in the dedup records (so memory is bounded by
// dimension × coatom count, not by the face count).
//
// A FaceIterator is single-threaded and non-restartable: NextFace must run to
// completion before the next call, and a fresh iterator is needed to
// re-enumerate. Independent iterators may share one IncidenceTables.
type FaceIterator struct {
	tables  *IncidenceTables
	dual    bool
	dim     int // polytope dimension
	variant CompareVariant

	// working representation; when dual, atoms are the primal facets
	numAtoms   int
	numCoatoms int
	coatoms    []Bits // working coatom -> its working atoms

	levels  []iterLevel // indexed by working level, lowest..dim-1 allocated
	current int
	lowest  int

	emitLo      int // primal dims emitted, inclusive
	emitHi      int
	emitFull    bool
	fullEmitted bool
	exhausted   bool

	keepScratch []bool
	coatomRep   Bits // scratch for exact coatom recomputation
	coatomRep2  Bits // second scratch, for two-face comparisons
	view        CombinatorialFace
}

// NewFaceIterator starts one enumeration run over the given tables.
// The tables are only read; all traversal state is owned by the iterator and
// allocated here, sized from the coatom count.
func NewFaceIterator(tables *IncidenceTables, opts EnumOpts) (*FaceIterator, error) {
	if tables == nil {
		return nil, gopoly.ErrNilPolytope
	}
	dim := tables.Dimension()

	it := &FaceIterator{
		tables: tables,
		dual:   opts.Dual,
		dim:    dim,
	}
	if opts.Dual {
		it.numAtoms = tables.NumCoatoms()
		it.numCoatoms = tables.NumAtoms()
		it.coatoms = tables.atomCoatoms
	} else {
		it.numAtoms = tables.NumAtoms()
		it.numCoatoms = tables.NumCoatoms()
		it.coatoms = tables.coatomAtoms
	}
	if wordsFor(it.numAtoms) <= wordsFor(it.numCoatoms) {
		it.variant = CompareAtoms
	} else {
		it.variant = CompareCoatoms
	}

	if !it.resolveDims(opts.Dims) {
		it.exhausted = true
		if !it.emitFull {
			return it, nil
		}
	}
	if it.exhausted {
		// only the full polytope face is requested
		return it, nil
	}

	// lowest working level the descent must reach
	if it.dual {
		it.lowest = dim - 1 - it.emitHi
	} else {
		it.lowest = it.emitLo
	}

	it.levels = make([]iterLevel, dim)
	for l := it.lowest; l < dim; l++ {
		it.levels[l] = iterLevel{
			newFaces:   NewFaceArena(it.numCoatoms, it.numAtoms, it.numCoatoms),
			visitedAll: NewFaceArena(it.numCoatoms, it.numAtoms, it.numCoatoms),
		}
	}
	it.keepScratch = make([]bool, it.numCoatoms)
	it.coatomRep = NewBits(it.numCoatoms)

	// level dim-1 starts as the coatoms themselves, in ascending index order
	top := it.levels[dim-1].newFaces
	for c := 0; c < it.numCoatoms; c++ {
		F := top.AppendBlank()
		F.Atoms.CopyFrom(it.coatoms[c])
		F.SetCoatom(c)
	}
	it.current = dim - 1
	return it, nil
}

// resolveDims fixes the emitted primal dimension window.
// Returns false if no proper dimensions are emitted.
func (it *FaceIterator) resolveDims(dims *DimRange) bool {
	dim := it.dim
	if dims == nil {
		it.emitLo, it.emitHi = 0, dim-1
		it.emitFull = true
		return true
	}
	if dims.Lo == dims.Hi {
		if dims.Lo < 0 || dims.Lo > dim-1 {
			return false
		}
		it.emitLo, it.emitHi = dims.Lo, dims.Lo
		return true
	}
	if dims.Lo > dims.Hi {
		return false
	}
	it.emitFull = dims.Lo <= dim && dims.Hi >= dim
	it.emitLo = dims.Lo
	if it.emitLo < 0 {
		it.emitLo = 0
	}
	it.emitHi = dims.Hi
	if it.emitHi > dim-1 {
		it.emitHi = dim - 1
	}
	return it.emitLo <= it.emitHi
}

// primalDim translates a working level into the caller's dimension convention.
func (it *FaceIterator) primalDim(level int) int {
	if it.dual {
		return it.dim - 1 - level
	}
	return level
}

// NextFace advances to the next face, returning nil when the enumeration is
// exhausted. The returned view is valid only until the next call; callers
// needing to retain a face must MakeCopy it.
func (it *FaceIterator) NextFace() *CombinatorialFace {
	if it.emitFull && !it.fullEmitted {
		it.fullEmitted = true
		it.view = CombinatorialFace{it: it, face: nil, level: -1}
		return &it.view
	}
	if it.exhausted {
		return nil
	}

	for {
		lvl := &it.levels[it.current]
		if lvl.next >= lvl.newFaces.Len() {
			// level fully explored: recycle it and collapse the parent
			// face into the parent's dedup records
			lvl.newFaces.Clear()
			lvl.visitedAll.Clear()
			lvl.next = 0
			it.current++
			if it.current > it.dim-1 {
				it.exhausted = true
				return nil
			}
			parent := &it.levels[it.current]
			if parent.popped != nil {
				parent.visitedAll.Append(parent.popped)
				parent.popped = nil
			}
			continue
		}

		F := lvl.newFaces.At(lvl.next)
		lvl.next++

		if it.ignoreSubsets(F) {
			// already produced via another descent path
			continue
		}

		emit := false
		if d := it.primalDim(it.current); d >= it.emitLo && d <= it.emitHi {
			emit = true
		}

		if it.current > it.lowest {
			it.buildChildren(F)
			lvl.popped = F
			level := it.current
			it.current--
			if emit {
				it.view = CombinatorialFace{it: it, face: F, level: level}
				return &it.view
			}
			continue
		}

		// no descent below this level: F is fully explored now
		lvl.visitedAll.Append(F)
		if emit {
			it.view = CombinatorialFace{it: it, face: F, level: it.current}
			return &it.view
		}
	}
}

// ignoreSubsets reports whether F lies inside any fully-explored face
// recorded at this level or above. Such a face was already reached through
// another chain of coatoms and its entire sub-lattice is already produced.
func (it *FaceIterator) ignoreSubsets(F *Face) bool {
	for l := it.current; l < it.dim; l++ {
		va := it.levels[l].visitedAll
		if va != nil && va.AnyContains(F, CompareAtoms) {
			return true
		}
	}
	return false
}

// buildChildren fills the level below with the maximal proper faces of F:
// the inclusion-maximal nonempty proper intersections of F with every coatom
// not already known to contain F.
func (it *FaceIterator) buildChildren(F *Face) {
	children := it.levels[it.current-1].newFaces
	it.levels[it.current-1].next = 0

	for c := 0; c < it.numCoatoms; c++ {
		if F.Coatoms.Test(c) {
			continue
		}
		child := children.AppendBlank()
		child.Intersect(F, it.coatoms[c], c)
		if child.IsEmpty() {
			children.TrimLast()
			continue
		}
		if child.Atoms.Equal(F.Atoms) {
			// coatom c contains F after all; fold it into the hint
			F.Coatoms.Set(c)
			children.TrimLast()
			continue
		}
	}

	n := children.Len()
	keep := it.keepScratch[:n]
	for i := 0; i < n; i++ {
		Fi := children.At(i)
		keep[i] = true
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			Fj := children.At(j)
			if Fi.Atoms.ContainedIn(Fj.Atoms) {
				if !Fi.Atoms.Equal(Fj.Atoms) || j < i {
					keep[i] = false
					break
				}
			}
		}
	}
	children.Compact(keep)
}
