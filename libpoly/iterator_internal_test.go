package libpoly

import (
	"testing"
)

// A fully-explored face replaces its sub-lattice in the dedup records when
// the traversal ascends, so the per-level records stay bounded by the coatom
// count no matter how many faces the run produces.
func TestVisitedAllCollapse(t *testing.T) {
	P, err := Hypercube(3)
	if err != nil {
		t.Fatal(err)
	}
	tables := P.Tables()

	it, err := NewFaceIterator(tables, EnumOpts{})
	if err != nil {
		t.Fatal(err)
	}

	numFaces := 0
	maxVisited := make([]int, it.dim)
	for cf := it.NextFace(); cf != nil; cf = it.NextFace() {
		numFaces++
		for l := it.lowest; l < it.dim; l++ {
			if v := it.levels[l].visitedAll.Len(); v > maxVisited[l] {
				maxVisited[l] = v
			}
		}

		// records at the top level only ever arrive by collapsing a finished
		// facet, never by copying its children up
		top := it.levels[it.dim-1].visitedAll
		for i := 0; i < top.Len(); i++ {
			F := top.At(i)
			isFacet := false
			for c := 0; c < tables.NumCoatoms(); c++ {
				if F.Atoms.Equal(tables.CoatomAtoms(c)) {
					isFacet = true
					break
				}
			}
			if !isFacet {
				t.Fatal("top-level dedup record is not a whole facet")
			}
		}
	}

	if numFaces != 27 { // 8 + 12 + 6 proper faces + the full polytope
		t.Fatalf("got %d faces", numFaces)
	}
	for l, v := range maxVisited {
		if v > tables.NumCoatoms() {
			t.Fatalf("level %d retained %d dedup faces, over the coatom bound", l, v)
		}
		if l >= it.lowest && v == 0 {
			t.Fatalf("level %d never recorded a finished face", l)
		}
	}
}
