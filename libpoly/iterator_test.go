package libpoly_test

import (
	"testing"

	"github.com/polytope-systems/gopoly/gopoly"
	"github.com/polytope-systems/gopoly/libpoly"
)

var gT *testing.T

func mustParse(expr string) *libpoly.Polytope {
	P, err := libpoly.ParsePolyExpr(expr)
	if err != nil {
		gT.Fatalf("%s: %v", expr, err)
	}
	return P
}

// countFaces drains one enumeration run, tallying proper faces by dimension
// and full-polytope emissions separately.
func countFaces(P *libpoly.Polytope, opts libpoly.EnumOpts) (fv gopoly.FVector, numFull int) {
	it, err := P.NewFaceIterator(opts)
	if err != nil {
		gT.Fatal(err)
	}
	fv.SetLen(P.Dimension())
	for cf := it.NextFace(); cf != nil; cf = it.NextFace() {
		d := cf.Dimension()
		if d == P.Dimension() {
			numFull++
			continue
		}
		fv[d]++
	}
	return
}

func TestTetrahedronFaces(t *testing.T) {
	gT = t
	T := mustParse("simplex(3)")

	fv, numFull := countFaces(T, libpoly.EnumOpts{})
	if numFull != 1 {
		t.Fatalf("full face emitted %d times", numFull)
	}
	want := gopoly.FVector{4, 6, 4}
	if !fv.IsEqual(want) {
		t.Fatalf("got %v, want %v", fv, want)
	}
	if fv.Total()+1 != 15 {
		t.Fatal("nope")
	}
}

func TestKnownFVectors(t *testing.T) {
	gT = t
	cases := []struct {
		expr string
		want gopoly.FVector
	}{
		{"simplex(2)", gopoly.FVector{3, 3}},
		{"simplex(4)", gopoly.FVector{5, 10, 10, 5}},
		{"cube(2)", gopoly.FVector{4, 4}},
		{"cube(3)", gopoly.FVector{8, 12, 6}},
		{"cube(4)", gopoly.FVector{16, 32, 24, 8}},
		{"cross(3)", gopoly.FVector{6, 12, 8}},
		{"cross(4)", gopoly.FVector{8, 24, 32, 16}},
		{"(0 1 2 3)(0 1 4)(1 2 4)(2 3 4)(0 3 4)", gopoly.FVector{5, 8, 5}}, // square pyramid
	}

	for _, tc := range cases {
		P := mustParse(tc.expr)
		for _, dual := range []bool{false, true} {
			fv, _ := countFaces(P, libpoly.EnumOpts{Dual: dual})
			if !fv.IsEqual(tc.want) {
				t.Fatalf("%s dual=%v: got %v, want %v", tc.expr, dual, fv, tc.want)
			}
		}
		fv, err := P.FVector()
		if err != nil {
			t.Fatal(err)
		}
		if !fv.IsEqual(tc.want) {
			t.Fatalf("%s: cached f-vector %v, want %v", tc.expr, fv, tc.want)
		}
		if !fv.IsEulerian(P.Dimension()) {
			t.Fatalf("%s: %v fails Euler relation", tc.expr, fv)
		}
	}
}

// collectKeys maps each emitted face key to its reported dimension.
func collectKeys(P *libpoly.Polytope, opts libpoly.EnumOpts) map[string]int {
	it, err := P.NewFaceIterator(opts)
	if err != nil {
		gT.Fatal(err)
	}
	keys := make(map[string]int)
	for cf := it.NextFace(); cf != nil; cf = it.NextFace() {
		key := string(cf.AppendFaceLSM(nil))
		if prevDim, dupe := keys[key]; dupe {
			gT.Fatalf("face %v emitted twice (dims %d, %d)", cf.Atoms(), prevDim, cf.Dimension())
		}
		keys[key] = cf.Dimension()
	}
	return keys
}

func TestDualMatchesPrimal(t *testing.T) {
	gT = t
	for _, expr := range []string{"simplex(3)", "cube(3)", "cross(4)", "(0 1 2 3)(0 1 4)(1 2 4)(2 3 4)(0 3 4)"} {
		P := mustParse(expr)
		primal := collectKeys(P, libpoly.EnumOpts{})
		dual := collectKeys(P, libpoly.EnumOpts{Dual: true})
		if len(primal) != len(dual) {
			t.Fatalf("%s: %d primal faces vs %d dual faces", expr, len(primal), len(dual))
		}
		for key, d := range primal {
			if dd, ok := dual[key]; !ok || dd != d {
				t.Fatalf("%s: face sets diverge at dim %d", expr, d)
			}
		}
	}
}

func TestAudit(t *testing.T) {
	gT = t
	for _, expr := range []string{
		"simplex(1)",
		"simplex(4)",
		"cube(3)",
		"cross(3)",
		"(0 1 2 3)(0 1 4)(1 2 4)(2 3 4)(0 3 4)",      // square pyramid
		"(0 1 2)(3 4 5)(0 1 3 4)(1 2 4 5)(0 2 3 5)", // triangular prism
	} {
		P := mustParse(expr)
		if err := P.Audit(); err != nil {
			t.Fatalf("%s: %v", expr, err)
		}
	}
}

func TestDimWindows(t *testing.T) {
	gT = t
	T := mustParse("simplex(3)") // f = (4, 6, 4), dim 3

	cases := []struct {
		dims       *libpoly.DimRange
		wantProper int64
		wantFull   int
	}{
		{nil, 14, 1},
		{libpoly.SingleDim(0), 4, 0},
		{libpoly.SingleDim(1), 6, 0},
		{libpoly.SingleDim(2), 4, 0},
		{libpoly.SingleDim(-1), 0, 0}, // out of range: valid, empty
		{libpoly.SingleDim(3), 0, 0},  // the full polytope is not a proper dim
		{&libpoly.DimRange{Lo: 1, Hi: 2}, 10, 0},
		{&libpoly.DimRange{Lo: -5, Hi: 0}, 4, 0}, // clipped below
		{&libpoly.DimRange{Lo: 2, Hi: 9}, 4, 1},   // clipped above, includes full
		{&libpoly.DimRange{Lo: 3, Hi: 9}, 0, 1},   // only the full polytope
		{&libpoly.DimRange{Lo: 5, Hi: 9}, 0, 0},   // entirely above: valid, empty
		{&libpoly.DimRange{Lo: -4, Hi: -1}, 0, 0}, // entirely below: valid, empty
		{&libpoly.DimRange{Lo: 2, Hi: 1}, 0, 0},   // empty range
	}

	for i, tc := range cases {
		fv, numFull := countFaces(T, libpoly.EnumOpts{Dims: tc.dims})
		if fv.Total() != tc.wantProper || numFull != tc.wantFull {
			t.Fatalf("case %d: got %d proper + %d full, want %d + %d",
				i, fv.Total(), numFull, tc.wantProper, tc.wantFull)
		}
		if tc.dims != nil && tc.dims.Lo <= tc.dims.Hi {
			for d := range fv {
				if fv[d] != 0 && (d < tc.dims.Lo || d > tc.dims.Hi) {
					t.Fatalf("case %d: dim %d leaked through the window", i, d)
				}
			}
		}
	}
}

func TestExactCoatoms(t *testing.T) {
	gT = t
	C := mustParse("cube(3)")

	// vertex figures: every cube vertex lies on exactly 3 facets, every edge on 2
	wantOn := map[int]int{0: 3, 1: 2, 2: 1}

	for _, dual := range []bool{false, true} {
		it, err := C.NewFaceIterator(libpoly.EnumOpts{Dual: dual})
		if err != nil {
			t.Fatal(err)
		}
		for cf := it.NextFace(); cf != nil; cf = it.NextFace() {
			d := cf.Dimension()
			if d == C.Dimension() {
				if len(cf.Coatoms()) != 0 || len(cf.Atoms()) != C.VertexCount() {
					t.Fatal("nope")
				}
				continue
			}
			if got := len(cf.Coatoms()); got != wantOn[d] {
				t.Fatalf("dual=%v: dim %d face on %d facets, want %d", dual, d, got, wantOn[d])
			}
			for _, c := range cf.Coatoms() {
				for _, a := range cf.Atoms() {
					if !C.Tables().CoatomAtoms(c).Test(a) {
						t.Fatalf("reported coatom %d misses atom %d", c, a)
					}
				}
			}
		}
	}
}

func TestViewComparisons(t *testing.T) {
	gT = t
	T := mustParse("simplex(3)")

	it, err := T.NewFaceIterator(libpoly.EnumOpts{})
	if err != nil {
		t.Fatal(err)
	}

	full := *it.NextFace() // full polytope comes first in all mode
	if full.Dimension() != 3 {
		t.Fatal("nope")
	}
	facet := *it.NextFace()
	if facet.Dimension() != 2 {
		t.Fatal("nope")
	}
	edge := *it.NextFace() // first child of the first facet
	if edge.Dimension() != 1 {
		t.Fatal("nope")
	}

	if !edge.IsSubsetOf(&facet) || facet.IsSubsetOf(&edge) {
		t.Fatal("nope")
	}
	if !edge.IsSubsetOf(&full) || !facet.IsSubsetOf(&full) || full.IsSubsetOf(&edge) {
		t.Fatal("nope")
	}
	if !full.IsSameFace(&full) || !edge.IsSameFace(&edge) || edge.IsSameFace(&facet) {
		t.Fatal("nope")
	}

	snap := edge.MakeCopy()
	if snap.Dim != 1 || len(snap.Atoms) != 2 || len(snap.Coatoms) != 2 {
		t.Fatalf("got snapshot %v", snap)
	}
}

func TestEnumerationIsDeterministic(t *testing.T) {
	gT = t
	C := mustParse("cube(3)")

	runOnce := func() []string {
		it, err := C.NewFaceIterator(libpoly.EnumOpts{})
		if err != nil {
			t.Fatal(err)
		}
		var seq []string
		for cf := it.NextFace(); cf != nil; cf = it.NextFace() {
			seq = append(seq, string(cf.AppendFaceLSM(nil)))
		}
		return seq
	}

	first := runOnce()
	second := runOnce()
	if len(first) != len(second) {
		t.Fatal("nope")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("runs diverge at face %d", i)
		}
	}
}

func TestStreamedFaces(t *testing.T) {
	gT = t
	C := mustParse("cube(3)")

	if n := C.Stream(libpoly.EnumOpts{}).PullAll(); n != 27 {
		t.Fatalf("got %d faces", n)
	}

	fv := C.Stream(libpoly.EnumOpts{}).CountByDim(C.Dimension())
	if !fv.IsEqual(gopoly.FVector{8, 12, 6}) {
		t.Fatalf("got %v", fv)
	}

	edges := C.Stream(libpoly.EnumOpts{Dims: libpoly.SingleDim(1)})
	for f, ok := edges.PullFace(); ok; f, ok = edges.PullFace() {
		if f.Dim != 1 || len(f.Atoms) != 2 {
			t.Fatalf("got %v", f)
		}
	}
}
