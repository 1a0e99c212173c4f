package gopoly

import (
	"testing"
)

var gT *testing.T

func TestFVectorEnc(t *testing.T) {
	gT = t
	fv := FVector{8, 12, 6}

	{
		var scrap1 [4]byte
		checkEncoding(fv, scrap1[:])
	}

	{
		var scrap1 [200]byte
		checkEncoding(fv, scrap1[:])
	}

	checkEncoding(FVector{}, nil)
	checkEncoding(FVector{2}, nil)
}

func checkEncoding(fv FVector, scrap []byte) {

	enc := fv.AppendFVectorLSM(scrap[:0])

	var fvDec FVector
	err := fvDec.InitFromFVectorLSM(enc)
	if err != nil {
		gT.Fatal(err)
	}

	if !fv.IsEqual(fvDec) {
		gT.Fatalf("decoded %v from %v", fvDec, fv)
	}
}

func TestFVectorEuler(t *testing.T) {
	cases := []struct {
		fv   FVector
		dim  int
		want bool
	}{
		{FVector{2}, 1, true},             // segment
		{FVector{4, 4}, 2, true},          // square
		{FVector{4, 6, 4}, 3, true},       // tetrahedron
		{FVector{16, 32, 24, 8}, 4, true}, // 4-cube
		{FVector{4, 6, 4}, 2, false},      // wrong dimension
		{FVector{4, 5, 4}, 3, false},      // miscounted edges
	}
	for i, tc := range cases {
		if tc.fv.IsEulerian(tc.dim) != tc.want {
			t.Fatalf("case %d: EulerSum=%d", i, tc.fv.EulerSum())
		}
	}

	if (FVector{4, 6, 4}).Total() != 14 {
		t.Fatal("nope")
	}
	if (FVector{4, 6, 4}).EulerSum() != 2 {
		t.Fatal("nope")
	}
}

func TestFVectorSetLen(t *testing.T) {
	var fv FVector
	fv.SetLen(3)
	fv[1] = 7
	fv.SetLen(2)
	if len(fv) != 2 || fv[0] != 0 || fv[1] != 0 {
		t.Fatalf("got %v", fv)
	}
	if fv.IsEqual(FVector{0, 0, 0}) {
		t.Fatal("length must participate in equality")
	}
}
