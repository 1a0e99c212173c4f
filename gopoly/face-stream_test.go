package gopoly_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/polytope-systems/gopoly/gopoly"
	"github.com/polytope-systems/gopoly/libpoly"
)

func pushFaces(faces ...gopoly.Face) *gopoly.FaceStream {
	stream := gopoly.NewFaceStream()
	go func() {
		for _, f := range faces {
			stream.PushFace(f)
		}
		stream.Close()
	}()
	return stream
}

func TestStreamStages(t *testing.T) {
	faces := []gopoly.Face{
		{Dim: 0, Atoms: []int{0}},
		{Dim: 0, Atoms: []int{1}},
		{Dim: 1, Atoms: []int{0, 1}},
		{Dim: 2, Atoms: []int{0, 1, 2}},
	}

	if n := pushFaces(faces...).PullAll(); n != 4 {
		t.Fatalf("got %d", n)
	}

	if n := pushFaces(faces...).SelectDims(0, 0).PullAll(); n != 2 {
		t.Fatalf("got %d", n)
	}

	fv := pushFaces(faces...).CountByDim(2)
	if !fv.IsEqual(gopoly.FVector{2, 1}) { // the dim-2 face is out of range
		t.Fatalf("got %v", fv)
	}
}

func TestStreamDropDupes(t *testing.T) {
	edge := gopoly.Face{Dim: 1, Atoms: []int{0, 1}}
	vert := gopoly.Face{Dim: 0, Atoms: []int{2}}

	n := pushFaces(edge, vert, edge, edge, vert).
		DropDupes(libpoly.NewFaceSet()).
		PullAll()
	if n != 2 {
		t.Fatalf("got %d", n)
	}
}

func TestStreamAddTo(t *testing.T) {
	set := libpoly.NewFaceSet()
	defer set.Close()
	set.TryAddFace(gopoly.Face{Atoms: []int{0}})

	n := pushFaces(
		gopoly.Face{Dim: 0, Atoms: []int{0}}, // already present
		gopoly.Face{Dim: 0, Atoms: []int{1}},
	).AddTo(set).PullAll()
	if n != 1 {
		t.Fatalf("got %d", n)
	}
}

func TestStreamPrint(t *testing.T) {
	var buf bytes.Buffer

	n := pushFaces(
		gopoly.Face{Dim: 1, Atoms: []int{0, 3}, Coatoms: []int{2}},
		gopoly.Face{Dim: 0, Atoms: []int{5}, Coatoms: []int{0, 2}},
	).Print(&buf, gopoly.PrintOpts{Label: "probe", Coatoms: true}).PullAll()
	if n != 2 {
		t.Fatalf("got %d", n)
	}

	out := buf.String()
	if strings.Count(out, "\n") != 2 || !strings.Contains(out, "probe,") {
		t.Fatalf("got output %q", out)
	}
	if !strings.Contains(out, "{0 3}") || !strings.Contains(out, "on{0 2}") {
		t.Fatalf("got output %q", out)
	}
}
