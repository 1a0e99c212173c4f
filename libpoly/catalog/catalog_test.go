package catalog_test

import (
	"os"
	"path"
	"testing"

	"github.com/polytope-systems/gopoly/gopoly"
	"github.com/polytope-systems/gopoly/libpoly"
	"github.com/polytope-systems/gopoly/libpoly/catalog"
)

var (
	gT *testing.T

	gCtx = gopoly.NewCatalogContext()
)

func mustParse(expr string) *libpoly.Polytope {
	P, err := libpoly.ParsePolyExpr(expr)
	if err != nil {
		gT.Fatalf("%s: %v", expr, err)
	}
	return P
}

func TestBasics(t *testing.T) {
	gT = t
	dir, err := os.MkdirTemp("", "junk*")
	if err != nil {
		gT.Fatal(err)
	}
	defer os.RemoveAll(dir)

	opts := gopoly.CatalogOpts{
		DbPathName: path.Join(dir, "TestBasics"),
		MaxDim:     8,
	}
	cat, err := catalog.OpenCatalog(gCtx, opts)
	if err != nil {
		gT.Fatal(err)
	}

	shapes := []string{
		"simplex(1)", "simplex(2)", "simplex(3)", "simplex(4)",
		"cube(3)", "cross(3)",
	}
	for _, expr := range shapes {
		P := mustParse(expr)
		if added := cat.TryAddPolytope(P); !added {
			t.Fatal("nope")
		}
		if added := cat.TryAddPolytope(P); added {
			t.Fatal("nope")
		}
	}

	// cube(1) and cross(1) are combinatorially the segment already cataloged
	if added := cat.TryAddPolytope(mustParse("cube(1)")); added {
		t.Fatal("nope")
	}
	if added := cat.TryAddPolytope(mustParse("cross(1)")); added {
		t.Fatal("nope")
	}

	if cat.NumPolytopes(3) != 3 || cat.NumPolytopes(1) != 1 || cat.NumPolytopes(7) != 0 {
		t.Fatal("nope")
	}
	if cat.NumPolytopes(-1) != 0 || cat.NumPolytopes(100) != 0 {
		t.Fatal("nope")
	}

	if err = cat.Close(); err != nil {
		gT.Fatal(err)
	}

	// counts and entries must survive a reopen
	opts.ReadOnly = true
	cat, err = catalog.OpenCatalog(gCtx, opts)
	if err != nil {
		gT.Fatal(err)
	}
	defer cat.Close()

	if !cat.IsReadOnly() {
		t.Fatal("nope")
	}
	if added := cat.TryAddPolytope(mustParse("cube(4)")); added {
		t.Fatal("read-only catalog accepted an add")
	}
	if cat.NumPolytopes(3) != 3 {
		t.Fatal("nope")
	}

	sel := gopoly.DefaultPolySelector
	sel.Min.Dim = 3
	sel.Max.Dim = 3

	onHit := make(chan gopoly.PolytopeState)
	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()

	hits := 0
	for P := range onHit {
		if P.Dimension() != 3 {
			t.Fatal("nope")
		}
		fv, err := P.FVector()
		if err != nil {
			gT.Fatal(err)
		}
		if !fv.IsEulerian(3) {
			t.Fatalf("got %v", fv)
		}
		hits++
	}
	if hits != 3 {
		t.Fatalf("got %d hits", hits)
	}
}

func TestInMemoryCatalog(t *testing.T) {
	gT = t

	cat, err := catalog.OpenCatalog(gCtx, gopoly.CatalogOpts{MaxDim: 4})
	if err != nil {
		gT.Fatal(err)
	}
	defer cat.Close()

	if added := cat.TryAddPolytope(mustParse("cube(2)")); !added {
		t.Fatal("nope")
	}

	// past the catalog's MaxDim
	if added := cat.TryAddPolytope(mustParse("simplex(5)")); added {
		t.Fatal("nope")
	}
	if cat.NumPolytopes(2) != 1 {
		t.Fatal("nope")
	}
}

func TestMain(m *testing.M) {
	code := m.Run()
	gCtx.Close()
	<-gCtx.Done()
	os.Exit(code)
}
