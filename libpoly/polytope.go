package libpoly

import (
	"fmt"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/polytope-systems/gopoly/gopoly"
)

// Polytope couples validated IncidenceTables with cached enumeration results.
// Safe for concurrent readers once constructed.
type Polytope struct {
	tables *IncidenceTables

	fvecOnce sync.Once
	fvec     gopoly.FVector
}

// NewPolytope validates the given vertex-facet incidences and wraps them.
func NewPolytope(numAtoms int, coatoms [][]int) (*Polytope, error) {
	tables, err := NewIncidenceTables(numAtoms, coatoms)
	if err != nil {
		return nil, err
	}
	return &Polytope{tables: tables}, nil
}

// PolytopeFromTables wraps already-validated tables.
func PolytopeFromTables(tables *IncidenceTables) *Polytope {
	return &Polytope{tables: tables}
}

// PolytopeFromLSM rebuilds a polytope from an AppendPolyLSM encoding.
func PolytopeFromLSM(lsm gopoly.PolyLSM) (*Polytope, error) {
	tables, err := DecodePolyLSM(lsm)
	if err != nil {
		return nil, err
	}
	return &Polytope{tables: tables}, nil
}

func (P *Polytope) Tables() *IncidenceTables {
	return P.tables
}

func (P *Polytope) Dimension() int {
	return P.tables.Dimension()
}

func (P *Polytope) VertexCount() int {
	return P.tables.NumAtoms()
}

func (P *Polytope) FacetCount() int {
	return P.tables.NumCoatoms()
}

// NewFaceIterator starts one enumeration run over this polytope.
func (P *Polytope) NewFaceIterator(opts EnumOpts) (*FaceIterator, error) {
	return NewFaceIterator(P.tables, opts)
}

// FVector enumerates all proper faces once and caches their counts by
// dimension. The traversal runs in whichever mode has the smaller coatom side.
func (P *Polytope) FVector() (gopoly.FVector, error) {
	P.fvecOnce.Do(func() {
		it, err := NewFaceIterator(P.tables, EnumOpts{
			Dual: P.tables.NumAtoms() < P.tables.NumCoatoms(),
			Dims: &DimRange{Lo: 0, Hi: P.tables.Dimension() - 1},
		})
		if err != nil {
			return
		}
		var fv gopoly.FVector
		fv.SetLen(P.tables.Dimension())
		for cf := it.NextFace(); cf != nil; cf = it.NextFace() {
			fv[cf.Dimension()]++
		}
		P.fvec = fv
	})
	if P.fvec == nil {
		return nil, gopoly.ErrNilPolytope
	}
	return P.fvec, nil
}

// Stream drains one enumeration run into a FaceStream of detached snapshots.
func (P *Polytope) Stream(opts EnumOpts) *gopoly.FaceStream {
	stream := gopoly.NewFaceStream()

	go func() {
		it, err := NewFaceIterator(P.tables, opts)
		if err == nil {
			for cf := it.NextFace(); cf != nil; cf = it.NextFace() {
				stream.PushFace(cf.MakeCopy())
			}
		}
		stream.Close()
	}()

	return stream
}

// AppendPolyLSM appends the canonical incidence encoding of this polytope.
func (P *Polytope) AppendPolyLSM(out []byte) gopoly.PolyLSM {
	return P.tables.AppendPolyLSM(out)
}

// Audit re-enumerates this polytope by brute force and checks the iterator
// against it: identical face sets, no duplicates, and an Eulerian f-vector.
// Exponential in the facet count; intended for small polytopes and tests.
func (P *Polytope) Audit() error {
	lattice, err := BuildLattice(P.tables)
	if err != nil {
		return err
	}
	fv, err := P.FVector()
	if err != nil {
		return err
	}
	if !fv.IsEqual(lattice.FVector()) {
		return errors.Errorf("audit: iterator f-vector %v != lattice f-vector %v", fv, lattice.FVector())
	}
	if !fv.IsEulerian(P.Dimension()) {
		return errors.Errorf("audit: f-vector %v fails Euler relation for dimension %d", fv, P.Dimension())
	}

	it, err := P.NewFaceIterator(EnumOpts{})
	if err != nil {
		return err
	}
	seen := NewFaceSet()
	defer seen.Close()
	for cf := it.NextFace(); cf != nil; cf = it.NextFace() {
		f := cf.MakeCopy()
		if !seen.TryAddFace(f) {
			return errors.Errorf("audit: face %v produced twice", f.Atoms)
		}
		if f.Dim < P.Dimension() {
			lf := lattice.FindFace(f.Atoms)
			if lf == nil {
				return errors.Errorf("audit: face %v not in lattice", f.Atoms)
			}
			if lf.Dim != f.Dim {
				return errors.Errorf("audit: face %v reported dim %d, lattice says %d", f.Atoms, f.Dim, lf.Dim)
			}
		}
	}
	return nil
}

func (P *Polytope) WriteAsString(out io.Writer, opts gopoly.PrintOpts) {
	if len(opts.Label) > 0 {
		fmt.Fprintf(out, "%s,", opts.Label)
	}
	fmt.Fprintf(out, "dim=%d,verts=%d,facets=%d", P.Dimension(), P.VertexCount(), P.FacetCount())
	if opts.FVector {
		fv, err := P.FVector()
		if err == nil {
			fmt.Fprint(out, ",f=")
			fv.WriteAsString(out)
		}
	}
	if opts.Facets {
		for c := 0; c < P.FacetCount(); c++ {
			fmt.Fprint(out, ",(")
			for i, a := range P.tables.CoatomList(c) {
				if i > 0 {
					fmt.Fprint(out, " ")
				}
				fmt.Fprintf(out, "%d", a)
			}
			fmt.Fprint(out, ")")
		}
	}
}
