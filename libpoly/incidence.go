package libpoly

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/pkg/errors"

	"github.com/polytope-systems/gopoly/gopoly"
)

// IncidenceTables is the immutable combinatorial description of a polytope:
// for each coatom (facet), the bitset of atoms (vertices) it contains, plus
// the derived transpose. Built once, validated once, then only read — any
// number of face iterators may run against the same tables concurrently.
type IncidenceTables struct {
	numAtoms    int
	numCoatoms  int
	dimension   int
	coatomAtoms []Bits // per coatom: the atoms it contains
	atomCoatoms []Bits // per atom: the coatoms containing it
}

// NewIncidenceTables validates and indexes a vertex-facet incidence relation.
// Each coatoms[c] lists the atom indices on coatom c.
//
// Rejected inputs: empty universes, out-of-range atom indices, a coatom with
// no atoms, a coatom covering every atom, coatoms contained in one another
// (facets must be mutually incomparable), an atom on no coatom, and fewer
// coatoms than dimension+1.
func NewIncidenceTables(numAtoms int, coatoms [][]int) (*IncidenceTables, error) {
	if numAtoms <= 0 {
		return nil, gopoly.ErrBadAtomCount
	}
	if len(coatoms) == 0 {
		return nil, gopoly.ErrBadCoatomCount
	}
	numCoatoms := len(coatoms)

	tables := &IncidenceTables{
		numAtoms:    numAtoms,
		numCoatoms:  numCoatoms,
		coatomAtoms: make([]Bits, numCoatoms),
		atomCoatoms: make([]Bits, numAtoms),
	}
	for a := 0; a < numAtoms; a++ {
		tables.atomCoatoms[a] = NewBits(numCoatoms)
	}
	for c, atomList := range coatoms {
		row := NewBits(numAtoms)
		for _, a := range atomList {
			if a < 0 || a >= numAtoms {
				return nil, errors.Wrapf(gopoly.ErrBadAtomIndex, "coatom %d names atom %d of %d", c, a, numAtoms)
			}
			row.Set(a)
			tables.atomCoatoms[a].Set(c)
		}
		if row.IsZero() {
			return nil, errors.Wrapf(gopoly.ErrEmptyCoatom, "coatom %d", c)
		}
		if row.Count() == numAtoms {
			return nil, errors.Wrapf(gopoly.ErrCoatomIsUniverse, "coatom %d", c)
		}
		tables.coatomAtoms[c] = row
	}

	// Facets of a polytope are its maximal proper faces: no containments.
	for i := 0; i < numCoatoms; i++ {
		for j := 0; j < numCoatoms; j++ {
			if i != j && tables.coatomAtoms[i].ContainedIn(tables.coatomAtoms[j]) {
				return nil, errors.Wrapf(gopoly.ErrCoatomContained, "coatom %d within coatom %d", i, j)
			}
		}
	}
	for a := 0; a < numAtoms; a++ {
		if tables.atomCoatoms[a].IsZero() {
			return nil, errors.Wrapf(gopoly.ErrAtomUncovered, "atom %d", a)
		}
	}

	tables.dimension = computeDimension(tables.coatomAtoms)
	if numCoatoms < tables.dimension+1 {
		return nil, errors.Wrapf(gopoly.ErrTooFewCoatoms, "%d coatoms for dimension %d", numCoatoms, tables.dimension)
	}
	return tables, nil
}

func (tables *IncidenceTables) NumAtoms() int {
	return tables.numAtoms
}

func (tables *IncidenceTables) NumCoatoms() int {
	return tables.numCoatoms
}

// Dimension returns the combinatorial dimension derived from the incidences.
func (tables *IncidenceTables) Dimension() int {
	return tables.dimension
}

// CoatomAtoms returns the atom bitset of coatom c. Read-only.
func (tables *IncidenceTables) CoatomAtoms(c int) Bits {
	return tables.coatomAtoms[c]
}

// AtomCoatoms returns the coatom bitset of atom a. Read-only.
func (tables *IncidenceTables) AtomCoatoms(a int) Bits {
	return tables.atomCoatoms[a]
}

// CoatomList returns the sorted atom indices of coatom c.
func (tables *IncidenceTables) CoatomList(c int) []int {
	return tables.coatomAtoms[c].AppendIndices(nil)
}

// computeDimension derives the combinatorial dimension from the coatom list:
// one plus the dimension of any facet, recursing until a face has no known
// proper subfaces (a simplex on its atoms). Construction-time only; the
// per-level intersections here are not arena-managed.
func computeDimension(coatoms []Bits) int {
	return 1 + faceDim(coatoms[0], maximalIntersections(coatoms[0], coatoms[1:]))
}

func faceDim(atoms Bits, subfacets []Bits) int {
	if len(subfacets) == 0 {
		return atoms.Count() - 1
	}
	f0 := subfacets[0]
	return 1 + faceDim(f0, maximalIntersections(f0, subfacets[1:]))
}

// maximalIntersections returns the inclusion-maximal nonempty proper
// intersections of F with the given faces, deduplicated.
func maximalIntersections(F Bits, others []Bits) []Bits {
	cands := make([]Bits, 0, len(others))
	for _, o := range others {
		x := NewBits(F.Cap())
		x.SetIntersect(F, o)
		if x.IsZero() || x.Equal(F) {
			continue
		}
		cands = append(cands, x)
	}

	kept := make([]Bits, 0, len(cands))
	for i, xi := range cands {
		maximal := true
		for j, xj := range cands {
			if i == j {
				continue
			}
			if xi.ContainedIn(xj) {
				if !xi.Equal(xj) || j < i {
					maximal = false
					break
				}
			}
		}
		if maximal {
			kept = append(kept, xi)
		}
	}
	return kept
}

// AppendPolyLSM appends a canonical binary encoding of these tables to out:
// atom count, coatom count, then each coatom's face encoding. Coatoms are
// encoded in bit vector order so the key is independent of input facet order
// (though not of vertex labeling).
func (tables *IncidenceTables) AppendPolyLSM(out []byte) gopoly.PolyLSM {
	var scrap [binary.MaxVarintLen64]byte

	key := out
	n := binary.PutUvarint(scrap[:], uint64(tables.numAtoms))
	key = append(key, scrap[:n]...)
	n = binary.PutUvarint(scrap[:], uint64(tables.numCoatoms))
	key = append(key, scrap[:n]...)

	order := make([]int, tables.numCoatoms)
	for c := range order {
		order[c] = c
	}
	sort.Slice(order, func(i, j int) bool {
		return tables.coatomAtoms[order[i]].Compare(tables.coatomAtoms[order[j]]) < 0
	})

	F := Face{Atoms: NewBits(tables.numAtoms)}
	for _, c := range order {
		F.Atoms.CopyFrom(tables.coatomAtoms[c])
		key = []byte(F.AppendFaceLSM(key))
	}
	return key
}

// DecodePolyLSM rebuilds validated IncidenceTables from an AppendPolyLSM encoding.
func DecodePolyLSM(lsm gopoly.PolyLSM) (*IncidenceTables, error) {
	rdr := bytes.NewReader(lsm)

	numAtoms, err := binary.ReadUvarint(rdr)
	if err != nil {
		return nil, gopoly.ErrUnmarshal
	}
	numCoatoms, err := binary.ReadUvarint(rdr)
	if err != nil {
		return nil, gopoly.ErrUnmarshal
	}

	// never size an allocation from a count the remaining input cannot back:
	// a valid encoding spends at least one byte per coatom and per atom index
	if numAtoms > uint64(rdr.Len()) || numCoatoms > uint64(rdr.Len()) {
		return nil, gopoly.ErrUnmarshal
	}

	coatoms := make([][]int, numCoatoms)
	for c := range coatoms {
		numIdx, err := binary.ReadUvarint(rdr)
		if err != nil {
			return nil, gopoly.ErrUnmarshal
		}
		if numIdx > numAtoms {
			// a face cannot name more atoms than the universe holds
			return nil, gopoly.ErrUnmarshal
		}
		atomList := make([]int, numIdx)
		at := 0
		for i := range atomList {
			delta, err := binary.ReadUvarint(rdr)
			if err != nil {
				return nil, gopoly.ErrUnmarshal
			}
			at += int(delta)
			atomList[i] = at
		}
		coatoms[c] = atomList
	}
	return NewIncidenceTables(int(numAtoms), coatoms)
}
