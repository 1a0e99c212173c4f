package libpoly

import (
	"encoding/binary"
)

// CompareVariant selects which bit vector subset tests run against.
//
// The two variants are logically equivalent on faces with exact
// representations; the coatom variant is cheaper when the coatom universe is
// much smaller than the atom universe. The variant is chosen once per
// iterator run from the atom/coatom counts, never re-decided per call.
type CompareVariant int32

const (
	// CompareAtoms tests a ⊆ b as a.atoms ⊆ b.atoms.
	CompareAtoms CompareVariant = iota

	// CompareCoatoms tests a ⊆ b as a.coatoms ⊇ b.coatoms.
	// Only valid when both coatom representations are exact.
	CompareCoatoms
)

// FaceLSM is an LSM binary encoding of a face's atom set.
type FaceLSM []byte

// Face is one face of a polytope, held in both representations at once:
// the atoms (vertices) it contains and the coatoms (facets) containing it.
//
// The atom vector is the face's identity. The coatom vector is a sound lower
// bound maintained as a cheap hint during descent: every set bit is a true
// containment, but bits may be missing. Exact coatom membership is recomputed
// against the incidence tables before a face is reported to a caller.
type Face struct {
	Atoms   Bits
	Coatoms Bits
}

// NewFace returns a standalone zeroed face with the given capacities.
// Faces inside a FaceArena share the arena's backing instead.
func NewFace(numAtoms, numCoatoms int) Face {
	return Face{
		Atoms:   NewBits(numAtoms),
		Coatoms: NewBits(numCoatoms),
	}
}

// CopyFrom copies src into F. Capacities must match.
func (F *Face) CopyFrom(src *Face) {
	F.Atoms.CopyFrom(src.Atoms)
	F.Coatoms.CopyFrom(src.Coatoms)
}

// IsEmpty returns whether this is the empty face (no atoms).
func (F *Face) IsEmpty() bool {
	return F.Atoms.IsZero()
}

// Compare orders faces by their atom vectors (total order, used for stable
// deduplication). The coatom vectors never participate in face identity.
func (F *Face) Compare(other *Face) int {
	return F.Atoms.Compare(other.Atoms)
}

func (F *Face) Equal(other *Face) bool {
	return F.Atoms.Equal(other.Atoms)
}

// SubsetOf returns whether F ⊆ other under the given comparison variant.
func (F *Face) SubsetOf(other *Face, variant CompareVariant) bool {
	if variant == CompareCoatoms {
		return other.Coatoms.ContainedIn(F.Coatoms)
	}
	return F.Atoms.ContainedIn(other.Atoms)
}

func (F *Face) AddAtom(a int) {
	F.Atoms.Set(a)
}

func (F *Face) DiscardAtom(a int) {
	F.Atoms.Clear(a)
}

// SetCoatom clears the coatom set and marks the single coatom c.
// Used when a face is the named coatom itself.
func (F *Face) SetCoatom(c int) {
	F.Coatoms.ClearAll()
	F.Coatoms.Set(c)
}

// Intersect assigns F = A ∩ coatom, where coatom is the face of the coatom
// with index c. The atom vector is exact; the coatom vector becomes
// A.coatoms ∪ {c}, a lower bound on the facets containing the result.
func (F *Face) Intersect(A *Face, coatomAtoms Bits, c int) {
	F.Atoms.SetIntersect(A.Atoms, coatomAtoms)
	F.Coatoms.CopyFrom(A.Coatoms)
	F.Coatoms.Set(c)
}

// AppendFaceLSM appends a canonical binary encoding of F's atom set to out.
// The encoding is the atom count followed by ascending index deltas, all varints.
func (F *Face) AppendFaceLSM(out []byte) FaceLSM {
	var scrap [binary.MaxVarintLen64]byte

	key := out
	n := binary.PutUvarint(scrap[:], uint64(F.Atoms.Count()))
	key = append(key, scrap[:n]...)

	prev := 0
	for a := F.Atoms.NextBit(0); a >= 0; a = F.Atoms.NextBit(a + 1) {
		n = binary.PutUvarint(scrap[:], uint64(a-prev))
		key = append(key, scrap[:n]...)
		prev = a
	}
	return key
}

// AppendAtomSetLSM encodes a sorted atom index list the same way AppendFaceLSM
// encodes a face, so detached snapshots and arena faces share one key space.
func AppendAtomSetLSM(out []byte, atoms []int) FaceLSM {
	var scrap [binary.MaxVarintLen64]byte

	key := out
	n := binary.PutUvarint(scrap[:], uint64(len(atoms)))
	key = append(key, scrap[:n]...)

	prev := 0
	for _, a := range atoms {
		n = binary.PutUvarint(scrap[:], uint64(a-prev))
		key = append(key, scrap[:n]...)
		prev = a
	}
	return key
}
