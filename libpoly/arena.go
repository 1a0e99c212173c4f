package libpoly

// FaceArena is a pre-sized, append-only block of Face slots sharing one
// backing allocation.
//
// Faces are appended, never removed individually; Clear() recycles the whole
// arena for the next dimension level. An arena is owned by exactly one
// FaceIterator for the duration of an enumeration, and no face outlives its
// arena. Appending past capacity is a programming-contract violation (the
// capacity is sized from the trusted coatom count at construction) and aborts.
type FaceArena struct {
	faces      []Face
	n          int
	numAtoms   int
	numCoatoms int
}

// NewFaceArena returns an arena of capFaces zeroed face slots, with all bit
// vectors carved out of a single allocation.
func NewFaceArena(capFaces, numAtoms, numCoatoms int) *FaceArena {
	atomWords := wordsFor(numAtoms)
	coatomWords := wordsFor(numCoatoms)
	backing := make([]uint64, capFaces*(atomWords+coatomWords))

	ar := &FaceArena{
		faces:      make([]Face, capFaces),
		numAtoms:   numAtoms,
		numCoatoms: numCoatoms,
	}
	for i := range ar.faces {
		at := i * (atomWords + coatomWords)
		ar.faces[i] = Face{
			Atoms:   bitsOver(backing[at:at+atomWords], numAtoms),
			Coatoms: bitsOver(backing[at+atomWords:at+atomWords+coatomWords], numCoatoms),
		}
	}
	return ar
}

func (ar *FaceArena) Len() int {
	return ar.n
}

func (ar *FaceArena) Cap() int {
	return len(ar.faces)
}

// At returns the face in slot i. The pointer is valid until the next Clear.
func (ar *FaceArena) At(i int) *Face {
	if i >= ar.n {
		panic("libpoly: face arena index out of range")
	}
	return &ar.faces[i]
}

// AppendBlank claims the next slot, zeroed, for the caller to fill in place.
func (ar *FaceArena) AppendBlank() *Face {
	if ar.n >= len(ar.faces) {
		panic("libpoly: face arena capacity exceeded")
	}
	F := &ar.faces[ar.n]
	F.Atoms.ClearAll()
	F.Coatoms.ClearAll()
	ar.n++
	return F
}

// Append copies src into the next slot.
func (ar *FaceArena) Append(src *Face) *Face {
	if ar.n >= len(ar.faces) {
		panic("libpoly: face arena capacity exceeded")
	}
	F := &ar.faces[ar.n]
	F.CopyFrom(src)
	ar.n++
	return F
}

// TrimLast discards the most recently appended face.
func (ar *FaceArena) TrimLast() {
	if ar.n > 0 {
		ar.n--
	}
}

// Clear recycles every slot. Slot storage is reused in place; nothing is freed.
func (ar *FaceArena) Clear() {
	ar.n = 0
}

// Compact keeps only the faces whose keep flag is set, preserving order.
// Face contents are copied down; slot storage stays bound to its offset.
func (ar *FaceArena) Compact(keep []bool) {
	w := 0
	for i := 0; i < ar.n; i++ {
		if !keep[i] {
			continue
		}
		if w != i {
			ar.faces[w].CopyFrom(&ar.faces[i])
		}
		w++
	}
	ar.n = w
}

// AnyContains returns whether any face in this arena contains F under the
// given comparison variant.
func (ar *FaceArena) AnyContains(F *Face, variant CompareVariant) bool {
	for i := 0; i < ar.n; i++ {
		if F.SubsetOf(&ar.faces[i], variant) {
			return true
		}
	}
	return false
}
