package libpoly

import (
	"math/bits"
)

const wordBits = 64

// Bits is a fixed-capacity bit vector backed by uint64 words.
//
// The capacity is set at creation and never changes; trailing bits past the
// capacity are kept zero so that word-level comparisons are exact.
// Operations that combine two Bits require equal capacities.
type Bits struct {
	words []uint64
	n     int32 // capacity in bits
}

func wordsFor(numBits int) int {
	return (numBits + wordBits - 1) / wordBits
}

// NewBits returns a zeroed bit vector with the given capacity.
func NewBits(numBits int) Bits {
	return Bits{
		words: make([]uint64, wordsFor(numBits)),
		n:     int32(numBits),
	}
}

// bitsOver wraps the given backing words as a Bits of the given capacity.
// Used by FaceArena to place many bit vectors in one allocation.
func bitsOver(backing []uint64, numBits int) Bits {
	return Bits{
		words: backing,
		n:     int32(numBits),
	}
}

// Cap returns the capacity of this bit vector in bits.
func (b Bits) Cap() int {
	return int(b.n)
}

func (b Bits) Set(i int) {
	b.words[i>>6] |= 1 << (uint(i) & 63)
}

func (b Bits) Clear(i int) {
	b.words[i>>6] &^= 1 << (uint(i) & 63)
}

func (b Bits) Test(i int) bool {
	return b.words[i>>6]&(1<<(uint(i)&63)) != 0
}

func (b Bits) ClearAll() {
	for i := range b.words {
		b.words[i] = 0
	}
}

// SetAll sets every bit below the capacity.
func (b Bits) SetAll() {
	for i := range b.words {
		b.words[i] = ^uint64(0)
	}
	if tail := uint(b.n) & 63; tail != 0 {
		b.words[len(b.words)-1] &= (1 << tail) - 1
	}
}

// CopyFrom copies src into b. Capacities must match.
func (b Bits) CopyFrom(src Bits) {
	checkCaps(b, src)
	copy(b.words, src.words)
}

// Count returns the number of set bits.
func (b Bits) Count() int {
	count := 0
	for _, w := range b.words {
		count += bits.OnesCount64(w)
	}
	return count
}

func (b Bits) IsZero() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

func (b Bits) Equal(other Bits) bool {
	checkCaps(b, other)
	for i, w := range b.words {
		if w != other.words[i] {
			return false
		}
	}
	return true
}

// Compare returns -1, 0, or +1, ordering bit vectors by their word content.
// Any fixed total order works for deduplication; this one compares words
// low-index first.
func (b Bits) Compare(other Bits) int {
	checkCaps(b, other)
	for i, w := range b.words {
		ow := other.words[i]
		if w != ow {
			if w < ow {
				return -1
			}
			return 1
		}
	}
	return 0
}

// ContainedIn returns whether every set bit of b is also set in other.
func (b Bits) ContainedIn(other Bits) bool {
	checkCaps(b, other)
	for i, w := range b.words {
		if w&^other.words[i] != 0 {
			return false
		}
	}
	return true
}

// SetIntersect assigns b = x ∩ y.
func (b Bits) SetIntersect(x, y Bits) {
	checkCaps(b, x)
	checkCaps(b, y)
	for i := range b.words {
		b.words[i] = x.words[i] & y.words[i]
	}
}

// SetUnion assigns b = x ∪ y.
func (b Bits) SetUnion(x, y Bits) {
	checkCaps(b, x)
	checkCaps(b, y)
	for i := range b.words {
		b.words[i] = x.words[i] | y.words[i]
	}
}

// AppendIndices appends the index of every set bit to out in ascending order.
func (b Bits) AppendIndices(out []int) []int {
	for wi, w := range b.words {
		base := wi << 6
		for w != 0 {
			out = append(out, base+bits.TrailingZeros64(w))
			w &= w - 1
		}
	}
	return out
}

// NextBit returns the index of the first set bit at or after from, or -1.
func (b Bits) NextBit(from int) int {
	if from >= int(b.n) {
		return -1
	}
	wi := from >> 6
	w := b.words[wi] >> (uint(from) & 63)
	if w != 0 {
		return from + bits.TrailingZeros64(w)
	}
	for wi++; wi < len(b.words); wi++ {
		if b.words[wi] != 0 {
			return wi<<6 + bits.TrailingZeros64(b.words[wi])
		}
	}
	return -1
}

// checkCaps panics on mismatched capacities: a comparison across mismatched
// bit vectors is a programming-contract violation, not a recoverable error.
func checkCaps(a, b Bits) {
	if a.n != b.n {
		panic("libpoly: bit vector capacity mismatch")
	}
}
