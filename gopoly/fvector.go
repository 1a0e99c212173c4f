package gopoly

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// IsEqual returns if two f-vectors have identical counts in every dimension.
func (fv FVector) IsEqual(target FVector) bool {
	if len(fv) != len(target) {
		return false
	}
	for i := range fv {
		if fv[i] != target[i] {
			return false
		}
	}
	return true
}

// Total returns the total number of proper faces counted by this f-vector.
func (fv FVector) Total() int64 {
	total := int64(0)
	for _, fi := range fv {
		total += fi
	}
	return total
}

// EulerSum returns the alternating sum f0 - f1 + f2 - ...
func (fv FVector) EulerSum() int64 {
	sum := int64(0)
	sign := int64(1)
	for _, fi := range fv {
		sum += sign * fi
		sign = -sign
	}
	return sum
}

// IsEulerian returns whether this f-vector satisfies the Euler relation for a
// polytope of the given dimension: f0 - f1 + ... = 1 - (-1)^dim.
//
// Every polytope f-vector must pass this; it is a cheap audit of a full enumeration.
func (fv FVector) IsEulerian(dim int) bool {
	if len(fv) != dim {
		return false
	}
	want := int64(2)
	if dim%2 == 0 {
		want = 0
	}
	return fv.EulerSum() == want
}

func (fv *FVector) SetLen(numDims int) {
	if cap(*fv) < numDims {
		dimLen := numDims
		if dimLen < 8 {
			dimLen = 8 // prevent rapid resizing
		}
		*fv = make([]int64, numDims, dimLen)
	} else {
		*fv = (*fv)[:numDims]
	}
	for i := range *fv {
		(*fv)[i] = 0
	}
}

// AppendFVectorLSM appends a canonical binary encoding of fv to out, returning it as FVectorLSM.
func (fv FVector) AppendFVectorLSM(out []byte) FVectorLSM {
	var scrap [binary.MaxVarintLen64]byte

	key := out
	n := binary.PutUvarint(scrap[:], uint64(len(fv)))
	key = append(key, scrap[:n]...)
	for _, fi := range fv {
		n = binary.PutVarint(scrap[:], fi)
		key = append(key, scrap[:n]...)
	}
	return key
}

// InitFromFVectorLSM assigns this FVector from a binary encoding made from AppendFVectorLSM()
func (fv *FVector) InitFromFVectorLSM(lsm FVectorLSM) error {
	rdr := bytes.NewReader(lsm)

	numDims, err := binary.ReadUvarint(rdr)
	if err != nil {
		return ErrUnmarshal
	}
	fv.SetLen(int(numDims))
	for i := range *fv {
		fi, err := binary.ReadVarint(rdr)
		if err != nil {
			return ErrUnmarshal
		}
		(*fv)[i] = fi
	}
	return nil
}

func (fv FVector) WriteAsString(out io.Writer) {
	fmt.Fprint(out, "(")
	for i, fi := range fv {
		if i > 0 {
			fmt.Fprint(out, ", ")
		}
		fmt.Fprintf(out, "%d", fi)
	}
	fmt.Fprint(out, ")")
}

func (fv FVector) String() string {
	b := bytes.Buffer{}
	fv.WriteAsString(&b)
	return b.String()
}
