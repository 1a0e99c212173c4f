package gopoly

import (
	"fmt"
	"io"
	"strings"
)

// FaceStream is a pipeline of detached Face snapshots.
//
// The face iterator itself is a strictly sequential pull generator; a
// FaceStream is an adapter that drains one iterator (or catalog selection)
// in a goroutine so that stages can be chained.
type FaceStream struct {
	Outlet chan Face
}

func NewFaceStream() *FaceStream {
	stream := &FaceStream{
		Outlet: make(chan Face, 1),
	}
	return stream
}

func (stream *FaceStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *FaceStream) PushFace(f Face) {
	stream.Outlet <- f
}

func (stream *FaceStream) PullFace() (Face, bool) {
	f, ok := <-stream.Outlet
	return f, ok
}

// PullAll drains this stream, returning the number of faces pulled.
func (stream *FaceStream) PullAll() int {
	count := int(0)
	for range stream.Outlet {
		count++
	}
	return count
}

// CountByDim drains this stream and tallies faces by dimension.
// Faces of the full polytope's dimension (or higher) are not counted.
func (stream *FaceStream) CountByDim(polyDim int) FVector {
	var fv FVector
	fv.SetLen(polyDim)
	for f := range stream.Outlet {
		if f.Dim >= 0 && f.Dim < polyDim {
			fv[f.Dim]++
		}
	}
	return fv
}

// SelectDims passes through only faces whose dimension lies in [minDim, maxDim].
func (stream *FaceStream) SelectDims(minDim, maxDim int) *FaceStream {
	next := &FaceStream{
		Outlet: make(chan Face, 1),
	}

	go func() {
		for f := range stream.Outlet {
			if f.Dim >= minDim && f.Dim <= maxDim {
				next.Outlet <- f
			}
		}
		next.Close()
	}()

	return next
}

// AddTo passes through only faces newly added to the given target.
func (stream *FaceStream) AddTo(target FaceAdder) *FaceStream {
	next := &FaceStream{
		Outlet: make(chan Face, 1),
	}

	go func() {
		for f := range stream.Outlet {
			wasAdded := target.TryAddFace(f)
			if wasAdded {
				next.Outlet <- f
			}
		}
		next.Close()
	}()

	return next
}

// FaceDeduper is a FaceAdder with a lifetime bound to one pipeline stage.
type FaceDeduper interface {
	FaceAdder

	// Close removes all previously added items from this set.
	Close()
}

// DropDupes passes through only the first face seen for each atom set.
// The given deduper is closed when the stream ends.
func (stream *FaceStream) DropDupes(dupes FaceDeduper) *FaceStream {
	next := &FaceStream{
		Outlet: make(chan Face, 1),
	}

	go func() {
		for f := range stream.Outlet {
			if dupes.TryAddFace(f) {
				next.Outlet <- f
			}
		}
		dupes.Close()
		next.Close()
	}()

	return next
}

func (stream *FaceStream) Print(
	out io.Writer,
	opts PrintOpts) *FaceStream {

	next := &FaceStream{
		Outlet: make(chan Face, 1),
	}

	go func() {
		buf := strings.Builder{}
		buf.Grow(256)

		count := 0
		for f := range stream.Outlet {
			if len(opts.Label) > 0 {
				buf.WriteString(opts.Label)
				buf.WriteByte(',')
			}

			count++
			fmt.Fprintf(&buf, "%06d,dim=%d,{", count, f.Dim)
			for i, ai := range f.Atoms {
				if i > 0 {
					buf.WriteByte(' ')
				}
				fmt.Fprintf(&buf, "%d", ai)
			}
			buf.WriteByte('}')
			if opts.Coatoms {
				buf.WriteString(",on{")
				for i, ci := range f.Coatoms {
					if i > 0 {
						buf.WriteByte(' ')
					}
					fmt.Fprintf(&buf, "%d", ci)
				}
				buf.WriteByte('}')
			}
			buf.WriteByte('\n')
			io.WriteString(out, buf.String())
			buf.Reset()
			next.Outlet <- f
		}
		next.Close()
	}()

	return next
}
