package gopoly

import (
	"io"
)

// Atom is a zero-based index identifying a vertex of a polytope (or a facet in dual mode).
type Atom int32

// Coatom is a zero-based index identifying a facet of a polytope (or a vertex in dual mode).
type Coatom int32

// FVector counts the faces of a polytope by dimension.
// FVector[d] is the number of d-dimensional faces, so FVector[0] counts vertices.
// The full polytope and the empty face are not counted.
type FVector []int64

// FVectorLSM is an LSM binary encoding / symbol of an FVector.
type FVectorLSM []byte

// PolyLSM is a canonical LSM binary encoding of a polytope's vertex-facet incidences.
type PolyLSM []byte

// Face is a portable, detached snapshot of one face of a polytope.
//
// Unlike the views handed out by a face iterator, a Face owns its index slices
// and remains valid indefinitely.
type Face struct {
	Dim     int   // combinatorial dimension of this face
	Atoms   []int // sorted vertex indices contained in this face
	Coatoms []int // sorted facet indices containing this face
}

// FaceAdder accepts faces, deduplicating by their atom set.
type FaceAdder interface {

	// Tries to add the given face to this set.
	// If true is returned, f was not present and was added.
	TryAddFace(f Face) bool
}

// PolytopeState is the state of one combinatorially described polytope.
type PolytopeState interface {

	// Dimension returns the combinatorial dimension of this polytope.
	Dimension() int

	// VertexCount returns the number of vertices (atoms).
	VertexCount() int

	// FacetCount returns the number of facets (coatoms).
	FacetCount() int

	// FVector enumerates all proper faces and returns their counts by dimension.
	FVector() (FVector, error)

	// AppendPolyLSM appends a canonical binary encoding of this polytope's incidences to out.
	AppendPolyLSM(out []byte) PolyLSM

	WriteAsString(out io.Writer, opts PrintOpts)
}

// OnPolyHit is a callback channel used to return polytopes meeting a set of selection criteria.
// Ownership of a PolytopeState travels through the channel.
type OnPolyHit chan<- PolytopeState

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Closes all open catalogs to be closed then closes.
	Close()

	// Signals when Close() completed and all open Catalogs have been closed
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a gopoly Catalog
type CatalogOpts struct {
	DbPathName string // omit for an in-memory db
	ReadOnly   bool   // open in read-only mode
	MaxDim     int32  // highest polytope dimension to preallocate stats for
}

// PolyAdder accepts polytopes, deduplicating by incidence encoding.
type PolyAdder interface {

	// Tries to add the given polytope to this catalog.
	// If true is returned, P did not exist and was added.
	TryAddPolytope(P PolytopeState) bool
}

// Catalog wraps a database of enumerated polytopes keyed by incidence encoding.
type Catalog interface {
	PolyAdder

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// NumPolytopes returns the number of cataloged polytopes of the given dimension.
	// An out of bounds dimension returns 0.
	NumPolytopes(forDim int32) int64

	// Select fires the given callback with each cataloged polytope that meets the selection criteria.
	Select(sel PolySelector, onHit OnPolyHit)

	Close() error
}

// PolyInfo summarizes a polytope for selection bounds.
type PolyInfo struct {
	Dim       int32
	NumVerts  int32
	NumFacets int32
}

// PolySelector is an operator that either selects a given polytope or not.
type PolySelector struct {
	Min PolyInfo // lower select bounds
	Max PolyInfo // upper select bounds
}

// DefaultPolySelector selects every valid polytope.
var DefaultPolySelector = PolySelector{
	Min: PolyInfo{
		Dim:       1,
		NumVerts:  1,
		NumFacets: 1,
	},
	Max: PolyInfo{
		Dim:       0x7FFFFFFF,
		NumVerts:  0x7FFFFFFF,
		NumFacets: 0x7FFFFFFF,
	},
}

// SelectsPolytope is a convenience function used to see if a polytope is selected according to a PolySelector.
func (sel *PolySelector) SelectsPolytope(P PolytopeState) bool {
	info := PolyInfo{
		Dim:       int32(P.Dimension()),
		NumVerts:  int32(P.VertexCount()),
		NumFacets: int32(P.FacetCount()),
	}
	if info.Dim < sel.Min.Dim || info.NumVerts < sel.Min.NumVerts || info.NumFacets < sel.Min.NumFacets {
		return false
	}
	if info.Dim > sel.Max.Dim || info.NumVerts > sel.Max.NumVerts || info.NumFacets > sel.Max.NumFacets {
		return false
	}
	return true
}

// PrintOpts specifies what is printed when printing a polytope or face
type PrintOpts struct {
	Label   string // Prefix label
	FVector bool   // If set, prints the f-vector
	Facets  bool   // If set, prints the facet atom lists
	Coatoms bool   // If set, face printing includes the containing facet indices
}

var DefaultPrintOpts = PrintOpts{
	FVector: true,
}
