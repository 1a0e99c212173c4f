package gopoly

import "errors"

// Errors
var (
	ErrUnmarshal        = errors.New("unmarshal failed")
	ErrBadCatalogParam  = errors.New("bad catalog param")
	ErrCatalogReadOnly  = errors.New("catalog is read-only")
	ErrNilPolytope      = errors.New("nil polytope")
	ErrBadPolyExpr      = errors.New("bad polytope expression")
	ErrBadAtomCount     = errors.New("atom count must be positive")
	ErrBadCoatomCount   = errors.New("coatom count must be positive")
	ErrBadAtomIndex     = errors.New("atom index out of range")
	ErrEmptyCoatom      = errors.New("coatom contains no atoms")
	ErrCoatomIsUniverse = errors.New("coatom contains every atom")
	ErrCoatomContained  = errors.New("coatom contained in another coatom")
	ErrAtomUncovered    = errors.New("atom not on any coatom")
	ErrTooFewCoatoms    = errors.New("fewer coatoms than dimension+1")
)
