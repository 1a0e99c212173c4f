package libpoly

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"

	"github.com/polytope-systems/gopoly/gopoly"
)

// PolyExpr is a textual polytope description: either a named generator such
// as "simplex(3)", "cube(4)", "cross(3)", or an explicit facet list such as
// "(0 1 2)(0 1 3)(0 2 3)(1 2 3)" giving each facet's vertex indices.
type PolyExpr struct {
	Gen    *GenExpr     `parser:"  @@"`
	Facets []*FacetExpr `parser:"| @@+"`
}

type GenExpr struct {
	Name string `parser:"@Ident"`
	Dim  int    `parser:"'(' @Int ')'"`
}

type FacetExpr struct {
	Atoms []int `parser:"'(' @Int+ ')'"`
}

var parsePolyExpr = participle.MustBuild[PolyExpr]()

// ParsePolyExpr parses a polytope expression and returns the validated
// polytope it describes. Vertex indices in a facet list are zero-based and
// the vertex count is one past the highest index named.
func ParsePolyExpr(expr string) (*Polytope, error) {
	Pexpr, err := parsePolyExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrap(gopoly.ErrBadPolyExpr, err.Error())
	}

	if Pexpr.Gen != nil {
		switch strings.ToLower(Pexpr.Gen.Name) {
		case "simplex":
			return Simplex(Pexpr.Gen.Dim)
		case "cube", "hypercube":
			return Hypercube(Pexpr.Gen.Dim)
		case "cross", "crosspolytope":
			return CrossPolytope(Pexpr.Gen.Dim)
		default:
			return nil, errors.Wrapf(gopoly.ErrBadPolyExpr, "unknown generator %q", Pexpr.Gen.Name)
		}
	}

	numAtoms := 0
	coatoms := make([][]int, 0, len(Pexpr.Facets))
	for _, facet := range Pexpr.Facets {
		for _, a := range facet.Atoms {
			if a < 0 {
				return nil, errors.Wrapf(gopoly.ErrBadPolyExpr, "negative vertex index %d", a)
			}
			if a+1 > numAtoms {
				numAtoms = a + 1
			}
		}
		coatoms = append(coatoms, facet.Atoms)
	}
	return NewPolytope(numAtoms, coatoms)
}
