// Package phiexpr parses relation-path expressions such as "phi<1,2,-1>" or "beta<0,2>; phi<1>".
package phiexpr

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"github.com/2x3systems/topomap/topo"
)

// Expr is one or more paths separated by ';'.
type Expr struct {
	Paths []*Path `parser:"@@ (\";\" @@)*"`
}

// Path is a relation name followed by the steps to apply left to right.
type Path struct {
	Rel   string `parser:"@(\"phi\" | \"beta\")"`
	Steps []int  `parser:"\"<\" @Int (\",\" @Int)* \">\""`
}

const (
	Phi  = "phi"
	Beta = "beta"
)

var pathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "Punct", Pattern: `[<>,;]`},
	{Name: "whitespace", Pattern: `[ \t\r\n]+`},
})

var parsePathExpr = participle.MustBuild[Expr](
	participle.Lexer(pathLexer),
)

// Parse parses and validates expr.
func Parse(expr string) (*Expr, error) {
	ast, err := parsePathExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrap(topo.ErrBadRelationPath, err.Error())
	}
	for _, path := range ast.Paths {
		if err = path.Validate(); err != nil {
			return nil, err
		}
	}
	return ast, nil
}

// ParsePath parses an expression holding exactly one path.
func ParsePath(expr string) (*Path, error) {
	ast, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	if len(ast.Paths) != 1 {
		return nil, errors.Wrapf(topo.ErrBadRelationPath, "expected one path, got %d", len(ast.Paths))
	}
	return ast.Paths[0], nil
}

// Validate checks every step against the relation: phi steps are ±1, ±2, ±3 and beta steps are 0..3.
func (path *Path) Validate() error {
	for _, step := range path.Steps {
		ok := false
		switch path.Rel {
		case Phi:
			ok = step != 0 && step >= -3 && step <= 3
		case Beta:
			ok = step >= 0 && step <= 3
		}
		if !ok {
			return errors.Wrapf(topo.ErrBadRelationPath, "%s step %d", path.Rel, step)
		}
	}
	return nil
}

// BetaMesh is a mesh with explicit β involutions.
type BetaMesh interface {
	topo.Mesh
	Beta(i int, d topo.Dart) topo.Dart
}

// Apply walks path from d on m.  A beta path on a mesh without β relations fails.
func (path *Path) Apply(m topo.Mesh, d topo.Dart) (topo.Dart, error) {
	switch path.Rel {
	case Phi:
		return m.Phi(d, path.Steps...), nil
	case Beta:
		bm, ok := m.(BetaMesh)
		if !ok || m.Encoding() != topo.Generalized {
			return topo.NilDart, errors.Wrapf(topo.ErrBadRelationPath, "beta path on a %v map", m.Encoding())
		}
		for _, step := range path.Steps {
			d = bm.Beta(step, d)
		}
		return d, nil
	}
	return topo.NilDart, errors.Wrapf(topo.ErrBadRelationPath, "unknown relation %q", path.Rel)
}

// Apply walks each path from d in turn and returns the darts reached.
func (expr *Expr) Apply(m topo.Mesh, d topo.Dart) ([]topo.Dart, error) {
	out := make([]topo.Dart, 0, len(expr.Paths))
	for _, path := range expr.Paths {
		dst, err := path.Apply(m, d)
		if err != nil {
			return nil, err
		}
		out = append(out, dst)
	}
	return out, nil
}

func (path *Path) String() string {
	var b strings.Builder
	b.WriteString(path.Rel)
	b.WriteByte('<')
	for i, step := range path.Steps {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprint(&b, step)
	}
	b.WriteByte('>')
	return b.String()
}

func (expr *Expr) String() string {
	strs := make([]string, len(expr.Paths))
	for i, path := range expr.Paths {
		strs[i] = path.String()
	}
	return strings.Join(strs, "; ")
}
