package phiexpr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/2x3systems/topomap/libtopo/maps"
	"github.com/2x3systems/topomap/topo"
)

func TestParse(t *testing.T) {
	expr, err := Parse("phi<1,2,-1>; beta< 0, 2 >")
	require.NoError(t, err)

	want := &Expr{
		Paths: []*Path{
			{Rel: Phi, Steps: []int{1, 2, -1}},
			{Rel: Beta, Steps: []int{0, 2}},
		},
	}
	if diff := cmp.Diff(want, expr); diff != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "phi<1,2,-1>; beta<0,2>", expr.String())

	again, err := Parse(expr.String())
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(expr, again))
}

func TestParseRejects(t *testing.T) {
	bad := []string{
		"",
		"phi<>",
		"phi<1",
		"phi<0>",
		"phi<4>",
		"phi<-4>",
		"beta<-1>",
		"beta<4>",
		"psi<1>",
		"phi<1>;",
		"phi<1,>",
	}
	for _, str := range bad {
		_, err := Parse(str)
		require.ErrorIs(t, err, topo.ErrBadRelationPath, "expr %q", str)
	}

	_, err := ParsePath("phi<1>; phi<2>")
	require.ErrorIs(t, err, topo.ErrBadRelationPath)
}

func TestApply(t *testing.T) {
	c := maps.NewCMap2()
	d := c.AddFace(3).Dart

	path, err := ParsePath("phi<1,1,1>")
	require.NoError(t, err)
	got, err := path.Apply(c, d)
	require.NoError(t, err)
	require.Equal(t, d, got)

	path, err = ParsePath("beta<0>")
	require.NoError(t, err)
	_, err = path.Apply(c, d)
	require.ErrorIs(t, err, topo.ErrBadRelationPath)

	g := maps.NewGMap2()
	d = g.AddFace(4).Dart

	expr, err := Parse("beta<0,0>; beta<1,0>; phi<-1>; phi<2,2>")
	require.NoError(t, err)
	darts, err := expr.Apply(g, d)
	require.NoError(t, err)
	require.Equal(t, []topo.Dart{d, g.Phi_1(d), g.Phi_1(d), d}, darts)
}
