package maps

import (
	"iter"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/2x3systems/topomap/topo"
)

type cellCounts struct {
	V, E, F, W int
}

func countsOf(m topo.Mesh) cellCounts {
	var n cellCounts
	n.V = m.NumCells(topo.Vertex)
	n.E = m.NumCells(topo.Edge)
	n.F = m.NumCells(topo.Face)
	if m.Supports(topo.Volume) {
		n.W = m.NumCells(topo.Volume)
	}
	return n
}

func requireCounts(t *testing.T, m topo.Mesh, want cellCounts) {
	t.Helper()
	if diff := cmp.Diff(want, countsOf(m)); diff != "" {
		t.Fatalf("cell counts mismatch (-want +got):\n%s", diff)
	}
}

func requireIntact(t *testing.T, m interface{ CheckIntegrity() error }) {
	t.Helper()
	require.NoError(t, m.CheckIntegrity())
}

type surfaceMap interface {
	Attributed
	AddPyramid(n int) topo.Cell
	AddPrism(n int) topo.Cell
	CutEdge(e topo.Cell) topo.Cell
	CutFace(v1, v2 topo.Cell) topo.Cell
	CheckIntegrity() error
	Codegree(f topo.Cell) int
	Degree(v topo.Cell) int
	NumAllCells(kind topo.CellKind) int
	Incident(c topo.Cell, kind topo.CellKind) iter.Seq[topo.Cell]
	Adjacent(c topo.Cell, through topo.CellKind) iter.Seq[topo.Cell]
}

func eachSurfaceMap(t *testing.T, test func(t *testing.T, m surfaceMap)) {
	t.Run("CMap2", func(t *testing.T) { test(t, NewCMap2()) })
	t.Run("GMap2", func(t *testing.T) { test(t, NewGMap2()) })
}

func TestNewVariants(t *testing.T) {
	for _, enc := range []topo.Encoding{topo.Combinatorial, topo.Generalized} {
		for dim := 1; dim <= 3; dim++ {
			m, err := New(enc, dim)
			require.NoError(t, err)
			require.Equal(t, enc, m.Encoding())
			require.Equal(t, dim, m.Dim())
			require.Equal(t, 0, m.NumDarts())
			require.True(t, m.Supports(topo.Vertex))
			require.Equal(t, dim == 3, m.Supports(topo.Vertex2))
			require.Equal(t, dim >= 2, m.Supports(topo.Volume))
		}
	}
	_, err := New(topo.Combinatorial, 4)
	require.ErrorIs(t, err, topo.ErrBadEncoding)
}

func TestDartRecycling(t *testing.T) {
	m := NewCMap2()
	a := m.AddDart()
	b := m.AddDart()
	require.Equal(t, topo.Dart(1), a)
	require.Equal(t, topo.Dart(2), b)
	require.Equal(t, a, m.Phi1(a))
	require.Equal(t, a, m.Phi2(a))

	m.Phi2Sew(a, b)
	require.Panics(t, func() { m.RemoveDart(a) })
	m.Phi2Unsew(a)
	m.RemoveDart(a)
	require.Equal(t, 1, m.NumDarts())
	require.False(t, m.IsLive(a))

	c := m.AddDart()
	require.Equal(t, a, c, "released slot must be reused")
	require.Equal(t, c, m.Phi2(c))
	requireIntact(t, m)
}

func TestInvolutions(t *testing.T) {
	c3 := NewCMap3()
	c3.AddPyramid(4)
	c3.AddPrism(5)
	c3.Close()

	g3 := NewGMap3()
	g3.AddPrism(3)
	g3.Close()

	for d := range c3.Darts() {
		require.Equal(t, d, c3.Phi2(c3.Phi2(d)))
		require.Equal(t, d, c3.Phi3(c3.Phi3(d)))
		require.Equal(t, d, c3.Phi_1(c3.Phi1(d)))
	}
	for d := range g3.Darts() {
		for i := 0; i <= 3; i++ {
			require.Equal(t, d, g3.Beta(i, g3.Beta(i, d)))
		}
		require.Equal(t, d, g3.Phi_1(g3.Phi1(d)))
	}
	requireIntact(t, c3)
	requireIntact(t, g3)
}

func TestPhi3Gluing(t *testing.T) {
	m := NewCMap3()
	a := m.AddPyramid(3).Dart
	b := m.AddPyramid(3).Dart
	require.NoError(t, m.SewFaces(a, b))
	requireIntact(t, m)

	a1, b1 := m.Phi1(a), m.Phi_1(b)
	require.Equal(t, b1, m.Phi3(a1))
	m.Phi3Unsew(a)
	require.Equal(t, a, m.Phi3(a))
	require.Equal(t, b, m.Phi3(b))

	// crossed gluing keeps φ3 an involution but twists the face
	m.Phi3Unsew(a1)
	m.Phi3Sew(a, b1)
	m.Phi3Sew(a1, b)
	require.Equal(t, a, m.Phi3(m.Phi3(a)))
	require.ErrorIs(t, m.CheckIntegrity(), topo.ErrIntegrity)

	m.Phi3Unsew(a)
	m.Phi3Unsew(a1)
	m.Phi3Sew(a, b)
	m.Phi3Sew(a1, b1)
	requireIntact(t, m)

	// a φ2 relation broken behind the map's back cannot be unsewn
	x := m.Phi2(a)
	m.rel[slotPhi2][x] = m.Phi1(x)
	require.Panics(t, func() { m.Phi2Unsew(a) })
	require.Equal(t, x, m.Phi2(a))
}

func TestPhiPaths(t *testing.T) {
	c := NewCMap2()
	f := c.AddFace(3)
	d := f.Dart
	require.Equal(t, d, c.Phi(d, 1, 1, 1))
	require.Equal(t, d, c.Phi(d, 2, 2))
	require.Equal(t, c.Phi_1(d), c.Phi(d, 1, 1))
	require.True(t, c.IsBoundary(c.Phi2(d)))
	require.Panics(t, func() { c.Phi(d, 4) })

	g := NewGMap2()
	f = g.AddFace(4)
	d = f.Dart
	require.Equal(t, d, g.Phi(d, 1, 1, 1, 1))
	require.Equal(t, d, g.Phi(d, -1, 1))
	require.Equal(t, d, g.Phi(d, 2, 2))
	require.True(t, g.IsBoundary(g.Phi2(d)))
}

func TestPolygons(t *testing.T) {
	c := NewCMap1()
	f := c.AddFace(5)
	requireCounts(t, c, cellCounts{V: 5, E: 5, F: 1})
	v := c.CutEdge(topo.EdgeOf(f.Dart))
	require.Equal(t, c.Phi1(f.Dart), v.Dart)
	requireCounts(t, c, cellCounts{V: 6, E: 6, F: 1})
	c.CollapseEdge(topo.EdgeOf(v.Dart))
	requireCounts(t, c, cellCounts{V: 5, E: 5, F: 1})
	c.AddVertex()
	requireCounts(t, c, cellCounts{V: 6, E: 6, F: 2})
	requireIntact(t, c)

	g := NewGMap1()
	f = g.AddFace(5)
	require.Equal(t, 10, g.NumDarts())
	requireCounts(t, g, cellCounts{V: 5, E: 5, F: 1})
	v = g.CutEdge(topo.EdgeOf(f.Dart))
	requireCounts(t, g, cellCounts{V: 6, E: 6, F: 1})
	v = g.CollapseEdge(topo.EdgeOf(v.Dart))
	requireCounts(t, g, cellCounts{V: 5, E: 5, F: 1})
	require.Equal(t, 5, g.Codegree(topo.FaceOf(v.Dart)))
	requireIntact(t, g)
}

func TestAddFaceHasBoundary(t *testing.T) {
	eachSurfaceMap(t, func(t *testing.T, m surfaceMap) {
		var f topo.Cell
		switch mm := m.(type) {
		case *CMap2:
			f = mm.AddFace(6)
		case *GMap2:
			f = mm.AddFace(6)
		}
		requireCounts(t, m, cellCounts{V: 6, E: 6, F: 1, W: 1})
		require.Equal(t, 2, m.NumAllCells(topo.Face))
		require.Equal(t, 6, m.Codegree(f))
		require.False(t, m.IsBoundary(f.Dart))
		require.True(t, m.IsBoundary(m.Phi(f.Dart, 2)))
		requireIntact(t, m)
	})
}

func TestPyramidAndPrismCounts(t *testing.T) {
	eachSurfaceMap(t, func(t *testing.T, m surfaceMap) {
		for n := 3; n <= 6; n++ {
			m.AddPyramid(n)
		}
		requireCounts(t, m, cellCounts{
			V: 4 + 5 + 6 + 7,
			E: 6 + 8 + 10 + 12,
			F: 4 + 5 + 6 + 7,
			W: 4,
		})
		requireIntact(t, m)
	})

	eachSurfaceMap(t, func(t *testing.T, m surfaceMap) {
		w := m.AddPrism(4)
		requireCounts(t, m, cellCounts{V: 8, E: 12, F: 6, W: 1})
		for v := range m.Incident(w, topo.Vertex) {
			require.Equal(t, 3, m.Degree(v))
		}
		requireIntact(t, m)
	})

	// open volumes of 3-maps have the same cells
	c3 := NewCMap3()
	c3.AddPyramid(5)
	requireCounts(t, c3, cellCounts{V: 6, E: 10, F: 6, W: 1})
	g3 := NewGMap3()
	g3.AddPrism(6)
	requireCounts(t, g3, cellCounts{V: 12, E: 18, F: 8, W: 1})
}

func TestIncidenceAndAdjacency(t *testing.T) {
	eachSurfaceMap(t, func(t *testing.T, m surfaceMap) {
		w := m.AddPyramid(4)
		base := topo.FaceOf(w.Dart)
		require.Equal(t, 4, m.Codegree(base))

		apex := topo.VertexOf(m.Phi(w.Dart, 2, -1))
		require.Equal(t, 4, m.Degree(apex))

		n := 0
		for range m.Incident(apex, topo.Face) {
			n++
		}
		require.Equal(t, 4, n)

		n = 0
		for range m.Adjacent(apex, topo.Edge) {
			n++
		}
		require.Equal(t, 4, n)

		n = 0
		for range m.Adjacent(base, topo.Edge) {
			n++
		}
		require.Equal(t, 4, n)

		// early exit leaves no marker behind
		for range m.Incident(base, topo.Vertex) {
			break
		}
		requireIntact(t, m)
	})
}
