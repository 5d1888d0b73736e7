package maps

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/2x3systems/topomap/topo"
)

func TestCutEdgeGrowsIncidentFaces(t *testing.T) {
	eachSurfaceMap(t, func(t *testing.T, m surfaceMap) {
		w := m.AddPyramid(4)
		d := w.Dart
		base, side := topo.FaceOf(d), topo.FaceOf(m.Phi(d, 2))
		m.IndexCells(topo.Vertex)
		m.IndexCells(topo.Face)

		v := m.CutEdge(topo.EdgeOf(d))
		require.Equal(t, 5, m.Codegree(base))
		require.Equal(t, 4, m.Codegree(side))
		require.Equal(t, 2, m.Degree(v))
		requireCounts(t, m, cellCounts{V: 6, E: 9, F: 5, W: 1})
		requireIntact(t, m)
	})
}

func TestCutFaceSplitsFace(t *testing.T) {
	eachSurfaceMap(t, func(t *testing.T, m surfaceMap) {
		w := m.AddPrism(4)
		m.IndexCells(topo.Face)
		m.IndexCells(topo.Edge)
		d := w.Dart
		baseIdx := m.IndexOf(topo.FaceOf(d))

		e := m.CutFace(topo.VertexOf(d), topo.VertexOf(m.Phi(d, 1, 1)))
		requireCounts(t, m, cellCounts{V: 8, E: 13, F: 7, W: 1})
		require.Equal(t, 3, m.Codegree(topo.FaceOf(d)))
		require.Equal(t, baseIdx, m.IndexOf(topo.FaceOf(d)), "the face of the first vertex keeps its index")
		require.NotEqual(t, baseIdx, m.IndexOf(topo.FaceOf(m.Phi(e.Dart, 2))))
		requireIntact(t, m)
	})
}

func triangulatedSquarePyramid(t *testing.T) (*CMap2, topo.Dart, topo.Cell) {
	m := NewCMap2()
	b0 := m.AddPyramid(4).Dart
	m.IndexCells(topo.Vertex)
	m.IndexCells(topo.Edge)
	m.IndexCells(topo.Face)
	diag := m.CutFace(topo.VertexOf(b0), topo.VertexOf(m.Phi(b0, 1, 1)))
	requireCounts(t, m, cellCounts{V: 5, E: 9, F: 6, W: 1})
	return m, b0, diag
}

func TestFlipEdge(t *testing.T) {
	m, b0, diag := triangulatedSquarePyramid(t)
	b1 := m.Phi1(b0)

	require.Equal(t, 4, m.Degree(topo.VertexOf(b0)))
	require.Equal(t, 3, m.Degree(topo.VertexOf(b1)))
	require.True(t, m.EdgeCanFlip(diag))
	require.True(t, m.FlipEdge(diag))

	requireCounts(t, m, cellCounts{V: 5, E: 9, F: 6, W: 1})
	require.Equal(t, 3, m.Degree(topo.VertexOf(b0)))
	require.Equal(t, 4, m.Degree(topo.VertexOf(b1)))
	requireIntact(t, m)

	// the side edge from B1 (now of degree 3) up to the apex
	require.False(t, m.EdgeCanFlip(topo.EdgeOf(m.Phi(b0, 2, 1))))

	open := NewCMap2()
	f := open.AddFace(3)
	require.False(t, open.FlipEdge(topo.EdgeOf(f.Dart)))
}

func TestMergeIncidentFaces(t *testing.T) {
	m, _, diag := triangulatedSquarePyramid(t)
	require.True(t, m.MergeIncidentFaces(diag))
	requireCounts(t, m, cellCounts{V: 5, E: 8, F: 5, W: 1})
	requireIntact(t, m)

	open := NewCMap2()
	f := open.AddFace(4)
	require.False(t, open.MergeIncidentFaces(topo.EdgeOf(f.Dart)))
	requireCounts(t, open, cellCounts{V: 4, E: 4, F: 1, W: 1})
}

func TestCollapseEdge(t *testing.T) {
	m, b0, _ := triangulatedSquarePyramid(t)

	// the side edge from the apex down to B0, the base vertex off the diagonal
	e := topo.EdgeOf(m.Phi(b0, 2, -1))
	require.True(t, m.EdgeCanCollapse(e))

	v := m.CollapseEdge(e)
	requireCounts(t, m, cellCounts{V: 4, E: 6, F: 4, W: 1})
	require.Equal(t, 3, m.Degree(v))
	for f := range m.Cells(topo.Face) {
		require.Equal(t, 3, m.Codegree(f))
	}
	requireIntact(t, m)

	// every edge of a tetrahedron fails the link condition
	for e := range m.Cells(topo.Edge) {
		require.False(t, m.EdgeCanCollapse(e))
	}
}

type volumeMap interface {
	surfaceMap
	Close() int
	CloseHole(d topo.Dart) topo.Cell
	CutVolume(path []topo.Dart) topo.Cell
	SewFaces(d, e topo.Dart) error
	Phi3(d topo.Dart) topo.Dart
}

func eachVolumeMap(t *testing.T, test func(t *testing.T, m volumeMap)) {
	t.Run("CMap3", func(t *testing.T) { test(t, NewCMap3()) })
	t.Run("GMap3", func(t *testing.T) { test(t, NewGMap3()) })
}

func TestTetraScenario(t *testing.T) {
	eachVolumeMap(t, func(t *testing.T, m volumeMap) {
		tet := m.AddPyramid(3)
		require.Equal(t, 1, m.Close())
		m.IndexCells(topo.Vertex)
		m.IndexCells(topo.Volume)

		pos, err := AddAttribute[[3]float64](m, topo.Vertex, "position")
		require.NoError(t, err)
		defer pos.Release()

		var before []topo.Cell
		for v := range m.Cells(topo.Vertex) {
			*Value(m, pos, v) = [3]float64{float64(len(before)), 1, 2}
			before = append(before, v)
		}
		require.Len(t, before, 4)

		numDarts, edgeDarts := m.NumDarts(), 0
		for range m.Orbit(topo.EdgeOf(tet.Dart)) {
			edgeDarts++
		}

		v := m.CutEdge(topo.EdgeOf(tet.Dart))
		requireCounts(t, m, cellCounts{V: 5, E: 7, F: 4, W: 1})
		require.Equal(t, 2, m.NumAllCells(topo.Volume))
		require.Equal(t, numDarts+edgeDarts, m.NumDarts())
		require.Equal(t, 2, m.Degree(v))
		codegrees := map[int]int{}
		for f := range m.Cells(topo.Face) {
			codegrees[m.Codegree(f)]++
		}
		require.Equal(t, map[int]int{3: 2, 4: 2}, codegrees)
		requireIntact(t, m)

		m.CutFace(v, topo.VertexOf(m.Phi(v.Dart, 1, 1)))
		other := m.Phi(v.Dart, 2, 1)
		m.CutFace(topo.VertexOf(other), topo.VertexOf(m.Phi(other, 1, 1)))

		require.Equal(t, 5, m.NumCells(topo.Vertex))
		require.Equal(t, 9, m.NumCells(topo.Edge))
		require.Equal(t, 6, m.NumCells(topo.Face))
		require.Equal(t, 1, m.NumCells(topo.Volume))
		require.Equal(t, 2, m.NumAllCells(topo.Volume))
		require.Equal(t, 4, m.Degree(v))

		for i, old := range before {
			require.Equal(t, [3]float64{float64(i), 1, 2}, *Value(m, pos, old))
		}
		require.Equal(t, [3]float64{}, *Value(m, pos, v))
		requireIntact(t, m)
	})
}

func TestCloseTwoTetras(t *testing.T) {
	eachVolumeMap(t, func(t *testing.T, m volumeMap) {
		m.AddPyramid(3)
		m.AddPyramid(3)
		interior := m.NumDarts()
		require.Equal(t, 2, m.Close())
		require.Equal(t, 2*interior, m.NumDarts())

		boundary := 0
		for d := range m.Darts() {
			require.NotEqual(t, d, m.Phi3(d), "no dart may stay φ3-free")
			if m.IsBoundary(d) {
				boundary++
			} else {
				require.True(t, m.IsBoundary(m.Phi3(d)))
			}
		}
		require.Equal(t, interior, boundary)
		require.Equal(t, 2, m.NumCells(topo.Volume))
		require.Equal(t, 4, m.NumAllCells(topo.Volume))
		require.Equal(t, 0, m.Close(), "a closed map has no hole left")
		requireIntact(t, m)
	})
}

func TestCloseHoleLeavesCapInterior(t *testing.T) {
	eachVolumeMap(t, func(t *testing.T, m volumeMap) {
		w := m.AddPrism(3)
		hole := m.CloseHole(w.Dart)
		require.Equal(t, 2, m.NumCells(topo.Volume))
		require.False(t, m.IsBoundary(hole.Dart))
		require.Equal(t, m.Phi3(w.Dart), hole.Dart)
		requireIntact(t, m)
	})
}

func TestSewFaces(t *testing.T) {
	eachVolumeMap(t, func(t *testing.T, m volumeMap) {
		a := m.AddPyramid(3).Dart
		b := m.AddPyramid(3).Dart
		m.IndexCells(topo.Vertex)
		require.NoError(t, m.SewFaces(a, b))
		requireCounts(t, m, cellCounts{V: 5, E: 9, F: 7, W: 2})
		require.ErrorIs(t, m.SewFaces(a, b), topo.ErrFaceNotOpen)
		require.Equal(t, 1, m.Close())
		requireCounts(t, m, cellCounts{V: 5, E: 9, F: 7, W: 2})
		requireIntact(t, m)
	})

	eachVolumeMap(t, func(t *testing.T, m volumeMap) {
		a := m.AddPyramid(3).Dart
		b := m.AddPyramid(4).Dart
		numDarts := m.NumDarts()
		require.ErrorIs(t, m.SewFaces(a, b), topo.ErrDegreeMismatch)
		require.Equal(t, numDarts, m.NumDarts())
		for d := range m.Darts() {
			require.Equal(t, d, m.Phi3(d))
		}
		requireIntact(t, m)
	})
}

func TestCutVolume(t *testing.T) {
	eachVolumeMap(t, func(t *testing.T, m volumeMap) {
		b := m.AddPyramid(3).Dart
		m.IndexCells(topo.Volume)
		path := []topo.Dart{b, m.Phi(b, 1), m.Phi(b, 1, 1)}

		f := m.CutVolume(path)
		requireCounts(t, m, cellCounts{V: 4, E: 6, F: 5, W: 2})
		require.Equal(t, 3, m.Codegree(f))
		require.NotEqual(t, m.IndexOf(topo.VolumeOf(b)), m.IndexOf(topo.VolumeOf(m.Phi(b, 2, 3))))
		requireIntact(t, m)

		require.Equal(t, 1, m.Close())
		requireIntact(t, m)
	})
}
