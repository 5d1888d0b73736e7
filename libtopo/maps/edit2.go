package maps

import (
	"github.com/2x3systems/topomap/topo"
)

func inFace1(s surface, d, e topo.Dart) bool {
	it := d
	for {
		if it == e {
			return true
		}
		if it = s.Phi1(it); it == d {
			return false
		}
	}
}

// CutEdge inserts a vertex in the edge e, growing the codegree of both incident faces by one.
func (m *CMap2) CutEdge(e topo.Cell) topo.Cell {
	d := e.Dart
	dd := m.Phi2(d)
	m.beginEdit()
	nd := m.cutEdge2(d)
	m.endEdit(d, dd)
	return topo.VertexOf(nd)
}

// CutFace splits the face shared by the vertex darts v1 and v2 with a new edge, returned as an edge.
func (m *CMap2) CutFace(v1, v2 topo.Cell) topo.Cell {
	d, e := v1.Dart, v2.Dart
	assert(d != e && inFace1(m, d, e), "cut of a face between vertices not on it")
	m.beginEdit()
	nd := m.cutFace2(d, e)
	m.endEdit(d, e)
	return topo.EdgeOf(nd)
}

// MergeIncidentFaces removes the edge e, merging its two incident faces.
// It returns false (and changes nothing) if both sides of e belong to one face or to a boundary face.
func (m *CMap2) MergeIncidentFaces(e topo.Cell) bool {
	d := e.Dart
	dd := m.Phi2(d)
	if m.IsBoundary(d) || m.IsBoundary(dd) || inFace1(m, d, dd) {
		return false
	}
	a, b := m.Phi1(d), m.Phi1(dd)
	if a == d || b == dd {
		return false
	}

	m.beginEdit()
	p, q := m.Phi_1(d), m.Phi_1(dd)
	m.Phi1Unsew(p)
	m.Phi1Unsew(q)
	m.Phi1Sew(p, q)
	m.Phi2Unsew(d)
	m.RemoveDart(d)
	m.RemoveDart(dd)
	m.endEdit(p, q, a, b)
	return true
}

// EdgeCanFlip reports if FlipEdge may rotate e: both sides are interior, the faces differ,
// and both endpoints keep a degree of at least 3 afterwards.
func (m *CMap2) EdgeCanFlip(e topo.Cell) bool {
	d := e.Dart
	dd := m.Phi2(d)
	if m.IsBoundary(d) || m.IsBoundary(dd) || inFace1(m, d, dd) {
		return false
	}
	if m.Degree(topo.VertexOf(d)) < 4 || m.Degree(topo.VertexOf(dd)) < 4 {
		return false
	}
	// the rotated edge must not join a vertex to itself
	x, y := m.Phi1(m.Phi1(d)), m.Phi1(m.Phi1(dd))
	cm := m.NewCellMarker(topo.Vertex)
	defer cm.Release()
	cm.Mark(topo.VertexOf(x))
	return !cm.IsMarked(topo.VertexOf(y))
}

// FlipEdge rotates e one step forward inside the quad formed by its two incident faces.
// It returns false on a boundary edge.
func (m *CMap2) FlipEdge(e topo.Cell) bool {
	d := e.Dart
	dd := m.Phi2(d)
	if m.IsBoundary(d) || m.IsBoundary(dd) {
		return false
	}

	m.beginEdit()
	a, b := m.Phi1(d), m.Phi1(dd)
	p, q := m.Phi_1(d), m.Phi_1(dd)
	m.Phi1Unsew(p)
	m.Phi1Unsew(q)
	m.Phi1Sew(p, q)
	m.Phi1Sew(b, d)
	m.Phi1Sew(a, dd)
	m.Phi1Sew(d, dd)
	m.endEdit(d, dd, a, b, p, q)
	return true
}

func (m *CMap2) isBoundaryVertex(v topo.Cell) bool {
	for d := range m.Orbit(v) {
		if m.IsBoundary(d) {
			return true
		}
	}
	return false
}

// EdgeCanCollapse checks the link condition of e on a triangle mesh: the vertices adjacent to
// both endpoints are exactly the apexes of the interior triangles incident to e, and no vertex
// is left with fewer than 3 edges.
func (m *CMap2) EdgeCanCollapse(e topo.Cell) bool {
	d := e.Dart
	dd := m.Phi2(d)
	v1, v2 := topo.VertexOf(d), topo.VertexOf(dd)
	interior := !m.IsBoundary(d) && !m.IsBoundary(dd)
	if interior && m.isBoundaryVertex(v1) && m.isBoundaryVertex(v2) {
		return false
	}
	if interior && m.Degree(v1)+m.Degree(v2)-4 < 3 {
		return false
	}

	expected := 0
	for _, x := range [2]topo.Dart{d, dd} {
		if m.IsBoundary(x) {
			continue
		}
		if codegree1(m, x) != 3 || m.Degree(topo.VertexOf(m.Phi_1(x))) < 4 {
			return false
		}
		expected++
	}

	cm := m.NewCellMarker(topo.Vertex)
	defer cm.Release()
	for n := range m.Adjacent(v1, topo.Edge) {
		cm.Mark(n)
	}
	common := 0
	for n := range m.Adjacent(v2, topo.Edge) {
		if cm.IsMarked(n) {
			common++
		}
	}
	return common == expected
}

// CollapseEdge contracts e to a single vertex and returns it.
// Interior faces left with two edges are removed by gluing their two outer edges together.
func (m *CMap2) CollapseEdge(e topo.Cell) topo.Cell {
	d := e.Dart
	dd := m.Phi2(d)
	a, b := m.Phi1(d), m.Phi1(dd)
	p, q := m.Phi_1(d), m.Phi_1(dd)
	assert(a != d && b != dd, "collapse of an edge bounding a face of one edge")

	m.beginEdit()
	m.Phi1Unsew(p)
	m.Phi1Unsew(q)
	m.Phi2Unsew(d)
	m.RemoveDart(d)
	m.RemoveDart(dd)

	seeds := []topo.Dart{a, b, p, q}
	res := a
	if m.IsLive(a) && !m.IsBoundary(a) && codegree1(m, a) == 2 {
		res = m.Phi2(m.Phi1(a))
		seeds = m.collapseDigon(a, seeds)
	}
	if m.IsLive(b) && !m.IsBoundary(b) && codegree1(m, b) == 2 {
		if res == b {
			res = m.Phi2(m.Phi1(b))
		}
		seeds = m.collapseDigon(b, seeds)
	}
	m.endEdit(append([]topo.Dart{res}, seeds...)...)
	return topo.VertexOf(res)
}

// collapseDigon removes the two-edge face of x and glues the edges that were across it.
func (m *CMap2) collapseDigon(x topo.Dart, seeds []topo.Dart) []topo.Dart {
	y := m.Phi1(x)
	x2, y2 := m.Phi2(x), m.Phi2(y)
	assert(x2 != y, "collapse of a digon folded onto itself")
	m.Phi2Unsew(x)
	m.Phi2Unsew(y)
	m.Phi1Unsew(x)
	m.RemoveDart(x)
	m.RemoveDart(y)
	m.Phi2Sew(x2, y2)
	return append(seeds, x2, y2)
}

func (m *GMap2) CutEdge(e topo.Cell) topo.Cell {
	d := e.Dart
	m.beginEdit()
	x := m.cutEdge2(d)
	m.endEdit(d, m.Beta2(d))
	return topo.VertexOf(x)
}

// CutFace splits the face shared by the vertices v1 and v2 with a new edge, returned as an edge.
func (m *GMap2) CutFace(v1, v2 topo.Cell) topo.Cell {
	d := v1.Dart
	e, ok := m.orientIn(d, v2.Dart)
	assert(ok && e != d, "cut of a face between vertices not on it")
	m.beginEdit()
	n := m.cutFace2(d, e)
	m.endEdit(d, e)
	return topo.EdgeOf(n)
}
