package maps

import (
	"github.com/2x3systems/topomap/topo"
)

// CutEdge inserts a vertex in the edge e and returns it.
func (m *CMap1) CutEdge(e topo.Cell) topo.Cell {
	m.beginEdit()
	nd := m.cutEdge1(e.Dart)
	m.endEdit(e.Dart)
	return topo.VertexOf(nd)
}

// CollapseEdge removes the edge e from its face, merging its two vertices, and returns the merged vertex.
// The face must have more than one edge.
func (m *CMap1) CollapseEdge(e topo.Cell) topo.Cell {
	d := e.Dart
	assert(m.Phi1(d) != d, "collapse of the only edge of a face")
	m.beginEdit()
	p := m.Phi_1(d)
	m.Phi1Unsew(p)
	m.RemoveDart(d)
	next := m.Phi1(p)
	m.endEdit(p, next)
	return topo.VertexOf(next)
}

func (m *GMap1) CutEdge(e topo.Cell) topo.Cell {
	m.beginEdit()
	x := m.cutEdge1(e.Dart)
	m.endEdit(e.Dart)
	return topo.VertexOf(x)
}

func (m *GMap1) CollapseEdge(e topo.Cell) topo.Cell {
	d := e.Dart
	d0 := m.Beta0(d)
	prev := m.Beta1(d)
	next := m.Beta1(d0)
	assert(prev != d0, "collapse of the only edge of a face")
	assert(prev != d && next != d0, "collapse of an edge with a free end")

	m.beginEdit()
	m.BetaUnsew(1, d)
	m.BetaUnsew(1, d0)
	m.BetaUnsew(0, d)
	m.RemoveDart(d)
	m.RemoveDart(d0)
	m.BetaSew(1, prev, next)
	m.endEdit(prev, next)
	return topo.VertexOf(prev)
}
