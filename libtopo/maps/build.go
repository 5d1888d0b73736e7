package maps

import (
	"github.com/2x3systems/topomap/topo"
)

// surface is the φ-level view that 2- and 3-maps of either encoding offer,
// letting the construction and closing algorithms be written once.
type surface interface {
	base() *Map
	Phi1(d topo.Dart) topo.Dart
	Phi_1(d topo.Dart) topo.Dart
	Phi2(d topo.Dart) topo.Dart
	Phi2Sew(d, e topo.Dart)
	Phi2Unsew(d topo.Dart)
	addFace1(n int) topo.Dart
	foreachDartOfFace1(d topo.Dart, f func(topo.Dart))
}

// volumic adds φ3 to surface.
type volumic interface {
	surface
	Phi3(d topo.Dart) topo.Dart
	Phi3Sew(d, e topo.Dart)
	Phi3Unsew(d topo.Dart)
	phi3Free(d topo.Dart) bool
	cutFace2(d, e topo.Dart) topo.Dart
}

// codegree1 returns the length of the φ1 cycle of d.
func codegree1(s surface, d topo.Dart) int {
	n := 1
	for it := s.Phi1(d); it != d; it = s.Phi1(it) {
		n++
	}
	return n
}

// addFace2 adds a closed 2-manifold made of a face of n edges glued to a boundary face.
func addFace2(s surface, n int) topo.Dart {
	m := s.base()
	d := s.addFace1(n)
	e := s.addFace1(n)
	s.foreachDartOfFace1(e, func(x topo.Dart) {
		m.SetBoundary(x, true)
	})
	it := d
	for i := 0; i < n; i++ {
		s.Phi2Sew(it, e)
		it = s.Phi1(it)
		e = s.Phi_1(e)
	}
	return d
}

// addPyramid adds the surface of a pyramid over an n-gon and returns a dart of its base.
func addPyramid(s surface, n int) topo.Dart {
	assert(n >= 3, "pyramid over fewer than 3 vertices")
	sides := make([]topo.Dart, n)
	for i := range sides {
		sides[i] = s.addFace1(3)
		if i > 0 {
			s.Phi2Sew(s.Phi1(sides[i-1]), s.Phi_1(sides[i]))
		}
	}
	s.Phi2Sew(s.Phi1(sides[n-1]), s.Phi_1(sides[0]))

	base := s.addFace1(n)
	it := base
	for _, side := range sides {
		s.Phi2Sew(side, it)
		it = s.Phi_1(it)
	}
	return base
}

// addPrism adds the surface of a prism over an n-gon and returns a dart of its base.
func addPrism(s surface, n int) topo.Dart {
	assert(n >= 3, "prism over fewer than 3 vertices")
	sides := make([]topo.Dart, n)
	for i := range sides {
		sides[i] = s.addFace1(4)
		if i > 0 {
			s.Phi2Sew(s.Phi1(sides[i-1]), s.Phi_1(sides[i]))
		}
	}
	s.Phi2Sew(s.Phi1(sides[n-1]), s.Phi_1(sides[0]))

	base := s.addFace1(n)
	it := base
	for _, side := range sides {
		s.Phi2Sew(side, it)
		it = s.Phi_1(it)
	}

	top := s.addFace1(n)
	it = top
	for _, side := range sides {
		s.Phi2Sew(s.Phi1(s.Phi1(side)), it)
		it = s.Phi1(it)
	}
	return base
}

// AddVertex adds a face of one vertex and returns that vertex.
func (m *CMap1) AddVertex() topo.Cell {
	return topo.VertexOf(m.AddFace(1).Dart)
}

// AddFace adds an isolated polygon of n vertices.
func (m *CMap1) AddFace(n int) topo.Cell {
	m.beginEdit()
	d := m.addFace1(n)
	m.endEdit()
	return topo.FaceOf(d)
}

func (m *GMap1) AddVertex() topo.Cell {
	return topo.VertexOf(m.AddFace(1).Dart)
}

func (m *GMap1) AddFace(n int) topo.Cell {
	m.beginEdit()
	d := m.addFace1(n)
	m.endEdit()
	return topo.FaceOf(d)
}

// AddFace adds a polygon of n vertices, closed by a boundary face glued along its edges.
func (m *CMap2) AddFace(n int) topo.Cell {
	m.beginEdit()
	d := addFace2(m, n)
	m.endEdit()
	return topo.FaceOf(d)
}

func (m *GMap2) AddFace(n int) topo.Cell {
	m.beginEdit()
	d := addFace2(m, n)
	m.endEdit()
	return topo.FaceOf(d)
}

// AddPyramid adds the closed surface of a pyramid over an n-gon and returns it as a volume.
func (m *CMap2) AddPyramid(n int) topo.Cell {
	m.beginEdit()
	d := addPyramid(m, n)
	m.endEdit()
	return topo.VolumeOf(d)
}

func (m *CMap2) AddPrism(n int) topo.Cell {
	m.beginEdit()
	d := addPrism(m, n)
	m.endEdit()
	return topo.VolumeOf(d)
}

func (m *GMap2) AddPyramid(n int) topo.Cell {
	m.beginEdit()
	d := addPyramid(m, n)
	m.endEdit()
	return topo.VolumeOf(d)
}

func (m *GMap2) AddPrism(n int) topo.Cell {
	m.beginEdit()
	d := addPrism(m, n)
	m.endEdit()
	return topo.VolumeOf(d)
}

// AddPyramid adds a pyramid volume over an n-gon whose faces are not yet glued to any other volume.
// The returned volume's dart lies on the base face.
func (m *CMap3) AddPyramid(n int) topo.Cell {
	m.beginEdit()
	d := addPyramid(m, n)
	m.endEdit()
	return topo.VolumeOf(d)
}

// AddPrism adds an open prism volume over an n-gon; n == 4 gives a hexahedron.
func (m *CMap3) AddPrism(n int) topo.Cell {
	m.beginEdit()
	d := addPrism(m, n)
	m.endEdit()
	return topo.VolumeOf(d)
}

func (m *GMap3) AddPyramid(n int) topo.Cell {
	m.beginEdit()
	d := addPyramid(m, n)
	m.endEdit()
	return topo.VolumeOf(d)
}

func (m *GMap3) AddPrism(n int) topo.Cell {
	m.beginEdit()
	d := addPrism(m, n)
	m.endEdit()
	return topo.VolumeOf(d)
}
