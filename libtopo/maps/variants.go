package maps

import (
	"github.com/2x3systems/topomap/topo"
)

// CMap1 is a combinatorial 1-map: a set of φ1 cycles (polygons).
type CMap1 struct {
	cmap
}

func NewCMap1() *CMap1 {
	m := &CMap1{}
	m.initCMap(1)
	m.defineOrbit(topo.Vertex)
	m.defineOrbit(topo.Edge)
	m.defineOrbit(topo.Face, m.Phi1)
	return m
}

// CMap2 is a combinatorial 2-map: polygons glued along edges by φ2.
type CMap2 struct {
	cmap
}

func NewCMap2() *CMap2 {
	m := &CMap2{}
	m.initCMap(2)
	m.defineOrbit(topo.HalfEdge)
	m.defineOrbit(topo.Vertex, m.phi21, m.phi_12)
	m.defineOrbit(topo.Edge, m.Phi2)
	m.defineOrbit(topo.Face, m.Phi1)
	m.defineOrbit(topo.Volume, m.Phi1, m.Phi2)
	return m
}

// CMap3 is a combinatorial 3-map: volumes glued along faces by φ3.
type CMap3 struct {
	cmap
}

func NewCMap3() *CMap3 {
	m := &CMap3{}
	m.initCMap(3)
	m.defineOrbit(topo.HalfEdge)
	m.defineOrbit(topo.Vertex, m.phi21, m.phi_12, m.phi31, m.phi_13)
	m.defineOrbit(topo.Vertex2, m.phi21, m.phi_12)
	m.defineOrbit(topo.Edge, m.Phi2, m.Phi3)
	m.defineOrbit(topo.Edge2, m.Phi2)
	m.defineOrbit(topo.Face, m.Phi1, m.Phi3)
	m.defineOrbit(topo.Face2, m.Phi1)
	m.defineOrbit(topo.Volume, m.Phi1, m.Phi2)
	m.defineOrbit(topo.CC, m.Phi1, m.Phi2, m.Phi3)
	return m
}

// GMap1 is a generalized 1-map.
type GMap1 struct {
	gmap
}

func NewGMap1() *GMap1 {
	m := &GMap1{}
	m.initGMap(1)
	m.defineOrbit(topo.Vertex, m.Beta1)
	m.defineOrbit(topo.Edge, m.Beta0)
	m.defineOrbit(topo.Face, m.Beta0, m.Beta1)
	return m
}

// GMap2 is a generalized 2-map.
type GMap2 struct {
	gmap
}

func NewGMap2() *GMap2 {
	m := &GMap2{}
	m.initGMap(2)
	m.defineOrbit(topo.HalfEdge, m.Beta0)
	m.defineOrbit(topo.Vertex, m.Beta1, m.Beta2)
	m.defineOrbit(topo.Edge, m.Beta0, m.Beta2)
	m.defineOrbit(topo.Face, m.Beta0, m.Beta1)
	m.defineOrbit(topo.Volume, m.Beta0, m.Beta1, m.Beta2)
	return m
}

// GMap3 is a generalized 3-map.
type GMap3 struct {
	gmap
}

func NewGMap3() *GMap3 {
	m := &GMap3{}
	m.initGMap(3)
	m.defineOrbit(topo.HalfEdge, m.Beta0)
	m.defineOrbit(topo.Vertex, m.Beta1, m.Beta2, m.Beta3)
	m.defineOrbit(topo.Vertex2, m.Beta1, m.Beta2)
	m.defineOrbit(topo.Edge, m.Beta0, m.Beta2, m.Beta3)
	m.defineOrbit(topo.Edge2, m.Beta0, m.Beta2)
	m.defineOrbit(topo.Face, m.Beta0, m.Beta1, m.Beta3)
	m.defineOrbit(topo.Face2, m.Beta0, m.Beta1)
	m.defineOrbit(topo.Volume, m.Beta0, m.Beta1, m.Beta2)
	m.defineOrbit(topo.CC, m.Beta0, m.Beta1, m.Beta2, m.Beta3)
	return m
}
