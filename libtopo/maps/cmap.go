package maps

import (
	"fmt"

	"github.com/2x3systems/topomap/topo"
)

const (
	slotPhi1  = 0
	slotPhi_1 = 1
	slotPhi2  = 2
	slotPhi3  = 3
)

// cmap stores φ1 as a permutation (with its inverse) and φ2, φ3 as involutions.
type cmap struct {
	Map
}

func (m *cmap) initCMap(dim int) {
	m.init(dim, topo.Combinatorial, dim+1)
}

func (m *cmap) Phi1(d topo.Dart) topo.Dart {
	return m.rel[slotPhi1][d]
}

func (m *cmap) Phi_1(d topo.Dart) topo.Dart {
	return m.rel[slotPhi_1][d]
}

func (m *cmap) Phi2(d topo.Dart) topo.Dart {
	if m.dim < 2 {
		return d
	}
	return m.rel[slotPhi2][d]
}

func (m *cmap) Phi3(d topo.Dart) topo.Dart {
	if m.dim < 3 {
		return d
	}
	return m.rel[slotPhi3][d]
}

// Phi applies the given φ steps left to right, e.g. Phi(d, -1, 2, -1) is φ_1(φ2(φ_1(d))).
func (m *cmap) Phi(d topo.Dart, steps ...int) topo.Dart {
	for _, step := range steps {
		switch step {
		case 1:
			d = m.Phi1(d)
		case -1:
			d = m.Phi_1(d)
		case 2, -2:
			d = m.Phi2(d)
		case 3, -3:
			d = m.Phi3(d)
		default:
			panic(fmt.Sprintf("bad φ step %d", step))
		}
	}
	return d
}

// Phi1Sew exchanges the φ1 successors of d and e.
// Applied to darts of two φ1 cycles it merges them; applied to two darts of one cycle it splits it.
func (m *cmap) Phi1Sew(d, e topo.Dart) {
	phi1, phi_1 := m.rel[slotPhi1], m.rel[slotPhi_1]
	f, g := phi1[d], phi1[e]
	phi1[d], phi1[e] = g, f
	phi_1[g], phi_1[f] = d, e
	assert(phi_1[phi1[d]] == d && phi_1[phi1[e]] == e, "φ1 and φ1⁻¹ out of step")
}

// Phi1Unsew takes φ1(d) out of its cycle, leaving it a fixed point.
func (m *cmap) Phi1Unsew(d topo.Dart) {
	phi1, phi_1 := m.rel[slotPhi1], m.rel[slotPhi_1]
	e := phi1[d]
	f := phi1[e]
	phi1[d], phi_1[f] = f, d
	phi1[e], phi_1[e] = e, e
	assert(phi_1[phi1[d]] == d, "φ1 and φ1⁻¹ out of step")
}

func (m *cmap) involutionSew(slot int, d, e topo.Dart) {
	assert(m.nrel > slot, "sew beyond the map's dimension")
	rel := m.rel[slot]
	assert(d != e && rel[d] == d && rel[e] == e, "sew of darts that are not both free")
	rel[d], rel[e] = e, d
}

func (m *cmap) involutionUnsew(slot int, d topo.Dart) {
	assert(m.nrel > slot, "unsew beyond the map's dimension")
	rel := m.rel[slot]
	e := rel[d]
	assert(rel[e] == d, "unsew of a relation that is not an involution")
	rel[d], rel[e] = d, e
	assert(rel[d] == d && rel[e] == e, "unsew left a sewn dart")
}

func (m *cmap) Phi2Sew(d, e topo.Dart) {
	m.involutionSew(slotPhi2, d, e)
}

func (m *cmap) Phi2Unsew(d topo.Dart) {
	m.involutionUnsew(slotPhi2, d)
}

func (m *cmap) Phi3Sew(d, e topo.Dart) {
	m.involutionSew(slotPhi3, d, e)
}

func (m *cmap) Phi3Unsew(d topo.Dart) {
	m.involutionUnsew(slotPhi3, d)
}

func (m *cmap) phi3Free(d topo.Dart) bool {
	return m.Phi3(d) == d
}

// phi21 is the vertex generator φ1∘φ2; a φ2 fixed point maps to itself.
func (m *cmap) phi21(d topo.Dart) topo.Dart {
	if e := m.Phi2(d); e != d {
		return m.Phi1(e)
	}
	return d
}

// phi_12 inverts phi21.
func (m *cmap) phi_12(d topo.Dart) topo.Dart {
	e := m.Phi_1(d)
	if f := m.Phi2(e); f != e {
		return f
	}
	return d
}

func (m *cmap) phi31(d topo.Dart) topo.Dart {
	if e := m.Phi3(d); e != d {
		return m.Phi1(e)
	}
	return d
}

func (m *cmap) phi_13(d topo.Dart) topo.Dart {
	e := m.Phi_1(d)
	if f := m.Phi3(e); f != e {
		return f
	}
	return d
}

// addFace1 adds an isolated φ1 cycle of n darts.
func (m *cmap) addFace1(n int) topo.Dart {
	assert(n > 0, "face of no vertex")
	d := m.AddDart()
	for i := 1; i < n; i++ {
		m.Phi1Sew(d, m.AddDart())
	}
	return d
}

func (m *cmap) foreachDartOfFace1(d topo.Dart, f func(topo.Dart)) {
	it := d
	for {
		f(it)
		if it = m.Phi1(it); it == d {
			return
		}
	}
}

// cutEdge1 inserts a dart after d in its φ1 cycle.
func (m *cmap) cutEdge1(d topo.Dart) topo.Dart {
	nd := m.newDartLike(d)
	m.Phi1Sew(d, nd)
	return nd
}

// cutEdge2 inserts a vertex in the edge of d on both of its φ2 sides and returns the dart after d.
func (m *cmap) cutEdge2(d topo.Dart) topo.Dart {
	dd := m.Phi2(d)
	assert(dd != d, "cut of an edge with an open side")
	m.Phi2Unsew(d)
	nd := m.cutEdge1(d)
	ndd := m.cutEdge1(dd)
	m.Phi2Sew(d, ndd)
	m.Phi2Sew(dd, nd)
	return nd
}

// cutFace2 splits the face of d and e with a new edge and returns φ_1(d), the new dart going to d's vertex.
func (m *cmap) cutFace2(d, e topo.Dart) topo.Dart {
	assert(d != e, "cut of a face between one vertex")
	d_1 := m.Phi_1(d)
	e_1 := m.Phi_1(e)
	nd := m.newDartLike(d)
	ne := m.newDartLike(d)
	m.Phi1Sew(d_1, nd)
	m.Phi1Sew(e_1, ne)
	m.Phi1Sew(nd, ne)
	m.Phi2Sew(nd, ne)
	return ne
}
