package maps

import (
	"fmt"

	"github.com/2x3systems/topomap/topo"
)

// gmap stores the involutions β0..βn; the φ relations are derived from them.
type gmap struct {
	Map
}

func (m *gmap) initGMap(dim int) {
	m.init(dim, topo.Generalized, dim+1)
}

// Beta returns βi(d), or d if i exceeds the map's dimension.
func (m *gmap) Beta(i int, d topo.Dart) topo.Dart {
	if i >= m.nrel {
		return d
	}
	return m.rel[i][d]
}

func (m *gmap) Beta0(d topo.Dart) topo.Dart { return m.rel[0][d] }
func (m *gmap) Beta1(d topo.Dart) topo.Dart { return m.rel[1][d] }
func (m *gmap) Beta2(d topo.Dart) topo.Dart { return m.Beta(2, d) }
func (m *gmap) Beta3(d topo.Dart) topo.Dart { return m.Beta(3, d) }

// BetaSew links d and e through βi; both must be βi fixed points.
func (m *gmap) BetaSew(i int, d, e topo.Dart) {
	assert(i < m.nrel, "sew beyond the map's dimension")
	rel := m.rel[i]
	assert(d != e && rel[d] == d && rel[e] == e, "sew of darts that are not both free")
	rel[d], rel[e] = e, d
}

// BetaUnsew makes d and its βi image fixed points.
func (m *gmap) BetaUnsew(i int, d topo.Dart) {
	assert(i < m.nrel, "unsew beyond the map's dimension")
	rel := m.rel[i]
	e := rel[d]
	assert(rel[e] == d, "unsew of a relation that is not an involution")
	rel[d], rel[e] = d, e
}

func (m *gmap) Phi1(d topo.Dart) topo.Dart {
	return m.rel[1][m.rel[0][d]]
}

func (m *gmap) Phi_1(d topo.Dart) topo.Dart {
	return m.rel[0][m.rel[1][d]]
}

// Phi2 is β0∘β2 on a β2-sewn dart and the identity elsewhere.
func (m *gmap) Phi2(d topo.Dart) topo.Dart {
	if e := m.Beta2(d); e != d {
		return m.rel[0][e]
	}
	return d
}

func (m *gmap) Phi3(d topo.Dart) topo.Dart {
	if e := m.Beta3(d); e != d {
		return m.rel[0][e]
	}
	return d
}

// Phi applies the given φ steps left to right.
func (m *gmap) Phi(d topo.Dart, steps ...int) topo.Dart {
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

// Phi2Sew glues the oriented edges of d and e so that Phi2(d) == e.
func (m *gmap) Phi2Sew(d, e topo.Dart) {
	m.BetaSew(2, d, m.Beta0(e))
	m.BetaSew(2, m.Beta0(d), e)
}

func (m *gmap) Phi2Unsew(d topo.Dart) {
	d0 := m.Beta0(d)
	m.BetaUnsew(2, d)
	m.BetaUnsew(2, d0)
}

func (m *gmap) Phi3Sew(d, e topo.Dart) {
	m.BetaSew(3, d, m.Beta0(e))
	m.BetaSew(3, m.Beta0(d), e)
}

func (m *gmap) Phi3Unsew(d topo.Dart) {
	d0 := m.Beta0(d)
	m.BetaUnsew(3, d)
	m.BetaUnsew(3, d0)
}

func (m *gmap) phi3Free(d topo.Dart) bool {
	return m.Beta3(d) == d
}

// addFace1 adds an isolated face of n edges (2n darts) and returns one of its oriented darts.
func (m *gmap) addFace1(n int) topo.Dart {
	assert(n > 0, "face of no vertex")
	var first, prev topo.Dart
	for i := 0; i < n; i++ {
		a := m.AddDart()
		b := m.AddDart()
		m.BetaSew(0, a, b)
		if prev != topo.NilDart {
			m.BetaSew(1, prev, a)
		} else {
			first = a
		}
		prev = b
	}
	m.BetaSew(1, prev, first)
	return first
}

func (m *gmap) foreachDartOfFace1(d topo.Dart, f func(topo.Dart)) {
	it := d
	for {
		f(it)
		f(m.Beta0(it))
		if it = m.Phi1(it); it == d {
			return
		}
	}
}

// cutEdge1 inserts a vertex in the edge of d within its face and returns the new dart β0(d).
func (m *gmap) cutEdge1(d topo.Dart) topo.Dart {
	d0 := m.Beta0(d)
	m.BetaUnsew(0, d)
	x := m.newDartLike(d)
	y := m.newDartLike(d0)
	m.BetaSew(0, d, x)
	m.BetaSew(0, d0, y)
	m.BetaSew(1, x, y)
	return x
}

// cutEdge2 inserts a vertex in the edge of d on both of its β2 sides and returns β0(d).
func (m *gmap) cutEdge2(d topo.Dart) topo.Dart {
	d2 := m.Beta2(d)
	x := m.cutEdge1(d)
	if d2 != d {
		x2 := m.cutEdge1(d2)
		m.BetaSew(2, x, x2)
		m.BetaSew(2, m.Beta1(x), m.Beta1(x2))
	}
	return x
}

// cutFace2 splits the face of the oriented darts d and e with a new edge and returns φ_1(d),
// the new oriented dart going to d's vertex.
func (m *gmap) cutFace2(d, e topo.Dart) topo.Dart {
	assert(d != e, "cut of a face between one vertex")
	x := m.Beta1(d)
	y := m.Beta1(e)
	m.BetaUnsew(1, d)
	m.BetaUnsew(1, e)

	n0 := m.newDartLike(d)
	n1 := m.newDartLike(d)
	m0 := m.newDartLike(d)
	m1 := m.newDartLike(d)
	m.BetaSew(0, n0, n1)
	m.BetaSew(0, m0, m1)
	m.BetaSew(2, n0, m0)
	m.BetaSew(2, n1, m1)

	m.BetaSew(1, d, n0)
	m.BetaSew(1, y, n1)
	m.BetaSew(1, x, m0)
	m.BetaSew(1, e, m1)
	return n1
}

// orientIn returns the dart of e's vertex that lies in the φ1 cycle of d.
func (m *gmap) orientIn(d, e topo.Dart) (topo.Dart, bool) {
	e1 := m.Beta1(e)
	it := d
	for {
		if it == e || it == e1 {
			return it, true
		}
		if it = m.Phi1(it); it == d {
			return topo.NilDart, false
		}
	}
}
