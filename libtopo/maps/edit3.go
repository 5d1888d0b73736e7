package maps

import (
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/2x3systems/topomap/topo"
)

func (m *Map) collect(c topo.Cell) []topo.Dart {
	var darts []topo.Dart
	for d := range m.Orbit(c) {
		darts = append(darts, d)
	}
	return darts
}

// CutEdge inserts a vertex in the edge e, cutting every face sheet around it, and returns the vertex.
func (m *CMap3) CutEdge(e topo.Cell) topo.Cell {
	d := e.Dart
	around := m.collect(topo.EdgeOf(d))

	type pair struct{ x, y topo.Dart }
	var pairs []pair
	var sheets []topo.Dart
	mk := m.dartMarkers.Light()
	for _, x := range around {
		if !mk.IsMarked(x) {
			mk.Mark(x)
			mk.Mark(m.Phi2(x))
			sheets = append(sheets, x)
		}
		if y := m.Phi3(x); y != x && x < y {
			pairs = append(pairs, pair{x, y})
		}
	}
	mk.Release()

	m.beginEdit()
	var v topo.Dart
	for _, x := range sheets {
		nd := m.cutEdge2(x)
		if x == d {
			v = nd
		}
	}
	for _, p := range pairs {
		m.Phi3Unsew(p.x)
		m.Phi3Sew(p.x, m.Phi1(p.y))
		m.Phi3Sew(p.y, m.Phi1(p.x))
	}
	m.endEdit(around...)
	return topo.VertexOf(v)
}

func (m *GMap3) CutEdge(e topo.Cell) topo.Cell {
	d := e.Dart
	around := m.collect(topo.EdgeOf(d))

	type pair struct{ x, y topo.Dart }
	var pairs []pair
	var sheets []topo.Dart
	mk := m.dartMarkers.Light()
	for _, x := range around {
		if !mk.IsMarked(x) {
			x0, x2 := m.Beta0(x), m.Beta2(x)
			mk.Mark(x)
			mk.Mark(x0)
			mk.Mark(x2)
			mk.Mark(m.Beta0(x2))
			sheets = append(sheets, x)
		}
		if y := m.Beta3(x); y != x && x < y {
			pairs = append(pairs, pair{x, y})
		}
	}
	mk.Release()

	m.beginEdit()
	for _, x := range sheets {
		m.cutEdge2(x)
	}
	for _, p := range pairs {
		m.BetaSew(3, m.Beta0(p.x), m.Beta0(p.y))
	}
	m.endEdit(around...)
	return topo.VertexOf(m.Beta0(d))
}

// CutFace splits the face shared by the vertex darts v1 and v2 with a new edge, on both sheets
// when the face separates two volumes, and returns that edge.
func (m *CMap3) CutFace(v1, v2 topo.Cell) topo.Cell {
	d, e := v1.Dart, v2.Dart
	assert(d != e && inFace1(m, d, e), "cut of a face between vertices not on it")

	m.beginEdit()
	sewn := !m.phi3Free(d)
	var dd, ee topo.Dart
	if sewn {
		dd = m.Phi1(m.Phi3(d))
		ee = m.Phi1(m.Phi3(e))
	}
	nd := m.cutFace2(d, e)
	if sewn {
		m.cutFace2(dd, ee)
		m.Phi3Sew(m.Phi_1(d), m.Phi_1(ee))
		m.Phi3Sew(m.Phi_1(e), m.Phi_1(dd))
		m.endEdit(d, e, dd, ee)
	} else {
		m.endEdit(d, e)
	}
	return topo.EdgeOf(nd)
}

func (m *GMap3) CutFace(v1, v2 topo.Cell) topo.Cell {
	d := v1.Dart
	e, ok := m.orientIn(d, v2.Dart)
	assert(ok && e != d, "cut of a face between vertices not on it")

	m.beginEdit()
	dd, ee := m.Beta3(d), m.Beta3(e)
	a := m.cutFace2(d, e)
	if dd != d {
		b := m.cutFace2(dd, ee)
		a2, b2 := m.Beta2(a), m.Beta2(b)
		m.BetaSew(3, a, b)
		m.BetaSew(3, m.Beta0(a), m.Beta0(b))
		m.BetaSew(3, a2, b2)
		m.BetaSew(3, m.Beta0(a2), m.Beta0(b2))
		m.endEdit(d, e, dd, ee)
	} else {
		m.endEdit(d, e)
	}
	return topo.EdgeOf(a)
}

// cutVolume separates the volume along the closed dart path by inserting a new face of
// len(path) edges (two φ3-glued sheets).  Each path dart must start where the previous one ends.
func cutVolume(v volumic, path []topo.Dart) topo.Dart {
	assert(len(path) > 0, "cut of a volume along an empty path")
	f0 := v.addFace1(len(path))
	f1 := v.addFace1(len(path))
	for _, d0 := range path {
		d1 := v.Phi2(d0)
		assert(d1 != d0, "cut of a volume along an open edge")
		v.Phi2Unsew(d0)
		v.Phi2Sew(d0, f0)
		v.Phi2Sew(d1, f1)
		v.Phi3Sew(f0, f1)
		f0 = v.Phi_1(f0)
		f1 = v.Phi1(f1)
	}
	return v.Phi_1(f0)
}

// CutVolume separates a volume along a closed path of its darts and returns the new face.
func (m *CMap3) CutVolume(path []topo.Dart) topo.Cell {
	m.beginEdit()
	f := cutVolume(m, path)
	seeds := append([]topo.Dart{f, m.Phi3(f)}, path...)
	m.endEdit(seeds...)
	return topo.FaceOf(f)
}

func (m *GMap3) CutVolume(path []topo.Dart) topo.Cell {
	m.beginEdit()
	f := cutVolume(m, path)
	seeds := append([]topo.Dart{f, m.Phi3(f)}, path...)
	m.endEdit(seeds...)
	return topo.FaceOf(f)
}

// closeHole builds the volume that caps the hole through the φ3-free dart d and returns φ3(d).
//
// Open faces reachable from d are visited breadth first.  Each gets a cap face of equal
// codegree glued by φ3; cap faces are glued to each other by φ2 by turning around each
// edge through φ3∘φ2 until the walk meets either another open face or a cap face.
func closeHole(v volumic, d topo.Dart) topo.Dart {
	assert(v.phi3Free(d), "close of a hole through a dart that is not φ3-free")
	m := v.base()

	visitedFaces := m.dartMarkers.Store()
	holeDarts := m.dartMarkers.Store()
	defer visitedFaces.Release()
	defer holeDarts.Release()

	faces := []topo.Dart{d}
	v.foreachDartOfFace1(d, visitedFaces.Mark)

	for i := 0; i < len(faces); i++ {
		f := faces[i]
		hf := v.addFace1(codegree1(v, f))
		v.foreachDartOfFace1(hf, holeDarts.Mark)

		it, bit := f, hf
		for {
			e := v.Phi3(v.Phi2(it))
			for steps := 0; ; steps++ {
				assert(steps <= m.numDarts, "close of a hole with a non-manifold boundary")
				if v.phi3Free(e) {
					if !visitedFaces.IsMarked(e) {
						faces = append(faces, e)
						v.foreachDartOfFace1(e, visitedFaces.Mark)
					}
					break
				}
				if holeDarts.IsMarked(e) {
					v.Phi2Sew(e, bit)
					break
				}
				e = v.Phi3(v.Phi2(e))
			}
			v.Phi3Sew(it, bit)

			bit = v.Phi_1(bit)
			if it = v.Phi1(it); it == f {
				break
			}
		}
	}
	return v.Phi3(d)
}

// closeAll caps every hole of an open 3-map with a volume of boundary darts and returns the number of holes.
func closeAll(v volumic) int {
	m := v.base()
	var open []topo.Dart
	for d := range m.Darts() {
		if v.phi3Free(d) {
			open = append(open, d)
		}
	}

	m.beginEdit()
	holes := 0
	for _, d := range open {
		if !v.phi3Free(d) {
			continue
		}
		capDart := closeHole(v, d)
		for x := range m.Orbit(topo.VolumeOf(capDart)) {
			m.SetBoundary(x, true)
		}
		holes++
	}
	numCapDarts := len(m.fresh)
	m.endEdit()

	if holes > 0 {
		klog.V(2).Infof("closed %d hole(s) with %d cap darts", holes, numCapDarts)
	}
	return holes
}

// CloseHole caps the hole through the φ3-free dart d with a new volume and returns it.
// The cap is not flagged as boundary; see Close.
func (m *CMap3) CloseHole(d topo.Dart) topo.Cell {
	m.beginEdit()
	capDart := closeHole(m, d)
	m.endEdit(d)
	return topo.VolumeOf(capDart)
}

func (m *GMap3) CloseHole(d topo.Dart) topo.Cell {
	m.beginEdit()
	capDart := closeHole(m, d)
	m.endEdit(d)
	return topo.VolumeOf(capDart)
}

// Close caps every hole with a boundary volume and returns the number of holes closed.
func (m *CMap3) Close() int {
	return closeAll(m)
}

func (m *GMap3) Close() int {
	return closeAll(m)
}

// sewFaces glues the open faces of d and e through φ3, d's cycle running against e's.
func sewFaces(v volumic, d, e topo.Dart) error {
	m := v.base()
	if !v.phi3Free(d) || !v.phi3Free(e) {
		return errors.Wrapf(topo.ErrFaceNotOpen, "darts %d and %d", d, e)
	}
	if nd, ne := codegree1(v, d), codegree1(v, e); nd != ne {
		klog.Warningf("cannot glue faces of codegree %d and %d", nd, ne)
		return errors.Wrapf(topo.ErrDegreeMismatch, "codegree %d vs %d", nd, ne)
	}

	m.beginEdit()
	var seeds []topo.Dart
	it, jt := d, e
	for {
		v.Phi3Sew(it, jt)
		seeds = append(seeds, it, jt)
		it = v.Phi1(it)
		jt = v.Phi_1(jt)
		if it == d {
			break
		}
	}
	m.endEdit(seeds...)
	return nil
}

// SewFaces glues two open faces of equal codegree, d's face running against e's.
// On a codegree mismatch the map is left untouched and topo.ErrDegreeMismatch is returned.
func (m *CMap3) SewFaces(d, e topo.Dart) error {
	return sewFaces(m, d, e)
}

func (m *GMap3) SewFaces(d, e topo.Dart) error {
	return sewFaces(m, d, e)
}
