package maps

import (
	"github.com/pkg/errors"

	"github.com/2x3systems/topomap/topo"
)

func (m *Map) violation(format string, args ...interface{}) error {
	return errors.Wrapf(topo.ErrIntegrity, format, args...)
}

// CheckIntegrity walks the whole map and returns the first inconsistency found
// (wrapping topo.ErrIntegrity), or nil.
func (m *Map) CheckIntegrity() error {
	if n := m.dartMarkers.Outstanding() + m.indexMarkers.Outstanding(); n != 0 {
		return m.violation("%d marker(s) not released", n)
	}
	if err := m.checkRelations(); err != nil {
		return err
	}
	if err := m.checkBoundary(); err != nil {
		return err
	}
	for k := range m.emb {
		if m.emb[k] != nil {
			if err := m.checkIndices(topo.CellKind(k)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Map) checkRelations() error {
	live := 0
	for d := range m.Darts() {
		live++
		for i := 0; i < m.nrel; i++ {
			if t := m.rel[i][d]; !m.IsLive(t) {
				return m.violation("relation %d of dart %d points to dead dart %d", i, d, t)
			}
		}
		switch m.enc {
		case topo.Combinatorial:
			if m.rel[slotPhi_1][m.rel[slotPhi1][d]] != d {
				return m.violation("φ1⁻¹(φ1(%d)) != %d", d, d)
			}
			for i := slotPhi2; i < m.nrel; i++ {
				if m.rel[i][m.rel[i][d]] != d {
					return m.violation("relation %d is not an involution at dart %d", i, d)
				}
			}
			// glued faces run against each other: φ3∘φ1∘φ3 = φ1⁻¹
			if m.nrel > slotPhi3 {
				phi1, phi3 := m.rel[slotPhi1], m.rel[slotPhi3]
				if d3 := phi3[d]; d3 != d && phi3[phi1[d3]] != m.rel[slotPhi_1][d] {
					return m.violation("φ3∘φ1∘φ3(%d) != φ1⁻¹(%d)", d, d)
				}
			}
		case topo.Generalized:
			for i := 0; i < m.nrel; i++ {
				if m.rel[i][m.rel[i][d]] != d {
					return m.violation("β%d is not an involution at dart %d", i, d)
				}
			}
			// βi∘βj must be an involution whenever i+2 <= j
			for i := 0; i < m.nrel; i++ {
				for j := i + 2; j < m.nrel; j++ {
					bi, bj := m.rel[i], m.rel[j]
					if bj[bi[bj[bi[d]]]] != d {
						return m.violation("β%d∘β%d is not an involution at dart %d", i, j, d)
					}
				}
			}
		}
	}
	if live != m.numDarts {
		return m.violation("%d live darts but %d counted", live, m.numDarts)
	}
	return nil
}

// checkBoundary requires the boundary mark to be uniform over each face (2-maps) or volume (3-maps).
func (m *Map) checkBoundary() error {
	var kind topo.CellKind
	switch m.dim {
	case 2:
		kind = topo.Face
	case 3:
		kind = topo.Volume
	default:
		return nil
	}
	for c := range m.AllCells(kind) {
		want := m.IsBoundary(c.Dart)
		for d := range m.Orbit(c) {
			if m.IsBoundary(d) != want {
				return m.violation("%v of dart %d mixes boundary and interior darts", kind, c.Dart)
			}
		}
	}
	return nil
}

func (m *Map) checkIndices(kind topo.CellKind) error {
	cont := m.attrs[kind]
	emb := m.emb[kind]
	if len(emb) != len(m.flags) {
		return m.violation("%v embedding covers %d of %d slots", kind, len(emb), len(m.flags))
	}

	claimed := m.indexMarkers.Store()
	defer claimed.Release()

	for c := range m.AllCells(kind) {
		idx := emb[c.Dart]
		size := uint32(0)
		interior := false
		for d := range m.Orbit(c) {
			size++
			if emb[d] != idx {
				return m.violation("%v of dart %d carries indices %d and %d", kind, c.Dart, idx, emb[d])
			}
			if !m.IsBoundary(d) {
				interior = true
			}
		}
		if idx == topo.NilIndex {
			if interior {
				return m.violation("%v of dart %d is not indexed", kind, c.Dart)
			}
			continue
		}
		if claimed.IsMarked(idx) {
			return m.violation("%v index %d is shared by two cells", kind, idx)
		}
		claimed.Mark(idx)
		if !cont.IsInUse(idx) {
			return m.violation("%v index %d is carried but not in use", kind, idx)
		}
		if refs := cont.RefCount(idx); refs != size {
			return m.violation("%v index %d has %d refs for %d darts", kind, idx, refs, size)
		}
	}

	for idx := range cont.Each() {
		if !claimed.IsMarked(idx) {
			return m.violation("%v index %d is in use but carried by no cell", kind, idx)
		}
	}
	return nil
}
