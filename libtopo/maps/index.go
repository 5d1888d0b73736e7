package maps

import (
	"github.com/2x3systems/topomap/libtopo/attribute"
	"github.com/2x3systems/topomap/topo"
)

func (m *Map) IsIndexed(kind topo.CellKind) bool {
	return m.emb[kind] != nil
}

// Attributes returns the attribute container of kind, creating it on first use.
func (m *Map) Attributes(kind topo.CellKind) *attribute.Container {
	m.assertKind(kind)
	if m.attrs[kind] == nil {
		m.attrs[kind] = attribute.NewContainer(kind)
	}
	return m.attrs[kind]
}

// IndexCells starts tracking indices for kind and gives each non-boundary cell a fresh index.
// Calling it on an indexed kind does nothing.
func (m *Map) IndexCells(kind topo.CellKind) {
	if m.IsIndexed(kind) {
		return
	}
	cont := m.Attributes(kind)
	m.emb[kind] = make([]topo.Index, len(m.flags))
	for c := range m.Cells(kind) {
		m.SetIndex(c, cont.NewIndex())
	}
}

// IndexOf returns the index carried by c's representative dart, or NilIndex if kind is not indexed.
func (m *Map) IndexOf(c topo.Cell) topo.Index {
	if emb := m.emb[c.Kind]; emb != nil {
		return emb[c.Dart]
	}
	return topo.NilIndex
}

// NewIndex issues an index of kind that no dart carries yet.
func (m *Map) NewIndex(kind topo.CellKind) topo.Index {
	return m.Attributes(kind).NewIndex()
}

// SetIndex stores idx on every dart of c.
func (m *Map) SetIndex(c topo.Cell, idx topo.Index) {
	assert(m.IsIndexed(c.Kind), "set index on an unindexed kind")
	for d := range m.Orbit(c) {
		m.setDartIndex(c.Kind, d, idx)
	}
}

// CopyIndex stores the index of kind carried by src on dst.
func (m *Map) CopyIndex(kind topo.CellKind, dst, src topo.Dart) {
	m.setDartIndex(kind, dst, m.emb[kind][src])
}

func (m *Map) setDartIndex(kind topo.CellKind, d topo.Dart, idx topo.Index) {
	emb := m.emb[kind]
	prev := emb[d]
	if prev == idx {
		return
	}
	cont := m.attrs[kind]
	if idx != topo.NilIndex {
		cont.Ref(idx)
	}
	emb[d] = idx
	if prev != topo.NilIndex {
		cont.Unref(prev)
	}
}

// reindex restores one index per cell for every indexed kind, looking only at cells through seeds.
//
// Each touched cell keeps an index already carried by one of its untouched darts if it has
// one, otherwise the index of its first seed dart.  An index claimed by an earlier cell
// of the same repair is never claimed twice, so the second half of a split cell receives
// a new index.  Cells made only of boundary darts are left unindexed.
func (m *Map) reindex(seeds []topo.Dart) {
	var kinds [topo.NumCellKinds]bool
	anyIndexed := false
	for k := range m.emb {
		if m.emb[k] != nil {
			kinds[k] = true
			anyIndexed = true
		}
	}
	if !anyIndexed || len(seeds) == 0 {
		return
	}

	isSeed := m.dartMarkers.Store()
	defer isSeed.Release()
	for _, d := range seeds {
		if m.IsLive(d) {
			isSeed.Mark(d)
		}
	}

	var orbit []topo.Dart
	for k, indexed := range kinds {
		if !indexed {
			continue
		}
		kind := topo.CellKind(k)
		emb := m.emb[kind]
		cont := m.attrs[kind]

		visited := m.dartMarkers.Light()
		claimed := m.indexMarkers.Light()
		for _, seed := range seeds {
			if !isSeed.IsMarked(seed) || visited.IsMarked(seed) {
				continue
			}

			orbit = orbit[:0]
			kept, first := topo.NilIndex, topo.NilIndex
			interior := false
			m.walk(kind, seed, visited, func(d topo.Dart) bool {
				orbit = append(orbit, d)
				idx := emb[d]
				if !m.IsBoundary(d) {
					interior = true
				}
				if idx == topo.NilIndex || claimed.IsMarked(idx) {
					return true
				}
				if !isSeed.IsMarked(d) {
					if kept == topo.NilIndex {
						kept = idx
					}
				} else if first == topo.NilIndex {
					first = idx
				}
				return true
			})

			idx := topo.NilIndex
			if interior {
				switch {
				case kept != topo.NilIndex:
					idx = kept
				case first != topo.NilIndex:
					idx = first
				default:
					idx = cont.NewIndex()
				}
				claimed.Mark(idx)
			}

			for _, d := range orbit {
				m.setDartIndex(kind, d, idx)
			}
		}
		claimed.Release()
		visited.Release()
	}
}
