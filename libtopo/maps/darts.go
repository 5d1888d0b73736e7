package maps

import (
	"iter"

	"github.com/2x3systems/topomap/topo"
)

// NumDarts returns the number of live darts.
func (m *Map) NumDarts() int {
	return m.numDarts
}

// NumSlots returns one past the highest dart ever issued.
func (m *Map) NumSlots() int {
	return len(m.flags)
}

func (m *Map) IsLive(d topo.Dart) bool {
	return int(d) < len(m.flags) && m.flags[d]&topo.FlagLive != 0
}

func (m *Map) IsBoundary(d topo.Dart) bool {
	return m.flags[d]&topo.FlagBoundary != 0
}

// SetBoundary sets or clears the boundary mark of d.
func (m *Map) SetBoundary(d topo.Dart, boundary bool) {
	if boundary {
		m.flags[d] |= topo.FlagBoundary
	} else {
		m.flags[d] &^= topo.FlagBoundary
	}
}

// Darts enumerates live darts in slot order.
func (m *Map) Darts() iter.Seq[topo.Dart] {
	return func(yield func(topo.Dart) bool) {
		for i := 1; i < len(m.flags); i++ {
			if m.flags[i]&topo.FlagLive != 0 && !yield(topo.Dart(i)) {
				return
			}
		}
	}
}

// AddDart issues a dart whose relations are all fixed points and whose embeddings are all nil.
// A slot released by RemoveDart is reused first.
func (m *Map) AddDart() topo.Dart {
	var d topo.Dart
	if n := len(m.free); n > 0 {
		d = m.free[n-1]
		m.free = m.free[:n-1]
	} else {
		d = topo.Dart(len(m.flags))
		m.flags = append(m.flags, 0)
		for i := 0; i < m.nrel; i++ {
			m.rel[i] = append(m.rel[i], 0)
		}
		for k := range m.emb {
			if m.emb[k] != nil {
				m.emb[k] = append(m.emb[k], topo.NilIndex)
			}
		}
	}

	for i := 0; i < m.nrel; i++ {
		m.rel[i][d] = d
	}
	m.flags[d] = topo.FlagLive
	m.numDarts++
	if m.editing {
		m.fresh = append(m.fresh, d)
	}
	return d
}

// newDartLike adds a dart that inherits the boundary mark of src.
func (m *Map) newDartLike(src topo.Dart) topo.Dart {
	d := m.AddDart()
	if m.IsBoundary(src) {
		m.flags[d] |= topo.FlagBoundary
	}
	return d
}

// RemoveDart releases d, which must be unsewn from every relation.
// Each index d carries loses a reference and is recycled once no dart carries it.
func (m *Map) RemoveDart(d topo.Dart) {
	assert(m.IsLive(d), "remove of a dart that is not live")
	for i := 0; i < m.nrel; i++ {
		assert(m.rel[i][d] == d, "remove of a dart that is still sewn")
	}
	for k, emb := range m.emb {
		if emb == nil {
			continue
		}
		if idx := emb[d]; idx != topo.NilIndex {
			emb[d] = topo.NilIndex
			m.attrs[k].Unref(idx)
		}
	}
	m.flags[d] = 0
	m.free = append(m.free, d)
	m.numDarts--
}

// beginEdit starts recording the darts an operator adds so that endEdit can repair their indices.
func (m *Map) beginEdit() {
	assert(!m.editing, "nested edit")
	m.editing = true
	m.fresh = m.fresh[:0]
}

// endEdit repairs the indices of the cells touched by seeds and by every dart added since beginEdit.
func (m *Map) endEdit(seeds ...topo.Dart) {
	m.editing = false
	all := make([]topo.Dart, 0, len(seeds)+len(m.fresh))
	all = append(all, seeds...)
	all = append(all, m.fresh...)
	m.reindex(all)
}
