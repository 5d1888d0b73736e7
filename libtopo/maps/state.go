package maps

import (
	"github.com/pkg/errors"

	"github.com/2x3systems/topomap/topo"
)

// Snapshotter is implemented by every map variant.
type Snapshotter interface {
	topo.Mesh
	ExportState() *topo.MapState
	CheckIntegrity() error
}

// ExportState returns a snapshot of the topology, boundary marks and cell indices of m.
func (m *Map) ExportState() *topo.MapState {
	st := &topo.MapState{
		Encoding:  int32(m.enc),
		Dim:       int32(m.dim),
		NumSlots:  uint32(len(m.flags)),
		Relations: make([]*topo.RelationColumn, m.nrel),
		Flags:     append([]byte(nil), m.flags...),
	}
	for i := 0; i < m.nrel; i++ {
		col := &topo.RelationColumn{
			Slot:  int32(i),
			Darts: make([]uint32, len(m.rel[i])),
		}
		for j, d := range m.rel[i] {
			col.Darts[j] = uint32(d)
		}
		st.Relations[i] = col
	}
	if len(m.free) > 0 {
		st.Free = make([]uint32, len(m.free))
		for i, d := range m.free {
			st.Free[i] = uint32(d)
		}
	}
	for k, emb := range m.emb {
		if emb == nil {
			continue
		}
		col := &topo.EmbeddingColumn{
			Kind:    int32(k),
			Indices: make([]uint32, len(emb)),
		}
		for j, idx := range emb {
			col.Indices[j] = uint32(idx)
		}
		st.Embeddings = append(st.Embeddings, col)
	}
	return st
}

// ExportState is a convenience for m.ExportState().
func ExportState(m Snapshotter) *topo.MapState {
	return m.ExportState()
}

// FromState rebuilds a map from a snapshot made by ExportState.
// Indices are restored with empty attribute containers.
func FromState(st *topo.MapState) (Snapshotter, error) {
	mesh, err := New(topo.Encoding(st.Encoding), int(st.Dim))
	if err != nil {
		return nil, err
	}
	snap := mesh.(Snapshotter)
	if err = baseOf(mesh).restore(st); err != nil {
		return nil, err
	}
	if err = snap.CheckIntegrity(); err != nil {
		return nil, errors.Wrap(topo.ErrBadState, err.Error())
	}
	return snap, nil
}

func baseOf(mesh topo.Mesh) *Map {
	return mesh.(interface{ base() *Map }).base()
}

func (m *Map) restore(st *topo.MapState) error {
	n := int(st.NumSlots)
	if n < 1 || len(st.Flags) != n || len(st.Relations) != m.nrel {
		return errors.Wrapf(topo.ErrBadState, "%d slots, %d flags, %d relations", n, len(st.Flags), len(st.Relations))
	}

	m.flags = append(m.flags[:0], st.Flags...)
	m.numDarts = 0
	for _, f := range m.flags {
		if f&topo.FlagLive != 0 {
			m.numDarts++
		}
	}

	restored := make([]bool, m.nrel)
	for _, col := range st.Relations {
		if col.Slot < 0 || int(col.Slot) >= m.nrel || restored[col.Slot] || len(col.Darts) != n {
			return errors.Wrapf(topo.ErrBadState, "relation column %d", col.Slot)
		}
		restored[col.Slot] = true
		rel := make([]topo.Dart, n)
		for j, d := range col.Darts {
			if int(d) >= n {
				return errors.Wrapf(topo.ErrBadState, "relation %d of slot %d out of range", col.Slot, j)
			}
			rel[j] = topo.Dart(d)
		}
		m.rel[col.Slot] = rel
	}

	m.free = m.free[:0]
	freed := make(map[uint32]bool, len(st.Free))
	for _, d := range st.Free {
		if int(d) >= n || freed[d] || m.flags[d]&topo.FlagLive != 0 {
			return errors.Wrapf(topo.ErrBadState, "free dart %d", d)
		}
		freed[d] = true
		m.free = append(m.free, topo.Dart(d))
	}

	// Every indexed cell owns at least one slot, so no index reaches n.
	var indexed [topo.NumCellKinds]bool
	for _, col := range st.Embeddings {
		kind := topo.CellKind(col.Kind)
		if col.Kind < 0 || col.Kind >= int32(topo.NumCellKinds) || !m.Supports(kind) || indexed[kind] || len(col.Indices) != n {
			return errors.Wrapf(topo.ErrBadState, "embedding column of kind %d", col.Kind)
		}
		indexed[kind] = true
		for j, raw := range col.Indices {
			if idx := topo.Index(raw); idx != topo.NilIndex && int(idx) >= n {
				return errors.Wrapf(topo.ErrBadState, "index %d of slot %d out of range", raw, j)
			}
		}
	}

	for _, col := range st.Embeddings {
		kind := topo.CellKind(col.Kind)
		cont := m.Attributes(kind)
		emb := make([]topo.Index, n)
		for j, raw := range col.Indices {
			idx := topo.Index(raw)
			if idx == topo.NilIndex {
				continue
			}
			for cont.Size() <= uint32(idx) {
				cont.NewIndex()
			}
			emb[j] = idx
			cont.Ref(idx)
		}
		for idx := range cont.Each() {
			if cont.RefCount(idx) == 0 {
				cont.ReleaseIndex(idx)
			}
		}
		m.emb[kind] = emb
	}
	return nil
}
