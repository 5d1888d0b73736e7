package maps

import (
	"iter"

	"github.com/2x3systems/topomap/libtopo/marker"
	"github.com/2x3systems/topomap/topo"
)

// walk visits each dart of the kind orbit through d once, breadth first, marking every
// visited dart in mk.  It returns false if f stopped the walk early.
func (m *Map) walk(kind topo.CellKind, d topo.Dart, mk marker.Marker[topo.Dart], f func(topo.Dart) bool) bool {
	gens := m.orbits[kind].gens
	mk.Mark(d)
	if len(gens) == 0 {
		return f(d)
	}

	qp := queuePool.Get().(*dartQueue)
	queue := append((*qp)[:0], d)
	defer func() {
		*qp = queue[:0]
		queuePool.Put(qp)
	}()

	for i := 0; i < len(queue); i++ {
		di := queue[i]
		if !f(di) {
			return false
		}
		for _, gen := range gens {
			if next := gen(di); !mk.IsMarked(next) {
				mk.Mark(next)
				queue = append(queue, next)
			}
		}
	}
	return true
}

func visitAll(topo.Dart) bool {
	return true
}

// Orbit enumerates each dart of c exactly once.
func (m *Map) Orbit(c topo.Cell) iter.Seq[topo.Dart] {
	m.assertKind(c.Kind)
	return func(yield func(topo.Dart) bool) {
		mk := m.dartMarkers.Light()
		defer mk.Release()
		m.walk(c.Kind, c.Dart, mk, yield)
	}
}

// OrbitSize returns the number of darts of c.
func (m *Map) OrbitSize(c topo.Cell) int {
	n := 0
	for range m.Orbit(c) {
		n++
	}
	return n
}

func (m *Map) cells(kind topo.CellKind, withBoundary bool) iter.Seq[topo.Cell] {
	m.assertKind(kind)
	return func(yield func(topo.Cell) bool) {
		mk := m.dartMarkers.Light()
		defer mk.Release()
		for i := 1; i < len(m.flags); i++ {
			d := topo.Dart(i)
			flags := m.flags[d]
			if flags&topo.FlagLive == 0 || mk.IsMarked(d) {
				continue
			}
			if !withBoundary && flags&topo.FlagBoundary != 0 {
				continue
			}
			m.walk(kind, d, mk, visitAll)
			if !yield(topo.Cell{Kind: kind, Dart: d}) {
				return
			}
		}
	}
}

// Cells enumerates one representative per cell of kind, skipping cells made only of boundary darts.
func (m *Map) Cells(kind topo.CellKind) iter.Seq[topo.Cell] {
	return m.cells(kind, false)
}

// AllCells enumerates one representative per cell of kind, boundary cells included.
func (m *Map) AllCells(kind topo.CellKind) iter.Seq[topo.Cell] {
	return m.cells(kind, true)
}

func (m *Map) NumCells(kind topo.CellKind) int {
	n := 0
	for range m.Cells(kind) {
		n++
	}
	return n
}

func (m *Map) NumAllCells(kind topo.CellKind) int {
	n := 0
	for range m.AllCells(kind) {
		n++
	}
	return n
}

// IsBoundaryCell reports if every dart of c is a boundary dart.
func (m *Map) IsBoundaryCell(c topo.Cell) bool {
	for d := range m.Orbit(c) {
		if !m.IsBoundary(d) {
			return false
		}
	}
	return true
}

// Incident enumerates the cells of kind that share at least one dart with c, each once.
// Cells made only of boundary darts are skipped.
func (m *Map) Incident(c topo.Cell, kind topo.CellKind) iter.Seq[topo.Cell] {
	m.assertKind(c.Kind)
	m.assertKind(kind)
	return func(yield func(topo.Cell) bool) {
		inner := m.dartMarkers.Light()
		seen := m.dartMarkers.Light()
		defer inner.Release()
		defer seen.Release()

		m.walk(c.Kind, c.Dart, inner, func(d topo.Dart) bool {
			if seen.IsMarked(d) {
				return true
			}
			interior := false
			m.walk(kind, d, seen, func(x topo.Dart) bool {
				if !m.IsBoundary(x) {
					interior = true
				}
				return true
			})
			if !interior {
				return true
			}
			return yield(topo.Cell{Kind: kind, Dart: d})
		})
	}
}

// Adjacent enumerates the cells of c's kind that share a through cell with c, excluding c itself.
func (m *Map) Adjacent(c topo.Cell, through topo.CellKind) iter.Seq[topo.Cell] {
	m.assertKind(c.Kind)
	m.assertKind(through)
	return func(yield func(topo.Cell) bool) {
		self := m.dartMarkers.Light()
		seen := m.dartMarkers.Light()
		defer self.Release()
		defer seen.Release()

		m.walk(c.Kind, c.Dart, self, visitAll)
		for t := range m.Incident(c, through) {
			for n := range m.Incident(t, c.Kind) {
				if self.IsMarked(n.Dart) || seen.IsMarked(n.Dart) {
					continue
				}
				m.walk(c.Kind, n.Dart, seen, visitAll)
				if !yield(n) {
					return
				}
			}
		}
	}
}

// Degree returns the number of edges incident to the vertex v.
func (m *Map) Degree(v topo.Cell) int {
	n := 0
	for range m.Incident(v, topo.Edge) {
		n++
	}
	return n
}

// Codegree returns the number of edges bounding the face f.
func (m *Map) Codegree(f topo.Cell) int {
	n := 0
	for range m.Incident(f, topo.Edge) {
		n++
	}
	return n
}
