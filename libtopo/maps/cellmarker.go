package maps

import (
	"github.com/2x3systems/topomap/libtopo/marker"
	"github.com/2x3systems/topomap/topo"
)

// CellMarker marks whole cells of one kind: by index when the kind is indexed,
// otherwise by marking every dart of the cell.
type CellMarker struct {
	m       *Map
	kind    topo.CellKind
	byIndex *marker.Store[topo.Index]
	byDart  *marker.Store[topo.Dart]
}

// NewCellMarker checks out a cell marker for kind.  It must be released before the next edit.
func (m *Map) NewCellMarker(kind topo.CellKind) *CellMarker {
	m.assertKind(kind)
	cm := &CellMarker{
		m:    m,
		kind: kind,
	}
	if m.IsIndexed(kind) {
		cm.byIndex = m.indexMarkers.Store()
	} else {
		cm.byDart = m.dartMarkers.Store()
	}
	return cm
}

func (cm *CellMarker) Mark(c topo.Cell) {
	if cm.byIndex != nil {
		cm.byIndex.Mark(cm.m.IndexOf(topo.Cell{Kind: cm.kind, Dart: c.Dart}))
		return
	}
	for d := range cm.m.Orbit(topo.Cell{Kind: cm.kind, Dart: c.Dart}) {
		cm.byDart.Mark(d)
	}
}

func (cm *CellMarker) Unmark(c topo.Cell) {
	if cm.byIndex != nil {
		cm.byIndex.Unmark(cm.m.IndexOf(topo.Cell{Kind: cm.kind, Dart: c.Dart}))
		return
	}
	for d := range cm.m.Orbit(topo.Cell{Kind: cm.kind, Dart: c.Dart}) {
		cm.byDart.Unmark(d)
	}
}

func (cm *CellMarker) IsMarked(c topo.Cell) bool {
	if cm.byIndex != nil {
		return cm.byIndex.IsMarked(cm.m.IndexOf(topo.Cell{Kind: cm.kind, Dart: c.Dart}))
	}
	return cm.byDart.IsMarked(c.Dart)
}

func (cm *CellMarker) Release() {
	if cm.byIndex != nil {
		cm.byIndex.Release()
	} else {
		cm.byDart.Release()
	}
}
