package maps

import (
	"iter"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"

	"github.com/2x3systems/topomap/topo"
)

// CellsSet is an ordered selection of cells of one kind, keyed by cell index.
type CellsSet struct {
	m    Attributed
	kind topo.CellKind
	tree *redblacktree.Tree // uint32 index => topo.Cell
}

// NewCellsSet returns an empty selection over the cells of kind, indexing kind if needed.
func NewCellsSet(m Attributed, kind topo.CellKind) *CellsSet {
	m.IndexCells(kind)
	return &CellsSet{
		m:    m,
		kind: kind,
		tree: redblacktree.NewWith(utils.UInt32Comparator),
	}
}

func (set *CellsSet) key(c topo.Cell) uint32 {
	return uint32(set.m.IndexOf(topo.Cell{Kind: set.kind, Dart: c.Dart}))
}

// Select adds c (or replaces the representative of a cell already selected).
func (set *CellsSet) Select(c topo.Cell) {
	c.Kind = set.kind
	set.tree.Put(set.key(c), c)
}

func (set *CellsSet) Unselect(c topo.Cell) {
	set.tree.Remove(set.key(c))
}

func (set *CellsSet) Contains(c topo.Cell) bool {
	_, found := set.tree.Get(set.key(c))
	return found
}

func (set *CellsSet) Len() int {
	return set.tree.Size()
}

func (set *CellsSet) Clear() {
	set.tree.Clear()
}

// Each enumerates the selected cells in increasing index order.
func (set *CellsSet) Each() iter.Seq[topo.Cell] {
	return func(yield func(topo.Cell) bool) {
		it := set.tree.Iterator()
		for it.Next() {
			if !yield(it.Value().(topo.Cell)) {
				return
			}
		}
	}
}

// Rebuild refreshes representative darts after edits and drops cells whose index no longer exists.
func (set *CellsSet) Rebuild() {
	fresh := redblacktree.NewWith(utils.UInt32Comparator)
	for c := range set.m.Cells(set.kind) {
		key := set.key(c)
		if _, found := set.tree.Get(key); found {
			fresh.Put(key, c)
		}
	}
	set.tree = fresh
}
