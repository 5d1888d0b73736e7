// Package attribute implements the per-cell-kind attribute containers of a map.
//
// A Container issues indices (one per indexed cell) and keeps every attached column sized
// to cover them.  Indices are reference counted by the darts that carry them and are
// recycled lowest-first once no dart refers to them.
package attribute

import (
	"iter"

	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/emirpasic/gods/utils"
	"github.com/pkg/errors"

	"github.com/2x3systems/topomap/topo"
)

// column is the type-erased view a Container keeps of each Attribute[T].
type column interface {
	Name() string
	String() string
	ensure(size uint32)
	reset(idx topo.Index)
	ref()
	detach()
}

// Container holds the attributes and index space of one cell kind.
type Container struct {
	kind    topo.CellKind
	columns []column
	byName  map[string]column
	refs    []uint32 // per index: number of darts carrying it
	inUse   []bool
	numUsed int
	free    *binaryheap.Heap // released indices, smallest first
}

func NewContainer(kind topo.CellKind) *Container {
	return &Container{
		kind:   kind,
		byName: make(map[string]column),
		refs:   make([]uint32, 1, 64),
		inUse:  make([]bool, 1, 64),
		free:   binaryheap.NewWith(utils.UInt32Comparator),
	}
}

func (c *Container) Kind() topo.CellKind {
	return c.kind
}

// Size returns one past the highest index ever issued.
func (c *Container) Size() uint32 {
	return uint32(len(c.refs))
}

// NumIndices returns the number of indices currently in use.
func (c *Container) NumIndices() int {
	return c.numUsed
}

// NewIndex issues an index, recycling the smallest released one if any.
// Every attached column covers the returned index and holds its zero value there.
func (c *Container) NewIndex() topo.Index {
	var idx topo.Index
	if val, ok := c.free.Pop(); ok {
		idx = topo.Index(val.(uint32))
	} else {
		idx = topo.Index(len(c.refs))
		c.refs = append(c.refs, 0)
		c.inUse = append(c.inUse, false)
		for _, col := range c.columns {
			col.ensure(uint32(len(c.refs)))
		}
	}
	c.refs[idx] = 0
	c.inUse[idx] = true
	c.numUsed++
	for _, col := range c.columns {
		col.reset(idx)
	}
	return idx
}

// Ref records one more dart carrying idx.
func (c *Container) Ref(idx topo.Index) {
	c.refs[idx]++
}

// Unref records one less dart carrying idx; the index is released when none remain.
func (c *Container) Unref(idx topo.Index) {
	if c.refs[idx] == 0 {
		panic("index unreferenced more times than referenced")
	}
	c.refs[idx]--
	if c.refs[idx] == 0 {
		c.ReleaseIndex(idx)
	}
}

// RefCount returns the number of darts carrying idx.
func (c *Container) RefCount(idx topo.Index) uint32 {
	return c.refs[idx]
}

// IsInUse reports if idx is currently issued.
func (c *Container) IsInUse(idx topo.Index) bool {
	return int(idx) < len(c.inUse) && c.inUse[idx]
}

// ReleaseIndex returns idx to the free pool.
// This is only needed for an index that was issued but never carried by a dart.
func (c *Container) ReleaseIndex(idx topo.Index) {
	if !c.inUse[idx] {
		return
	}
	c.inUse[idx] = false
	c.refs[idx] = 0
	c.numUsed--
	c.free.Push(uint32(idx))
}

// Each enumerates the indices currently in use, in increasing order.
func (c *Container) Each() iter.Seq[topo.Index] {
	return func(yield func(topo.Index) bool) {
		for i, used := range c.inUse {
			if used && !yield(topo.Index(i)) {
				return
			}
		}
	}
}

// Names returns the names of the attached attributes in the order they were added.
func (c *Container) Names() []string {
	names := make([]string, len(c.columns))
	for i, col := range c.columns {
		names[i] = col.Name()
	}
	return names
}

func (c *Container) attach(col column) {
	col.ensure(uint32(len(c.refs)))
	col.ref()
	c.columns = append(c.columns, col)
	c.byName[col.Name()] = col
}

// Remove detaches the named attribute and drops the container's reference to it.
// Handles still held elsewhere keep their values readable until released.
func (c *Container) Remove(name string) bool {
	col, exists := c.byName[name]
	if !exists {
		return false
	}
	delete(c.byName, name)
	for i, ci := range c.columns {
		if ci == col {
			c.columns = append(c.columns[:i], c.columns[i+1:]...)
			break
		}
	}
	col.detach()
	return true
}

// Add attaches a new attribute of type T.
func Add[T any](c *Container, name string) (*Attribute[T], error) {
	if col, exists := c.byName[name]; exists {
		if _, sameType := col.(*Attribute[T]); sameType {
			return nil, errors.Wrapf(topo.ErrAttributeExists, "%v attribute %q", c.kind, name)
		}
		return nil, errors.Wrapf(topo.ErrAttributeTypeMismatch, "%v attribute %v", c.kind, col)
	}
	attr := &Attribute[T]{
		name:  name,
		owner: c,
	}
	c.attach(attr)
	attr.ref()
	return attr, nil
}

// Get returns the named attribute if it exists with type T, or nil.
func Get[T any](c *Container, name string) *Attribute[T] {
	col, exists := c.byName[name]
	if !exists {
		return nil
	}
	attr, sameType := col.(*Attribute[T])
	if !sameType {
		return nil
	}
	attr.ref()
	return attr
}

// GetOrAdd returns the named attribute, adding it if absent.
// It fails only if the name is taken by an attribute of another type.
func GetOrAdd[T any](c *Container, name string) (*Attribute[T], error) {
	if attr := Get[T](c, name); attr != nil {
		return attr, nil
	}
	return Add[T](c, name)
}
