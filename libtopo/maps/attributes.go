package maps

import (
	"github.com/2x3systems/topomap/libtopo/attribute"
	"github.com/2x3systems/topomap/topo"
)

// Attributed is implemented by every map variant.
type Attributed interface {
	topo.Mesh
	IndexCells(kind topo.CellKind)
	Attributes(kind topo.CellKind) *attribute.Container
}

// AddAttribute adds a column of type T to the cells of kind, indexing kind first if needed.
func AddAttribute[T any](m Attributed, kind topo.CellKind, name string) (*attribute.Attribute[T], error) {
	m.IndexCells(kind)
	return attribute.Add[T](m.Attributes(kind), name)
}

// GetAttribute returns the named column of kind if it exists with type T, or nil.
func GetAttribute[T any](m Attributed, kind topo.CellKind, name string) *attribute.Attribute[T] {
	if !m.Supports(kind) {
		return nil
	}
	return attribute.Get[T](m.Attributes(kind), name)
}

// GetOrAddAttribute returns the named column of kind, adding it if absent.
func GetOrAddAttribute[T any](m Attributed, kind topo.CellKind, name string) (*attribute.Attribute[T], error) {
	m.IndexCells(kind)
	return attribute.GetOrAdd[T](m.Attributes(kind), name)
}

// RemoveAttribute detaches the named column of kind.
func RemoveAttribute(m Attributed, kind topo.CellKind, name string) bool {
	if !m.Supports(kind) {
		return false
	}
	return m.Attributes(kind).Remove(name)
}

// Value returns the address of c's value in attr.
func Value[T any](m topo.Mesh, attr *attribute.Attribute[T], c topo.Cell) *T {
	return attr.Value(m.IndexOf(c))
}
