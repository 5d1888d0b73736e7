package attribute

import (
	"fmt"

	"github.com/2x3systems/topomap/topo"
)

// ChunkSize is the number of values per storage chunk.
//
// Growing a column appends chunks and never moves existing ones, so a *T returned by Value
// stays valid for the life of the column.
const ChunkSize = 1024

// Attribute is a named, typed column of per-cell values keyed by topo.Index.
//
// An Attribute is reference counted: the owning Container holds one reference and every
// handle returned by Add / Get / GetOrAdd holds another.  Storage is dropped when the
// last reference is released.
type Attribute[T any] struct {
	name   string
	chunks []*[ChunkSize]T
	refs   int32
	owner  *Container
}

func (attr *Attribute[T]) Name() string {
	return attr.name
}

// Value returns the address of the value stored at idx.
// An index outside the container's range is a programming error and panics.
func (attr *Attribute[T]) Value(idx topo.Index) *T {
	return &attr.chunks[idx/ChunkSize][idx%ChunkSize]
}

func (attr *Attribute[T]) Get(idx topo.Index) T {
	return attr.chunks[idx/ChunkSize][idx%ChunkSize]
}

func (attr *Attribute[T]) Set(idx topo.Index, val T) {
	attr.chunks[idx/ChunkSize][idx%ChunkSize] = val
}

// IsAttached reports if this column still belongs to its container (i.e. it has not been removed).
func (attr *Attribute[T]) IsAttached() bool {
	return attr.owner != nil
}

// RefCount returns the number of live references to this column.
func (attr *Attribute[T]) RefCount() int32 {
	return attr.refs
}

// Release drops one reference.  Once removed from its container and released by every
// holder, the column frees its storage.
func (attr *Attribute[T]) Release() {
	attr.unref()
}

func (attr *Attribute[T]) String() string {
	var zero T
	return fmt.Sprintf("%s[%T]", attr.name, zero)
}

func (attr *Attribute[T]) ref() {
	attr.refs++
}

func (attr *Attribute[T]) unref() {
	if attr.refs <= 0 {
		panic("attribute released more times than referenced")
	}
	attr.refs--
	if attr.refs == 0 {
		attr.chunks = nil
		attr.owner = nil
	}
}

func (attr *Attribute[T]) detach() {
	attr.owner = nil
	attr.unref()
}

// ensure grows storage so that every index below size is addressable.
func (attr *Attribute[T]) ensure(size uint32) {
	for uint32(len(attr.chunks))*ChunkSize < size {
		attr.chunks = append(attr.chunks, new([ChunkSize]T))
	}
}

func (attr *Attribute[T]) reset(idx topo.Index) {
	var zero T
	attr.chunks[idx/ChunkSize][idx%ChunkSize] = zero
}
