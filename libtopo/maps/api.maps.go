// Package maps implements combinatorial (CMap1..3) and generalized (GMap1..3) maps:
// the dart store, relation layer, orbit traversal, cell indexing, and the construction
// and editing operators that keep all of them consistent.
//
// A map is single-threaded.  No structural edit may run while a traversal sequence or a
// marker taken from the map is still in use.
package maps

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/2x3systems/topomap/libtopo/attribute"
	"github.com/2x3systems/topomap/libtopo/marker"
	"github.com/2x3systems/topomap/topo"
)

// MaxRelations is the number of relation slots a map may use.
//
// Combinatorial slots are φ1, φ1⁻¹, φ2, φ3; generalized slots are β0, β1, β2, β3.
const MaxRelations = 4

// Map is the dart store, embedding layer and orbit table shared by every map variant.
type Map struct {
	dim      int
	enc      topo.Encoding
	nrel     int
	rel      [MaxRelations][]topo.Dart
	flags    []byte // per slot: topo.FlagLive | topo.FlagBoundary
	free     []topo.Dart
	numDarts int

	emb    [topo.NumCellKinds][]topo.Index // nil until a kind is indexed
	attrs  [topo.NumCellKinds]*attribute.Container
	orbits [topo.NumCellKinds]orbit

	dartMarkers  marker.Pool[topo.Dart]
	indexMarkers marker.Pool[topo.Index]

	editing bool
	fresh   []topo.Dart // darts added since beginEdit
}

// orbit lists the generators of a cell kind; an orbit with no generators is a single dart.
type orbit struct {
	ok   bool
	gens []func(topo.Dart) topo.Dart
}

func (m *Map) init(dim int, enc topo.Encoding, nrel int) {
	m.dim = dim
	m.enc = enc
	m.nrel = nrel
	m.flags = make([]byte, 1, 64) // slot 0 is the nil dart
	for i := 0; i < nrel; i++ {
		m.rel[i] = make([]topo.Dart, 1, 64)
	}
}

func (m *Map) defineOrbit(kind topo.CellKind, gens ...func(topo.Dart) topo.Dart) {
	m.orbits[kind] = orbit{
		ok:   true,
		gens: gens,
	}
}

func (m *Map) base() *Map {
	return m
}

func (m *Map) Dim() int {
	return m.dim
}

func (m *Map) Encoding() topo.Encoding {
	return m.enc
}

func (m *Map) Supports(kind topo.CellKind) bool {
	return kind < topo.NumCellKinds && m.orbits[kind].ok
}

// Markers returns the pool of dart markers of this map.
func (m *Map) Markers() *marker.Pool[topo.Dart] {
	return &m.dartMarkers
}

func (m *Map) String() string {
	return fmt.Sprintf("%v%d{darts: %d}", m.enc, m.dim, m.numDarts)
}

// New returns an empty map of the given encoding and dimension.
func New(enc topo.Encoding, dim int) (topo.Mesh, error) {
	switch {
	case enc == topo.Combinatorial && dim == 1:
		return NewCMap1(), nil
	case enc == topo.Combinatorial && dim == 2:
		return NewCMap2(), nil
	case enc == topo.Combinatorial && dim == 3:
		return NewCMap3(), nil
	case enc == topo.Generalized && dim == 1:
		return NewGMap1(), nil
	case enc == topo.Generalized && dim == 2:
		return NewGMap2(), nil
	case enc == topo.Generalized && dim == 3:
		return NewGMap3(), nil
	}
	return nil, errors.Wrapf(topo.ErrBadEncoding, "no %v map of dimension %d", enc, dim)
}

func assert(cond bool, desc string) {
	if !cond {
		panic(desc)
	}
}

func (m *Map) assertKind(kind topo.CellKind) {
	if !m.Supports(kind) {
		panic(fmt.Sprintf("%v does not support cell kind %v", m, kind))
	}
}

type dartQueue []topo.Dart

var queuePool = sync.Pool{
	New: func() interface{} {
		q := make(dartQueue, 0, 64)
		return &q
	},
}
