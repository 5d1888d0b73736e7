package topo

import (
	"iter"
)

// Dart is a one-based handle into a map's dart store -- 0 denotes nil.
//
// A Dart carries no payload of its own: its meaning comes from the relation entries
// and embeddings stored under its slot.  Handles are recycled once removed, so callers
// must not retain a Dart across the removal of that dart.
type Dart uint32

// NilDart is the zero Dart, never issued by a dart store.
const NilDart Dart = 0

// Index is a one-based key into a per-kind attribute container -- 0 denotes an unindexed cell.
type Index uint32

// NilIndex marks a dart whose cell has not been indexed.
const NilIndex Index = 0

// CellKind names a cell orbit.  Which relations generate an orbit depends on the
// map's dimension and encoding (see Mesh.Supports).
type CellKind byte

const (
	HalfEdge CellKind = iota // single dart (or β0 pair)
	Vertex                   // vertex of the whole map
	Vertex2                  // vertex as seen from one volume
	Edge                     // edge of the whole map
	Edge2                    // edge as seen from one volume
	Face                     // face of the whole map (both sheets in 3D)
	Face2                    // one sheet of a face
	Volume                   // volume, or the connected surface in 2D
	CC                       // connected component

	NumCellKinds
)

// Encoding selects how darts and relations encode orientation.
type Encoding int32

const (
	// Combinatorial maps store the permutation φ1 (and its inverse) plus the involutions φ2, φ3.
	Combinatorial Encoding = 1

	// Generalized maps store the involutions β0..β3; φ relations are derived.
	Generalized Encoding = 2
)

// Cell is one representative dart plus the orbit it stands for.
type Cell struct {
	Kind CellKind
	Dart Dart
}

// Mesh is the read-side capability set shared by every map variant.
//
// Traversals are lazy and finite.  No structural edit may occur on a Mesh while one of
// its sequences is being consumed.
type Mesh interface {

	// Dim returns the map's dimension (1, 2, or 3).
	Dim() int

	// Encoding returns Combinatorial or Generalized.
	Encoding() Encoding

	// NumDarts returns the number of live darts.
	NumDarts() int

	// Darts enumerates live darts in slot order.
	Darts() iter.Seq[Dart]

	// IsBoundary reports if d belongs to a synthetic closing cap.
	IsBoundary(d Dart) bool

	// Supports reports if the given cell kind has an orbit definition in this map.
	Supports(kind CellKind) bool

	// Phi applies a sequence of φ steps (1, -1, 2, -2, 3, -3) left to right.
	Phi(d Dart, steps ...int) Dart

	// Orbit enumerates each dart of the given cell exactly once.
	Orbit(c Cell) iter.Seq[Dart]

	// Cells enumerates one representative per cell of the given kind, skipping cells made only of boundary darts.
	Cells(kind CellKind) iter.Seq[Cell]

	// AllCells is Cells but also yields boundary-only cells.
	AllCells(kind CellKind) iter.Seq[Cell]

	// NumCells returns the number of cells Cells(kind) would yield.
	NumCells(kind CellKind) int

	// IsIndexed reports if the given kind currently tracks indices.
	IsIndexed(kind CellKind) bool

	// IndexOf returns the index stored on c's representative dart.
	IndexOf(c Cell) Index
}

// CatalogContext owns the Catalogs opened in it and closes them together.
type CatalogContext interface {

	// AttachCatalog adds cat to this context, failing with ErrCatalogClosed once Close has been called.
	AttachCatalog(cat Catalog) error

	// DetachCatalog removes cat; called by cat.Close.
	DetachCatalog(cat Catalog)

	// Close closes every attached Catalog and refuses new ones.
	Close() error

	// Done is closed once Close was called and no Catalog remains attached.
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a map Catalog.
type CatalogOpts struct {
	DbPathName string // omit for an in-memory db
	ReadOnly   bool   // open in read-only mode
}

// MapHit is a named snapshot emitted by Catalog.Select.
type MapHit struct {
	Name  string
	State *MapState
}

// OnMapHit receives Select results.  Ownership of each MapState travels through the channel.
type OnMapHit chan<- MapHit

// Catalog wraps a database of named map snapshots.
type Catalog interface {

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// NumMaps returns the number of snapshots stored (as of Close, once closed).
	NumMaps() int64

	// TryAddMap stores st under name if name is not yet used.
	// If true is returned, name did not exist and st was added.
	TryAddMap(name string, st *MapState) (bool, error)

	// PutMap stores st under name, replacing any previous snapshot.
	PutMap(name string, st *MapState) error

	// GetMap loads the snapshot stored under name.
	GetMap(name string) (*MapState, error)

	// Select sends each snapshot whose name has the given prefix, in name order.
	Select(prefix string, onHit OnMapHit) error

	// Close flushes and closes the catalog.  Later reads and writes fail with ErrCatalogClosed.
	Close() error
}
