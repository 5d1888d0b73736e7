package topo

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

var cellKindNames = [NumCellKinds]string{
	HalfEdge: "HalfEdge",
	Vertex:   "Vertex",
	Vertex2:  "Vertex2",
	Edge:     "Edge",
	Edge2:    "Edge2",
	Face:     "Face",
	Face2:    "Face2",
	Volume:   "Volume",
	CC:       "CC",
}

func (kind CellKind) String() string {
	if kind < NumCellKinds {
		return cellKindNames[kind]
	}
	return "CellKind?"
}

// ParseCellKind returns the CellKind named by str (case insensitive).
func ParseCellKind(str string) (CellKind, error) {
	for kind, name := range cellKindNames {
		if strings.EqualFold(name, str) {
			return CellKind(kind), nil
		}
	}
	return 0, errors.Wrapf(ErrBadCellKind, "unknown cell kind %q", str)
}

func (enc Encoding) String() string {
	switch enc {
	case Combinatorial:
		return "CMap"
	case Generalized:
		return "GMap"
	}
	return "Encoding?"
}

// VertexOf and friends form a Cell from a representative dart.
func VertexOf(d Dart) Cell   { return Cell{Vertex, d} }
func Vertex2Of(d Dart) Cell  { return Cell{Vertex2, d} }
func EdgeOf(d Dart) Cell     { return Cell{Edge, d} }
func Edge2Of(d Dart) Cell    { return Cell{Edge2, d} }
func FaceOf(d Dart) Cell     { return Cell{Face, d} }
func Face2Of(d Dart) Cell    { return Cell{Face2, d} }
func VolumeOf(d Dart) Cell   { return Cell{Volume, d} }
func HalfEdgeOf(d Dart) Cell { return Cell{HalfEdge, d} }

func (c Cell) IsNil() bool {
	return c.Dart == NilDart
}

// NewCatalogContext returns an empty CatalogContext.
func NewCatalogContext() CatalogContext {
	return &catalogSet{
		open: make(map[Catalog]struct{}),
		done: make(chan struct{}),
	}
}

// catalogSet tracks the catalogs opened in it.  Once shut, it refuses new catalogs and
// signals done as soon as the last open one detaches.
type catalogSet struct {
	mu   sync.Mutex
	open map[Catalog]struct{}
	shut bool
	done chan struct{}
}

func (set *catalogSet) AttachCatalog(cat Catalog) error {
	set.mu.Lock()
	defer set.mu.Unlock()
	if set.shut {
		return errors.Wrap(ErrCatalogClosed, "catalog context is closed")
	}
	set.open[cat] = struct{}{}
	return nil
}

func (set *catalogSet) DetachCatalog(cat Catalog) {
	set.mu.Lock()
	defer set.mu.Unlock()
	if _, attached := set.open[cat]; !attached {
		return
	}
	delete(set.open, cat)
	if set.shut && len(set.open) == 0 {
		close(set.done)
	}
}

func (set *catalogSet) Done() <-chan struct{} {
	return set.done
}

// Close closes every attached catalog in turn; the first error is returned, the rest are logged.
func (set *catalogSet) Close() error {
	set.mu.Lock()
	if set.shut {
		set.mu.Unlock()
		return nil
	}
	set.shut = true
	cats := make([]Catalog, 0, len(set.open))
	for cat := range set.open {
		cats = append(cats, cat)
	}
	if len(cats) == 0 {
		close(set.done)
	}
	set.mu.Unlock()

	var err error
	for _, cat := range cats {
		if closeErr := cat.Close(); closeErr != nil {
			if err == nil {
				err = closeErr
			} else {
				klog.Warningf("closing catalog: %v", closeErr)
			}
		}
		// a catalog that failed to close must not hold up Done
		set.DetachCatalog(cat)
	}
	return err
}
