// Package pytopo registers the gpython module "topomap", which exposes map construction,
// editing, traversal and catalogs to scripts.
package pytopo

import (
	"fmt"
	"strings"

	"github.com/go-python/gpython/py"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/2x3systems/topomap/libtopo/assemble"
	"github.com/2x3systems/topomap/libtopo/catalog"
	"github.com/2x3systems/topomap/libtopo/maps"
	"github.com/2x3systems/topomap/libtopo/phiexpr"
	"github.com/2x3systems/topomap/topo"
)

var (
	LIB_VERSION = "v1.2024.1"
)

var (
	pyMapType       = py.NewType("Map", "a combinatorial or generalized map of dimension 1, 2 or 3")
	pyCatalogType   = py.NewType("Catalog", "a named store of map snapshots")
	pyWorkspaceType = py.NewType("Workspace", "collects active session resources and catalogs")
)

const (
	READ_ONLY = 0x01

	kWorkspaceAttr = "_Workspace"

	// maxVertexID bounds the vertex ids of a soup; the assembler allocates per id.
	maxVertexID = 1 << 24
)

// mapObj is the method set shared by every map variant.
type mapObj interface {
	maps.Snapshotter
	NumSlots() int
	IsLive(d topo.Dart) bool
	NumAllCells(kind topo.CellKind) int
	IndexCells(kind topo.CellKind)
}

type pyMap struct {
	mapObj
}

func wrapMap(m topo.Mesh) pyMap {
	return pyMap{m.(mapObj)}
}

func (X pyMap) Type() *py.Type {
	return pyMapType
}

func (X pyMap) M__str__() (py.Object, error) {
	return py.String(fmt.Sprint(X.mapObj)), nil
}

func (X pyMap) M__repr__() (py.Object, error) {
	return X.M__str__()
}

func newMapFunc(enc topo.Encoding, dim int) func(module py.Object, args py.Tuple) (py.Object, error) {
	return func(module py.Object, args py.Tuple) (py.Object, error) {
		mesh, err := maps.New(enc, dim)
		if err != nil {
			return nil, py.ExceptionNewf(py.ValueError, "%v", err)
		}
		return wrapMap(mesh), nil
	}
}

func getMap(obj py.Object) (pyMap, error) {
	X, ok := obj.(pyMap)
	if !ok {
		return X, py.ExceptionNewf(py.TypeError, "expected Map object (got %v)", obj.Type().Name)
	}
	return X, nil
}

func getCellKind(obj py.Object) (topo.CellKind, error) {
	str, ok := obj.(py.String)
	if !ok {
		return 0, py.ExceptionNewf(py.TypeError, "expected cell kind name (got %v)", obj.Type().Name)
	}
	kind, err := topo.ParseCellKind(string(str))
	if err != nil {
		return 0, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return kind, nil
}

// getDart reads a dart argument and checks that it is live in X.
func getDart(X pyMap, obj py.Object) (topo.Dart, error) {
	i, err := py.GetInt(obj)
	if err != nil {
		return topo.NilDart, err
	}
	d := topo.Dart(i)
	if i <= 0 || int(i) >= X.NumSlots() || !X.IsLive(d) {
		return topo.NilDart, py.ExceptionNewf(py.IndexError, "dart %d is not live in %v", i, X.mapObj)
	}
	return d, nil
}

func unsupported(X pyMap, op string) error {
	return py.ExceptionNewf(py.AttributeError, "%s is not available on %v", op, X.mapObj)
}

func checkArgs(args py.Tuple, n int, op string) error {
	if len(args) != n {
		return py.ExceptionNewf(py.TypeError, "%s takes %d arguments (%d given)", op, n, len(args))
	}
	return nil
}

func getCount(obj py.Object, min int) (int, error) {
	n, err := py.GetInt(obj)
	if err != nil {
		return 0, err
	}
	if int(n) < min {
		return 0, py.ExceptionNewf(py.ValueError, "expected a count of at least %d (got %d)", min, n)
	}
	return int(n), nil
}

func py_Map_AddFace(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	adder, ok := X.mapObj.(interface{ AddFace(n int) topo.Cell })
	if !ok {
		return nil, unsupported(X, "AddFace")
	}
	if err := checkArgs(args, 1, "AddFace"); err != nil {
		return nil, err
	}
	n, err := getCount(args[0], 1)
	if err != nil {
		return nil, err
	}
	return py.Int(adder.AddFace(n).Dart), nil
}

func py_Map_AddPyramid(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	adder, ok := X.mapObj.(interface{ AddPyramid(n int) topo.Cell })
	if !ok {
		return nil, unsupported(X, "AddPyramid")
	}
	if err := checkArgs(args, 1, "AddPyramid"); err != nil {
		return nil, err
	}
	n, err := getCount(args[0], 3)
	if err != nil {
		return nil, err
	}
	return py.Int(adder.AddPyramid(n).Dart), nil
}

func py_Map_AddPrism(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	adder, ok := X.mapObj.(interface{ AddPrism(n int) topo.Cell })
	if !ok {
		return nil, unsupported(X, "AddPrism")
	}
	if err := checkArgs(args, 1, "AddPrism"); err != nil {
		return nil, err
	}
	n, err := getCount(args[0], 3)
	if err != nil {
		return nil, err
	}
	return py.Int(adder.AddPrism(n).Dart), nil
}

func py_Map_CutEdge(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	cutter, ok := X.mapObj.(interface{ CutEdge(e topo.Cell) topo.Cell })
	if !ok {
		return nil, unsupported(X, "CutEdge")
	}
	if err := checkArgs(args, 1, "CutEdge"); err != nil {
		return nil, err
	}
	d, err := getDart(X, args[0])
	if err != nil {
		return nil, err
	}
	return py.Int(cutter.CutEdge(topo.EdgeOf(d)).Dart), nil
}

func py_Map_CutFace(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	cutter, ok := X.mapObj.(interface{ CutFace(v1, v2 topo.Cell) topo.Cell })
	if !ok {
		return nil, unsupported(X, "CutFace")
	}
	if err := checkArgs(args, 2, "CutFace"); err != nil {
		return nil, err
	}
	d1, err := getDart(X, args[0])
	if err != nil {
		return nil, err
	}
	d2, err := getDart(X, args[1])
	if err != nil {
		return nil, err
	}
	if !sameFace(X, d1, d2) {
		return nil, py.ExceptionNewf(py.ValueError, "darts %d and %d are not distinct corners of one face", d1, d2)
	}
	return py.Int(cutter.CutFace(topo.VertexOf(d1), topo.VertexOf(d2)).Dart), nil
}

func sameFace(X pyMap, d1, d2 topo.Dart) bool {
	for d := X.Phi(d1, 1); d != d1; d = X.Phi(d, 1) {
		if d == d2 {
			return true
		}
	}
	return false
}

// volumeOps is implemented by CMap3 and GMap3 only.
type volumeOps interface {
	Close() int
	CloseHole(d topo.Dart) topo.Cell
	CutVolume(path []topo.Dart) topo.Cell
	SewFaces(d, e topo.Dart) error
	Phi2(d topo.Dart) topo.Dart
	Phi3(d topo.Dart) topo.Dart
}

func getVolumeOps(X pyMap, op string) (volumeOps, error) {
	vol, ok := X.mapObj.(volumeOps)
	if !ok || X.Dim() != 3 {
		return nil, unsupported(X, op)
	}
	return vol, nil
}

func py_Map_Close(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	vol, err := getVolumeOps(X, "Close")
	if err != nil {
		return nil, err
	}
	return py.Int(vol.Close()), nil
}

func py_Map_CloseHole(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	vol, err := getVolumeOps(X, "CloseHole")
	if err != nil {
		return nil, err
	}
	if err = checkArgs(args, 1, "CloseHole"); err != nil {
		return nil, err
	}
	d, err := getDart(X, args[0])
	if err != nil {
		return nil, err
	}
	if vol.Phi3(d) != d {
		return nil, py.ExceptionNewf(py.ValueError, "dart %d is not on a hole", d)
	}
	return py.Int(vol.CloseHole(d).Dart), nil
}

func py_Map_SewFaces(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	vol, err := getVolumeOps(X, "SewFaces")
	if err != nil {
		return nil, err
	}
	if err = checkArgs(args, 2, "SewFaces"); err != nil {
		return nil, err
	}
	d, err := getDart(X, args[0])
	if err != nil {
		return nil, err
	}
	e, err := getDart(X, args[1])
	if err != nil {
		return nil, err
	}
	for fd := range X.Orbit(topo.Face2Of(d)) {
		if fd == e {
			return nil, py.ExceptionNewf(py.ValueError, "darts %d and %d lie on one face", d, e)
		}
	}
	if err = vol.SewFaces(d, e); err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.None, nil
}

// CutVolume(path) takes a closed cycle of sewn darts of one volume, each ending where the next starts.
func py_Map_CutVolume(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	vol, err := getVolumeOps(X, "CutVolume")
	if err != nil {
		return nil, err
	}
	if err = checkArgs(args, 1, "CutVolume"); err != nil {
		return nil, err
	}
	items, err := sequenceItems(args[0])
	if err != nil {
		return nil, err
	}
	if len(items) < 2 {
		return nil, py.ExceptionNewf(py.ValueError, "a cut path needs at least 2 darts (got %d)", len(items))
	}

	path := make([]topo.Dart, len(items))
	for i, item := range items {
		if path[i], err = getDart(X, item); err != nil {
			return nil, err
		}
		if vol.Phi2(path[i]) == path[i] {
			return nil, py.ExceptionNewf(py.ValueError, "dart %d is on an open edge", path[i])
		}
	}

	inVolume := make(map[topo.Dart]bool)
	for d := range X.Orbit(topo.VolumeOf(path[0])) {
		inVolume[d] = true
	}
	seen := make(map[topo.Dart]bool, len(path))
	for i, d := range path {
		if !inVolume[d] || seen[d] {
			return nil, py.ExceptionNewf(py.ValueError, "dart %d is repeated or outside the volume of the path", d)
		}
		seen[d] = true
		next := path[(i+1)%len(path)]
		if !inVertex2(X, X.Phi(d, 1), next) {
			return nil, py.ExceptionNewf(py.ValueError, "dart %d does not end where dart %d starts", d, next)
		}
	}
	return py.Int(vol.CutVolume(path).Dart), nil
}

// inVertex2 reports if e starts at the vertex of d within d's volume.
func inVertex2(X pyMap, d, e topo.Dart) bool {
	for vd := range X.Orbit(topo.Vertex2Of(d)) {
		if vd == e {
			return true
		}
	}
	return false
}

// surfaceOps is implemented by CMap2.
type surfaceOps interface {
	EdgeCanFlip(e topo.Cell) bool
	FlipEdge(e topo.Cell) bool
	EdgeCanCollapse(e topo.Cell) bool
	MergeIncidentFaces(e topo.Cell) bool
}

// FlipEdge(dart) rotates the edge of dart if it can be flipped and reports if it did.
func py_Map_FlipEdge(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	surf, ok := X.mapObj.(surfaceOps)
	if !ok {
		return nil, unsupported(X, "FlipEdge")
	}
	if err := checkArgs(args, 1, "FlipEdge"); err != nil {
		return nil, err
	}
	d, err := getDart(X, args[0])
	if err != nil {
		return nil, err
	}
	e := topo.EdgeOf(d)
	return py.NewBool(surf.EdgeCanFlip(e) && surf.FlipEdge(e)), nil
}

func py_Map_MergeIncidentFaces(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	surf, ok := X.mapObj.(surfaceOps)
	if !ok {
		return nil, unsupported(X, "MergeIncidentFaces")
	}
	if err := checkArgs(args, 1, "MergeIncidentFaces"); err != nil {
		return nil, err
	}
	d, err := getDart(X, args[0])
	if err != nil {
		return nil, err
	}
	return py.NewBool(surf.MergeIncidentFaces(topo.EdgeOf(d))), nil
}

// CollapseEdge(dart) contracts the edge of dart and returns a dart of the merged vertex.
func py_Map_CollapseEdge(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	collapser, ok := X.mapObj.(interface{ CollapseEdge(e topo.Cell) topo.Cell })
	if !ok {
		return nil, unsupported(X, "CollapseEdge")
	}
	if err := checkArgs(args, 1, "CollapseEdge"); err != nil {
		return nil, err
	}
	d, err := getDart(X, args[0])
	if err != nil {
		return nil, err
	}
	e := topo.EdgeOf(d)

	canCollapse := X.Phi(d, 1) != d
	if surf, isSurface := X.mapObj.(surfaceOps); isSurface {
		canCollapse = surf.EdgeCanCollapse(e)
	} else if bm, isGMap := X.mapObj.(phiexpr.BetaMesh); isGMap {
		d0 := bm.Beta(0, d)
		canCollapse = canCollapse && bm.Beta(1, d) != d && bm.Beta(1, d0) != d0
	}
	if !canCollapse {
		return nil, py.ExceptionNewf(py.ValueError, "edge of dart %d cannot be collapsed", d)
	}
	return py.Int(collapser.CollapseEdge(e).Dart), nil
}

func py_Map_NumDarts(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	return py.Int(X.NumDarts()), nil
}

func py_Map_Darts(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	darts := make(py.Tuple, 0, X.NumDarts())
	for d := range X.Darts() {
		darts = append(darts, py.Int(d))
	}
	return darts, nil
}

func checkKind(X pyMap, args py.Tuple, op string) (topo.CellKind, error) {
	if err := checkArgs(args, 1, op); err != nil {
		return 0, err
	}
	kind, err := getCellKind(args[0])
	if err != nil {
		return 0, err
	}
	if !X.Supports(kind) {
		return 0, py.ExceptionNewf(py.ValueError, "%v has no %v cells", X.mapObj, kind)
	}
	return kind, nil
}

// NumCells(kind, all=False): with all set, boundary cells are counted too.
func py_Map_NumCells(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	X := self.(pyMap)
	kind, err := checkKind(X, args, "NumCells")
	if err != nil {
		return nil, err
	}
	all := false
	if obj, ok := kwargs["all"]; ok {
		all = obj == py.True
	}
	if all {
		return py.Int(X.NumAllCells(kind)), nil
	}
	return py.Int(X.NumCells(kind)), nil
}

func py_Map_IndexCells(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	kind, err := checkKind(X, args, "IndexCells")
	if err != nil {
		return nil, err
	}
	X.IndexCells(kind)
	return py.None, nil
}

// Phi(expr, dart) returns the dart reached by each path of expr: a single int for a single path, else a tuple.
func py_Map_Phi(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	if err := checkArgs(args, 2, "Phi"); err != nil {
		return nil, err
	}
	exprStr, ok := args[0].(py.String)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected relation path (got %v)", args[0].Type().Name)
	}
	d, err := getDart(X, args[1])
	if err != nil {
		return nil, err
	}
	expr, err := phiexpr.Parse(string(exprStr))
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	darts, err := expr.Apply(X.mapObj, d)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	if len(darts) == 1 {
		return py.Int(darts[0]), nil
	}
	out := make(py.Tuple, len(darts))
	for i, di := range darts {
		out[i] = py.Int(di)
	}
	return out, nil
}

func py_Map_Check(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	if err := X.CheckIntegrity(); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.None, nil
}

// Assemble(soup) builds X from a sequence of (shape, vertex ids) pairs; X must be an empty 3-map.
// Returns (volumes, boundary_faces, mismatches, holes).
func py_Map_Assemble(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyMap)
	target, ok := X.mapObj.(assemble.Target)
	if !ok {
		return nil, unsupported(X, "Assemble")
	}
	if err := checkArgs(args, 1, "Assemble"); err != nil {
		return nil, err
	}
	soup, err := exportSoup(args[0])
	if err != nil {
		return nil, err
	}
	report, err := assemble.Assemble(target, soup)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.Tuple{
		py.Int(report.Volumes),
		py.Int(report.BoundaryFaces),
		py.Int(report.Mismatches),
		py.Int(report.Holes),
	}, nil
}

func sequenceItems(obj py.Object) ([]py.Object, error) {
	switch seq := obj.(type) {
	case py.Tuple:
		return seq, nil
	case *py.List:
		return seq.Items, nil
	}
	return nil, py.ExceptionNewf(py.TypeError, "expected tuple or list (got %v)", obj.Type().Name)
}

func exportSoup(obj py.Object) (*assemble.Soup, error) {
	items, err := sequenceItems(obj)
	if err != nil {
		return nil, err
	}
	soup := &assemble.Soup{}
	for _, item := range items {
		pair, err := sequenceItems(item)
		if err != nil {
			return nil, err
		}
		if len(pair) != 2 {
			return nil, py.ExceptionNewf(py.ValueError, "expected (shape, vertices) (got %d items)", len(pair))
		}
		shapeName, ok := pair[0].(py.String)
		if !ok {
			return nil, py.ExceptionNewf(py.TypeError, "expected shape name (got %v)", pair[0].Type().Name)
		}
		shape, err := assemble.ParseShape(string(shapeName))
		if err != nil {
			return nil, py.ExceptionNewf(py.ValueError, "%v", err)
		}
		ids, err := sequenceItems(pair[1])
		if err != nil {
			return nil, err
		}
		vol := assemble.Volume{Shape: shape}
		for _, idObj := range ids {
			vid, err := py.GetInt(idObj)
			if err != nil {
				return nil, err
			}
			if vid < 0 || vid >= maxVertexID {
				return nil, py.ExceptionNewf(py.ValueError, "vertex id %d out of range [0, %d)", vid, maxVertexID)
			}
			vol.Vertices = append(vol.Vertices, uint32(vid))
			if int(vid) >= soup.NumVertices {
				soup.NumVertices = int(vid) + 1
			}
		}
		soup.Volumes = append(soup.Volumes, vol)
	}
	return soup, nil
}

type Workspace struct {
	CatalogCtx topo.CatalogContext
}

func (ws *Workspace) Close() {
	if err := ws.CatalogCtx.Close(); err != nil {
		klog.Warningf("closing workspace catalogs: %v", err)
	}
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func getWorkspace(module py.Object) *Workspace {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		wsObj = &Workspace{
			CatalogCtx: topo.NewCatalogContext(),
		}
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj.(*Workspace)
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	return getWorkspace(module), nil
}

// OpenCatalog(pathname="", flags=0); an empty pathname opens an in-memory catalog.
func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	return openCatalog(self.(*Workspace), args)
}

func py_OpenCatalog(module py.Object, args py.Tuple) (py.Object, error) {
	return openCatalog(getWorkspace(module), args)
}

func openCatalog(ws *Workspace, args py.Tuple) (py.Object, error) {
	var pathname string
	var flags int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags})
	if err != nil {
		return nil, err
	}

	opts := topo.CatalogOpts{
		ReadOnly:   (flags & READ_ONLY) != 0,
		DbPathName: pathname,
	}
	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return pyCatalog{cat}, nil
}

type pyCatalog struct {
	topo.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if err := cat.Close(); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.None, nil
}

func py_Catalog_NumMaps(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	return py.Int(cat.NumMaps()), nil
}

func catalogError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, topo.ErrReadOnly):
		return py.ExceptionNewf(py.PermissionError, "%v", err)
	case errors.Is(err, topo.ErrMapNotFound):
		return py.ExceptionNewf(py.KeyError, "%v", err)
	case errors.Is(err, topo.ErrCatalogClosed):
		return py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.ExceptionNewf(py.RuntimeError, "%v", err)
}

// Put(name, map, replace=True) stores a snapshot of map and returns True if name was new.
func py_Catalog_Put(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	cat := self.(pyCatalog)
	if err := checkArgs(args, 2, "Put"); err != nil {
		return nil, err
	}
	name, ok := args[0].(py.String)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected map name (got %v)", args[0].Type().Name)
	}
	X, err := getMap(args[1])
	if err != nil {
		return nil, err
	}

	replace := true
	if obj, ok := kwargs["replace"]; ok {
		replace = obj == py.True
	}
	st := X.ExportState()
	if !replace {
		added, err := cat.TryAddMap(string(name), st)
		if err != nil {
			return nil, catalogError(err)
		}
		return py.NewBool(added), nil
	}

	_, err = cat.GetMap(string(name))
	isNew := errors.Is(err, topo.ErrMapNotFound)
	if err = cat.PutMap(string(name), st); err != nil {
		return nil, catalogError(err)
	}
	return py.NewBool(isNew), nil
}

func py_Catalog_Get(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	var name string
	if err := py.LoadTuple(args, []interface{}{&name}); err != nil {
		return nil, err
	}
	st, err := cat.GetMap(name)
	if err != nil {
		return nil, catalogError(err)
	}
	m, err := maps.FromState(st)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "map %q: %v", name, err)
	}
	return wrapMap(m), nil
}

// Names(prefix="") lists stored map names in order.
func py_Catalog_Names(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	var prefix string
	if err := py.LoadTuple(args, []interface{}{&prefix}); err != nil {
		return nil, err
	}

	onHit := make(chan topo.MapHit)
	errs := make(chan error, 1)
	go func() {
		errs <- cat.Select(prefix, onHit)
		close(onHit)
	}()

	names := py.NewList()
	for hit := range onHit {
		names.Append(py.String(hit.Name))
	}
	if err := <-errs; err != nil {
		return nil, catalogError(err)
	}
	return names, nil
}

func init() {

	/////////////////////////////////
	// Map
	{
		pyMapType.Dict["AddFace"] = py.MustNewMethod("AddFace", py_Map_AddFace, 0, "adds an isolated n-gon and returns one of its darts")
		pyMapType.Dict["AddPyramid"] = py.MustNewMethod("AddPyramid", py_Map_AddPyramid, 0, "adds a pyramid over an n-gon and returns a dart of its base")
		pyMapType.Dict["AddPrism"] = py.MustNewMethod("AddPrism", py_Map_AddPrism, 0, "adds a prism over an n-gon and returns a dart of its base")
		pyMapType.Dict["CutEdge"] = py.MustNewMethod("CutEdge", py_Map_CutEdge, 0, "inserts a vertex on the edge of the given dart")
		pyMapType.Dict["CutFace"] = py.MustNewMethod("CutFace", py_Map_CutFace, 0, "splits a face between the vertices of two of its darts")
		pyMapType.Dict["Close"] = py.MustNewMethod("Close", py_Map_Close, 0, "closes every hole with boundary cells and returns the number closed")
		pyMapType.Dict["CloseHole"] = py.MustNewMethod("CloseHole", py_Map_CloseHole, 0, "caps the hole through a dart with a new volume and returns a dart of it")
		pyMapType.Dict["SewFaces"] = py.MustNewMethod("SewFaces", py_Map_SewFaces, 0, "glues two open faces of equal degree")
		pyMapType.Dict["CutVolume"] = py.MustNewMethod("CutVolume", py_Map_CutVolume, 0, "splits a volume along a closed path of darts and returns a dart of the new face")
		pyMapType.Dict["FlipEdge"] = py.MustNewMethod("FlipEdge", py_Map_FlipEdge, 0, "")
		pyMapType.Dict["MergeIncidentFaces"] = py.MustNewMethod("MergeIncidentFaces", py_Map_MergeIncidentFaces, 0, "removes an edge, merging its two faces")
		pyMapType.Dict["CollapseEdge"] = py.MustNewMethod("CollapseEdge", py_Map_CollapseEdge, 0, "")
		pyMapType.Dict["NumDarts"] = py.MustNewMethod("NumDarts", py_Map_NumDarts, 0, "")
		pyMapType.Dict["Darts"] = py.MustNewMethod("Darts", py_Map_Darts, 0, "")
		pyMapType.Dict["NumCells"] = py.MustNewMethod("NumCells", py_Map_NumCells, 0, "counts the cells of a kind; all=True includes boundary cells")
		pyMapType.Dict["IndexCells"] = py.MustNewMethod("IndexCells", py_Map_IndexCells, 0, "")
		pyMapType.Dict["Phi"] = py.MustNewMethod("Phi", py_Map_Phi, 0, "walks a relation path such as 'phi<1,2>' from a dart")
		pyMapType.Dict["Check"] = py.MustNewMethod("Check", py_Map_Check, 0, "raises RuntimeError if the map fails its integrity check")
		pyMapType.Dict["Assemble"] = py.MustNewMethod("Assemble", py_Map_Assemble, 0, "builds the map from a volume soup")
	}

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["Put"] = py.MustNewMethod("Put", py_Catalog_Put, 0, "")
		pyCatalogType.Dict["Get"] = py.MustNewMethod("Get", py_Catalog_Get, 0, "")
		pyCatalogType.Dict["Names"] = py.MustNewMethod("Names", py_Catalog_Names, 0, "")
		pyCatalogType.Dict["NumMaps"] = py.MustNewMethod("NumMaps", py_Catalog_NumMaps, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("CMap1", newMapFunc(topo.Combinatorial, 1), 0, ""),
			py.MustNewMethod("CMap2", newMapFunc(topo.Combinatorial, 2), 0, ""),
			py.MustNewMethod("CMap3", newMapFunc(topo.Combinatorial, 3), 0, ""),
			py.MustNewMethod("GMap1", newMapFunc(topo.Generalized, 1), 0, ""),
			py.MustNewMethod("GMap2", newMapFunc(topo.Generalized, 2), 0, ""),
			py.MustNewMethod("GMap3", newMapFunc(topo.Generalized, 3), 0, ""),
			py.MustNewMethod("OpenCatalog", py_OpenCatalog, 0, "opens a catalog in the session workspace"),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"READ_ONLY":   py.Int(READ_ONLY),

			// set by the host before a script runs
			"CATALOG_PATH":  py.String(""),
			"CATALOG_FLAGS": py.Int(0),
		}
		for kind := topo.CellKind(0); kind < topo.NumCellKinds; kind++ {
			globals[strings.ToUpper(kind.String())] = py.String(kind.String())
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "topomap",
				Doc:  "combinatorial and generalized maps",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}
