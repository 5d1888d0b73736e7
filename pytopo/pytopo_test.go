package pytopo

import (
	"testing"

	"github.com/go-python/gpython/py"
	"github.com/stretchr/testify/require"

	_ "github.com/go-python/gpython/stdlib"
)

func runScript(t *testing.T, src string) error {
	t.Helper()
	ctx := py.NewContext(py.DefaultContextOpts())
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()
	_, err := py.RunSrc(ctx, src, t.Name(), nil)
	if err != nil {
		py.TracebackDump(err)
	}
	return err
}

func TestTetraScript(t *testing.T) {
	err := runScript(t, `
import topomap

m = topomap.CMap3()
b = m.AddPyramid(3)
assert m.Phi("phi<1,1,1>", b) == b
ends = m.Phi("phi<1>; phi<-1>", b)
assert ends[0] == m.Phi("phi<-1,-1>", b)
assert ends[1] == m.Phi("phi<1,1>", b)
assert m.Close() == 1
m.IndexCells(topomap.VERTEX)
m.IndexCells(topomap.VOLUME)

v = m.CutEdge(b)
assert m.NumCells("Vertex") == 5
assert m.NumCells("Edge") == 7
assert m.NumCells("Face") == 4
assert m.NumCells("Volume") == 1
assert m.NumCells("Volume", all=True) == 2
assert len(m.Darts()) == m.NumDarts()
m.Check()
`)
	require.NoError(t, err)
}

func TestCatalogScript(t *testing.T) {
	err := runScript(t, `
import topomap

m = topomap.GMap2()
m.AddPyramid(4)
m.IndexCells("Face")

cat = topomap.OpenCatalog()
assert cat.Put("pyramid/4", m)
assert not cat.Put("pyramid/4", m, replace=False)
assert not cat.Put("pyramid/4", m)
assert cat.NumMaps() == 1

g = cat.Get("pyramid/4")
assert g.NumCells("Vertex") == 5
assert g.NumCells("Face") == 5
g.Check()

names = cat.Names("pyramid/")
assert len(names) == 1
assert names[0] == "pyramid/4"
assert len(cat.Names("prism/")) == 0

try:
    cat.Get("prism/3")
    assert False
except KeyError:
    pass
cat.Close()

try:
    cat.Get("pyramid/4")
    assert False
except ValueError:
    pass
`)
	require.NoError(t, err)
}

func TestAssembleScript(t *testing.T) {
	err := runScript(t, `
import topomap

w = topomap.GMap3()
r = w.Assemble([("tetra", (0, 1, 2, 3)), ("tetra", [0, 2, 1, 4])])
assert r[0] == 2
assert r[1] == 6
assert r[2] == 0
assert r[3] == 1
assert w.NumCells("Vertex") == 5
assert w.NumCells("Volume") == 2
w.Check()
`)
	require.NoError(t, err)
}

func TestVolumeScript(t *testing.T) {
	err := runScript(t, `
import topomap

for m in (topomap.CMap3(), topomap.GMap3()):
    a = m.AddPyramid(3)
    b = m.AddPyramid(3)
    m.SewFaces(a, b)
    assert m.Phi("phi<3>", a) == b
    assert m.NumCells("Volume") == 2

    f = m.CutVolume([b, m.Phi("phi<1>", b), m.Phi("phi<1,1>", b)])
    assert m.Phi("phi<3,3>", f) == f
    assert m.NumCells("Volume") == 3
    m.Check()

    side = m.Phi("phi<2>", a)
    assert m.Phi("phi<3>", side) == side
    m.CloseHole(side)
    assert m.Phi("phi<3>", side) != side
    assert m.NumCells("Volume") == 4
    assert m.Close() == 0
    m.Check()
`)
	require.NoError(t, err)
}

func TestSurfaceScript(t *testing.T) {
	err := runScript(t, `
import topomap

m = topomap.CMap2()
b = m.AddPyramid(4)
assert not m.FlipEdge(b)
diag = m.CutFace(b, m.Phi("phi<1,1>", b))
assert m.NumCells("Face") == 6
assert m.FlipEdge(diag)
assert m.NumCells("Edge") == 9
m.Check()
assert m.MergeIncidentFaces(diag)
assert m.NumCells("Face") == 5
m.Check()

c = topomap.CMap1()
f = c.AddFace(4)
c.CollapseEdge(f)
assert c.NumDarts() == 3

g = topomap.GMap1()
f = g.AddFace(3)
g.CollapseEdge(f)
assert g.NumDarts() == 4
g.Check()
`)
	require.NoError(t, err)
}

func TestScriptErrors(t *testing.T) {
	bad := []string{
		"import topomap\ntopomap.CMap2().Close()\n",
		"import topomap\ntopomap.CMap1().AddPyramid(3)\n",
		"import topomap\nm = topomap.CMap2()\nm.AddFace(3)\nm.NumCells(\"Vertex2\")\n",
		"import topomap\nm = topomap.CMap2()\nm.NumCells(\"Corner\")\n",
		"import topomap\nm = topomap.CMap2()\nm.CutEdge(7)\n",
		"import topomap\nm = topomap.CMap2()\nb = m.AddFace(4)\nm.Phi(\"phi<4>\", b)\n",
		"import topomap\nm = topomap.CMap2()\nb = m.AddFace(4)\nm.CutFace(b, b)\n",
		"import topomap\nm = topomap.CMap3()\nm.Assemble([(\"wedge\", (0, 1, 2))])\n",
		"import topomap\ntopomap.OpenCatalog(\"\", topomap.READ_ONLY)\n",
		"import topomap\ntopomap.GMap2().Close()\n",
		"import topomap\nm = topomap.CMap3()\nm.Assemble([(\"tetra\", (0, 1, 2, 1 << 32))])\n",
		"import topomap\nm = topomap.CMap3()\nm.Assemble([(\"tetra\", (0, 1, 2, -1))])\n",
		"import topomap\nm = topomap.CMap2()\nm.CutVolume([1, 2])\n",
		"import topomap\nm = topomap.CMap3()\nb = m.AddPyramid(3)\nm.SewFaces(b, m.Phi(\"phi<1>\", b))\n",
		"import topomap\nm = topomap.CMap3()\nb = m.AddPyramid(3)\nc = m.AddPyramid(4)\nm.SewFaces(b, c)\n",
		"import topomap\nm = topomap.GMap3()\nb = m.AddPyramid(3)\nc = m.AddPyramid(3)\nm.SewFaces(b, c)\nm.SewFaces(b, c)\n",
		"import topomap\nm = topomap.CMap3()\nb = m.AddPyramid(3)\nm.Close()\nm.CloseHole(b)\n",
		"import topomap\nm = topomap.CMap3()\nb = m.AddPyramid(3)\nm.CutVolume([b])\n",
		"import topomap\nm = topomap.CMap3()\nb = m.AddPyramid(3)\nm.CutVolume([b, b])\n",
		"import topomap\nm = topomap.CMap3()\nb = m.AddPyramid(3)\nm.CutVolume([b, m.Phi(\"phi<-1>\", b)])\n",
		"import topomap\nm = topomap.CMap3()\nb = m.AddPyramid(3)\nm.CutVolume([b, m.Phi(\"phi<1>\", b)])\n",
		"import topomap\nm = topomap.CMap2()\nb = m.AddPyramid(3)\nm.CollapseEdge(b)\n",
		"import topomap\nm = topomap.CMap1()\nb = m.AddFace(1)\nm.CollapseEdge(b)\n",
		"import topomap\nm = topomap.CMap3()\nb = m.AddPyramid(3)\nm.FlipEdge(b)\n",
	}
	for _, src := range bad {
		require.Error(t, runScript(t, src), src)
	}
}
