package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"

	"github.com/2x3systems/topomap/libtopo/catalog"
	"github.com/2x3systems/topomap/libtopo/maps"
	"github.com/2x3systems/topomap/topo"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "cut a tetrahedron and print its cell counts",
	Long: `Builds a closed tetrahedron in a CMap3 and a GMap3, inserts a vertex on one edge
and splits both faces incident to that edge.  If a writable catalog is configured,
the results are stored under "demo/tetra/<map>".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(cmd.OutOrStdout(), gConfig)
	},
}

type demoMap interface {
	maps.Snapshotter
	maps.Attributed
	AddPyramid(n int) topo.Cell
	CutEdge(e topo.Cell) topo.Cell
	CutFace(v1, v2 topo.Cell) topo.Cell
	Close() int
	NumAllCells(kind topo.CellKind) int
	Degree(v topo.Cell) int
}

var demoKinds = []topo.CellKind{topo.Vertex, topo.Edge, topo.Face, topo.Volume}

// cutTetra builds the demo map in m and returns the vertex inserted on the cut edge.
func cutTetra(m demoMap) (topo.Cell, error) {
	tet := m.AddPyramid(3)
	m.Close()
	m.IndexCells(topo.Vertex)
	m.IndexCells(topo.Volume)

	pos, err := maps.AddAttribute[[3]float64](m, topo.Vertex, "position")
	if err != nil {
		return topo.Cell{}, err
	}
	defer pos.Release()

	corners := [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	i := 0
	for v := range m.Cells(topo.Vertex) {
		*maps.Value(m, pos, v) = corners[i]
		i++
	}

	v := m.CutEdge(topo.EdgeOf(tet.Dart))
	m.CutFace(v, topo.VertexOf(m.Phi(v.Dart, 1, 1)))
	other := m.Phi(v.Dart, 2, 1)
	m.CutFace(topo.VertexOf(other), topo.VertexOf(m.Phi(other, 1, 1)))

	if err := m.CheckIntegrity(); err != nil {
		return v, errors.Wrap(err, "demo map")
	}
	return v, nil
}

func runDemo(out io.Writer, cfg *Config) error {
	var store topo.Catalog
	if len(cfg.Catalog.Path) > 0 && !cfg.Catalog.ReadOnly {
		ctx := topo.NewCatalogContext()
		defer func() {
			ctx.Close()
			<-ctx.Done()
		}()
		var err error
		if store, err = catalog.OpenCatalog(ctx, topo.CatalogOpts{DbPathName: cfg.Catalog.Path}); err != nil {
			return err
		}
		defer store.Close()
	}

	fmt.Fprintf(out, "%-8s", "")
	for _, kind := range demoKinds {
		fmt.Fprintf(out, "%8v", kind)
	}
	fmt.Fprintf(out, "%8s\n", "Darts")

	for _, m := range []demoMap{maps.NewCMap3(), maps.NewGMap3()} {
		v, err := cutTetra(m)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%v%d", m.Encoding(), m.Dim())
		fmt.Fprintf(out, "%-8s", name)
		for _, kind := range demoKinds {
			fmt.Fprintf(out, "%8d", m.NumAllCells(kind))
		}
		fmt.Fprintf(out, "%8d\n", m.NumDarts())
		klog.V(1).Infof("%s: inserted vertex has degree %d", name, m.Degree(v))

		if store != nil {
			if err := store.PutMap("demo/tetra/"+name, m.ExportState()); err != nil {
				return err
			}
		}
	}
	return nil
}
