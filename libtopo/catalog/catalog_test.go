package catalog_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/2x3systems/topomap/libtopo/catalog"
	"github.com/2x3systems/topomap/libtopo/maps"
	"github.com/2x3systems/topomap/topo"
)

func pyramidState(n int) *topo.MapState {
	m := maps.NewCMap2()
	m.AddPyramid(n)
	m.IndexCells(topo.Vertex)
	return m.ExportState()
}

func prismState(n int) *topo.MapState {
	m := maps.NewGMap3()
	m.AddPrism(n)
	m.Close()
	m.IndexCells(topo.Volume)
	return m.ExportState()
}

func selectAll(t *testing.T, cat topo.Catalog, prefix string) []topo.MapHit {
	onHit := make(chan topo.MapHit)
	errs := make(chan error, 1)
	go func() {
		errs <- cat.Select(prefix, onHit)
		close(onHit)
	}()

	var hits []topo.MapHit
	for hit := range onHit {
		hits = append(hits, hit)
	}
	require.NoError(t, <-errs)
	return hits
}

func TestInMemory(t *testing.T) {
	ctx := topo.NewCatalogContext()
	defer ctx.Close()

	cat, err := catalog.OpenCatalog(ctx, topo.CatalogOpts{})
	require.NoError(t, err)
	defer cat.Close()
	require.False(t, cat.IsReadOnly())

	names := []string{"pyramid/4", "pyramid/3", "prism/5", "pyramid/6"}
	states := map[string]*topo.MapState{
		"pyramid/3": pyramidState(3),
		"pyramid/4": pyramidState(4),
		"pyramid/6": pyramidState(6),
		"prism/5":   prismState(5),
	}
	for _, name := range names {
		added, err := cat.TryAddMap(name, states[name])
		require.NoError(t, err)
		require.True(t, added)

		added, err = cat.TryAddMap(name, pyramidState(7))
		require.NoError(t, err)
		require.False(t, added, "an existing name is never replaced by TryAddMap")
	}
	require.Equal(t, int64(4), cat.NumMaps())

	got, err := cat.GetMap("prism/5")
	require.NoError(t, err)
	if diff := cmp.Diff(states["prism/5"], got); diff != "" {
		t.Fatalf("stored state mismatch (-want +got):\n%s", diff)
	}
	m, err := maps.FromState(got)
	require.NoError(t, err)
	volumes := 0
	for range m.AllCells(topo.Volume) {
		volumes++
	}
	require.Equal(t, 2, volumes)

	_, err = cat.GetMap("prism/6")
	require.ErrorIs(t, err, topo.ErrMapNotFound)

	hits := selectAll(t, cat, "pyramid/")
	require.Len(t, hits, 3)
	for i, want := range []string{"pyramid/3", "pyramid/4", "pyramid/6"} {
		require.Equal(t, want, hits[i].Name)
		require.Empty(t, cmp.Diff(states[want], hits[i].State))
	}
	require.Len(t, selectAll(t, cat, ""), 4)

	require.NoError(t, cat.PutMap("pyramid/3", states["pyramid/6"]))
	require.Equal(t, int64(4), cat.NumMaps())
	got, err = cat.GetMap("pyramid/3")
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(states["pyramid/6"], got))

	_, err = cat.TryAddMap("", states["pyramid/3"])
	require.ErrorIs(t, err, topo.ErrBadCatalogParam)
}

func TestReopen(t *testing.T) {
	ctx := topo.NewCatalogContext()
	defer ctx.Close()

	opts := topo.CatalogOpts{
		DbPathName: filepath.Join(t.TempDir(), "TestReopen"),
	}
	cat, err := catalog.OpenCatalog(ctx, opts)
	require.NoError(t, err)
	require.NoError(t, cat.PutMap("a", pyramidState(3)))
	require.NoError(t, cat.PutMap("b", prismState(4)))
	require.NoError(t, cat.Close())
	require.NoError(t, cat.Close())

	opts.ReadOnly = true
	cat, err = catalog.OpenCatalog(ctx, opts)
	require.NoError(t, err)
	defer cat.Close()

	require.True(t, cat.IsReadOnly())
	require.Equal(t, int64(2), cat.NumMaps())
	_, err = cat.TryAddMap("c", pyramidState(3))
	require.ErrorIs(t, err, topo.ErrReadOnly)
	require.ErrorIs(t, cat.PutMap("a", pyramidState(3)), topo.ErrReadOnly)

	for _, hit := range selectAll(t, cat, "") {
		m, err := maps.FromState(hit.State)
		require.NoError(t, err, hit.Name)
		require.NoError(t, m.CheckIntegrity())
	}
}

func TestReadOnlyNeedsPath(t *testing.T) {
	ctx := topo.NewCatalogContext()
	defer ctx.Close()

	_, err := catalog.OpenCatalog(ctx, topo.CatalogOpts{ReadOnly: true})
	require.ErrorIs(t, err, topo.ErrBadCatalogParam)
}

func TestContextClosesCatalogs(t *testing.T) {
	ctx := topo.NewCatalogContext()
	for i := 0; i < 2; i++ {
		_, err := catalog.OpenCatalog(ctx, topo.CatalogOpts{})
		require.NoError(t, err)
	}
	require.NoError(t, ctx.Close())
	<-ctx.Done()
}

func TestClosedCatalog(t *testing.T) {
	ctx := topo.NewCatalogContext()
	cat, err := catalog.OpenCatalog(ctx, topo.CatalogOpts{})
	require.NoError(t, err)
	require.NoError(t, cat.PutMap("a", pyramidState(3)))

	onHit := make(chan topo.MapHit)
	selErr := make(chan error, 1)
	go func() {
		selErr <- cat.Select("", onHit)
	}()
	hit := <-onHit
	require.Equal(t, "a", hit.Name)
	require.NoError(t, <-selErr)

	require.NoError(t, cat.Close())
	require.Equal(t, int64(1), cat.NumMaps())

	_, err = cat.GetMap("a")
	require.ErrorIs(t, err, topo.ErrCatalogClosed)
	require.ErrorIs(t, cat.Select("", onHit), topo.ErrCatalogClosed)
	require.ErrorIs(t, cat.PutMap("b", pyramidState(4)), topo.ErrCatalogClosed)
	_, err = cat.TryAddMap("b", pyramidState(4))
	require.ErrorIs(t, err, topo.ErrCatalogClosed)

	require.NoError(t, ctx.Close())
	<-ctx.Done()
	_, err = catalog.OpenCatalog(ctx, topo.CatalogOpts{})
	require.ErrorIs(t, err, topo.ErrCatalogClosed)
}
