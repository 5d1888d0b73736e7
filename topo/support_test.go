package topo

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type nopCatalog struct {
	ctx    CatalogContext
	closed chan struct{}
	err    error
}

func (cat *nopCatalog) IsReadOnly() bool                          { return true }
func (cat *nopCatalog) NumMaps() int64                            { return 0 }
func (cat *nopCatalog) TryAddMap(string, *MapState) (bool, error) { return false, ErrReadOnly }
func (cat *nopCatalog) PutMap(string, *MapState) error            { return ErrReadOnly }
func (cat *nopCatalog) GetMap(string) (*MapState, error)          { return nil, ErrMapNotFound }
func (cat *nopCatalog) Select(string, OnMapHit) error             { return nil }
func (cat *nopCatalog) Close() error {
	select {
	case <-cat.closed:
		return nil
	default:
	}
	if cat.err == nil {
		cat.ctx.DetachCatalog(cat)
	}
	close(cat.closed)
	return cat.err
}

func TestCatalogContextClosesCatalogs(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx := NewCatalogContext()
	cats := []*nopCatalog{}
	for i := 0; i < 3; i++ {
		cat := &nopCatalog{ctx: ctx, closed: make(chan struct{})}
		require.NoError(t, ctx.AttachCatalog(cat))
		cats = append(cats, cat)
	}

	// Detaching early must not block Done()
	require.NoError(t, cats[0].Close())

	// a catalog that fails to close is still let go of
	cats[1].err = ErrReadOnly
	require.ErrorIs(t, ctx.Close(), ErrReadOnly)
	require.NoError(t, ctx.Close())
	<-ctx.Done()

	for _, cat := range cats {
		<-cat.closed
	}

	late := &nopCatalog{ctx: ctx, closed: make(chan struct{})}
	require.ErrorIs(t, ctx.AttachCatalog(late), ErrCatalogClosed)
}

func TestCatalogContextEmpty(t *testing.T) {
	ctx := NewCatalogContext()
	select {
	case <-ctx.Done():
		t.Fatal("Done before Close")
	default:
	}
	require.NoError(t, ctx.Close())
	<-ctx.Done()
}

func TestParseCellKind(t *testing.T) {
	for kind := HalfEdge; kind < NumCellKinds; kind++ {
		parsed, err := ParseCellKind(kind.String())
		require.NoError(t, err)
		require.Equal(t, kind, parsed)
	}

	parsed, err := ParseCellKind("volume")
	require.NoError(t, err)
	require.Equal(t, Volume, parsed)

	_, err = ParseCellKind("hyperface")
	require.True(t, errors.Is(err, ErrBadCellKind))
}

func TestMapStateWire(t *testing.T) {
	st := &MapState{
		Encoding: int32(Combinatorial),
		Dim:      2,
		NumSlots: 4,
		Relations: []*RelationColumn{
			{Slot: 0, Darts: []uint32{0, 2, 3, 1}},
			{Slot: 1, Darts: []uint32{0, 3, 1, 2}},
		},
		Flags: []byte{0, FlagLive, FlagLive, FlagLive | FlagBoundary},
		Free:  []uint32{},
		Embeddings: []*EmbeddingColumn{
			{Kind: int32(Face), Indices: []uint32{0, 1, 1, 0}},
		},
	}

	buf, err := proto.Marshal(st)
	require.NoError(t, err)

	var got MapState
	require.NoError(t, proto.Unmarshal(buf, &got))

	// An empty repeated field decodes as nil
	st.Free = nil
	if diff := cmp.Diff(st, &got); diff != "" {
		t.Fatalf("MapState round trip (-want +got):\n%s", diff)
	}
}
